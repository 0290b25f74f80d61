package nn_test

import (
	"math"
	"testing"

	"github.com/born-ml/borncheck/internal/autodiff"
	"github.com/born-ml/borncheck/internal/backend/cpu"
	"github.com/born-ml/borncheck/internal/nn"
	"github.com/born-ml/borncheck/internal/tensor"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendT = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// TestParameter tests Parameter creation and methods.
func TestParameter(t *testing.T) {
	backend := autodiff.New(cpu.New())
	data := must.M1(tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend))
	param := nn.NewParameter("test_param", data)

	assert.Equal(t, "test_param", param.Name())
	assert.Same(t, data, param.Tensor())
	assert.True(t, data.RequiresGrad())
	assert.Nil(t, param.Tensor().Grad())
	assert.Equal(t, 3, param.NumElements())
}

func TestXavier_Bounds(t *testing.T) {
	w := nn.Xavier(10, 20, tensor.Shape{20, 10}, cpu.New())
	bound := float32(math.Sqrt(6.0 / 30.0))
	for _, v := range w.Data() {
		assert.LessOrEqual(t, v, bound)
		assert.GreaterOrEqual(t, v, -bound)
	}
}

func TestLinear_Forward(t *testing.T) {
	backend := autodiff.New(cpu.New())
	layer := nn.NewLinear(3, 2, backend)
	params := layer.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "weight", params[0].Name())
	assert.Equal(t, tensor.Shape{2, 3}, params[0].Tensor().Shape())
	assert.Equal(t, "bias", params[1].Name())
	copy(params[0].Tensor().Data(), []float32{1, 0, 0, 0, 1, 1})
	copy(params[1].Tensor().Data(), []float32{0.5, -1})

	input := must.M1(tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend))
	output := layer.Forward(input)

	require.Equal(t, tensor.Shape{2, 2}, output.Shape())
	assert.Equal(t, []float32{1.5, 4, 4.5, 10}, output.Data())
	assert.Equal(t, "Linear(3 → 2)", layer.String())
}

func TestLinear_WrongInputPanics(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(3, 2, backend)
	assert.Panics(t, func() { layer.Forward(tensor.Zeros[float32](tensor.Shape{2, 4}, backend)) })
	assert.Panics(t, func() { layer.Forward(tensor.Zeros[float32](tensor.Shape{3}, backend)) })
}

func TestReLU(t *testing.T) {
	backend := cpu.New()
	relu := nn.NewReLU[*cpu.CPUBackend]()
	x := must.M1(tensor.FromSlice([]float32{-1, 0, 2}, tensor.Shape{3}, backend))

	assert.Equal(t, []float32{0, 0, 2}, relu.Forward(x).Data())
	assert.Empty(t, relu.Parameters())
}

// TestSequential tests the three-layer network used by the smoke test.
func TestSequential(t *testing.T) {
	backend := autodiff.New(cpu.New())
	first := nn.NewLinear(10, 20, backend)
	model := nn.NewSequential[backendT](first, nn.NewReLU[backendT](), nn.NewLinear(20, 5, backend))

	assert.Equal(t, 3, model.Len())
	assert.Same(t, first.Parameters()[0], model.Parameters()[0])
	assert.Len(t, model.Parameters(), 4)
	assert.Equal(t, 10*20+20+20*5+5, model.NumParameters())
	assert.Equal(t, "Sequential(Linear(10 → 20), ReLU, Linear(20 → 5))", model.String())

	input := tensor.Randn[float32](tensor.Shape{4, 10}, backend)
	output := model.Forward(input)
	assert.Equal(t, tensor.Shape{4, 5}, output.Shape())
}

func TestSequential_Empty(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential[*cpu.CPUBackend]()
	assert.Equal(t, 0, model.Len())

	input := tensor.Randn[float32](tensor.Shape{3, 4}, backend)
	assert.Same(t, input, model.Forward(input))
}

func TestSequential_GradientsReachParameters(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()
	model := nn.NewSequential[backendT](nn.NewLinear(3, 4, backend), nn.NewReLU[backendT](), nn.NewLinear(4, 1, backend))

	output := model.Forward(tensor.Randn[float32](tensor.Shape{2, 3}, backend))
	grads := autodiff.Backward(output, backend)
	for _, p := range model.Parameters() {
		autodiff.AttachGrads(grads, p.Tensor())
		g := p.Tensor().Grad()
		require.NotNil(t, g, "parameter %s has no gradient", p.Name())
		assert.Equal(t, p.Tensor().Shape(), g.Shape())
	}
}
