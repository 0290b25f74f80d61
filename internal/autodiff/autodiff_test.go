package autodiff_test

import (
	"testing"

	"github.com/born-ml/borncheck/internal/autodiff"
	"github.com/born-ml/borncheck/internal/backend/cpu"
	"github.com/born-ml/borncheck/internal/tensor"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cpuAutodiff = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() cpuAutodiff {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()
	return backend
}

// TestAutodiffBackend_Name tests the Name method.
func TestAutodiffBackend_Name(t *testing.T) {
	backend := autodiff.New(cpu.New())
	assert.Equal(t, "Autodiff(CPU)", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())
}

// TestTape_Recording tests tape recording on/off.
func TestTape_Recording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	assert.False(t, tape.IsRecording())

	a := must.M1(tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend))
	a.Add(a)
	assert.Equal(t, 0, tape.NumOps(), "stopped tape must not record")

	tape.StartRecording()
	a.Add(a)
	assert.Equal(t, 1, tape.NumOps())

	tape.Clear()
	assert.Equal(t, 0, tape.NumOps())
	assert.True(t, tape.IsRecording(), "Clear keeps the recording state")
}

func TestBackward_Polynomial(t *testing.T) {
	for _, x0 := range []float32{-2, 0, 3, 10} {
		backend := newBackend()
		x := tensor.Scalar[float32](x0, backend).RequireGrad()
		y := x.Mul(x).Add(x.MulScalar(2)).AddScalar(1)

		autodiff.AttachGrads(autodiff.Backward(y, backend), x)

		require.NotNil(t, x.Grad())
		assert.InDelta(t, 2*x0+2, x.Grad().Item(), 1e-5, "d/dx (x²+2x+1) at %v", x0)
		assert.InDelta(t, x0*x0+2*x0+1, y.Item(), 1e-4)
	}
}

func TestBackward_Float64(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()
	x := tensor.Scalar[float64](3, backend).RequireGrad()
	y := x.Mul(x).Mul(x) // x³

	autodiff.AttachGrads(autodiff.Backward(y, backend), x)

	assert.InDelta(t, 27.0, x.Grad().Item(), 1e-12)
}

func TestBackward_MatMul(t *testing.T) {
	backend := newBackend()
	a := must.M1(tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)).RequireGrad()
	b := must.M1(tensor.FromSlice([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}, backend)).RequireGrad()

	c := a.MatMul(b)
	autodiff.AttachGrads(autodiff.Backward(c, backend), a, b)

	// With a ones seed: dA = 1 @ Bᵀ (row sums of B), dB = Aᵀ @ 1 (column sums of A).
	assert.Equal(t, []float32{11, 15, 11, 15}, a.Grad().Data())
	assert.Equal(t, []float32{4, 4, 6, 6}, b.Grad().Data())
}

func TestBackward_BroadcastBias(t *testing.T) {
	backend := newBackend()
	x := must.M1(tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend))
	bias := must.M1(tensor.FromSlice([]float32{0, 0, 0}, tensor.Shape{3}, backend)).RequireGrad()

	y := x.Add(bias.Reshape(1, 3))
	autodiff.AttachGrads(autodiff.Backward(y, backend), bias)

	require.NotNil(t, bias.Grad())
	assert.Equal(t, tensor.Shape{3}, bias.Grad().Shape())
	assert.Equal(t, []float32{2, 2, 2}, bias.Grad().Data())
}

func TestBackward_ReLUAndTranspose(t *testing.T) {
	backend := newBackend()
	x := must.M1(tensor.FromSlice([]float32{-1, 2, -3, 4, 5, -6}, tensor.Shape{2, 3}, backend)).RequireGrad()

	y := x.T().ReLU()
	autodiff.AttachGrads(autodiff.Backward(y, backend), x)

	assert.Equal(t, tensor.Shape{2, 3}, x.Grad().Shape())
	assert.Equal(t, []float32{0, 1, 0, 1, 1, 0}, x.Grad().Data())
}

func TestBackward_PanicsWithoutRecording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	x := tensor.Scalar[float32](1, backend)
	assert.Panics(t, func() { autodiff.Backward(x.MulScalar(2), backend) })
}

func TestAttachGrads_SkipsUntracked(t *testing.T) {
	backend := newBackend()
	x := tensor.Scalar[float32](2, backend)
	y := x.MulScalar(5)

	autodiff.AttachGrads(autodiff.Backward(y, backend), x)

	assert.Nil(t, x.Grad())
}

func TestForwardDoesNotMutateInputs(t *testing.T) {
	backend := newBackend()
	a := must.M1(tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend))
	b := must.M1(tensor.FromSlice([]float32{10, 20}, tensor.Shape{2}, backend))

	_ = a.Add(b)

	assert.Equal(t, []float32{1, 2}, a.Data())
}
