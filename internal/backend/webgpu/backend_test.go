//go:build windows

package webgpu_test

import (
	"testing"

	"github.com/born-ml/borncheck/internal/backend/cpu"
	"github.com/born-ml/borncheck/internal/backend/webgpu"
	"github.com/born-ml/borncheck/internal/device"
	"github.com/born-ml/borncheck/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *webgpu.Backend {
	t.Helper()
	if !webgpu.IsAvailable() {
		t.Skip("WebGPU not available")
	}
	b, err := webgpu.New()
	require.NoError(t, err)
	t.Cleanup(b.Release)
	return b
}

func TestProber(t *testing.T) {
	if !webgpu.IsAvailable() {
		t.Skip("WebGPU not available")
	}
	result, err := device.Probe(webgpu.Prober{})
	require.NoError(t, err)
	assert.True(t, result.Available)
	require.NotEmpty(t, result.Devices)
	for _, d := range result.Devices {
		t.Logf("[%d] %s (%s, %s)", d.Index, d, d.Backend, d.Description)
	}
}

func TestMatMul_ResidentUntilRead(t *testing.T) {
	b := newBackend(t)

	a := tensor.Randn[float32](tensor.Shape{37, 19}, b)
	c := tensor.Randn[float32](tensor.Shape{19, 23}, b)
	uploaded, err := tensor.Upload(b, a.Raw(), c.Raw())
	require.NoError(t, err)
	assert.True(t, uploaded)

	out := a.MatMul(c)
	require.Equal(t, tensor.Shape{37, 23}, out.Shape())
	assert.Equal(t, tensor.WebGPU, out.Device())

	synced, err := tensor.Synchronize(b)
	require.NoError(t, err)
	assert.True(t, synced)
	assert.True(t, out.Raw().IsPending(), "Synchronize must not copy results to the host")

	// Chained kernels read the resident result without a readback.
	activated := out.ReLU()
	assert.True(t, out.Raw().IsPending())

	want := cpu.New().MatMul(a.Raw(), c.Raw()).AsFloat32()
	assert.InDeltaSlice(t, want, out.Data(), 1e-3)
	assert.False(t, out.Raw().IsPending())
	for i, v := range activated.Data() {
		assert.InDelta(t, max(want[i], 0), v, 1e-3)
	}
}

func TestElementwise(t *testing.T) {
	b := newBackend(t)

	x, err := tensor.FromSlice([]float32{-1, 2, -3, 4}, tensor.Shape{2, 2}, b)
	require.NoError(t, err)
	y, err := tensor.FromSlice([]float32{10, 20, 30, 40}, tensor.Shape{2, 2}, b)
	require.NoError(t, err)

	assert.Equal(t, []float32{9, 22, 27, 44}, x.Add(y).Data())
	assert.Equal(t, []float32{-10, 40, -90, 160}, x.Mul(y).Data())
	assert.Equal(t, []float32{0, 2, 0, 4}, x.ReLU().Data())
	assert.Equal(t, []float32{-2, 4, -6, 8}, x.MulScalar(2).Data())
	assert.Equal(t, []float32{0, 3, -2, 5}, x.AddScalar(1).Data())

	bias, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{1, 2}, b)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 4, -2, 6}, x.Add(bias).Data())
	assert.Equal(t, []float32{-1, 2, -3, 4}, x.Data(), "host fallback must not write into its operands")
}
