package device_test

import (
	"errors"
	"testing"

	"github.com/born-ml/borncheck/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	available  bool
	devices    []device.Info
	err        error
	enumerated bool
}

func (f *fakeProber) Available() bool { return f.available }

func (f *fakeProber) Devices() ([]device.Info, error) {
	f.enumerated = true
	return f.devices, f.err
}

func TestProbe_Unavailable(t *testing.T) {
	p := &fakeProber{}
	result, err := device.Probe(p)
	require.NoError(t, err)

	assert.False(t, result.Available)
	assert.Empty(t, result.Devices)
	assert.Equal(t, device.DefaultProcessor, result.Selection)
	assert.False(t, p.enumerated, "enumeration must be skipped without an accelerator")
}

func TestProbe_NilProber(t *testing.T) {
	result, err := device.Probe(nil)
	require.NoError(t, err)
	assert.Equal(t, device.DefaultProcessor, result.Selection)
}

func TestProbe_Available(t *testing.T) {
	p := &fakeProber{available: true, devices: []device.Info{
		{Name: "GeForce RTX 4090", Vendor: "NVIDIA"},
		{Name: "Intel(R) UHD Graphics", Vendor: "Intel"},
	}}
	result, err := device.Probe(p)
	require.NoError(t, err)

	assert.True(t, result.Available)
	assert.Equal(t, device.Accelerated, result.Selection)
	require.Len(t, result.Devices, 2)
	assert.Equal(t, 0, result.Devices[0].Index)
	assert.Equal(t, 1, result.Devices[1].Index)
	assert.Equal(t, "GeForce RTX 4090 (NVIDIA)", result.Devices[0].String())
	assert.Equal(t, "Intel(R) UHD Graphics", result.Devices[1].String())
}

func TestProbe_EnumerationError(t *testing.T) {
	_, err := device.Probe(&fakeProber{available: true, err: errors.New("bad index")})
	assert.ErrorContains(t, err, "bad index")
}

func TestPreference(t *testing.T) {
	for in, want := range map[string]device.Preference{
		"": device.Auto, "auto": device.Auto, "CPU": device.PreferCPU, "gpu": device.PreferAccelerator,
	} {
		got, err := device.ParsePreference(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := device.ParsePreference("tpu")
	assert.Error(t, err)

	accelerated := device.ProbeResult{Available: true, Selection: device.Accelerated}
	none := device.ProbeResult{Selection: device.DefaultProcessor}

	sel, err := device.Auto.Select(accelerated)
	require.NoError(t, err)
	assert.Equal(t, device.Accelerated, sel)

	sel, err = device.PreferCPU.Select(accelerated)
	require.NoError(t, err)
	assert.Equal(t, device.DefaultProcessor, sel)

	_, err = device.PreferAccelerator.Select(none)
	assert.ErrorIs(t, err, device.ErrNoAccelerator)
}

func TestSelection_String(t *testing.T) {
	assert.Equal(t, "accelerated", device.Accelerated.String())
	assert.Equal(t, "default-processor", device.DefaultProcessor.String())
}
