//go:build !windows

package webgpu_test

import (
	"testing"

	"github.com/born-ml/borncheck/internal/backend/webgpu"
	"github.com/born-ml/borncheck/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubReportsUnavailable(t *testing.T) {
	assert.False(t, webgpu.IsAvailable())

	result, err := device.Probe(webgpu.Prober{})
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, device.DefaultProcessor, result.Selection)

	b, err := webgpu.Open()
	assert.ErrorIs(t, err, webgpu.ErrUnavailable)
	assert.Nil(t, b)
}
