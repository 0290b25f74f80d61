//go:build !windows

package webgpu

import (
	"github.com/born-ml/borncheck/internal/device"
	"github.com/born-ml/borncheck/internal/tensor"
)

// Prober reports the WebGPU accelerator as unavailable on this platform.
type Prober struct{}

// Available always returns false.
func (Prober) Available() bool { return false }

// Devices returns no devices.
func (Prober) Devices() ([]device.Info, error) { return nil, nil }

// IsAvailable always returns false on this platform.
func IsAvailable() bool { return false }

// Open always fails with ErrUnavailable on this platform.
func Open() (tensor.Backend, error) {
	return nil, ErrUnavailable
}
