//go:build windows

package webgpu

import (
	"fmt"

	"github.com/born-ml/borncheck/internal/device"
	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"
)

// Prober implements device.Prober for WebGPU adapters.
type Prober struct{}

var _ device.Prober = Prober{}

// Available reports whether an adapter can be requested.
func (Prober) Available() bool { return IsAvailable() }

// Devices lists the distinct adapters returned for each power preference.
// WebGPU has no enumeration call, so high-performance and low-power requests
// are merged by vendor and device ID.
func (Prober) Devices() (devices []device.Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			devices = nil
			err = errors.Wrapf(ErrUnavailable, "native library: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	seen := make(map[string]bool)
	for _, pref := range []wgpu.PowerPreference{wgpu.PowerPreferenceHighPerformance, wgpu.PowerPreferenceLowPower} {
		adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{PowerPreference: pref})
		if err != nil {
			continue
		}
		info := adapter.GetInfo()
		adapter.Release()

		key := fmt.Sprintf("%04x:%04x:%v", info.VendorID, info.DeviceID, info.BackendType)
		if seen[key] {
			continue
		}
		seen[key] = true
		devices = append(devices, device.Info{
			Name:        info.Device,
			Vendor:      info.Vendor,
			Description: info.Description,
			Backend:     fmt.Sprint(info.BackendType),
		})
	}
	if len(devices) == 0 {
		return nil, errors.Wrap(ErrUnavailable, "no adapter returned")
	}
	return devices, nil
}

// IsAvailable reports whether WebGPU can be used on this system.
func IsAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}
