package device

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrNoAccelerator is returned when an accelerator is required but the probe
// found none.
var ErrNoAccelerator = errors.New("no accelerator available")

// Preference is the user's device request, usually from the -device flag.
type Preference int

// Device preferences.
const (
	Auto Preference = iota
	PreferCPU
	PreferAccelerator
)

// ParsePreference parses "auto", "cpu" or "gpu".
func ParsePreference(s string) (Preference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "cpu":
		return PreferCPU, nil
	case "gpu", "webgpu", "accelerator":
		return PreferAccelerator, nil
	default:
		return Auto, errors.Errorf("unknown device %q, want one of auto, cpu or gpu", s)
	}
}

// String returns the flag spelling of the preference.
func (p Preference) String() string {
	switch p {
	case PreferCPU:
		return "cpu"
	case PreferAccelerator:
		return "gpu"
	default:
		return "auto"
	}
}

// Select applies p to a probe result.
func (p Preference) Select(result ProbeResult) (Selection, error) {
	switch p {
	case PreferCPU:
		return DefaultProcessor, nil
	case PreferAccelerator:
		if result.Selection != Accelerated {
			return DefaultProcessor, ErrNoAccelerator
		}
		return Accelerated, nil
	default:
		return result.Selection, nil
	}
}
