// Package device decides where the self-check allocates its tensors.
//
// A Prober reports whether an accelerator is usable and enumerates its
// devices; Probe turns that into a Selection which every later step honours.
package device

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Selection is the device class chosen once at start-up.
type Selection int

const (
	// DefaultProcessor runs everything on the host CPU.
	DefaultProcessor Selection = iota
	// Accelerated runs tensor kernels on the GPU backend.
	Accelerated
)

// String returns the selection name.
func (s Selection) String() string {
	switch s {
	case DefaultProcessor:
		return "default-processor"
	case Accelerated:
		return "accelerated"
	default:
		return fmt.Sprintf("Selection(%d)", int(s))
	}
}

// Info describes one enumerated accelerator.
type Info struct {
	Index       int
	Name        string
	Vendor      string
	Description string
	Backend     string
}

// String returns the human-readable device name, with the vendor when the
// name alone does not mention it.
func (i Info) String() string {
	if i.Vendor == "" || strings.Contains(strings.ToLower(i.Name), strings.ToLower(i.Vendor)) {
		return i.Name
	}
	return i.Name + " (" + i.Vendor + ")"
}

// Prober queries an acceleration runtime.
type Prober interface {
	// Available reports whether the accelerator can be used at all.
	Available() bool
	// Devices enumerates usable devices. Only called when Available is true.
	Devices() ([]Info, error)
}

// ProbeResult is the outcome of Probe.
type ProbeResult struct {
	Available bool
	Devices   []Info
	Selection Selection
}

// Probe asks p for availability and, only if available, enumerates devices.
// An unavailable accelerator is a normal outcome and selects
// DefaultProcessor; an enumeration failure is returned as an error.
func Probe(p Prober) (ProbeResult, error) {
	if p == nil || !p.Available() {
		return ProbeResult{Selection: DefaultProcessor}, nil
	}
	devices, err := p.Devices()
	if err != nil {
		return ProbeResult{}, errors.Wrap(err, "enumerating accelerator devices")
	}
	for i := range devices {
		devices[i].Index = i
	}
	selection := Accelerated
	if len(devices) == 0 {
		selection = DefaultProcessor
	}
	return ProbeResult{Available: true, Devices: devices, Selection: selection}, nil
}
