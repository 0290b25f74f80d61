// Package selfcheck runs the installation self-check: version report, device
// probe, timed matrix multiplication, gradient check and a network forward
// pass, in that order and exactly once.
package selfcheck

import (
	"io"
	"os"
	"time"

	"github.com/born-ml/borncheck/internal/backend/webgpu"
	"github.com/born-ml/borncheck/internal/device"
	"github.com/born-ml/borncheck/internal/tensor"
	"github.com/pkg/errors"
)

// Config parameterises a Runner. DefaultConfig reproduces the standard check.
type Config struct {
	// MatrixSize is the edge of the square matrices multiplied by the benchmark.
	MatrixSize int

	// GradientAt is the point x where d/dx (x² + 2x + 1) is evaluated.
	GradientAt float64
	// Tolerance is the allowed absolute error of the gradient.
	Tolerance float64

	// Network dimensions: Linear(In, Hidden) → ReLU → Linear(Hidden, Out),
	// fed a (BatchSize, In) batch.
	BatchSize      int
	InFeatures     int
	HiddenFeatures int
	OutFeatures    int

	// Device restricts the device selection made from the probe.
	Device device.Preference

	// Prober queries the accelerator; OpenAccelerator creates its backend
	// once the probe selected it.
	Prober          device.Prober
	OpenAccelerator func() (tensor.Backend, error)

	// Out receives the diagnostic lines.
	Out io.Writer
	// Clock timestamps the benchmark.
	Clock func() time.Time
}

// DefaultConfig returns the configuration of the standard self-check.
func DefaultConfig() Config {
	return Config{
		MatrixSize:      2000,
		GradientAt:      3,
		Tolerance:       1e-5,
		BatchSize:       4,
		InFeatures:      10,
		HiddenFeatures:  20,
		OutFeatures:     5,
		Device:          device.Auto,
		Prober:          webgpu.Prober{},
		OpenAccelerator: webgpu.Open,
		Out:             os.Stdout,
		Clock:           time.Now,
	}
}

// Validate checks that every dimension is positive and every hook is set.
func (c Config) Validate() error {
	for _, dim := range []struct {
		name  string
		value int
	}{
		{"matrix size", c.MatrixSize},
		{"batch size", c.BatchSize},
		{"input features", c.InFeatures},
		{"hidden features", c.HiddenFeatures},
		{"output features", c.OutFeatures},
	} {
		if dim.value <= 0 {
			return errors.Errorf("invalid config: %s must be positive, got %d", dim.name, dim.value)
		}
	}
	if c.Tolerance < 0 {
		return errors.Errorf("invalid config: tolerance must not be negative, got %g", c.Tolerance)
	}
	switch {
	case c.Out == nil:
		return errors.New("invalid config: Out is nil")
	case c.Clock == nil:
		return errors.New("invalid config: Clock is nil")
	case c.Prober != nil && c.OpenAccelerator == nil:
		return errors.New("invalid config: Prober set without OpenAccelerator")
	}
	return nil
}
