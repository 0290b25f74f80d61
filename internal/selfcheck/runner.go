package selfcheck

import (
	"context"
	"fmt"

	"github.com/born-ml/borncheck/internal/backend/cpu"
	"github.com/born-ml/borncheck/internal/device"
	"github.com/born-ml/borncheck/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	// ErrShapeMismatch is returned when a step produces a tensor of the wrong
	// shape.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrGradientMismatch is returned when the computed gradient differs from
	// the analytic one by more than the tolerance.
	ErrGradientMismatch = errors.New("gradient mismatch")
)

// Runner executes the self-check steps on one backend.
type Runner struct {
	cfg     Config
	backend tensor.Backend
	report  Report
	ran     bool
}

// NewRunner validates cfg and returns a Runner. No device is touched until Run.
func NewRunner(cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg}, nil
}

// Run executes the five steps in order. The context is checked between steps;
// a step in progress is never interrupted. Run may only be called once.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.ran {
		return nil, errors.New("selfcheck: Run called twice")
	}
	r.ran = true

	steps := []struct {
		name string
		fn   func() error
	}{
		{"environment", r.environment},
		{"probe", r.probe},
		{"benchmark", r.benchmark},
		{"gradient", r.gradient},
		{"network", r.network},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return &r.report, errors.Wrapf(err, "before step %s", step.name)
		}
		klog.V(1).Infof("selfcheck: step %s", step.name)
		if err := step.fn(); err != nil {
			return &r.report, errors.WithMessagef(err, "step %s", step.name)
		}
	}
	return &r.report, nil
}

// Close releases the accelerator backend, if one was opened.
func (r *Runner) Close() {
	if rel, ok := r.backend.(interface{ Release() }); ok {
		rel.Release()
	}
	r.backend = nil
}

// selectBackend binds the backend for selection.
func (r *Runner) selectBackend(selection device.Selection) error {
	if selection != device.Accelerated {
		r.backend = cpu.New()
		return nil
	}
	b, err := r.cfg.OpenAccelerator()
	if err != nil {
		return errors.Wrap(err, "opening accelerator backend")
	}
	r.backend = b
	return nil
}

func (r *Runner) printf(format string, args ...any) {
	// Diagnostic output is best effort, like the fmt.Print family.
	_, _ = fmt.Fprintf(r.cfg.Out, format, args...)
}
