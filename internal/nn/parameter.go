package nn

import (
	"github.com/born-ml/borncheck/internal/tensor"
)

// Parameter is a named trainable tensor.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewParameter wraps an initialised tensor. The tensor is marked with
// RequireGrad so autodiff keeps its gradient.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{name: name, tensor: t.RequireGrad()}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string { return p.name }

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] { return p.tensor }

// NumElements returns the number of scalar weights in the parameter.
func (p *Parameter[B]) NumElements() int { return p.tensor.NumElements() }
