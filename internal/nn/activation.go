package nn

import (
	"github.com/born-ml/borncheck/internal/tensor"
)

// ReLU applies max(0, x) element-wise.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.ReLU()
}

// Parameters returns nil; ReLU has no weights.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// String describes the module.
func (r *ReLU[B]) String() string { return "ReLU" }
