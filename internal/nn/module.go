// Package nn implements the neural network building blocks used by the
// network smoke test: Linear, ReLU and the Sequential container.
package nn

import (
	"github.com/born-ml/borncheck/internal/tensor"
)

// Module is a neural network component.
//
//	model := nn.NewSequential[B](
//	    nn.NewLinear(10, 20, backend),
//	    nn.NewReLU[B](),
//	    nn.NewLinear(20, 5, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the module output for input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters, nested ones included.
	Parameters() []*Parameter[B]
}
