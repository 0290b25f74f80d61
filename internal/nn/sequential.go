package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/borncheck/internal/tensor"
)

// Sequential chains modules; each output feeds the next module's input.
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a container running modules in order.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{modules: modules}
}

// Len returns the number of modules.
func (s *Sequential[B]) Len() int { return len(s.modules) }

// Forward runs input through every module.
func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x := input
	for _, m := range s.modules {
		x = m.Forward(x)
	}
	return x
}

// Parameters collects the parameters of all modules in order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, m := range s.modules {
		params = append(params, m.Parameters()...)
	}
	return params
}

// NumParameters returns the total number of scalar weights.
func (s *Sequential[B]) NumParameters() int {
	n := 0
	for _, p := range s.Parameters() {
		n += p.NumElements()
	}
	return n
}

// String lists the modules, e.g. "Sequential(Linear(10 → 20), ReLU, Linear(20 → 5))".
func (s *Sequential[B]) String() string {
	names := make([]string, len(s.modules))
	for i, m := range s.modules {
		names[i] = fmt.Sprint(m)
	}
	return "Sequential(" + strings.Join(names, ", ") + ")"
}
