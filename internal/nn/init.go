package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/borncheck/internal/tensor"
	"github.com/janpfeifer/must"
)

// Xavier returns a tensor drawn from the Glorot uniform distribution
// U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))).
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = float32((rand.Float64()*2.0 - 1.0) * bound) //nolint:gosec // weight init is not security sensitive
	}
	return must.M1(tensor.FromSlice(data, shape, backend))
}
