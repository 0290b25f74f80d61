package autodiff

import (
	"fmt"

	"github.com/born-ml/borncheck/internal/tensor"
)

// BackwardCapable is a backend that owns a gradient tape.
type BackwardCapable interface {
	tensor.Backend
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward differentiates t with respect to everything recorded on the
// backend's tape, seeding the pass with ones of t's shape. For a scalar t the
// result holds dt/dx for each recorded input x, keyed by x.Raw().
//
// Panics if nothing was recorded, which usually means
// Tape().StartRecording() was never called.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}

	seed, err := tensor.NewRaw(t.Shape(), t.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("backward: failed to create output gradient: %v", err))
	}
	switch t.DType() {
	case tensor.Float32:
		for i, data := 0, seed.AsFloat32(); i < len(data); i++ {
			data[i] = 1
		}
	case tensor.Float64:
		for i, data := 0, seed.AsFloat64(); i < len(data); i++ {
			data[i] = 1
		}
	default:
		panic(fmt.Sprintf("backward: unsupported dtype %s", t.DType()))
	}

	return tape.Backward(t.Raw(), seed, backend)
}

// AttachGrads stores the gradient from grads on each tensor marked with
// RequireGrad. Tensors without a gradient in grads keep a nil Grad.
func AttachGrads[T tensor.DType, B tensor.Backend](grads map[*tensor.RawTensor]*tensor.RawTensor, tensors ...*tensor.Tensor[T, B]) {
	for _, t := range tensors {
		if !t.RequiresGrad() {
			continue
		}
		if g, ok := grads[t.Raw()]; ok {
			t.SetGrad(tensor.New[T, B](g, t.Backend()))
		}
	}
}
