package ops

import (
	"fmt"

	"github.com/born-ml/borncheck/internal/tensor"
)

// reduceBroadcast sums grad down to target, undoing forward broadcasting.
//
//	Forward:  a(3, 1) + b(3, 4) → c(3, 4)
//	Backward: grad_c(3, 4) → grad_a(3, 1), summed along dimension 1
//
// When the shapes already match the result is a clone, so later in-place
// accumulation cannot alias the caller's gradient.
func reduceBroadcast(grad *tensor.RawTensor, target tensor.Shape) *tensor.RawTensor {
	if grad.Shape().Equal(target) {
		return grad.Clone()
	}

	result, err := tensor.NewRaw(target, grad.DType(), grad.Device())
	if err != nil {
		panic(fmt.Sprintf("reduceBroadcast: %v", err))
	}

	switch grad.DType() {
	case tensor.Float32:
		sumInto(result.AsFloat32(), grad.AsFloat32(), grad.Shape(), target)
	case tensor.Float64:
		sumInto(result.AsFloat64(), grad.AsFloat64(), grad.Shape(), target)
	default:
		panic(fmt.Sprintf("reduceBroadcast: unsupported dtype %s", grad.DType()))
	}
	return result
}

// sumInto accumulates src (with shape srcShape) into dst, where target is
// srcShape with some dimensions collapsed to 1 or dropped from the front.
func sumInto[T float32 | float64](dst, src []T, srcShape, target tensor.Shape) {
	srcStrides := srcShape.ComputeStrides()
	dstStrides := make([]int, len(srcShape))
	offset := len(srcShape) - len(target)
	targetStrides := target.ComputeStrides()
	for d := range srcShape {
		t := d - offset
		if t < 0 || target[t] == 1 {
			continue
		}
		dstStrides[d] = targetStrides[t]
	}

	for i, v := range src {
		idx := 0
		rem := i
		for d, stride := range srcStrides {
			coord := rem / stride
			rem %= stride
			idx += coord * dstStrides[d]
		}
		dst[idx] += v
	}
}
