package cpu

import (
	"fmt"

	"github.com/born-ml/borncheck/internal/parallel"
	"github.com/born-ml/borncheck/internal/tensor"
)

type float interface {
	~float32 | ~float64
}

// binary dispatches an element-wise binary kernel on the operands' dtype.
func (cpu *CPUBackend) binary(name string, a, b *tensor.RawTensor, op func(x, y float64) float64) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", name, a.DType(), b.DType()))
	}
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result := a
	if needsBroadcast || !a.IsUnique() {
		result, err = tensor.NewRaw(outShape, a.DType(), cpu.device)
		if err != nil {
			panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
		}
	}

	switch a.DType() {
	case tensor.Float32:
		broadcastApply(cpu.par, result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, op)
	case tensor.Float64:
		broadcastApply(cpu.par, result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, op)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}
	return result
}

// unary allocates a result with x's shape and maps op over every element.
func (cpu *CPUBackend) unary(name string, x *tensor.RawTensor, op func(v float64) float64) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}
	switch x.DType() {
	case tensor.Float32:
		mapInto(cpu.par, result.AsFloat32(), x.AsFloat32(), op)
	case tensor.Float64:
		mapInto(cpu.par, result.AsFloat64(), x.AsFloat64(), op)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}
	return result
}

func mapInto[T float](par parallel.Config, dst, src []T, op func(v float64) float64) {
	parallel.Range(len(src), par, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = T(op(float64(src[i])))
		}
	})
}

// broadcastApply computes dst = op(a, b) where a and b are broadcast to outShape.
// dst may alias a when no broadcasting happens.
func broadcastApply[T float](par parallel.Config, dst, a, b []T, aShape, bShape, outShape tensor.Shape, op func(x, y float64) float64) {
	if aShape.Equal(bShape) {
		parallel.Range(len(dst), par, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				dst[i] = T(op(float64(a[i]), float64(b[i])))
			}
		})
		return
	}

	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)
	parallel.Range(len(dst), par, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			ai, bi := 0, 0
			rem := i
			for d, stride := range outStrides {
				coord := rem / stride
				rem %= stride
				ai += coord * aStrides[d]
				bi += coord * bStrides[d]
			}
			dst[i] = T(op(float64(a[ai]), float64(b[bi])))
		}
	})
}

// broadcastStrides returns strides of inShape laid out against outShape, with
// stride 0 for padded and size-1 dimensions.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	offset := len(outShape) - len(inShape)
	orig := inShape.ComputeStrides()
	for i := range outShape {
		in := i - offset
		if in < 0 || inShape[in] == 1 {
			continue
		}
		strides[i] = orig[in]
	}
	return strides
}

// transpose copies src into dst with dimensions permuted by axes.
func transpose[T float](dst, src []T, shape, newShape tensor.Shape, axes []int) {
	srcStrides := shape.ComputeStrides()
	dstStrides := newShape.ComputeStrides()
	for i := range dst {
		srcIdx := 0
		rem := i
		for d, stride := range dstStrides {
			coord := rem / stride
			rem %= stride
			srcIdx += coord * srcStrides[axes[d]]
		}
		dst[i] = src[srcIdx]
	}
}
