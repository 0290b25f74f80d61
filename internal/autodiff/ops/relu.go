package ops

import (
	"fmt"

	"github.com/born-ml/borncheck/internal/tensor"
)

// ReLUOp records output = max(0, x).
type ReLUOp struct{ unaryOp }

// NewReLUOp creates a ReLUOp.
func NewReLUOp(x, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{unaryOp{input: x, output: output}}
}

// Backward masks the gradient with (x > 0).
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, reluMask(op.input))}
}

func reluMask(input *tensor.RawTensor) *tensor.RawTensor {
	mask, err := tensor.NewRaw(input.Shape(), input.DType(), input.Device())
	if err != nil {
		panic(fmt.Sprintf("relu: failed to create mask: %v", err))
	}

	switch input.DType() {
	case tensor.Float32:
		m := mask.AsFloat32()
		for i, v := range input.AsFloat32() {
			if v > 0 {
				m[i] = 1
			}
		}
	case tensor.Float64:
		m := mask.AsFloat64()
		for i, v := range input.AsFloat64() {
			if v > 0 {
				m[i] = 1
			}
		}
	default:
		panic(fmt.Sprintf("relu: unsupported dtype %s", input.DType()))
	}
	return mask
}
