package ops

import "github.com/born-ml/borncheck/internal/tensor"

// MulOp records output = a * b (element-wise).
type MulOp struct{ binaryOp }

// NewMulOp creates a MulOp.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{binaryOp{inputs: []*tensor.RawTensor{a, b}, output: output}}
}

// Backward returns grad*b for a and grad*a for b.
func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	gradA := reduceBroadcast(backend.Mul(outputGrad, b), a.Shape())
	gradB := reduceBroadcast(backend.Mul(outputGrad, a), b.Shape())

	return []*tensor.RawTensor{gradA, gradB}
}
