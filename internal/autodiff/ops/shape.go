package ops

import "github.com/born-ml/borncheck/internal/tensor"

// ReshapeOp records a reshape; the gradient is reshaped back.
type ReshapeOp struct {
	unaryOp
	origShape tensor.Shape
}

// NewReshapeOp creates a ReshapeOp.
func NewReshapeOp(x, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{unaryOp: unaryOp{input: x, output: output}, origShape: x.Shape().Clone()}
}

// Backward reshapes the gradient to the input's shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.origShape)}
}

// TransposeOp records a permutation of dimensions; the gradient is permuted
// with the inverse.
type TransposeOp struct {
	unaryOp
	axes []int
}

// NewTransposeOp creates a TransposeOp. axes must be the explicit permutation.
func NewTransposeOp(x, output *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{unaryOp: unaryOp{input: x, output: output}, axes: append([]int(nil), axes...)}
}

// Backward applies the inverse permutation.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(outputGrad, inverse...)}
}
