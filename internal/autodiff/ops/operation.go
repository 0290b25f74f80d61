// Package ops defines the differentiable operations recorded on a gradient tape.
//
// Each operation keeps its inputs and output from the forward pass and
// computes input gradients from the output gradient:
//   - AddOp: d(a+b)/da = 1, d(a+b)/db = 1
//   - MulOp: d(a*b)/da = b, d(a*b)/db = a
//   - AddScalarOp, MulScalarOp: d(x+c)/dx = 1, d(x*c)/dx = c
//   - MatMulOp: dA = grad @ Bᵀ, dB = Aᵀ @ grad
//   - ReLUOp: 1 where x > 0, else 0
//   - ReshapeOp, TransposeOp: route the gradient back to the input layout
package ops

import "github.com/born-ml/borncheck/internal/tensor"

// Operation is a differentiable operation in the computation graph.
type Operation interface {
	// Backward returns one gradient per input, in the order of Inputs.
	// A nil entry means no gradient flows to that input.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the operation's input tensors.
	Inputs() []*tensor.RawTensor

	// Output returns the tensor produced by the forward pass.
	Output() *tensor.RawTensor
}

// binaryOp holds the bookkeeping shared by two-input operations.
type binaryOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

func (op *binaryOp) Inputs() []*tensor.RawTensor { return op.inputs }

func (op *binaryOp) Output() *tensor.RawTensor { return op.output }

// unaryOp holds the bookkeeping shared by single-input operations.
type unaryOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

func (op *unaryOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

func (op *unaryOp) Output() *tensor.RawTensor { return op.output }
