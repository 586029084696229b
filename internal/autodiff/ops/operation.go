// Package ops defines the differentiable operations recorded on a gradient tape.
//
// Each operation keeps its inputs and output from the forward pass and, given
// the gradient of the output, returns the gradients of its inputs:
//   - AddOp, SubOp, MulOp, DivOp: element-wise arithmetic
//   - MulScalarOp, AddScalarOp, DivScalarOp: arithmetic with a constant
//   - SigmoidOp: σ'(x) = σ(x)(1 - σ(x))
//   - ClampOp: gradient passes only inside [lo, hi]
//   - FloorOp, RoundOp: piecewise constant, zero gradient
//   - RoundSTEOp: straight-through estimator, identity gradient
//   - SumOp: broadcasts the scalar gradient back to the input shape
package ops

import "github.com/born-ml/adaround/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns one gradient per input, in the order of Inputs().
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}

// unary holds the bookkeeping shared by single-input operations.
type unary struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// Inputs returns the single input tensor.
func (u unary) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{u.input}
}

// Output returns the output tensor.
func (u unary) Output() *tensor.RawTensor {
	return u.output
}

// binary holds the bookkeeping shared by two-input operations.
type binary struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// Inputs returns the input tensors [a, b].
func (b binary) Inputs() []*tensor.RawTensor {
	return b.inputs
}

// Output returns the output tensor.
func (b binary) Output() *tensor.RawTensor {
	return b.output
}
