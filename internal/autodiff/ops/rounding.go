package ops

import "github.com/born-ml/adaround/internal/tensor"

// FloorOp represents output = floor(x). Its gradient is zero almost everywhere.
type FloorOp struct{ unary }

// NewFloorOp creates a new FloorOp.
func NewFloorOp(input, output *tensor.RawTensor) *FloorOp {
	return &FloorOp{unary{input: input, output: output}}
}

// Backward returns a zero gradient.
func (op *FloorOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{tensor.NewRawLike(outputGrad)}
}

// RoundOp represents output = round(x). Its gradient is zero almost everywhere.
type RoundOp struct{ unary }

// NewRoundOp creates a new RoundOp.
func NewRoundOp(input, output *tensor.RawTensor) *RoundOp {
	return &RoundOp{unary{input: input, output: output}}
}

// Backward returns a zero gradient.
func (op *RoundOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{tensor.NewRawLike(outputGrad)}
}

// RoundSTEOp rounds in the forward pass and treats rounding as the identity
// in the backward pass (straight-through estimator).
type RoundSTEOp struct{ unary }

// NewRoundSTEOp creates a new RoundSTEOp.
func NewRoundSTEOp(input, output *tensor.RawTensor) *RoundSTEOp {
	return &RoundSTEOp{unary{input: input, output: output}}
}

// Backward returns outputGrad unchanged.
func (op *RoundSTEOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad.Clone()}
}
