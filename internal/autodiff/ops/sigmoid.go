package ops

import "github.com/born-ml/adaround/internal/tensor"

// SigmoidOp represents the sigmoid activation: σ(x) = 1 / (1 + exp(-x)).
type SigmoidOp struct{ unary }

// NewSigmoidOp creates a new sigmoid operation.
func NewSigmoidOp(input, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{unary{input: input, output: output}}
}

// Backward computes grad_input = grad_output * σ(x) * (1 - σ(x)),
// reusing the stored output σ(x).
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	ones := fillLike(op.output, 1)
	derivative := backend.Mul(op.output, backend.Sub(ones, op.output))
	return []*tensor.RawTensor{backend.Mul(outputGrad, derivative)}
}
