package ops

import (
	"fmt"

	"github.com/born-ml/adaround/internal/tensor"
)

// SumOp represents the full reduction output = Σ x.
// d(Σx)/dx_i = 1, so the scalar gradient is broadcast to the input shape.
type SumOp struct{ unary }

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{unary{input: input, output: output}}
}

// Backward broadcasts the scalar output gradient.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	var g float64
	switch outputGrad.DType() {
	case tensor.Float32:
		g = float64(outputGrad.AsFloat32()[0])
	case tensor.Float64:
		g = outputGrad.AsFloat64()[0]
	default:
		panic(fmt.Sprintf("sum backward: unsupported dtype %s", outputGrad.DType()))
	}
	return []*tensor.RawTensor{fillLike(op.input, g)}
}
