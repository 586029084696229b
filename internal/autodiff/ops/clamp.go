package ops

import (
	"fmt"

	"github.com/born-ml/adaround/internal/tensor"
)

// ClampOp represents output = clamp(x, lo, hi).
//
// The gradient is passed through where lo <= x <= hi and is zero where the
// input saturated. NaN inputs receive zero gradient.
type ClampOp struct {
	unary
	lo, hi float64
}

// NewClampOp creates a new ClampOp.
func NewClampOp(input, output *tensor.RawTensor, lo, hi float64) *ClampOp {
	return &ClampOp{unary: unary{input: input, output: output}, lo: lo, hi: hi}
}

// Backward masks outputGrad by the unsaturated region of the input.
func (op *ClampOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := outputGrad.Clone()

	switch grad.DType() {
	case tensor.Float32:
		g, x := grad.AsFloat32(), op.input.AsFloat32()
		for i := range g {
			if v := float64(x[i]); !(v >= op.lo && v <= op.hi) {
				g[i] = 0
			}
		}
	case tensor.Float64:
		g, x := grad.AsFloat64(), op.input.AsFloat64()
		for i := range g {
			if v := x[i]; !(v >= op.lo && v <= op.hi) {
				g[i] = 0
			}
		}
	default:
		panic(fmt.Sprintf("clamp backward: unsupported dtype %s", grad.DType()))
	}

	return []*tensor.RawTensor{grad}
}
