package ops

import (
	"fmt"

	"github.com/born-ml/adaround/internal/tensor"
)

// fillLike allocates a tensor shaped like ref and filled with value.
func fillLike(ref *tensor.RawTensor, value float64) *tensor.RawTensor {
	out := tensor.NewRawLike(ref)
	out.Fill(value)
	return out
}

// negOne returns -1 typed to match t's dtype, for use as a scalar operand.
func negOne(t *tensor.RawTensor) any {
	switch t.DType() {
	case tensor.Float32:
		return float32(-1)
	case tensor.Float64:
		return float64(-1)
	default:
		panic(fmt.Sprintf("negOne: unsupported dtype %s", t.DType()))
	}
}
