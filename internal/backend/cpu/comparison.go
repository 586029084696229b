package cpu

import (
	"fmt"

	"github.com/born-ml/adaround/internal/tensor"
)

// GreaterEqualScalar returns a bool tensor holding x >= scalar per element.
// NaN compares false.
func (cpu *CPUBackend) GreaterEqualScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat64("greaterEqualScalar", scalar)

	result, err := tensor.NewRaw(x.Shape(), tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("greaterEqualScalar: %v", err))
	}
	dst := result.AsBool()

	switch x.DType() {
	case tensor.Float32:
		src := x.AsFloat32()
		for i, v := range src {
			dst[i] = float64(v) >= s
		}
	case tensor.Float64:
		src := x.AsFloat64()
		for i, v := range src {
			dst[i] = v >= s
		}
	case tensor.Int32:
		src := x.AsInt32()
		for i, v := range src {
			dst[i] = float64(v) >= s
		}
	default:
		panic(fmt.Sprintf("greaterEqualScalar: unsupported dtype %s", x.DType()))
	}

	return result
}
