package cpu

import (
	"fmt"

	"github.com/born-ml/adaround/internal/tensor"
)

// Cast converts a tensor to another data type.
// Bool maps to 1/0, float to int32 truncates toward zero, any to bool is x != 0.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x.Clone()
	}

	result, err := tensor.NewRaw(x.Shape(), dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cast: %v", err))
	}

	values := readAsFloat64(x)

	switch dtype {
	case tensor.Float32:
		dst := result.AsFloat32()
		for i, v := range values {
			dst[i] = float32(v)
		}
	case tensor.Float64:
		copy(result.AsFloat64(), values)
	case tensor.Int32:
		dst := result.AsInt32()
		for i, v := range values {
			dst[i] = int32(v)
		}
	case tensor.Bool:
		dst := result.AsBool()
		for i, v := range values {
			dst[i] = v != 0
		}
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %s", dtype))
	}

	return result
}

// readAsFloat64 copies any tensor's elements into a float64 slice.
func readAsFloat64(x *tensor.RawTensor) []float64 {
	out := make([]float64, x.NumElements())

	switch x.DType() {
	case tensor.Float32:
		for i, v := range x.AsFloat32() {
			out[i] = float64(v)
		}
	case tensor.Float64:
		copy(out, x.AsFloat64())
	case tensor.Int32:
		for i, v := range x.AsInt32() {
			out[i] = float64(v)
		}
	case tensor.Bool:
		for i, v := range x.AsBool() {
			if v {
				out[i] = 1
			}
		}
	default:
		panic(fmt.Sprintf("cast: unsupported source dtype %s", x.DType()))
	}

	return out
}
