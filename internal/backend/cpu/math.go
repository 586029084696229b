package cpu

import (
	"math"

	"github.com/born-ml/adaround/internal/tensor"
)

// Floor rounds each element toward negative infinity.
func (cpu *CPUBackend) Floor(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("floor", x, math.Floor)
}

// Round rounds each element to the nearest integer, ties to even.
func (cpu *CPUBackend) Round(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("round", x, math.RoundToEven)
}

// RoundSTE is Round on a plain backend; the straight-through gradient only
// exists when the backend is wrapped by autodiff.
func (cpu *CPUBackend) RoundSTE(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("roundSTE", x, math.RoundToEven)
}

// Sigmoid computes 1 / (1 + exp(-x)) element-wise.
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sigmoid", x, sigmoid)
}

// Clamp limits each element to [lo, hi]. NaN passes through unchanged.
func (cpu *CPUBackend) Clamp(x *tensor.RawTensor, lo, hi any) *tensor.RawTensor {
	l := toFloat64("clamp", lo)
	h := toFloat64("clamp", hi)
	return cpu.unary("clamp", x, func(v float64) float64 {
		switch {
		case v < l:
			return l
		case v > h:
			return h
		default:
			return v
		}
	})
}

func sigmoid(v float64) float64 {
	return 1.0 / (1.0 + math.Exp(-v))
}
