// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation and adds gradient tracking
// through a GradientTape. Differentiable operations are forwarded to the inner
// backend and recorded while the tape is recording; comparisons, casts and
// sampling are forwarded without recording, which cuts the gradient there.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	x, _ := tensor.FromSlice([]float32{2.0}, tensor.Shape{1}, backend)
//	y := x.Mul(x).Sum()
//	grads := autodiff.Backward(y, backend)
//	fmt.Println(grads[x.Raw()].AsFloat32()) // [4]
package autodiff

import (
	"math/rand/v2"

	"github.com/born-ml/adaround/internal/autodiff/ops"
	"github.com/born-ml/adaround/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(a, c)
	b.tape.Record(ops.NewAddOp(a, c, result))
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(a, c)
	b.tape.Record(ops.NewSubOp(a, c, result))
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(a, c)
	b.tape.Record(ops.NewMulOp(a, c, result))
	return result
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Div(a, c)
	b.tape.Record(ops.NewDivOp(a, c, result))
	return result
}

// MulScalar multiplies by a constant and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := b.inner.MulScalar(x, scalar)
	b.tape.Record(ops.NewMulScalarOp(x, result, scalar))
	return result
}

// AddScalar adds a constant and records the operation.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := b.inner.AddScalar(x, scalar)
	b.tape.Record(ops.NewAddScalarOp(x, result))
	return result
}

// SubScalar subtracts a constant and records the operation.
func (b *AutodiffBackend[B]) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := b.inner.SubScalar(x, scalar)
	b.tape.Record(ops.NewAddScalarOp(x, result))
	return result
}

// DivScalar divides by a constant and records the operation.
func (b *AutodiffBackend[B]) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := b.inner.DivScalar(x, scalar)
	b.tape.Record(ops.NewDivScalarOp(x, result, scalar))
	return result
}

// Floor rounds down and records a zero-gradient operation.
func (b *AutodiffBackend[B]) Floor(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Floor(x)
	b.tape.Record(ops.NewFloorOp(x, result))
	return result
}

// Round rounds to nearest and records a zero-gradient operation.
func (b *AutodiffBackend[B]) Round(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Round(x)
	b.tape.Record(ops.NewRoundOp(x, result))
	return result
}

// RoundSTE rounds to nearest and records an identity-gradient operation.
func (b *AutodiffBackend[B]) RoundSTE(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.RoundSTE(x)
	b.tape.Record(ops.NewRoundSTEOp(x, result))
	return result
}

// Sigmoid applies σ(x) = 1 / (1 + exp(-x)) and records the operation.
func (b *AutodiffBackend[B]) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sigmoid(x)
	b.tape.Record(ops.NewSigmoidOp(x, result))
	return result
}

// Clamp limits values to [lo, hi] and records the operation.
func (b *AutodiffBackend[B]) Clamp(x *tensor.RawTensor, lo, hi any) *tensor.RawTensor {
	result := b.inner.Clamp(x, lo, hi)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewClampOp(x, result, scalarFloat(lo), scalarFloat(hi)))
	}
	return result
}

// Sum reduces to a scalar and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sum(x)
	b.tape.Record(ops.NewSumOp(x, result))
	return result
}

// GreaterEqualScalar is not differentiable and is not recorded.
func (b *AutodiffBackend[B]) GreaterEqualScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.inner.GreaterEqualScalar(x, scalar)
}

// Cast is not recorded; gradients do not flow through type conversions.
func (b *AutodiffBackend[B]) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	return b.inner.Cast(x, dtype)
}

// Bernoulli sampling is not differentiable and is not recorded.
func (b *AutodiffBackend[B]) Bernoulli(p *tensor.RawTensor, rng *rand.Rand) *tensor.RawTensor {
	return b.inner.Bernoulli(p, rng)
}

func scalarFloat(v any) float64 {
	switch s := v.(type) {
	case float32:
		return float64(s)
	case float64:
		return s
	case int:
		return float64(s)
	case int32:
		return float64(s)
	default:
		panic("clamp: unsupported bound type")
	}
}
