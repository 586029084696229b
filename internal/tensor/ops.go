package tensor

import "math/rand/v2"

// Add performs element-wise addition. Shapes must match.
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub performs element-wise subtraction. Shapes must match.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul performs element-wise multiplication. Shapes must match.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Mul(t.raw, other.raw), t.backend)
}

// Div performs element-wise division. Shapes must match.
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Div(t.raw, other.raw), t.backend)
}

// MulScalar multiplies each element by a scalar.
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.MulScalar(t.raw, scalar), t.backend)
}

// AddScalar adds a scalar to each element.
func (t *Tensor[T, B]) AddScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.AddScalar(t.raw, scalar), t.backend)
}

// SubScalar subtracts a scalar from each element.
func (t *Tensor[T, B]) SubScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.SubScalar(t.raw, scalar), t.backend)
}

// DivScalar divides each element by a scalar.
func (t *Tensor[T, B]) DivScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.DivScalar(t.raw, scalar), t.backend)
}

// Floor rounds each element toward negative infinity.
func (t *Tensor[T, B]) Floor() *Tensor[T, B] {
	return New[T, B](t.backend.Floor(t.raw), t.backend)
}

// Round rounds each element to the nearest integer, ties to even.
func (t *Tensor[T, B]) Round() *Tensor[T, B] {
	return New[T, B](t.backend.Round(t.raw), t.backend)
}

// RoundSTE rounds like Round in the forward pass but lets gradients pass
// through unchanged (straight-through estimator).
func (t *Tensor[T, B]) RoundSTE() *Tensor[T, B] {
	return New[T, B](t.backend.RoundSTE(t.raw), t.backend)
}

// Sigmoid applies 1 / (1 + exp(-x)) element-wise.
func (t *Tensor[T, B]) Sigmoid() *Tensor[T, B] {
	return New[T, B](t.backend.Sigmoid(t.raw), t.backend)
}

// Clamp limits each element to [lo, hi].
func (t *Tensor[T, B]) Clamp(lo, hi T) *Tensor[T, B] {
	return New[T, B](t.backend.Clamp(t.raw, lo, hi), t.backend)
}

// GreaterEqualScalar returns a bool tensor with x >= scalar per element.
func (t *Tensor[T, B]) GreaterEqualScalar(scalar T) *Tensor[bool, B] {
	return New[bool, B](t.backend.GreaterEqualScalar(t.raw, scalar), t.backend)
}

// Sum returns the sum of all elements as a scalar tensor.
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	return New[T, B](t.backend.Sum(t.raw), t.backend)
}

// Bernoulli draws, per element, 1 with probability equal to the element
// value and 0 otherwise. Values outside [0, 1] saturate.
func (t *Tensor[T, B]) Bernoulli(rng *rand.Rand) *Tensor[T, B] {
	return New[T, B](t.backend.Bernoulli(t.raw, rng), t.backend)
}

// Float32 casts the tensor to float32 (true -> 1, false -> 0).
func (t *Tensor[T, B]) Float32() *Tensor[float32, B] {
	return New[float32, B](t.backend.Cast(t.raw, Float32), t.backend)
}

// Float64 casts the tensor to float64.
func (t *Tensor[T, B]) Float64() *Tensor[float64, B] {
	return New[float64, B](t.backend.Cast(t.raw, Float64), t.backend)
}
