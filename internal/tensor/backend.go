package tensor

import "math/rand/v2"

// Backend defines the interface that all compute backends must implement.
//
// All binary operations require identical shapes; per-channel quantities are
// expanded to the full domain shape before they reach a backend.
type Backend interface {
	// Element-wise binary operations
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Rounding
	Floor(x *RawTensor) *RawTensor
	Round(x *RawTensor) *RawTensor    // round half to even
	RoundSTE(x *RawTensor) *RawTensor // forward: round, backward: identity

	// Activation and range
	Sigmoid(x *RawTensor) *RawTensor
	Clamp(x *RawTensor, lo, hi any) *RawTensor

	// Comparison (returns bool tensor)
	GreaterEqualScalar(x *RawTensor, scalar any) *RawTensor

	// Reduction
	Sum(x *RawTensor) *RawTensor // total sum (scalar result)

	// Sampling
	Bernoulli(p *RawTensor, rng *rand.Rand) *RawTensor // 1 with probability p, else 0

	// Type conversion
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
