package adaround

import "math"

// Parameters of the rectified sigmoid h(v) = clamp(σ(v)·(Zeta-Gamma) + Gamma, 0, 1).
// Stretching σ to (Gamma, Zeta) and clipping lets h reach exactly 0 and 1.
const (
	Gamma = -0.1
	Zeta  = 1.1
	// Beta is the annealing exponent of the rounding regularizer. No
	// evaluation path reads it.
	Beta = 2.0 / 3.0
)

// SoftTarget evaluates the rectified sigmoid h(v) for one element in float32,
// matching the tensor path used by RoundingPolicy.SoftTargetsValue.
func SoftTarget(v float32) float32 {
	s := float32(1.0 / (1.0 + math.Exp(-float64(v))))
	h := float32(s*float32(Zeta-Gamma)) + float32(Gamma)
	return min(max(h, 0), 1)
}

// InverseSoftTarget returns v with σ(v)·(Zeta-Gamma) + Gamma = r, the inverse
// of h on its unclipped segment:
//
//	v = -log((Zeta-Gamma)/(r-Gamma) - 1)
//
// The result is not clamped. Residuals near Gamma or Zeta give extreme
// values, and r = Zeta gives +Inf.
func InverseSoftTarget(r float32) float32 {
	ratio := float32(Zeta-Gamma) / (r - float32(Gamma))
	return -float32(math.Log(float64(ratio - 1)))
}
