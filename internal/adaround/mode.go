package adaround

import "fmt"

// RoundMode selects how Evaluate turns x/delta into an integer level.
type RoundMode string

// Supported rounding modes.
const (
	// Nearest rounds to the nearest level, ties to even.
	Nearest RoundMode = "nearest"
	// NearestSTE rounds to nearest with a straight-through gradient.
	NearestSTE RoundMode = "nearest_ste"
	// Stochastic rounds up with probability equal to the residual.
	Stochastic RoundMode = "stochastic"
	// LearnedHardSigmoid rounds according to the learned decision tensor.
	LearnedHardSigmoid RoundMode = "learned_hard_sigmoid"
)

// Modes lists every supported rounding mode.
func Modes() []RoundMode {
	return []RoundMode{Nearest, NearestSTE, Stochastic, LearnedHardSigmoid}
}

// Valid reports whether m is a supported mode.
func (m RoundMode) Valid() bool {
	switch m {
	case Nearest, NearestSTE, Stochastic, LearnedHardSigmoid:
		return true
	default:
		return false
	}
}

func (m RoundMode) String() string {
	return string(m)
}

// ParseRoundMode converts a configuration string to a RoundMode.
func ParseRoundMode(s string) (RoundMode, error) {
	m := RoundMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}
