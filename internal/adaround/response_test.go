package adaround_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/adaround/internal/adaround"
)

func TestInverseSoftTarget_RoundTrip(t *testing.T) {
	for i := range 100 {
		r := float32(i) / 100
		got := adaround.SoftTarget(adaround.InverseSoftTarget(r))
		assert.InDelta(t, r, got, 1e-5, "r=%v", r)
	}
}

func TestInverseSoftTarget_HalfIsNonNegative(t *testing.T) {
	// A residual of exactly one half must round up under the hard decision.
	v := adaround.InverseSoftTarget(0.5)
	assert.GreaterOrEqual(t, v, float32(0))
	assert.InDelta(t, 0, v, 1e-7)
}

func TestInverseSoftTarget_Sign(t *testing.T) {
	for _, r := range []float32{0, 0.1, 0.25, 0.49} {
		assert.Less(t, adaround.InverseSoftTarget(r), float32(0), "r=%v", r)
	}
	for _, r := range []float32{0.51, 0.75, 0.9, 0.999} {
		assert.Greater(t, adaround.InverseSoftTarget(r), float32(0), "r=%v", r)
	}
}

func TestInverseSoftTarget_Degenerate(t *testing.T) {
	assert.True(t, math.IsInf(float64(adaround.InverseSoftTarget(float32(adaround.Zeta))), 1))
	assert.True(t, math.IsInf(float64(adaround.InverseSoftTarget(float32(adaround.Gamma))), -1))
	assert.True(t, math.IsNaN(float64(adaround.InverseSoftTarget(2))), "outside (Gamma, Zeta) has no inverse")
}

func TestSoftTarget_Saturates(t *testing.T) {
	assert.Equal(t, float32(0), adaround.SoftTarget(-20))
	assert.Equal(t, float32(1), adaround.SoftTarget(20))
	assert.Equal(t, float32(0), adaround.SoftTarget(float32(math.Inf(-1))))
	assert.Equal(t, float32(1), adaround.SoftTarget(float32(math.Inf(1))))
	assert.InDelta(t, 0.5, adaround.SoftTarget(0), 1e-7)
}

func TestParseRoundMode(t *testing.T) {
	for _, m := range adaround.Modes() {
		got, err := adaround.ParseRoundMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	for _, s := range []string{"", "floor", "NEAREST", "learned"} {
		_, err := adaround.ParseRoundMode(s)
		assert.ErrorIs(t, err, adaround.ErrInvalidMode, "mode %q", s)
	}
}
