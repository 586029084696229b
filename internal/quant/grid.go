package quant

import "math"

// GridLevel maps a dequantized value back to its integer level
// q = value/delta + zeroPoint for the given channel. ok is false when the
// value is not within tol (in units of delta) of an integer level in
// [0, NLevels-1].
func (p Params) GridLevel(value float32, channel int, tol float64) (q int, ok bool) {
	level := float64(value)/float64(p.DeltaAt(channel)) + float64(p.ZeroPointAt(channel))
	nearest := math.Round(level)
	if math.Abs(level-nearest) > tol {
		return 0, false
	}
	if nearest < 0 || nearest > float64(p.NLevels-1) {
		return int(nearest), false
	}
	return int(nearest), true
}

// Range returns the smallest and largest representable dequantized values
// for the given channel.
func (p Params) Range(channel int) (lo, hi float32) {
	d, z := p.DeltaAt(channel), p.ZeroPointAt(channel)
	return (0 - z) * d, (p.MaxLevel() - z) * d
}
