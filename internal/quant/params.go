// Package quant describes the uniform affine quantizer parameters consumed by
// rounding policies: step size, zero point, bit width and level count.
package quant

import (
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/adaround/internal/tensor"
)

// ErrInvalidParams is returned when quantizer parameters violate their invariants.
var ErrInvalidParams = errors.New("invalid quantization parameters")

// Params are the parameters of a uniform affine quantizer.
//
// Delta and ZeroPoint hold one value (per-tensor) or one value per output
// channel, where the output channel is the leading dimension of the tensor
// being quantized.
type Params struct {
	NBits     int       `yaml:"n_bits" json:"n_bits"`
	Symmetric bool      `yaml:"symmetric" json:"symmetric"`
	Delta     []float32 `yaml:"delta" json:"delta"`
	ZeroPoint []float32 `yaml:"zero_point" json:"zero_point"`
	NLevels   int       `yaml:"n_levels" json:"n_levels"`
}

// PerTensor builds Params with a single step size and zero point.
// NLevels is derived from nBits.
func PerTensor(nBits int, delta, zeroPoint float32) Params {
	return Params{
		NBits:     nBits,
		Delta:     []float32{delta},
		ZeroPoint: []float32{zeroPoint},
	}.Normalize()
}

// Normalize returns a copy with NLevels defaulted to 2^NBits and a missing
// zero point defaulted to 0. Slices are copied.
func (p Params) Normalize() Params {
	out := p
	out.Delta = append([]float32(nil), p.Delta...)
	out.ZeroPoint = append([]float32(nil), p.ZeroPoint...)
	if out.NLevels == 0 && out.NBits > 0 && out.NBits < 31 {
		out.NLevels = 1 << out.NBits
	}
	if len(out.ZeroPoint) == 0 {
		out.ZeroPoint = []float32{0}
	}
	return out
}

// Validate checks the invariants: NBits > 0, NLevels >= 2, every delta
// positive and finite, and per-channel lengths matching shape's leading
// dimension. A nil shape skips the channel check.
func (p Params) Validate(shape tensor.Shape) error {
	if p.NBits <= 0 {
		return fmt.Errorf("%w: n_bits must be positive, got %d", ErrInvalidParams, p.NBits)
	}
	if p.NLevels < 2 {
		return fmt.Errorf("%w: n_levels must be >= 2, got %d", ErrInvalidParams, p.NLevels)
	}
	if len(p.Delta) == 0 {
		return fmt.Errorf("%w: delta is empty", ErrInvalidParams)
	}
	for i, d := range p.Delta {
		if !(d > 0) || math.IsInf(float64(d), 1) {
			return fmt.Errorf("%w: delta[%d] = %v must be positive and finite", ErrInvalidParams, i, d)
		}
	}
	if len(p.ZeroPoint) == 0 {
		return fmt.Errorf("%w: zero_point is empty", ErrInvalidParams)
	}
	for i, z := range p.ZeroPoint {
		if z != float32(math.Round(float64(z))) {
			return fmt.Errorf("%w: zero_point[%d] = %v is not an integer", ErrInvalidParams, i, z)
		}
	}
	if shape == nil {
		return nil
	}

	channels := shape.Channels()
	if n := len(p.Delta); n != 1 && n != channels {
		return fmt.Errorf("%w: %d deltas for %d channels", ErrInvalidParams, n, channels)
	}
	if n := len(p.ZeroPoint); n != 1 && n != channels {
		return fmt.Errorf("%w: %d zero points for %d channels", ErrInvalidParams, n, channels)
	}
	return nil
}

// MaxLevel returns the highest representable integer level, NLevels - 1.
func (p Params) MaxLevel() float32 {
	return float32(p.NLevels - 1)
}

// DeltaAt returns the step size for the given output channel.
func (p Params) DeltaAt(channel int) float32 {
	return pick(p.Delta, channel)
}

// ZeroPointAt returns the zero point for the given output channel.
func (p Params) ZeroPointAt(channel int) float32 {
	return pick(p.ZeroPoint, channel)
}

func pick(values []float32, channel int) float32 {
	if len(values) == 1 {
		return values[0]
	}
	return values[channel]
}

// Expand materializes Delta and ZeroPoint as float32 tensors of the full
// domain shape, so per-channel parameters can be used in element-wise ops.
func Expand[B tensor.Backend](p Params, shape tensor.Shape, b B) (delta, zeroPoint *tensor.Tensor[float32, B], err error) {
	if err := p.Validate(shape); err != nil {
		return nil, nil, err
	}

	n := shape.NumElements()
	perChannel := 1
	if n > 0 {
		perChannel = n / shape.Channels()
	}
	deltaData := make([]float32, n)
	zpData := make([]float32, n)
	for i := range n {
		c := i / perChannel
		deltaData[i] = p.DeltaAt(c)
		zpData[i] = p.ZeroPointAt(c)
	}

	if delta, err = tensor.FromSlice(deltaData, shape, b); err != nil {
		return nil, nil, err
	}
	if zeroPoint, err = tensor.FromSlice(zpData, shape, b); err != nil {
		return nil, nil, err
	}
	return delta, zeroPoint, nil
}
