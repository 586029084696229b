// Package adaround implements adaptive rounding of weights onto a uniform
// quantization grid.
//
// A RoundingPolicy owns one learnable decision value per weight element. In
// soft mode the decision is a continuous offset in [0, 1] that gradients can
// reach, so an external loop can fit it by minimizing a reconstruction loss.
// In hard mode the same decision is thresholded to round down or up.
//
//	backend := autodiff.New(cpu.New())
//	policy, err := adaround.New(quant.PerTensor(4, 0.1, 8), w, backend)
//	policy.SetSoftTargets(true)
//	opt := optim.NewAdam(policy.Parameters(), optim.AdamConfig{LR: 1e-2}, backend)
//	backend.Tape().StartRecording()
//	for range steps {
//		backend.Tape().Clear()
//		out, _ := policy.Evaluate(w)
//		diff := out.Sub(w)
//		opt.Step(autodiff.Backward(diff.Mul(diff).Sum(), backend))
//	}
//	policy.SetSoftTargets(false)
package adaround

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/born-ml/adaround/internal/autodiff"
	"github.com/born-ml/adaround/internal/logger"
	"github.com/born-ml/adaround/internal/nn"
	"github.com/born-ml/adaround/internal/quant"
	"github.com/born-ml/adaround/internal/tensor"
)

// RoundingPolicy rounds tensors of a fixed shape to the grid described by its
// quantization parameters.
//
// The policy does no locking. The decision tensor is written in place by the
// optimizer, so callers must not run an optimizer step concurrently with
// Evaluate. Stochastic evaluation also mutates the random source.
type RoundingPolicy[B tensor.Backend] struct {
	id      string
	params  quant.Params
	shape   tensor.Shape
	backend B

	mode RoundMode
	soft bool

	// Per-element expansions of params.Delta and params.ZeroPoint.
	delta     *tensor.Tensor[float32, B]
	zeroPoint *tensor.Tensor[float32, B]

	alpha *nn.Parameter[B]
	rng   *rand.Rand
	log   logger.Logger
}

// New creates a policy for tensors shaped like weights and initializes the
// decision tensor from the rounding residuals of weights.
//
// Returns an error wrapping quant.ErrInvalidParams if params do not fit the
// weights, ErrInvalidMode for an unknown mode and ErrInitNotImplemented for
// any mode but LearnedHardSigmoid.
func New[B tensor.Backend](params quant.Params, weights *tensor.Tensor[float32, B], backend B, opts ...Option) (*RoundingPolicy[B], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if weights == nil {
		return nil, errors.New("adaround: weights are nil")
	}
	if !o.mode.Valid() {
		return nil, fmt.Errorf("adaround: %w: %q", ErrInvalidMode, o.mode)
	}

	params = params.Normalize()
	shape := weights.Shape().Clone()
	delta, zeroPoint, err := quant.Expand(params, shape, backend)
	if err != nil {
		return nil, fmt.Errorf("adaround: %w", err)
	}

	rng := o.rng
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	id := uuid.NewString()
	p := &RoundingPolicy[B]{
		id:        id,
		params:    params,
		shape:     shape,
		backend:   backend,
		mode:      o.mode,
		delta:     delta,
		zeroPoint: zeroPoint,
		rng:       rng,
		log:       o.log.With("policy", id),
	}

	if err := p.Init(weights.Clone()); err != nil {
		return nil, err
	}
	if o.evalMode != "" {
		p.mode = o.evalMode
	}
	return p, nil
}

// Init (re)creates the decision tensor so that the soft target of every
// element equals its rounding residual:
//
//	rest  = W/delta - floor(W/delta)
//	alpha = -log((Zeta-Gamma)/(rest-Gamma) - 1)
//
// Degenerate residuals yield extreme or non-finite values and are stored
// as is. The previous decision tensor, if any, is replaced, so optimizers
// built from Parameters must be rebuilt.
func (p *RoundingPolicy[B]) Init(weights *tensor.Tensor[float32, B]) error {
	if p.mode != LearnedHardSigmoid {
		return fmt.Errorf("adaround: %w %q", ErrInitNotImplemented, p.mode)
	}
	if !weights.Shape().Equal(p.shape) {
		return fmt.Errorf("adaround: init: %w: got %v, want %v", ErrShapeMismatch, weights.Shape(), p.shape)
	}

	p.log.Debug("init alpha", "elements", p.shape.NumElements())

	defer pauseRecording(p.backend)()

	scaled := weights.Div(p.delta)
	rest := scaled.Sub(scaled.Floor()).Data()

	values := make([]float32, len(rest))
	for i, r := range rest {
		values[i] = InverseSoftTarget(r)
	}

	alpha, err := tensor.FromSlice(values, p.shape, p.backend)
	if err != nil {
		return fmt.Errorf("adaround: init alpha: %w", err)
	}
	p.alpha = nn.NewParameter("alpha", alpha)
	return nil
}

// pauseRecording stops an autodiff tape, if b records one, and returns the
// function that resumes it.
func pauseRecording(b any) func() {
	bc, ok := b.(autodiff.BackwardCapable)
	if !ok {
		return func() {}
	}
	tape := bc.GetTape()
	if !tape.IsRecording() {
		return func() {}
	}
	tape.StopRecording()
	return tape.StartRecording
}

// SoftTargetsValue returns clamp(σ(alpha)·(Zeta-Gamma) + Gamma, 0, 1).
// Computed through the backend, so it is differentiable with respect to
// alpha on a recording autodiff backend.
func (p *RoundingPolicy[B]) SoftTargetsValue() *tensor.Tensor[float32, B] {
	return p.alpha.Tensor().
		Sigmoid().
		MulScalar(float32(Zeta - Gamma)).
		AddScalar(float32(Gamma)).
		Clamp(0, 1)
}

// HardTargets returns the thresholded decisions (alpha >= 0) as 0/1.
func (p *RoundingPolicy[B]) HardTargets() *tensor.Tensor[float32, B] {
	return p.alpha.Tensor().GreaterEqualScalar(0).Float32()
}

// Evaluate quantizes x and returns the dequantized result
// (clamp(xint + zp, 0, NLevels-1) - zp) · delta, where xint is x/delta
// rounded according to the policy's mode.
func (p *RoundingPolicy[B]) Evaluate(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if !p.mode.Valid() {
		return nil, fmt.Errorf("adaround: %w: %q", ErrInvalidMode, p.mode)
	}
	if x == nil {
		return nil, fmt.Errorf("adaround: %w: input is nil", ErrShapeMismatch)
	}
	if !x.Shape().Equal(p.shape) {
		return nil, fmt.Errorf("adaround: %w: got %v, want %v", ErrShapeMismatch, x.Shape(), p.shape)
	}

	scaled := x.Div(p.delta)

	var xint *tensor.Tensor[float32, B]
	switch p.mode {
	case Nearest:
		xint = scaled.Round()
	case NearestSTE:
		xint = scaled.RoundSTE()
	case Stochastic:
		p.log.Info("draw stochastic sample")
		floor := scaled.Floor()
		rest := scaled.Sub(floor)
		xint = floor.Add(rest.Bernoulli(p.rng))
	case LearnedHardSigmoid:
		floor := scaled.Floor()
		if p.soft {
			xint = floor.Add(p.SoftTargetsValue())
		} else {
			xint = floor.Add(p.HardTargets())
		}
	default:
		return nil, fmt.Errorf("adaround: %w: %q", ErrInvalidMode, p.mode)
	}

	xq := xint.Add(p.zeroPoint).Clamp(0, p.params.MaxLevel())
	return xq.Sub(p.zeroPoint).Mul(p.delta), nil
}

// SetSoftTargets switches learned evaluation between the soft offset and
// the hard decision. The decision tensor is left untouched.
func (p *RoundingPolicy[B]) SetSoftTargets(soft bool) {
	p.soft = soft
}

// SoftTargets reports whether learned evaluation uses soft offsets.
func (p *RoundingPolicy[B]) SoftTargets() bool {
	return p.soft
}

// Alpha returns the decision tensor by reference.
func (p *RoundingPolicy[B]) Alpha() *nn.Parameter[B] {
	return p.alpha
}

// Parameters implements nn.Trainable.
func (p *RoundingPolicy[B]) Parameters() []*nn.Parameter[B] {
	return []*nn.Parameter[B]{p.alpha}
}

// Mode returns the evaluation mode.
func (p *RoundingPolicy[B]) Mode() RoundMode {
	return p.mode
}

// Params returns a copy of the quantization parameters.
func (p *RoundingPolicy[B]) Params() quant.Params {
	return p.params.Normalize()
}

// Shape returns the domain shape.
func (p *RoundingPolicy[B]) Shape() tensor.Shape {
	return p.shape.Clone()
}

// ID returns the policy identifier attached to its log records.
func (p *RoundingPolicy[B]) ID() string {
	return p.id
}

var _ nn.Trainable[tensor.Backend] = (*RoundingPolicy[tensor.Backend])(nil)
