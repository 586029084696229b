package adaround

import (
	"math/rand/v2"

	"github.com/born-ml/adaround/internal/logger"
)

// Option configures a RoundingPolicy.
type Option func(*options)

type options struct {
	mode     RoundMode
	evalMode RoundMode
	rng      *rand.Rand
	log      logger.Logger
}

func defaultOptions() options {
	return options{
		mode: LearnedHardSigmoid,
		log:  logger.Discard(),
	}
}

// WithMode sets the policy's rounding mode. Initialization is only defined
// for LearnedHardSigmoid, so any other mode makes New fail with
// ErrInitNotImplemented.
func WithMode(mode RoundMode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithEvalMode initializes the policy in LearnedHardSigmoid mode but makes
// Evaluate use mode instead. Useful for comparing rounding schemes on the
// same weights. The mode is checked on every Evaluate call.
func WithEvalMode(mode RoundMode) Option {
	return func(o *options) {
		o.evalMode = mode
	}
}

// WithRand sets the random source for Stochastic evaluation.
// rand.Rand is not safe for concurrent use.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}
