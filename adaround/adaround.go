// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package adaround provides adaptive rounding of weights onto a uniform
// quantization grid.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	w, _ := tensor.FromSlice(weights, tensor.Shape{64, 128}, backend)
//	policy, err := adaround.New(adaround.PerTensor(4, 0.02, 8), w, backend)
//	if err != nil {
//	    return err
//	}
//	policy.SetSoftTargets(true)
//	// ... fit policy.Parameters() against a reconstruction loss ...
//	policy.SetSoftTargets(false)
//	wq, err := policy.Evaluate(w)
package adaround

import (
	"github.com/born-ml/adaround/internal/adaround"
	"github.com/born-ml/adaround/internal/logger"
	"github.com/born-ml/adaround/internal/quant"
	"github.com/born-ml/adaround/internal/tensor"
)

// RoundingPolicy rounds tensors of a fixed shape onto a quantization grid.
type RoundingPolicy[B tensor.Backend] = adaround.RoundingPolicy[B]

// RoundMode selects the rounding scheme used by Evaluate.
type RoundMode = adaround.RoundMode

// Rounding modes.
const (
	Nearest            = adaround.Nearest
	NearestSTE         = adaround.NearestSTE
	Stochastic         = adaround.Stochastic
	LearnedHardSigmoid = adaround.LearnedHardSigmoid
)

// Rectified sigmoid parameters.
const (
	Gamma = adaround.Gamma
	Zeta  = adaround.Zeta
	Beta  = adaround.Beta
)

// Errors returned by policies.
var (
	ErrInvalidMode        = adaround.ErrInvalidMode
	ErrInitNotImplemented = adaround.ErrInitNotImplemented
	ErrShapeMismatch      = adaround.ErrShapeMismatch
	ErrInvalidParams      = quant.ErrInvalidParams
)

// Params are the uniform affine quantizer parameters.
type Params = quant.Params

// PerTensor builds Params with a single step size and zero point.
func PerTensor(nBits int, delta, zeroPoint float32) Params {
	return quant.PerTensor(nBits, delta, zeroPoint)
}

// Option configures a RoundingPolicy.
type Option = adaround.Option

// Logger is the structured logger accepted by WithLogger.
type Logger = logger.Logger

// New creates a policy and initializes its decision tensor from weights.
func New[B tensor.Backend](params Params, weights *tensor.Tensor[float32, B], backend B, opts ...Option) (*RoundingPolicy[B], error) {
	return adaround.New(params, weights, backend, opts...)
}

// ParseRoundMode converts a configuration string to a RoundMode.
func ParseRoundMode(s string) (RoundMode, error) {
	return adaround.ParseRoundMode(s)
}

// Re-exported options and helpers.
var (
	WithMode          = adaround.WithMode
	WithEvalMode      = adaround.WithEvalMode
	WithRand          = adaround.WithRand
	WithLogger        = adaround.WithLogger
	SoftTarget        = adaround.SoftTarget
	InverseSoftTarget = adaround.InverseSoftTarget
)
