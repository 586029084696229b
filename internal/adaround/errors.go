package adaround

import "errors"

var (
	// ErrInvalidMode is returned for a rounding mode outside the supported set.
	ErrInvalidMode = errors.New("wrong rounding mode")

	// ErrInitNotImplemented is returned when initialization is requested for
	// a mode other than LearnedHardSigmoid.
	ErrInitNotImplemented = errors.New("decision tensor initialization not implemented for mode")

	// ErrShapeMismatch is returned when a tensor does not match the policy domain.
	ErrShapeMismatch = errors.New("tensor shape does not match policy domain")
)
