// Package optim implements the gradient-based optimizers used to tune
// trainable parameters such as a rounding policy's decision tensor.
//
// Example usage:
//
//	opt := optim.NewAdam(policy.Parameters(), optim.AdamConfig{LR: 1e-3}, backend)
//	for range iterations {
//	    backend.Tape().Clear()
//	    out, _ := policy.Evaluate(w)
//	    grads := autodiff.Backward(loss(out), backend)
//	    opt.Step(grads)
//	    opt.ZeroGrad()
//	}
package optim

import (
	"github.com/born-ml/adaround/internal/nn"
	"github.com/born-ml/adaround/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters in place.
	// Parameters without an entry in grads are skipped.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float32 // Learning rate
}

// getGradient retrieves the gradient for a parameter, or nil if the
// parameter was not part of the computation graph.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) []float32 {
	if param == nil {
		return nil
	}
	grad := param.GradFrom(grads)
	if grad == nil {
		return nil
	}
	return grad.Raw().AsFloat32()
}
