// Package nn holds the trainable-parameter abstractions shared by quantization
// modules and optimizers.
package nn

import (
	"github.com/born-ml/adaround/internal/tensor"
)

// Trainable is implemented by every component that owns parameters an
// optimizer should update.
//
//	policy, _ := adaround.New(params, w, backend)
//	opt := optim.NewAdam(policy.Parameters(), optim.AdamConfig{LR: 1e-3}, backend)
type Trainable[B tensor.Backend] interface {
	// Parameters returns the trainable parameters by reference.
	Parameters() []*Parameter[B]
}

// CollectParameters concatenates the parameters of several components.
func CollectParameters[B tensor.Backend](modules ...Trainable[B]) []*Parameter[B] {
	var params []*Parameter[B]
	for _, m := range modules {
		params = append(params, m.Parameters()...)
	}
	return params
}
