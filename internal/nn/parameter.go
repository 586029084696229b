package nn

import (
	"github.com/born-ml/adaround/internal/tensor"
)

// Parameter represents a trainable tensor.
//
// The tensor is held by reference: optimizers write updates directly into its
// storage, and every component holding the Parameter sees the new values.
//
// Example:
//
//	alpha := nn.NewParameter("alpha", alphaTensor)
//	a := alpha.Tensor()
//	grad := alpha.Grad()
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
	grad   *tensor.Tensor[float32, B]
}

// NewParameter creates a new trainable parameter and marks its tensor as
// requiring gradients.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t.RequireGrad(),
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Grad returns the gradient tensor, or nil before the first backward pass.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}

// GradFrom looks up this parameter's gradient in a map returned by
// autodiff.Backward, stores it and returns it. Returns nil if the parameter
// did not take part in the computation.
func (p *Parameter[B]) GradFrom(grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.Tensor[float32, B] {
	raw, ok := grads[p.tensor.Raw()]
	if !ok {
		return nil
	}
	p.grad = tensor.New[float32, B](raw, p.tensor.Backend())
	return p.grad
}
