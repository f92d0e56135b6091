package nn

import (
	"github.com/born-ml/cloneable/internal/tensor"
)

// Parameter is a named, trainable tensor owned by a module.
//
// Parameters are created by Base.RegisterParameter, which records them in
// the owning module's parameter collection under their name.
//
// Example:
//
//	w := l.RegisterParameter("weight", Xavier(in, out, tensor.Shape{out, in}, backend))
//	data := w.Tensor().Data()
type Parameter[B tensor.Backend] struct {
	name         string
	tensor       *tensor.Tensor[float32, B]
	grad         *tensor.Tensor[float32, B]
	requiresGrad bool
}

// NewParameter creates a standalone parameter that requires gradients.
// Use RegisterParameter to attach one to a module.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:         name,
		tensor:       t,
		requiresGrad: true,
	}
}

// Name returns the parameter name, local to its owning module.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Grad returns the gradient tensor, or nil before one is set.
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

// RequiresGrad reports whether optimizers should update this parameter.
func (p *Parameter[B]) RequiresGrad() bool {
	return p.requiresGrad
}

// SetRequiresGrad freezes (false) or unfreezes (true) the parameter.
func (p *Parameter[B]) SetRequiresGrad(v bool) {
	p.requiresGrad = v
}
