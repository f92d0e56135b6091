// Package optim implements parameter update rules over nn parameters.
//
// Gradients are read from Parameter.Grad, which the caller fills in.
// Parameters without a gradient or with RequiresGrad unset are skipped.
//
// Example usage:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01}, backend)
//
//	for _, p := range model.Parameters() {
//	    p.SetGrad(computeGrad(p))
//	}
//	optimizer.Step()
//	optimizer.ZeroGrad()
package optim

import (
	"github.com/born-ml/cloneable/internal/nn"
	"github.com/born-ml/cloneable/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies the gradient of every trainable parameter in place.
	Step() error

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// trainable returns the parameter's gradient, or nil if the parameter is
// frozen or has none.
func trainable[B tensor.Backend](param *nn.Parameter[B]) *tensor.Tensor[float32, B] {
	if param == nil || !param.RequiresGrad() {
		return nil
	}
	return param.Grad()
}
