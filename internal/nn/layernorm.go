package nn

import (
	"fmt"

	"github.com/born-ml/cloneable/internal/tensor"
)

// LayerNorm applies Layer Normalization over an input tensor along the last dimension.
//
// Formula: Y = gamma * (X - mean(X)) / sqrt(var(X) + eps) + beta
//
// Where:
//   - gamma is the learnable scale parameter [d_model], initialized to ones
//   - beta is the learnable shift parameter [d_model], initialized to zeros
//   - mean and variance are computed along the last dimension
//
// Example:
//
//	layernorm := nn.NewLayerNorm(768, 1e-5, backend)
//	output := layernorm.Forward(hiddenStates)  // [..., 768] -> [..., 768]
type LayerNorm[B tensor.Backend] struct {
	Cloneable[B, LayerNorm[B]]

	normalizedShape int
	epsilon         float32
	backend         B

	gamma *Parameter[B]
	beta  *Parameter[B]
}

// NewLayerNorm creates a new LayerNorm layer.
func NewLayerNorm[B tensor.Backend](normalizedShape int, epsilon float32, backend B) *LayerNorm[B] {
	if normalizedShape <= 0 {
		panic(fmt.Sprintf("nn: LayerNorm size must be positive, got %d", normalizedShape))
	}

	l := &LayerNorm[B]{
		normalizedShape: normalizedShape,
		epsilon:         epsilon,
		backend:         backend,
	}
	l.Bind(l)
	l.Reset()
	return l
}

// Reset allocates fresh gamma and beta parameters.
func (l *LayerNorm[B]) Reset() {
	l.gamma = l.RegisterParameter("gamma", Ones(tensor.Shape{l.normalizedShape}, l.backend))
	l.beta = l.RegisterParameter("beta", Zeros(tensor.Shape{l.normalizedShape}, l.backend))
}

// Forward applies LayerNorm to the input tensor.
//
// Shapes:
//   - input: [..., d_model]
//   - output: [..., d_model]
func (l *LayerNorm[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	mean := x.MeanDim(-1, true)
	xCentered := x.Sub(mean)
	variance := xCentered.Mul(xCentered).MeanDim(-1, true)

	xNorm := xCentered.Mul(variance.AddScalar(l.epsilon).Rsqrt())

	// [..., d_model] * [d_model] broadcasts over the leading dimensions.
	return xNorm.Mul(l.gamma.Tensor()).Add(l.beta.Tensor())
}

// Gamma returns the scale parameter.
func (l *LayerNorm[B]) Gamma() *Parameter[B] {
	return l.gamma
}

// Beta returns the shift parameter.
func (l *LayerNorm[B]) Beta() *Parameter[B] {
	return l.beta
}

// Epsilon returns the numerical stability constant.
func (l *LayerNorm[B]) Epsilon() float32 {
	return l.epsilon
}
