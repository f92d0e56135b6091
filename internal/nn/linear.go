package nn

import (
	"fmt"

	"github.com/born-ml/cloneable/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(784, 128, backend)
//
//	input := tensor.Randn[float32](tensor.Shape{32, 784}, backend)  // batch_size=32
//	output := layer.Forward(input)  // shape: [32, 128]
type Linear[B tensor.Backend] struct {
	Cloneable[B, Linear[B]]

	inFeatures  int
	outFeatures int
	withBias    bool
	backend     B

	weight *Parameter[B] // [out_features, in_features]
	bias   *Parameter[B] // [out_features], nil without bias
}

// LinearOption configures a Linear layer.
type LinearOption func(*linearOptions)

type linearOptions struct {
	bias bool
}

// WithBias enables or disables the bias term (enabled by default).
func WithBias(enabled bool) LinearOption {
	return func(o *linearOptions) {
		o.bias = enabled
	}
}

// NewLinear creates a new Linear layer.
//
// Weights are initialized using Xavier/Glorot uniform distribution.
// Biases are initialized to zeros.
//
// Parameters:
//   - inFeatures: Number of input features
//   - outFeatures: Number of output features
//   - backend: Backend to use for tensor operations
//   - opts: Options such as WithBias(false)
//
// Returns a new Linear layer. Panics if either feature count is not positive.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B, opts ...LinearOption) *Linear[B] {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("nn: Linear features must be positive, got %d -> %d", inFeatures, outFeatures))
	}

	o := linearOptions{bias: true}
	for _, opt := range opts {
		opt(&o)
	}

	l := &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		withBias:    o.bias,
		backend:     backend,
	}
	l.Bind(l)
	l.Reset()
	return l
}

// Reset allocates fresh weight and bias parameters.
//
// Weight: [out_features, in_features], Xavier initialized.
// Bias: [out_features], zeros, registered only when the layer has a bias.
func (l *Linear[B]) Reset() {
	l.weight = l.RegisterParameter("weight",
		Xavier(l.inFeatures, l.outFeatures, tensor.Shape{l.outFeatures, l.inFeatures}, l.backend))
	l.bias = nil
	if l.withBias {
		l.bias = l.RegisterParameter("bias", Zeros(tensor.Shape{l.outFeatures}, l.backend))
	}
}

// Forward computes the output of the linear layer.
//
// Performs: y = x @ W.T + b
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
//
// Parameters:
//   - input: Input tensor with shape [batch_size, in_features]
//
// Returns output tensor with shape [batch_size, out_features].
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", inputShape))
	}
	if inputShape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, inputShape[1]))
	}

	// [batch, in] @ [in, out] = [batch, out]
	output := input.MatMul(l.weight.Tensor().T())

	if l.bias != nil {
		output = output.Add(l.bias.Tensor().Reshape(1, l.outFeatures))
	}

	return output
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter, or nil if the layer has no bias.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}
