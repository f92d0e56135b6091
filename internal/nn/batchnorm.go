package nn

import (
	"fmt"

	"github.com/born-ml/cloneable/internal/tensor"
)

// BatchNorm1D normalizes [batch, features] inputs per feature.
//
// In training mode it normalizes with the batch statistics and folds them
// into the running_mean and running_var buffers; in evaluation mode it
// normalizes with the running statistics. The buffers are part of the
// state dict and are copied by Clone, but are never trained.
type BatchNorm1D[B tensor.Backend] struct {
	Cloneable[B, BatchNorm1D[B]]

	numFeatures int
	epsilon     float32
	momentum    float32
	training    bool
	backend     B

	gamma       *Parameter[B]
	beta        *Parameter[B]
	runningMean *tensor.Tensor[float32, B]
	runningVar  *tensor.Tensor[float32, B]
}

// NewBatchNorm1D creates a BatchNorm1D layer in training mode.
func NewBatchNorm1D[B tensor.Backend](numFeatures int, epsilon, momentum float32, backend B) *BatchNorm1D[B] {
	if numFeatures <= 0 {
		panic(fmt.Sprintf("nn: BatchNorm1D size must be positive, got %d", numFeatures))
	}

	bn := &BatchNorm1D[B]{
		numFeatures: numFeatures,
		epsilon:     epsilon,
		momentum:    momentum,
		training:    true,
		backend:     backend,
	}
	bn.Bind(bn)
	bn.Reset()
	return bn
}

// Reset allocates fresh parameters and running statistics.
func (bn *BatchNorm1D[B]) Reset() {
	shape := tensor.Shape{bn.numFeatures}
	bn.gamma = bn.RegisterParameter("gamma", Ones(shape, bn.backend))
	bn.beta = bn.RegisterParameter("beta", Zeros(shape, bn.backend))
	bn.runningMean = bn.RegisterBuffer("running_mean", Zeros(shape, bn.backend))
	bn.runningVar = bn.RegisterBuffer("running_var", Ones(shape, bn.backend))
}

// Train switches between training (true) and evaluation (false) mode.
func (bn *BatchNorm1D[B]) Train(training bool) {
	bn.training = training
}

// Training reports whether the layer is in training mode.
func (bn *BatchNorm1D[B]) Training() bool {
	return bn.training
}

// Forward normalizes x of shape [batch, features].
func (bn *BatchNorm1D[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 2 || shape[1] != bn.numFeatures {
		panic(fmt.Sprintf("BatchNorm1D.Forward: expected [batch, %d] input, got shape %v", bn.numFeatures, shape))
	}

	var mean, variance *tensor.Tensor[float32, B]
	if bn.training {
		mean = x.MeanDim(0, true)
		centered := x.Sub(mean)
		variance = centered.Mul(centered).MeanDim(0, true)
		bn.track(mean.Reshape(bn.numFeatures), variance.Reshape(bn.numFeatures))
	} else {
		mean = bn.runningMean.Reshape(1, bn.numFeatures)
		variance = bn.runningVar.Reshape(1, bn.numFeatures)
	}

	xNorm := x.Sub(mean).Mul(variance.AddScalar(bn.epsilon).Rsqrt())
	return xNorm.Mul(bn.gamma.Tensor()).Add(bn.beta.Tensor())
}

// track folds batch statistics into the running buffers in place, so the
// registered buffer tensors stay the same objects.
func (bn *BatchNorm1D[B]) track(mean, variance *tensor.Tensor[float32, B]) {
	keep := 1 - bn.momentum
	newMean := bn.runningMean.MulScalar(keep).Add(mean.MulScalar(bn.momentum))
	newVar := bn.runningVar.MulScalar(keep).Add(variance.MulScalar(bn.momentum))
	if err := bn.runningMean.CopyFrom(newMean, false); err != nil {
		panic(err)
	}
	if err := bn.runningVar.CopyFrom(newVar, false); err != nil {
		panic(err)
	}
}

// RunningMean returns the running mean buffer.
func (bn *BatchNorm1D[B]) RunningMean() *tensor.Tensor[float32, B] {
	return bn.runningMean
}

// RunningVar returns the running variance buffer.
func (bn *BatchNorm1D[B]) RunningVar() *tensor.Tensor[float32, B] {
	return bn.runningVar
}
