// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/cloneable/internal/nn"
	"github.com/born-ml/cloneable/internal/serialization"
	"github.com/born-ml/cloneable/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Cloneable supplies Clone to a concrete module type D. Embed it
// instantiated with the module's own type and call Bind in the constructor.
type Cloneable[B tensor.Backend, D any] = nn.Cloneable[B, D]

// Base holds a module's parameter, buffer and child registries.
type Base[B tensor.Backend] = nn.Base[B]

// OrderedDict is an insertion-ordered, name-keyed registry.
type OrderedDict[V any] = nn.OrderedDict[V]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Register registers m as a child of owner and returns it with its
// concrete type.
//
// Example:
//
//	func (e *Encoder[B]) Reset() {
//	    e.proj = nn.Register(&e.Base, "proj", nn.NewLinear(64, 32, e.backend))
//	}
func Register[B tensor.Backend, M Module[B]](owner *Base[B], name string, m M) M {
	return nn.Register(owner, name, m)
}

// Clone errors.
var (
	ErrStructuralMismatch = nn.ErrStructuralMismatch
	ErrTypeMismatch       = nn.ErrTypeMismatch
	ErrUnbound            = nn.ErrUnbound
)

// StructuralMismatchError reports that Reset did not rebuild the
// original's parameters, buffers or children on a clone.
type StructuralMismatchError = nn.StructuralMismatchError

// TypeMismatchError reports that a child's clone has a different concrete
// type than the child Reset created in its place.
type TypeMismatchError = nn.TypeMismatchError

// Category names a module registry.
type Category = nn.Category

// Registry categories.
const (
	CategoryParameters = nn.CategoryParameters
	CategoryBuffers    = nn.CategoryBuffers
	CategoryChildren   = nn.CategoryChildren
)

// CompareStructure reports every structural difference between a and b.
func CompareStructure[B tensor.Backend](a, b Module[B]) error {
	return nn.CompareStructure(a, b)
}

// SharedTensors returns the dotted names of tensors a and b share storage for.
func SharedTensors[B tensor.Backend](a, b Module[B]) []string {
	return nn.SharedTensors(a, b)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// LinearOption configures NewLinear.
type LinearOption = nn.LinearOption

// WithBias enables or disables the bias term of a Linear layer.
func WithBias(enabled bool) LinearOption {
	return nn.WithBias(enabled)
}

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(784, 128, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B, opts ...LinearOption) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend, opts...)
}

// Embedding is a lookup table of learned vectors.
type Embedding[B tensor.Backend] = nn.Embedding[B]

// NewEmbedding creates an embedding table of numEmbeddings vectors of
// size embeddingDim.
func NewEmbedding[B tensor.Backend](numEmbeddings, embeddingDim int, backend B) *Embedding[B] {
	return nn.NewEmbedding(numEmbeddings, embeddingDim, backend)
}

// LayerNorm normalizes over the last dimension.
type LayerNorm[B tensor.Backend] = nn.LayerNorm[B]

// NewLayerNorm creates a layer normalization module.
func NewLayerNorm[B tensor.Backend](normalizedShape int, epsilon float32, backend B) *LayerNorm[B] {
	return nn.NewLayerNorm(normalizedShape, epsilon, backend)
}

// BatchNorm1D normalizes over the batch and tracks running statistics as
// buffers.
type BatchNorm1D[B tensor.Backend] = nn.BatchNorm1D[B]

// NewBatchNorm1D creates a batch normalization module.
func NewBatchNorm1D[B tensor.Backend](numFeatures int, epsilon, momentum float32, backend B) *BatchNorm1D[B] {
	return nn.NewBatchNorm1D(numFeatures, epsilon, momentum, backend)
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
//
// Example:
//
//	relu := nn.NewReLU[*cpu.Backend]()
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Containers

// Sequential chains modules, feeding each one's output to the next.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Initialization

// Xavier returns a tensor initialized with Xavier/Glorot uniform values.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros returns a float32 tensor of zeros.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Ones returns a float32 tensor of ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Ones(shape, backend)
}

// Randn returns a float32 tensor drawn from N(0, 1).
func Randn[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Randn(shape, backend)
}

// Checkpoints

// CheckpointHeader describes a saved checkpoint.
type CheckpointHeader = serialization.Header

// Save writes the module's state dict to a checkpoint at path.
func Save[B tensor.Backend](m Module[B], path string, metadata map[string]string) error {
	return nn.Save(m, path, metadata)
}

// Load reads the checkpoint at path into m.
func Load[B tensor.Backend](m Module[B], path string) (*CheckpointHeader, error) {
	return nn.Load(m, path)
}
