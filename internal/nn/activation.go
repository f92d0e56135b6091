package nn

import (
	"github.com/born-ml/cloneable/internal/tensor"
)

// ReLUBackend is an interface for backends that support ReLU activation.
type ReLUBackend interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x)
//
// ReLU has no parameters; its Reset registers nothing, so cloning it only
// copies the struct.
//
// Example:
//
//	relu := nn.NewReLU[*cpu.CPUBackend]()
//	output := relu.Forward(input)  // All negative values become 0
type ReLU[B tensor.Backend] struct {
	Cloneable[B, ReLU[B]]
}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	r := &ReLU[B]{}
	r.Bind(r)
	r.Reset()
	return r
}

// Reset is a no-op: ReLU owns no state.
func (r *ReLU[B]) Reset() {}

// Forward applies ReLU activation: f(x) = max(0, x).
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()

	if reluBackend, ok := any(backend).(ReLUBackend); ok {
		return tensor.New[float32, B](reluBackend.ReLU(input.Raw()), backend)
	}

	panic("ReLU: backend must implement ReLU operation")
}
