package nn

import (
	"fmt"
	"strconv"

	"github.com/born-ml/cloneable/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input. Children are
// registered under their position: "0", "1", ...
//
// Example:
//
//	model := nn.NewSequential[*cpu.CPUBackend](
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[*cpu.CPUBackend](),
//	    nn.NewLinear(128, 10, backend),
//	)
//
//	output := model.Forward(input)
//
// Sequential cannot rebuild its children from Reset since it does not know
// how they were constructed, so its clone is a new Sequential of the
// children's clones.
type Sequential[B tensor.Backend] struct {
	Cloneable[B, Sequential[B]]

	modules []Module[B]
}

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	s := &Sequential[B]{
		modules: modules,
	}
	s.Bind(s)
	s.Reset()
	return s
}

// Reset registers the held modules as children.
func (s *Sequential[B]) Reset() {
	for i, m := range s.modules {
		s.RegisterModule(strconv.Itoa(i), m)
	}
}

// cloneTree builds a Sequential holding a clone of every child, in order.
// Sequential registers nothing of its own, so a parameter, buffer or child
// registered on it directly rather than through Add fails verification.
func (s *Sequential[B]) cloneTree(g *tensor.CopyGroup) (Module[B], error) {
	src := s.base()
	if err := checkCounts(s.TypeName(), src, 0, 0, len(s.modules)); err != nil {
		return nil, err
	}

	clones := make([]Module[B], 0, len(s.modules))
	for i, m := range s.modules {
		c, err := m.cloneTree(g)
		if err != nil {
			return nil, fmt.Errorf("nn: cloning child %q of %s: %w", strconv.Itoa(i), s.TypeName(), err)
		}
		clones = append(clones, c)
	}

	cp := NewSequential(clones...)
	if err := verifyRebuilt(s.TypeName(), src, cp.base()); err != nil {
		return nil, err
	}
	return cp, nil
}

// Forward applies all modules in sequence.
func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Add appends a module to the sequence.
func (s *Sequential[B]) Add(module Module[B]) {
	s.RegisterModule(strconv.Itoa(len(s.modules)), module)
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential[B]) Module(index int) Module[B] {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}
