package nn_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/cloneable/internal/backend/cpu"
	"github.com/born-ml/cloneable/internal/nn"
	"github.com/born-ml/cloneable/internal/tensor"
)

type B = *cpu.CPUBackend

func fromSlice(t *testing.T, backend B, shape tensor.Shape, values ...float32) *tensor.Tensor[float32, B] {
	t.Helper()
	x, err := tensor.FromSlice(values, shape, backend)
	require.NoError(t, err)
	return x
}

// container holds a Linear child created in Reset.
type container struct {
	nn.Cloneable[B, container]
	backend B
	inner   *nn.Linear[B]
	scale   *nn.Parameter[B]
}

func newContainer(backend B) *container {
	c := &container{backend: backend}
	c.Bind(c)
	c.Reset()
	return c
}

func (c *container) Reset() {
	c.scale = c.RegisterParameter("scale", nn.Ones(tensor.Shape{2}, c.backend))
	c.inner = nn.Register(&c.Base, "inner", nn.NewLinear(4, 2, c.backend))
}

func (c *container) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return c.inner.Forward(x).Mul(c.scale.Tensor())
}

// constructorParam registers an extra parameter outside Reset, so its
// clones come up one parameter short.
type constructorParam struct {
	nn.Cloneable[B, constructorParam]
	backend B
}

func newConstructorParam(backend B) *constructorParam {
	m := &constructorParam{backend: backend}
	m.Bind(m)
	m.Reset()
	m.RegisterParameter("extra", nn.Zeros(tensor.Shape{1}, backend))
	return m
}

func (m *constructorParam) Reset() {
	m.RegisterParameter("weight", nn.Ones(tensor.Shape{2}, m.backend))
}

func (m *constructorParam) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x
}

// constructorBuffer and constructorChild do the same with a buffer and a child.
type constructorBuffer struct {
	nn.Cloneable[B, constructorBuffer]
	backend B
}

func newConstructorBuffer(backend B) *constructorBuffer {
	m := &constructorBuffer{backend: backend}
	m.Bind(m)
	m.Reset()
	m.RegisterBuffer("steps", nn.Zeros(tensor.Shape{1}, backend))
	return m
}

func (m *constructorBuffer) Reset() {}

func (m *constructorBuffer) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x
}

type constructorChild struct {
	nn.Cloneable[B, constructorChild]
}

func newConstructorChild() *constructorChild {
	m := &constructorChild{}
	m.Bind(m)
	m.Reset()
	m.RegisterModule("act", nn.NewReLU[B]())
	return m
}

func (m *constructorChild) Reset() {}

func (m *constructorChild) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x
}

// switching registers its "inner" child as a Linear or a ReLU depending on
// useLinear at the time Reset runs.
type switching struct {
	nn.Cloneable[B, switching]
	backend   B
	useLinear bool
}

func newSwitching(backend B) *switching {
	m := &switching{backend: backend, useLinear: true}
	m.Bind(m)
	m.Reset()
	m.useLinear = false
	return m
}

func (m *switching) Reset() {
	if m.useLinear {
		m.RegisterModule("inner", nn.NewLinear(2, 2, m.backend))
		return
	}
	m.RegisterModule("inner", nn.NewReLU[B]())
}

func (m *switching) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x
}

// renaming registers its parameter under whatever name holds when Reset runs.
type renaming struct {
	nn.Cloneable[B, renaming]
	backend B
	name    string
}

func newRenaming(backend B, name string) *renaming {
	m := &renaming{backend: backend, name: name}
	m.Bind(m)
	m.Reset()
	return m
}

func (m *renaming) Reset() {
	m.RegisterParameter(m.name, nn.Ones(tensor.Shape{2}, m.backend))
}

func (m *renaming) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x
}

// sharing re-registers a tensor it keeps in a field instead of allocating one.
type sharing struct {
	nn.Cloneable[B, sharing]
	weights *tensor.Tensor[float32, B]
}

func newSharing(backend B) *sharing {
	m := &sharing{weights: nn.Ones(tensor.Shape{2}, backend)}
	m.Bind(m)
	m.Reset()
	return m
}

func (m *sharing) Reset() {
	m.RegisterParameter("weight", m.weights)
}

func (m *sharing) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x
}

// failing wraps a child whose clone always fails.
type failing struct {
	nn.Cloneable[B, failing]
	backend B
}

func newFailing(backend B) *failing {
	m := &failing{backend: backend}
	m.Bind(m)
	m.Reset()
	return m
}

func (m *failing) Reset() {
	m.RegisterParameter("weight", nn.Ones(tensor.Shape{2}, m.backend))
	m.RegisterModule("broken", newConstructorParam(m.backend))
}

func (m *failing) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x
}
