// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cloneable/backend/cpu"
	"github.com/born-ml/cloneable/nn"
	"github.com/born-ml/cloneable/tensor"
)

type B = *cpu.Backend

// block is a module defined outside the framework packages.
type block struct {
	nn.Cloneable[B, block]

	backend B
	proj    *nn.Linear[B]
	scale   *nn.Parameter[B]
	steps   *tensor.Tensor[float32, B]
}

func newBlock(backend B) *block {
	b := &block{backend: backend}
	b.Bind(b)
	b.Reset()
	return b
}

func (b *block) Reset() {
	b.scale = b.RegisterParameter("scale", nn.Ones(tensor.Shape{1}, b.backend))
	b.steps = b.RegisterBuffer("steps", nn.Zeros(tensor.Shape{1}, b.backend))
	b.proj = nn.Register(&b.Base, "proj", nn.NewLinear(3, 3, b.backend))
}

func (b *block) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return b.proj.Forward(x).MulScalar(b.scale.Tensor().Item())
}

// lazyBlock re-registers the original's tensor from Reset.
type lazyBlock struct {
	nn.Cloneable[B, lazyBlock]

	w *tensor.Tensor[float32, B]
}

func newLazyBlock(backend B) *lazyBlock {
	l := &lazyBlock{w: nn.Ones(tensor.Shape{2}, backend)}
	l.Bind(l)
	l.Reset()
	return l
}

func (l *lazyBlock) Reset() {
	l.RegisterParameter("w", l.w)
}

func (l *lazyBlock) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x
}

func TestUserModuleClone(t *testing.T) {
	require := require.New(t)

	orig := newBlock(cpu.New())
	orig.scale.Tensor().Set(2, 0)
	orig.steps.Set(7, 0)

	m, err := orig.Clone()
	require.NoError(err)
	cloned, ok := m.(*block)
	require.True(ok, "clone has type %T", m)

	require.NoError(nn.CompareStructure[B](orig, cloned))
	require.Empty(nn.SharedTensors[B](orig, cloned))
	require.Equal("block", cloned.TypeName())

	// Typed fields point at the clone's own registrations.
	got, _ := cloned.NamedParameters().Get("scale")
	require.Same(got, cloned.scale)
	child, _ := cloned.NamedChildren().Get("proj")
	require.Same(child, nn.Module[B](cloned.proj))
	require.NotSame(orig.proj, cloned.proj)

	assert.Equal(t, float32(2), cloned.scale.Tensor().At(0))
	assert.Equal(t, float32(7), cloned.steps.At(0))

	x, _ := tensor.FromSlice([]float32{1, -1, 0.5}, tensor.Shape{1, 3}, cloned.backend)
	assert.Equal(t, orig.Forward(x).Data(), cloned.Forward(x).Data())

	cloned.scale.Tensor().Set(5, 0)
	assert.Equal(t, float32(2), orig.scale.Tensor().At(0))
}

func TestUserModuleAliasingFails(t *testing.T) {
	_, err := newLazyBlock(cpu.New()).Clone()

	require.ErrorIs(t, err, nn.ErrStructuralMismatch)
	var sme *nn.StructuralMismatchError
	require.True(t, errors.As(err, &sme))
	assert.True(t, sme.Aliased)
	assert.Equal(t, nn.CategoryParameters, sme.Category)
	assert.Equal(t, "w", sme.Key)
}

func TestSequentialSaveLoad(t *testing.T) {
	require := require.New(t)

	backend := cpu.New()
	model := nn.NewSequential[B](
		nn.NewLinear(4, 3, backend),
		nn.NewReLU[B](),
		nn.NewLayerNorm(3, 1e-5, backend),
	)
	path := filepath.Join(t.TempDir(), "model.cbor")
	require.NoError(nn.Save[B](model, path, map[string]string{"run": "test"}))

	fresh := nn.NewSequential[B](
		nn.NewLinear(4, 3, backend),
		nn.NewReLU[B](),
		nn.NewLayerNorm(3, 1e-5, backend),
	)
	header, err := nn.Load[B](fresh, path)
	require.NoError(err)
	require.Equal("Sequential", header.ModelType)
	require.Equal("test", header.Metadata["run"])

	cloned, err := fresh.Clone()
	require.NoError(err)
	for name, want := range model.StateDict() {
		require.Equal(want.AsFloat32(), cloned.StateDict()[name].AsFloat32(), name)
	}
}
