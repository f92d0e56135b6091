package nn_test

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cloneable/internal/backend/cpu"
	"github.com/born-ml/cloneable/internal/nn"
	"github.com/born-ml/cloneable/internal/tensor"
)

func TestLinearForward(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(2, 2, backend)
	copy(layer.Weight().Tensor().Data(), []float32{1, 2, 3, 4})
	copy(layer.Bias().Tensor().Data(), []float32{0.5, -0.5})

	x := fromSlice(t, backend, tensor.Shape{1, 2}, 1, 1)
	out := layer.Forward(x)

	assert.Equal(t, tensor.Shape{1, 2}, out.Shape())
	assert.Equal(t, []float32{3.5, 6.5}, out.Data())
}

func TestLinearForwardPanicsOnBadInput(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(3, 2, backend)

	assert.Panics(t, func() { layer.Forward(nn.Zeros(tensor.Shape{3}, backend)) })
	assert.Panics(t, func() { layer.Forward(nn.Zeros(tensor.Shape{1, 4}, backend)) })
}

func TestReLUForward(t *testing.T) {
	backend := cpu.New()
	x := fromSlice(t, backend, tensor.Shape{4}, -1, 0, 2, -3)

	assert.Equal(t, []float32{0, 0, 2, 0}, nn.NewReLU[B]().Forward(x).Data())
}

func TestLayerNormForward(t *testing.T) {
	backend := cpu.New()
	ln := nn.NewLayerNorm(3, 1e-5, backend)
	x := fromSlice(t, backend, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)

	out := ln.Forward(x).Data()
	want := []float32{-1.2247, 0, 1.2247, -1.2247, 0, 1.2247}
	for i := range want {
		assert.InDelta(t, want[i], out[i], 1e-3, "element %d", i)
	}
}

func TestLayerNormClone(t *testing.T) {
	ln := nn.NewLayerNorm(3, 1e-5, cpu.New())
	ln.Gamma().Tensor().Set(2, 0)

	cloned, err := ln.Clone()
	require.NoError(t, err)

	cl := cloned.(*nn.LayerNorm[B])
	assert.Equal(t, []float32{2, 1, 1}, cl.Gamma().Tensor().Data())
	assert.Equal(t, ln.Epsilon(), cl.Epsilon())
}

func TestBatchNormClonesBuffers(t *testing.T) {
	backend := cpu.New()
	bn := nn.NewBatchNorm1D(2, 1e-5, 0.5, backend)
	bn.Forward(fromSlice(t, backend, tensor.Shape{2, 2}, 1, 2, 3, 4))

	// batch mean [2, 3], momentum 0.5 from zeros
	require.Equal(t, []float32{1, 1.5}, bn.RunningMean().Data())
	bn.Train(false)

	cloned, err := bn.Clone()
	require.NoError(t, err)

	cl := cloned.(*nn.BatchNorm1D[B])
	assert.Equal(t, []string{"running_mean", "running_var"}, cl.NamedBuffers().Keys())
	assert.Equal(t, bn.RunningMean().Data(), cl.RunningMean().Data())
	assert.Equal(t, bn.RunningVar().Data(), cl.RunningVar().Data())
	assert.False(t, cl.Training())
	assert.Empty(t, nn.SharedTensors[B](bn, cl))

	cl.Train(true)
	cl.Forward(fromSlice(t, backend, tensor.Shape{2, 2}, 10, 10, 10, 10))
	assert.Equal(t, []float32{1, 1.5}, bn.RunningMean().Data())
	assert.NotEqual(t, bn.RunningMean().Data(), cl.RunningMean().Data())
}

func TestBatchNormEvalUsesRunningStats(t *testing.T) {
	backend := cpu.New()
	bn := nn.NewBatchNorm1D(2, 0, 0.1, backend)
	bn.Train(false)

	// running mean 0, var 1: identity
	out := bn.Forward(fromSlice(t, backend, tensor.Shape{1, 2}, 3, -4))
	assert.Equal(t, []float32{3, -4}, out.Data())
}

func TestEmbeddingClone(t *testing.T) {
	backend := cpu.New()
	embed := nn.NewEmbedding(5, 3, backend)

	cloned, err := embed.Clone()
	require.NoError(t, err)
	cl := cloned.(*nn.Embedding[B])

	ids, err := tensor.FromSlice([]int32{4, 0}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	assert.Equal(t, embed.Lookup(ids).Data(), cl.Lookup(ids).Data())

	idsF := fromSlice(t, backend, tensor.Shape{2}, 4, 0)
	out := cl.Forward(idsF)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, cl.Weight().Tensor().Data()[12:15], out.Data()[:3])
}

func TestSequentialClone(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential[B](
		nn.NewLinear(4, 3, backend),
		nn.NewReLU[B](),
		nn.NewLinear(3, 2, backend),
	)

	cloned, err := model.Clone()
	require.NoError(t, err)

	cs := cloned.(*nn.Sequential[B])
	require.Equal(t, 3, cs.Len())
	assert.Equal(t, []string{"0", "1", "2"}, cs.NamedChildren().Keys())
	for i := range cs.Len() {
		assert.NotSame(t, model.Module(i), cs.Module(i))
		assert.Equal(t, model.Module(i).TypeName(), cs.Module(i).TypeName())
	}

	require.NoError(t, nn.CompareStructure[B](model, cs))
	assert.Empty(t, nn.SharedTensors[B](model, cs))

	x := fromSlice(t, backend, tensor.Shape{1, 4}, 1, -2, 3, -4)
	assert.Equal(t, model.Forward(x).Data(), cs.Forward(x).Data())
}

func TestSequentialCloneFailure(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential[B](nn.NewLinear(2, 2, backend), newConstructorParam(backend))

	_, err := model.Clone()
	require.ErrorIs(t, err, nn.ErrStructuralMismatch)
	assert.Contains(t, err.Error(), `cloning child "1" of Sequential`)
}

func TestSequentialInsideModule(t *testing.T) {
	backend := cpu.New()
	inner := nn.NewSequential[B](nn.NewLinear(2, 2, backend))
	model := nn.NewSequential[B](inner, nn.NewReLU[B]())

	cloned, err := model.Clone()
	require.NoError(t, err)
	assert.Equal(t, []string{"0.0.bias", "0.0.weight"}, slices.Sorted(maps.Keys(cloned.StateDict())))
	assert.Empty(t, nn.SharedTensors(model, cloned))
}

func TestSequentialAdd(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential[B]()
	model.Add(nn.NewLinear(2, 2, backend))
	model.Add(nn.NewReLU[B]())

	assert.Equal(t, 2, model.Len())
	assert.Equal(t, []string{"0", "1"}, model.NamedChildren().Keys())
	assert.Len(t, model.Parameters(), 2)
}
