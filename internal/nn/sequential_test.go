package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cloneable/internal/backend/cpu"
	"github.com/born-ml/cloneable/internal/tensor"
)

type cpuBackend = *cpu.CPUBackend

func TestSequentialCloneWithAdd(t *testing.T) {
	backend := cpu.New()
	s := NewSequential[cpuBackend](NewLinear(2, 2, backend))
	s.Add(NewReLU[cpuBackend]())

	cloned, err := s.Clone()
	require.NoError(t, err)

	cs, ok := cloned.(*Sequential[cpuBackend])
	require.True(t, ok)
	assert.Equal(t, 2, cs.Len())
	assert.Equal(t, []string{"0", "1"}, cs.NamedChildren().Keys())
	assert.NotSame(t, s.Module(0), cs.Module(0))
	require.NoError(t, CompareStructure[cpuBackend](s, cs))
}

func TestSequentialCloneRejectsDirectRegistrations(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name     string
		register func(s *Sequential[cpuBackend])
		category Category
		want     int
		got      int
	}{
		{
			name:     "parameter",
			register: func(s *Sequential[cpuBackend]) { s.RegisterParameter("scale", Ones(tensor.Shape{1}, backend)) },
			category: CategoryParameters,
			want:     1,
			got:      0,
		},
		{
			name:     "buffer",
			register: func(s *Sequential[cpuBackend]) { s.RegisterBuffer("steps", Zeros(tensor.Shape{1}, backend)) },
			category: CategoryBuffers,
			want:     1,
			got:      0,
		},
		{
			name:     "child",
			register: func(s *Sequential[cpuBackend]) { s.RegisterModule("extra", NewReLU[cpuBackend]()) },
			category: CategoryChildren,
			want:     2,
			got:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSequential[cpuBackend](NewLinear(2, 2, backend))
			tt.register(s)

			cloned, err := s.Clone()
			require.ErrorIs(t, err, ErrStructuralMismatch)
			assert.Nil(t, cloned)

			var sm *StructuralMismatchError
			require.ErrorAs(t, err, &sm)
			assert.Equal(t, "Sequential", sm.Module)
			assert.Equal(t, tt.category, sm.Category)
			assert.Equal(t, tt.want, sm.Want)
			assert.Equal(t, tt.got, sm.Got)

			var g tensor.CopyGroup
			_, err = s.cloneTree(&g)
			require.Error(t, err)
			assert.Zero(t, g.Bytes(), "nothing is copied when the structure is rejected")
		})
	}
}

func TestCloneTreeUsesOneCopyGroup(t *testing.T) {
	backend := cpu.New()
	s := NewSequential[cpuBackend](
		NewLinear(3, 2, backend),
		NewReLU[cpuBackend](),
		NewLinear(2, 1, backend, WithBias(false)),
	)

	var g tensor.CopyGroup
	cp, err := s.cloneTree(&g)
	require.NoError(t, err)
	require.NoError(t, g.Wait())

	assert.Equal(t, int64((6+2+2)*4), g.Bytes())
	require.NoError(t, CompareStructure[cpuBackend](s, cp))
	assert.Empty(t, SharedTensors[cpuBackend](s, cp))

	src := s.Module(0).(*Linear[cpuBackend])
	dst := cp.(*Sequential[cpuBackend]).Module(0).(*Linear[cpuBackend])
	assert.Equal(t, src.Weight().Tensor().Data(), dst.Weight().Tensor().Data())
}

func TestCheckCounts(t *testing.T) {
	l := NewLinear(2, 2, cpu.New())
	src := l.base()

	require.NoError(t, checkCounts(l.TypeName(), src, 2, 0, 0))

	err := checkCounts(l.TypeName(), src, 2, 1, 0)
	var sm *StructuralMismatchError
	require.ErrorAs(t, err, &sm)
	assert.Equal(t, CategoryBuffers, sm.Category)
	assert.Equal(t, 0, sm.Want)
	assert.Equal(t, 1, sm.Got)
}

func TestResetRunsOnEmptyRegistriesOnly(t *testing.T) {
	l := NewLinear(2, 2, cpu.New())
	assert.Panics(t, l.Reset, "a second Reset re-registers \"weight\"")

	l.clearRegistries()
	assert.NotPanics(t, l.Reset)
	assert.Equal(t, []string{"weight", "bias"}, l.NamedParameters().Keys())
}
