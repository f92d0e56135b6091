package inspect

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/cloneable/internal/backend/cpu"
	"github.com/born-ml/cloneable/internal/nn"
	"github.com/born-ml/cloneable/internal/tensor"
)

func TestEntries(t *testing.T) {
	require := require.New(t)

	backend := cpu.New()
	lin := nn.NewLinear(3, 2, backend)
	lin.Bias().SetRequiresGrad(false)
	model := nn.NewSequential[*cpu.CPUBackend](
		lin,
		nn.NewBatchNorm1D(2, 1e-5, 0.1, backend),
	)

	entries := Entries[*cpu.CPUBackend](model)
	require.Len(entries, 6)

	require.Equal(Entry{
		Name:      "0.weight",
		Kind:      "parameter",
		Shape:     tensor.Shape{2, 3},
		DType:     tensor.Float32,
		Trainable: true,
	}, entries[0])
	require.Equal("0.bias", entries[1].Name)
	require.False(entries[1].Trainable)
	require.Equal("1.running_var", entries[5].Name)
	require.Equal("buffer", entries[5].Kind)

	var buf bytes.Buffer
	WriteTable(&buf, entries)
	require.Contains(buf.String(), "0.weight")
	require.Contains(buf.String(), "4 parameters, 2 buffers, 16 elements")
}
