package clone

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/cloneable/internal/backend/cpu"
	"github.com/born-ml/cloneable/internal/nn"
)

func TestVerify(t *testing.T) {
	require := require.New(t)

	backend := cpu.New()
	model := nn.NewSequential[*cpu.CPUBackend](
		nn.NewLinear(3, 2, backend),
		nn.NewLayerNorm(2, 1e-5, backend),
	)

	cloned, err := model.Clone()
	require.NoError(err)
	require.NoError(Verify(model, cloned))

	w := cloned.NamedChildren().Values()[0].NamedParameters().Values()[0]
	w.Tensor().Set(w.Tensor().At(0, 0)+1, 0, 0)
	require.ErrorContains(Verify(model, cloned), `"0.weight" differs`)

	other := nn.NewSequential[*cpu.CPUBackend](nn.NewLinear(3, 2, backend))
	require.ErrorContains(Verify(model, other), "structure differs")

	require.ErrorContains(Verify(model, model), "shares storage")
}
