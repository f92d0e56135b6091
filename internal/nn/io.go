package nn

import (
	"fmt"

	"github.com/born-ml/cloneable/internal/serialization"
	"github.com/born-ml/cloneable/internal/tensor"
)

// Save writes the module's state dict to a checkpoint at path.
func Save[B tensor.Backend](m Module[B], path string, metadata map[string]string) error {
	if err := serialization.WriteFile(path, m.TypeName(), m.StateDict(), metadata); err != nil {
		return fmt.Errorf("nn: saving %s: %w", m.TypeName(), err)
	}
	return nil
}

// Load reads the checkpoint at path into m. The checkpoint's model type
// must match m's.
func Load[B tensor.Backend](m Module[B], path string) (*serialization.Header, error) {
	header, stateDict, err := serialization.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("nn: loading %s: %w", m.TypeName(), err)
	}
	if header.ModelType != m.TypeName() {
		return nil, fmt.Errorf("nn: checkpoint holds a %s, not a %s", header.ModelType, m.TypeName())
	}
	if err := m.LoadStateDict(stateDict); err != nil {
		return nil, err
	}
	return header, nil
}
