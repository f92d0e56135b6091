package serialization

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/born-ml/cloneable/internal/tensor"
)

// NewCheckpoint snapshots stateDict into a Checkpoint. Tensor data is
// copied, so stateDict may be modified afterwards.
func NewCheckpoint(modelType string, stateDict map[string]*tensor.RawTensor, metadata map[string]string) (*Checkpoint, error) {
	if len(stateDict) > MaxTensorCount {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyTensors, len(stateDict), MaxTensorCount)
	}

	names := slices.Sorted(maps.Keys(stateDict))
	records := make([]TensorRecord, 0, len(names))
	for _, name := range names {
		if err := ValidateTensorName(name); err != nil {
			return nil, err
		}
		records = append(records, newRecord(name, stateDict[name]))
	}

	if metadata == nil {
		metadata = map[string]string{}
	}
	sum := ComputeChecksum(records)

	return &Checkpoint{
		Header: Header{
			Format:    FormatName,
			Version:   FormatVersion,
			ModelType: modelType,
			CreatedAt: time.Now().Unix(),
			Metadata:  metadata,
		},
		Tensors:  records,
		Checksum: sum[:],
	}, nil
}

// Marshal encodes c as canonical CBOR.
func (c *Checkpoint) Marshal() ([]byte, error) {
	return encMode.Marshal(c)
}

// WriteStateDict encodes stateDict as a checkpoint into w.
func WriteStateDict(w io.Writer, modelType string, stateDict map[string]*tensor.RawTensor, metadata map[string]string) error {
	c, err := NewCheckpoint(modelType, stateDict, metadata)
	if err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// WriteFile writes stateDict to path. The file is written to a temporary
// name in the same directory and renamed into place.
func WriteFile(path, modelType string, stateDict map[string]*tensor.RawTensor, metadata map[string]string) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = WriteStateDict(f, modelType, stateDict, metadata); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
