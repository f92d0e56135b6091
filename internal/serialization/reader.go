package serialization

import (
	"fmt"
	"io"
	"os"

	"github.com/born-ml/cloneable/internal/tensor"
)

// Unmarshal decodes and validates a checkpoint.
func Unmarshal(data []byte) (*Checkpoint, error) {
	var c Checkpoint
	if err := decMode.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if err := ValidateCheckpoint(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// StateDict materializes the checkpoint's tensors on device.
func (c *Checkpoint) StateDict(device tensor.Device) (map[string]*tensor.RawTensor, error) {
	stateDict := make(map[string]*tensor.RawTensor, len(c.Tensors))
	for i := range c.Tensors {
		raw, err := c.Tensors[i].toRaw(device)
		if err != nil {
			return nil, err
		}
		stateDict[c.Tensors[i].Name] = raw
	}
	return stateDict, nil
}

// ReadStateDict reads a checkpoint from r and returns its header and its
// tensors on the CPU.
func ReadStateDict(r io.Reader) (*Header, map[string]*tensor.RawTensor, error) {
	data, err := readLimited(r, MaxCheckpointSize)
	if err != nil {
		return nil, nil, err
	}
	c, err := Unmarshal(data)
	if err != nil {
		return nil, nil, err
	}
	stateDict, err := c.StateDict(tensor.CPU)
	if err != nil {
		return nil, nil, err
	}
	return &c.Header, stateDict, nil
}

// readLimited reads r to the end, failing once more than limit bytes arrive.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &ValidationError{
			Type:    "too_large",
			Details: fmt.Sprintf("more than %d bytes", limit),
			Err:     ErrTooLarge,
		}
	}
	return data, nil
}

// ReadFile reads the checkpoint at path.
func ReadFile(path string) (*Header, map[string]*tensor.RawTensor, error) {
	f, err := os.Open(path) //nolint:gosec // G304: caller-supplied path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadStateDict(f)
}
