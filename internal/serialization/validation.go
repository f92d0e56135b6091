package serialization

import (
	"fmt"
	"strings"

	"github.com/born-ml/cloneable/internal/tensor"
)

// Validation limits for resource protection.
const (
	MaxCheckpointSize = 1 << 30          // 1GB - maximum encoded checkpoint size
	MaxTensorCount    = 100_000          // Maximum number of tensors in a file
	MaxTensorNameLen  = 4096             // Maximum tensor name length
	MaxMetadataSize   = 10 * 1024 * 1024 // 10MB - maximum metadata size
)

// ValidateTensorName checks that name is a dotted state dict path.
func ValidateTensorName(name string) error {
	invalid := func(details string) error {
		return &ValidationError{Type: "invalid_name", Tensor: name, Details: details, Err: ErrInvalidTensorName}
	}

	switch {
	case name == "":
		return invalid("empty name")
	case len(name) > MaxTensorNameLen:
		return invalid(fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen))
	case strings.Contains(name, ".."), strings.HasPrefix(name, "."), strings.HasSuffix(name, "."):
		return invalid("empty path component")
	case strings.ContainsAny(name, "/\\\x00"):
		return invalid("contains path separator or null byte")
	}
	return nil
}

// ValidateRecord checks that r describes a well-formed tensor.
func ValidateRecord(r *TensorRecord) error {
	if err := ValidateTensorName(r.Name); err != nil {
		return err
	}

	invalid := func(typ, details string) error {
		return &ValidationError{Type: typ, Tensor: r.Name, Details: details, Err: ErrInvalidTensor}
	}

	dtype, err := tensor.ParseDataType(r.DType)
	if err != nil {
		return invalid("invalid_dtype", err.Error())
	}
	shape := tensor.Shape(r.Shape)
	if err := shape.Validate(); err != nil {
		return invalid("invalid_shape", err.Error())
	}
	want, err := byteSize(shape, dtype)
	if err != nil {
		return invalid("too_large", err.Error())
	}
	if len(r.Data) != want {
		return invalid("size_mismatch", fmt.Sprintf("shape %v of %s needs %d bytes, got %d", shape, dtype, want, len(r.Data)))
	}
	return nil
}

// byteSize returns the storage size of a tensor of the given shape and
// dtype, refusing sizes above MaxCheckpointSize. Each factor is checked
// before it is multiplied in, so the product never overflows.
func byteSize(shape tensor.Shape, dtype tensor.DataType) (int, error) {
	const limit = MaxCheckpointSize
	n := dtype.Size()
	for _, dim := range shape {
		if n > limit/dim {
			return 0, fmt.Errorf("shape %v of %s exceeds %d bytes", shape, dtype, limit)
		}
		n *= dim
	}
	return n, nil
}

// ValidateCheckpoint checks the header, every record and the checksum.
func ValidateCheckpoint(c *Checkpoint) error {
	if c.Format != FormatName {
		return fmt.Errorf("%w: format %q", ErrInvalidFormat, c.Format)
	}
	if c.Version != FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, c.Version)
	}
	if len(c.Tensors) > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(c.Tensors), MaxTensorCount),
			Err:     ErrTooManyTensors,
		}
	}

	metadataSize := 0
	for k, v := range c.Metadata {
		metadataSize += len(k) + len(v)
	}
	if metadataSize > MaxMetadataSize {
		return &ValidationError{
			Type:    "metadata_too_large",
			Details: fmt.Sprintf("got %d bytes, max %d", metadataSize, MaxMetadataSize),
			Err:     ErrTooLarge,
		}
	}

	seen := make(map[string]struct{}, len(c.Tensors))
	for i := range c.Tensors {
		r := &c.Tensors[i]
		if err := ValidateRecord(r); err != nil {
			return err
		}
		if _, ok := seen[r.Name]; ok {
			return &ValidationError{Type: "duplicate_name", Tensor: r.Name, Details: "appears twice", Err: ErrInvalidTensorName}
		}
		seen[r.Name] = struct{}{}
	}

	return ValidateChecksum(ComputeChecksum(c.Tensors), c.Checksum)
}
