package serialization

import (
	"errors"
	"testing"
)

// TestComputeChecksum verifies the checksum depends on every record field.
func TestComputeChecksum(t *testing.T) {
	base := []TensorRecord{{Name: "w", DType: "float32", Shape: []int{1}, Data: []byte{0, 0, 128, 63}}}
	checksum1 := ComputeChecksum(base)
	checksum2 := ComputeChecksum(base)

	if checksum1 != checksum2 {
		t.Error("Checksums should match for identical records")
	}

	variants := map[string][]TensorRecord{
		"name":  {{Name: "b", DType: "float32", Shape: []int{1}, Data: []byte{0, 0, 128, 63}}},
		"dtype": {{Name: "w", DType: "int32", Shape: []int{1}, Data: []byte{0, 0, 128, 63}}},
		"shape": {{Name: "w", DType: "float32", Shape: []int{1, 1}, Data: []byte{0, 0, 128, 63}}},
		"data":  {{Name: "w", DType: "float32", Shape: []int{1}, Data: []byte{0, 0, 0, 64}}},
	}
	for field, records := range variants {
		if ComputeChecksum(records) == checksum1 {
			t.Errorf("Checksum should change with %s", field)
		}
	}
}

// TestComputeChecksumBoundaries verifies that moving bytes between fields changes the checksum.
func TestComputeChecksumBoundaries(t *testing.T) {
	a := []TensorRecord{{Name: "ab", DType: "c"}}
	b := []TensorRecord{{Name: "a", DType: "bc"}}
	if ComputeChecksum(a) == ComputeChecksum(b) {
		t.Error("Checksums should differ when field boundaries differ")
	}
}

// TestValidateChecksum verifies checksum validation.
func TestValidateChecksum(t *testing.T) {
	checksum := ComputeChecksum(nil)

	if err := ValidateChecksum(checksum, checksum[:]); err != nil {
		t.Errorf("Expected no error for matching checksums, got: %v", err)
	}

	wrong := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := ValidateChecksum(checksum, wrong); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Expected ErrChecksumMismatch, got: %v", err)
	}

	if err := ValidateChecksum(checksum, nil); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Expected ErrChecksumMismatch for missing checksum, got: %v", err)
	}
}
