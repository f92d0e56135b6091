package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"io"
)

// ComputeChecksum computes the SHA-256 checksum of the tensor records, in
// the order given. Every field is length-prefixed so that distinct record
// lists never hash the same input.
func ComputeChecksum(records []TensorRecord) [32]byte {
	h := sha256.New()
	for i := range records {
		writeRecord(h, &records[i])
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

func writeRecord(w io.Writer, r *TensorRecord) {
	var n [8]byte
	put := func(b []byte) {
		binary.LittleEndian.PutUint64(n[:], uint64(len(b)))
		_, _ = w.Write(n[:])
		_, _ = w.Write(b)
	}

	put([]byte(r.Name))
	put([]byte(r.DType))
	binary.LittleEndian.PutUint64(n[:], uint64(len(r.Shape)))
	_, _ = w.Write(n[:])
	for _, d := range r.Shape {
		binary.LittleEndian.PutUint64(n[:], uint64(d)) //nolint:gosec // shape dims are validated non-negative
		_, _ = w.Write(n[:])
	}
	put(r.Data)
}

// ValidateChecksum compares computed checksum against stored checksum.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(computed [32]byte, stored []byte) error {
	if len(stored) != len(computed) || string(computed[:]) != string(stored) {
		return ErrChecksumMismatch
	}
	return nil
}
