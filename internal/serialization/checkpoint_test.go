package serialization

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cloneable/internal/tensor"
)

func rawFloat32(t *testing.T, shape tensor.Shape, values ...float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsFloat32(), values)
	return raw
}

func sampleStateDict(t *testing.T) map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"0.weight":             rawFloat32(t, tensor.Shape{2, 2}, 1, 2, 3, 4),
		"0.bias":               rawFloat32(t, tensor.Shape{2}, 0.5, -0.5),
		"1.running_mean":       rawFloat32(t, tensor.Shape{2}, 0, 0),
		"encoder.inner.weight": rawFloat32(t, tensor.Shape{1, 2}, 7, 8),
	}
}

func TestStateDictRoundTrip(t *testing.T) {
	stateDict := sampleStateDict(t)

	var buf bytes.Buffer
	require.NoError(t, WriteStateDict(&buf, "Sequential", stateDict, map[string]string{"note": "test"}))

	header, loaded, err := ReadStateDict(&buf)
	require.NoError(t, err)

	assert.Equal(t, FormatName, header.Format)
	assert.Equal(t, FormatVersion, header.Version)
	assert.Equal(t, "Sequential", header.ModelType)
	assert.Equal(t, "test", header.Metadata["note"])
	assert.NotZero(t, header.CreatedAt)

	require.Len(t, loaded, len(stateDict))
	for name, want := range stateDict {
		got, ok := loaded[name]
		require.True(t, ok, name)
		assert.Equal(t, want.Shape(), got.Shape(), name)
		assert.Equal(t, want.DType(), got.DType(), name)
		assert.Equal(t, want.AsFloat32(), got.AsFloat32(), name)
		assert.False(t, got.SharesStorage(want), name)
	}
}

func TestCheckpointIsCanonical(t *testing.T) {
	a, err := NewCheckpoint("Linear", sampleStateDict(t), nil)
	require.NoError(t, err)
	b, err := NewCheckpoint("Linear", sampleStateDict(t), nil)
	require.NoError(t, err)
	b.CreatedAt = a.CreatedAt

	ab, err := a.Marshal()
	require.NoError(t, err)
	bb, err := b.Marshal()
	require.NoError(t, err)
	assert.Equal(t, ab, bb)

	names := make([]string, 0, len(a.Tensors))
	for _, r := range a.Tensors {
		names = append(names, r.Name)
	}
	assert.IsNonDecreasing(t, names)
}

func TestCheckpointSnapshotsData(t *testing.T) {
	stateDict := sampleStateDict(t)
	c, err := NewCheckpoint("Linear", stateDict, nil)
	require.NoError(t, err)

	stateDict["0.bias"].AsFloat32()[0] = 42

	loaded, err := c.StateDict(tensor.CPU)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.5}, loaded["0.bias"].AsFloat32())
}

func TestReadRejectsCorruption(t *testing.T) {
	c, err := NewCheckpoint("Linear", sampleStateDict(t), nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Checkpoint)
		want   error
	}{
		{"format", func(c *Checkpoint) { c.Format = "safetensors" }, ErrInvalidFormat},
		{"version", func(c *Checkpoint) { c.Version = 99 }, ErrUnsupportedVersion},
		{"data", func(c *Checkpoint) { c.Tensors[0].Data[0] ^= 0xff }, ErrChecksumMismatch},
		{"size", func(c *Checkpoint) { c.Tensors[0].Data = c.Tensors[0].Data[:1] }, ErrInvalidTensor},
		{"dtype", func(c *Checkpoint) { c.Tensors[0].DType = "complex64" }, ErrInvalidTensor},
		{"name", func(c *Checkpoint) { c.Tensors[0].Name = "../etc" }, ErrInvalidTensorName},
		{"duplicate", func(c *Checkpoint) { c.Tensors[1].Name = c.Tensors[0].Name }, ErrInvalidTensorName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := c.Marshal()
			require.NoError(t, err)
			cp, err := Unmarshal(data)
			require.NoError(t, err)

			tt.mutate(cp)
			data, err = cp.Marshal()
			require.NoError(t, err)

			_, _, err = ReadStateDict(bytes.NewReader(data))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadRejectsOverflowingShape(t *testing.T) {
	c, err := NewCheckpoint("Linear", sampleStateDict(t), nil)
	require.NoError(t, err)

	// (math.MaxInt/4 + 2) * 2 elements of 4 bytes wrap around to 8 bytes.
	r := &c.Tensors[0]
	r.Shape = []int{math.MaxInt/4 + 2, 2}
	r.Data = make([]byte, 8)
	sum := ComputeChecksum(c.Tensors)
	c.Checksum = sum[:]

	data, err := c.Marshal()
	require.NoError(t, err)

	_, _, err = ReadStateDict(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrInvalidTensor)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "too_large", verr.Type)
}

func TestByteSize(t *testing.T) {
	n, err := byteSize(tensor.Shape{2, 3}, tensor.Float64)
	require.NoError(t, err)
	assert.Equal(t, 48, n)

	n, err = byteSize(tensor.Shape{}, tensor.Float32)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = byteSize(tensor.Shape{MaxCheckpointSize/4 + 1}, tensor.Float32)
	require.Error(t, err)
	_, err = byteSize(tensor.Shape{1 << 20, 1 << 20, 1 << 20}, tensor.Uint8)
	require.Error(t, err)
}

func TestReadRejectsOversizedInput(t *testing.T) {
	data, err := readLimited(bytes.NewReader(make([]byte, 64)), 64)
	require.NoError(t, err)
	assert.Len(t, data, 64)

	_, err = readLimited(bytes.NewReader(make([]byte, 65)), 64)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestReadRejectsLargeMetadata(t *testing.T) {
	metadata := map[string]string{"blob": string(make([]byte, MaxMetadataSize))}
	c, err := NewCheckpoint("Linear", sampleStateDict(t), metadata)
	require.NoError(t, err)

	data, err := c.Marshal()
	require.NoError(t, err)

	_, err = Unmarshal(data)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestReadRejectsGarbage(t *testing.T) {
	_, _, err := ReadStateDict(bytes.NewReader([]byte("BORN\x01\x00\x00\x00")))
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestWriteRejectsInvalidName(t *testing.T) {
	stateDict := map[string]*tensor.RawTensor{"a/b": rawFloat32(t, tensor.Shape{1}, 1)}
	err := WriteStateDict(&bytes.Buffer{}, "Linear", stateDict, nil)
	require.ErrorIs(t, err, ErrInvalidTensorName)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.cbor")
	require.NoError(t, WriteFile(path, "Linear", sampleStateDict(t), nil))

	header, loaded, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Linear", header.ModelType)
	assert.Len(t, loaded, 4)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}
