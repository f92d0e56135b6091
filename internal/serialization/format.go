package serialization

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/born-ml/cloneable/internal/tensor"
)

// Format constants.
const (
	FormatName    = "born-checkpoint"
	FormatVersion = 1
)

// Header is the descriptive part of a checkpoint.
type Header struct {
	Format    string            `cbor:"format"`
	Version   int               `cbor:"version"`
	ModelType string            `cbor:"model_type"`
	CreatedAt int64             `cbor:"created_at"`
	Metadata  map[string]string `cbor:"metadata"`
}

// TensorRecord is one named tensor of a checkpoint.
type TensorRecord struct {
	Name  string `cbor:"name"`
	DType string `cbor:"dtype"`
	Shape []int  `cbor:"shape"`
	Data  []byte `cbor:"data"`
}

// Checkpoint is the document stored in a checkpoint file.
type Checkpoint struct {
	Header
	Tensors  []TensorRecord `cbor:"tensors"`
	Checksum []byte         `cbor:"checksum"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CanonicalEncOptions().EncMode(); err != nil {
		panic("serialization: failed to create CBOR encoder: " + err.Error())
	}
	if decMode, err = (cbor.DecOptions{
		MaxArrayElements: MaxTensorCount + 1,
	}).DecMode(); err != nil {
		panic("serialization: failed to create CBOR decoder: " + err.Error())
	}
}

// newRecord snapshots raw into a record. The data is copied.
func newRecord(name string, raw *tensor.RawTensor) TensorRecord {
	return TensorRecord{
		Name:  name,
		DType: raw.DType().String(),
		Shape: raw.Shape().Clone(),
		Data:  append([]byte(nil), raw.Data()...),
	}
}

// toRaw rebuilds the tensor of a validated record on device.
func (r *TensorRecord) toRaw(device tensor.Device) (*tensor.RawTensor, error) {
	dtype, err := tensor.ParseDataType(r.DType)
	if err != nil {
		return nil, err
	}
	raw, err := tensor.NewRaw(tensor.Shape(r.Shape), dtype, device)
	if err != nil {
		return nil, fmt.Errorf("tensor %q: %w", r.Name, err)
	}
	copy(raw.Data(), r.Data)
	return raw, nil
}
