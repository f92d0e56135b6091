package cpu

import (
	"fmt"

	"github.com/born-ml/cloneable/internal/tensor"
)

// Embedding looks up rows of weight [N, D] for every index, producing
// [indices..., D]. Indices must be int32 or int64.
func (cpu *CPUBackend) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	wShape := weight.Shape()
	if len(wShape) != 2 {
		panic(fmt.Sprintf("embedding: weight must be 2D, got %v", wShape))
	}
	numEmbed, dim := wShape[0], wShape[1]

	var idx []int64
	switch indices.DType() {
	case tensor.Int32:
		for _, v := range indices.AsInt32() {
			idx = append(idx, int64(v))
		}
	case tensor.Int64:
		idx = indices.AsInt64()
	default:
		panic(fmt.Sprintf("embedding: indices must be int32 or int64, got %s", indices.DType()))
	}

	outShape := append(indices.Shape().Clone(), dim)
	result := cpu.newResult(outShape, weight.DType(), "embedding")

	rowBytes := dim * weight.DType().Size()
	src, dst := weight.Data(), result.Data()
	for i, v := range idx {
		if v < 0 || v >= int64(numEmbed) {
			panic(fmt.Sprintf("embedding: index %d out of range [0, %d)", v, numEmbed))
		}
		copy(dst[i*rowBytes:(i+1)*rowBytes], src[int(v)*rowBytes:(int(v)+1)*rowBytes])
	}

	return result
}
