package cpu

import (
	"fmt"

	"github.com/born-ml/cloneable/internal/tensor"
)

// MeanDim averages x along dim. With keepDim the reduced dimension is kept
// with size 1.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	d, err := shape.NormalizeDim(dim)
	if err != nil {
		panic(fmt.Sprintf("mean_dim: %v", err))
	}

	outer := 1
	for _, s := range shape[:d] {
		outer *= s
	}
	inner := 1
	for _, s := range shape[d+1:] {
		inner *= s
	}
	size := shape[d]

	var outShape tensor.Shape
	for i, s := range shape {
		switch {
		case i != d:
			outShape = append(outShape, s)
		case keepDim:
			outShape = append(outShape, 1)
		}
	}
	result := cpu.newResult(outShape, x.DType(), "mean_dim")

	switch x.DType() {
	case tensor.Float32:
		meanDim(result.AsFloat32(), x.AsFloat32(), outer, size, inner)
	case tensor.Float64:
		meanDim(result.AsFloat64(), x.AsFloat64(), outer, size, inner)
	default:
		panic(fmt.Sprintf("mean_dim: unsupported dtype %s", x.DType()))
	}

	return result
}

func meanDim[T ~float32 | ~float64](out, in []T, outer, size, inner int) {
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			var sum T
			for s := 0; s < size; s++ {
				sum += in[(o*size+s)*inner+i]
			}
			out[o*inner+i] = sum / T(size)
		}
	}
}
