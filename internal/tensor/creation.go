package tensor

import (
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err)
	}
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var one T
	switch p := any(&one).(type) {
	case *float32:
		*p = 1
	case *float64:
		*p = 1
	case *int32:
		*p = 1
	case *int64:
		*p = 1
	case *uint8:
		*p = 1
	case *bool:
		*p = true
	}
	return Full[T, B](shape, one, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](Shape{3, 3}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a tensor with values drawn from N(0, 1).
// Only float32 and float64 are supported.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	switch data := any(t.Data()).(type) {
	case []float32:
		for i := range data {
			data[i] = float32(rand.NormFloat64()) //nolint:gosec // G404: ML initialization, not security
		}
	case []float64:
		for i := range data {
			data[i] = rand.NormFloat64() //nolint:gosec // G404: ML initialization, not security
		}
	default:
		panic("Randn only supports float32 and float64 types")
	}
	return t
}

// Uniform creates a tensor with values drawn uniformly from [low, high).
// Only float32 and float64 are supported.
func Uniform[T DType, B Backend](shape Shape, low, high float64, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	span := high - low
	switch data := any(t.Data()).(type) {
	case []float32:
		for i := range data {
			data[i] = float32(low + rand.Float64()*span) //nolint:gosec // G404: ML initialization, not security
		}
	case []float64:
		for i := range data {
			data[i] = low + rand.Float64()*span //nolint:gosec // G404: ML initialization, not security
		}
	default:
		panic("Uniform only supports float32 and float64 types")
	}
	return t
}
