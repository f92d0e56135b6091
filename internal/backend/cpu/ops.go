package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/cloneable/internal/tensor"
)

type number interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, addOp{})
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, subOp{})
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, mulOp{})
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b, divOp{})
}

type binaryOp interface {
	f32(x, y float32) float32
	f64(x, y float64) float64
	i32(x, y int32) int32
	i64(x, y int64) int64
}

type addOp struct{}

func (addOp) f32(x, y float32) float32 { return x + y }
func (addOp) f64(x, y float64) float64 { return x + y }
func (addOp) i32(x, y int32) int32     { return x + y }
func (addOp) i64(x, y int64) int64     { return x + y }

type subOp struct{}

func (subOp) f32(x, y float32) float32 { return x - y }
func (subOp) f64(x, y float64) float64 { return x - y }
func (subOp) i32(x, y int32) int32     { return x - y }
func (subOp) i64(x, y int64) int64     { return x - y }

type mulOp struct{}

func (mulOp) f32(x, y float32) float32 { return x * y }
func (mulOp) f64(x, y float64) float64 { return x * y }
func (mulOp) i32(x, y int32) int32     { return x * y }
func (mulOp) i64(x, y int64) int64     { return x * y }

type divOp struct{}

func (divOp) f32(x, y float32) float32 { return x / y }
func (divOp) f64(x, y float64) float64 { return x / y }
func (divOp) i32(x, y int32) int32     { return x / y }
func (divOp) i64(x, y int64) int64     { return x / y }

func (cpu *CPUBackend) binary(name string, a, b *tensor.RawTensor, op binaryOp) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	result := cpu.newResult(outShape, a.DType(), name)

	switch a.DType() {
	case tensor.Float32:
		broadcastApply(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, op.f32)
	case tensor.Float64:
		broadcastApply(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, op.f64)
	case tensor.Int32:
		broadcastApply(result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, op.i32)
	case tensor.Int64:
		broadcastApply(result.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, op.i64)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}

	return result
}

func broadcastApply[T number](out, a, b []T, aShape, bShape, outShape tensor.Shape, f func(x, y T) T) {
	if aShape.Equal(bShape) {
		for i := range out {
			out[i] = f(a[i], b[i])
		}
		return
	}

	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)
	for i := range out {
		out[i] = f(a[flatIndex(i, outStrides, aStrides)], b[flatIndex(i, outStrides, bStrides)])
	}
}

// broadcastStrides returns strides of inShape aligned to outShape, with 0
// for every broadcast dimension.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	offset := len(outShape) - len(inShape)
	orig := inShape.ComputeStrides()
	for i := range inShape {
		if inShape[i] != 1 {
			strides[i+offset] = orig[i]
		}
	}
	return strides
}

func flatIndex(outIdx int, outStrides, inStrides []int) int {
	flat := 0
	for i := range outStrides {
		flat += (outIdx / outStrides[i]) * inStrides[i]
		outIdx %= outStrides[i]
	}
	return flat
}

// MulScalar multiplies every element by scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalar("mul_scalar", x, scalar, mulOp{})
}

// AddScalar adds scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalar("add_scalar", x, scalar, addOp{})
}

func (cpu *CPUBackend) scalar(name string, x *tensor.RawTensor, scalar any, op binaryOp) *tensor.RawTensor {
	result := cpu.newResult(x.Shape(), x.DType(), name)

	switch x.DType() {
	case tensor.Float32:
		s := toFloat64(name, scalar)
		mapInto(result.AsFloat32(), x.AsFloat32(), func(v float32) float32 { return op.f32(v, float32(s)) })
	case tensor.Float64:
		s := toFloat64(name, scalar)
		mapInto(result.AsFloat64(), x.AsFloat64(), func(v float64) float64 { return op.f64(v, s) })
	case tensor.Int32:
		s := int32(toFloat64(name, scalar))
		mapInto(result.AsInt32(), x.AsInt32(), func(v int32) int32 { return op.i32(v, s) })
	case tensor.Int64:
		s := int64(toFloat64(name, scalar))
		mapInto(result.AsInt64(), x.AsInt64(), func(v int64) int64 { return op.i64(v, s) })
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}

func toFloat64(name string, scalar any) float64 {
	switch s := scalar.(type) {
	case float32:
		return float64(s)
	case float64:
		return s
	case int:
		return float64(s)
	case int32:
		return float64(s)
	case int64:
		return float64(s)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", name, scalar))
	}
}

func mapInto[T number](out, in []T, f func(T) T) {
	for i, v := range in {
		out[i] = f(v)
	}
}

// Rsqrt computes 1/sqrt(x) element-wise.
func (cpu *CPUBackend) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.newResult(x.Shape(), x.DType(), "rsqrt")

	switch x.DType() {
	case tensor.Float32:
		mapInto(result.AsFloat32(), x.AsFloat32(), func(v float32) float32 {
			return float32(1 / math.Sqrt(float64(v)))
		})
	case tensor.Float64:
		mapInto(result.AsFloat64(), x.AsFloat64(), func(v float64) float64 {
			return 1 / math.Sqrt(v)
		})
	default:
		panic(fmt.Sprintf("rsqrt: unsupported dtype %s", x.DType()))
	}

	return result
}

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.newResult(x.Shape(), x.DType(), "relu")

	switch x.DType() {
	case tensor.Float32:
		mapInto(result.AsFloat32(), x.AsFloat32(), func(v float32) float32 { return max(v, 0) })
	case tensor.Float64:
		mapInto(result.AsFloat64(), x.AsFloat64(), func(v float64) float64 { return max(v, 0) })
	default:
		panic(fmt.Sprintf("relu: unsupported dtype %s", x.DType()))
	}

	return result
}
