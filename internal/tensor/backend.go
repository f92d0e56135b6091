package tensor

// Backend defines the operations a compute backend provides to tensors.
//
// Implementations:
//   - CPU: pure Go (internal/backend/cpu)
type Backend interface {
	// Element-wise binary operations with broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul multiplies two 2D tensors: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations.
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor

	// Element-wise math.
	Rsqrt(x *RawTensor) *RawTensor

	// MeanDim averages along dim.
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Embedding gathers rows of weight for each index.
	Embedding(weight, indices *RawTensor) *RawTensor

	// Metadata
	Name() string
	Device() Device
}

// AsyncCopier is implemented by backends that can copy tensor data without
// blocking the caller.
//
// Copies issued through CopyAsync run in submission order. Synchronize
// blocks until every copy issued so far has completed and returns the first
// error any of them produced. Neither tensor may be touched by the caller
// between CopyAsync and Synchronize.
type AsyncCopier interface {
	CopyAsync(dst, src *RawTensor) error
	Synchronize() error
}

// Synchronize waits for in-flight non-blocking copies on every backend that
// supports them. Backends without AsyncCopier are skipped.
func Synchronize(backends ...any) error {
	var first error
	for _, b := range backends {
		ac, ok := b.(AsyncCopier)
		if !ok {
			continue
		}
		if err := ac.Synchronize(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
