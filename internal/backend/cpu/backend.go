// Package cpu implements the pure Go CPU backend.
package cpu

import (
	"github.com/born-ml/cloneable/internal/parallel"
	"github.com/born-ml/cloneable/internal/tensor"
)

// CPUBackend implements tensor operations on host memory.
//
// It also implements tensor.AsyncCopier: copies issued with CopyAsync run on
// an ordered copy stream and complete by the next Synchronize.
type CPUBackend struct {
	device   tensor.Device
	stream   copyStream
	parallel parallel.Config
}

// New creates a new CPU backend that spreads large kernels over all CPUs.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with explicit kernel parallelism.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// CopyAsync queues a copy of src into dst on the backend's copy stream.
func (cpu *CPUBackend) CopyAsync(dst, src *tensor.RawTensor) error {
	if err := dst.CheckCopy(src); err != nil {
		return err
	}
	cpu.stream.enqueue(func() error {
		return dst.CopyFrom(src)
	})
	return nil
}

// Synchronize waits for every queued copy and returns the first copy error.
func (cpu *CPUBackend) Synchronize() error {
	return cpu.stream.synchronize()
}

func (cpu *CPUBackend) newResult(shape tensor.Shape, dtype tensor.DataType, op string) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		panic(op + ": failed to create result tensor: " + err.Error())
	}
	return result
}
