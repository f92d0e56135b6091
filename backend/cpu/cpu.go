// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/cloneable/internal/backend/cpu"
	"github.com/born-ml/cloneable/tensor"
)

// Backend represents the CPU backend implementation.
//
// Backend provides pure Go implementations of the tensor operations the
// module layers use, and runs non-blocking copies on an ordered copy
// stream.
type Backend = internalcpu.CPUBackend

// Compile-time checks that Backend implements the tensor interfaces.
var (
	_ tensor.Backend     = (*Backend)(nil)
	_ tensor.AsyncCopier = (*Backend)(nil)
)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/cloneable/backend/cpu"
//	    "github.com/born-ml/cloneable/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}
