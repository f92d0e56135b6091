// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32, Float64, Int32 and Int64 arithmetic
//   - NumPy-compatible broadcasting
//   - Asynchronous, ordered tensor copies (tensor.AsyncCopier)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/cloneable/backend/cpu"
//	    "github.com/born-ml/cloneable/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    model := nn.NewSequential[*cpu.Backend](
//	        nn.NewLinear(784, 128, backend),
//	        nn.NewReLU[*cpu.Backend](),
//	    )
//	    clone, err := model.Clone()
//	}
//
// # Copies
//
// CopyAsync queues a copy and returns immediately; copies run one after
// another in submission order. Synchronize waits for all of them and
// returns the first error. Module cloning uses this path, so a deep clone
// of a large model is issued without blocking on each tensor.
package cpu
