// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/cloneable/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: Pure Go, with an ordered asynchronous copy stream
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend = tensor.Backend

// AsyncCopier is implemented by backends that can copy tensor data without
// blocking the caller. Copies complete in submission order and are all
// visible after Synchronize.
type AsyncCopier = tensor.AsyncCopier

// CopyGroup issues a batch of copies and waits for all of them at once.
type CopyGroup = tensor.CopyGroup

// Synchronize waits for in-flight non-blocking copies on every backend that
// supports them.
func Synchronize(backends ...any) error {
	return tensor.Synchronize(backends...)
}
