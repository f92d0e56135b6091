// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensors for the Born ML framework.
//
// # Overview
//
// Tensors are the storage behind every module parameter and buffer. This
// package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - Copy-on-write raw storage with explicit deep copies
//   - Blocking and non-blocking data copies (CopyFrom, CopyGroup)
//   - NumPy-style broadcasting for element-wise operations
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/cloneable/tensor"
//	    "github.com/born-ml/cloneable/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	    z := x.Add(y)
//	}
//
// # Copies
//
// Clone shares storage until one side is written through CopyFrom; Copy
// always allocates. CopyFrom with nonBlocking set may return before the
// data has landed on backends that implement AsyncCopier:
//
//	if err := dst.CopyFrom(src, true); err != nil {
//	    return err
//	}
//	// ... issue more copies ...
//	if err := tensor.Synchronize(backend); err != nil {
//	    return err
//	}
package tensor
