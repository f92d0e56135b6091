// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network modules and their deep-cloning
// protocol.
//
// # Overview
//
// This package contains:
//   - Module interface, Base registries, Parameter
//   - Cloneable: supplies Clone to any module type that embeds it
//   - Layers: Linear, Embedding, LayerNorm, BatchNorm1D, ReLU, Sequential
//   - Initialization: Xavier, Zeros, Ones, Randn
//   - Checkpoints: Save, Load
//
// # Basic Usage
//
//	backend := cpu.New()
//	model := nn.NewSequential[*cpu.Backend](
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[*cpu.Backend](),
//	    nn.NewLinear(128, 10, backend),
//	)
//
//	clone, err := model.Clone()
//	if err != nil {
//	    return err
//	}
//	// clone has its own copy of every weight.
//
// # Writing a module
//
// A module embeds Cloneable instantiated with its own type, binds it in the
// constructor and registers everything it owns from Reset:
//
//	type Block[B tensor.Backend] struct {
//	    nn.Cloneable[B, Block[B]]
//
//	    backend B
//	    proj    *nn.Linear[B]
//	    scale   *nn.Parameter[B]
//	}
//
//	func NewBlock[B tensor.Backend](backend B) *Block[B] {
//	    b := &Block[B]{backend: backend}
//	    b.Bind(b)
//	    b.Reset()
//	    return b
//	}
//
//	func (b *Block[B]) Reset() {
//	    b.scale = b.RegisterParameter("scale", nn.Ones(tensor.Shape{1}, b.backend))
//	    b.proj = nn.Register(&b.Base, "proj", nn.NewLinear(8, 8, b.backend))
//	}
//
// Clone copies the struct, discards the copied registrations, runs Reset on
// the copy and then copies every parameter and buffer into it. A Reset
// that registers under different names, or re-registers the original's own
// tensors, makes Clone fail with a *StructuralMismatchError instead of
// returning a clone that aliases the original.
package nn
