// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Optimizer interface for custom optimizers
//
// Optimizers update parameters in place, so an optimizer built over a
// clone's Parameters trains the clone and leaves the original untouched:
//
//	clone, err := model.Clone()
//	if err != nil {
//	    return err
//	}
//	opt := optim.NewSGD(clone.Parameters(), optim.SGDConfig{LR: 0.01}, backend)
//	// ... set gradients ...
//	if err := opt.Step(); err != nil {
//	    return err
//	}
package optim
