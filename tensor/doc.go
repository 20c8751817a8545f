// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides backend-polymorphic tensors.
//
// # Overview
//
// A Tensor owns exactly one adapter, the backend-private storage of its
// elements. Every operation is dispatched to the adapter's Backend, so the
// same program runs on any engine that implements the Backend interface:
//   - CPU: pure Go reference engine (see backend/cpu)
//   - Mock: call-counting engine for tests
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/born-collective/backend/cpu"
//	    "github.com/born-ml/born-collective/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x, _ := tensor.FromSlice(backend, []float64{-2, 0, 2}, tensor.Shape{3}, tensor.Float32)
//	    y, _ := tensor.ClipScalars(x, -1, 1)   // [-1 0 1]
//	    s, _ := tensor.Sum(y)                  // scalar tensor
//	    v, _ := s.Scalar()                     // 0
//	}
//
// # Default Backend
//
// Backends register themselves by name when their package is imported. The
// first registered backend is the default used by Empty and Full:
//
//	import _ "github.com/born-ml/born-collective/backend/cpu"
//
//	x, _ := tensor.Full(tensor.Shape{2, 2}, 1, tensor.Float64)
//
// # Mixing Backends
//
// Operations with several tensor operands require all of them to live on
// the same backend. A mismatch returns a *BackendMismatchError whose message
// starts with the operation name and which matches ErrInvalidArgument.
//
// # Broadcasting
//
// Binary operations follow NumPy broadcasting rules:
//
//	a, _ := tensor.FullOn(backend, tensor.Shape{3, 1}, 2, tensor.Float32) // (3, 1)
//	b, _ := tensor.FullOn(backend, tensor.Shape{3, 4}, 1, tensor.Float32) // (3, 4)
//	c, _ := tensor.Maximum(a, b)                                          // (3, 4)
package tensor
