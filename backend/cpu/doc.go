// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements the reference engine with:
//   - Pure Go implementation (no CGO)
//   - float64 storage tagged with the tensor's DataType
//   - Element-wise kernels split across goroutines
//   - NumPy-compatible broadcasting
//   - Collective reductions over an injected communicator
//
// Importing the package registers the backend under the name "cpu".
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
//	    x, _ := tensor.FullOn(backend, tensor.Shape{2, 3}, 1, tensor.Float32)
//	    y, _ := tensor.Exp(x)
//	}
//
// # Collectives
//
// A backend created without a communicator is the only rank of its run:
// AllReduce leaves tensors unchanged. To reduce across goroutines connect
// each rank's backend to one collective.Group:
//
//	group := collective.NewGroup(4)
//	backends := make([]*cpu.Backend, 4)
//	for r := range backends {
//	    backends[r] = cpu.New(cpu.WithCommunicator(group.Rank(r)))
//	}
//
// Asynchronous collectives complete at SyncCollective, or when a result is
// read through Scalar.
//
// # Thread Safety
//
// A Backend may be shared by goroutines, but all ranks must issue their
// collectives in the same order.
package cpu
