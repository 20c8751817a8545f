// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"context"
	"runtime"

	internalcpu "github.com/born-ml/born-collective/internal/backend/cpu"
	"github.com/born-ml/born-collective/internal/collective"
	"github.com/born-ml/born-collective/internal/parallel"
	"github.com/born-ml/born-collective/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Option configures a Backend.
type Option = internalcpu.Option

// Communicator connects one rank to its peers. See the collective package.
type Communicator = collective.Communicator

// WithCommunicator connects the backend to its peer ranks.
func WithCommunicator(c Communicator) Option {
	return internalcpu.WithCommunicator(c)
}

// WithContext sets the context passed to the communicator.
func WithContext(ctx context.Context) Option {
	return internalcpu.WithContext(ctx)
}

// WithWorkers limits element-wise kernels to n goroutines.
// n <= 1 runs every kernel on the calling goroutine.
func WithWorkers(n int) Option {
	if n <= 1 {
		return internalcpu.WithParallel(parallel.Sequential())
	}
	cfg := parallel.DefaultConfig()
	cfg.Enabled = true
	cfg.NumWorkers = min(n, runtime.NumCPU())
	return internalcpu.WithParallel(cfg)
}

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/born-collective/backend/cpu"
//	    "github.com/born-ml/born-collective/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.FullOn(backend, tensor.Shape{2, 3}, 0, tensor.Float32)
//	}
func New(opts ...Option) *Backend {
	return internalcpu.New(opts...)
}
