// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/born-collective/internal/tensor"
)

// BackendType names a tensor engine.
type BackendType = tensor.BackendType

// Backend type constants.
const (
	CPU  BackendType = tensor.CPU
	Mock BackendType = tensor.Mock
	Stub BackendType = tensor.Stub
)

// Backend is the interface every tensor engine implements.
//
// Besides element-wise math and reductions a Backend provides the
// collective primitives used by the distributed package:
//   - AllReduce and AllReduceMultiple sum tensors across ranks in place
//   - SyncCollective waits for asynchronous collectives
//   - Scalar reads element 0 and forces any deferred work
//
// Implementations:
//   - cpu.Backend: pure Go reference engine
//   - MockBackend: call-counting engine for tests
type Backend = tensor.Backend

// Adapter is the backend-private storage owned by a Tensor.
type Adapter = tensor.Adapter

// BackendFactory constructs a backend on first use.
type BackendFactory = tensor.BackendFactory

// RegisterBackend makes a backend available by name. The first registered
// backend becomes the default.
func RegisterBackend(name string, f BackendFactory) {
	tensor.RegisterBackend(name, f)
}

// SetDefaultBackend selects the backend used by Empty and Full.
func SetDefaultBackend(name string) error {
	return tensor.SetDefaultBackend(name)
}

// DefaultBackend returns the default backend.
func DefaultBackend() (Backend, error) {
	return tensor.DefaultBackend()
}

// LookupBackend returns the backend registered under name.
func LookupBackend(name string) (Backend, error) {
	return tensor.LookupBackend(name)
}

// MockBackend is a call-counting backend for tests.
type MockBackend = tensor.MockBackend

// NewMockBackend creates a MockBackend.
func NewMockBackend() *MockBackend {
	return tensor.NewMockBackend()
}

// NewMockBackendAs creates a MockBackend reporting the given type tag.
func NewMockBackendAs(bt BackendType) *MockBackend {
	return tensor.NewMockBackendAs(bt)
}
