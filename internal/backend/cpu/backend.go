// Package cpu implements the reference CPU backend: float64 storage with a
// dtype tag, parallel element-wise kernels, and collective reductions over an
// injected communicator.
package cpu

import (
	"context"
	"fmt"
	"sync"

	"github.com/born-ml/born-collective/internal/collective"
	"github.com/born-ml/born-collective/internal/parallel"
	"github.com/born-ml/born-collective/internal/tensor"
)

// Verify that CPUBackend implements Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

func init() {
	tensor.RegisterBackend("cpu", func() (tensor.Backend, error) {
		return New(), nil
	})
}

// Option configures a CPUBackend.
type Option func(*CPUBackend)

// WithCommunicator connects the backend to its peer ranks. Without one the
// backend acts as the only rank and collectives leave tensors unchanged.
func WithCommunicator(c collective.Communicator) Option {
	return func(cpu *CPUBackend) { cpu.comm = c }
}

// WithParallel sets the worker configuration for element-wise kernels.
func WithParallel(cfg parallel.Config) Option {
	return func(cpu *CPUBackend) { cpu.par = cfg }
}

// WithContext sets the context passed to the communicator.
// Cancelling it aborts collectives that are still waiting for peers.
func WithContext(ctx context.Context) Option {
	return func(cpu *CPUBackend) { cpu.ctx = ctx }
}

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	comm collective.Communicator
	par  parallel.Config
	ctx  context.Context

	mu       sync.Mutex
	inflight []*pendingReduce // async collectives in launch order
}

// New creates a new CPU backend.
func New(opts ...Option) *CPUBackend {
	cpu := &CPUBackend{
		par: parallel.DefaultConfig(),
		ctx: context.Background(),
	}
	for _, opt := range opts {
		opt(cpu)
	}
	return cpu
}

// Type returns tensor.CPU.
func (cpu *CPUBackend) Type() tensor.BackendType {
	return tensor.CPU
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Communicator returns the communicator, or nil for a standalone backend.
func (cpu *CPUBackend) Communicator() collective.Communicator {
	return cpu.comm
}

// alloc creates a zeroed adapter.
func (cpu *CPUBackend) alloc(shape tensor.Shape, dtype tensor.DataType) *adapter {
	return &adapter{
		backend: cpu,
		shape:   shape.Clone(),
		dtype:   dtype,
		data:    make([]float64, shape.NumElements()),
	}
}

// operand returns the adapter behind x once any collective writing into it
// has completed.
func (cpu *CPUBackend) operand(op string, x *tensor.Tensor) (*adapter, error) {
	a, err := cpu.owned(op, x)
	if err != nil {
		return nil, err
	}
	if err := a.ready(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// owned returns the adapter behind x without waiting on collectives.
func (cpu *CPUBackend) owned(op string, x *tensor.Tensor) (*adapter, error) {
	if x == nil || x.Adapter() == nil {
		return nil, fmt.Errorf("%s: nil tensor: %w", op, tensor.ErrInvalidArgument)
	}
	a, ok := x.Adapter().(*adapter)
	if !ok || a.backend != cpu {
		return nil, fmt.Errorf("%s: tensor on %s backend does not belong to this CPU backend: %w",
			op, x.BackendType(), tensor.ErrInvalidArgument)
	}
	return a, nil
}

// Full creates a tensor filled with value.
func (cpu *CPUBackend) Full(shape tensor.Shape, value float64, dtype tensor.DataType) (*tensor.Tensor, error) {
	out := cpu.alloc(shape, dtype)
	v := tensor.CastValue(value, dtype)
	for i := range out.data {
		out.data[i] = v
	}
	return tensor.New(out), nil
}

// FromSlice creates a tensor holding a copy of data.
func (cpu *CPUBackend) FromSlice(data []float64, shape tensor.Shape, dtype tensor.DataType) (*tensor.Tensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("fromSlice: shape %v requires %d elements, but got %d: %w",
			shape, shape.NumElements(), len(data), tensor.ErrInvalidArgument)
	}
	out := cpu.alloc(shape, dtype)
	for i, v := range data {
		out.data[i] = tensor.CastValue(v, dtype)
	}
	return tensor.New(out), nil
}

// Scalar returns the first element, waiting for pending collectives.
func (cpu *CPUBackend) Scalar(x *tensor.Tensor) (float64, error) {
	a, err := cpu.operand("scalar", x)
	if err != nil {
		return 0, err
	}
	if len(a.data) == 0 {
		return 0, fmt.Errorf("scalar: tensor has no elements: %w", tensor.ErrInvalidArgument)
	}
	return a.data[0], nil
}

// Data returns a copy of x's elements in row-major order.
func (cpu *CPUBackend) Data(x *tensor.Tensor) ([]float64, error) {
	a, err := cpu.operand("data", x)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), a.data...), nil
}

// Set overwrites the element at flat position i.
func (cpu *CPUBackend) Set(x *tensor.Tensor, i int, v float64) error {
	a, err := cpu.operand("set", x)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(a.data) {
		return fmt.Errorf("set: index %d out of range [0, %d): %w", i, len(a.data), tensor.ErrInvalidArgument)
	}
	a.data[i] = tensor.CastValue(v, a.dtype)
	return nil
}
