package cpu

import (
	"fmt"

	"github.com/born-ml/born-collective/internal/tensor"
)

// adapter is the CPU storage of one tensor.
type adapter struct {
	backend *CPUBackend
	shape   tensor.Shape
	dtype   tensor.DataType
	data    []float64

	// pending is set while an async collective will overwrite data.
	pending *pendingReduce

	// err is the failure of the collective that wrote data. The data then
	// holds the local, unreduced values.
	err error
}

func (a *adapter) Backend() tensor.Backend         { return a.backend }
func (a *adapter) BackendType() tensor.BackendType { return tensor.CPU }
func (a *adapter) Shape() tensor.Shape             { return a.shape }
func (a *adapter) DType() tensor.DataType          { return a.dtype }

// ready waits for a collective writing into a and reports its failure.
func (a *adapter) ready() error {
	if a.pending != nil {
		if err := a.backend.SyncCollective(); err != nil {
			return err
		}
	}
	return a.err
}

// Clone returns a deep copy. A clone taken while a collective is in flight
// receives the collective's result as well.
func (a *adapter) Clone() tensor.Adapter {
	out := &adapter{
		backend: a.backend,
		shape:   a.shape.Clone(),
		dtype:   a.dtype,
		data:    append([]float64(nil), a.data...),
		err:     a.err,
	}
	if a.pending != nil {
		a.pending.follow(a, out, func(v float64) float64 { return v })
	}
	return out
}

// AsType returns a copy converted to dtype.
func (a *adapter) AsType(dtype tensor.DataType) (tensor.Adapter, error) {
	if err := a.ready(); err != nil {
		return nil, fmt.Errorf("astype: %w", err)
	}
	out := a.backend.alloc(a.shape, dtype)
	for i, v := range a.data {
		out.data[i] = tensor.CastValue(v, dtype)
	}
	return out, nil
}

// Index returns a copy of the selected elements.
func (a *adapter) Index(indices []tensor.Index) (tensor.Adapter, error) {
	if err := a.ready(); err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	data, shape, err := tensor.IndexData(a.data, a.shape, indices)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	return &adapter{backend: a.backend, shape: shape, dtype: a.dtype, data: data}, nil
}
