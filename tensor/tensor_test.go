// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/born-collective/backend/cpu"
	"github.com/born-ml/born-collective/tensor"
)

// TestBackendInterface verifies that cpu.Backend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.Backend)(nil)
	var _ tensor.Backend = (*tensor.MockBackend)(nil)
}

// TestDefaultBackend verifies that importing backend/cpu registers it.
func TestDefaultBackend(t *testing.T) {
	b, err := tensor.LookupBackend("cpu")
	require.NoError(t, err)
	assert.Equal(t, tensor.CPU, b.Type())

	x, err := tensor.Full(tensor.Shape{2, 2}, 3, tensor.Float64)
	require.NoError(t, err)
	assert.Equal(t, tensor.CPU, x.BackendType())

	e, err := tensor.Empty()
	require.NoError(t, err)
	assert.Equal(t, 0, e.NumElements())
}

func TestTensorAPI(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice(backend, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.Float32)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{2, 3}, x.Shape())
	assert.Equal(t, tensor.Float32, x.Type())
	assert.Equal(t, tensor.CPU, x.BackendType())

	row, err := x.Index(tensor.At(1), tensor.Range(0, 2))
	require.NoError(t, err)
	data, err := backend.Data(row)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5}, data)

	y := x.Copy()
	require.NoError(t, backend.Set(y, 0, 100))
	v, err := x.Scalar()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v, "copy must not alias the original")
}

func TestClipCombinations(t *testing.T) {
	backend := cpu.New()

	for _, shape := range []tensor.Shape{{}, {5}, {3, 4}, {2, 2, 3}} {
		n := shape.NumElements()
		data := make([]float64, n)
		want := make([]float64, n)
		for i := range data {
			data[i] = float64(i - n/2)
			want[i] = math.Min(math.Max(data[i], -2), 2)
		}
		x, err := tensor.FromSlice(backend, data, shape, tensor.Float64)
		require.NoError(t, err)
		lo, err := tensor.FullOn(backend, shape, -2, tensor.Float64)
		require.NoError(t, err)
		hi, err := tensor.FullOn(backend, shape, 2, tensor.Float64)
		require.NoError(t, err)

		for _, bounds := range [][2]tensor.Bound{
			{tensor.TensorBound(lo), tensor.TensorBound(hi)},
			{tensor.TensorBound(lo), tensor.ScalarBound(2)},
			{tensor.ScalarBound(-2), tensor.TensorBound(hi)},
			{tensor.ScalarBound(-2), tensor.ScalarBound(2)},
		} {
			got, err := tensor.Clip(x, bounds[0], bounds[1])
			require.NoError(t, err)
			assert.Equal(t, shape, got.Shape(), "shape %v", shape)
			data, err := backend.Data(got)
			require.NoError(t, err)
			assert.Equal(t, want, data, "shape %v", shape)
		}
	}
}

func TestBackendMismatch(t *testing.T) {
	a, err := tensor.FullOn(cpu.New(), tensor.Shape{2}, 1, tensor.Float32)
	require.NoError(t, err)
	b, err := tensor.FullOn(tensor.NewMockBackend(), tensor.Shape{2}, 2, tensor.Float32)
	require.NoError(t, err)

	_, err = tensor.Minimum(a, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, tensor.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "minimum called with tensors of different backends")

	var mismatch *tensor.BackendMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []tensor.BackendType{tensor.CPU, tensor.Mock}, mismatch.Types)
}

func TestReductions(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice(backend, []float64{3, 4}, tensor.Shape{2}, tensor.Float64)
	require.NoError(t, err)

	n, err := tensor.Norm(x)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, n, 1e-12)

	m, err := tensor.Mean(x)
	require.NoError(t, err)
	v, err := m.Scalar()
	require.NoError(t, err)
	assert.InDelta(t, 3.5, v, 1e-12)
}
