// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/born-collective/internal/tensor"
)

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Index selects part of one dimension. See At, Range, RangeFrom and Span.
type Index = tensor.Index

// Span selects a whole dimension.
var Span = tensor.Span

// At selects a single position and drops the dimension.
func At(i int) Index {
	return tensor.At(i)
}

// Range selects positions [start, end).
func Range(start, end int) Index {
	return tensor.Range(start, end)
}

// RangeFrom selects positions from start to the end of the dimension.
func RangeFrom(start int) Index {
	return tensor.RangeFrom(start)
}

// Tensor is a backend-polymorphic tensor value.
//
// Example:
//
//	backend := cpu.New()
//	x, _ := tensor.FullOn(backend, tensor.Shape{2, 3}, 1.5, tensor.Float32)
//	y := x.Copy()
//	row, _ := y.Index(tensor.At(0))
type Tensor = tensor.Tensor

// New wraps an adapter. The tensor takes ownership of it.
func New(impl Adapter) *Tensor {
	return tensor.New(impl)
}

// Empty creates an empty Float32 tensor on the default backend.
func Empty() (*Tensor, error) {
	return tensor.Empty()
}

// Full creates a tensor filled with value on the default backend.
func Full(shape Shape, value float64, dtype DataType) (*Tensor, error) {
	return tensor.Full(shape, value, dtype)
}

// FullOn creates a tensor filled with value on backend b.
func FullOn(b Backend, shape Shape, value float64, dtype DataType) (*Tensor, error) {
	return tensor.FullOn(b, shape, value, dtype)
}

// FromSlice creates a tensor on backend b holding a copy of data.
//
// Example:
//
//	x, _ := tensor.FromSlice(backend, []float64{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.Float64)
func FromSlice(b Backend, data []float64, shape Shape, dtype DataType) (*Tensor, error) {
	return tensor.FromSlice(b, data, shape, dtype)
}

// Errors

// ErrInvalidArgument marks errors caused by malformed caller input.
var ErrInvalidArgument = tensor.ErrInvalidArgument

// ErrNoDefaultBackend is returned when no backend has been registered.
var ErrNoDefaultBackend = tensor.ErrNoDefaultBackend

// BackendMismatchError reports operands living on different backends.
type BackendMismatchError = tensor.BackendMismatchError
