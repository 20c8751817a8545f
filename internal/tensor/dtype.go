// Package tensor provides the backend-polymorphic Tensor type and the free
// operator functions that dispatch to a pluggable Backend.
package tensor

import "math"

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Bool
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// IsFloat reports whether dt is a floating point type.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// FloatResult returns the dtype produced by transcendental ops on dt.
// Integer and boolean inputs promote to Float32.
func FloatResult(dt DataType) DataType {
	if dt.IsFloat() {
		return dt
	}
	return Float32
}

// CastValue converts v to the value set of dt.
// Integers truncate toward zero, Bool maps non-zero to 1.
func CastValue(v float64, dt DataType) float64 {
	switch dt {
	case Float32:
		return float64(float32(v))
	case Int32:
		if math.IsNaN(v) {
			return 0
		}
		return float64(int32(v))
	case Int64:
		if math.IsNaN(v) {
			return 0
		}
		return float64(int64(v))
	case Uint8:
		if math.IsNaN(v) {
			return 0
		}
		return float64(uint8(v))
	case Bool:
		if v != 0 {
			return 1
		}
		return 0
	default:
		return v
	}
}
