package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/born-collective/internal/parallel"
	"github.com/born-ml/born-collective/internal/tensor"
)

func sameType(dt tensor.DataType) tensor.DataType { return dt }
func boolType(tensor.DataType) tensor.DataType    { return tensor.Bool }

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// unary applies fn element-wise.
func (cpu *CPUBackend) unary(op string, x *tensor.Tensor, dtype func(tensor.DataType) tensor.DataType,
	fn func(float64) float64,
) (*tensor.Tensor, error) {
	a, err := cpu.operand(op, x)
	if err != nil {
		return nil, err
	}
	dt := dtype(a.dtype)
	out := cpu.alloc(a.shape, dt)
	parallel.ForChunks(len(a.data), func(s, e int) {
		for i := s; i < e; i++ {
			out.data[i] = tensor.CastValue(fn(a.data[i]), dt)
		}
	}, cpu.par)
	return tensor.New(out), nil
}

// Exp computes element-wise exponential: exp(x).
func (cpu *CPUBackend) Exp(x *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.unary("exp", x, tensor.FloatResult, math.Exp)
}

// Log computes element-wise natural logarithm: ln(x).
// Non-positive inputs yield NaN or -Inf.
func (cpu *CPUBackend) Log(x *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.unary("log", x, tensor.FloatResult, math.Log)
}

// Negative computes -x.
func (cpu *CPUBackend) Negative(x *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.unary("negative", x, sameType, func(v float64) float64 { return -v })
}

// LogicalNot computes !x into a Bool tensor.
func (cpu *CPUBackend) LogicalNot(x *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.unary("logicalNot", x, boolType, func(v float64) float64 { return boolValue(v == 0) })
}

// Log1p computes ln(1 + x).
func (cpu *CPUBackend) Log1p(x *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.unary("log1p", x, tensor.FloatResult, math.Log1p)
}

// Sin computes sin(x).
func (cpu *CPUBackend) Sin(x *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.unary("sin", x, tensor.FloatResult, math.Sin)
}

// Cos computes cos(x).
func (cpu *CPUBackend) Cos(x *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.unary("cos", x, tensor.FloatResult, math.Cos)
}

// Sqrt computes sqrt(x).
func (cpu *CPUBackend) Sqrt(x *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.unary("sqrt", x, tensor.FloatResult, math.Sqrt)
}

// Tanh computes tanh(x).
func (cpu *CPUBackend) Tanh(x *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.unary("tanh", x, tensor.FloatResult, math.Tanh)
}

// Absolute computes |x|.
func (cpu *CPUBackend) Absolute(x *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.unary("absolute", x, sameType, math.Abs)
}

// IsNaN flags NaN elements in a Bool tensor.
func (cpu *CPUBackend) IsNaN(x *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.unary("isnan", x, boolType, func(v float64) float64 { return boolValue(math.IsNaN(v)) })
}

// MulScalar computes x * s. If x is the target of an async collective the
// product is computed from the collective's result once it completes.
func (cpu *CPUBackend) MulScalar(x *tensor.Tensor, s float64) (*tensor.Tensor, error) {
	a, err := cpu.owned("mulScalar", x)
	if err != nil {
		return nil, err
	}
	fn := func(v float64) float64 { return v * s }
	if a.pending != nil {
		out := cpu.alloc(a.shape, a.dtype)
		a.pending.follow(a, out, fn)
		return tensor.New(out), nil
	}
	return cpu.unary("mulScalar", x, sameType, fn)
}

// nary applies fn element-wise over operands with NumPy broadcasting.
// The result takes the dtype of the first operand.
func (cpu *CPUBackend) nary(op string, fn func(vs []float64) float64, xs ...*tensor.Tensor) (*tensor.Tensor, error) {
	adapters := make([]*adapter, len(xs))
	outShape := tensor.Shape{}
	needsBroadcast := false
	for i, x := range xs {
		a, err := cpu.operand(op, x)
		if err != nil {
			return nil, err
		}
		adapters[i] = a
		var bc bool
		if outShape, bc, err = tensor.BroadcastShapes(outShape, a.shape); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, tensor.ErrInvalidArgument, err)
		}
		needsBroadcast = needsBroadcast || (i > 0 && bc)
	}

	out := cpu.alloc(outShape, adapters[0].dtype)
	if !needsBroadcast {
		// Fast path: identical shapes share flat positions.
		parallel.ForChunks(len(out.data), func(s, e int) {
			vs := make([]float64, len(adapters))
			for i := s; i < e; i++ {
				for k, a := range adapters {
					vs[k] = a.data[i]
				}
				out.data[i] = tensor.CastValue(fn(vs), out.dtype)
			}
		}, cpu.par)
		return tensor.New(out), nil
	}

	outStrides := outShape.ComputeStrides()
	strides := make([][]int, len(adapters))
	for k, a := range adapters {
		strides[k] = tensor.BroadcastStrides(a.shape, outShape)
	}
	parallel.ForChunks(len(out.data), func(s, e int) {
		vs := make([]float64, len(adapters))
		for i := s; i < e; i++ {
			for k, a := range adapters {
				vs[k] = a.data[tensor.FlatIndex(i, outStrides, strides[k])]
			}
			out.data[i] = tensor.CastValue(fn(vs), out.dtype)
		}
	}, cpu.par)
	return tensor.New(out), nil
}

// Clip limits x to [low, high] element-wise.
func (cpu *CPUBackend) Clip(x, low, high *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.nary("clip", func(vs []float64) float64 {
		return math.Min(math.Max(vs[0], vs[1]), vs[2])
	}, x, low, high)
}

// Minimum computes min(a, b) element-wise.
func (cpu *CPUBackend) Minimum(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.nary("minimum", func(vs []float64) float64 { return math.Min(vs[0], vs[1]) }, a, b)
}

// Maximum computes max(a, b) element-wise.
func (cpu *CPUBackend) Maximum(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.nary("maximum", func(vs []float64) float64 { return math.Max(vs[0], vs[1]) }, a, b)
}

// Power computes a^b element-wise.
func (cpu *CPUBackend) Power(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.nary("power", func(vs []float64) float64 { return math.Pow(vs[0], vs[1]) }, a, b)
}
