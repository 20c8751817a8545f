package tensor

import "fmt"

type indexKind int

const (
	indexSpan indexKind = iota
	indexAt
	indexRange
)

// Index describes the selection applied to one dimension when indexing a
// tensor. Build one with At, Range, RangeFrom or Span.
type Index struct {
	kind   indexKind
	start  int
	end    int
	hasEnd bool
	step   int
}

// Span selects a whole dimension.
var Span = Index{kind: indexSpan, step: 1}

// At selects a single position and drops the dimension.
// Negative positions count from the end.
func At(i int) Index {
	return Index{kind: indexAt, start: i, step: 1}
}

// Range selects positions [start, end). Negative bounds count from the end.
func Range(start, end int) Index {
	return Index{kind: indexRange, start: start, end: end, hasEnd: true, step: 1}
}

// RangeFrom selects positions from start to the end of the dimension.
func RangeFrom(start int) Index {
	return Index{kind: indexRange, start: start, step: 1}
}

// Step returns a copy of the range index that advances by step.
func (ix Index) Step(step int) Index {
	ix.step = step
	return ix
}

// String implements fmt.Stringer.
func (ix Index) String() string {
	switch ix.kind {
	case indexAt:
		return fmt.Sprintf("%d", ix.start)
	case indexRange:
		if !ix.hasEnd {
			return fmt.Sprintf("%d::%d", ix.start, ix.step)
		}
		return fmt.Sprintf("%d:%d:%d", ix.start, ix.end, ix.step)
	default:
		return ":"
	}
}

// resolve returns the selected positions within a dimension of size n and
// whether the dimension survives in the result.
func (ix Index) resolve(n int) ([]int, bool, error) {
	switch ix.kind {
	case indexAt:
		i := ix.start
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return nil, false, fmt.Errorf("index %d out of bounds for dimension of size %d: %w", ix.start, n, ErrInvalidArgument)
		}
		return []int{i}, false, nil
	case indexRange:
		if ix.step <= 0 {
			return nil, false, fmt.Errorf("range step must be positive, got %d: %w", ix.step, ErrInvalidArgument)
		}
		start, end := ix.start, n
		if start < 0 {
			start += n
		}
		if ix.hasEnd {
			end = ix.end
			if end < 0 {
				end += n
			}
		}
		if start < 0 || start > n || end < 0 || end > n {
			return nil, false, fmt.Errorf("range %s out of bounds for dimension of size %d: %w", ix, n, ErrInvalidArgument)
		}
		var pos []int
		for i := start; i < end; i += ix.step {
			pos = append(pos, i)
		}
		return pos, true, nil
	default:
		pos := make([]int, n)
		for i := range pos {
			pos[i] = i
		}
		return pos, true, nil
	}
}

// IndexData gathers the elements of a row-major buffer selected by indices.
// Dimensions without a matching descriptor are spanned. The result is a new
// buffer; it never aliases data.
func IndexData(data []float64, shape Shape, indices []Index) ([]float64, Shape, error) {
	if len(indices) > len(shape) {
		return nil, nil, fmt.Errorf("%d indices for tensor of rank %d: %w", len(indices), len(shape), ErrInvalidArgument)
	}

	positions := make([][]int, len(shape))
	outShape := Shape{}
	for d, size := range shape {
		ix := Span
		if d < len(indices) {
			ix = indices[d]
		}
		pos, keep, err := ix.resolve(size)
		if err != nil {
			return nil, nil, fmt.Errorf("dimension %d: %w", d, err)
		}
		positions[d] = pos
		if keep {
			outShape = append(outShape, len(pos))
		}
	}

	strides := shape.ComputeStrides()
	out := make([]float64, 0, outShape.NumElements())
	var walk func(d, off int)
	walk = func(d, off int) {
		if d == len(shape) {
			out = append(out, data[off])
			return
		}
		for _, p := range positions[d] {
			walk(d+1, off+p*strides[d])
		}
	}
	walk(0, 0)

	return out, outShape, nil
}
