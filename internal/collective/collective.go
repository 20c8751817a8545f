// Package collective provides the communicator contract consumed by tensor
// backends for cross-process reductions, plus an in-process rank group.
package collective

import (
	"context"
	"errors"
)

// ErrSizeMismatch is returned when ranks contribute buffers of different
// lengths to the same reduction.
var ErrSizeMismatch = errors.New("collective: buffer size mismatch across ranks")

// ErrAborted is returned to every rank of a reduction that one rank left
// before it completed.
var ErrAborted = errors.New("collective: reduction aborted")

// Communicator connects one rank to its peers.
//
// Every rank must issue reductions in the same order. AllReduceSum blocks
// until all ranks contributed and returns the element-wise sum.
type Communicator interface {
	Rank() int
	WorldSize() int
	AllReduceSum(ctx context.Context, data []float64) ([]float64, error)
}
