package collective

import (
	"context"
	"fmt"
	"sync"
)

// Stats counts completed reductions of a Group.
type Stats struct {
	Rounds   int // Completed reductions.
	Elements int // Elements summed per rank, accumulated over rounds.
}

// round is one reduction in progress.
type round struct {
	seen map[int]bool
	sum  []float64
	err  error
	done chan struct{}
}

// Group is an in-process set of ranks that rendezvous on every reduction.
// It stands in for a network transport when ranks are goroutines.
type Group struct {
	size int

	mu    sync.Mutex
	cur   *round
	stats Stats
}

// NewGroup creates a group of n ranks.
func NewGroup(n int) *Group {
	if n < 1 {
		panic(fmt.Sprintf("collective: group size must be >= 1, got %d", n))
	}
	return &Group{size: n}
}

// Size returns the number of ranks.
func (g *Group) Size() int {
	return g.size
}

// Rank returns the communicator of rank i.
func (g *Group) Rank(i int) Communicator {
	if i < 0 || i >= g.size {
		panic(fmt.Sprintf("collective: rank %d out of range [0, %d)", i, g.size))
	}
	return &member{group: g, rank: i}
}

// Stats returns a snapshot of the group statistics.
func (g *Group) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// reduce adds data to the open round and waits for the last rank.
// A rank that already contributed to the open round waits for it to close
// and joins the next one.
func (g *Group) reduce(ctx context.Context, rank int, data []float64) ([]float64, error) {
	for {
		g.mu.Lock()
		if g.cur == nil {
			g.cur = &round{seen: make(map[int]bool), done: make(chan struct{})}
		}
		r := g.cur
		if r.seen[rank] {
			g.mu.Unlock()
			select {
			case <-r.done:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		switch {
		case len(r.seen) == 0:
			r.sum = append(make([]float64, 0, len(data)), data...)
		case len(data) != len(r.sum):
			if r.err == nil {
				r.err = fmt.Errorf("%w: rank %d sent %d elements, expected %d", ErrSizeMismatch, rank, len(data), len(r.sum))
			}
		default:
			for i, v := range data {
				r.sum[i] += v
			}
		}
		r.seen[rank] = true
		if len(r.seen) == g.size {
			g.cur = nil
			g.stats.Rounds++
			g.stats.Elements += len(r.sum)
			close(r.done)
		}
		g.mu.Unlock()

		if err := g.wait(ctx, r, rank); err != nil {
			return nil, err
		}
		return append([]float64(nil), r.sum...), nil
	}
}

// wait blocks until r closes. A rank whose context ends first aborts the
// round: every rank that contributed to it fails and the next reduction
// starts from an empty round.
func (g *Group) wait(ctx context.Context, r *round, rank int) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-r.done:
		return r.err
	default:
	}
	r.err = fmt.Errorf("%w: rank %d: %w", ErrAborted, rank, ctx.Err())
	if g.cur == r {
		g.cur = nil
	}
	close(r.done)
	return r.err
}

// member is the Communicator of one rank.
type member struct {
	group *Group
	rank  int
}

func (m *member) Rank() int      { return m.rank }
func (m *member) WorldSize() int { return m.group.size }

func (m *member) AllReduceSum(ctx context.Context, data []float64) ([]float64, error) {
	return m.group.reduce(ctx, m.rank, data)
}
