package cpu

import (
	"errors"
	"fmt"

	"github.com/born-ml/born-collective/internal/tensor"
)

// follower is a tensor derived from a collective target, recomputed once the
// collective result is stored.
type follower struct {
	src, dst *adapter
	fn       func(float64) float64
}

// pendingReduce is an async collective. Only the worker goroutine writes
// results and err; everything else is touched by the owning caller.
type pendingReduce struct {
	targets   []*adapter
	followers []follower

	results [][]float64
	err     error
	done    chan struct{}
}

// follow registers dst = fn(src) to be computed after the reduction.
func (p *pendingReduce) follow(src, dst *adapter, fn func(float64) float64) {
	p.followers = append(p.followers, follower{src: src, dst: dst, fn: fn})
	dst.pending = p
}

// apply stores the results into the targets and recomputes followers.
// On failure the targets keep their local values, followers are computed
// from them, and every one of them keeps reporting the error.
func (p *pendingReduce) apply() error {
	if p.err == nil {
		for i, a := range p.targets {
			storeInto(a, p.results[i])
		}
	}
	for _, a := range p.targets {
		a.pending, a.err = nil, p.err
	}
	for _, f := range p.followers {
		for i, v := range f.src.data {
			f.dst.data[i] = tensor.CastValue(f.fn(v), f.dst.dtype)
		}
		f.dst.pending, f.dst.err = nil, p.err
	}
	return p.err
}

func storeInto(a *adapter, sum []float64) {
	for i, v := range sum {
		a.data[i] = tensor.CastValue(v, a.dtype)
	}
}

// AllReduce sums x in place across every rank of the communicator.
func (cpu *CPUBackend) AllReduce(x *tensor.Tensor, async bool) error {
	return cpu.allReduce("allReduce", []*tensor.Tensor{x}, async, false)
}

// AllReduceMultiple sums every tensor in xs in place across ranks. With
// contiguous set the tensors are packed into one buffer and reduced in a
// single round; otherwise each tensor is its own round.
func (cpu *CPUBackend) AllReduceMultiple(xs []*tensor.Tensor, async, contiguous bool) error {
	return cpu.allReduce("allReduceMultiple", xs, async, contiguous)
}

func (cpu *CPUBackend) allReduce(op string, xs []*tensor.Tensor, async, contiguous bool) error {
	adapters := make([]*adapter, len(xs))
	for i, x := range xs {
		a, err := cpu.owned(op, x)
		if err != nil {
			return err
		}
		adapters[i] = a
	}
	if cpu.comm == nil || cpu.comm.WorldSize() == 1 || len(adapters) == 0 {
		return nil
	}

	// Tensors already targeted by an in-flight collective are reduced again
	// only after it lands, and synchronous calls queue behind async ones so
	// every rank issues rounds in the same order.
	if !async || hasPending(adapters) {
		if err := cpu.SyncCollective(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	inputs := make([][]float64, len(adapters))
	for i, a := range adapters {
		inputs[i] = append([]float64(nil), a.data...)
	}

	if !async {
		results, err := cpu.exchange(inputs, contiguous)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		for i, a := range adapters {
			storeInto(a, results[i])
			a.err = nil
		}
		return nil
	}

	p := &pendingReduce{targets: adapters, done: make(chan struct{})}
	for _, a := range adapters {
		a.pending = p
	}

	cpu.mu.Lock()
	var prev *pendingReduce
	if n := len(cpu.inflight); n > 0 {
		prev = cpu.inflight[n-1]
	}
	cpu.inflight = append(cpu.inflight, p)
	cpu.mu.Unlock()

	go func() {
		defer close(p.done)
		if prev != nil {
			<-prev.done
		}
		p.results, p.err = cpu.exchange(inputs, contiguous)
	}()
	return nil
}

func hasPending(adapters []*adapter) bool {
	for _, a := range adapters {
		if a.pending != nil {
			return true
		}
	}
	return false
}

// exchange runs the reduction rounds over the communicator.
func (cpu *CPUBackend) exchange(inputs [][]float64, contiguous bool) ([][]float64, error) {
	results := make([][]float64, len(inputs))
	if !contiguous {
		for i, in := range inputs {
			out, err := cpu.comm.AllReduceSum(cpu.ctx, in)
			if err != nil {
				return nil, err
			}
			results[i] = out
		}
		return results, nil
	}

	total := 0
	for _, in := range inputs {
		total += len(in)
	}
	flat := make([]float64, 0, total)
	for _, in := range inputs {
		flat = append(flat, in...)
	}
	out, err := cpu.comm.AllReduceSum(cpu.ctx, flat)
	if err != nil {
		return nil, err
	}
	off := 0
	for i, in := range inputs {
		results[i] = out[off : off+len(in)]
		off += len(in)
	}
	return results, nil
}

// SyncCollective waits for every async collective issued on this backend
// and stores the results. Errors of all collectives are joined.
func (cpu *CPUBackend) SyncCollective() error {
	cpu.mu.Lock()
	inflight := cpu.inflight
	cpu.inflight = nil
	cpu.mu.Unlock()

	var errs []error
	for _, p := range inflight {
		<-p.done
		if err := p.apply(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
