package distributed

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/born-collective/internal/tensor"
)

// AllReduce sums t across every process of the run, then multiplies t in
// place by scale. With a world size of 1 the collective is skipped and only
// the scale is applied.
//
// scale is applied unconditionally: averaging callers pass 1/WorldSize()
// themselves.
//
// With async set the sum may still be in flight when AllReduce returns. The
// caller must call t.Backend().SyncCollective() (or read the tensor through
// its backend) before depending on the result.
func (i *Info) AllReduce(t *tensor.Tensor, scale float64, async bool) error {
	if t == nil {
		return fmt.Errorf("allReduce: nil tensor: %w", tensor.ErrInvalidArgument)
	}
	if i.WorldSize() > 1 {
		if err := t.Backend().AllReduce(t, async); err != nil {
			return err
		}
	} else {
		slog.Debug("allReduce: single process, collective skipped")
	}
	return scaleInPlace(t, scale)
}

// AllReduceMultiple sums every tensor of ts across the run in one backend
// call, then multiplies each in place by scale. contiguous lets the backend
// pack all tensors into a single transfer. All tensors must share a backend.
func (i *Info) AllReduceMultiple(ts []*tensor.Tensor, scale float64, async, contiguous bool) error {
	if len(ts) == 0 {
		return nil
	}
	if err := tensor.CheckBackends("allReduceMultiple", ts...); err != nil {
		return err
	}
	if i.WorldSize() > 1 {
		if err := ts[0].Backend().AllReduceMultiple(ts, async, contiguous); err != nil {
			return err
		}
	} else {
		slog.Debug("allReduceMultiple: single process, collective skipped", "tensors", len(ts))
	}
	for _, t := range ts {
		if err := scaleInPlace(t, scale); err != nil {
			return err
		}
	}
	return nil
}

// Barrier blocks until every process of the run has called Barrier.
//
// The reduced tensor is summed and read back as a scalar so that a deferred
// engine has to execute the collective; an unread result could otherwise be
// dropped along with the synchronization.
func (i *Info) Barrier() error {
	engine, err := i.Engine()
	if err != nil {
		return fmt.Errorf("barrier: %w", err)
	}
	t, err := tensor.FullOn(engine, tensor.Shape{1}, 0, tensor.Int32)
	if err != nil {
		return fmt.Errorf("barrier: %w", err)
	}
	if err := i.AllReduce(t, 1, false); err != nil {
		return fmt.Errorf("barrier: %w", err)
	}

	s, err := tensor.Sum(t)
	if err != nil {
		return fmt.Errorf("barrier: %w", err)
	}
	if _, err := s.Scalar(); err != nil {
		return fmt.Errorf("barrier: %w", err)
	}
	return nil
}

func scaleInPlace(t *tensor.Tensor, scale float64) error {
	scaled, err := tensor.MulScalar(t, scale)
	if err != nil {
		return err
	}
	t.Assign(scaled)
	return nil
}

// AllReduce runs AllReduce on the process-wide run.
func AllReduce(t *tensor.Tensor, scale float64, async bool) error {
	return Instance().AllReduce(t, scale, async)
}

// AllReduceMultiple runs AllReduceMultiple on the process-wide run.
func AllReduceMultiple(ts []*tensor.Tensor, scale float64, async, contiguous bool) error {
	return Instance().AllReduceMultiple(ts, scale, async, contiguous)
}

// Barrier runs Barrier on the process-wide run.
func Barrier() error {
	return Instance().Barrier()
}
