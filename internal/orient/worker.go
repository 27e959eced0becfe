package orient

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// job is one timestamp to compute, with its slot in the output.
type job struct {
	index int
	t     time.Time
}

type result struct {
	index int
	snap  *Snapshot
	err   error
}

// WorkerPool computes snapshots for many timestamps in parallel.
type WorkerPool struct {
	workers int
	logger  *slog.Logger
}

// NewWorkerPool creates a pool of the given size (at least one worker).
func NewWorkerPool(workers int, logger *slog.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{workers: workers, logger: logger}
}

// ComputeBatch computes a snapshot for each timestamp. The result has one
// slot per timestamp, nil where the computation failed; failures are logged
// and counted.
func (wp *WorkerPool) ComputeBatch(ctx context.Context, svc *Service, times []time.Time) ([]*Snapshot, int) {
	if len(times) == 0 {
		return nil, 0
	}

	jobs := make(chan job, wp.workers*2)
	results := make(chan result, wp.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				snap, err := svc.Compute(j.t)
				select {
				case results <- result{index: j.index, snap: snap, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, t := range times {
			select {
			case jobs <- job{index: i, t: t}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]*Snapshot, len(times))
	var failed int
	for r := range results {
		if r.err != nil {
			failed++
			wp.logger.Warn("orientation computation failed",
				"timestamp", times[r.index].UTC().Format(time.RFC3339),
				"error", r.err,
			)
			continue
		}
		out[r.index] = r.snap
	}

	return out, failed
}
