package worker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// UploadPool runs per-item jobs with bounded parallelism. Jobs report their
// outcome through caller-owned slices indexed by position, so result order
// always matches submission order.
type UploadPool struct {
	workers int
}

// NewUploadPool constructs a pool; worker counts below one degrade to
// sequential execution.
func NewUploadPool(workers int) *UploadPool {
	if workers < 1 {
		workers = 1
	}
	return &UploadPool{workers: workers}
}

// Run executes job for every index in [0, n) and blocks until all finish.
func (p *UploadPool) Run(ctx context.Context, n int, job func(ctx context.Context, index int)) {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		i := i
		group.Go(func() error {
			job(ctx, i)
			return nil
		})
	}
	_ = group.Wait()
}
