// Package errgrouprunner implements internal/port.JobRunner with
// golang.org/x/sync/errgroup, bounding concurrency to a fixed worker count
// so a large fan-out (one job per asset or per block) doesn't spawn
// unbounded goroutines.
package errgrouprunner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/prn-tf/contentstore/internal/port"
)

// Runner submits jobs to an errgroup with bounded concurrency.
type Runner struct {
	limit int
}

// New returns a Runner that runs at most limit jobs concurrently. limit <= 0
// means unbounded (errgroup.SetLimit is skipped).
func New(limit int) *Runner {
	return &Runner{limit: limit}
}

func (r *Runner) Run(ctx context.Context, jobs []port.Job) error {
	g, ctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			return job(ctx)
		})
	}
	return g.Wait()
}

var _ port.JobRunner = (*Runner)(nil)
