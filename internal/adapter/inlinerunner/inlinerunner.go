// Package inlinerunner implements internal/port.JobRunner by running every
// job synchronously on the calling goroutine, in order. Used where
// deterministic, single-threaded execution is wanted (small trees, tests,
// or a concurrency budget of one).
package inlinerunner

import (
	"context"

	"github.com/prn-tf/contentstore/internal/port"
)

// Runner runs jobs sequentially in the order given.
type Runner struct{}

// New returns a Runner.
func New() Runner { return Runner{} }

func (Runner) Run(ctx context.Context, jobs []port.Job) error {
	for _, job := range jobs {
		if err := job(ctx); err != nil {
			return err
		}
	}
	return nil
}

var _ port.JobRunner = Runner{}
