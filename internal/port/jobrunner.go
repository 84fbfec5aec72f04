package port

import "context"

// Job is one unit of embarrassingly-parallel work: per-asset hashing,
// per-block writing, or per-asset/per-block-group materialization. Jobs
// never share mutable state and may run in any order on any worker.
type Job func(ctx context.Context) error

// JobRunner submits Jobs and waits for them to complete. A nil JobRunner is
// never passed to core code; use the inline runner (see adapter/inlinerunner) to
// get "run synchronously on the caller" semantics with identical results.
type JobRunner interface {
	// Run submits every job and blocks until all have completed. It returns
	// the first error encountered (core callers that need "fail only after
	// all jobs finish" semantics collect per-job errors themselves inside
	// the job closures). Jobs are independent: a JobRunner is free to run
	// them concurrently, in any order, across any number of workers.
	Run(ctx context.Context, jobs []Job) error
}
