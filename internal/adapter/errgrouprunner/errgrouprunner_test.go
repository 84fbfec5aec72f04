package errgrouprunner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/contentstore/internal/port"
)

func TestRunner_RunsAllJobs(t *testing.T) {
	var count int64
	jobs := make([]port.Job, 10)
	for i := range jobs {
		jobs[i] = func(ctx context.Context) error {
			atomic.AddInt64(&count, 1)
			return nil
		}
	}

	r := New(4)
	require.NoError(t, r.Run(context.Background(), jobs))
	require.Equal(t, int64(10), count)
}

func TestRunner_PropagatesFirstError(t *testing.T) {
	wantErr := errors.New("boom")
	jobs := []port.Job{
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return wantErr },
	}

	r := New(2)
	err := r.Run(context.Background(), jobs)
	require.ErrorIs(t, err, wantErr)
}

func TestRunner_ZeroLimitIsUnbounded(t *testing.T) {
	var count int64
	jobs := make([]port.Job, 20)
	for i := range jobs {
		jobs[i] = func(ctx context.Context) error {
			atomic.AddInt64(&count, 1)
			return nil
		}
	}

	r := New(0)
	require.NoError(t, r.Run(context.Background(), jobs))
	require.Equal(t, int64(20), count)
}

func TestRunner_EmptyJobsSucceeds(t *testing.T) {
	r := New(1)
	require.NoError(t, r.Run(context.Background(), nil))
}
