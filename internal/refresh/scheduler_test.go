package refresh

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/store/memory"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAddRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(nil, 0, quietLogger())
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Add("a", "@every 1s", false, noop))
	require.NoError(t, s.Add("b", "*/5 * * * *", false, noop))
	assert.Error(t, s.Add("c", "not a schedule", false, noop))
	assert.Error(t, s.Add("a", "@hourly", false, noop))
	assert.Equal(t, []string{"a", "b"}, s.Jobs())
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	ctx := context.Background()
	locks := memory.NewLockManager()
	s := NewScheduler(locks, time.Minute, quietLogger())

	var runs atomic.Int32
	require.NoError(t, s.Add(JobRefresh, "@every 1h", false, func(context.Context) error {
		runs.Add(1)
		return nil
	}))

	require.NoError(t, s.RunOnce(ctx, JobRefresh))
	assert.EqualValues(t, 1, runs.Load())

	// Another replica holds the job.
	release, err := locks.Acquire(ctx, "job:"+JobRefresh, time.Minute)
	require.NoError(t, err)
	require.NoError(t, s.RunOnce(ctx, JobRefresh))
	assert.EqualValues(t, 1, runs.Load())

	release()
	require.NoError(t, s.RunOnce(ctx, JobRefresh))
	assert.EqualValues(t, 2, runs.Load())
}

func TestRunOnceReportsFailure(t *testing.T) {
	s := NewScheduler(nil, 0, quietLogger())
	boom := errors.New("boom")
	require.NoError(t, s.Add("bad", "@every 1h", false, func(context.Context) error { return boom }))

	err := s.RunOnce(context.Background(), "bad")
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, s.RunOnce(context.Background(), "ghost"), domain.ErrNotFound)
}

func TestRunFiresImmediateAndScheduled(t *testing.T) {
	s := NewScheduler(memory.NewLockManager(), time.Second, quietLogger())

	var runs atomic.Int32
	require.NoError(t, s.Add("tick", "@every 1s", true, func(context.Context) error {
		runs.Add(1)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 3*time.Second, 20*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
