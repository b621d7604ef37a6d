// Package refresh runs the periodic background jobs: market and portfolio
// refresh, RSS ingestion and board snapshots. Each job fires on a cron
// schedule and, when a lock manager is configured, runs on one replica at a
// time.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/metrics"
)

// JobFunc is one run of a job.
type JobFunc func(ctx context.Context) error

type job struct {
	name      string
	spec      string
	schedule  cron.Schedule
	run       JobFunc
	immediate bool
}

var errDuplicateJob = errors.New("already registered")

var parser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler owns a set of named jobs.
type Scheduler struct {
	jobs    []*job
	locks   domain.LockManager
	lockTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewScheduler creates a Scheduler. locks may be nil, in which case jobs run
// without coordination.
func NewScheduler(locks domain.LockManager, lockTTL time.Duration, logger *slog.Logger) *Scheduler {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &Scheduler{
		locks:   locks,
		lockTTL: lockTTL,
		logger:  logger.With(slog.String("component", "scheduler")),
		now:     time.Now,
	}
}

// Add registers fn under name. spec is a five-field cron expression or a
// descriptor such as "@every 30s". With immediate set the job also runs once
// as soon as Run starts.
func (s *Scheduler) Add(name, spec string, immediate bool, fn JobFunc) error {
	sched, err := parser.Parse(spec)
	if err != nil {
		return fmt.Errorf("scheduler: job %s: parse %q: %w", name, spec, err)
	}
	for _, j := range s.jobs {
		if j.name == name {
			return fmt.Errorf("scheduler: job %s: %w", name, errDuplicateJob)
		}
	}
	s.jobs = append(s.jobs, &job{name: name, spec: spec, schedule: sched, run: fn, immediate: immediate})
	return nil
}

// Jobs lists registered job names in registration order.
func (s *Scheduler) Jobs() []string {
	out := make([]string, len(s.jobs))
	for i, j := range s.jobs {
		out[i] = j.name
	}
	return out
}

// Run drives every job until ctx is cancelled. A failing run is logged and
// the job keeps its schedule.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.jobs) == 0 {
		s.logger.InfoContext(ctx, "scheduler: no jobs registered")
		<-ctx.Done()
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, j := range s.jobs {
		g.Go(func() error {
			s.loop(ctx, j)
			return nil
		})
	}
	err := g.Wait()
	s.logger.Info("scheduler: stopped")
	return err
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	s.logger.InfoContext(ctx, "scheduler: job started", slog.String("job", j.name), slog.String("schedule", j.spec))
	if j.immediate {
		_ = s.execute(ctx, j)
	}
	for {
		next := j.schedule.Next(s.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			_ = s.execute(ctx, j)
		}
	}
}

// RunOnce executes the named job immediately, honouring its lock.
func (s *Scheduler) RunOnce(ctx context.Context, name string) error {
	for _, j := range s.jobs {
		if j.name == name {
			return s.execute(ctx, j)
		}
	}
	return fmt.Errorf("scheduler: job %s: %w", name, domain.ErrNotFound)
}

// execute runs j once. A lock held elsewhere is a skip, not a failure.
func (s *Scheduler) execute(ctx context.Context, j *job) error {
	if s.locks != nil {
		release, err := s.locks.Acquire(ctx, "job:"+j.name, s.lockTTL)
		if errors.Is(err, domain.ErrLockHeld) {
			metrics.RecordJobSkipped(j.name)
			s.logger.DebugContext(ctx, "scheduler: lock held elsewhere, skipping", slog.String("job", j.name))
			return nil
		}
		if err != nil {
			// Lock backend down: run uncoordinated.
			s.logger.WarnContext(ctx, "scheduler: lock unavailable, running anyway",
				slog.String("job", j.name),
				slog.String("error", err.Error()),
			)
		} else {
			defer release()
		}
	}

	start := time.Now()
	err := j.run(ctx)
	elapsed := time.Since(start)
	metrics.RecordJob(j.name, elapsed, err)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.ErrorContext(ctx, "scheduler: job failed",
				slog.String("job", j.name),
				slog.String("error", err.Error()),
			)
		}
		return fmt.Errorf("scheduler: job %s: %w", j.name, err)
	}
	s.logger.DebugContext(ctx, "scheduler: job done",
		slog.String("job", j.name),
		slog.Duration("elapsed", elapsed),
	)
	return nil
}
