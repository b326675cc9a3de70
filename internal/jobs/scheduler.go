package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule holds the cron expressions (with seconds) of each job.
type Schedule struct {
	Reconciliation string
	ExpirySweep    string
}

// Scheduler runs the Runner's jobs on a UTC cron.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler registers the jobs. An invalid expression is returned as an error.
func NewScheduler(runner *Runner, schedule Schedule) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		// a slow run must not overlap the next tick
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	if _, err := c.AddFunc(schedule.Reconciliation, runner.ReconcileDaily); err != nil {
		return nil, fmt.Errorf("invalid reconciliation schedule %q: %w", schedule.Reconciliation, err)
	}
	if _, err := c.AddFunc(schedule.ExpirySweep, runner.SweepExpired); err != nil {
		return nil, fmt.Errorf("invalid expiry sweep schedule %q: %w", schedule.ExpirySweep, err)
	}

	slog.Info("Cron jobs registered",
		slog.String("reconciliation", schedule.Reconciliation),
		slog.String("expiry_sweep", schedule.ExpirySweep))
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	slog.Info("Starting cron scheduler")
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	slog.Info("Stopping cron scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
		slog.Info("Cron scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
