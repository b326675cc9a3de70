package jobs

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
)

// Runner executes the scheduled jobs against the services.
type Runner struct {
	reconciliation portssvc.ReconciliationRunner
	expiry         portssvc.ExpirySvc
	logger         *slog.Logger
	timeout        time.Duration
	now            func() time.Time
}

// NewRunner creates a Runner. timeout bounds a single job execution.
func NewRunner(reconciliation portssvc.ReconciliationRunner, expiry portssvc.ExpirySvc, timeout time.Duration) *Runner {
	return &Runner{
		reconciliation: reconciliation,
		expiry:         expiry,
		logger:         slog.Default().With(slog.String("component", "jobs")),
		timeout:        timeout,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// ReconcileDaily compares every active tenant's ledger with the gateway.
func (r *Runner) ReconcileDaily() {
	r.runWithRecovery("reconciliation", func(ctx context.Context, logger *slog.Logger) error {
		summary, err := r.reconciliation.RunDaily(ctx, r.now())
		if err != nil {
			return err
		}
		logger.Info("Reconciliation summary",
			slog.Int("processed", summary.Processed),
			slog.Int("reconciled", summary.Reconciled),
			slog.Int("flagged", summary.Flagged),
			slog.Int("skipped", summary.Skipped))
		return nil
	})
}

// SweepExpired cancels orders whose payment window closed.
func (r *Runner) SweepExpired() {
	r.runWithRecovery("expiry_sweep", func(ctx context.Context, logger *slog.Logger) error {
		n, err := r.expiry.SweepExpiredOrders(ctx, r.now())
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("Expired orders cancelled", slog.Int("count", n))
		}
		return nil
	})
}

func (r *Runner) runWithRecovery(jobName string, job func(ctx context.Context, logger *slog.Logger) error) {
	logger := r.logger.With(slog.String("job", jobName))
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Job panicked", slog.Any("panic", rec))
		}
	}()

	ctx, cancel := context.WithTimeout(middleware.WithLogger(context.Background(), logger), r.timeout)
	defer cancel()

	start := time.Now()
	logger.Info("Starting job")
	if err := job(ctx, logger); err != nil {
		logger.Error("Job failed", slog.String("error", err.Error()), slog.Duration("duration", time.Since(start)))
		return
	}
	logger.Info("Job completed", slog.Duration("duration", time.Since(start)))
}
