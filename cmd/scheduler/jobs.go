package main

import (
	"context"
	"errors"
	"time"

	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
)

// limitResetter is the part of the limit use case the scheduler drives
type limitResetter interface {
	ResetExpired(ctx context.Context) (int, error)
}

// recurringRunner is the part of the recurring use case the scheduler drives
type recurringRunner interface {
	RunDue(ctx context.Context, now time.Time) (*usecase.SweepResult, error)
}

type jobs struct {
	recurring    recurringRunner
	limits       limitResetter
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	timeout      time.Duration
}

func newJobs(recurring recurringRunner, limits limitResetter, tp coreport.TimeProvider, logger coreport.Logger, timeout time.Duration) *jobs {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &jobs{recurring: recurring, limits: limits, timeProvider: tp, logger: logger, timeout: timeout}
}

// runOnce resets expired limits first so the recurring runs see fresh
// counters. Both jobs always run; their errors are joined.
func (j *jobs) runOnce(ctx context.Context) error {
	ctx, cancel := j.timeProvider.WithTimeout(ctx, j.timeout)
	defer cancel()
	start := j.timeProvider.Now()

	var errs []error

	reset, err := j.limits.ResetExpired(ctx)
	if err != nil {
		j.logger.Error("Limit reset failed", map[string]any{"error": err.Error()})
		errs = append(errs, err)
	}

	sweep, err := j.recurring.RunDue(ctx, j.timeProvider.Now())
	if err != nil {
		j.logger.Error("Recurring sweep failed", map[string]any{"error": err.Error()})
		errs = append(errs, err)
	}

	fields := map[string]any{
		"limits_reset": reset,
		"duration_ms":  j.timeProvider.Since(start).Milliseconds(),
	}
	if sweep != nil {
		fields["recurring_executed"] = sweep.Executed
		fields["recurring_failed"] = sweep.Failed
	}
	j.logger.Info("Scheduler run finished", fields)

	return errors.Join(errs...)
}
