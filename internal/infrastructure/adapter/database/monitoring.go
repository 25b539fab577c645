package database

import (
	"context"
	"time"

	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
)

const slowUnitThreshold = 500 * time.Millisecond

// UnitMetrics describes one attempt of a unit of work
type UnitMetrics struct {
	Attempt      int
	Duration     time.Duration
	Failed       bool
	ErrorMessage string
}

// MetricsCollector times units of work and reports the slow ones
type MetricsCollector struct {
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	threshold    time.Duration
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger coreport.Logger, timeProvider coreport.TimeProvider) *MetricsCollector {
	return &MetricsCollector{
		logger:       logger,
		timeProvider: timeProvider,
		threshold:    slowUnitThreshold,
	}
}

// MeasureUnit runs fn and logs a warning when it took longer than the threshold
func (c *MetricsCollector) MeasureUnit(ctx context.Context, attempt int, fn func() error) (*UnitMetrics, error) {
	start := c.timeProvider.Now()
	err := fn()

	metrics := &UnitMetrics{
		Attempt:  attempt,
		Duration: c.timeProvider.Since(start),
		Failed:   err != nil,
	}
	if err != nil {
		metrics.ErrorMessage = err.Error()
	}

	if metrics.Duration > c.threshold {
		fields := map[string]any{
			"attempt":     attempt + 1,
			"duration_ms": metrics.Duration.Milliseconds(),
			"failed":      metrics.Failed,
		}
		if id := coreport.RequestIDFrom(ctx); id != "" {
			fields["request_id"] = id
		}
		if metrics.Failed {
			fields["error"] = metrics.ErrorMessage
		}
		c.logger.Warn("Slow unit of work detected", fields)
	}

	return metrics, err
}
