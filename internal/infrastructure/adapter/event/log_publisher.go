package event

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/config"
)

// LogPublisher writes events to the application log. It is used when kafka
// is disabled.
type LogPublisher struct {
	logger core.Logger
}

func NewLogPublisher(logger core.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, events ...core.Event) error {
	for _, e := range events {
		p.logger.Info("Domain event", map[string]any{
			"event":       e.Name,
			"key":         e.Key,
			"occurred_at": e.OccurredAt,
			"payload":     e.Payload,
		})
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// New picks the kafka publisher when enabled, the log publisher otherwise
func New(cfg config.KafkaConfig, logger core.Logger) core.EventPublisher {
	if cfg.Enabled {
		logger.Info("Publishing domain events to kafka", map[string]any{
			"brokers": cfg.Brokers,
			"topic":   cfg.Topic,
		})
		return NewKafkaPublisher(cfg, logger)
	}
	return NewLogPublisher(logger)
}
