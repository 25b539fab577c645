package core

import (
	"context"
	"time"
)

// Event names published by the domain
const (
	EventTransactionCompleted = "transaction.completed"
	EventTransactionFailed    = "transaction.failed"
	EventTransactionDisputed  = "transaction.disputed"
	EventRecurringExecuted    = "recurring.executed"
	EventCardIssued           = "card.issued"
	EventCardCharged          = "card.charged"
	EventLimitsReset          = "limits.reset"
)

// Event is a domain fact published after the database transaction commits
type Event struct {
	Name       string         `json:"name"`
	Key        string         `json:"key"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// EventPublisher delivers domain events to interested consumers
type EventPublisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}
