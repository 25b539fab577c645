package notify

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
)

// Notifier publishes domain events once the unit of work that produced them
// has committed. Delivery failures are logged and swallowed.
type Notifier struct {
	publisher coreport.EventPublisher
	logger    coreport.Logger
}

// NewNotifier creates a Notifier; a nil publisher disables publishing
func NewNotifier(publisher coreport.EventPublisher, logger coreport.Logger) *Notifier {
	return &Notifier{publisher: publisher, logger: logger}
}

// Publish delivers events
func (n *Notifier) Publish(ctx context.Context, events ...coreport.Event) {
	if n == nil || n.publisher == nil || len(events) == 0 {
		return
	}
	if err := n.publisher.Publish(ctx, events...); err != nil {
		n.logger.Warn("Failed to publish domain events", map[string]any{
			"event": events[0].Name,
			"count": len(events),
			"error": err.Error(),
		})
	}
}

// TransactionEvent describes a ledger entry
func TransactionEvent(name string, tx *entity.Transaction, at time.Time) coreport.Event {
	payload := map[string]any{
		"transaction_id":   tx.ID.String(),
		"reference_number": tx.ReferenceNumber,
		"amount":           entity.FormatMoney(tx.Amount),
		"currency":         string(tx.Currency),
		"transaction_type": string(tx.TransactionType),
		"status":           string(tx.Status),
		"initiated_by":     tx.InitiatedBy.String(),
	}
	if tx.FromAccountID != nil {
		payload["from_account_id"] = tx.FromAccountID.String()
	}
	if tx.ToAccountID != nil {
		payload["to_account_id"] = tx.ToAccountID.String()
	}
	if tx.FailureReason != "" {
		payload["failure_reason"] = tx.FailureReason
	}
	return coreport.Event{
		Name:       name,
		Key:        tx.ID.String(),
		OccurredAt: at,
		Payload:    payload,
	}
}
