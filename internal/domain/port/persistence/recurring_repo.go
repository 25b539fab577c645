package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
)

// RecurringRepository stores recurring templates
type RecurringRepository interface {
	Create(ctx context.Context, recurring *entity.RecurringTransaction) error

	// Update saves schedule and execution state
	//
	// Possible errors:
	// - ErrRecurringNotFound: If the template doesn't exist
	Update(ctx context.Context, recurring *entity.RecurringTransaction) error

	// GetByID retrieves a template
	//
	// Possible errors:
	// - ErrRecurringNotFound: If the template doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RecurringTransaction, error)

	// GetForUpdate retrieves a template and locks its row
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.RecurringTransaction, error)

	// ListByUser returns one page of a user's templates ordered by next execution
	ListByUser(ctx context.Context, userID uuid.UUID, page entity.Page) ([]*entity.RecurringTransaction, int64, error)

	// ListDueIDs returns up to limit active templates whose next execution is not
	// after now and whose id sorts after the given cursor, in id order. uuid.Nil
	// starts from the beginning.
	ListDueIDs(ctx context.Context, now time.Time, after uuid.UUID, limit int) ([]uuid.UUID, error)
}
