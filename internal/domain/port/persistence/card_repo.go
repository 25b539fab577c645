package persistence

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
)

// CardRepository stores cards
type CardRepository interface {
	// Create saves a new card
	//
	// Possible errors:
	// - ErrDuplicate: If the card number is taken
	Create(ctx context.Context, card *entity.Card) error

	// Update saves status, limits and usage counters
	Update(ctx context.Context, card *entity.Card) error

	// GetByID retrieves a card
	//
	// Possible errors:
	// - ErrCardNotFound: If the card doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Card, error)

	// GetForUpdate retrieves a card and locks its row
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Card, error)

	// ListByUser returns every card of a user, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Card, error)

	// NumberExists reports whether a card number is taken
	NumberExists(ctx context.Context, number string) (bool, error)
}

// CardTransactionRepository stores card charge records
type CardTransactionRepository interface {
	Create(ctx context.Context, cardTx *entity.CardTransaction) error

	// ListByCard returns one page of a card's charges, newest first, and the total
	ListByCard(ctx context.Context, cardID uuid.UUID, page entity.Page) ([]*entity.CardTransaction, int64, error)
}
