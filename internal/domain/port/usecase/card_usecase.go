package usecase

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
)

// IssueCardCommand issues a card on an account
type IssueCardCommand struct {
	AccountID uuid.UUID `validate:"required"`
	CardType  string    `validate:"required,oneof=physical virtual virtual_single_use virtual_merchant_locked virtual_subscription"`
	Nickname  string    `validate:"max=50"`
}

// CreateVirtualCardCommand issues a virtual card with optional controls
type CreateVirtualCardCommand struct {
	AccountID     *uuid.UUID `validate:"omitempty"`
	CardType      string     `validate:"required,oneof=virtual virtual_single_use virtual_merchant_locked virtual_subscription"`
	Nickname      string     `validate:"max=50"`
	SpendingLimit string
	MerchantName  string     `validate:"max=100"`
	MaxUsageCount *int       `validate:"omitempty,gt=0"`
	ExpiresAt     *time.Time `validate:"omitempty"`
}

// ChargeCardCommand is a merchant charge presented to a card
type ChargeCardCommand struct {
	Amount           string `validate:"required"`
	MerchantName     string `validate:"required,max=200"`
	MerchantCategory string `validate:"max=100"`
	MerchantLocation string `validate:"max=200"`
	Online           bool
	International    bool
	CategoryID       *uuid.UUID `validate:"omitempty"`
}

// CardCharge is the outcome of an approved charge
type CardCharge struct {
	Card            *entity.Card
	Transaction     *entity.Transaction
	CardTransaction *entity.CardTransaction
}

// CardUseCase manages cards and card charges
type CardUseCase interface {
	Issue(ctx context.Context, userID uuid.UUID, cmd IssueCardCommand) (*entity.Card, error)
	CreateVirtual(ctx context.Context, userID uuid.UUID, cmd CreateVirtualCardCommand) (*entity.Card, error)
	List(ctx context.Context, userID uuid.UUID) ([]*entity.Card, error)
	Get(ctx context.Context, userID, cardID uuid.UUID) (*entity.Card, error)
	ToggleStatus(ctx context.Context, userID, cardID uuid.UUID, status string) (*entity.Card, error)
	UpdateLimits(ctx context.Context, userID, cardID uuid.UUID, spendingLimit string) (*entity.Card, error)
	ListTransactions(ctx context.Context, userID, cardID uuid.UUID, page entity.Page) (entity.PageResult[*entity.CardTransaction], error)

	// Charge authorizes a charge, debits the account through the ledger and
	// records the card transaction atomically
	Charge(ctx context.Context, userID, cardID uuid.UUID, cmd ChargeCardCommand) (*CardCharge, error)
}
