package usecase

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
)

// CreateAccountCommand opens an account
type CreateAccountCommand struct {
	AccountType string `validate:"required,oneof=checking savings investment crypto business"`
	Currency    string `validate:"required"`
	ChainID     *int64 `validate:"omitempty,gt=0"`
}

// SetAccountLimitCommand creates or replaces one account limit
type SetAccountLimitCommand struct {
	LimitType   string `validate:"required,oneof=daily_withdraw daily_deposit monthly_transfer transaction_count single_transaction"`
	LimitAmount string `validate:"required"`
	ResetPeriod string `validate:"omitempty,oneof=never daily weekly monthly"`
	IsActive    *bool
}

// SetUserLimitCommand creates or replaces one user limit
type SetUserLimitCommand struct {
	LimitType       string     `validate:"required,oneof=daily_amount daily_count monthly_amount monthly_count single_transaction"`
	LimitValue      string     `validate:"required"`
	AccountID       *uuid.UUID `validate:"omitempty"`
	TransactionType string     `validate:"omitempty"`
	IsActive        *bool
}

// AccountUseCase manages accounts owned by a user
type AccountUseCase interface {
	// Create opens an account; a user holds at most one per (type, currency)
	Create(ctx context.Context, userID uuid.UUID, cmd CreateAccountCommand) (*entity.Account, error)

	// List returns the caller's accounts
	List(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error)

	// Get returns one of the caller's accounts
	Get(ctx context.Context, userID, accountID uuid.UUID) (*entity.Account, error)

	// Freeze blocks all movements on the account
	Freeze(ctx context.Context, userID, accountID uuid.UUID) (*entity.Account, error)

	// Unfreeze lifts a freeze
	Unfreeze(ctx context.Context, userID, accountID uuid.UUID) (*entity.Account, error)
}

// LimitUseCase manages limits and resets expired counters
type LimitUseCase interface {
	ListAccountLimits(ctx context.Context, userID, accountID uuid.UUID) ([]*entity.AccountLimit, error)
	SetAccountLimit(ctx context.Context, userID, accountID uuid.UUID, cmd SetAccountLimitCommand) (*entity.AccountLimit, error)
	ListUserLimits(ctx context.Context, userID uuid.UUID) ([]*entity.TransactionLimit, error)
	SetUserLimit(ctx context.Context, userID uuid.UUID, cmd SetUserLimitCommand) (*entity.TransactionLimit, error)

	// ResetExpired resets every active limit whose period has elapsed and
	// returns how many were reset
	ResetExpired(ctx context.Context) (int, error)
}

// LimitEnforcer checks and consumes the limits a transaction touches.
// It must run inside the unit of work that moves the balances.
type LimitEnforcer interface {
	Enforce(txCtx context.Context, tx *entity.Transaction, from, to *entity.Account) error
}
