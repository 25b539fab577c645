package persistence

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
)

// AccountRepository stores accounts and their balances
type AccountRepository interface {
	// Create saves a new account
	//
	// Possible errors:
	// - ErrDuplicate: If the user already has an account of that type and currency
	Create(ctx context.Context, account *entity.Account) error

	// GetByID retrieves an account without locking it
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// GetForUpdate retrieves an account and locks its row until the transaction ends.
	// Callers locking several accounts must lock them in ascending id order.
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// ListByUser returns every account of a user, oldest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error)

	// CountByUser returns how many accounts a user holds
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// Exists reports whether the user holds an account of that type and currency
	Exists(ctx context.Context, userID uuid.UUID, accountType entity.AccountType, currency entity.Currency) (bool, error)

	// NumberExists reports whether an account number is taken
	NumberExists(ctx context.Context, number string) (bool, error)

	// FindActiveByType returns the oldest active, unfrozen account of a type
	//
	// Possible errors:
	// - ErrAccountNotFound: If the user has no such account
	FindActiveByType(ctx context.Context, userID uuid.UUID, accountType entity.AccountType) (*entity.Account, error)

	// Update saves balances and flags
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	Update(ctx context.Context, account *entity.Account) error
}

// AccountLimitRepository stores account level limits, one per (account, limit type)
type AccountLimitRepository interface {
	// ListByAccount returns the limits of an account
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.AccountLimit, error)

	// ListForUpdate returns the active limits of the accounts and locks their rows
	ListForUpdate(ctx context.Context, accountIDs []uuid.UUID) ([]*entity.AccountLimit, error)

	// Upsert inserts a limit or replaces the amount, period and active flag of the
	// existing limit of the same type
	Upsert(ctx context.Context, limit *entity.AccountLimit) error

	// Update saves the counter of a limit
	Update(ctx context.Context, limit *entity.AccountLimit) error

	// ListActive returns every active limit with a resetting period
	ListActive(ctx context.Context) ([]*entity.AccountLimit, error)
}

// TransactionLimitRepository stores user level limits
type TransactionLimitRepository interface {
	// ListByUser returns the limits of a user
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.TransactionLimit, error)

	// ListForUpdate returns the active limits of a user and locks their rows
	ListForUpdate(ctx context.Context, userID uuid.UUID) ([]*entity.TransactionLimit, error)

	// Upsert inserts a limit or replaces the existing one with the same
	// (user, account, transaction type, limit type)
	Upsert(ctx context.Context, limit *entity.TransactionLimit) error

	// Update saves the counter of a limit
	Update(ctx context.Context, limit *entity.TransactionLimit) error

	// ListActive returns every active limit with a resetting period
	ListActive(ctx context.Context) ([]*entity.TransactionLimit, error)
}
