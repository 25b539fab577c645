package persistence

import (
	"context"
)

// UnitOfWork coordinates repositories inside one database transaction
type UnitOfWork interface {
	// Begin starts a new SERIALIZABLE transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// Execute runs fn inside a transaction, committing when fn succeeds and rolling
	// back otherwise. Serialization failures and deadlocks restart the whole unit
	// with exponential backoff, so fn must be safe to run more than once.
	Execute(ctx context.Context, fn func(txCtx context.Context) error) error

	GetUserRepository(ctx context.Context) UserRepository
	GetPreferenceRepository(ctx context.Context) PreferenceRepository
	GetAccountRepository(ctx context.Context) AccountRepository
	GetAccountLimitRepository(ctx context.Context) AccountLimitRepository
	GetTransactionLimitRepository(ctx context.Context) TransactionLimitRepository
	GetTransactionRepository(ctx context.Context) TransactionRepository
	GetCategoryRepository(ctx context.Context) CategoryRepository
	GetDisputeRepository(ctx context.Context) DisputeRepository
	GetRecurringRepository(ctx context.Context) RecurringRepository
	GetCardRepository(ctx context.Context) CardRepository
	GetCardTransactionRepository(ctx context.Context) CardTransactionRepository
	GetNetworkRepository(ctx context.Context) NetworkRepository
	GetTokenRepository(ctx context.Context) TokenRepository
	GetWalletBalanceRepository(ctx context.Context) WalletBalanceRepository
	GetInteractionRepository(ctx context.Context) InteractionRepository
	GetPositionRepository(ctx context.Context) PositionRepository
}
