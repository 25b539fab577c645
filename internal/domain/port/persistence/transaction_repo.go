package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
)

// TransactionFilter narrows a transaction listing. AccountIDs is mandatory and
// matches either side of a transaction.
type TransactionFilter struct {
	AccountIDs []uuid.UUID
	Status     entity.TransactionStatus
	Type       entity.TransactionType
}

// TransactionRepository stores ledger entries
type TransactionRepository interface {
	// Create saves a new transaction
	//
	// Possible errors:
	// - ErrDuplicate: If the reference number is taken
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// Update saves status, failure reason and timestamps
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the transaction doesn't exist
	Update(ctx context.Context, transaction *entity.Transaction) error

	// GetByID retrieves a transaction
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the transaction doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// GetForUpdate retrieves a transaction and locks its row
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the transaction doesn't exist
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// ReferenceExists reports whether a reference number is taken
	ReferenceExists(ctx context.Context, reference string) (bool, error)

	// List returns one page of matching transactions, newest first, and the total
	List(ctx context.Context, filter TransactionFilter, page entity.Page) ([]*entity.Transaction, int64, error)

	// ListSince returns every transaction touching the accounts created at or after since
	ListSince(ctx context.Context, accountIDs []uuid.UUID, since time.Time) ([]*entity.Transaction, error)

	// SpendingByCategory sums completed outgoing transactions of the accounts per category
	SpendingByCategory(ctx context.Context, accountIDs []uuid.UUID, since time.Time) ([]entity.CategorySpending, error)
}

// CategoryRepository stores transaction categories
type CategoryRepository interface {
	// Create saves a new category
	//
	// Possible errors:
	// - ErrDuplicate: If the name is taken
	Create(ctx context.Context, category *entity.TransactionCategory) error

	// GetByID retrieves a category
	//
	// Possible errors:
	// - ErrCategoryNotFound: If the category doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.TransactionCategory, error)

	// ListActive returns active categories ordered by name
	ListActive(ctx context.Context) ([]*entity.TransactionCategory, error)
}

// DisputeRepository stores disputes, at most one per transaction
type DisputeRepository interface {
	// Create saves a new dispute
	//
	// Possible errors:
	// - ErrDisputeExists: If the transaction already has a dispute
	Create(ctx context.Context, dispute *entity.TransactionDispute) error

	// ExistsForTransaction reports whether the transaction has a dispute
	ExistsForTransaction(ctx context.Context, transactionID uuid.UUID) (bool, error)
}
