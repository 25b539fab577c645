package usecase

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTransactionCommand moves money out of FromAccountID and/or into ToAccountID
type CreateTransactionCommand struct {
	FromAccountID   *uuid.UUID `validate:"required_without=ToAccountID"`
	ToAccountID     *uuid.UUID `validate:"required_without=FromAccountID"`
	Amount          string     `validate:"required"`
	Currency        string     `validate:"required"`
	TransactionType string     `validate:"required"`
	Description     string     `validate:"max=500"`
	CategoryID      *uuid.UUID `validate:"omitempty"`
	MerchantName    string     `validate:"max=200"`
}

// ListTransactionsQuery narrows a listing of the caller's transactions
type ListTransactionsQuery struct {
	AccountID *uuid.UUID
	Status    string `validate:"omitempty,oneof=pending processing completed failed cancelled disputed refunded"`
	Type      string
	Page      entity.Page
}

// DisputeCommand raises a dispute
type DisputeCommand struct {
	Reason      string `validate:"required,oneof=unauthorized duplicate not_received defective incorrect_amount fraud other"`
	Description string `validate:"required,max=2000"`
}

// CreateCategoryCommand adds a transaction category
type CreateCategoryCommand struct {
	Name        string     `validate:"required,max=100"`
	Description string     `validate:"max=500"`
	Icon        string     `validate:"max=50"`
	Color       string     `validate:"omitempty,hexcolor"`
	ParentID    *uuid.UUID `validate:"omitempty"`
}

// TransactionAnalytics summarizes a user's activity over a window
type TransactionAnalytics struct {
	Days          int
	TotalSent     decimal.Decimal
	TotalReceived decimal.Decimal
	Count         int
	ByType        map[entity.TransactionType]int
	ByStatus      map[entity.TransactionStatus]int
}

// TransactionUseCase is the ledger
type TransactionUseCase interface {
	// Create validates and posts a transaction; it completes atomically or not at all
	Create(ctx context.Context, userID uuid.UUID, cmd CreateTransactionCommand) (*entity.Transaction, error)

	// Get returns a transaction touching one of the caller's accounts
	Get(ctx context.Context, userID, transactionID uuid.UUID) (*entity.Transaction, error)

	// List returns the caller's transactions
	List(ctx context.Context, userID uuid.UUID, query ListTransactionsQuery) (entity.PageResult[*entity.Transaction], error)

	// ProcessPending completes a pending transaction, marking it failed when it cannot be posted
	ProcessPending(ctx context.Context, userID, transactionID uuid.UUID) (*entity.Transaction, error)

	// Cancel cancels a pending transaction
	Cancel(ctx context.Context, userID, transactionID uuid.UUID) (*entity.Transaction, error)

	// Dispute raises the single dispute a transaction may have
	Dispute(ctx context.Context, userID, transactionID uuid.UUID, cmd DisputeCommand) (*entity.TransactionDispute, error)

	// Analytics summarizes the last days of activity
	Analytics(ctx context.Context, userID uuid.UUID, days int) (*TransactionAnalytics, error)

	ListCategories(ctx context.Context) ([]*entity.TransactionCategory, error)
	CreateCategory(ctx context.Context, cmd CreateCategoryCommand) (*entity.TransactionCategory, error)

	// SpendingByCategory sums completed outgoing amounts per category over the last days
	SpendingByCategory(ctx context.Context, userID uuid.UUID, days int) ([]entity.CategorySpending, error)
}

// LedgerPoster posts transactions inside a caller owned unit of work. Other
// use cases use it to move money as part of a larger atomic change.
type LedgerPoster interface {
	// NewPending builds and stores a pending transaction with a unique reference
	NewPending(txCtx context.Context, uow persistence.UnitOfWork, params entity.NewTransactionParams) (*entity.Transaction, error)

	// Post applies the balance and limit rules to a pending transaction and completes it
	Post(txCtx context.Context, uow persistence.UnitOfWork, tx *entity.Transaction) error
}
