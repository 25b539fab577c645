package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var _ persistence.TransactionRepository = (*MockTransactionRepository)(nil)

// MockTransactionRepository is a testify mock of persistence.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	args := m.Called(ctx, id)
	var r0 *entity.Transaction
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.Transaction)
	}
	return r0, args.Error(1)
}

func (m *MockTransactionRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	args := m.Called(ctx, id)
	var r0 *entity.Transaction
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.Transaction)
	}
	return r0, args.Error(1)
}

func (m *MockTransactionRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter persistence.TransactionFilter, page entity.Page) ([]*entity.Transaction, int64, error) {
	args := m.Called(ctx, filter, page)
	var r0 []*entity.Transaction
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.Transaction)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) ListSince(ctx context.Context, accountIDs []uuid.UUID, since time.Time) ([]*entity.Transaction, error) {
	args := m.Called(ctx, accountIDs, since)
	var r0 []*entity.Transaction
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.Transaction)
	}
	return r0, args.Error(1)
}

func (m *MockTransactionRepository) SpendingByCategory(ctx context.Context, accountIDs []uuid.UUID, since time.Time) ([]entity.CategorySpending, error) {
	args := m.Called(ctx, accountIDs, since)
	var r0 []entity.CategorySpending
	if v := args.Get(0); v != nil {
		r0 = v.([]entity.CategorySpending)
	}
	return r0, args.Error(1)
}

// MockCategoryRepository is a testify mock of persistence.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.TransactionCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.TransactionCategory, error) {
	args := m.Called(ctx, id)
	var r0 *entity.TransactionCategory
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.TransactionCategory)
	}
	return r0, args.Error(1)
}

func (m *MockCategoryRepository) ListActive(ctx context.Context) ([]*entity.TransactionCategory, error) {
	args := m.Called(ctx)
	var r0 []*entity.TransactionCategory
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.TransactionCategory)
	}
	return r0, args.Error(1)
}

// MockDisputeRepository is a testify mock of persistence.DisputeRepository
type MockDisputeRepository struct {
	mock.Mock
}

func (m *MockDisputeRepository) Create(ctx context.Context, dispute *entity.TransactionDispute) error {
	args := m.Called(ctx, dispute)
	return args.Error(0)
}

func (m *MockDisputeRepository) ExistsForTransaction(ctx context.Context, transactionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, transactionID)
	return args.Bool(0), args.Error(1)
}
