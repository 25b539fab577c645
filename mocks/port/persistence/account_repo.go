package persistence

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a testify mock of persistence.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	args := m.Called(ctx, id)
	var r0 *entity.Account
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.Account)
	}
	return r0, args.Error(1)
}

func (m *MockAccountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	args := m.Called(ctx, id)
	var r0 *entity.Account
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.Account)
	}
	return r0, args.Error(1)
}

func (m *MockAccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error) {
	args := m.Called(ctx, userID)
	var r0 []*entity.Account
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.Account)
	}
	return r0, args.Error(1)
}

func (m *MockAccountRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Exists(ctx context.Context, userID uuid.UUID, accountType entity.AccountType, currency entity.Currency) (bool, error) {
	args := m.Called(ctx, userID, accountType, currency)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) FindActiveByType(ctx context.Context, userID uuid.UUID, accountType entity.AccountType) (*entity.Account, error) {
	args := m.Called(ctx, userID, accountType)
	var r0 *entity.Account
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.Account)
	}
	return r0, args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockAccountLimitRepository is a testify mock of persistence.AccountLimitRepository
type MockAccountLimitRepository struct {
	mock.Mock
}

func (m *MockAccountLimitRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.AccountLimit, error) {
	args := m.Called(ctx, accountID)
	var r0 []*entity.AccountLimit
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.AccountLimit)
	}
	return r0, args.Error(1)
}

func (m *MockAccountLimitRepository) ListForUpdate(ctx context.Context, accountIDs []uuid.UUID) ([]*entity.AccountLimit, error) {
	args := m.Called(ctx, accountIDs)
	var r0 []*entity.AccountLimit
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.AccountLimit)
	}
	return r0, args.Error(1)
}

func (m *MockAccountLimitRepository) Upsert(ctx context.Context, limit *entity.AccountLimit) error {
	args := m.Called(ctx, limit)
	return args.Error(0)
}

func (m *MockAccountLimitRepository) Update(ctx context.Context, limit *entity.AccountLimit) error {
	args := m.Called(ctx, limit)
	return args.Error(0)
}

func (m *MockAccountLimitRepository) ListActive(ctx context.Context) ([]*entity.AccountLimit, error) {
	args := m.Called(ctx)
	var r0 []*entity.AccountLimit
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.AccountLimit)
	}
	return r0, args.Error(1)
}

// MockTransactionLimitRepository is a testify mock of persistence.TransactionLimitRepository
type MockTransactionLimitRepository struct {
	mock.Mock
}

func (m *MockTransactionLimitRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.TransactionLimit, error) {
	args := m.Called(ctx, userID)
	var r0 []*entity.TransactionLimit
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.TransactionLimit)
	}
	return r0, args.Error(1)
}

func (m *MockTransactionLimitRepository) ListForUpdate(ctx context.Context, userID uuid.UUID) ([]*entity.TransactionLimit, error) {
	args := m.Called(ctx, userID)
	var r0 []*entity.TransactionLimit
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.TransactionLimit)
	}
	return r0, args.Error(1)
}

func (m *MockTransactionLimitRepository) Upsert(ctx context.Context, limit *entity.TransactionLimit) error {
	args := m.Called(ctx, limit)
	return args.Error(0)
}

func (m *MockTransactionLimitRepository) Update(ctx context.Context, limit *entity.TransactionLimit) error {
	args := m.Called(ctx, limit)
	return args.Error(0)
}

func (m *MockTransactionLimitRepository) ListActive(ctx context.Context) ([]*entity.TransactionLimit, error) {
	args := m.Called(ctx)
	var r0 []*entity.TransactionLimit
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.TransactionLimit)
	}
	return r0, args.Error(1)
}
