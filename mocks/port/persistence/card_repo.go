package persistence

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCardRepository is a testify mock of persistence.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Create(ctx context.Context, card *entity.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) Update(ctx context.Context, card *entity.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Card, error) {
	args := m.Called(ctx, id)
	var r0 *entity.Card
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.Card)
	}
	return r0, args.Error(1)
}

func (m *MockCardRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Card, error) {
	args := m.Called(ctx, id)
	var r0 *entity.Card
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.Card)
	}
	return r0, args.Error(1)
}

func (m *MockCardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Card, error) {
	args := m.Called(ctx, userID)
	var r0 []*entity.Card
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.Card)
	}
	return r0, args.Error(1)
}

func (m *MockCardRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

// MockCardTransactionRepository is a testify mock of persistence.CardTransactionRepository
type MockCardTransactionRepository struct {
	mock.Mock
}

func (m *MockCardTransactionRepository) Create(ctx context.Context, cardTx *entity.CardTransaction) error {
	args := m.Called(ctx, cardTx)
	return args.Error(0)
}

func (m *MockCardTransactionRepository) ListByCard(ctx context.Context, cardID uuid.UUID, page entity.Page) ([]*entity.CardTransaction, int64, error) {
	args := m.Called(ctx, cardID, page)
	var r0 []*entity.CardTransaction
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.CardTransaction)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}
