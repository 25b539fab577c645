package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRecurringRepository is a testify mock of persistence.RecurringRepository
type MockRecurringRepository struct {
	mock.Mock
}

func (m *MockRecurringRepository) Create(ctx context.Context, recurring *entity.RecurringTransaction) error {
	args := m.Called(ctx, recurring)
	return args.Error(0)
}

func (m *MockRecurringRepository) Update(ctx context.Context, recurring *entity.RecurringTransaction) error {
	args := m.Called(ctx, recurring)
	return args.Error(0)
}

func (m *MockRecurringRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RecurringTransaction, error) {
	args := m.Called(ctx, id)
	var r0 *entity.RecurringTransaction
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.RecurringTransaction)
	}
	return r0, args.Error(1)
}

func (m *MockRecurringRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.RecurringTransaction, error) {
	args := m.Called(ctx, id)
	var r0 *entity.RecurringTransaction
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.RecurringTransaction)
	}
	return r0, args.Error(1)
}

func (m *MockRecurringRepository) ListByUser(ctx context.Context, userID uuid.UUID, page entity.Page) ([]*entity.RecurringTransaction, int64, error) {
	args := m.Called(ctx, userID, page)
	var r0 []*entity.RecurringTransaction
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.RecurringTransaction)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockRecurringRepository) ListDueIDs(ctx context.Context, now time.Time, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, now, after, limit)
	var r0 []uuid.UUID
	if v := args.Get(0); v != nil {
		r0 = v.([]uuid.UUID)
	}
	return r0, args.Error(1)
}
