package persistence

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a testify mock of persistence.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	var r0 *entity.User
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.User)
	}
	return r0, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	var r0 *entity.User
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.User)
	}
	return r0, args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, email string, username string) (bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockPreferenceRepository is a testify mock of persistence.PreferenceRepository
type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) Get(ctx context.Context, userID uuid.UUID) (*entity.UserPreference, error) {
	args := m.Called(ctx, userID)
	var r0 *entity.UserPreference
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.UserPreference)
	}
	return r0, args.Error(1)
}

func (m *MockPreferenceRepository) Save(ctx context.Context, pref *entity.UserPreference) error {
	args := m.Called(ctx, pref)
	return args.Error(0)
}
