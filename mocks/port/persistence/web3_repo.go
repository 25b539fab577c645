package persistence

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockNetworkRepository is a testify mock of persistence.NetworkRepository
type MockNetworkRepository struct {
	mock.Mock
}

func (m *MockNetworkRepository) List(ctx context.Context, activeOnly bool) ([]*entity.SupportedNetwork, error) {
	args := m.Called(ctx, activeOnly)
	var r0 []*entity.SupportedNetwork
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.SupportedNetwork)
	}
	return r0, args.Error(1)
}

func (m *MockNetworkRepository) GetActive(ctx context.Context, chainID int64) (*entity.SupportedNetwork, error) {
	args := m.Called(ctx, chainID)
	var r0 *entity.SupportedNetwork
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.SupportedNetwork)
	}
	return r0, args.Error(1)
}

func (m *MockNetworkRepository) Upsert(ctx context.Context, network *entity.SupportedNetwork) error {
	args := m.Called(ctx, network)
	return args.Error(0)
}

// MockTokenRepository is a testify mock of persistence.TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) ListActive(ctx context.Context) ([]*entity.TokenContract, error) {
	args := m.Called(ctx)
	var r0 []*entity.TokenContract
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.TokenContract)
	}
	return r0, args.Error(1)
}

func (m *MockTokenRepository) FindActive(ctx context.Context, chainID int64, symbolOrAddress string) (*entity.TokenContract, error) {
	args := m.Called(ctx, chainID, symbolOrAddress)
	var r0 *entity.TokenContract
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.TokenContract)
	}
	return r0, args.Error(1)
}

func (m *MockTokenRepository) Upsert(ctx context.Context, token *entity.TokenContract) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockWalletBalanceRepository is a testify mock of persistence.WalletBalanceRepository
type MockWalletBalanceRepository struct {
	mock.Mock
}

func (m *MockWalletBalanceRepository) Upsert(ctx context.Context, balance *entity.WalletBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

func (m *MockWalletBalanceRepository) ListByUser(ctx context.Context, userID uuid.UUID, wallet string) ([]*entity.WalletBalance, error) {
	args := m.Called(ctx, userID, wallet)
	var r0 []*entity.WalletBalance
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.WalletBalance)
	}
	return r0, args.Error(1)
}

// MockInteractionRepository is a testify mock of persistence.InteractionRepository
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Create(ctx context.Context, interaction *entity.SmartContractInteraction) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

func (m *MockInteractionRepository) ListByUser(ctx context.Context, userID uuid.UUID, page entity.Page) ([]*entity.SmartContractInteraction, int64, error) {
	args := m.Called(ctx, userID, page)
	var r0 []*entity.SmartContractInteraction
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.SmartContractInteraction)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

// MockPositionRepository is a testify mock of persistence.PositionRepository
type MockPositionRepository struct {
	mock.Mock
}

func (m *MockPositionRepository) FindActiveForUpdate(ctx context.Context, userID uuid.UUID, protocol string, tokenInID uuid.UUID) (*entity.DeFiPosition, error) {
	args := m.Called(ctx, userID, protocol, tokenInID)
	var r0 *entity.DeFiPosition
	if v := args.Get(0); v != nil {
		r0 = v.(*entity.DeFiPosition)
	}
	return r0, args.Error(1)
}

func (m *MockPositionRepository) Create(ctx context.Context, position *entity.DeFiPosition) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

func (m *MockPositionRepository) Update(ctx context.Context, position *entity.DeFiPosition) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

func (m *MockPositionRepository) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*entity.DeFiPosition, error) {
	args := m.Called(ctx, userID, activeOnly)
	var r0 []*entity.DeFiPosition
	if v := args.Get(0); v != nil {
		r0 = v.([]*entity.DeFiPosition)
	}
	return r0, args.Error(1)
}
