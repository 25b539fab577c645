package persistence

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
)

// NetworkRepository stores the chains the platform supports
type NetworkRepository interface {
	// List returns networks ordered by chain id
	List(ctx context.Context, activeOnly bool) ([]*entity.SupportedNetwork, error)

	// GetActive retrieves an active network by chain id
	//
	// Possible errors:
	// - ErrUnsupportedNetwork: If the chain is unknown or inactive
	GetActive(ctx context.Context, chainID int64) (*entity.SupportedNetwork, error)

	// Upsert inserts a network or updates it by chain id
	Upsert(ctx context.Context, network *entity.SupportedNetwork) error
}

// TokenRepository stores token contracts
type TokenRepository interface {
	// ListActive returns the active tokens on active networks
	ListActive(ctx context.Context) ([]*entity.TokenContract, error)

	// FindActive finds an active token on a chain by symbol or contract address
	//
	// Possible errors:
	// - ErrTokenNotFound: If no active token matches
	FindActive(ctx context.Context, chainID int64, symbolOrAddress string) (*entity.TokenContract, error)

	// Upsert inserts a token or updates it by (chain id, contract address)
	Upsert(ctx context.Context, token *entity.TokenContract) error
}

// WalletBalanceRepository stores balance snapshots, one per (user, token, wallet)
type WalletBalanceRepository interface {
	// Upsert writes the snapshot, replacing any earlier one for the same key
	Upsert(ctx context.Context, balance *entity.WalletBalance) error

	// ListByUser returns the snapshots of a wallet with their tokens loaded
	ListByUser(ctx context.Context, userID uuid.UUID, wallet string) ([]*entity.WalletBalance, error)
}

// InteractionRepository stores submitted on-chain transactions
type InteractionRepository interface {
	// Create saves an interaction
	//
	// Possible errors:
	// - ErrDuplicate: If the tx hash is already recorded
	Create(ctx context.Context, interaction *entity.SmartContractInteraction) error

	// ListByUser returns one page of a user's interactions, newest first, and the total
	ListByUser(ctx context.Context, userID uuid.UUID, page entity.Page) ([]*entity.SmartContractInteraction, int64, error)
}

// PositionRepository stores DeFi positions
type PositionRepository interface {
	// FindActiveForUpdate locks the active position of (user, protocol, token in)
	//
	// Possible errors:
	// - ErrNotFound: If there is no active position
	FindActiveForUpdate(ctx context.Context, userID uuid.UUID, protocol string, tokenInID uuid.UUID) (*entity.DeFiPosition, error)

	Create(ctx context.Context, position *entity.DeFiPosition) error

	Update(ctx context.Context, position *entity.DeFiPosition) error

	// ListByUser returns a user's positions with their tokens loaded, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*entity.DeFiPosition, error)
}
