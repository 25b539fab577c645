package usecase

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/google/uuid"
)

// SendChainTransactionCommand submits a transfer on a chain
type SendChainTransactionCommand struct {
	ChainID      int64  `validate:"required,gt=0"`
	ToAddress    string `validate:"required,eth_addr"`
	Value        string `validate:"required"`
	TokenAddress string `validate:"omitempty,eth_addr"`
}

// StakeCommand opens or grows a DeFi position
type StakeCommand struct {
	Protocol string `validate:"required,max=100"`
	Token    string `validate:"required"`
	Amount   string `validate:"required"`
	ChainID  int64  `validate:"required,gt=0"`
}

// Web3UseCase is the chain facing shim
type Web3UseCase interface {
	ListNetworks(ctx context.Context) ([]*entity.SupportedNetwork, error)

	// ListBalances returns stored snapshots of wallet, or of the connected wallet when empty
	ListBalances(ctx context.Context, userID uuid.UUID, wallet string) ([]*entity.WalletBalance, error)

	// RefreshBalances snapshots every active token of wallet from the oracle
	RefreshBalances(ctx context.Context, userID uuid.UUID, wallet string) ([]*entity.WalletBalance, error)

	SendTransaction(ctx context.Context, userID uuid.UUID, cmd SendChainTransactionCommand) (*entity.SmartContractInteraction, error)
	ListInteractions(ctx context.Context, userID uuid.UUID, page entity.Page) (entity.PageResult[*entity.SmartContractInteraction], error)
	GasPrices(ctx context.Context) ([]core.GasPrice, error)
}

// DeFiUseCase manages DeFi positions
type DeFiUseCase interface {
	ListProtocols(ctx context.Context) ([]core.Protocol, error)
	ListPositions(ctx context.Context, userID uuid.UUID) ([]*entity.DeFiPosition, error)
	Stake(ctx context.Context, userID uuid.UUID, cmd StakeCommand) (*entity.DeFiPosition, error)
}
