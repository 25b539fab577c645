package web3

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	networksCacheKey  = "web3:networks"
	gasPricesCacheKey = "web3:gas_prices"

	nativeGasLimit = 21000
	tokenGasLimit  = 65000
)

var (
	_ usecase.Web3UseCase = (*Service)(nil)
	_ usecase.DeFiUseCase = (*Service)(nil)
)

// Options tunes caching of the read mostly chain data
type Options struct {
	NetworkTTL  time.Duration
	GasPriceTTL time.Duration
}

// Service is the chain facing shim. Chain state comes from the oracle and is
// stored as claimed snapshots.
type Service struct {
	uow          persistence.UnitOfWork
	oracle       coreport.ChainOracle
	cache        coreport.Cache
	validator    coreport.Validator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	options      Options
}

// NewWeb3Service creates a new web3 and DeFi service
func NewWeb3Service(
	uow persistence.UnitOfWork,
	oracle coreport.ChainOracle,
	cache coreport.Cache,
	validator coreport.Validator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	options Options,
) *Service {
	if options.NetworkTTL <= 0 {
		options.NetworkTTL = 5 * time.Minute
	}
	if options.GasPriceTTL <= 0 {
		options.GasPriceTTL = 30 * time.Second
	}
	return &Service{
		uow:          uow,
		oracle:       oracle,
		cache:        cache,
		validator:    validator,
		timeProvider: timeProvider,
		logger:       logger,
		options:      options,
	}
}

// ListNetworks returns the active networks
func (s *Service) ListNetworks(ctx context.Context) ([]*entity.SupportedNetwork, error) {
	var networks []*entity.SupportedNetwork
	if s.cached(ctx, networksCacheKey, &networks) {
		return networks, nil
	}

	networks, err := s.uow.GetNetworkRepository(ctx).List(ctx, true)
	if err != nil {
		return nil, err
	}
	s.store(ctx, networksCacheKey, networks, s.options.NetworkTTL)
	return networks, nil
}

// ListBalances returns the stored snapshots of a wallet
func (s *Service) ListBalances(ctx context.Context, userID uuid.UUID, wallet string) ([]*entity.WalletBalance, error) {
	wallet, err := s.resolveWallet(ctx, userID, wallet)
	if err != nil {
		return nil, err
	}
	return s.uow.GetWalletBalanceRepository(ctx).ListByUser(ctx, userID, wallet)
}

// RefreshBalances asks the oracle for every active token of the wallet and
// replaces the stored snapshots in one unit of work
func (s *Service) RefreshBalances(ctx context.Context, userID uuid.UUID, wallet string) ([]*entity.WalletBalance, error) {
	wallet, err := s.resolveWallet(ctx, userID, wallet)
	if err != nil {
		return nil, err
	}

	tokens, err := s.uow.GetTokenRepository(ctx).ListActive(ctx)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	snapshots := make([]*entity.WalletBalance, 0, len(tokens))
	for _, token := range tokens {
		balance, err := s.oracle.TokenBalance(ctx, token.ChainID, token.ContractAddress, wallet)
		if err != nil {
			return nil, err
		}
		price, err := s.oracle.PriceUSD(ctx, token.Symbol)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, entity.NewWalletBalance(userID, token, wallet, balance, price, now))
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		repo := s.uow.GetWalletBalanceRepository(txCtx)
		for _, snapshot := range snapshots {
			if err := repo.Upsert(txCtx, snapshot); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Wallet balances refreshed", map[string]any{
		"user_id": userID.String(),
		"wallet":  wallet,
		"tokens":  len(snapshots),
	})
	return snapshots, nil
}

// SendTransaction submits a transfer from the connected wallet and records it
// as a pending interaction
func (s *Service) SendTransaction(ctx context.Context, userID uuid.UUID, cmd usecase.SendChainTransactionCommand) (*entity.SmartContractInteraction, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}
	value, err := decimal.NewFromString(strings.TrimSpace(cmd.Value))
	if err != nil || !value.IsPositive() {
		return nil, &errs.ValidationError{Fields: map[string]string{"value": "must be a positive decimal"}, Err: errs.ErrInvalidAmount}
	}

	if _, err := s.uow.GetNetworkRepository(ctx).GetActive(ctx, cmd.ChainID); err != nil {
		return nil, err
	}
	from, err := s.resolveWallet(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	gasLimit := int64(nativeGasLimit)
	if cmd.TokenAddress != "" {
		if _, err := s.uow.GetTokenRepository(ctx).FindActive(ctx, cmd.ChainID, cmd.TokenAddress); err != nil {
			return nil, err
		}
		gasLimit = tokenGasLimit
	}

	gas, err := s.oracle.GasPrice(ctx, cmd.ChainID)
	if err != nil {
		return nil, err
	}
	hash, err := s.oracle.SendTransaction(ctx, coreport.OutgoingChainTx{
		ChainID:      cmd.ChainID,
		From:         from,
		To:           cmd.ToAddress,
		Value:        value,
		TokenAddress: cmd.TokenAddress,
	})
	if err != nil {
		return nil, err
	}

	interaction, err := entity.NewContractInteraction(userID, cmd.ChainID, hash, from, cmd.ToAddress,
		entity.InteractionTransfer, value, gas.Standard, gasLimit, s.timeProvider.Now())
	if err != nil {
		return nil, err
	}
	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		return s.uow.GetInteractionRepository(txCtx).Create(txCtx, interaction)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Chain transaction submitted", map[string]any{
		"user_id":  userID.String(),
		"chain_id": cmd.ChainID,
		"tx_hash":  hash,
		"value":    value.String(),
	})
	return interaction, nil
}

// ListInteractions returns one page of the caller's submitted transactions
func (s *Service) ListInteractions(ctx context.Context, userID uuid.UUID, page entity.Page) (entity.PageResult[*entity.SmartContractInteraction], error) {
	page = page.Normalize()
	items, total, err := s.uow.GetInteractionRepository(ctx).ListByUser(ctx, userID, page)
	if err != nil {
		return entity.NewPageResult[*entity.SmartContractInteraction](nil, 0, page), err
	}
	return entity.NewPageResult(items, total, page), nil
}

// GasPrices returns the fee tiers of every active network
func (s *Service) GasPrices(ctx context.Context) ([]coreport.GasPrice, error) {
	var prices []coreport.GasPrice
	if s.cached(ctx, gasPricesCacheKey, &prices) {
		return prices, nil
	}

	networks, err := s.ListNetworks(ctx)
	if err != nil {
		return nil, err
	}
	prices = make([]coreport.GasPrice, 0, len(networks))
	for _, network := range networks {
		price, err := s.oracle.GasPrice(ctx, network.ChainID)
		if err != nil {
			return nil, err
		}
		price.ChainID = network.ChainID
		price.Network = network.Name
		prices = append(prices, price)
	}

	s.store(ctx, gasPricesCacheKey, prices, s.options.GasPriceTTL)
	return prices, nil
}

// resolveWallet falls back to the connected wallet of the user
func (s *Service) resolveWallet(ctx context.Context, userID uuid.UUID, wallet string) (string, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		user, err := s.uow.GetUserRepository(ctx).GetByID(ctx, userID)
		if err != nil {
			return "", err
		}
		if user.WalletAddress == "" {
			return "", errs.ErrNoWalletConnected
		}
		wallet = user.WalletAddress
	}
	if !entity.IsWalletAddress(wallet) {
		return "", errs.NewValidationError("wallet_address", "must be a 0x prefixed 40 character hex address")
	}
	return strings.ToLower(wallet), nil
}

// cached reports a cache hit. Cache failures are logged and treated as misses.
func (s *Service) cached(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("Cache read failed", map[string]any{"key": key, "error": err.Error()})
		return false
	}
	return found
}

func (s *Service) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("Cache write failed", map[string]any{"key": key, "error": err.Error()})
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, errs.ErrNotFound)
}
