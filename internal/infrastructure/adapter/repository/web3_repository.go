package repository

import (
	"context"
	"strings"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	_ persistence.NetworkRepository       = (*NetworkRepository)(nil)
	_ persistence.TokenRepository         = (*TokenRepository)(nil)
	_ persistence.WalletBalanceRepository = (*WalletBalanceRepository)(nil)
	_ persistence.InteractionRepository   = (*InteractionRepository)(nil)
	_ persistence.PositionRepository      = (*PositionRepository)(nil)
)

// NetworkRepository stores supported chains
type NetworkRepository struct {
	db              *gorm.DB
	errorClassifier *ErrorClassifier
}

// NewNetworkRepository creates a new NetworkRepository instance
func NewNetworkRepository(db *gorm.DB) *NetworkRepository {
	return &NetworkRepository{db: db, errorClassifier: NewErrorClassifier()}
}

func toNetworkEntity(m *model.SupportedNetwork) *entity.SupportedNetwork {
	return &entity.SupportedNetwork{
		ChainID:        m.ChainID,
		Name:           m.Name,
		NativeCurrency: m.NativeCurrency,
		RPCURL:         m.RPCURL,
		ExplorerURL:    m.ExplorerURL,
		IsTestnet:      m.IsTestnet,
		IsActive:       m.IsActive,
	}
}

// List returns networks ordered by chain id
func (r *NetworkRepository) List(ctx context.Context, activeOnly bool) ([]*entity.SupportedNetwork, error) {
	query := r.db.WithContext(ctx).Order("chain_id")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var rows []model.SupportedNetwork
	if err := query.Find(&rows).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrUnsupportedNetwork)
	}
	out := make([]*entity.SupportedNetwork, 0, len(rows))
	for i := range rows {
		out = append(out, toNetworkEntity(&rows[i]))
	}
	return out, nil
}

// GetActive retrieves an active network by chain id
func (r *NetworkRepository) GetActive(ctx context.Context, chainID int64) (*entity.SupportedNetwork, error) {
	var m model.SupportedNetwork
	err := r.db.WithContext(ctx).Where("chain_id = ? AND is_active = ?", chainID, true).First(&m).Error
	if err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrUnsupportedNetwork)
	}
	return toNetworkEntity(&m), nil
}

// Upsert inserts a network or updates it by chain id
func (r *NetworkRepository) Upsert(ctx context.Context, network *entity.SupportedNetwork) error {
	m := model.SupportedNetwork{
		ChainID:        network.ChainID,
		Name:           network.Name,
		NativeCurrency: network.NativeCurrency,
		RPCURL:         network.RPCURL,
		ExplorerURL:    network.ExplorerURL,
		IsTestnet:      network.IsTestnet,
		IsActive:       network.IsActive,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "chain_id"}}, UpdateAll: true}).
		Create(&m).Error
	return r.errorClassifier.Map(err, errs.ErrUnsupportedNetwork)
}

// TokenRepository stores token contracts
type TokenRepository struct {
	db              *gorm.DB
	errorClassifier *ErrorClassifier
}

// NewTokenRepository creates a new TokenRepository instance
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db, errorClassifier: NewErrorClassifier()}
}

func toTokenEntity(m *model.TokenContract) *entity.TokenContract {
	return &entity.TokenContract{
		ID:              m.ID,
		ChainID:         m.ChainID,
		ContractAddress: m.ContractAddress,
		Symbol:          m.Symbol,
		Name:            m.Name,
		Decimals:        m.Decimals,
		TokenType:       entity.TokenType(m.TokenType),
		IsActive:        m.IsActive,
	}
}

// ListActive returns the active tokens on active networks
func (r *TokenRepository) ListActive(ctx context.Context) ([]*entity.TokenContract, error) {
	var rows []model.TokenContract
	err := r.db.WithContext(ctx).
		Joins("JOIN supported_networks n ON n.chain_id = token_contracts.chain_id AND n.is_active = ?", true).
		Where("token_contracts.is_active = ?", true).
		Order("token_contracts.chain_id, token_contracts.symbol").
		Find(&rows).Error
	if err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrTokenNotFound)
	}
	out := make([]*entity.TokenContract, 0, len(rows))
	for i := range rows {
		out = append(out, toTokenEntity(&rows[i]))
	}
	return out, nil
}

// FindActive finds an active token on a chain by symbol or contract address
func (r *TokenRepository) FindActive(ctx context.Context, chainID int64, symbolOrAddress string) (*entity.TokenContract, error) {
	needle := strings.ToLower(strings.TrimSpace(symbolOrAddress))

	var m model.TokenContract
	err := r.db.WithContext(ctx).
		Where("chain_id = ? AND is_active = ?", chainID, true).
		Where("LOWER(symbol) = ? OR LOWER(contract_address) = ?", needle, needle).
		First(&m).Error
	if err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrTokenNotFound)
	}
	return toTokenEntity(&m), nil
}

// Upsert inserts a token or updates it by (chain id, contract address)
func (r *TokenRepository) Upsert(ctx context.Context, token *entity.TokenContract) error {
	m := model.TokenContract{
		ID:              token.ID,
		ChainID:         token.ChainID,
		ContractAddress: strings.ToLower(token.ContractAddress),
		Symbol:          token.Symbol,
		Name:            token.Name,
		Decimals:        token.Decimals,
		TokenType:       string(token.TokenType),
		IsActive:        token.IsActive,
	}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "chain_id"}, {Name: "contract_address"}},
				DoUpdates: clause.AssignmentColumns([]string{"symbol", "name", "decimals", "token_type", "is_active"}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}}},
		).
		Create(&m).Error
	if err != nil {
		return r.errorClassifier.Map(err, errs.ErrTokenNotFound)
	}
	token.ID = m.ID
	return nil
}

// WalletBalanceRepository stores claimed wallet balances
type WalletBalanceRepository struct {
	db              *gorm.DB
	errorClassifier *ErrorClassifier
}

// NewWalletBalanceRepository creates a new WalletBalanceRepository instance
func NewWalletBalanceRepository(db *gorm.DB) *WalletBalanceRepository {
	return &WalletBalanceRepository{db: db, errorClassifier: NewErrorClassifier()}
}

// Upsert writes the snapshot, replacing any earlier one for the same key
func (r *WalletBalanceRepository) Upsert(ctx context.Context, balance *entity.WalletBalance) error {
	m := model.WalletBalance{
		ID:            balance.ID,
		UserID:        balance.UserID,
		TokenID:       balance.TokenID,
		WalletAddress: strings.ToLower(balance.WalletAddress),
		Balance:       balance.Balance,
		BalanceUSD:    balance.BalanceUSD,
		LastUpdated:   balance.LastUpdated,
	}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "token_id"}, {Name: "wallet_address"}},
				DoUpdates: clause.AssignmentColumns([]string{"balance", "balance_usd", "last_updated"}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}}},
		).
		Create(&m).Error
	if err != nil {
		return r.errorClassifier.Map(err, errs.ErrTokenNotFound)
	}
	balance.ID = m.ID
	return nil
}

// ListByUser returns the snapshots of a wallet with their tokens loaded,
// largest USD value first
func (r *WalletBalanceRepository) ListByUser(ctx context.Context, userID uuid.UUID, wallet string) ([]*entity.WalletBalance, error) {
	var rows []model.WalletBalance
	err := r.db.WithContext(ctx).
		Preload("Token").
		Where("user_id = ? AND wallet_address = ?", userID, strings.ToLower(wallet)).
		Order("balance_usd DESC").
		Find(&rows).Error
	if err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrTokenNotFound)
	}

	out := make([]*entity.WalletBalance, 0, len(rows))
	for _, m := range rows {
		b := &entity.WalletBalance{
			ID:            m.ID,
			UserID:        m.UserID,
			TokenID:       m.TokenID,
			WalletAddress: m.WalletAddress,
			Balance:       m.Balance,
			BalanceUSD:    m.BalanceUSD,
			LastUpdated:   m.LastUpdated,
		}
		if m.Token != nil {
			b.Token = toTokenEntity(m.Token)
		}
		out = append(out, b)
	}
	return out, nil
}

// InteractionRepository stores submitted on-chain transactions
type InteractionRepository struct {
	db              *gorm.DB
	errorClassifier *ErrorClassifier
}

// NewInteractionRepository creates a new InteractionRepository instance
func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db, errorClassifier: NewErrorClassifier()}
}

// Create saves an interaction
func (r *InteractionRepository) Create(ctx context.Context, i *entity.SmartContractInteraction) error {
	m := model.SmartContractInteraction{
		ID:              i.ID,
		UserID:          i.UserID,
		ChainID:         i.ChainID,
		TxHash:          i.TxHash,
		FromAddress:     i.FromAddress,
		ToAddress:       i.ToAddress,
		InteractionType: string(i.InteractionType),
		Value:           i.Value,
		GasLimit:        i.GasLimit,
		GasPrice:        i.GasPrice,
		GasUsed:         i.GasUsed,
		Status:          string(i.Status),
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
	return r.errorClassifier.Map(r.db.WithContext(ctx).Create(&m).Error, errs.ErrNotFound)
}

// ListByUser returns one page of a user's interactions, newest first, and the total
func (r *InteractionRepository) ListByUser(ctx context.Context, userID uuid.UUID, page entity.Page) ([]*entity.SmartContractInteraction, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.SmartContractInteraction{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.errorClassifier.Map(err, errs.ErrNotFound)
	}

	var rows []model.SmartContractInteraction
	if err := query.Order("created_at DESC").Scopes(pageScope(page.Limit, page.Offset)).Find(&rows).Error; err != nil {
		return nil, 0, r.errorClassifier.Map(err, errs.ErrNotFound)
	}

	out := make([]*entity.SmartContractInteraction, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entity.SmartContractInteraction{
			ID:              m.ID,
			UserID:          m.UserID,
			ChainID:         m.ChainID,
			TxHash:          m.TxHash,
			FromAddress:     m.FromAddress,
			ToAddress:       m.ToAddress,
			InteractionType: entity.InteractionType(m.InteractionType),
			Value:           m.Value,
			GasLimit:        m.GasLimit,
			GasPrice:        m.GasPrice,
			GasUsed:         m.GasUsed,
			Status:          entity.InteractionStatus(m.Status),
			CreatedAt:       m.CreatedAt,
			UpdatedAt:       m.UpdatedAt,
		})
	}
	return out, total, nil
}

// PositionRepository stores DeFi positions
type PositionRepository struct {
	db              *gorm.DB
	errorClassifier *ErrorClassifier
}

// NewPositionRepository creates a new PositionRepository instance
func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db, errorClassifier: NewErrorClassifier()}
}

func toPositionModel(p *entity.DeFiPosition) model.DeFiPosition {
	return model.DeFiPosition{
		ID:           p.ID,
		UserID:       p.UserID,
		Protocol:     p.Protocol,
		PositionType: string(p.PositionType),
		TokenInID:    p.TokenInID,
		TokenOutID:   p.TokenOutID,
		AmountIn:     p.AmountIn,
		CurrentValue: p.CurrentValue,
		APY:          p.APY,
		ChainID:      p.ChainID,
		IsActive:     p.IsActive,
		OpenedAt:     p.OpenedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toPositionEntity(m *model.DeFiPosition) *entity.DeFiPosition {
	p := &entity.DeFiPosition{
		ID:           m.ID,
		UserID:       m.UserID,
		Protocol:     m.Protocol,
		PositionType: entity.PositionType(m.PositionType),
		TokenInID:    m.TokenInID,
		TokenOutID:   m.TokenOutID,
		AmountIn:     m.AmountIn,
		CurrentValue: m.CurrentValue,
		APY:          m.APY,
		ChainID:      m.ChainID,
		IsActive:     m.IsActive,
		OpenedAt:     m.OpenedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.TokenIn != nil {
		p.TokenIn = toTokenEntity(m.TokenIn)
	}
	return p
}

// FindActiveForUpdate locks the active position of (user, protocol, token in)
func (r *PositionRepository) FindActiveForUpdate(ctx context.Context, userID uuid.UUID, protocol string, tokenInID uuid.UUID) (*entity.DeFiPosition, error) {
	var m model.DeFiPosition
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(protocol) = ? AND token_in_id = ? AND is_active = ?",
			userID, strings.ToLower(protocol), tokenInID, true).
		Clauses(forUpdate).
		First(&m).Error
	if err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrNotFound)
	}
	return toPositionEntity(&m), nil
}

func (r *PositionRepository) Create(ctx context.Context, position *entity.DeFiPosition) error {
	m := toPositionModel(position)
	return r.errorClassifier.Map(r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error, errs.ErrNotFound)
}

func (r *PositionRepository) Update(ctx context.Context, position *entity.DeFiPosition) error {
	result := r.db.WithContext(ctx).Model(&model.DeFiPosition{}).
		Where("id = ?", position.ID).
		Updates(map[string]any{
			"amount_in":     position.AmountIn,
			"current_value": position.CurrentValue,
			"apy":           position.APY,
			"is_active":     position.IsActive,
			"updated_at":    position.UpdatedAt,
		})
	if result.Error != nil {
		return r.errorClassifier.Map(result.Error, errs.ErrNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListByUser returns a user's positions with their tokens loaded, newest first
func (r *PositionRepository) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*entity.DeFiPosition, error) {
	query := r.db.WithContext(ctx).Preload("TokenIn").Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var rows []model.DeFiPosition
	if err := query.Order("opened_at DESC").Find(&rows).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrNotFound)
	}
	out := make([]*entity.DeFiPosition, 0, len(rows))
	for i := range rows {
		out = append(out, toPositionEntity(&rows[i]))
	}
	return out, nil
}
