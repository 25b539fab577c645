package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupportedNetwork is a chain the platform knows about
type SupportedNetwork struct {
	ChainID        int64  `gorm:"primaryKey;autoIncrement:false"`
	Name           string `gorm:"size:100;not null"`
	NativeCurrency string `gorm:"size:10;not null"`
	RPCURL         string `gorm:"column:rpc_url;type:text"`
	ExplorerURL    string `gorm:"type:text"`
	IsTestnet      bool   `gorm:"not null"`
	IsActive       bool   `gorm:"not null"`
}

// TableName specifies the table name for SupportedNetwork
func (SupportedNetwork) TableName() string {
	return "supported_networks"
}

// TokenContract is a token on one chain, unique per (chain, address)
type TokenContract struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChainID         int64     `gorm:"not null;uniqueIndex:idx_tokens_chain_address,priority:1"`
	ContractAddress string    `gorm:"size:42;not null;uniqueIndex:idx_tokens_chain_address,priority:2"`
	Symbol          string    `gorm:"size:20;not null"`
	Name            string    `gorm:"size:100;not null"`
	Decimals        int       `gorm:"not null"`
	TokenType       string    `gorm:"size:10;not null"`
	IsActive        bool      `gorm:"not null"`

	Network SupportedNetwork `gorm:"foreignKey:ChainID;references:ChainID"`
}

// TableName specifies the table name for TokenContract
func (TokenContract) TableName() string {
	return "token_contracts"
}

// WalletBalance is the last claimed balance of a token in a wallet
type WalletBalance struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_wallet_balances_key,priority:1"`
	TokenID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_wallet_balances_key,priority:2"`
	WalletAddress string          `gorm:"size:42;not null;uniqueIndex:idx_wallet_balances_key,priority:3"`
	Balance       decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	BalanceUSD    decimal.Decimal `gorm:"column:balance_usd;type:numeric(20,8);not null"`
	LastUpdated   time.Time       `gorm:"not null"`

	Token *TokenContract `gorm:"foreignKey:TokenID;references:ID"`
}

// TableName specifies the table name for WalletBalance
func (WalletBalance) TableName() string {
	return "wallet_balances"
}

// SmartContractInteraction is a transaction submitted to a chain
type SmartContractInteraction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChainID         int64           `gorm:"not null"`
	TxHash          string          `gorm:"size:66;not null;uniqueIndex"`
	FromAddress     string          `gorm:"size:42;not null"`
	ToAddress       string          `gorm:"size:42;not null"`
	InteractionType string          `gorm:"size:20;not null"`
	Value           decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	GasLimit        int64           `gorm:"not null"`
	GasPrice        decimal.Decimal `gorm:"type:numeric(20,9);not null"`
	GasUsed         *int64
	Status          string    `gorm:"size:20;not null"`
	CreatedAt       time.Time `gorm:"not null;index"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName specifies the table name for SmartContractInteraction
func (SmartContractInteraction) TableName() string {
	return "smart_contract_interactions"
}

// DeFiPosition is a position a user holds in a DeFi protocol
type DeFiPosition struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Protocol     string          `gorm:"size:100;not null"`
	PositionType string          `gorm:"size:20;not null"`
	TokenInID    uuid.UUID       `gorm:"type:uuid;not null"`
	TokenOutID   *uuid.UUID      `gorm:"type:uuid"`
	AmountIn     decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	CurrentValue decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	APY          decimal.Decimal `gorm:"column:apy;type:numeric(10,4);not null"`
	ChainID      int64           `gorm:"not null"`
	IsActive     bool            `gorm:"not null"`
	OpenedAt     time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`

	TokenIn *TokenContract `gorm:"foreignKey:TokenInID;references:ID"`
}

// TableName specifies the table name for DeFiPosition
func (DeFiPosition) TableName() string {
	return "defi_positions"
}
