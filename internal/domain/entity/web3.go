package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NativeTokenAddress is the pseudo contract address of a chain's native coin
const NativeTokenAddress = "0x0000000000000000000000000000000000000000"

// SupportedNetwork is a chain the platform talks to
type SupportedNetwork struct {
	ChainID        int64
	Name           string
	NativeCurrency string
	RPCURL         string
	ExplorerURL    string
	IsTestnet      bool
	IsActive       bool
}

// TokenType is the token standard of a contract
type TokenType string

const (
	TokenNative  TokenType = "native"
	TokenERC20   TokenType = "erc20"
	TokenERC721  TokenType = "erc721"
	TokenERC1155 TokenType = "erc1155"
)

// IsValid reports whether the type is one of the known standards
func (t TokenType) IsValid() bool {
	switch t {
	case TokenNative, TokenERC20, TokenERC721, TokenERC1155:
		return true
	}
	return false
}

// TokenContract is a token known on a network
type TokenContract struct {
	ID              uuid.UUID
	ChainID         int64
	ContractAddress string
	Symbol          string
	Name            string
	Decimals        int
	TokenType       TokenType
	IsActive        bool
}

// WalletBalance is the last claimed balance of one token in one wallet.
// There is one snapshot per (user, token, wallet address).
type WalletBalance struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	TokenID       uuid.UUID
	WalletAddress string
	Balance       decimal.Decimal
	BalanceUSD    decimal.Decimal
	LastUpdated   time.Time
	Token         *TokenContract
}

// NewWalletBalance builds a snapshot; balances keep TokenScale fractional digits
func NewWalletBalance(userID uuid.UUID, token *TokenContract, wallet string, balance, priceUSD decimal.Decimal, now time.Time) *WalletBalance {
	balance = balance.Round(TokenScale)
	return &WalletBalance{
		ID:            uuid.New(),
		UserID:        userID,
		TokenID:       token.ID,
		WalletAddress: strings.ToLower(wallet),
		Balance:       balance,
		BalanceUSD:    RoundMoney(balance.Mul(priceUSD)),
		LastUpdated:   now,
		Token:         token,
	}
}

// InteractionType is what a contract call does
type InteractionType string

const (
	InteractionTransfer InteractionType = "transfer"
	InteractionApprove  InteractionType = "approve"
	InteractionSwap     InteractionType = "swap"
	InteractionStake    InteractionType = "stake"
	InteractionUnstake  InteractionType = "unstake"
	InteractionMint     InteractionType = "mint"
	InteractionBurn     InteractionType = "burn"
	InteractionOther    InteractionType = "other"
)

// InteractionStatus is the confirmation state of an on-chain transaction
type InteractionStatus string

const (
	InteractionPending   InteractionStatus = "pending"
	InteractionConfirmed InteractionStatus = "confirmed"
	InteractionFailed    InteractionStatus = "failed"
)

// SmartContractInteraction records a transaction submitted on behalf of a user
type SmartContractInteraction struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ChainID         int64
	TxHash          string
	FromAddress     string
	ToAddress       string
	InteractionType InteractionType
	Value           decimal.Decimal
	GasLimit        int64
	GasPrice        decimal.Decimal
	GasUsed         *int64
	Status          InteractionStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewContractInteraction records a pending submission
func NewContractInteraction(userID uuid.UUID, chainID int64, txHash, from, to string, kind InteractionType, value, gasPrice decimal.Decimal, gasLimit int64, now time.Time) (*SmartContractInteraction, error) {
	fields := map[string]string{}
	if !IsWalletAddress(from) {
		fields["from_address"] = "must be a 0x prefixed 20 byte hex address"
	}
	if !IsWalletAddress(to) {
		fields["to_address"] = "must be a 0x prefixed 20 byte hex address"
	}
	if value.IsNegative() {
		fields["value"] = "cannot be negative"
	}
	if txHash == "" {
		fields["tx_hash"] = "is required"
	}
	if len(fields) > 0 {
		return nil, errs.NewFieldsError(fields)
	}
	return &SmartContractInteraction{
		ID:              uuid.New(),
		UserID:          userID,
		ChainID:         chainID,
		TxHash:          txHash,
		FromAddress:     strings.ToLower(from),
		ToAddress:       strings.ToLower(to),
		InteractionType: kind,
		Value:           value.Round(TokenScale),
		GasLimit:        gasLimit,
		GasPrice:        gasPrice,
		Status:          InteractionPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// PositionType is the kind of a DeFi position
type PositionType string

const (
	PositionStaking   PositionType = "staking"
	PositionLending   PositionType = "lending"
	PositionBorrowing PositionType = "borrowing"
	PositionLiquidity PositionType = "liquidity"
	PositionFarming   PositionType = "farming"
)

// IsValid reports whether the type is one of the known values
func (t PositionType) IsValid() bool {
	switch t {
	case PositionStaking, PositionLending, PositionBorrowing, PositionLiquidity, PositionFarming:
		return true
	}
	return false
}

// DeFiPosition is funds a user has put into a protocol.
// There is one active position per (user, protocol, token in).
type DeFiPosition struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Protocol     string
	PositionType PositionType
	TokenInID    uuid.UUID
	TokenOutID   *uuid.UUID
	AmountIn     decimal.Decimal
	CurrentValue decimal.Decimal
	APY          decimal.Decimal
	ChainID      int64
	IsActive     bool
	OpenedAt     time.Time
	UpdatedAt    time.Time
	TokenIn      *TokenContract
}

// NewDeFiPosition opens a position valued at its deposit
func NewDeFiPosition(userID uuid.UUID, protocol string, kind PositionType, tokenIn *TokenContract, amount, apy decimal.Decimal, now time.Time) (*DeFiPosition, error) {
	if strings.TrimSpace(protocol) == "" {
		return nil, errs.NewValidationError("protocol", "is required")
	}
	if !kind.IsValid() {
		return nil, errs.NewValidationError("position_type", fmt.Sprintf("unsupported position type %q", kind))
	}
	if !amount.IsPositive() {
		return nil, &errs.ValidationError{Fields: map[string]string{"amount": "must be greater than zero"}, Err: errs.ErrInvalidAmount}
	}
	amount = amount.Round(TokenScale)
	return &DeFiPosition{
		ID:           uuid.New(),
		UserID:       userID,
		Protocol:     strings.TrimSpace(protocol),
		PositionType: kind,
		TokenInID:    tokenIn.ID,
		AmountIn:     amount,
		CurrentValue: amount,
		APY:          apy,
		ChainID:      tokenIn.ChainID,
		IsActive:     true,
		OpenedAt:     now,
		UpdatedAt:    now,
		TokenIn:      tokenIn,
	}, nil
}

// AddStake grows an existing position
func (p *DeFiPosition) AddStake(amount, apy decimal.Decimal, now time.Time) {
	amount = amount.Round(TokenScale)
	p.AmountIn = p.AmountIn.Add(amount)
	p.CurrentValue = p.CurrentValue.Add(amount)
	p.APY = apy
	p.UpdatedAt = now
}

// ProfitLoss returns current value minus the amount put in
func (p *DeFiPosition) ProfitLoss() decimal.Decimal {
	return p.CurrentValue.Sub(p.AmountIn)
}
