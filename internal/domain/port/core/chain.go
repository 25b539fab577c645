package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// GasPrice holds the fee tiers for one network, in gwei
type GasPrice struct {
	ChainID  int64           `json:"chain_id"`
	Network  string          `json:"network"`
	Slow     decimal.Decimal `json:"slow"`
	Standard decimal.Decimal `json:"standard"`
	Fast     decimal.Decimal `json:"fast"`
}

// Protocol describes a DeFi protocol available for positions
type Protocol struct {
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Category string          `json:"category"`
	ChainIDs []int64         `json:"chain_ids"`
	TVL      decimal.Decimal `json:"tvl"`
	APY      decimal.Decimal `json:"apy"`
}

// OutgoingChainTx is a transfer handed to the chain
type OutgoingChainTx struct {
	ChainID      int64
	From         string
	To           string
	Value        decimal.Decimal
	TokenAddress string
}

// ChainOracle supplies external chain state. Nothing it returns is verified;
// callers store it as a claimed snapshot.
type ChainOracle interface {
	TokenBalance(ctx context.Context, chainID int64, tokenAddress, wallet string) (decimal.Decimal, error)
	PriceUSD(ctx context.Context, symbol string) (decimal.Decimal, error)
	GasPrice(ctx context.Context, chainID int64) (GasPrice, error)
	SendTransaction(ctx context.Context, tx OutgoingChainTx) (string, error)
	Protocols(ctx context.Context) ([]Protocol, error)
}
