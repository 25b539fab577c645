package dto

import (
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
)

type NetworkResponse struct {
	ChainID        int64  `json:"chain_id"`
	Name           string `json:"name"`
	NativeCurrency string `json:"native_currency"`
	ExplorerURL    string `json:"explorer_url,omitempty"`
	IsTestnet      bool   `json:"is_testnet"`
}

func NewNetworkResponse(n *entity.SupportedNetwork) NetworkResponse {
	return NetworkResponse{
		ChainID:        n.ChainID,
		Name:           n.Name,
		NativeCurrency: n.NativeCurrency,
		ExplorerURL:    n.ExplorerURL,
		IsTestnet:      n.IsTestnet,
	}
}

type TokenContractResponse struct {
	ChainID         int64  `json:"chain_id"`
	ContractAddress string `json:"contract_address"`
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	Decimals        int    `json:"decimals"`
	TokenType       string `json:"token_type"`
}

func newTokenContractResponse(t *entity.TokenContract) *TokenContractResponse {
	if t == nil {
		return nil
	}
	return &TokenContractResponse{
		ChainID:         t.ChainID,
		ContractAddress: t.ContractAddress,
		Symbol:          t.Symbol,
		Name:            t.Name,
		Decimals:        t.Decimals,
		TokenType:       string(t.TokenType),
	}
}

// WalletBalanceResponse is a claimed balance snapshot
type WalletBalanceResponse struct {
	WalletAddress string         `json:"wallet_address"`
	Token         *TokenContractResponse `json:"token,omitempty"`
	Balance       string         `json:"balance"`
	BalanceUSD    string         `json:"balance_usd"`
	LastUpdated   string         `json:"last_updated"`
}

func NewWalletBalanceResponse(b *entity.WalletBalance) WalletBalanceResponse {
	return WalletBalanceResponse{
		WalletAddress: b.WalletAddress,
		Token:         newTokenContractResponse(b.Token),
		Balance:       b.Balance.StringFixed(entity.TokenScale),
		BalanceUSD:    entity.FormatMoney(b.BalanceUSD),
		LastUpdated:   b.LastUpdated.UTC().Format(time.RFC3339),
	}
}

type SendChainTransactionRequest struct {
	ChainID      int64  `json:"chain_id"`
	ToAddress    string `json:"to_address"`
	Value        string `json:"value"`
	TokenAddress string `json:"token_address"`
}

func (r SendChainTransactionRequest) Command() usecase.SendChainTransactionCommand {
	return usecase.SendChainTransactionCommand{
		ChainID:      r.ChainID,
		ToAddress:    r.ToAddress,
		Value:        r.Value,
		TokenAddress: r.TokenAddress,
	}
}

type InteractionResponse struct {
	ID              string `json:"id"`
	ChainID         int64  `json:"chain_id"`
	TxHash          string `json:"tx_hash"`
	FromAddress     string `json:"from_address"`
	ToAddress       string `json:"to_address"`
	InteractionType string `json:"interaction_type"`
	Value           string `json:"value"`
	GasLimit        int64  `json:"gas_limit"`
	GasPrice        string `json:"gas_price"`
	GasUsed         *int64 `json:"gas_used,omitempty"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

func NewInteractionResponse(i *entity.SmartContractInteraction) InteractionResponse {
	return InteractionResponse{
		ID:              i.ID.String(),
		ChainID:         i.ChainID,
		TxHash:          i.TxHash,
		FromAddress:     i.FromAddress,
		ToAddress:       i.ToAddress,
		InteractionType: string(i.InteractionType),
		Value:           i.Value.String(),
		GasLimit:        i.GasLimit,
		GasPrice:        i.GasPrice.String(),
		GasUsed:         i.GasUsed,
		Status:          string(i.Status),
		CreatedAt:       i.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type GasPriceResponse struct {
	ChainID  int64  `json:"chain_id"`
	Network  string `json:"network"`
	Slow     string `json:"slow_gwei"`
	Standard string `json:"standard_gwei"`
	Fast     string `json:"fast_gwei"`
}

func NewGasPriceResponse(g core.GasPrice) GasPriceResponse {
	return GasPriceResponse{
		ChainID:  g.ChainID,
		Network:  g.Network,
		Slow:     g.Slow.String(),
		Standard: g.Standard.String(),
		Fast:     g.Fast.String(),
	}
}

type ProtocolResponse struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Category string  `json:"category"`
	ChainIDs []int64 `json:"chain_ids"`
	TVL      string  `json:"tvl"`
	APY      string  `json:"apy"`
}

func NewProtocolResponse(p core.Protocol) ProtocolResponse {
	return ProtocolResponse{
		Name:     p.Name,
		Slug:     p.Slug,
		Category: p.Category,
		ChainIDs: p.ChainIDs,
		TVL:      p.TVL.String(),
		APY:      p.APY.String(),
	}
}

type StakeRequest struct {
	Protocol string `json:"protocol"`
	Token    string `json:"token"`
	Amount   string `json:"amount"`
	ChainID  int64  `json:"chain_id"`
}

func (r StakeRequest) Command() usecase.StakeCommand {
	return usecase.StakeCommand{Protocol: r.Protocol, Token: r.Token, Amount: r.Amount, ChainID: r.ChainID}
}

type PositionResponse struct {
	ID           string         `json:"id"`
	Protocol     string         `json:"protocol"`
	PositionType string         `json:"position_type"`
	ChainID      int64          `json:"chain_id"`
	TokenIn      *TokenContractResponse `json:"token_in,omitempty"`
	AmountIn     string         `json:"amount_in"`
	CurrentValue string         `json:"current_value"`
	ProfitLoss   string         `json:"profit_loss"`
	APY          string         `json:"apy"`
	IsActive     bool           `json:"is_active"`
	OpenedAt     string         `json:"opened_at"`
}

func NewPositionResponse(p *entity.DeFiPosition) PositionResponse {
	return PositionResponse{
		ID:           p.ID.String(),
		Protocol:     p.Protocol,
		PositionType: string(p.PositionType),
		ChainID:      p.ChainID,
		TokenIn:      newTokenContractResponse(p.TokenIn),
		AmountIn:     p.AmountIn.String(),
		CurrentValue: p.CurrentValue.String(),
		ProfitLoss:   p.ProfitLoss().String(),
		APY:          p.APY.String(),
		IsActive:     p.IsActive,
		OpenedAt:     p.OpenedAt.UTC().Format(time.RFC3339),
	}
}
