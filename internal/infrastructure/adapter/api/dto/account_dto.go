package dto

import (
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
)

type CreateAccountRequest struct {
	AccountType string `json:"account_type"`
	Currency    string `json:"currency"`
	ChainID     *int64 `json:"chain_id"`
}

func (r CreateAccountRequest) Command() usecase.CreateAccountCommand {
	return usecase.CreateAccountCommand{AccountType: r.AccountType, Currency: r.Currency, ChainID: r.ChainID}
}

// AccountResponse renders balances with eight fractional digits
type AccountResponse struct {
	ID               string `json:"id"`
	AccountNumber    string `json:"account_number"`
	AccountType      string `json:"account_type"`
	Currency         string `json:"currency"`
	AvailableBalance string `json:"available_balance"`
	LedgerBalance    string `json:"ledger_balance"`
	PendingBalance   string `json:"pending_balance"`
	IsActive         bool   `json:"is_active"`
	IsFrozen         bool   `json:"is_frozen"`
	ChainID          *int64 `json:"chain_id,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

func NewAccountResponse(a *entity.Account) AccountResponse {
	return AccountResponse{
		ID:               a.ID.String(),
		AccountNumber:    a.AccountNumber,
		AccountType:      string(a.AccountType),
		Currency:         string(a.Currency),
		AvailableBalance: entity.FormatMoney(a.AvailableBalance),
		LedgerBalance:    entity.FormatMoney(a.LedgerBalance),
		PendingBalance:   entity.FormatMoney(a.PendingBalance),
		IsActive:         a.IsActive,
		IsFrozen:         a.IsFrozen,
		ChainID:          a.ChainID,
		CreatedAt:        a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type SetAccountLimitRequest struct {
	LimitType   string `json:"limit_type"`
	LimitAmount string `json:"limit_amount"`
	ResetPeriod string `json:"reset_period"`
	IsActive    *bool  `json:"is_active"`
}

func (r SetAccountLimitRequest) Command() usecase.SetAccountLimitCommand {
	return usecase.SetAccountLimitCommand{
		LimitType:   r.LimitType,
		LimitAmount: r.LimitAmount,
		ResetPeriod: r.ResetPeriod,
		IsActive:    r.IsActive,
	}
}

type SetUserLimitRequest struct {
	LimitType       string     `json:"limit_type"`
	LimitValue      string     `json:"limit_value"`
	AccountID       *uuid.UUID `json:"account_id"`
	TransactionType string     `json:"transaction_type"`
	IsActive        *bool      `json:"is_active"`
}

func (r SetUserLimitRequest) Command() usecase.SetUserLimitCommand {
	return usecase.SetUserLimitCommand{
		LimitType:       r.LimitType,
		LimitValue:      r.LimitValue,
		AccountID:       r.AccountID,
		TransactionType: r.TransactionType,
		IsActive:        r.IsActive,
	}
}

type LimitResponse struct {
	ID              string  `json:"id"`
	AccountID       *string `json:"account_id,omitempty"`
	TransactionType string  `json:"transaction_type,omitempty"`
	LimitType       string  `json:"limit_type"`
	LimitAmount     string  `json:"limit_amount"`
	UsedAmount      string  `json:"used_amount"`
	Remaining       string  `json:"remaining"`
	ResetPeriod     string  `json:"reset_period"`
	LastReset       string  `json:"last_reset"`
	IsActive        bool    `json:"is_active"`
}

func counterResponse(id uuid.UUID, limitType string, c *entity.LimitCounter) LimitResponse {
	return LimitResponse{
		ID:          id.String(),
		LimitType:   limitType,
		LimitAmount: entity.FormatMoney(c.LimitAmount),
		UsedAmount:  entity.FormatMoney(c.UsedAmount),
		Remaining:   entity.FormatMoney(c.RemainingLimit()),
		ResetPeriod: string(c.ResetPeriod),
		LastReset:   c.LastReset.UTC().Format(time.RFC3339),
		IsActive:    c.IsActive,
	}
}

func NewAccountLimitResponse(l *entity.AccountLimit) LimitResponse {
	resp := counterResponse(l.ID, string(l.LimitType), &l.LimitCounter)
	id := l.AccountID.String()
	resp.AccountID = &id
	return resp
}

func NewUserLimitResponse(l *entity.TransactionLimit) LimitResponse {
	resp := counterResponse(l.ID, string(l.LimitType), &l.LimitCounter)
	resp.AccountID = optionalID(l.AccountID)
	resp.TransactionType = string(l.TransactionType)
	return resp
}
