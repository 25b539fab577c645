package dto

import (
	"fmt"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
)

type IssueCardRequest struct {
	AccountID uuid.UUID `json:"account_id"`
	CardType  string    `json:"card_type"`
	Nickname  string    `json:"nickname"`
}

func (r IssueCardRequest) Command() usecase.IssueCardCommand {
	return usecase.IssueCardCommand{AccountID: r.AccountID, CardType: r.CardType, Nickname: r.Nickname}
}

type VirtualCardRequest struct {
	AccountID     *uuid.UUID `json:"account_id"`
	CardType      string     `json:"card_type"`
	Nickname      string     `json:"nickname"`
	SpendingLimit string     `json:"spending_limit"`
	MerchantName  string     `json:"merchant_name"`
	MaxUsageCount *int       `json:"max_usage_count"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

func (r VirtualCardRequest) Command() usecase.CreateVirtualCardCommand {
	cardType := r.CardType
	if cardType == "" {
		cardType = string(entity.CardVirtual)
	}
	return usecase.CreateVirtualCardCommand{
		AccountID:     r.AccountID,
		CardType:      cardType,
		Nickname:      r.Nickname,
		SpendingLimit: r.SpendingLimit,
		MerchantName:  r.MerchantName,
		MaxUsageCount: r.MaxUsageCount,
		ExpiresAt:     r.ExpiresAt,
	}
}

type CardStatusRequest struct {
	Status string `json:"status"`
}

type CardLimitRequest struct {
	SpendingLimit string `json:"spending_limit"`
}

type ChargeRequest struct {
	Amount           string     `json:"amount"`
	MerchantName     string     `json:"merchant_name"`
	MerchantCategory string     `json:"merchant_category"`
	MerchantLocation string     `json:"merchant_location"`
	Online           bool       `json:"online"`
	International    bool       `json:"international"`
	CategoryID       *uuid.UUID `json:"category_id"`
}

func (r ChargeRequest) Command() usecase.ChargeCardCommand {
	return usecase.ChargeCardCommand{
		Amount:           r.Amount,
		MerchantName:     r.MerchantName,
		MerchantCategory: r.MerchantCategory,
		MerchantLocation: r.MerchantLocation,
		Online:           r.Online,
		International:    r.International,
		CategoryID:       r.CategoryID,
	}
}

// CardResponse shows the masked number only; the CVV never leaves the server
type CardResponse struct {
	ID                   string  `json:"id"`
	AccountID            string  `json:"account_id"`
	MaskedNumber         string  `json:"masked_number"`
	Expiry               string  `json:"expiry"`
	CardType             string  `json:"card_type"`
	Status               string  `json:"status"`
	Nickname             string  `json:"nickname,omitempty"`
	SpendingLimit        string  `json:"spending_limit,omitempty"`
	SpentAmount          string  `json:"spent_amount"`
	RemainingSpend       string  `json:"remaining_spend,omitempty"`
	MerchantName         string  `json:"merchant_name,omitempty"`
	UsageCount           int     `json:"usage_count"`
	MaxUsageCount        *int    `json:"max_usage_count,omitempty"`
	ContactlessEnabled   bool    `json:"contactless_enabled"`
	OnlineEnabled        bool    `json:"online_enabled"`
	InternationalEnabled bool    `json:"international_enabled"`
	LastUsedAt           *string `json:"last_used_at,omitempty"`
	ExpiresAt            string  `json:"expires_at"`
	CreatedAt            string  `json:"created_at"`
}

func NewCardResponse(c *entity.Card) CardResponse {
	return CardResponse{
		ID:                   c.ID.String(),
		AccountID:            c.AccountID.String(),
		MaskedNumber:         c.MaskedNumber(),
		Expiry:               fmt.Sprintf("%02d/%02d", c.ExpiryMonth, c.ExpiryYear%100),
		CardType:             string(c.CardType),
		Status:               string(c.Status),
		Nickname:             c.Nickname,
		SpendingLimit:        entity.FormatOptionalMoney(c.SpendingLimit),
		SpentAmount:          entity.FormatMoney(c.SpentAmount),
		RemainingSpend:       entity.FormatOptionalMoney(c.RemainingSpend()),
		MerchantName:         c.MerchantName,
		UsageCount:           c.UsageCount,
		MaxUsageCount:        c.MaxUsageCount,
		ContactlessEnabled:   c.ContactlessEnabled,
		OnlineEnabled:        c.OnlineEnabled,
		InternationalEnabled: c.InternationalEnabled,
		LastUsedAt:           formatTime(c.LastUsedAt),
		ExpiresAt:            c.ExpiresAt.UTC().Format(time.RFC3339),
		CreatedAt:            c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type CardTransactionResponse struct {
	ID                string `json:"id"`
	TransactionID     string `json:"transaction_id"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	MerchantName      string `json:"merchant_name"`
	MerchantCategory  string `json:"merchant_category,omitempty"`
	MerchantLocation  string `json:"merchant_location,omitempty"`
	AuthorizationCode string `json:"authorization_code"`
	ProcessorResponse string `json:"processor_response"`
	CreatedAt         string `json:"created_at"`
}

func NewCardTransactionResponse(t *entity.CardTransaction) CardTransactionResponse {
	return CardTransactionResponse{
		ID:                t.ID.String(),
		TransactionID:     t.TransactionID.String(),
		Amount:            entity.FormatMoney(t.Amount),
		Currency:          string(t.Currency),
		MerchantName:      t.MerchantName,
		MerchantCategory:  t.MerchantCategory,
		MerchantLocation:  t.MerchantLocation,
		AuthorizationCode: t.AuthorizationCode,
		ProcessorResponse: t.ProcessorResponse,
		CreatedAt:         t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type ChargeResponse struct {
	Card            CardResponse            `json:"card"`
	Transaction     TransactionResponse     `json:"transaction"`
	CardTransaction CardTransactionResponse `json:"card_transaction"`
}

func NewChargeResponse(c *usecase.CardCharge) ChargeResponse {
	return ChargeResponse{
		Card:            NewCardResponse(c.Card),
		Transaction:     NewTransactionResponse(c.Transaction),
		CardTransaction: NewCardTransactionResponse(c.CardTransaction),
	}
}
