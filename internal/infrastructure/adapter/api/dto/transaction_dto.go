package dto

import (
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
)

// CreateTransactionRequest is the body of POST /transactions
type CreateTransactionRequest struct {
	FromAccountID   *uuid.UUID `json:"from_account_id"`
	ToAccountID     *uuid.UUID `json:"to_account_id"`
	Amount          string     `json:"amount"`
	Currency        string     `json:"currency"`
	TransactionType string     `json:"transaction_type"`
	Description     string     `json:"description"`
	CategoryID      *uuid.UUID `json:"category_id"`
	MerchantName    string     `json:"merchant_name"`
}

func (r CreateTransactionRequest) Command() usecase.CreateTransactionCommand {
	return usecase.CreateTransactionCommand{
		FromAccountID:   r.FromAccountID,
		ToAccountID:     r.ToAccountID,
		Amount:          r.Amount,
		Currency:        r.Currency,
		TransactionType: r.TransactionType,
		Description:     r.Description,
		CategoryID:      r.CategoryID,
		MerchantName:    r.MerchantName,
	}
}

// TransactionResponse represents a ledger entry
type TransactionResponse struct {
	ID              string  `json:"id"`
	ReferenceNumber string  `json:"reference_number"`
	FromAccountID   *string `json:"from_account_id,omitempty"`
	ToAccountID     *string `json:"to_account_id,omitempty"`
	Amount          string  `json:"amount"`
	FeeAmount       string  `json:"fee_amount"`
	NetAmount       string  `json:"net_amount"`
	Currency        string  `json:"currency"`
	TransactionType string  `json:"transaction_type"`
	Status          string  `json:"status"`
	Description     string  `json:"description,omitempty"`
	CategoryID      *string `json:"category_id,omitempty"`
	MerchantName    string  `json:"merchant_name,omitempty"`
	FailureReason   string  `json:"failure_reason,omitempty"`
	ProcessedAt     *string `json:"processed_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID.String(),
		ReferenceNumber: t.ReferenceNumber,
		FromAccountID:   optionalID(t.FromAccountID),
		ToAccountID:     optionalID(t.ToAccountID),
		Amount:          entity.FormatMoney(t.Amount),
		FeeAmount:       entity.FormatMoney(t.FeeAmount),
		NetAmount:       entity.FormatMoney(t.NetAmount),
		Currency:        string(t.Currency),
		TransactionType: string(t.TransactionType),
		Status:          string(t.Status),
		Description:     t.Description,
		CategoryID:      optionalID(t.CategoryID),
		MerchantName:    t.MerchantName,
		FailureReason:   t.FailureReason,
		ProcessedAt:     formatTime(t.ProcessedAt),
		CreatedAt:       t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type DisputeRequest struct {
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

func (r DisputeRequest) Command() usecase.DisputeCommand {
	return usecase.DisputeCommand{Reason: r.Reason, Description: r.Description}
}

type DisputeResponse struct {
	ID            string `json:"id"`
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

func NewDisputeResponse(d *entity.TransactionDispute) DisputeResponse {
	return DisputeResponse{
		ID:            d.ID.String(),
		TransactionID: d.TransactionID.String(),
		Reason:        string(d.Reason),
		Description:   d.Description,
		Status:        string(d.Status),
		CreatedAt:     d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type CategoryRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Color       string     `json:"color"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

func (r CategoryRequest) Command() usecase.CreateCategoryCommand {
	return usecase.CreateCategoryCommand{
		Name:        r.Name,
		Description: r.Description,
		Icon:        r.Icon,
		Color:       r.Color,
		ParentID:    r.ParentID,
	}
}

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Color       string  `json:"color"`
	ParentID    *string `json:"parent_id,omitempty"`
	IsActive    bool    `json:"is_active"`
}

func NewCategoryResponse(c *entity.TransactionCategory) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		ParentID:    optionalID(c.ParentID),
		IsActive:    c.IsActive,
	}
}

type AnalyticsResponse struct {
	Days          int            `json:"days"`
	TotalSent     string         `json:"total_sent"`
	TotalReceived string         `json:"total_received"`
	Count         int            `json:"transaction_count"`
	ByType        map[string]int `json:"by_type"`
	ByStatus      map[string]int `json:"by_status"`
}

func NewAnalyticsResponse(a *usecase.TransactionAnalytics) AnalyticsResponse {
	byType := make(map[string]int, len(a.ByType))
	for k, v := range a.ByType {
		byType[string(k)] = v
	}
	byStatus := make(map[string]int, len(a.ByStatus))
	for k, v := range a.ByStatus {
		byStatus[string(k)] = v
	}
	return AnalyticsResponse{
		Days:          a.Days,
		TotalSent:     entity.FormatMoney(a.TotalSent),
		TotalReceived: entity.FormatMoney(a.TotalReceived),
		Count:         a.Count,
		ByType:        byType,
		ByStatus:      byStatus,
	}
}

type SpendingResponse struct {
	CategoryID   *string `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Total        string  `json:"total"`
	Count        int     `json:"count"`
}

func NewSpendingResponse(s entity.CategorySpending) SpendingResponse {
	return SpendingResponse{
		CategoryID:   optionalID(s.CategoryID),
		CategoryName: s.CategoryName,
		Total:        entity.FormatMoney(s.Total),
		Count:        s.Count,
	}
}
