package dto

import (
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
)

type CreateRecurringRequest struct {
	FromAccountID   *uuid.UUID `json:"from_account_id"`
	ToAccountID     *uuid.UUID `json:"to_account_id"`
	Amount          string     `json:"amount"`
	Currency        string     `json:"currency"`
	TransactionType string     `json:"transaction_type"`
	Description     string     `json:"description"`
	CategoryID      *uuid.UUID `json:"category_id"`
	Frequency       string     `json:"frequency"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	MaxExecutions   *int       `json:"max_executions"`
}

func (r CreateRecurringRequest) Command() usecase.CreateRecurringCommand {
	return usecase.CreateRecurringCommand{
		FromAccountID:   r.FromAccountID,
		ToAccountID:     r.ToAccountID,
		Amount:          r.Amount,
		Currency:        r.Currency,
		TransactionType: r.TransactionType,
		Description:     r.Description,
		CategoryID:      r.CategoryID,
		Frequency:       r.Frequency,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		MaxExecutions:   r.MaxExecutions,
	}
}

type RecurringResponse struct {
	ID                string  `json:"id"`
	FromAccountID     *string `json:"from_account_id,omitempty"`
	ToAccountID       *string `json:"to_account_id,omitempty"`
	Amount            string  `json:"amount"`
	Currency          string  `json:"currency"`
	TransactionType   string  `json:"transaction_type"`
	Description       string  `json:"description,omitempty"`
	Frequency         string  `json:"frequency"`
	StartDate         string  `json:"start_date"`
	EndDate           *string `json:"end_date,omitempty"`
	NextExecution     string  `json:"next_execution"`
	LastExecuted      *string `json:"last_executed,omitempty"`
	ExecutionCount    int     `json:"execution_count"`
	MaxExecutions     *int    `json:"max_executions,omitempty"`
	IsActive          bool    `json:"is_active"`
	LastTransactionID *string `json:"last_transaction_id,omitempty"`
}

func NewRecurringResponse(r *entity.RecurringTransaction) RecurringResponse {
	return RecurringResponse{
		ID:                r.ID.String(),
		FromAccountID:     optionalID(r.FromAccountID),
		ToAccountID:       optionalID(r.ToAccountID),
		Amount:            entity.FormatMoney(r.Amount),
		Currency:          string(r.Currency),
		TransactionType:   string(r.TransactionType),
		Description:       r.Description,
		Frequency:         string(r.Frequency),
		StartDate:         r.StartDate.UTC().Format(time.RFC3339),
		EndDate:           formatTime(r.EndDate),
		NextExecution:     r.NextExecution.UTC().Format(time.RFC3339),
		LastExecuted:      formatTime(r.LastExecuted),
		ExecutionCount:    r.ExecutionCount,
		MaxExecutions:     r.MaxExecutions,
		IsActive:          r.IsActive,
		LastTransactionID: optionalID(r.LastTransactionID),
	}
}

type RecurringExecutionResponse struct {
	Recurring   RecurringResponse   `json:"recurring_transaction"`
	Transaction TransactionResponse `json:"transaction"`
}

func NewRecurringExecutionResponse(e *usecase.RecurringExecution) RecurringExecutionResponse {
	return RecurringExecutionResponse{
		Recurring:   NewRecurringResponse(e.Recurring),
		Transaction: NewTransactionResponse(e.Transaction),
	}
}
