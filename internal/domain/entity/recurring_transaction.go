package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring template runs
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// IsValid reports whether the frequency is one of the known values
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// Advance returns t plus one period. Day based frequencies add fixed days,
// month based ones use calendar months.
func (f Frequency) Advance(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return t.AddDate(0, 0, 14)
	case FrequencyMonthly:
		return AddMonths(t, 1)
	case FrequencyQuarterly:
		return AddMonths(t, 3)
	case FrequencyYearly:
		return AddMonths(t, 12)
	}
	return t
}

// RecurringTransaction is a template that spawns pending transactions
type RecurringTransaction struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	FromAccountID     *uuid.UUID
	ToAccountID       *uuid.UUID
	Amount            decimal.Decimal
	Currency          Currency
	TransactionType   TransactionType
	Description       string
	CategoryID        *uuid.UUID
	Frequency         Frequency
	StartDate         time.Time
	EndDate           *time.Time
	NextExecution     time.Time
	LastExecuted      *time.Time
	ExecutionCount    int
	MaxExecutions     *int
	IsActive          bool
	LastTransactionID *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewRecurringParams holds the definition of a recurring template
type NewRecurringParams struct {
	UserID          uuid.UUID
	FromAccountID   *uuid.UUID
	ToAccountID     *uuid.UUID
	Amount          decimal.Decimal
	Currency        Currency
	TransactionType TransactionType
	Description     string
	CategoryID      *uuid.UUID
	Frequency       Frequency
	StartDate       time.Time
	EndDate         *time.Time
	MaxExecutions   *int
}

// NewRecurringTransaction creates an active template whose first run is StartDate
func NewRecurringTransaction(p NewRecurringParams, now time.Time) (*RecurringTransaction, error) {
	fields := map[string]string{}
	if p.FromAccountID == nil && p.ToAccountID == nil {
		fields["account"] = "from_account or to_account is required"
	}
	if !p.Amount.IsPositive() {
		fields["amount"] = "must be greater than zero"
	}
	if !p.Currency.IsValid() {
		fields["currency"] = fmt.Sprintf("unsupported currency %q", p.Currency)
	}
	if !p.TransactionType.IsValid() {
		fields["transaction_type"] = fmt.Sprintf("unsupported transaction type %q", p.TransactionType)
	}
	if !p.Frequency.IsValid() {
		fields["frequency"] = fmt.Sprintf("unsupported frequency %q", p.Frequency)
	}
	if p.StartDate.IsZero() {
		fields["start_date"] = "is required"
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		fields["end_date"] = "must not be before start_date"
	}
	if p.MaxExecutions != nil && *p.MaxExecutions <= 0 {
		fields["max_executions"] = "must be positive"
	}
	if len(fields) > 0 {
		return nil, errs.NewFieldsError(fields)
	}

	return &RecurringTransaction{
		ID:              uuid.New(),
		UserID:          p.UserID,
		FromAccountID:   p.FromAccountID,
		ToAccountID:     p.ToAccountID,
		Amount:          RoundMoney(p.Amount),
		Currency:        p.Currency,
		TransactionType: p.TransactionType,
		Description:     strings.TrimSpace(p.Description),
		CategoryID:      p.CategoryID,
		Frequency:       p.Frequency,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		NextExecution:   p.StartDate,
		MaxExecutions:   p.MaxExecutions,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// IsExhausted reports whether the template reached its end date or execution cap
func (r *RecurringTransaction) IsExhausted(now time.Time) bool {
	if r.MaxExecutions != nil && r.ExecutionCount >= *r.MaxExecutions {
		return true
	}
	return r.EndDate != nil && now.After(*r.EndDate)
}

// IsDue reports whether the template should run at now
func (r *RecurringTransaction) IsDue(now time.Time) bool {
	return r.IsActive && !r.IsExhausted(now) && !r.NextExecution.After(now)
}

// Toggle flips the active flag
func (r *RecurringTransaction) Toggle(now time.Time) {
	r.IsActive = !r.IsActive
	r.UpdatedAt = now
}

// TransactionParams returns the parameters of the transaction spawned by one run
func (r *RecurringTransaction) TransactionParams() NewTransactionParams {
	return NewTransactionParams{
		FromAccountID:   r.FromAccountID,
		ToAccountID:     r.ToAccountID,
		Amount:          r.Amount,
		Currency:        r.Currency,
		TransactionType: r.TransactionType,
		Description:     r.Description,
		CategoryID:      r.CategoryID,
		InitiatedBy:     r.UserID,
	}
}

// RecordExecution stamps a run that produced transactionID and schedules the next one
// relative to the run time. A template that becomes exhausted is deactivated.
func (r *RecurringTransaction) RecordExecution(transactionID uuid.UUID, executedAt time.Time) error {
	if !r.IsActive || r.IsExhausted(executedAt) {
		return errs.ErrRecurringInactive
	}

	r.LastExecuted = &executedAt
	r.ExecutionCount++
	r.LastTransactionID = &transactionID
	r.NextExecution = r.Frequency.Advance(executedAt)
	r.UpdatedAt = executedAt

	if r.IsExhausted(r.NextExecution) {
		r.IsActive = false
	}
	return nil
}
