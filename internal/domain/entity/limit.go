package entity

import (
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResetPeriod is how often a limit counter starts over
type ResetPeriod string

const (
	ResetNever   ResetPeriod = "never"
	ResetDaily   ResetPeriod = "daily"
	ResetWeekly  ResetPeriod = "weekly"
	ResetMonthly ResetPeriod = "monthly"
)

// IsValid reports whether the period is one of the known values
func (p ResetPeriod) IsValid() bool {
	switch p {
	case ResetNever, ResetDaily, ResetWeekly, ResetMonthly:
		return true
	}
	return false
}

// PeriodStart returns the start of the period containing t
func (p ResetPeriod) PeriodStart(t time.Time) time.Time {
	switch p {
	case ResetDaily:
		return StartOfDay(t)
	case ResetWeekly:
		return StartOfWeek(t)
	case ResetMonthly:
		return StartOfMonth(t)
	default:
		return t
	}
}

// NextReset returns when a counter last reset at lastReset starts over
func (p ResetPeriod) NextReset(lastReset time.Time) time.Time {
	start := p.PeriodStart(lastReset)
	switch p {
	case ResetDaily:
		return start.AddDate(0, 0, 1)
	case ResetWeekly:
		return start.AddDate(0, 0, 7)
	case ResetMonthly:
		return AddMonths(start, 1)
	default:
		return time.Time{}
	}
}

// LimitMeasure says what a limit counts
type LimitMeasure int

const (
	// MeasureAmount accumulates transaction amounts
	MeasureAmount LimitMeasure = iota
	// MeasureCount accumulates one per transaction
	MeasureCount
	// MeasureSingle bounds each transaction without accumulating
	MeasureSingle
)

// LimitSide says which leg of a transaction a limit watches
type LimitSide int

const (
	SideDebit LimitSide = iota
	SideCredit
)

// LimitCounter is the shared used-versus-limit bookkeeping of account and user limits
type LimitCounter struct {
	LimitAmount decimal.Decimal
	UsedAmount  decimal.Decimal
	ResetPeriod ResetPeriod
	LastReset   time.Time
	IsActive    bool
}

// RemainingLimit returns limit minus used
func (c *LimitCounter) RemainingLimit() decimal.Decimal {
	return c.LimitAmount.Sub(c.UsedAmount)
}

// IsLimitExceeded reports whether the counter is used up
func (c *LimitCounter) IsLimitExceeded() bool {
	return c.UsedAmount.GreaterThanOrEqual(c.LimitAmount)
}

// ResetDue reports whether the period of the counter has rolled over at now
func (c *LimitCounter) ResetDue(now time.Time) bool {
	if c.ResetPeriod == ResetNever || c.ResetPeriod == "" {
		return false
	}
	return !now.Before(c.ResetPeriod.NextReset(c.LastReset))
}

// Reset zeroes the counter and anchors it to the current period
func (c *LimitCounter) Reset(now time.Time) {
	c.UsedAmount = decimal.Zero
	c.LastReset = c.ResetPeriod.PeriodStart(now)
}

// ResetIfDue resets an expired counter and reports whether it did
func (c *LimitCounter) ResetIfDue(now time.Time) bool {
	if !c.ResetDue(now) {
		return false
	}
	c.Reset(now)
	return true
}

// consume checks amount against the counter for measure and records it.
// It returns false without changing anything when the limit would be exceeded.
func (c *LimitCounter) consume(measure LimitMeasure, amount decimal.Decimal) bool {
	switch measure {
	case MeasureSingle:
		return amount.LessThanOrEqual(c.LimitAmount)
	case MeasureCount:
		next := c.UsedAmount.Add(decimal.NewFromInt(1))
		if next.GreaterThan(c.LimitAmount) {
			return false
		}
		c.UsedAmount = next
		return true
	default:
		next := c.UsedAmount.Add(amount)
		if next.GreaterThan(c.LimitAmount) {
			return false
		}
		c.UsedAmount = next
		return true
	}
}

func validateCounter(limit decimal.Decimal, period ResetPeriod) error {
	if limit.IsNegative() {
		return errs.NewValidationError("limit_amount", "cannot be negative")
	}
	if !period.IsValid() {
		return errs.NewValidationError("reset_period", fmt.Sprintf("unsupported reset period %q", period))
	}
	return nil
}

// AccountLimitType is the kind of an account level limit
type AccountLimitType string

const (
	LimitDailyWithdraw     AccountLimitType = "daily_withdraw"
	LimitDailyDeposit      AccountLimitType = "daily_deposit"
	LimitMonthlyTransfer   AccountLimitType = "monthly_transfer"
	LimitTransactionCount  AccountLimitType = "transaction_count"
	LimitSingleTransaction AccountLimitType = "single_transaction"
)

// IsValid reports whether the type is one of the known values
func (t AccountLimitType) IsValid() bool {
	switch t {
	case LimitDailyWithdraw, LimitDailyDeposit, LimitMonthlyTransfer, LimitTransactionCount, LimitSingleTransaction:
		return true
	}
	return false
}

// Measure returns what the limit counts
func (t AccountLimitType) Measure() LimitMeasure {
	switch t {
	case LimitTransactionCount:
		return MeasureCount
	case LimitSingleTransaction:
		return MeasureSingle
	default:
		return MeasureAmount
	}
}

// DefaultPeriod returns the reset period implied by the limit type
func (t AccountLimitType) DefaultPeriod() ResetPeriod {
	switch t {
	case LimitDailyWithdraw, LimitDailyDeposit, LimitTransactionCount:
		return ResetDaily
	case LimitMonthlyTransfer:
		return ResetMonthly
	default:
		return ResetNever
	}
}

// AppliesTo reports whether the limit watches a transaction of txType on side
func (t AccountLimitType) AppliesTo(txType TransactionType, side LimitSide) bool {
	switch t {
	case LimitDailyDeposit:
		return side == SideCredit
	case LimitMonthlyTransfer:
		return side == SideDebit && txType == TxTransfer
	case LimitDailyWithdraw:
		return side == SideDebit && txType != TxTransfer
	case LimitTransactionCount, LimitSingleTransaction:
		return side == SideDebit
	}
	return false
}

// AccountLimit bounds the movements of one account
type AccountLimit struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	LimitType AccountLimitType
	LimitCounter
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccountLimit creates an active account limit; an empty period uses the type default
func NewAccountLimit(accountID uuid.UUID, limitType AccountLimitType, limit decimal.Decimal, period ResetPeriod, now time.Time) (*AccountLimit, error) {
	if !limitType.IsValid() {
		return nil, errs.NewValidationError("limit_type", fmt.Sprintf("unsupported limit type %q", limitType))
	}
	if period == "" {
		period = limitType.DefaultPeriod()
	}
	if err := validateCounter(limit, period); err != nil {
		return nil, err
	}
	return &AccountLimit{
		ID:        uuid.New(),
		AccountID: accountID,
		LimitType: limitType,
		LimitCounter: LimitCounter{
			LimitAmount: RoundMoney(limit),
			UsedAmount:  decimal.Zero,
			ResetPeriod: period,
			LastReset:   period.PeriodStart(now),
			IsActive:    true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Enforce checks the transaction against the limit and consumes it.
// It reports whether the counter changed.
func (l *AccountLimit) Enforce(txType TransactionType, side LimitSide, amount decimal.Decimal, now time.Time) (bool, error) {
	if !l.IsActive || !l.LimitType.AppliesTo(txType, side) {
		return false, nil
	}
	reset := l.ResetIfDue(now)
	if !l.consume(l.LimitType.Measure(), amount) {
		return reset, errs.NewLimitExceededError("account", l.AccountID.String(), string(l.LimitType), FormatMoney(l.RemainingLimit()))
	}
	l.UpdatedAt = now
	return true, nil
}

// UserLimitType is the kind of a user level limit
type UserLimitType string

const (
	UserLimitDailyAmount       UserLimitType = "daily_amount"
	UserLimitDailyCount        UserLimitType = "daily_count"
	UserLimitMonthlyAmount     UserLimitType = "monthly_amount"
	UserLimitMonthlyCount      UserLimitType = "monthly_count"
	UserLimitSingleTransaction UserLimitType = "single_transaction"
)

// IsValid reports whether the type is one of the known values
func (t UserLimitType) IsValid() bool {
	switch t {
	case UserLimitDailyAmount, UserLimitDailyCount, UserLimitMonthlyAmount, UserLimitMonthlyCount, UserLimitSingleTransaction:
		return true
	}
	return false
}

// Measure returns what the limit counts
func (t UserLimitType) Measure() LimitMeasure {
	switch t {
	case UserLimitDailyCount, UserLimitMonthlyCount:
		return MeasureCount
	case UserLimitSingleTransaction:
		return MeasureSingle
	default:
		return MeasureAmount
	}
}

// Period returns the reset period implied by the limit type
func (t UserLimitType) Period() ResetPeriod {
	switch t {
	case UserLimitDailyAmount, UserLimitDailyCount:
		return ResetDaily
	case UserLimitMonthlyAmount, UserLimitMonthlyCount:
		return ResetMonthly
	default:
		return ResetNever
	}
}

// TransactionLimit bounds the outgoing transactions of a user, optionally
// narrowed to one account and one transaction type
type TransactionLimit struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	AccountID       *uuid.UUID
	TransactionType TransactionType
	LimitType       UserLimitType
	LimitCounter
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTransactionLimit creates an active user limit
func NewTransactionLimit(userID uuid.UUID, accountID *uuid.UUID, txType TransactionType, limitType UserLimitType, limit decimal.Decimal, now time.Time) (*TransactionLimit, error) {
	if !limitType.IsValid() {
		return nil, errs.NewValidationError("limit_type", fmt.Sprintf("unsupported limit type %q", limitType))
	}
	if txType != "" && !txType.IsValid() {
		return nil, errs.NewValidationError("transaction_type", fmt.Sprintf("unsupported transaction type %q", txType))
	}
	period := limitType.Period()
	if err := validateCounter(limit, period); err != nil {
		return nil, err
	}
	return &TransactionLimit{
		ID:              uuid.New(),
		UserID:          userID,
		AccountID:       accountID,
		TransactionType: txType,
		LimitType:       limitType,
		LimitCounter: LimitCounter{
			LimitAmount: RoundMoney(limit),
			UsedAmount:  decimal.Zero,
			ResetPeriod: period,
			LastReset:   period.PeriodStart(now),
			IsActive:    true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Matches reports whether the limit covers a debit of accountID with txType
func (l *TransactionLimit) Matches(accountID uuid.UUID, txType TransactionType) bool {
	if l.AccountID != nil && *l.AccountID != accountID {
		return false
	}
	return l.TransactionType == "" || l.TransactionType == txType
}

// Enforce checks the debit against the limit and consumes it.
// It reports whether the counter changed.
func (l *TransactionLimit) Enforce(accountID uuid.UUID, txType TransactionType, amount decimal.Decimal, now time.Time) (bool, error) {
	if !l.IsActive || !l.Matches(accountID, txType) {
		return false, nil
	}
	reset := l.ResetIfDue(now)
	if !l.consume(l.LimitType.Measure(), amount) {
		return reset, errs.NewLimitExceededError("user", l.UserID.String(), string(l.LimitType), FormatMoney(l.RemainingLimit()))
	}
	l.UpdatedAt = now
	return true, nil
}
