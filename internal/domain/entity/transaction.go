package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType describes the business meaning of a money movement
type TransactionType string

// Transaction types
const (
	TxDeposit      TransactionType = "deposit"
	TxWithdrawal   TransactionType = "withdrawal"
	TxTransfer     TransactionType = "transfer"
	TxPayment      TransactionType = "payment"
	TxExchange     TransactionType = "exchange"
	TxFee          TransactionType = "fee"
	TxInterest     TransactionType = "interest"
	TxDividend     TransactionType = "dividend"
	TxLoanPayment  TransactionType = "loan_payment"
	TxCardPayment  TransactionType = "card_payment"
	TxCryptoBuy    TransactionType = "crypto_buy"
	TxCryptoSell   TransactionType = "crypto_sell"
	TxDefiStake    TransactionType = "defi_stake"
	TxDefiUnstake  TransactionType = "defi_unstake"
	TxNFTPurchase  TransactionType = "nft_purchase"
	TxNFTSale      TransactionType = "nft_sale"
)

var transactionTypes = map[TransactionType]bool{
	TxDeposit: true, TxWithdrawal: true, TxTransfer: true, TxPayment: true,
	TxExchange: true, TxFee: true, TxInterest: true, TxDividend: true,
	TxLoanPayment: true, TxCardPayment: true, TxCryptoBuy: true, TxCryptoSell: true,
	TxDefiStake: true, TxDefiUnstake: true, TxNFTPurchase: true, TxNFTSale: true,
}

// IsValid reports whether the type is one of the known values
func (t TransactionType) IsValid() bool {
	return transactionTypes[t]
}

// TransactionStatus defines possible status values for a transaction
type TransactionStatus string

// TransactionStatus constants
const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusCompleted  TransactionStatus = "completed"
	StatusFailed     TransactionStatus = "failed"
	StatusCancelled  TransactionStatus = "cancelled"
	StatusDisputed   TransactionStatus = "disputed"
	StatusRefunded   TransactionStatus = "refunded"
)

var statusTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:    {StatusProcessing, StatusCancelled, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {StatusDisputed, StatusRefunded},
	StatusDisputed:   {StatusCompleted, StatusRefunded},
}

// IsValid reports whether the status is one of the known values
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed,
		StatusCancelled, StatusDisputed, StatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving to next
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transaction is a ledger entry moving money out of FromAccountID and/or into ToAccountID.
// Identity and amounts are immutable; only status and timestamps change after creation.
type Transaction struct {
	ID               uuid.UUID
	ReferenceNumber  string
	FromAccountID    *uuid.UUID
	ToAccountID      *uuid.UUID
	Amount           decimal.Decimal
	Currency         Currency
	FeeAmount        decimal.Decimal
	NetAmount        decimal.Decimal
	ExchangeRate     *decimal.Decimal
	TransactionType  TransactionType
	Status           TransactionStatus
	Description      string
	CategoryID       *uuid.UUID
	MerchantName     string
	BlockchainTxHash string
	ChainID          *int64
	InitiatedBy      uuid.UUID
	FailureReason    string
	ProcessedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewTransactionParams holds the data of a new ledger entry
type NewTransactionParams struct {
	FromAccountID   *uuid.UUID
	ToAccountID     *uuid.UUID
	Amount          decimal.Decimal
	Currency        Currency
	FeeAmount       decimal.Decimal
	TransactionType TransactionType
	Description     string
	CategoryID      *uuid.UUID
	MerchantName    string
	InitiatedBy     uuid.UUID
}

// NewTransaction creates a pending transaction after validating its shape
func NewTransaction(p NewTransactionParams, timeProvider coreport.TimeProvider) (*Transaction, error) {
	if p.FromAccountID == nil && p.ToAccountID == nil {
		return nil, errs.NewValidationError("account", "from_account or to_account is required")
	}
	if p.FromAccountID != nil && p.ToAccountID != nil && *p.FromAccountID == *p.ToAccountID {
		return nil, errs.NewValidationError("to_account", "must differ from from_account")
	}
	if err := ValidatePositive(p.Amount); err != nil {
		return nil, &errs.ValidationError{Fields: map[string]string{"amount": "must be greater than zero"}, Err: err}
	}
	if -p.Amount.Exponent() > MoneyScale {
		return nil, &errs.ValidationError{
			Fields: map[string]string{"amount": fmt.Sprintf("at most %d decimal places", MoneyScale)},
			Err:    errs.ErrInvalidAmount,
		}
	}
	if !p.Currency.IsValid() {
		return nil, errs.NewValidationError("currency", fmt.Sprintf("unsupported currency %q", p.Currency))
	}
	if !p.TransactionType.IsValid() {
		return nil, errs.NewValidationError("transaction_type", fmt.Sprintf("unsupported transaction type %q", p.TransactionType))
	}
	if p.FeeAmount.IsNegative() || p.FeeAmount.GreaterThan(p.Amount) {
		return nil, errs.NewValidationError("fee_amount", "must be between zero and the amount")
	}

	now := timeProvider.Now()
	return &Transaction{
		ID:              uuid.New(),
		FromAccountID:   p.FromAccountID,
		ToAccountID:     p.ToAccountID,
		Amount:          RoundMoney(p.Amount),
		Currency:        p.Currency,
		FeeAmount:       RoundMoney(p.FeeAmount),
		NetAmount:       RoundMoney(p.Amount.Sub(p.FeeAmount)),
		TransactionType: p.TransactionType,
		Status:          StatusPending,
		Description:     strings.TrimSpace(p.Description),
		CategoryID:      p.CategoryID,
		MerchantName:    strings.TrimSpace(p.MerchantName),
		InitiatedBy:     p.InitiatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// TransitionTo moves the transaction to next if the lifecycle allows it
func (t *Transaction) TransitionTo(next TransactionStatus, now time.Time) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidStatusTransition, t.Status, next)
	}
	t.Status = next
	t.UpdatedAt = now
	if next == StatusCompleted && t.ProcessedAt == nil {
		t.ProcessedAt = &now
	}
	return nil
}

// MarkAsFailed moves the transaction to failed and records why
func (t *Transaction) MarkAsFailed(reason string, now time.Time) error {
	if err := t.TransitionTo(StatusFailed, now); err != nil {
		return err
	}
	t.FailureReason = reason
	t.ProcessedAt = &now
	return nil
}

// AssignReference sets the reference number once
func (t *Transaction) AssignReference(reference string) {
	if t.ReferenceNumber == "" {
		t.ReferenceNumber = reference
	}
}

// Touches reports whether accountID is on either side of the transaction
func (t *Transaction) Touches(accountID uuid.UUID) bool {
	return (t.FromAccountID != nil && *t.FromAccountID == accountID) ||
		(t.ToAccountID != nil && *t.ToAccountID == accountID)
}

// IsDebitOf reports whether the transaction takes money out of accountID
func (t *Transaction) IsDebitOf(accountID uuid.UUID) bool {
	return t.FromAccountID != nil && *t.FromAccountID == accountID
}

// IsTerminal reports whether no further processing will happen
func (t *Transaction) IsTerminal() bool {
	switch t.Status {
	case StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}
