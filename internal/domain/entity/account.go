package entity

import (
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxAccountsPerUser bounds how many accounts one user may open
const MaxAccountsPerUser = 10

// AccountType is the product behind an account
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
	AccountCrypto     AccountType = "crypto"
	AccountBusiness   AccountType = "business"
)

var accountNumberPrefixes = map[AccountType]string{
	AccountChecking:   "101",
	AccountSavings:    "201",
	AccountInvestment: "301",
	AccountCrypto:     "401",
	AccountBusiness:   "501",
}

// IsValid reports whether the type is one of the known values
func (t AccountType) IsValid() bool {
	_, ok := accountNumberPrefixes[t]
	return ok
}

// NumberPrefix returns the three digit prefix of account numbers of this type
func (t AccountType) NumberPrefix() string {
	return accountNumberPrefixes[t]
}

// GenerateAccountNumber builds a 13 digit account number: type prefix + 10 random digits
func GenerateAccountNumber(accountType AccountType, rnd coreport.RandomSource) (string, error) {
	if !accountType.IsValid() {
		return "", errs.NewValidationError("account_type", fmt.Sprintf("unsupported account type %q", accountType))
	}
	digits, err := rnd.Digits(10)
	if err != nil {
		return "", fmt.Errorf("generate account number: %w", err)
	}
	return accountType.NumberPrefix() + digits, nil
}

// Account is a currency and type scoped balance holder owned by one user.
// The three balances are independent; the ledger moves AvailableBalance.
type Account struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	AccountNumber    string
	AccountType      AccountType
	Currency         Currency
	AvailableBalance decimal.Decimal
	LedgerBalance    decimal.Decimal
	PendingBalance   decimal.Decimal
	IsActive         bool
	IsFrozen         bool
	ChainID          *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewAccount creates an empty active account
func NewAccount(userID uuid.UUID, accountType AccountType, currency Currency, number string, chainID *int64, timeProvider coreport.TimeProvider) (*Account, error) {
	if userID == uuid.Nil {
		return nil, errs.NewValidationError("user_id", "is required")
	}
	if !accountType.IsValid() {
		return nil, errs.NewValidationError("account_type", fmt.Sprintf("unsupported account type %q", accountType))
	}
	if !currency.IsValid() {
		return nil, errs.NewValidationError("currency", fmt.Sprintf("unsupported currency %q", currency))
	}

	now := timeProvider.Now()
	return &Account{
		ID:               uuid.New(),
		UserID:           userID,
		AccountNumber:    number,
		AccountType:      accountType,
		Currency:         currency,
		AvailableBalance: decimal.Zero,
		LedgerBalance:    decimal.Zero,
		PendingBalance:   decimal.Zero,
		IsActive:         true,
		ChainID:          chainID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// IsOwnedBy reports whether the account belongs to userID
func (a *Account) IsOwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}

// CanTransact checks that the account may be debited or credited in currency
func (a *Account) CanTransact(currency Currency) error {
	if !a.IsActive {
		return errs.ErrAccountInactive
	}
	if a.IsFrozen {
		return errs.ErrAccountFrozen
	}
	if a.Currency != currency {
		return fmt.Errorf("%w: account %s holds %s, transaction is %s", errs.ErrCurrencyMismatch, a.AccountNumber, a.Currency, currency)
	}
	return nil
}

// CanDebit checks that amount can be taken from the available balance
func (a *Account) CanDebit(amount decimal.Decimal) error {
	if err := ValidatePositive(amount); err != nil {
		return err
	}
	if a.AvailableBalance.LessThan(amount) {
		return errs.NewInsufficientFundsError(a.ID.String(), FormatMoney(amount), FormatMoney(a.AvailableBalance))
	}
	return nil
}

// Debit subtracts amount from the available balance
func (a *Account) Debit(amount decimal.Decimal, now time.Time) error {
	if err := a.CanDebit(amount); err != nil {
		return err
	}
	a.AvailableBalance = RoundMoney(a.AvailableBalance.Sub(amount))
	a.UpdatedAt = now
	return nil
}

// Credit adds amount to the available balance
func (a *Account) Credit(amount decimal.Decimal, now time.Time) error {
	if err := ValidatePositive(amount); err != nil {
		return err
	}
	a.AvailableBalance = RoundMoney(a.AvailableBalance.Add(amount))
	a.UpdatedAt = now
	return nil
}

// Freeze blocks all balance movements on the account
func (a *Account) Freeze(now time.Time) {
	a.IsFrozen = true
	a.UpdatedAt = now
}

// Unfreeze lifts a freeze
func (a *Account) Unfreeze(now time.Time) {
	a.IsFrozen = false
	a.UpdatedAt = now
}
