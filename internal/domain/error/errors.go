package error

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies an error for the transport layer
type Kind int

const (
	// KindUnexpected is any failure the domain did not anticipate
	KindUnexpected Kind = iota
	// KindValidation is bad input or a violated business rule
	KindValidation
	// KindNotFound is a missing resource or one the caller cannot see
	KindNotFound
	// KindConflict is a uniqueness or state conflict
	KindConflict
	// KindUnauthorized is a missing or invalid credential
	KindUnauthorized
)

// String returns the lower-case name of the kind
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unexpected"
	}
}

// Machine readable error codes used in API responses
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	CodeCurrencyMismatch   = "CURRENCY_MISMATCH"
	CodeAccountFrozen      = "ACCOUNT_FROZEN"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeAccountLimit       = "ACCOUNT_LIMIT_REACHED"
	CodeLimitExceeded      = "LIMIT_EXCEEDED"
	CodeLimitTooLow        = "LIMIT_TOO_LOW"
	CodeInvalidTransition  = "INVALID_STATUS_TRANSITION"
	CodeRecurringInactive  = "RECURRING_INACTIVE"
	CodeNoEligibleAccount  = "NO_ELIGIBLE_ACCOUNT"
	CodeCardNotUsable      = "CARD_NOT_USABLE"
	CodeNoWalletConnected  = "NO_WALLET_CONNECTED"
	CodeUnsupportedNetwork = "UNSUPPORTED_NETWORK"
	CodeTokenNotFound      = "TOKEN_NOT_FOUND"
	CodeNotFound           = "NOT_FOUND"
	CodeDisputeExists      = "DISPUTE_EXISTS"
	CodeDuplicate          = "DUPLICATE_RESOURCE"
	CodeConcurrentUpdate   = "CONCURRENT_UPDATE"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalServer     = "INTERNAL_ERROR"
)

// Base error types
var (
	// ErrValidation is the generic validation failure
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAmount is returned when an amount is malformed or not positive
	ErrInvalidAmount = errors.New("amount must be a positive decimal")

	// ErrInsufficientFunds is returned when the source account cannot cover the amount
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCurrencyMismatch is returned when an account and a transaction disagree on currency
	ErrCurrencyMismatch = errors.New("currency does not match account currency")

	// ErrAccountFrozen is returned when a frozen account would be debited or credited
	ErrAccountFrozen = errors.New("account is frozen")

	// ErrAccountInactive is returned when an inactive account is used
	ErrAccountInactive = errors.New("account is inactive")

	// ErrAccountLimitReached is returned when a user already holds the maximum number of accounts
	ErrAccountLimitReached = errors.New("maximum number of accounts reached")

	// ErrLimitExceeded is returned when a transaction would break an account or user limit
	ErrLimitExceeded = errors.New("transaction limit exceeded")

	// ErrLimitTooLow is returned when a spending limit is set below what was already spent
	ErrLimitTooLow = errors.New("spending limit cannot be lower than the spent amount")

	// ErrInvalidStatusTransition is returned for a status change the lifecycle does not allow
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrRecurringInactive is returned when an inactive or exhausted template is executed
	ErrRecurringInactive = errors.New("recurring transaction is not active")

	// ErrNoEligibleAccount is returned when no default account exists for a virtual card
	ErrNoEligibleAccount = errors.New("no eligible account found")

	// ErrCardNotUsable is returned when a card cannot authorize a charge
	ErrCardNotUsable = errors.New("card cannot be used for this charge")

	// ErrNoWalletConnected is returned when no wallet address is known for the user
	ErrNoWalletConnected = errors.New("no wallet connected")

	// ErrUnsupportedNetwork is returned for an unknown or inactive chain id
	ErrUnsupportedNetwork = errors.New("unsupported network")

	// ErrTokenNotFound is returned when no active token contract matches
	ErrTokenNotFound = errors.New("token not found")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = fmt.Errorf("user: %w", ErrNotFound)

	// ErrAccountNotFound is returned when the account doesn't exist or is not owned by the caller
	ErrAccountNotFound = fmt.Errorf("account: %w", ErrNotFound)

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = fmt.Errorf("transaction: %w", ErrNotFound)

	// ErrCategoryNotFound is returned when the requested category doesn't exist
	ErrCategoryNotFound = fmt.Errorf("category: %w", ErrNotFound)

	// ErrRecurringNotFound is returned when the requested recurring template doesn't exist
	ErrRecurringNotFound = fmt.Errorf("recurring transaction: %w", ErrNotFound)

	// ErrCardNotFound is returned when the requested card doesn't exist
	ErrCardNotFound = fmt.Errorf("card: %w", ErrNotFound)

	// ErrLimitNotFound is returned when the requested limit doesn't exist
	ErrLimitNotFound = fmt.Errorf("limit: %w", ErrNotFound)

	// ErrDisputeExists is returned when a transaction already has a dispute
	ErrDisputeExists = errors.New("a dispute already exists for this transaction")

	// ErrDuplicate is returned when a unique constraint would be violated
	ErrDuplicate = errors.New("resource already exists")

	// ErrConcurrentUpdate is returned when a serializable transaction keeps failing
	ErrConcurrentUpdate = errors.New("concurrent update, please retry")

	// ErrUnauthorized is returned when a token is missing, expired or invalid
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when login fails
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

type classification struct {
	err  error
	kind Kind
	code string
}

// classifications is ordered from most to least specific
var classifications = []classification{
	{ErrInvalidAmount, KindValidation, CodeInvalidAmount},
	{ErrInsufficientFunds, KindValidation, CodeInsufficientFunds},
	{ErrCurrencyMismatch, KindValidation, CodeCurrencyMismatch},
	{ErrAccountFrozen, KindValidation, CodeAccountFrozen},
	{ErrAccountInactive, KindValidation, CodeAccountInactive},
	{ErrAccountLimitReached, KindValidation, CodeAccountLimit},
	{ErrLimitExceeded, KindValidation, CodeLimitExceeded},
	{ErrLimitTooLow, KindValidation, CodeLimitTooLow},
	{ErrInvalidStatusTransition, KindValidation, CodeInvalidTransition},
	{ErrRecurringInactive, KindValidation, CodeRecurringInactive},
	{ErrNoEligibleAccount, KindValidation, CodeNoEligibleAccount},
	{ErrCardNotUsable, KindValidation, CodeCardNotUsable},
	{ErrNoWalletConnected, KindValidation, CodeNoWalletConnected},
	{ErrUnsupportedNetwork, KindValidation, CodeUnsupportedNetwork},
	{ErrTokenNotFound, KindValidation, CodeTokenNotFound},
	{ErrValidation, KindValidation, CodeValidation},
	{ErrNotFound, KindNotFound, CodeNotFound},
	{ErrDisputeExists, KindConflict, CodeDisputeExists},
	{ErrDuplicate, KindConflict, CodeDuplicate},
	{ErrConcurrentUpdate, KindConflict, CodeConcurrentUpdate},
	{ErrInvalidCredentials, KindUnauthorized, CodeInvalidCredentials},
	{ErrUnauthorized, KindUnauthorized, CodeUnauthorized},
}

func classify(err error) (classification, bool) {
	for _, c := range classifications {
		if errors.Is(err, c.err) {
			return c, true
		}
	}
	return classification{}, false
}

// KindOf returns the kind of a domain error, KindUnexpected for anything else
func KindOf(err error) Kind {
	if err == nil {
		return KindUnexpected
	}
	if c, ok := classify(err); ok {
		return c.kind
	}
	return KindUnexpected
}

// ErrorCode returns the standardized error code for known errors
func ErrorCode(err error) string {
	if c, ok := classify(err); ok {
		return c.code
	}
	return CodeInternalServer
}

// ValidationError carries field level details for a rejected input
type ValidationError struct {
	Fields map[string]string
	Err    error
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}, Err: ErrValidation}
}

// NewFieldsError creates a validation error for several fields at once
func NewFieldsError(fields map[string]string) error {
	return &ValidationError{Fields: fields, Err: ErrValidation}
}

// Error implements the error interface for ValidationError
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%v (%s)", e.cause(), strings.Join(parts, "; "))
}

// Unwrap returns the underlying error
func (e *ValidationError) Unwrap() error {
	return e.cause()
}

// Is makes every ValidationError match ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) cause() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// Details returns the field map for the response body
func (e *ValidationError) Details() map[string]any {
	details := make(map[string]any, len(e.Fields))
	for k, v := range e.Fields {
		details[k] = v
	}
	return details
}

// LogFields returns a map of fields for structured logging
func (e *ValidationError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "validation_error",
		"fields":     e.Fields,
		"error_code": ErrorCode(e),
	}
}

// InsufficientFundsError provides detailed error information for a rejected debit
type InsufficientFundsError struct {
	AccountID string
	Amount    string
	Available string
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(accountID, amount, available string) error {
	return &InsufficientFundsError{AccountID: accountID, Amount: amount, Available: available}
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %s: required %s, available %s",
		e.AccountID, e.Amount, e.Available)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// Details returns the response details
func (e *InsufficientFundsError) Details() map[string]any {
	return map[string]any{
		"account_id": e.AccountID,
		"amount":     e.Amount,
		"available":  e.Available,
	}
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"account_id": e.AccountID,
		"amount":     e.Amount,
		"available":  e.Available,
		"error_code": CodeInsufficientFunds,
	}
}

// LimitExceededError describes which limit rejected a transaction
type LimitExceededError struct {
	Scope     string // account or user
	OwnerID   string
	LimitType string
	Remaining string
}

// NewLimitExceededError creates a new limit exceeded error
func NewLimitExceededError(scope, ownerID, limitType, remaining string) error {
	return &LimitExceededError{Scope: scope, OwnerID: ownerID, LimitType: limitType, Remaining: remaining}
}

// Error implements the error interface
func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s limit %s exceeded for %s (remaining %s)",
		e.Scope, e.LimitType, e.OwnerID, e.Remaining)
}

// Is checks if the target error is an ErrLimitExceeded
func (e *LimitExceededError) Is(target error) bool {
	return target == ErrLimitExceeded
}

// Details returns the response details
func (e *LimitExceededError) Details() map[string]any {
	return map[string]any{
		"scope":      e.Scope,
		"limit_type": e.LimitType,
		"remaining":  e.Remaining,
	}
}

// LogFields returns a map of fields for structured logging
func (e *LimitExceededError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "limit_exceeded",
		"scope":      e.Scope,
		"owner_id":   e.OwnerID,
		"limit_type": e.LimitType,
		"remaining":  e.Remaining,
		"error_code": CodeLimitExceeded,
	}
}

// TransactionError represents an error raised while processing a ledger entry
type TransactionError struct {
	TransactionID   string
	ReferenceNumber string
	Amount          string
	Reason          string
	Err             error
}

// NewTransactionError creates a detailed transaction error
func NewTransactionError(transactionID, reference, amount, reason string, err error) error {
	return &TransactionError{
		TransactionID:   transactionID,
		ReferenceNumber: reference,
		Amount:          amount,
		Reason:          reason,
		Err:             err,
	}
}

// Error implements the error interface for TransactionError
func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s (%s, amount %s): %s: %v",
		e.TransactionID, e.ReferenceNumber, e.Amount, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *TransactionError) LogFields() map[string]any {
	return map[string]any{
		"error_type":       "transaction_error",
		"transaction_id":   e.TransactionID,
		"reference_number": e.ReferenceNumber,
		"amount":           e.Amount,
		"reason":           e.Reason,
		"error":            e.Err.Error(),
		"error_code":       ErrorCode(e.Err),
	}
}

// Detailer is implemented by errors that expose response details
type Detailer interface {
	Details() map[string]any
}

// DetailsOf returns the details of the first error in the chain that has any
func DetailsOf(err error) map[string]any {
	var d Detailer
	if errors.As(err, &d) {
		return d.Details()
	}
	return nil
}

// LogFieldsOf returns structured fields for any error, rich ones for domain errors
func LogFieldsOf(err error) map[string]any {
	var lf interface{ LogFields() map[string]any }
	if errors.As(err, &lf) {
		return lf.LogFields()
	}
	return map[string]any{
		"error":      err.Error(),
		"error_code": ErrorCode(err),
	}
}
