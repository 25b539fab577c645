package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{"InsufficientFunds", ErrInsufficientFunds, CodeInsufficientFunds},
		{"InvalidAmount", ErrInvalidAmount, CodeInvalidAmount},
		{"DisputeExists", ErrDisputeExists, CodeDisputeExists},
		{"LimitTooLow", ErrLimitTooLow, CodeLimitTooLow},
		{"AccountNotFound", ErrAccountNotFound, CodeNotFound},
		{"Unauthorized", ErrUnauthorized, CodeUnauthorized},
		{"UnknownError", errors.New("unknown error"), CodeInternalServer},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrNoEligibleAccount), CodeNoEligibleAccount},
		{"FieldError", NewValidationError("email", "is required"), CodeValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := ErrorCode(tc.err)
			if code != tc.expected {
				t.Errorf("ErrorCode(%v) = %s, want %s", tc.err, code, tc.expected)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"Validation", NewValidationError("amount", "must be positive"), KindValidation},
		{"InsufficientFunds", NewInsufficientFundsError("a1", "10", "5"), KindValidation},
		{"Limit", NewLimitExceededError("account", "a1", "daily_withdraw", "0"), KindValidation},
		{"NotFound", ErrCardNotFound, KindNotFound},
		{"Conflict", ErrDisputeExists, KindConflict},
		{"Duplicate", fmt.Errorf("insert: %w", ErrDuplicate), KindConflict},
		{"Credentials", ErrInvalidCredentials, KindUnauthorized},
		{"Unexpected", errors.New("boom"), KindUnexpected},
		{"Nil", nil, KindUnexpected},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.expected {
				t.Errorf("KindOf(%v) = %s, want %s", tc.err, got, tc.expected)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewFieldsError(map[string]string{
		"password": "must be at least 8 characters",
		"email":    "is required",
	})

	expected := "validation failed (email: is required; password: must be at least 8 characters)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false, want true")
	}

	details := DetailsOf(err)
	if details["email"] != "is required" {
		t.Errorf("details[email] = %v", details["email"])
	}

	wrapped := &ValidationError{Fields: map[string]string{"amount": "must be positive"}, Err: ErrInvalidAmount}
	if !errors.Is(wrapped, ErrInvalidAmount) {
		t.Error("wrapped validation error should match its cause")
	}
	if ErrorCode(wrapped) != CodeInvalidAmount {
		t.Errorf("ErrorCode(wrapped) = %s, want %s", ErrorCode(wrapped), CodeInvalidAmount)
	}
}

func TestInsufficientFundsError(t *testing.T) {
	err := NewInsufficientFundsError("acc-1", "100.00000000", "50.00000000")

	expected := "insufficient funds in account acc-1: required 100.00000000, available 50.00000000"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Error("errors.Is(err, ErrInsufficientFunds) = false, want true")
	}

	fields := LogFieldsOf(fmt.Errorf("debit: %w", err))
	if fields["error_type"] != "insufficient_funds" {
		t.Errorf("error_type = %v, want insufficient_funds", fields["error_type"])
	}
}

func TestTransactionError(t *testing.T) {
	txErr := NewTransactionError("tx-1", "TXN2024010112345678", "10.00000000", "debit failed", ErrAccountFrozen)

	if !errors.Is(txErr, ErrAccountFrozen) {
		t.Error("errors.Is(txErr, ErrAccountFrozen) = false, want true")
	}

	var te *TransactionError
	if !errors.As(txErr, &te) {
		t.Fatal("errors.As should find *TransactionError")
	}
	fields := te.LogFields()
	if fields["error_code"] != CodeAccountFrozen {
		t.Errorf("error_code = %v, want %s", fields["error_code"], CodeAccountFrozen)
	}
}

func TestLogFieldsOfPlainError(t *testing.T) {
	fields := LogFieldsOf(errors.New("plain"))
	if fields["error"] != "plain" || fields["error_code"] != CodeInternalServer {
		t.Errorf("unexpected fields %v", fields)
	}
}
