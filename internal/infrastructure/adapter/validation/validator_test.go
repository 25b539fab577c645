package validation

import (
	"testing"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Amount", "amount"},
		{"FromAccountID", "from_account_id"},
		{"PasswordConfirm", "password_confirm"},
		{"ChainID", "chain_id"},
		{"MaxUsageCount", "max_usage_count"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, snakeCase(tt.in), tt.in)
	}
}

func TestValidator_Struct(t *testing.T) {
	v := New()

	t.Run("valid command", func(t *testing.T) {
		to := uuid.New()
		err := v.Struct(usecase.CreateTransactionCommand{
			ToAccountID:     &to,
			Amount:          "100.00",
			Currency:        "USD",
			TransactionType: "deposit",
		})
		assert.NoError(t, err)
	})

	t.Run("collects field errors", func(t *testing.T) {
		err := v.Struct(usecase.RegisterUserCommand{
			Email:           "not-an-email",
			Username:        "ab",
			Password:        "short",
			PasswordConfirm: "different",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValidation)

		var verr *errs.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "must be a valid email address", verr.Fields["email"])
		assert.Equal(t, "must be at least 3 characters", verr.Fields["username"])
		assert.Equal(t, "must be at least 8 characters", verr.Fields["password"])
		assert.Equal(t, "must match password", verr.Fields["password_confirm"])
	})

	t.Run("required without", func(t *testing.T) {
		err := v.Struct(usecase.CreateTransactionCommand{Amount: "1", Currency: "USD", TransactionType: "deposit"})
		var verr *errs.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "is required when to_account_id is missing", verr.Fields["from_account_id"])
	})

	t.Run("oneof", func(t *testing.T) {
		err := v.Struct(usecase.CreateAccountCommand{AccountType: "pension", Currency: "USD"})
		var verr *errs.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields["account_type"], "checking, savings")
	})

	t.Run("not a struct", func(t *testing.T) {
		err := v.Struct(42)
		require.Error(t, err)
		assert.NotErrorIs(t, err, errs.ErrValidation)
	})
}
