package entity

import (
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coremocks "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.On("Now").Return(fixedTime).Maybe()

	from := uuid.New()
	to := uuid.New()

	t.Run("Valid transfer", func(t *testing.T) {
		tx, err := NewTransaction(NewTransactionParams{
			FromAccountID:   &from,
			ToAccountID:     &to,
			Amount:          decimal.RequireFromString("25.5"),
			FeeAmount:       decimal.RequireFromString("0.5"),
			Currency:        CurrencyUSD,
			TransactionType: TxTransfer,
			Description:     " rent ",
		}, mockTime)

		require.NoError(t, err)
		assert.Equal(t, StatusPending, tx.Status)
		assert.Equal(t, "25.00000000", FormatMoney(tx.NetAmount))
		assert.Equal(t, "rent", tx.Description)
		assert.Equal(t, fixedTime, tx.CreatedAt)
		assert.Nil(t, tx.ProcessedAt)
		assert.Empty(t, tx.ReferenceNumber)
	})

	t.Run("Deposit with only a destination", func(t *testing.T) {
		tx, err := NewTransaction(NewTransactionParams{
			ToAccountID:     &to,
			Amount:          decimal.NewFromInt(100),
			Currency:        CurrencyUSD,
			TransactionType: TxDeposit,
		}, mockTime)
		require.NoError(t, err)
		assert.Nil(t, tx.FromAccountID)
	})

	t.Run("Invalid parameters", func(t *testing.T) {
		testCases := []struct {
			name   string
			params NewTransactionParams
			target error
		}{
			{"no accounts", NewTransactionParams{Amount: decimal.NewFromInt(1), Currency: CurrencyUSD, TransactionType: TxDeposit}, errs.ErrValidation},
			{"same account", NewTransactionParams{FromAccountID: &from, ToAccountID: &from, Amount: decimal.NewFromInt(1), Currency: CurrencyUSD, TransactionType: TxTransfer}, errs.ErrValidation},
			{"zero amount", NewTransactionParams{ToAccountID: &to, Amount: decimal.Zero, Currency: CurrencyUSD, TransactionType: TxDeposit}, errs.ErrInvalidAmount},
			{"negative amount", NewTransactionParams{ToAccountID: &to, Amount: decimal.NewFromInt(-5), Currency: CurrencyUSD, TransactionType: TxDeposit}, errs.ErrInvalidAmount},
			{"too precise", NewTransactionParams{ToAccountID: &to, Amount: decimal.RequireFromString("0.000000001"), Currency: CurrencyUSD, TransactionType: TxDeposit}, errs.ErrInvalidAmount},
			{"bad currency", NewTransactionParams{ToAccountID: &to, Amount: decimal.NewFromInt(1), Currency: "XXX", TransactionType: TxDeposit}, errs.ErrValidation},
			{"bad type", NewTransactionParams{ToAccountID: &to, Amount: decimal.NewFromInt(1), Currency: CurrencyUSD, TransactionType: "gift"}, errs.ErrValidation},
			{"fee above amount", NewTransactionParams{ToAccountID: &to, Amount: decimal.NewFromInt(1), FeeAmount: decimal.NewFromInt(2), Currency: CurrencyUSD, TransactionType: TxDeposit}, errs.ErrValidation},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				tx, err := NewTransaction(tc.params, mockTime)
				assert.Nil(t, tx)
				assert.ErrorIs(t, err, tc.target)
				assert.ErrorIs(t, err, errs.ErrValidation)
			})
		}
	})
}

func TestTransaction_Lifecycle(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tx := &Transaction{Status: StatusPending}

	require.NoError(t, tx.TransitionTo(StatusProcessing, now))
	require.NoError(t, tx.TransitionTo(StatusCompleted, now))
	require.NotNil(t, tx.ProcessedAt)
	assert.Equal(t, now, *tx.ProcessedAt)

	require.NoError(t, tx.TransitionTo(StatusDisputed, now))
	err := tx.TransitionTo(StatusPending, now)
	assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)

	failed := &Transaction{Status: StatusPending}
	require.NoError(t, failed.MarkAsFailed("limit exceeded", now))
	assert.Equal(t, StatusFailed, failed.Status)
	assert.True(t, failed.IsTerminal())
	assert.Equal(t, "limit exceeded", failed.FailureReason)
	assert.ErrorIs(t, failed.TransitionTo(StatusCompleted, now), errs.ErrInvalidStatusTransition)
}

func TestTransaction_AccountHelpers(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	tx := &Transaction{FromAccountID: &a, ToAccountID: &b}

	assert.True(t, tx.Touches(a))
	assert.True(t, tx.Touches(b))
	assert.False(t, tx.Touches(uuid.New()))
	assert.True(t, tx.IsDebitOf(a))
	assert.False(t, tx.IsDebitOf(b))

	tx.AssignReference("TXN2024010100000001")
	tx.AssignReference("TXN2024010199999999")
	assert.Equal(t, "TXN2024010100000001", tx.ReferenceNumber)
}

func TestGenerateReferenceNumber(t *testing.T) {
	rnd := coremocks.NewMockRandomSource(t)
	rnd.On("Digits", 8).Return("12345678", nil).Once()

	ref, err := GenerateReferenceNumber(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC), rnd)
	require.NoError(t, err)
	assert.Equal(t, "TXN2024022912345678", ref)
	assert.True(t, IsReferenceNumber(ref))
	assert.False(t, IsReferenceNumber("TXN20240229123"))
}
