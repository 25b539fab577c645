package entity

import (
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequency_Advance(t *testing.T) {
	start := time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC)

	testCases := []struct {
		frequency Frequency
		expected  time.Time
	}{
		{FrequencyDaily, time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)},
		{FrequencyWeekly, time.Date(2024, 2, 7, 8, 0, 0, 0, time.UTC)},
		{FrequencyBiweekly, time.Date(2024, 2, 14, 8, 0, 0, 0, time.UTC)},
		{FrequencyMonthly, time.Date(2024, 2, 29, 8, 0, 0, 0, time.UTC)},
		{FrequencyQuarterly, time.Date(2024, 4, 30, 8, 0, 0, 0, time.UTC)},
		{FrequencyYearly, time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(string(tc.frequency), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.frequency.Advance(start))
		})
	}
}

func newTestRecurring(t *testing.T, start time.Time, maxExecutions *int) *RecurringTransaction {
	t.Helper()
	from := uuid.New()
	r, err := NewRecurringTransaction(NewRecurringParams{
		UserID:          uuid.New(),
		FromAccountID:   &from,
		Amount:          decimal.NewFromInt(25),
		Currency:        CurrencyUSD,
		TransactionType: TxPayment,
		Description:     " rent ",
		Frequency:       FrequencyMonthly,
		StartDate:       start,
		MaxExecutions:   maxExecutions,
	}, start)
	require.NoError(t, err)
	return r
}

func TestRecurringTransaction_RecordExecution(t *testing.T) {
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("Monthly from January 31 lands on February 29", func(t *testing.T) {
		r := newTestRecurring(t, start, nil)
		assert.True(t, r.IsDue(start))
		assert.Equal(t, "rent", r.Description)

		txID := uuid.New()
		require.NoError(t, r.RecordExecution(txID, start))
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), r.NextExecution)
		assert.Equal(t, 1, r.ExecutionCount)
		assert.Equal(t, txID, *r.LastTransactionID)
		assert.Equal(t, start, *r.LastExecuted)
		assert.False(t, r.IsDue(start.Add(time.Hour)))
	})

	t.Run("Exhausted template deactivates", func(t *testing.T) {
		two := 2
		r := newTestRecurring(t, start, &two)
		require.NoError(t, r.RecordExecution(uuid.New(), start))
		assert.True(t, r.IsActive)
		require.NoError(t, r.RecordExecution(uuid.New(), r.NextExecution))
		assert.False(t, r.IsActive)

		err := r.RecordExecution(uuid.New(), r.NextExecution)
		assert.ErrorIs(t, err, errs.ErrRecurringInactive)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("Inactive template cannot run", func(t *testing.T) {
		r := newTestRecurring(t, start, nil)
		r.Toggle(start)
		assert.False(t, r.IsDue(start))
		assert.ErrorIs(t, r.RecordExecution(uuid.New(), start), errs.ErrRecurringInactive)
		r.Toggle(start)
		assert.True(t, r.IsDue(start))
	})

	t.Run("End date passed", func(t *testing.T) {
		r := newTestRecurring(t, start, nil)
		end := start.AddDate(0, 0, 10)
		r.EndDate = &end
		assert.ErrorIs(t, r.RecordExecution(uuid.New(), end.Add(time.Hour)), errs.ErrRecurringInactive)
	})
}

func TestNewRecurringTransaction_Validation(t *testing.T) {
	_, err := NewRecurringTransaction(NewRecurringParams{
		Amount:    decimal.Zero,
		Currency:  "XYZ",
		Frequency: "hourly",
	}, time.Now())

	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
	for _, field := range []string{"account", "amount", "currency", "transaction_type", "frequency", "start_date"} {
		assert.Contains(t, vErr.Fields, field)
	}
}

func TestNewTransactionDispute(t *testing.T) {
	now := time.Now()
	d, err := NewTransactionDispute(uuid.New(), uuid.New(), DisputeFraud, "not me", now)
	require.NoError(t, err)
	assert.Equal(t, DisputeOpen, d.Status)

	_, err = NewTransactionDispute(uuid.New(), uuid.New(), "bored", "x", now)
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = NewTransactionDispute(uuid.New(), uuid.New(), DisputeOther, "  ", now)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestDeFiPosition_ProfitLoss(t *testing.T) {
	token := &TokenContract{ID: uuid.New(), ChainID: 1, Symbol: "ETH"}
	p, err := NewDeFiPosition(uuid.New(), "Aave", PositionStaking, token, decimal.NewFromInt(10), decimal.RequireFromString("4.5"), time.Now())
	require.NoError(t, err)
	assert.True(t, p.ProfitLoss().IsZero())

	p.CurrentValue = decimal.RequireFromString("10.5")
	assert.Equal(t, "0.5", p.ProfitLoss().String())

	p.AddStake(decimal.NewFromInt(5), decimal.NewFromInt(5), time.Now())
	assert.Equal(t, "15", p.AmountIn.String())
	assert.Equal(t, "0.5", p.ProfitLoss().String())
}

func TestPage_Normalize(t *testing.T) {
	assert.Equal(t, Page{Limit: 20, Offset: 0}, Page{}.Normalize())
	assert.Equal(t, Page{Limit: 100, Offset: 0}, Page{Limit: 500, Offset: -3}.Normalize())
	assert.True(t, Page{Limit: 20, Offset: 0}.HasMore(21))
	assert.False(t, Page{Limit: 20, Offset: 20}.HasMore(40))
}
