package limit

import (
	"context"
	"testing"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	mcore "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	mpers "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newAccount(t *testing.T, store *mpers.MemoryStore, owner uuid.UUID) *entity.Account {
	t.Helper()
	a, err := entity.NewAccount(owner, entity.AccountChecking, entity.CurrencyUSD, "101"+uuid.NewString()[:8], nil, mcore.FixedTimeProvider{At: testNow})
	require.NoError(t, err)
	store.PutAccount(a)
	return a
}

func newTx(t *testing.T, from, to *entity.Account, txType entity.TransactionType, amount string) *entity.Transaction {
	t.Helper()
	p := entity.NewTransactionParams{
		Amount:          decimal.RequireFromString(amount),
		Currency:        entity.CurrencyUSD,
		TransactionType: txType,
	}
	if from != nil {
		p.FromAccountID = &from.ID
	}
	if to != nil {
		p.ToAccountID = &to.ID
	}
	tx, err := entity.NewTransaction(p, mcore.FixedTimeProvider{At: testNow})
	require.NoError(t, err)
	return tx
}

func TestTracker_Enforce(t *testing.T) {
	ctx := context.Background()

	t.Run("Deposit limit watches the credited account", func(t *testing.T) {
		store := mpers.NewMemoryStore()
		tracker := NewTracker(store, mcore.FixedTimeProvider{At: testNow}, &mcore.RecordingLogger{})
		to := newAccount(t, store, uuid.New())

		l, err := entity.NewAccountLimit(to.ID, entity.LimitDailyDeposit, decimal.NewFromInt(100), "", testNow)
		require.NoError(t, err)
		require.NoError(t, store.GetAccountLimitRepository(ctx).Upsert(ctx, l))

		require.NoError(t, tracker.Enforce(ctx, newTx(t, nil, to, entity.TxDeposit, "70"), nil, to))
		err = tracker.Enforce(ctx, newTx(t, nil, to, entity.TxDeposit, "40"), nil, to)
		assert.ErrorIs(t, err, errs.ErrLimitExceeded)

		var limitErr *errs.LimitExceededError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, string(entity.LimitDailyDeposit), limitErr.LimitType)
	})

	t.Run("User count limit with lazy reset", func(t *testing.T) {
		store := mpers.NewMemoryStore()
		userID := uuid.New()
		from := newAccount(t, store, userID)

		yesterday := testNow.AddDate(0, 0, -1)
		l, err := entity.NewTransactionLimit(userID, nil, "", entity.UserLimitDailyCount, decimal.NewFromInt(1), yesterday)
		require.NoError(t, err)
		l.UsedAmount = decimal.NewFromInt(1)
		require.NoError(t, store.GetTransactionLimitRepository(ctx).Upsert(ctx, l))

		tracker := NewTracker(store, mcore.FixedTimeProvider{At: testNow}, &mcore.RecordingLogger{})
		require.NoError(t, tracker.Enforce(ctx, newTx(t, from, nil, entity.TxWithdrawal, "5"), from, nil))
		assert.ErrorIs(t, tracker.Enforce(ctx, newTx(t, from, nil, entity.TxWithdrawal, "5"), from, nil), errs.ErrLimitExceeded)

		limits, err := store.GetTransactionLimitRepository(ctx).ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, limits, 1)
		assert.Equal(t, "1", limits[0].UsedAmount.String())
		assert.Equal(t, entity.StartOfDay(testNow), limits[0].LastReset)
	})

	t.Run("Limits of other transaction types are ignored", func(t *testing.T) {
		store := mpers.NewMemoryStore()
		userID := uuid.New()
		from := newAccount(t, store, userID)

		l, err := entity.NewTransactionLimit(userID, &from.ID, entity.TxTransfer, entity.UserLimitSingleTransaction, decimal.NewFromInt(10), testNow)
		require.NoError(t, err)
		require.NoError(t, store.GetTransactionLimitRepository(ctx).Upsert(ctx, l))

		tracker := NewTracker(store, mcore.FixedTimeProvider{At: testNow}, &mcore.RecordingLogger{})
		assert.NoError(t, tracker.Enforce(ctx, newTx(t, from, nil, entity.TxPayment, "50"), from, nil))
		assert.ErrorIs(t, tracker.Enforce(ctx, newTx(t, from, nil, entity.TxTransfer, "50"), from, nil), errs.ErrLimitExceeded)
	})
}

func newLimitService(store *mpers.MemoryStore, clock coreport.TimeProvider, publisher coreport.EventPublisher) *Service {
	validator := new(mcore.MockValidator)
	validator.On("Struct", mock.Anything).Return(nil)
	return NewLimitService(store, validator, clock, publisher, &mcore.RecordingLogger{})
}

func TestService_SetAccountLimit(t *testing.T) {
	ctx := context.Background()
	store := mpers.NewMemoryStore()
	service := newLimitService(store, mcore.FixedTimeProvider{At: testNow}, nil)
	userID := uuid.New()
	account := newAccount(t, store, userID)

	_, err := service.SetAccountLimit(ctx, uuid.New(), account.ID, usecase.SetAccountLimitCommand{LimitType: "daily_withdraw", LimitAmount: "100"})
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)

	_, err = service.SetAccountLimit(ctx, userID, account.ID, usecase.SetAccountLimitCommand{LimitType: "daily_withdraw", LimitAmount: "-1"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	first, err := service.SetAccountLimit(ctx, userID, account.ID, usecase.SetAccountLimitCommand{LimitType: "daily_withdraw", LimitAmount: "100"})
	require.NoError(t, err)
	assert.Equal(t, entity.ResetDaily, first.ResetPeriod)

	inactive := false
	second, err := service.SetAccountLimit(ctx, userID, account.ID, usecase.SetAccountLimitCommand{
		LimitType: "daily_withdraw", LimitAmount: "250", ResetPeriod: "weekly", IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	limits, err := service.ListAccountLimits(ctx, userID, account.ID)
	require.NoError(t, err)
	require.Len(t, limits, 1)
	assert.Equal(t, "250", limits[0].LimitAmount.String())
	assert.Equal(t, entity.ResetWeekly, limits[0].ResetPeriod)
	assert.False(t, limits[0].IsActive)
}

func TestService_SetUserLimit(t *testing.T) {
	ctx := context.Background()
	store := mpers.NewMemoryStore()
	service := newLimitService(store, mcore.FixedTimeProvider{At: testNow}, nil)
	userID := uuid.New()
	foreign := newAccount(t, store, uuid.New())

	_, err := service.SetUserLimit(ctx, userID, usecase.SetUserLimitCommand{LimitType: "daily_amount", LimitValue: "10", AccountID: &foreign.ID})
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)

	_, err = service.SetUserLimit(ctx, userID, usecase.SetUserLimitCommand{LimitType: "monthly_count", LimitValue: "5", TransactionType: "payment"})
	require.NoError(t, err)

	limits, err := service.ListUserLimits(ctx, userID)
	require.NoError(t, err)
	require.Len(t, limits, 1)
	assert.Equal(t, entity.ResetMonthly, limits[0].ResetPeriod)
	assert.Equal(t, entity.TxPayment, limits[0].TransactionType)
}

func TestService_ResetExpired(t *testing.T) {
	ctx := context.Background()
	store := mpers.NewMemoryStore()
	userID := uuid.New()
	account := newAccount(t, store, userID)
	lastWeek := testNow.AddDate(0, 0, -8)

	daily, err := entity.NewAccountLimit(account.ID, entity.LimitDailyWithdraw, decimal.NewFromInt(100), "", lastWeek)
	require.NoError(t, err)
	daily.UsedAmount = decimal.NewFromInt(80)
	require.NoError(t, store.GetAccountLimitRepository(ctx).Upsert(ctx, daily))

	monthly, err := entity.NewAccountLimit(account.ID, entity.LimitMonthlyTransfer, decimal.NewFromInt(100), "", testNow)
	require.NoError(t, err)
	monthly.UsedAmount = decimal.NewFromInt(30)
	require.NoError(t, store.GetAccountLimitRepository(ctx).Upsert(ctx, monthly))

	user, err := entity.NewTransactionLimit(userID, nil, "", entity.UserLimitDailyAmount, decimal.NewFromInt(500), lastWeek)
	require.NoError(t, err)
	user.UsedAmount = decimal.NewFromInt(400)
	require.NoError(t, store.GetTransactionLimitRepository(ctx).Upsert(ctx, user))

	publisher := &mcore.RecordingPublisher{}
	service := newLimitService(store, mcore.FixedTimeProvider{At: testNow}, publisher)

	reset, err := service.ResetExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, reset)
	assert.Equal(t, []string{coreport.EventLimitsReset}, publisher.Names())

	limits, err := store.GetAccountLimitRepository(ctx).ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	for _, l := range limits {
		switch l.LimitType {
		case entity.LimitDailyWithdraw:
			assert.True(t, l.UsedAmount.IsZero())
		case entity.LimitMonthlyTransfer:
			assert.Equal(t, "30", l.UsedAmount.String())
		}
	}

	reset, err = service.ResetExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, reset)
}
