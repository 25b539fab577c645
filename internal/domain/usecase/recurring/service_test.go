package recurring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/limit"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/transaction"
	mcore "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	mpers "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var jan31 = time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC)

// brokenLedger refuses to open transactions debiting one account
type brokenLedger struct {
	usecase.LedgerPoster
	account uuid.UUID
}

func (l brokenLedger) NewPending(txCtx context.Context, uow persistence.UnitOfWork, p entity.NewTransactionParams) (*entity.Transaction, error) {
	if p.FromAccountID != nil && *p.FromAccountID == l.account {
		return nil, errors.New("ledger unavailable")
	}
	return l.LedgerPoster.NewPending(txCtx, uow, p)
}

type recurringFixture struct {
	store     *mpers.MemoryStore
	clock     mcore.FixedTimeProvider
	publisher *mcore.RecordingPublisher
	logger    *mcore.RecordingLogger
	ledger    *transaction.Service
	service   *Service
	userID    uuid.UUID
}

func newRecurringFixture(t *testing.T) *recurringFixture {
	t.Helper()
	validator := new(mcore.MockValidator)
	validator.On("Struct", mock.Anything).Return(nil)

	f := &recurringFixture{
		store:     mpers.NewMemoryStore(),
		clock:     mcore.FixedTimeProvider{At: jan31},
		publisher: &mcore.RecordingPublisher{},
		logger:    &mcore.RecordingLogger{},
		userID:    uuid.New(),
	}
	tracker := limit.NewTracker(f.store, f.clock, f.logger)
	f.ledger = transaction.NewTransactionService(f.store, tracker, validator, f.clock, &mcore.SequenceRandomSource{}, f.publisher, f.logger, 0)
	f.service = NewRecurringService(f.store, f.ledger, validator, f.clock, f.publisher, f.logger, 0)
	return f
}

func (f *recurringFixture) account(t *testing.T, owner uuid.UUID) *entity.Account {
	t.Helper()
	a, err := entity.NewAccount(owner, entity.AccountChecking, entity.CurrencyUSD, "101"+uuid.NewString()[:10], nil, f.clock)
	require.NoError(t, err)
	f.store.PutAccount(a)
	return a
}

func monthlyRent(from, to uuid.UUID, start time.Time) usecase.CreateRecurringCommand {
	return usecase.CreateRecurringCommand{
		FromAccountID:   &from,
		ToAccountID:     &to,
		Amount:          "850.00",
		Currency:        "USD",
		TransactionType: "transfer",
		Description:     "rent",
		Frequency:       "monthly",
		StartDate:       start,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)
	from := f.account(t, f.userID)
	landlord := f.account(t, uuid.New())

	t.Run("First run is the start date", func(t *testing.T) {
		r, err := f.service.Create(ctx, f.userID, monthlyRent(from.ID, landlord.ID, jan31))
		require.NoError(t, err)
		assert.True(t, r.IsActive)
		assert.Equal(t, jan31, r.NextExecution)
		assert.Equal(t, "850", r.Amount.String())

		got, err := f.service.Get(ctx, f.userID, r.ID)
		require.NoError(t, err)
		assert.Equal(t, r.ID, got.ID)

		_, err = f.service.Get(ctx, uuid.New(), r.ID)
		assert.ErrorIs(t, err, errs.ErrRecurringNotFound)
	})

	t.Run("Debited account must be owned", func(t *testing.T) {
		_, err := f.service.Create(ctx, f.userID, monthlyRent(landlord.ID, from.ID, jan31))
		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	})

	t.Run("Currency must match", func(t *testing.T) {
		cmd := monthlyRent(from.ID, landlord.ID, jan31)
		cmd.Currency = "EUR"
		_, err := f.service.Create(ctx, f.userID, cmd)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("Invalid fields", func(t *testing.T) {
		cmd := monthlyRent(from.ID, from.ID, jan31)
		cmd.Amount = "-1"
		cmd.Frequency = "hourly"
		_, err := f.service.Create(ctx, f.userID, cmd)

		var vErr *errs.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "amount")
		assert.Contains(t, vErr.Fields, "to_account")
	})

	page, err := f.service.List(ctx, f.userID, entity.Page{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestService_Execute(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)
	from := f.account(t, f.userID)
	to := f.account(t, uuid.New())

	r, err := f.service.Create(ctx, f.userID, monthlyRent(from.ID, to.ID, jan31))
	require.NoError(t, err)

	result, err := f.service.Execute(ctx, f.userID, r.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPending, result.Transaction.Status)
	assert.Equal(t, entity.TxTransfer, result.Transaction.TransactionType)
	assert.Equal(t, time.Date(2024, 2, 29, 8, 0, 0, 0, time.UTC), result.Recurring.NextExecution)
	assert.Equal(t, 1, result.Recurring.ExecutionCount)
	assert.Equal(t, result.Transaction.ID, *result.Recurring.LastTransactionID)
	assert.Equal(t, entity.StatusPending, f.store.Transaction(result.Transaction.ID).Status)
	assert.Equal(t, []string{coreport.EventRecurringExecuted}, f.publisher.Names())

	// the spawned transaction does not move money until it is processed
	assert.True(t, f.store.Account(from.ID).AvailableBalance.IsZero())

	_, err = f.service.Execute(ctx, uuid.New(), r.ID)
	assert.ErrorIs(t, err, errs.ErrRecurringNotFound)

	toggled, err := f.service.Toggle(ctx, f.userID, r.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	_, err = f.service.Execute(ctx, f.userID, r.ID)
	assert.ErrorIs(t, err, errs.ErrRecurringInactive)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	assert.Len(t, f.store.Transactions(), 1)
}

func TestService_Execute_MaxExecutions(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)
	from := f.account(t, f.userID)
	to := f.account(t, uuid.New())

	once := 1
	cmd := monthlyRent(from.ID, to.ID, jan31)
	cmd.MaxExecutions = &once
	r, err := f.service.Create(ctx, f.userID, cmd)
	require.NoError(t, err)

	result, err := f.service.Execute(ctx, f.userID, r.ID)
	require.NoError(t, err)
	assert.False(t, result.Recurring.IsActive)

	_, err = f.service.Execute(ctx, f.userID, r.ID)
	assert.ErrorIs(t, err, errs.ErrRecurringInactive)
}

func TestService_RunDue(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)
	from := f.account(t, f.userID)
	broken := f.account(t, f.userID)
	to := f.account(t, uuid.New())
	f.service.ledger = brokenLedger{LedgerPoster: f.ledger, account: broken.ID}

	due, err := f.service.Create(ctx, f.userID, monthlyRent(from.ID, to.ID, jan31.AddDate(0, 0, -1)))
	require.NoError(t, err)
	_, err = f.service.Create(ctx, f.userID, monthlyRent(from.ID, to.ID, jan31.AddDate(0, 0, 1)))
	require.NoError(t, err)
	failing, err := f.service.Create(ctx, f.userID, monthlyRent(broken.ID, to.ID, jan31))
	require.NoError(t, err)

	ended := monthlyRent(from.ID, to.ID, jan31.AddDate(0, 0, -10))
	end := jan31.AddDate(0, 0, -5)
	ended.EndDate = &end
	expired, err := f.service.Create(ctx, f.userID, ended)
	require.NoError(t, err)

	result, err := f.service.RunDue(ctx, jan31)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Executed)
	assert.Equal(t, 1, result.Failed)

	stored := f.store.Recurring(due.ID)
	assert.Equal(t, 1, stored.ExecutionCount)
	assert.Equal(t, time.Date(2024, 2, 29, 8, 0, 0, 0, time.UTC), stored.NextExecution)

	assert.Equal(t, 0, f.store.Recurring(failing.ID).ExecutionCount)
	assert.True(t, f.store.Recurring(failing.ID).IsActive)
	assert.False(t, f.store.Recurring(expired.ID).IsActive)
	assert.Len(t, f.store.Transactions(), 1)
	assert.Contains(t, f.logger.Messages(coreport.LogLevelWarn), "Recurring transaction execution failed")

	// a second sweep at the same instant only retries the failing template
	result, err = f.service.RunDue(ctx, jan31)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Executed)
	assert.Equal(t, 1, result.Failed)
}

func TestService_RunDue_FailuresDoNotStarveLaterBatches(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)
	from := f.account(t, f.userID)
	broken := f.account(t, f.userID)
	to := f.account(t, uuid.New())
	f.service.ledger = brokenLedger{LedgerPoster: f.ledger, account: broken.ID}
	f.service.batchSize = 2

	for i := 0; i < 3; i++ {
		_, err := f.service.Create(ctx, f.userID, monthlyRent(broken.ID, to.ID, jan31.AddDate(0, 0, -10)))
		require.NoError(t, err)
	}
	var healthy []uuid.UUID
	for i := 0; i < 2; i++ {
		r, err := f.service.Create(ctx, f.userID, monthlyRent(from.ID, to.ID, jan31))
		require.NoError(t, err)
		healthy = append(healthy, r.ID)
	}

	result, err := f.service.RunDue(ctx, jan31)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Executed)
	assert.Equal(t, 3, result.Failed)
	for _, id := range healthy {
		assert.Equal(t, 1, f.store.Recurring(id).ExecutionCount)
	}
}
