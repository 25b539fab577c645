package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/limit"
	mcore "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	mpers "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	store     *mpers.MemoryStore
	clock     mcore.FixedTimeProvider
	publisher *mcore.RecordingPublisher
	logger    *mcore.RecordingLogger
	service   *Service
	userID    uuid.UUID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	validator := new(mcore.MockValidator)
	validator.On("Struct", mock.Anything).Return(nil)

	f := &ledgerFixture{
		store:     mpers.NewMemoryStore(),
		clock:     mcore.FixedTimeProvider{At: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		publisher: &mcore.RecordingPublisher{},
		logger:    &mcore.RecordingLogger{},
		userID:    uuid.New(),
	}
	tracker := limit.NewTracker(f.store, f.clock, f.logger)
	f.service = NewTransactionService(f.store, tracker, validator, f.clock, &mcore.SequenceRandomSource{}, f.publisher, f.logger, 0)
	return f
}

func (f *ledgerFixture) account(t *testing.T, owner uuid.UUID, accountType entity.AccountType, currency entity.Currency, balance string) *entity.Account {
	t.Helper()
	a, err := entity.NewAccount(owner, accountType, currency, accountType.NumberPrefix()+uuid.NewString()[:8], nil, f.clock)
	require.NoError(t, err)
	a.AvailableBalance = decimal.RequireFromString(balance)
	f.store.PutAccount(a)
	return a
}

func (f *ledgerFixture) pending(t *testing.T, params entity.NewTransactionParams) *entity.Transaction {
	t.Helper()
	var tx *entity.Transaction
	err := f.store.Execute(context.Background(), func(txCtx context.Context) error {
		var err error
		tx, err = f.service.NewPending(txCtx, f.store, params)
		return err
	})
	require.NoError(t, err)
	return tx
}

func transfer(from, to uuid.UUID, amount string) usecase.CreateTransactionCommand {
	return usecase.CreateTransactionCommand{
		FromAccountID:   &from,
		ToAccountID:     &to,
		Amount:          amount,
		Currency:        "USD",
		TransactionType: "transfer",
	}
}

func TestService_Create_Transfer(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	from := f.account(t, f.userID, entity.AccountChecking, entity.CurrencyUSD, "500")
	to := f.account(t, uuid.New(), entity.AccountChecking, entity.CurrencyUSD, "10")

	tx, err := f.service.Create(ctx, f.userID, transfer(from.ID, to.ID, "123.45"))
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, tx.Status)
	assert.NotNil(t, tx.ProcessedAt)
	assert.True(t, entity.IsReferenceNumber(tx.ReferenceNumber), tx.ReferenceNumber)
	assert.Equal(t, "376.55000000", entity.FormatMoney(f.store.Account(from.ID).AvailableBalance))
	assert.Equal(t, "133.45000000", entity.FormatMoney(f.store.Account(to.ID).AvailableBalance))
	assert.Equal(t, entity.StatusCompleted, f.store.Transaction(tx.ID).Status)
	assert.Equal(t, []string{coreport.EventTransactionCompleted}, f.publisher.Names())
	assert.Contains(t, f.logger.Messages(coreport.LogLevelInfo), "Transaction completed")
}

func TestService_Create_Deposit(t *testing.T) {
	f := newLedgerFixture(t)
	to := f.account(t, f.userID, entity.AccountChecking, entity.CurrencyUSD, "0")

	tx, err := f.service.Create(context.Background(), f.userID, usecase.CreateTransactionCommand{
		ToAccountID:     &to.ID,
		Amount:          "100.00",
		Currency:        "usd",
		TransactionType: "deposit",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, tx.Status)
	assert.Equal(t, "100.00000000", entity.FormatMoney(f.store.Account(to.ID).AvailableBalance))
}

func TestService_Create_Rejections(t *testing.T) {
	testCases := []struct {
		name        string
		fromBalance string
		amount      string
		currency    string
		setup       func(f *ledgerFixture, from, to *entity.Account)
		expectedErr error
	}{
		{name: "Zero amount", fromBalance: "100", amount: "0", expectedErr: errs.ErrInvalidAmount},
		{name: "Negative amount", fromBalance: "100", amount: "-5", expectedErr: errs.ErrInvalidAmount},
		{name: "Too many decimals", fromBalance: "100", amount: "1.123456789", expectedErr: errs.ErrInvalidAmount},
		{name: "Insufficient funds", fromBalance: "50", amount: "100", expectedErr: errs.ErrInsufficientFunds},
		{name: "Currency mismatch", fromBalance: "100", amount: "10", currency: "EUR", expectedErr: errs.ErrCurrencyMismatch},
		{
			name: "Frozen destination", fromBalance: "100", amount: "10",
			setup: func(f *ledgerFixture, _, to *entity.Account) {
				to.Freeze(f.clock.Now())
				f.store.PutAccount(to)
			},
			expectedErr: errs.ErrAccountFrozen,
		},
		{
			name: "Inactive source", fromBalance: "100", amount: "10",
			setup: func(f *ledgerFixture, from, _ *entity.Account) {
				from.IsActive = false
				f.store.PutAccount(from)
			},
			expectedErr: errs.ErrAccountInactive,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			from := f.account(t, f.userID, entity.AccountChecking, entity.CurrencyUSD, tc.fromBalance)
			to := f.account(t, uuid.New(), entity.AccountSavings, entity.CurrencyUSD, "0")
			if tc.setup != nil {
				tc.setup(f, from, to)
			}

			cmd := transfer(from.ID, to.ID, tc.amount)
			if tc.currency != "" {
				cmd.Currency = tc.currency
			}
			_, err := f.service.Create(context.Background(), f.userID, cmd)

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, errs.KindValidation, errs.KindOf(err))
			assert.True(t, f.store.Account(from.ID).AvailableBalance.Equal(decimal.RequireFromString(tc.fromBalance)))
			assert.True(t, f.store.Account(to.ID).AvailableBalance.IsZero())
			assert.Empty(t, f.store.Transactions())
			assert.Empty(t, f.publisher.Events)
		})
	}
}

func TestService_Create_ForeignAccount(t *testing.T) {
	f := newLedgerFixture(t)
	someoneElse := f.account(t, uuid.New(), entity.AccountChecking, entity.CurrencyUSD, "100")
	mine := f.account(t, f.userID, entity.AccountChecking, entity.CurrencyUSD, "0")

	_, err := f.service.Create(context.Background(), f.userID, transfer(someoneElse.ID, mine.ID, "10"))
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	_, err = f.service.Create(context.Background(), f.userID, usecase.CreateTransactionCommand{
		ToAccountID: &someoneElse.ID, Amount: "10", Currency: "USD", TransactionType: "deposit",
	})
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
}

func TestService_Create_UniqueReferences(t *testing.T) {
	f := newLedgerFixture(t)
	to := f.account(t, f.userID, entity.AccountChecking, entity.CurrencyUSD, "0")

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tx, err := f.service.Create(context.Background(), f.userID, usecase.CreateTransactionCommand{
			ToAccountID: &to.ID, Amount: "1", Currency: "USD", TransactionType: "deposit",
		})
		require.NoError(t, err)
		assert.False(t, seen[tx.ReferenceNumber], tx.ReferenceNumber)
		seen[tx.ReferenceNumber] = true
	}
	assert.Equal(t, "50.00000000", entity.FormatMoney(f.store.Account(to.ID).AvailableBalance))
}

func TestService_Create_AccountLimit(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	from := f.account(t, f.userID, entity.AccountChecking, entity.CurrencyUSD, "1000")
	to := f.account(t, uuid.New(), entity.AccountChecking, entity.CurrencyUSD, "0")

	l, err := entity.NewAccountLimit(from.ID, entity.LimitMonthlyTransfer, decimal.NewFromInt(100), "", f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.store.GetAccountLimitRepository(ctx).Upsert(ctx, l))

	_, err = f.service.Create(ctx, f.userID, transfer(from.ID, to.ID, "60"))
	require.NoError(t, err)

	_, err = f.service.Create(ctx, f.userID, transfer(from.ID, to.ID, "50"))
	assert.ErrorIs(t, err, errs.ErrLimitExceeded)
	assert.Equal(t, errs.CodeLimitExceeded, errs.ErrorCode(err))
	assert.Equal(t, "940.00000000", entity.FormatMoney(f.store.Account(from.ID).AvailableBalance))

	limits, err := f.store.GetAccountLimitRepository(ctx).ListByAccount(ctx, from.ID)
	require.NoError(t, err)
	require.Len(t, limits, 1)
	assert.Equal(t, "60", limits[0].UsedAmount.String())
	assert.Contains(t, f.logger.Messages(coreport.LogLevelWarn), "Transaction limit exceeded")
}

func TestService_Dispute(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	from := f.account(t, f.userID, entity.AccountChecking, entity.CurrencyUSD, "100")
	to := f.account(t, uuid.New(), entity.AccountChecking, entity.CurrencyUSD, "0")

	tx, err := f.service.Create(ctx, f.userID, transfer(from.ID, to.ID, "10"))
	require.NoError(t, err)

	cmd := usecase.DisputeCommand{Reason: "unauthorized", Description: "I did not send this"}
	dispute, err := f.service.Dispute(ctx, f.userID, tx.ID, cmd)
	require.NoError(t, err)
	assert.Equal(t, entity.DisputeOpen, dispute.Status)
	assert.Equal(t, entity.StatusDisputed, f.store.Transaction(tx.ID).Status)

	_, err = f.service.Dispute(ctx, f.userID, tx.ID, cmd)
	assert.ErrorIs(t, err, errs.ErrDisputeExists)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	assert.Equal(t, errs.CodeDisputeExists, errs.ErrorCode(err))

	assert.Equal(t, []string{coreport.EventTransactionCompleted, coreport.EventTransactionDisputed}, f.publisher.Names())
}

func TestService_ProcessPending(t *testing.T) {
	ctx := context.Background()

	t.Run("Completes", func(t *testing.T) {
		f := newLedgerFixture(t)
		from := f.account(t, f.userID, entity.AccountChecking, entity.CurrencyUSD, "100")
		to := f.account(t, f.userID, entity.AccountSavings, entity.CurrencyUSD, "0")
		tx := f.pending(t, entity.NewTransactionParams{
			FromAccountID: &from.ID, ToAccountID: &to.ID, Amount: decimal.NewFromInt(40),
			Currency: entity.CurrencyUSD, TransactionType: entity.TxTransfer, InitiatedBy: f.userID,
		})

		done, err := f.service.ProcessPending(ctx, f.userID, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusCompleted, done.Status)
		assert.Equal(t, "60.00000000", entity.FormatMoney(f.store.Account(from.ID).AvailableBalance))
		assert.Equal(t, "40.00000000", entity.FormatMoney(f.store.Account(to.ID).AvailableBalance))
	})

	t.Run("Marks failed", func(t *testing.T) {
		f := newLedgerFixture(t)
		from := f.account(t, f.userID, entity.AccountChecking, entity.CurrencyUSD, "10")
		tx := f.pending(t, entity.NewTransactionParams{
			FromAccountID: &from.ID, Amount: decimal.NewFromInt(40),
			Currency: entity.CurrencyUSD, TransactionType: entity.TxWithdrawal, InitiatedBy: f.userID,
		})

		failed, err := f.service.ProcessPending(ctx, f.userID, tx.ID)
		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		require.NotNil(t, failed)
		assert.Equal(t, entity.StatusFailed, failed.Status)
		assert.Equal(t, entity.StatusFailed, f.store.Transaction(tx.ID).Status)
		assert.NotEmpty(t, f.store.Transaction(tx.ID).FailureReason)
		assert.Equal(t, "10.00000000", entity.FormatMoney(f.store.Account(from.ID).AvailableBalance))
		assert.Equal(t, []string{coreport.EventTransactionFailed}, f.publisher.Names())

		_, err = f.service.ProcessPending(ctx, f.userID, tx.ID)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestService_Cancel(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	from := f.account(t, f.userID, entity.AccountChecking, entity.CurrencyUSD, "10")
	tx := f.pending(t, entity.NewTransactionParams{
		FromAccountID: &from.ID, Amount: decimal.NewFromInt(5),
		Currency: entity.CurrencyUSD, TransactionType: entity.TxPayment, InitiatedBy: f.userID,
	})

	_, err := f.service.Cancel(ctx, uuid.New(), tx.ID)
	assert.ErrorIs(t, err, errs.ErrTransactionNotFound)

	cancelled, err := f.service.Cancel(ctx, f.userID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)

	_, err = f.service.Cancel(ctx, f.userID, tx.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
}

func TestService_ListAndAnalytics(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	checking := f.account(t, f.userID, entity.AccountChecking, entity.CurrencyUSD, "0")
	savings := f.account(t, f.userID, entity.AccountSavings, entity.CurrencyUSD, "0")
	other := f.account(t, uuid.New(), entity.AccountChecking, entity.CurrencyUSD, "0")

	_, err := f.service.Create(ctx, f.userID, usecase.CreateTransactionCommand{
		ToAccountID: &checking.ID, Amount: "300", Currency: "USD", TransactionType: "deposit",
	})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, f.userID, transfer(checking.ID, savings.ID, "100"))
	require.NoError(t, err)
	_, err = f.service.Create(ctx, f.userID, transfer(checking.ID, other.ID, "25"))
	require.NoError(t, err)

	page, err := f.service.List(ctx, f.userID, usecase.ListTransactionsQuery{Page: entity.Page{Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore())

	page, err = f.service.List(ctx, f.userID, usecase.ListTransactionsQuery{AccountID: &savings.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = f.service.List(ctx, f.userID, usecase.ListTransactionsQuery{AccountID: &other.ID})
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)

	stats, err := f.service.Analytics(ctx, f.userID, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, stats.Days)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, "125", stats.TotalSent.String())
	assert.Equal(t, "400", stats.TotalReceived.String())
	assert.Equal(t, 2, stats.ByType[entity.TxTransfer])
	assert.Equal(t, 3, stats.ByStatus[entity.StatusCompleted])
}

func TestService_CreateCategory(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	parent, err := f.service.CreateCategory(ctx, usecase.CreateCategoryCommand{Name: "Food"})
	require.NoError(t, err)
	_, err = f.service.CreateCategory(ctx, usecase.CreateCategoryCommand{Name: "Groceries", ParentID: &parent.ID, Color: "#10B981"})
	require.NoError(t, err)

	missing := uuid.New()
	_, err = f.service.CreateCategory(ctx, usecase.CreateCategoryCommand{Name: "Orphan", ParentID: &missing})
	assert.ErrorIs(t, err, errs.ErrCategoryNotFound)

	categories, err := f.service.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestService_PublishFailureIsLogged(t *testing.T) {
	f := newLedgerFixture(t)
	f.publisher.Err = assert.AnError
	to := f.account(t, f.userID, entity.AccountChecking, entity.CurrencyUSD, "0")

	_, err := f.service.Create(context.Background(), f.userID, usecase.CreateTransactionCommand{
		ToAccountID: &to.ID, Amount: "5", Currency: "USD", TransactionType: "deposit",
	})
	require.NoError(t, err)
	assert.Contains(t, f.logger.Messages(coreport.LogLevelWarn), "Failed to publish domain events")
}
