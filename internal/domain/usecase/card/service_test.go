package card

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/limit"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/transaction"
	mcore "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	mpers "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cardFixture struct {
	store     *mpers.MemoryStore
	clock     mcore.FixedTimeProvider
	publisher *mcore.RecordingPublisher
	logger    *mcore.RecordingLogger
	service   *Service
	userID    uuid.UUID
}

func newCardFixture(t *testing.T) *cardFixture {
	t.Helper()
	validator := new(mcore.MockValidator)
	validator.On("Struct", mock.Anything).Return(nil)

	f := &cardFixture{
		store:     mpers.NewMemoryStore(),
		clock:     mcore.FixedTimeProvider{At: time.Date(2024, 5, 14, 9, 0, 0, 0, time.UTC)},
		publisher: &mcore.RecordingPublisher{},
		logger:    &mcore.RecordingLogger{},
		userID:    uuid.New(),
	}
	random := &mcore.SequenceRandomSource{}
	tracker := limit.NewTracker(f.store, f.clock, f.logger)
	ledger := transaction.NewTransactionService(f.store, tracker, validator, f.clock, random, nil, f.logger, 0)
	f.service = NewCardService(f.store, ledger, mcore.ReverseEncryptor{}, random, validator, f.clock, f.publisher, f.logger)
	return f
}

func (f *cardFixture) account(t *testing.T, owner uuid.UUID, accountType entity.AccountType, balance string) *entity.Account {
	t.Helper()
	a, err := entity.NewAccount(owner, accountType, entity.CurrencyUSD, accountType.NumberPrefix()+uuid.NewString()[:10], nil, f.clock)
	require.NoError(t, err)
	a.AvailableBalance = decimal.RequireFromString(balance)
	f.store.PutAccount(a)
	return a
}

func TestService_Issue(t *testing.T) {
	ctx := context.Background()
	f := newCardFixture(t)
	account := f.account(t, f.userID, entity.AccountChecking, "0")

	card, err := f.service.Issue(ctx, f.userID, usecase.IssueCardCommand{AccountID: account.ID, CardType: "physical", Nickname: "daily"})
	require.NoError(t, err)

	assert.True(t, entity.LuhnValid(card.CardNumber), card.CardNumber)
	assert.Equal(t, "4532 ", card.CardNumber[:5])
	assert.Len(t, card.CVV, 3)
	assert.Equal(t, mustEncrypt(card.CardNumber), card.CardNumberEncrypted)
	assert.Equal(t, mustEncrypt(card.CVV), card.CVVEncrypted)
	assert.Equal(t, 5, card.ExpiryMonth)
	assert.Equal(t, 2027, card.ExpiryYear)
	assert.Equal(t, entity.CardActive, card.Status)
	assert.Equal(t, []string{coreport.EventCardIssued}, f.publisher.Names())

	seen := map[string]bool{card.CardNumber: true}
	for i := 0; i < 20; i++ {
		next, err := f.service.Issue(ctx, f.userID, usecase.IssueCardCommand{AccountID: account.ID, CardType: "virtual"})
		require.NoError(t, err)
		assert.False(t, seen[next.CardNumber])
		seen[next.CardNumber] = true
	}

	_, err = f.service.Issue(ctx, uuid.New(), usecase.IssueCardCommand{AccountID: account.ID, CardType: "physical"})
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)

	_, err = f.service.Get(ctx, uuid.New(), card.ID)
	assert.ErrorIs(t, err, errs.ErrCardNotFound)

	cards, err := f.service.List(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, cards, 21)
}

func mustEncrypt(s string) string {
	out, _ := mcore.ReverseEncryptor{}.Encrypt(s)
	return out
}

func TestService_Issue_EncryptionFailure(t *testing.T) {
	ctx := context.Background()
	f := newCardFixture(t)
	account := f.account(t, f.userID, entity.AccountChecking, "0")

	encryptor := new(mcore.MockEncryptor)
	encryptor.On("Encrypt", mock.Anything).Return("", errors.New("key unavailable"))
	f.service.encryptor = encryptor

	_, err := f.service.Issue(ctx, f.userID, usecase.IssueCardCommand{AccountID: account.ID, CardType: "physical"})
	assert.Error(t, err)
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
	assert.Empty(t, f.store.CardTransactions())

	cards, err := f.service.List(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestService_CreateVirtual(t *testing.T) {
	ctx := context.Background()

	t.Run("No checking account", func(t *testing.T) {
		f := newCardFixture(t)
		f.account(t, f.userID, entity.AccountSavings, "0")

		_, err := f.service.CreateVirtual(ctx, f.userID, usecase.CreateVirtualCardCommand{CardType: "virtual"})
		assert.ErrorIs(t, err, errs.ErrNoEligibleAccount)
		assert.Equal(t, errs.CodeNoEligibleAccount, errs.ErrorCode(err))
	})

	t.Run("Defaults to the checking account", func(t *testing.T) {
		f := newCardFixture(t)
		checking := f.account(t, f.userID, entity.AccountChecking, "0")

		card, err := f.service.CreateVirtual(ctx, f.userID, usecase.CreateVirtualCardCommand{
			CardType:      "virtual_single_use",
			SpendingLimit: "50",
		})
		require.NoError(t, err)
		assert.Equal(t, checking.ID, card.AccountID)
		require.NotNil(t, card.MaxUsageCount)
		assert.Equal(t, 1, *card.MaxUsageCount)
		assert.Equal(t, "50", card.SpendingLimit.String())
		assert.False(t, card.ContactlessEnabled)
	})

	t.Run("Merchant lock needs a merchant", func(t *testing.T) {
		f := newCardFixture(t)
		f.account(t, f.userID, entity.AccountChecking, "0")

		_, err := f.service.CreateVirtual(ctx, f.userID, usecase.CreateVirtualCardCommand{CardType: "virtual_merchant_locked"})
		var vErr *errs.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "merchant_name")
	})

	t.Run("Physical is not virtual", func(t *testing.T) {
		f := newCardFixture(t)
		_, err := f.service.CreateVirtual(ctx, f.userID, usecase.CreateVirtualCardCommand{CardType: "physical"})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestService_StatusAndLimits(t *testing.T) {
	ctx := context.Background()
	f := newCardFixture(t)
	account := f.account(t, f.userID, entity.AccountChecking, "100")

	card, err := f.service.CreateVirtual(ctx, f.userID, usecase.CreateVirtualCardCommand{AccountID: &account.ID, CardType: "virtual"})
	require.NoError(t, err)

	_, err = f.service.Charge(ctx, f.userID, card.ID, usecase.ChargeCardCommand{Amount: "30", MerchantName: "Shop"})
	require.NoError(t, err)

	_, err = f.service.UpdateLimits(ctx, f.userID, card.ID, "29.99")
	assert.ErrorIs(t, err, errs.ErrLimitTooLow)

	updated, err := f.service.UpdateLimits(ctx, f.userID, card.ID, "40")
	require.NoError(t, err)
	assert.Equal(t, "10", updated.RemainingSpend().String())

	blocked, err := f.service.ToggleStatus(ctx, f.userID, card.ID, "Blocked")
	require.NoError(t, err)
	assert.Equal(t, entity.CardBlocked, blocked.Status)

	_, err = f.service.ToggleStatus(ctx, f.userID, card.ID, "cancelled")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.service.ToggleStatus(ctx, uuid.New(), card.ID, "active")
	assert.ErrorIs(t, err, errs.ErrCardNotFound)
}

func TestService_Charge(t *testing.T) {
	ctx := context.Background()

	t.Run("Debits the account and records the charge", func(t *testing.T) {
		f := newCardFixture(t)
		account := f.account(t, f.userID, entity.AccountChecking, "100")
		card, err := f.service.Issue(ctx, f.userID, usecase.IssueCardCommand{AccountID: account.ID, CardType: "physical"})
		require.NoError(t, err)

		charge, err := f.service.Charge(ctx, f.userID, card.ID, usecase.ChargeCardCommand{
			Amount:           "19.99",
			MerchantName:     "Coffee Corner",
			MerchantCategory: "food",
		})
		require.NoError(t, err)

		assert.Equal(t, entity.StatusCompleted, charge.Transaction.Status)
		assert.Equal(t, entity.TxCardPayment, charge.Transaction.TransactionType)
		assert.Equal(t, "80.01000000", entity.FormatMoney(f.store.Account(account.ID).AvailableBalance))
		assert.Equal(t, 1, f.store.Card(card.ID).UsageCount)
		assert.Equal(t, "19.99", f.store.Card(card.ID).SpentAmount.String())
		assert.Len(t, charge.CardTransaction.AuthorizationCode, 6)
		assert.Equal(t, "approved", charge.CardTransaction.ProcessorResponse)
		assert.Len(t, f.store.CardTransactions(), 1)
		assert.Equal(t, []string{coreport.EventCardIssued, coreport.EventCardCharged}, f.publisher.Names())

		page, err := f.service.ListTransactions(ctx, f.userID, card.ID, entity.Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, 20, page.Page.Limit)
	})

	t.Run("Declines leave everything untouched", func(t *testing.T) {
		f := newCardFixture(t)
		account := f.account(t, f.userID, entity.AccountChecking, "25")
		card, err := f.service.CreateVirtual(ctx, f.userID, usecase.CreateVirtualCardCommand{
			AccountID:     &account.ID,
			CardType:      "virtual",
			SpendingLimit: "20",
		})
		require.NoError(t, err)

		testCases := []struct {
			name  string
			cmd   usecase.ChargeCardCommand
			err   error
			owner uuid.UUID
		}{
			{"Over spending limit", usecase.ChargeCardCommand{Amount: "20.01", MerchantName: "Shop"}, errs.ErrLimitExceeded, f.userID},
			{"International disabled", usecase.ChargeCardCommand{Amount: "1", MerchantName: "Shop", International: true}, errs.ErrCardNotUsable, f.userID},
			{"Zero amount", usecase.ChargeCardCommand{Amount: "0", MerchantName: "Shop"}, errs.ErrInvalidAmount, f.userID},
			{"Foreign card", usecase.ChargeCardCommand{Amount: "1", MerchantName: "Shop"}, errs.ErrCardNotFound, uuid.New()},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := f.service.Charge(ctx, tc.owner, card.ID, tc.cmd)
				assert.ErrorIs(t, err, tc.err)
			})
		}

		require.NoError(t, f.service.uow.Execute(ctx, func(txCtx context.Context) error {
			a := f.store.Account(account.ID)
			a.IsFrozen = true
			return f.store.GetAccountRepository(txCtx).Update(txCtx, a)
		}))
		_, err = f.service.Charge(ctx, f.userID, card.ID, usecase.ChargeCardCommand{Amount: "5", MerchantName: "Shop"})
		assert.ErrorIs(t, err, errs.ErrAccountFrozen)

		assert.Equal(t, "25", f.store.Account(account.ID).AvailableBalance.String())
		assert.Equal(t, 0, f.store.Card(card.ID).UsageCount)
		assert.Empty(t, f.store.Transactions())
		assert.Empty(t, f.store.CardTransactions())
		assert.Contains(t, f.logger.Messages(coreport.LogLevelWarn), "Card charge declined")
	})

	t.Run("Single use card", func(t *testing.T) {
		f := newCardFixture(t)
		account := f.account(t, f.userID, entity.AccountChecking, "100")
		card, err := f.service.CreateVirtual(ctx, f.userID, usecase.CreateVirtualCardCommand{AccountID: &account.ID, CardType: "virtual_single_use"})
		require.NoError(t, err)

		_, err = f.service.Charge(ctx, f.userID, card.ID, usecase.ChargeCardCommand{Amount: "10", MerchantName: "Shop"})
		require.NoError(t, err)
		_, err = f.service.Charge(ctx, f.userID, card.ID, usecase.ChargeCardCommand{Amount: "10", MerchantName: "Shop"})
		assert.ErrorIs(t, err, errs.ErrCardNotUsable)
		assert.Equal(t, "90.00000000", entity.FormatMoney(f.store.Account(account.ID).AvailableBalance))
	})

	t.Run("Insufficient funds", func(t *testing.T) {
		f := newCardFixture(t)
		account := f.account(t, f.userID, entity.AccountChecking, "5")
		card, err := f.service.Issue(ctx, f.userID, usecase.IssueCardCommand{AccountID: account.ID, CardType: "physical"})
		require.NoError(t, err)

		_, err = f.service.Charge(ctx, f.userID, card.ID, usecase.ChargeCardCommand{Amount: "5.01", MerchantName: "Shop"})
		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		assert.Equal(t, 0, f.store.Card(card.ID).UsageCount)
	})
}
