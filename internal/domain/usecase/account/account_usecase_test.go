package account

import (
	"context"
	"testing"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	mcore "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	mpers "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAccounts(t *testing.T) (*AccountUseCase, *mpers.MemoryStore, uuid.UUID) {
	t.Helper()
	store := mpers.NewMemoryStore()
	clock := mcore.FixedTimeProvider{At: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)}
	validator := new(mcore.MockValidator)
	validator.On("Struct", mock.Anything).Return(nil)

	user, err := entity.NewUser(entity.NewUserParams{Email: "owner@example.com", Username: "owner", PasswordHash: "h"}, clock)
	require.NoError(t, err)
	store.PutUser(user)

	return NewAccountUseCase(store, validator, &mcore.SequenceRandomSource{}, clock, &mcore.RecordingLogger{}), store, user.ID
}

func TestAccountUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Opens an empty account", func(t *testing.T) {
		uc, _, userID := setupAccounts(t)
		account, err := uc.Create(ctx, userID, usecase.CreateAccountCommand{AccountType: "checking", Currency: "usd"})
		require.NoError(t, err)

		assert.Equal(t, entity.CurrencyUSD, account.Currency)
		assert.Len(t, account.AccountNumber, 13)
		assert.Equal(t, "101", account.AccountNumber[:3])
		assert.Equal(t, "0.00000000", entity.FormatMoney(account.AvailableBalance))
		assert.True(t, account.IsActive)
	})

	t.Run("Duplicate type and currency", func(t *testing.T) {
		uc, _, userID := setupAccounts(t)
		cmd := usecase.CreateAccountCommand{AccountType: "savings", Currency: "EUR"}
		_, err := uc.Create(ctx, userID, cmd)
		require.NoError(t, err)

		_, err = uc.Create(ctx, userID, cmd)
		assert.ErrorIs(t, err, errs.ErrDuplicate)
		assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	})

	t.Run("At most ten accounts", func(t *testing.T) {
		uc, _, userID := setupAccounts(t)
		types := []string{"checking", "savings", "investment", "crypto", "business"}
		for _, currency := range []string{"USD", "EUR"} {
			for _, accountType := range types {
				_, err := uc.Create(ctx, userID, usecase.CreateAccountCommand{AccountType: accountType, Currency: currency})
				require.NoError(t, err)
			}
		}

		_, err := uc.Create(ctx, userID, usecase.CreateAccountCommand{AccountType: "checking", Currency: "GBP"})
		assert.ErrorIs(t, err, errs.ErrAccountLimitReached)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("Unknown chain", func(t *testing.T) {
		uc, _, userID := setupAccounts(t)
		chainID := int64(999)
		_, err := uc.Create(ctx, userID, usecase.CreateAccountCommand{AccountType: "crypto", Currency: "ETH", ChainID: &chainID})
		assert.ErrorIs(t, err, errs.ErrUnsupportedNetwork)
	})

	t.Run("Unknown user", func(t *testing.T) {
		uc, _, _ := setupAccounts(t)
		_, err := uc.Create(ctx, uuid.New(), usecase.CreateAccountCommand{AccountType: "checking", Currency: "USD"})
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}

func TestAccountUseCase_FreezeAndOwnership(t *testing.T) {
	ctx := context.Background()
	uc, store, userID := setupAccounts(t)

	account, err := uc.Create(ctx, userID, usecase.CreateAccountCommand{AccountType: "checking", Currency: "USD"})
	require.NoError(t, err)

	_, err = uc.Get(ctx, uuid.New(), account.ID)
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	_, err = uc.Freeze(ctx, uuid.New(), account.ID)
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)

	frozen, err := uc.Freeze(ctx, userID, account.ID)
	require.NoError(t, err)
	assert.True(t, frozen.IsFrozen)
	assert.True(t, store.Account(account.ID).IsFrozen)

	_, err = uc.Unfreeze(ctx, userID, account.ID)
	require.NoError(t, err)
	assert.False(t, store.Account(account.ID).IsFrozen)

	list, err := uc.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
