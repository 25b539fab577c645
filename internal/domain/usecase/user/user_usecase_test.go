package user

import (
	"context"
	"errors"
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

var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func setupUserUseCase(t *testing.T) (*UserUseCase, *mpers.MemoryStore, *mcore.MockPasswordHasher, *mcore.MockValidator) {
	t.Helper()
	store := mpers.NewMemoryStore()
	hasher := new(mcore.MockPasswordHasher)
	validator := new(mcore.MockValidator)
	return NewUserUseCase(store, hasher, validator, mcore.FixedTimeProvider{At: testNow}, &mcore.RecordingLogger{}), store, hasher, validator
}

func registerCommand() usecase.RegisterUserCommand {
	return usecase.RegisterUserCommand{
		Email:           "Alice@Example.com",
		Username:        "alice",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
		FirstName:       "Alice",
	}
}

func TestUserUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates user and default preferences", func(t *testing.T) {
		uc, store, hasher, validator := setupUserUseCase(t)
		validator.On("Struct", mock.Anything).Return(nil)
		hasher.On("Hash", "correct-horse").Return("bcrypt-hash", nil)

		user, err := uc.Register(ctx, registerCommand())
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "bcrypt-hash", user.PasswordHash)
		assert.Equal(t, entity.KYCPending, user.KYCStatus)

		pref, err := store.GetPreferenceRepository(ctx).Get(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.CurrencyUSD, pref.PreferredCurrency)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		uc, _, hasher, validator := setupUserUseCase(t)
		validator.On("Struct", mock.Anything).Return(nil)
		hasher.On("Hash", mock.Anything).Return("h", nil)

		_, err := uc.Register(ctx, registerCommand())
		require.NoError(t, err)

		cmd := registerCommand()
		cmd.Username = "alice2"
		_, err = uc.Register(ctx, cmd)
		assert.ErrorIs(t, err, errs.ErrDuplicate)
		assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	})

	t.Run("Validation failure stops before hashing", func(t *testing.T) {
		uc, _, hasher, validator := setupUserUseCase(t)
		validator.On("Struct", mock.Anything).Return(errs.NewValidationError("password_confirm", "must match password"))

		_, err := uc.Register(ctx, registerCommand())
		assert.ErrorIs(t, err, errs.ErrValidation)
		hasher.AssertNotCalled(t, "Hash", mock.Anything)
	})

	t.Run("Hash failure", func(t *testing.T) {
		uc, _, hasher, validator := setupUserUseCase(t)
		validator.On("Struct", mock.Anything).Return(nil)
		hasher.On("Hash", mock.Anything).Return("", errors.New("boom"))

		_, err := uc.Register(ctx, registerCommand())
		assert.Error(t, err)
		assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
	})
}

func TestUserUseCase_Profile(t *testing.T) {
	ctx := context.Background()
	uc, _, hasher, validator := setupUserUseCase(t)
	validator.On("Struct", mock.Anything).Return(nil)
	hasher.On("Hash", mock.Anything).Return("h", nil)

	user, err := uc.Register(ctx, registerCommand())
	require.NoError(t, err)

	last := "  Liddell "
	updated, err := uc.UpdateProfile(ctx, user.ID, usecase.UpdateProfileCommand{LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.FullName())

	_, err = uc.ConnectWallet(ctx, user.ID, "not-a-wallet")
	assert.ErrorIs(t, err, errs.ErrValidation)

	wallet := "0x52908400098527886E0F7030069857D2E4169EE7"
	updated, err = uc.ConnectWallet(ctx, user.ID, wallet)
	require.NoError(t, err)
	assert.Equal(t, wallet, updated.WalletAddress)

	verified, err := uc.SetKYCStatus(ctx, user.ID, entity.KYCVerified)
	require.NoError(t, err)
	assert.True(t, verified.IsKYCVerified())
	require.NotNil(t, verified.KYCVerifiedAt)

	profile, err := uc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.KYCVerified, profile.KYCStatus)

	_, err = uc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestUserUseCase_Preferences(t *testing.T) {
	ctx := context.Background()
	uc, store, _, validator := setupUserUseCase(t)
	validator.On("Struct", mock.Anything).Return(nil)

	// users created before preferences existed get defaults on first read
	legacy, err := entity.NewUser(entity.NewUserParams{Email: "old@example.com", Username: "old", PasswordHash: "h"}, mcore.FixedTimeProvider{At: testNow})
	require.NoError(t, err)
	store.PutUser(legacy)

	pref, err := uc.GetPreferences(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, "en", pref.Language)

	currency, twoFactor := "eur", true
	pref, err = uc.UpdatePreferences(ctx, legacy.ID, usecase.UpdatePreferencesCommand{PreferredCurrency: &currency, TwoFactorEnabled: &twoFactor})
	require.NoError(t, err)
	assert.Equal(t, entity.CurrencyEUR, pref.PreferredCurrency)
	assert.True(t, pref.TwoFactorEnabled)

	zone := "Mars/Olympus"
	_, err = uc.UpdatePreferences(ctx, legacy.ID, usecase.UpdatePreferencesCommand{Timezone: &zone})
	assert.ErrorIs(t, err, errs.ErrValidation)

	stored, err := store.GetPreferenceRepository(ctx).Get(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, "UTC", stored.Timezone)
	assert.Equal(t, entity.CurrencyEUR, stored.PreferredCurrency)
}
