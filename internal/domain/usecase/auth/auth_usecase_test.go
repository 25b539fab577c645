package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	mcore "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	mpers "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAuth(t *testing.T) (*AuthUseCase, *mpers.MemoryStore, *mcore.MockPasswordHasher, *mcore.MockTokenIssuer, *entity.User) {
	t.Helper()
	store := mpers.NewMemoryStore()
	hasher := new(mcore.MockPasswordHasher)
	tokens := new(mcore.MockTokenIssuer)
	validator := new(mcore.MockValidator)
	validator.On("Struct", mock.Anything).Return(nil)

	user, err := entity.NewUser(entity.NewUserParams{
		Email:        "Jane@Example.com",
		Username:     "jane",
		PasswordHash: "hashed",
	}, mcore.FixedTimeProvider{At: time.Now()})
	require.NoError(t, err)
	store.PutUser(user)

	return NewAuthUseCase(store, hasher, tokens, validator, &mcore.RecordingLogger{}), store, hasher, tokens, user
}

func TestAuthUseCase_Login(t *testing.T) {
	ctx := context.Background()
	pair := &coreport.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

	t.Run("Success", func(t *testing.T) {
		uc, _, hasher, tokens, user := setupAuth(t)
		hasher.On("Compare", "hashed", "s3cret-pass").Return(nil)
		tokens.On("Issue", user.ID).Return(pair, nil)

		got, err := uc.Login(ctx, usecase.LoginCommand{Email: " JANE@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.Equal(t, pair, got)
		tokens.AssertExpectations(t)
	})

	t.Run("Wrong password", func(t *testing.T) {
		uc, _, hasher, tokens, _ := setupAuth(t)
		hasher.On("Compare", "hashed", "nope").Return(errors.New("mismatch"))

		_, err := uc.Login(ctx, usecase.LoginCommand{Email: "jane@example.com", Password: "nope"})
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
		assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
		tokens.AssertNotCalled(t, "Issue", mock.Anything)
	})

	t.Run("Unknown email", func(t *testing.T) {
		uc, _, _, _, _ := setupAuth(t)
		_, err := uc.Login(ctx, usecase.LoginCommand{Email: "who@example.com", Password: "x"})
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})

	t.Run("Inactive user", func(t *testing.T) {
		uc, store, _, _, user := setupAuth(t)
		user.IsActive = false
		store.PutUser(user)

		_, err := uc.Login(ctx, usecase.LoginCommand{Email: "jane@example.com", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})
}

func TestAuthUseCase_RefreshAndAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Refresh issues a new pair", func(t *testing.T) {
		uc, _, _, tokens, user := setupAuth(t)
		pair := &coreport.TokenPair{AccessToken: "a2", RefreshToken: "r2"}
		tokens.On("Verify", "r1", coreport.TokenTypeRefresh).Return(user.ID, nil)
		tokens.On("Issue", user.ID).Return(pair, nil)

		got, err := uc.Refresh(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, "a2", got.AccessToken)
	})

	t.Run("Invalid token", func(t *testing.T) {
		uc, _, _, tokens, _ := setupAuth(t)
		tokens.On("Verify", "bad", coreport.TokenTypeAccess).Return(uuid.Nil, errs.ErrUnauthorized)

		_, err := uc.Authenticate(ctx, "bad")
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("Deleted user", func(t *testing.T) {
		uc, _, _, tokens, _ := setupAuth(t)
		tokens.On("Verify", "orphan", coreport.TokenTypeAccess).Return(uuid.New(), nil)

		_, err := uc.Authenticate(ctx, "orphan")
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("Active user", func(t *testing.T) {
		uc, _, _, tokens, user := setupAuth(t)
		tokens.On("Verify", "good", coreport.TokenTypeAccess).Return(user.ID, nil)

		id, err := uc.Authenticate(ctx, "good")
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})
}
