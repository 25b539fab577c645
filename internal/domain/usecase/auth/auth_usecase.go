package auth

import (
	"context"
	"errors"
	"strings"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
)

var _ usecase.AuthUseCase = (*AuthUseCase)(nil)

// AuthUseCase turns credentials into tokens and tokens into user ids
type AuthUseCase struct {
	uow       persistence.UnitOfWork
	hasher    coreport.PasswordHasher
	tokens    coreport.TokenIssuer
	validator coreport.Validator
	logger    coreport.Logger
}

// NewAuthUseCase creates a new AuthUseCase
func NewAuthUseCase(
	uow persistence.UnitOfWork,
	hasher coreport.PasswordHasher,
	tokens coreport.TokenIssuer,
	validator coreport.Validator,
	logger coreport.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		uow:       uow,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
	}
}

// Login verifies the credentials of an active user. Unknown emails, wrong
// passwords and inactive users all fail the same way.
func (u *AuthUseCase) Login(ctx context.Context, cmd usecase.LoginCommand) (*coreport.TokenPair, error) {
	if err := u.validator.Struct(cmd); err != nil {
		return nil, err
	}

	user, err := u.uow.GetUserRepository(ctx).GetByEmail(ctx, strings.ToLower(strings.TrimSpace(cmd.Email)))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errs.ErrInvalidCredentials
	}
	if err := u.hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		u.logger.Warn("Login failed", map[string]any{"user_id": user.ID.String()})
		return nil, errs.ErrInvalidCredentials
	}

	pair, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	u.logger.Info("User logged in", map[string]any{"user_id": user.ID.String()})
	return pair, nil
}

// Refresh exchanges a valid refresh token of an active user for a new pair
func (u *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*coreport.TokenPair, error) {
	userID, err := u.activeUser(ctx, refreshToken, coreport.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	return u.tokens.Issue(userID)
}

// Authenticate resolves an access token to the id of an active user
func (u *AuthUseCase) Authenticate(ctx context.Context, accessToken string) (uuid.UUID, error) {
	return u.activeUser(ctx, accessToken, coreport.TokenTypeAccess)
}

func (u *AuthUseCase) activeUser(ctx context.Context, token string, expected coreport.TokenType) (uuid.UUID, error) {
	userID, err := u.tokens.Verify(token, expected)
	if err != nil {
		return uuid.Nil, err
	}

	user, err := u.uow.GetUserRepository(ctx).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return uuid.Nil, errs.ErrUnauthorized
		}
		return uuid.Nil, err
	}
	if !user.IsActive {
		return uuid.Nil, errs.ErrUnauthorized
	}
	return user.ID, nil
}
