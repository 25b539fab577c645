package usecase

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/google/uuid"
)

// LoginCommand is an email and password login
type LoginCommand struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// AuthUseCase issues and checks session tokens
type AuthUseCase interface {
	// Login verifies the credentials of an active user and issues a token pair
	Login(ctx context.Context, cmd LoginCommand) (*core.TokenPair, error)

	// Refresh exchanges a refresh token for a new pair
	Refresh(ctx context.Context, refreshToken string) (*core.TokenPair, error)

	// Authenticate resolves an access token to an active user id
	Authenticate(ctx context.Context, accessToken string) (uuid.UUID, error)
}
