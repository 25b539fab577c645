package usecase

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
)

// RegisterUserCommand is the input of a self service registration
type RegisterUserCommand struct {
	Email           string     `validate:"required,email,max=254"`
	Username        string     `validate:"required,min=3,max=50,alphanum"`
	Password        string     `validate:"required,min=8,max=128"`
	PasswordConfirm string     `validate:"required,eqfield=Password"`
	FirstName       string     `validate:"max=100"`
	LastName        string     `validate:"max=100"`
	PhoneNumber     string     `validate:"omitempty,e164"`
	DateOfBirth     *time.Time `validate:"omitempty"`
	WalletAddress   string     `validate:"omitempty,eth_addr"`
}

// UpdateProfileCommand changes the non-nil profile fields
type UpdateProfileCommand struct {
	FirstName   *string    `validate:"omitempty,max=100"`
	LastName    *string    `validate:"omitempty,max=100"`
	PhoneNumber *string    `validate:"omitempty,e164"`
	DateOfBirth *time.Time `validate:"omitempty"`
}

// UpdatePreferencesCommand changes the non-nil preference fields
type UpdatePreferencesCommand struct {
	PreferredCurrency  *string `validate:"omitempty,len=3|len=4"`
	Language           *string `validate:"omitempty,min=2,max=10"`
	Timezone           *string `validate:"omitempty,max=50"`
	EmailNotifications *bool
	PushNotifications  *bool
	SMSNotifications   *bool
	TwoFactorEnabled   *bool
}

// UserUseCase manages identities, profiles and preferences
type UserUseCase interface {
	// Register creates a user with default preferences
	Register(ctx context.Context, cmd RegisterUserCommand) (*entity.User, error)

	// GetProfile returns the user
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// UpdateProfile applies profile changes
	UpdateProfile(ctx context.Context, userID uuid.UUID, cmd UpdateProfileCommand) (*entity.User, error)

	// ConnectWallet stores the wallet address used by the web3 features
	ConnectWallet(ctx context.Context, userID uuid.UUID, address string) (*entity.User, error)

	// GetPreferences returns the preferences, creating defaults when missing
	GetPreferences(ctx context.Context, userID uuid.UUID) (*entity.UserPreference, error)

	// UpdatePreferences applies preference changes
	UpdatePreferences(ctx context.Context, userID uuid.UUID, cmd UpdatePreferencesCommand) (*entity.UserPreference, error)

	// SetKYCStatus is the back-office KYC decision
	SetKYCStatus(ctx context.Context, userID uuid.UUID, status entity.KYCStatus) (*entity.User, error)
}
