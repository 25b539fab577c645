package persistence

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
)

// UserRepository stores users. Users are never hard deleted.
type UserRepository interface {
	// Create saves a new user
	//
	// Possible errors:
	// - ErrDuplicate: If the email or username is taken
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// GetByEmail retrieves a user by email, case insensitively
	//
	// Possible errors:
	// - ErrUserNotFound: If no user has the email
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// Exists reports whether the email or the username is already taken
	Exists(ctx context.Context, email, username string) (bool, error)

	// Update saves profile, wallet and KYC changes
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	Update(ctx context.Context, user *entity.User) error
}

// PreferenceRepository stores the one preference row of each user
type PreferenceRepository interface {
	// Get retrieves the preferences of a user
	//
	// Possible errors:
	// - ErrNotFound: If the user has no preference row yet
	Get(ctx context.Context, userID uuid.UUID) (*entity.UserPreference, error)

	// Save inserts or replaces the preferences of a user
	Save(ctx context.Context, pref *entity.UserPreference) error
}
