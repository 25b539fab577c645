package core

import (
	"time"

	"github.com/google/uuid"
)

// Encryptor protects sensitive card data at rest.
// Implementations must be safe for concurrent use.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenType distinguishes access tokens from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenPair is the result of a successful login or refresh
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenIssuer issues and verifies signed tokens
type TokenIssuer interface {
	// Issue creates a new access/refresh pair for the user
	Issue(userID uuid.UUID) (*TokenPair, error)
	// Verify checks signature, expiry and type and returns the user id
	Verify(token string, expected TokenType) (uuid.UUID, error)
}
