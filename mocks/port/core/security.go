package core

import (
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockEncryptor is a testify mock of core.Encryptor
type MockEncryptor struct {
	mock.Mock
}

func (m *MockEncryptor) Encrypt(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *MockEncryptor) Decrypt(ciphertext string) (string, error) {
	args := m.Called(ciphertext)
	return args.String(0), args.Error(1)
}

// ReverseEncryptor is a reversible stand-in for tests that only need round trips
type ReverseEncryptor struct{}

func (ReverseEncryptor) Encrypt(plaintext string) (string, error) { return "enc:" + reverse(plaintext), nil }

func (ReverseEncryptor) Decrypt(ciphertext string) (string, error) {
	return reverse(ciphertext[len("enc:"):]), nil
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// MockPasswordHasher is a testify mock of core.PasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

// MockTokenIssuer is a testify mock of core.TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID uuid.UUID) (*core.TokenPair, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*core.TokenPair), args.Error(1)
}

func (m *MockTokenIssuer) Verify(token string, expected core.TokenType) (uuid.UUID, error) {
	args := m.Called(token, expected)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockValidator is a testify mock of core.Validator
type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Struct(cmd any) error {
	args := m.Called(cmd)
	return args.Error(0)
}
