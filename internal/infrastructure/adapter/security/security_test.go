package security

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	mockcore "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.NoError(t, h.Compare(hash, "correct-horse"))
	assert.ErrorIs(t, h.Compare(hash, "battery-staple"), errs.ErrInvalidCredentials)

	err = h.Compare("not-a-bcrypt-hash", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestJWTIssuer(t *testing.T) {
	clock := &mockcore.FixedTimeProvider{At: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer := NewJWTIssuer("secret", "fintech-backoffice", time.Hour, 7*24*time.Hour, clock)
	userID := uuid.New()

	pair, err := issuer.Issue(userID)
	require.NoError(t, err)
	assert.Equal(t, clock.At.Add(time.Hour), pair.AccessExpiresAt)
	assert.Equal(t, clock.At.Add(7*24*time.Hour), pair.RefreshExpiresAt)

	t.Run("access token verifies as access", func(t *testing.T) {
		got, err := issuer.Verify(pair.AccessToken, core.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := issuer.Verify(pair.RefreshToken, core.TokenTypeAccess)
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTIssuer("other", "fintech-backoffice", time.Hour, time.Hour, clock)
		_, err := other.Verify(pair.AccessToken, core.TokenTypeAccess)
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTIssuer("secret", "someone-else", time.Hour, time.Hour, clock)
		_, err := other.Verify(pair.AccessToken, core.TokenTypeAccess)
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		later := &mockcore.FixedTimeProvider{At: clock.At.Add(2 * time.Hour)}
		verifier := NewJWTIssuer("secret", "fintech-backoffice", time.Hour, time.Hour, later)
		_, err := verifier.Verify(pair.AccessToken, core.TokenTypeAccess)
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Verify("not.a.jwt", core.TokenTypeAccess)
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}

func TestAEADEncryptor(t *testing.T) {
	enc, err := NewAEADEncryptor(testKey)
	require.NoError(t, err)

	first, err := enc.Encrypt("4111111111111111")
	require.NoError(t, err)
	second, err := enc.Encrypt("4111111111111111")
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "each call draws a fresh nonce")

	plain, err := enc.Decrypt(first)
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", plain)

	raw, err := base64.StdEncoding.DecodeString(first)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 1
	_, err = enc.Decrypt(base64.StdEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrMalformedCiphertext)

	_, err = enc.Decrypt("AAAA")
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestNewAEADEncryptor_RejectsBadKeys(t *testing.T) {
	_, err := NewAEADEncryptor("zz")
	assert.Error(t, err)

	_, err = NewAEADEncryptor(strings.Repeat("ab", 16))
	assert.ErrorContains(t, err, "must be 32 bytes")
}
