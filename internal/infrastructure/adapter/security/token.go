package security

import (
	"errors"
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload of access and refresh tokens
type Claims struct {
	UserID string         `json:"user_id"`
	Type   core.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens
type JWTIssuer struct {
	secret       []byte
	issuer       string
	accessTTL    time.Duration
	refreshTTL   time.Duration
	timeProvider core.TimeProvider
}

// NewJWTIssuer creates a new token issuer
func NewJWTIssuer(secret, issuer string, accessTTL, refreshTTL time.Duration, timeProvider core.TimeProvider) *JWTIssuer {
	return &JWTIssuer{
		secret:       []byte(secret),
		issuer:       issuer,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		timeProvider: timeProvider,
	}
}

// Issue creates an access/refresh pair for the user
func (j *JWTIssuer) Issue(userID uuid.UUID) (*core.TokenPair, error) {
	now := j.timeProvider.Now()

	access, accessExp, err := j.sign(userID, core.TokenTypeAccess, now, j.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := j.sign(userID, core.TokenTypeRefresh, now, j.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &core.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (j *JWTIssuer) sign(userID uuid.UUID, kind core.TokenType, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := Claims{
		UserID: userID.String(),
		Type:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, exp, nil
}

// Verify checks signature, expiry, issuer and token type. Every failure is
// reported as ErrUnauthorized.
func (j *JWTIssuer) Verify(token string, expected core.TokenType) (uuid.UUID, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.timeProvider.Now),
		jwt.WithExpirationRequired(),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("%w: token expired", errs.ErrUnauthorized)
		}
		return uuid.Nil, fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
	}
	if claims.Type != expected {
		return uuid.Nil, fmt.Errorf("%w: expected %s token", errs.ErrUnauthorized, expected)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid user_id claim", errs.ErrUnauthorized)
	}
	return userID, nil
}
