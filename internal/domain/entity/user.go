package entity

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/google/uuid"
)

// KYCStatus is the know-your-customer state of a user
type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
	KYCExpired  KYCStatus = "expired"
)

// IsValid reports whether the status is one of the known values
func (s KYCStatus) IsValid() bool {
	switch s {
	case KYCPending, KYCVerified, KYCRejected, KYCExpired:
		return true
	}
	return false
}

var walletAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsWalletAddress reports whether s is a 0x-prefixed 20 byte hex address
func IsWalletAddress(s string) bool {
	return walletAddressPattern.MatchString(s)
}

// User represents a customer of the platform
type User struct {
	ID            uuid.UUID
	Email         string
	Username      string
	PasswordHash  string
	FirstName     string
	LastName      string
	PhoneNumber   string
	DateOfBirth   *time.Time
	WalletAddress string
	KYCStatus     KYCStatus
	KYCVerifiedAt *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUserParams holds the registration data of a user
type NewUserParams struct {
	Email         string
	Username      string
	PasswordHash  string
	FirstName     string
	LastName      string
	PhoneNumber   string
	DateOfBirth   *time.Time
	WalletAddress string
}

// NewUser creates a new active user in KYC state pending
func NewUser(p NewUserParams, timeProvider coreport.TimeProvider) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errs.NewValidationError("email", "must be a valid email address")
	}
	if strings.TrimSpace(p.Username) == "" {
		return nil, errs.NewValidationError("username", "is required")
	}
	if p.PasswordHash == "" {
		return nil, errs.NewValidationError("password", "is required")
	}
	if p.WalletAddress != "" && !IsWalletAddress(p.WalletAddress) {
		return nil, errs.NewValidationError("wallet_address", "must be a 0x-prefixed 40 character hex address")
	}

	now := timeProvider.Now()
	return &User{
		ID:            uuid.New(),
		Email:         email,
		Username:      strings.TrimSpace(p.Username),
		PasswordHash:  p.PasswordHash,
		FirstName:     strings.TrimSpace(p.FirstName),
		LastName:      strings.TrimSpace(p.LastName),
		PhoneNumber:   strings.TrimSpace(p.PhoneNumber),
		DateOfBirth:   p.DateOfBirth,
		WalletAddress: p.WalletAddress,
		KYCStatus:     KYCPending,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ProfileUpdate carries the optional profile fields a user may change
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	DateOfBirth *time.Time
}

// UpdateProfile applies the non-nil fields of update
func (u *User) UpdateProfile(update ProfileUpdate, timeProvider coreport.TimeProvider) {
	if update.FirstName != nil {
		u.FirstName = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		u.LastName = strings.TrimSpace(*update.LastName)
	}
	if update.PhoneNumber != nil {
		u.PhoneNumber = strings.TrimSpace(*update.PhoneNumber)
	}
	if update.DateOfBirth != nil {
		u.DateOfBirth = update.DateOfBirth
	}
	u.UpdatedAt = timeProvider.Now()
}

// ConnectWallet sets the wallet address used by the web3 features
func (u *User) ConnectWallet(address string, timeProvider coreport.TimeProvider) error {
	if !IsWalletAddress(address) {
		return errs.NewValidationError("wallet_address", "must be a 0x-prefixed 40 character hex address")
	}
	u.WalletAddress = address
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// SetKYCStatus moves the user to a new KYC state; verified stamps the verification time
func (u *User) SetKYCStatus(status KYCStatus, timeProvider coreport.TimeProvider) error {
	if !status.IsValid() {
		return errs.NewValidationError("kyc_status", "must be one of pending, verified, rejected, expired")
	}

	now := timeProvider.Now()
	u.KYCStatus = status
	if status == KYCVerified {
		u.KYCVerifiedAt = &now
	} else {
		u.KYCVerifiedAt = nil
	}
	u.UpdatedAt = now
	return nil
}

// IsKYCVerified reports whether the user passed KYC
func (u *User) IsKYCVerified() bool {
	return u.KYCStatus == KYCVerified
}

// UserPreference holds per-user settings
type UserPreference struct {
	UserID             uuid.UUID
	PreferredCurrency  Currency
	Language           string
	Timezone           string
	EmailNotifications bool
	PushNotifications  bool
	SMSNotifications   bool
	TwoFactorEnabled   bool
	UpdatedAt          time.Time
}

// DefaultPreferences returns the preferences a new user starts with
func DefaultPreferences(userID uuid.UUID, now time.Time) *UserPreference {
	return &UserPreference{
		UserID:             userID,
		PreferredCurrency:  CurrencyUSD,
		Language:           "en",
		Timezone:           "UTC",
		EmailNotifications: true,
		PushNotifications:  true,
		UpdatedAt:          now,
	}
}

// PreferenceUpdate carries the optional preference fields a user may change
type PreferenceUpdate struct {
	PreferredCurrency  *string
	Language           *string
	Timezone           *string
	EmailNotifications *bool
	PushNotifications  *bool
	SMSNotifications   *bool
	TwoFactorEnabled   *bool
}

// Apply validates and applies the non-nil fields of update
func (p *UserPreference) Apply(update PreferenceUpdate, now time.Time) error {
	if update.PreferredCurrency != nil {
		c, err := ParseCurrency(*update.PreferredCurrency)
		if err != nil {
			return err
		}
		p.PreferredCurrency = c
	}
	if update.Timezone != nil {
		if _, err := time.LoadLocation(*update.Timezone); err != nil {
			return errs.NewValidationError("timezone", "unknown time zone")
		}
		p.Timezone = *update.Timezone
	}
	if update.Language != nil {
		p.Language = *update.Language
	}
	if update.EmailNotifications != nil {
		p.EmailNotifications = *update.EmailNotifications
	}
	if update.PushNotifications != nil {
		p.PushNotifications = *update.PushNotifications
	}
	if update.SMSNotifications != nil {
		p.SMSNotifications = *update.SMSNotifications
	}
	if update.TwoFactorEnabled != nil {
		p.TwoFactorEnabled = *update.TwoFactorEnabled
	}
	p.UpdatedAt = now
	return nil
}
