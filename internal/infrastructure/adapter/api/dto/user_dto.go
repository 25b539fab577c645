package dto

import (
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
)

// RegisterRequest is the body of POST /users/register
type RegisterRequest struct {
	Email           string     `json:"email"`
	Username        string     `json:"username"`
	Password        string     `json:"password"`
	PasswordConfirm string     `json:"password_confirm"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	PhoneNumber     string     `json:"phone_number"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
	WalletAddress   string     `json:"wallet_address"`
}

func (r RegisterRequest) Command() usecase.RegisterUserCommand {
	return usecase.RegisterUserCommand{
		Email:           r.Email,
		Username:        r.Username,
		Password:        r.Password,
		PasswordConfirm: r.PasswordConfirm,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		PhoneNumber:     r.PhoneNumber,
		DateOfBirth:     r.DateOfBirth,
		WalletAddress:   r.WalletAddress,
	}
}

type UpdateProfileRequest struct {
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	PhoneNumber *string    `json:"phone_number"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

func (r UpdateProfileRequest) Command() usecase.UpdateProfileCommand {
	return usecase.UpdateProfileCommand{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
		DateOfBirth: r.DateOfBirth,
	}
}

type ConnectWalletRequest struct {
	WalletAddress string `json:"wallet_address"`
}

type KYCStatusRequest struct {
	Status string `json:"status"`
}

// UserResponse never carries the password hash
type UserResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Username      string  `json:"username"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	FullName      string  `json:"full_name"`
	PhoneNumber   string  `json:"phone_number,omitempty"`
	DateOfBirth   *string `json:"date_of_birth,omitempty"`
	WalletAddress string  `json:"wallet_address,omitempty"`
	KYCStatus     string  `json:"kyc_status"`
	KYCVerifiedAt *string `json:"kyc_verified_at,omitempty"`
	IsActive      bool    `json:"is_active"`
	CreatedAt     string  `json:"created_at"`
}

func NewUserResponse(u *entity.User) UserResponse {
	var dob *string
	if u.DateOfBirth != nil {
		s := u.DateOfBirth.Format(time.DateOnly)
		dob = &s
	}
	return UserResponse{
		ID:            u.ID.String(),
		Email:         u.Email,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		FullName:      u.FullName(),
		PhoneNumber:   u.PhoneNumber,
		DateOfBirth:   dob,
		WalletAddress: u.WalletAddress,
		KYCStatus:     string(u.KYCStatus),
		KYCVerifiedAt: formatTime(u.KYCVerifiedAt),
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type PreferencesRequest struct {
	PreferredCurrency  *string `json:"preferred_currency"`
	Language           *string `json:"language"`
	Timezone           *string `json:"timezone"`
	EmailNotifications *bool   `json:"email_notifications"`
	PushNotifications  *bool   `json:"push_notifications"`
	SMSNotifications   *bool   `json:"sms_notifications"`
	TwoFactorEnabled   *bool   `json:"two_factor_enabled"`
}

func (r PreferencesRequest) Command() usecase.UpdatePreferencesCommand {
	return usecase.UpdatePreferencesCommand{
		PreferredCurrency:  r.PreferredCurrency,
		Language:           r.Language,
		Timezone:           r.Timezone,
		EmailNotifications: r.EmailNotifications,
		PushNotifications:  r.PushNotifications,
		SMSNotifications:   r.SMSNotifications,
		TwoFactorEnabled:   r.TwoFactorEnabled,
	}
}

type PreferencesResponse struct {
	PreferredCurrency  string `json:"preferred_currency"`
	Language           string `json:"language"`
	Timezone           string `json:"timezone"`
	EmailNotifications bool   `json:"email_notifications"`
	PushNotifications  bool   `json:"push_notifications"`
	SMSNotifications   bool   `json:"sms_notifications"`
	TwoFactorEnabled   bool   `json:"two_factor_enabled"`
}

func NewPreferencesResponse(p *entity.UserPreference) PreferencesResponse {
	return PreferencesResponse{
		PreferredCurrency:  string(p.PreferredCurrency),
		Language:           p.Language,
		Timezone:           p.Timezone,
		EmailNotifications: p.EmailNotifications,
		PushNotifications:  p.PushNotifications,
		SMSNotifications:   p.SMSNotifications,
		TwoFactorEnabled:   p.TwoFactorEnabled,
	}
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	AccessExpiresAt  string `json:"access_expires_at"`
	RefreshExpiresAt string `json:"refresh_expires_at"`
}

// NewTokenResponse maps an issued token pair
func NewTokenResponse(p *core.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		TokenType:        "Bearer",
		AccessExpiresAt:  p.AccessExpiresAt.UTC().Format(time.RFC3339),
		RefreshExpiresAt: p.RefreshExpiresAt.UTC().Format(time.RFC3339),
	}
}
