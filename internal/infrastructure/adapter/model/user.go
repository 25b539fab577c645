package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents the database model for users
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email         string     `gorm:"size:255;not null;uniqueIndex"`
	Username      string     `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash  string     `gorm:"size:255;not null"`
	FirstName     string     `gorm:"size:100"`
	LastName      string     `gorm:"size:100"`
	PhoneNumber   string     `gorm:"size:20"`
	DateOfBirth   *time.Time `gorm:"type:date"`
	WalletAddress string     `gorm:"size:42;index"`
	KYCStatus     string     `gorm:"column:kyc_status;size:20;not null"`
	KYCVerifiedAt *time.Time `gorm:"column:kyc_verified_at"`
	IsActive      bool       `gorm:"not null"`
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// UserPreference holds the single preference row of a user
type UserPreference struct {
	UserID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PreferredCurrency  string    `gorm:"size:3;not null"`
	Language           string    `gorm:"size:10;not null"`
	Timezone           string    `gorm:"size:50;not null"`
	EmailNotifications bool      `gorm:"not null"`
	PushNotifications  bool      `gorm:"not null"`
	SMSNotifications   bool      `gorm:"column:sms_notifications;not null"`
	TwoFactorEnabled   bool      `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for UserPreference
func (UserPreference) TableName() string {
	return "user_preferences"
}
