package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents the database model for accounts. The composite unique
// index enforces one account per (user, type, currency).
type Account struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_accounts_user_type_currency,priority:1"`
	AccountNumber    string          `gorm:"size:20;not null;uniqueIndex"`
	AccountType      string          `gorm:"size:20;not null;uniqueIndex:idx_accounts_user_type_currency,priority:2"`
	Currency         string          `gorm:"size:3;not null;uniqueIndex:idx_accounts_user_type_currency,priority:3"`
	AvailableBalance decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	LedgerBalance    decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	PendingBalance   decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	IsActive         bool            `gorm:"not null"`
	IsFrozen         bool            `gorm:"not null"`
	ChainID          *int64
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// AccountLimit is an account level limit counter
type AccountLimit struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_account_limits_account_type,priority:1"`
	LimitType   string          `gorm:"size:30;not null;uniqueIndex:idx_account_limits_account_type,priority:2"`
	LimitAmount decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	UsedAmount  decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	ResetPeriod string          `gorm:"size:10;not null"`
	LastReset   time.Time       `gorm:"not null"`
	IsActive    bool            `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`

	Account Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for AccountLimit
func (AccountLimit) TableName() string {
	return "account_limits"
}

// TransactionLimit is a user level limit counter. An empty transaction type
// matches every type and a nil account matches every account.
type TransactionLimit struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID       *uuid.UUID      `gorm:"type:uuid"`
	TransactionType string          `gorm:"size:20;not null"`
	LimitType       string          `gorm:"size:30;not null"`
	LimitAmount     decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	UsedAmount      decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	ResetPeriod     string          `gorm:"size:10;not null"`
	LastReset       time.Time       `gorm:"not null"`
	IsActive        bool            `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for TransactionLimit
func (TransactionLimit) TableName() string {
	return "transaction_limits"
}
