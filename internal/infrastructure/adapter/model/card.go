package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Card represents the database model for payment cards
type Card struct {
	ID                   uuid.UUID        `gorm:"type:uuid;primaryKey"`
	AccountID            uuid.UUID        `gorm:"type:uuid;not null;index"`
	UserID               uuid.UUID        `gorm:"type:uuid;not null;index"`
	CardNumber           string           `gorm:"size:19;not null;uniqueIndex"`
	CardNumberEncrypted  string           `gorm:"type:text;not null"`
	CVV                  string           `gorm:"column:cvv;size:4;not null"`
	CVVEncrypted         string           `gorm:"column:cvv_encrypted;type:text;not null"`
	ExpiryMonth          int              `gorm:"not null"`
	ExpiryYear           int              `gorm:"not null"`
	CardType             string           `gorm:"size:30;not null"`
	Status               string           `gorm:"size:20;not null"`
	Nickname             string           `gorm:"size:100"`
	SpendingLimit        *decimal.Decimal `gorm:"type:numeric(20,8)"`
	SpentAmount          decimal.Decimal  `gorm:"type:numeric(20,8);not null"`
	MerchantName         string           `gorm:"size:255"`
	UsageCount           int              `gorm:"not null"`
	MaxUsageCount        *int
	ContactlessEnabled   bool `gorm:"not null"`
	OnlineEnabled        bool `gorm:"not null"`
	InternationalEnabled bool `gorm:"not null"`
	LastUsedAt           *time.Time
	ExpiresAt            time.Time `gorm:"not null"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`

	Account Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Card
func (Card) TableName() string {
	return "cards"
}

// CardTransaction is the card side record of an approved charge
type CardTransaction struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CardID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	TransactionID     uuid.UUID       `gorm:"type:uuid;not null"`
	Amount            decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Currency          string          `gorm:"size:3;not null"`
	MerchantName      string          `gorm:"size:255"`
	MerchantCategory  string          `gorm:"size:100"`
	MerchantLocation  string          `gorm:"size:255"`
	AuthorizationCode string          `gorm:"size:20"`
	ProcessorResponse string          `gorm:"type:text"`
	CreatedAt         time.Time       `gorm:"not null;index"`

	Card        Card        `gorm:"foreignKey:CardID;references:ID;constraint:OnDelete:CASCADE"`
	Transaction Transaction `gorm:"foreignKey:TransactionID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for CardTransaction
func (CardTransaction) TableName() string {
	return "card_transactions"
}
