package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents the database model for ledger entries
type Transaction struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ReferenceNumber  string           `gorm:"size:50;not null;uniqueIndex"`
	FromAccountID    *uuid.UUID       `gorm:"type:uuid;index"`
	ToAccountID      *uuid.UUID       `gorm:"type:uuid;index"`
	Amount           decimal.Decimal  `gorm:"type:numeric(20,8);not null"`
	Currency         string           `gorm:"size:3;not null"`
	FeeAmount        decimal.Decimal  `gorm:"type:numeric(20,8);not null"`
	NetAmount        decimal.Decimal  `gorm:"type:numeric(20,8);not null"`
	ExchangeRate     *decimal.Decimal `gorm:"type:numeric(20,10)"`
	TransactionType  string           `gorm:"size:20;not null"`
	Status           string           `gorm:"size:20;not null;index"`
	Description      string           `gorm:"type:text"`
	CategoryID       *uuid.UUID       `gorm:"type:uuid"`
	MerchantName     string           `gorm:"size:255"`
	BlockchainTxHash string           `gorm:"size:66"`
	ChainID          *int64
	InitiatedBy      uuid.UUID  `gorm:"type:uuid;not null"`
	FailureReason    string     `gorm:"type:text"`
	ProcessedAt      *time.Time
	CreatedAt        time.Time `gorm:"not null;index"`
	UpdatedAt        time.Time `gorm:"not null"`

	FromAccount *Account             `gorm:"foreignKey:FromAccountID;references:ID;constraint:OnDelete:CASCADE"`
	ToAccount   *Account             `gorm:"foreignKey:ToAccountID;references:ID;constraint:OnDelete:CASCADE"`
	Category    *TransactionCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:SET NULL"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionCategory groups transactions for spending analysis
type TransactionCategory struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"size:100;not null;uniqueIndex"`
	Description string     `gorm:"type:text"`
	Icon        string     `gorm:"size:50"`
	Color       string     `gorm:"size:7;not null"`
	ParentID    *uuid.UUID `gorm:"type:uuid"`
	IsActive    bool       `gorm:"not null"`
	CreatedAt   time.Time  `gorm:"not null"`
}

// TableName specifies the table name for TransactionCategory
func (TransactionCategory) TableName() string {
	return "transaction_categories"
}

// TransactionDispute is a customer dispute, unique per transaction
type TransactionDispute struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	RaisedBy      uuid.UUID `gorm:"type:uuid;not null"`
	Reason        string    `gorm:"size:30;not null"`
	Description   string    `gorm:"type:text;not null"`
	Status        string    `gorm:"size:20;not null"`
	Resolution    string    `gorm:"type:text"`
	ResolvedAt    *time.Time
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`

	Transaction Transaction `gorm:"foreignKey:TransactionID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for TransactionDispute
func (TransactionDispute) TableName() string {
	return "transaction_disputes"
}

// CategorySpendingRow is the scan target of the spending aggregate
type CategorySpendingRow struct {
	CategoryID   *uuid.UUID
	CategoryName *string
	Total        decimal.Decimal
	Count        int
}
