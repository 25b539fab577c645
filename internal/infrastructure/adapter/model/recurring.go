package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringTransaction is a template that spawns pending transactions
type RecurringTransaction struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	FromAccountID     *uuid.UUID      `gorm:"type:uuid"`
	ToAccountID       *uuid.UUID      `gorm:"type:uuid"`
	Amount            decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Currency          string          `gorm:"size:3;not null"`
	TransactionType   string          `gorm:"size:20;not null"`
	Description       string          `gorm:"type:text"`
	CategoryID        *uuid.UUID      `gorm:"type:uuid"`
	Frequency         string          `gorm:"size:20;not null"`
	StartDate         time.Time       `gorm:"not null"`
	EndDate           *time.Time
	NextExecution     time.Time `gorm:"not null"`
	LastExecuted      *time.Time
	ExecutionCount    int        `gorm:"not null"`
	MaxExecutions     *int
	IsActive          bool       `gorm:"not null"`
	LastTransactionID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt         time.Time  `gorm:"not null"`
	UpdatedAt         time.Time  `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for RecurringTransaction
func (RecurringTransaction) TableName() string {
	return "recurring_transactions"
}
