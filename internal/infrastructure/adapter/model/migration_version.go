package model

import (
	"time"
)

// MigrationVersion records one applied schema migration
type MigrationVersion struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Version   string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name      string    `gorm:"size:100;not null"`
	AppliedAt time.Time `gorm:"not null"`
	Details   string    `gorm:"type:text"`
}

// TableName specifies the table name for the migration version model
func (MigrationVersion) TableName() string {
	return "migration_versions"
}

// All lists every model in foreign key order for schema migration
func All() []any {
	return []any{
		&User{},
		&UserPreference{},
		&Account{},
		&AccountLimit{},
		&TransactionLimit{},
		&TransactionCategory{},
		&Transaction{},
		&TransactionDispute{},
		&RecurringTransaction{},
		&Card{},
		&CardTransaction{},
		&SupportedNetwork{},
		&TokenContract{},
		&WalletBalance{},
		&SmartContractInteraction{},
		&DeFiPosition{},
	}
}
