package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"gorm.io/gorm"
)

// indexStatement is one CREATE INDEX the ORM tags cannot express
type indexStatement struct {
	name string
	sql  string
}

var advancedIndexes = []indexStatement{
	{
		// a nil account and an empty type are wildcards, so the key needs COALESCE
		name: "idx_transaction_limits_scope",
		sql: `CREATE UNIQUE INDEX IF NOT EXISTS idx_transaction_limits_scope
			ON transaction_limits (user_id, COALESCE(account_id, '00000000-0000-0000-0000-000000000000'::uuid), transaction_type, limit_type)`,
	},
	{
		name: "idx_users_email_lower",
		sql:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))`,
	},
	{
		name: "idx_defi_positions_active_key",
		sql: `CREATE UNIQUE INDEX IF NOT EXISTS idx_defi_positions_active_key
			ON defi_positions (user_id, LOWER(protocol), token_in_id) WHERE is_active`,
	},
	{
		name: "idx_recurring_due",
		sql: `CREATE INDEX IF NOT EXISTS idx_recurring_due
			ON recurring_transactions (next_execution) WHERE is_active`,
	},
	{
		name: "idx_transactions_from_status_created",
		sql: `CREATE INDEX IF NOT EXISTS idx_transactions_from_status_created
			ON transactions (from_account_id, status, created_at)`,
	},
	{
		name: "idx_transactions_created_at_brin",
		sql: `CREATE INDEX IF NOT EXISTS idx_transactions_created_at_brin
			ON transactions USING BRIN (created_at) WITH (pages_per_range = 32)`,
	},
	{
		name: "idx_card_transactions_card_created",
		sql: `CREATE INDEX IF NOT EXISTS idx_card_transactions_card_created
			ON card_transactions (card_id, created_at DESC)`,
	},
}

// AdvancedIndexManager manages PostgreSQL-specific indexes and table settings
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{db: db, logger: logger}
}

// CreateAdvancedIndexes creates expression, partial and BRIN indexes
func (m *AdvancedIndexManager) CreateAdvancedIndexes(ctx context.Context) error {
	m.logger.Info("Creating advanced PostgreSQL indexes", nil)

	for _, idx := range advancedIndexes {
		if err := m.db.WithContext(ctx).Exec(idx.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", map[string]any{
		"count": len(advancedIndexes),
	})
	return nil
}

// CreatePerformanceTweaks tunes the hot tables. Failures are logged only.
func (m *AdvancedIndexManager) CreatePerformanceTweaks(ctx context.Context) error {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	tweaks := []string{
		// balances are rewritten on every posting, leave room for HOT updates
		`ALTER TABLE accounts SET (fillfactor = 80)`,
		`ALTER TABLE account_limits SET (fillfactor = 80)`,
		`ALTER TABLE transactions SET (fillfactor = 90)`,
		`ALTER TABLE transactions ALTER COLUMN from_account_id SET STATISTICS 1000`,
	}
	for _, sql := range tweaks {
		if err := m.db.WithContext(ctx).Exec(sql).Error; err != nil {
			m.logger.Warn("Failed to apply table tweak", map[string]any{
				"sql":   sql,
				"error": err.Error(),
			})
		}
	}
	return nil
}
