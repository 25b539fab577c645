package migration

import (
	"context"
	"errors"
	"fmt"

	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// step is one schema version. Steps run in order and each is recorded in
// migration_versions once applied.
type step struct {
	version string
	name    string
	run     func(ctx context.Context, m *MigrationManager) error
}

var steps = []step{
	{"1.0.0", "Base schema", func(ctx context.Context, m *MigrationManager) error {
		return m.autoMigrateModels(ctx)
	}},
	{"1.1.0", "Ledger and limit indexes", func(ctx context.Context, m *MigrationManager) error {
		return m.advancedIndexMgr.CreateAdvancedIndexes(ctx)
	}},
	{"1.2.0", "Table tuning", func(ctx context.Context, m *MigrationManager) error {
		return m.advancedIndexMgr.CreatePerformanceTweaks(ctx)
	}},
	{"1.3.0", "Cascading ownership foreign keys", func(ctx context.Context, m *MigrationManager) error {
		return m.recreateOwnershipConstraints(ctx)
	}},
}

// ownershipConstraints are the foreign keys whose ON DELETE rule changed after
// 1.0.0. AutoMigrate never alters an existing constraint, so they are rebuilt.
var ownershipConstraints = []struct {
	model    any
	relation string
}{
	{&model.Account{}, "User"},
	{&model.Card{}, "Account"},
	{&model.CardTransaction{}, "Card"},
	{&model.CardTransaction{}, "Transaction"},
	{&model.RecurringTransaction{}, "User"},
	{&model.Transaction{}, "FromAccount"},
	{&model.Transaction{}, "ToAccount"},
	{&model.Transaction{}, "Category"},
	{&model.TransactionDispute{}, "Transaction"},
}

// CurrentSchemaVersion is the version of the last step
var CurrentSchemaVersion = steps[len(steps)-1].version

// MigrationManager manages database migrations
type MigrationManager struct {
	db               *gorm.DB
	logger           coreport.Logger
	timeProvider     coreport.TimeProvider
	advancedIndexMgr *AdvancedIndexManager
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	return &MigrationManager{
		db:               db,
		logger:           logger,
		timeProvider:     timeProvider,
		advancedIndexMgr: NewAdvancedIndexManager(db, logger),
	}
}

// MigrateAll applies every step newer than the recorded version
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
	})

	if err := m.db.WithContext(ctx).AutoMigrate(&model.MigrationVersion{}); err != nil {
		m.logger.Error("Failed to create migration version table", map[string]any{"error": err.Error()})
		return err
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		m.logger.Error("Failed to check current schema version", map[string]any{"error": err.Error()})
		return err
	}

	pending, err := pendingSteps(currentVersion)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	for _, s := range pending {
		m.logger.Info("Applying migration", map[string]any{
			"from":    currentVersion,
			"version": s.version,
			"name":    s.name,
		})
		if err := s.run(ctx, m); err != nil {
			m.logger.Error("Migration failed", map[string]any{
				"version": s.version,
				"error":   err.Error(),
			})
			return fmt.Errorf("migration %s: %w", s.version, err)
		}
		if err := m.setVersion(ctx, s.version, s.name); err != nil {
			return err
		}
		currentVersion = s.version
	}

	m.logger.Info("Database migrations completed successfully", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// pendingSteps returns the steps after current. An unknown version means the
// database is newer than this binary.
func pendingSteps(current string) ([]step, error) {
	if current == "" {
		return steps, nil
	}
	for i, s := range steps {
		if s.version == current {
			return steps[i+1:], nil
		}
	}
	return nil, fmt.Errorf("unknown schema version %q", current)
}

// GetCurrentVersion returns the last applied version, "" for a fresh database
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (string, error) {
	var version model.MigrationVersion
	err := m.db.WithContext(ctx).Order("applied_at desc, id desc").First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return version.Version, nil
}

func (m *MigrationManager) setVersion(ctx context.Context, version, details string) error {
	return m.db.WithContext(ctx).Create(&model.MigrationVersion{
		Version:   version,
		Name:      details,
		AppliedAt: m.timeProvider.Now(),
		Details:   fmt.Sprintf("target schema %s", CurrentSchemaVersion),
	}).Error
}

func (m *MigrationManager) autoMigrateModels(ctx context.Context) error {
	m.logger.Info("Auto-migrating database models", nil)
	return m.db.WithContext(ctx).AutoMigrate(model.All()...)
}

func (m *MigrationManager) recreateOwnershipConstraints(ctx context.Context) error {
	migrator := m.db.WithContext(ctx).Migrator()
	for _, c := range ownershipConstraints {
		if migrator.HasConstraint(c.model, c.relation) {
			if err := migrator.DropConstraint(c.model, c.relation); err != nil {
				return fmt.Errorf("drop %T.%s constraint: %w", c.model, c.relation, err)
			}
		}
		if err := migrator.CreateConstraint(c.model, c.relation); err != nil {
			return fmt.Errorf("create %T.%s constraint: %w", c.model, c.relation, err)
		}
	}
	return nil
}
