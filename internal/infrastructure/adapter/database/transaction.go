package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

type contextKey string

const txKey contextKey = "tx"

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork implements the unit of work pattern for database transactions.
// The open *gorm.DB transaction travels in the context, and every repository
// getter binds to it when present.
type UnitOfWork struct {
	db          *gorm.DB
	logger      coreport.Logger
	retry       RetryConfig
	classifier  *repository.ErrorClassifier
	errorMapper *ErrorMapper
	metrics     *MetricsCollector
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider, retry RetryConfig) *UnitOfWork {
	classifier := repository.NewErrorClassifier()
	return &UnitOfWork{
		db:          db,
		logger:      logger,
		retry:       retry,
		classifier:  classifier,
		errorMapper: NewErrorMapper(classifier),
		metrics:     NewMetricsCollector(logger, timeProvider),
	}
}

// Begin starts a new database transaction
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.logger.Debug("Beginning database transaction with SERIALIZABLE isolation", nil)

	tx := u.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the current transaction
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return errors.New("no transaction found in context")
	}

	u.logger.Debug("Committing database transaction", nil)
	if err := tx.Commit().Error; err != nil {
		if u.classifier.IsCommitUnconfirmed(err) {
			u.logger.Error("Commit outcome unknown, not retrying", map[string]any{"error": err.Error()})
			return fmt.Errorf("failed to commit transaction: %w: %w", repository.ErrCommitUnconfirmed, err)
		}
		u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back the current transaction. A transaction that already
// ended is not an error.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return errors.New("no transaction found in context")
	}

	u.logger.Debug("Rolling back database transaction", nil)

	err := tx.Rollback().Error
	if errors.Is(err, sql.ErrTxDone) || errors.Is(err, gorm.ErrInvalidTransaction) {
		u.logger.Warn("Transaction has already been committed or rolled back", map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	if err != nil {
		u.logger.Error("Failed to rollback transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Execute runs fn in a SERIALIZABLE transaction and restarts the whole unit
// when it loses a serialization conflict, deadlocks or drops its connection.
// A connection lost while committing is not retried, since the first run may
// already be durable. Called with a context that already holds a transaction,
// fn joins it.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(txCtx context.Context) error) error {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}

	err := RetryOnTransientError(ctx, u.retry, func(attempt int) error {
		_, err := u.metrics.MeasureUnit(ctx, attempt, func() error {
			return u.runOnce(ctx, fn)
		})
		return err
	}, u.classifier, u.logger)

	return u.errorMapper.MapError(err, "unit of work")
}

func (u *UnitOfWork) runOnce(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	txCtx, err := u.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = u.Rollback(txCtx)
			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := u.Rollback(txCtx); rbErr != nil {
			u.logger.Warn("Rollback after failed unit of work", map[string]any{
				"cause": err.Error(),
				"error": rbErr.Error(),
			})
		}
		return err
	}
	return u.Commit(txCtx)
}

func (u *UnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return repository.NewUserRepository(u.getDbFromContext(ctx), u.logger)
}

func (u *UnitOfWork) GetPreferenceRepository(ctx context.Context) persistence.PreferenceRepository {
	return repository.NewPreferenceRepository(u.getDbFromContext(ctx))
}

func (u *UnitOfWork) GetAccountRepository(ctx context.Context) persistence.AccountRepository {
	return repository.NewAccountRepository(u.getDbFromContext(ctx), u.logger)
}

func (u *UnitOfWork) GetAccountLimitRepository(ctx context.Context) persistence.AccountLimitRepository {
	return repository.NewAccountLimitRepository(u.getDbFromContext(ctx))
}

func (u *UnitOfWork) GetTransactionLimitRepository(ctx context.Context) persistence.TransactionLimitRepository {
	return repository.NewTransactionLimitRepository(u.getDbFromContext(ctx))
}

// GetTransactionRepository returns a transaction repository in the current transaction
func (u *UnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return repository.NewTransactionRepository(u.getDbFromContext(ctx), u.logger)
}

func (u *UnitOfWork) GetCategoryRepository(ctx context.Context) persistence.CategoryRepository {
	return repository.NewCategoryRepository(u.getDbFromContext(ctx))
}

func (u *UnitOfWork) GetDisputeRepository(ctx context.Context) persistence.DisputeRepository {
	return repository.NewDisputeRepository(u.getDbFromContext(ctx))
}

func (u *UnitOfWork) GetRecurringRepository(ctx context.Context) persistence.RecurringRepository {
	return repository.NewRecurringRepository(u.getDbFromContext(ctx))
}

func (u *UnitOfWork) GetCardRepository(ctx context.Context) persistence.CardRepository {
	return repository.NewCardRepository(u.getDbFromContext(ctx), u.logger)
}

func (u *UnitOfWork) GetCardTransactionRepository(ctx context.Context) persistence.CardTransactionRepository {
	return repository.NewCardTransactionRepository(u.getDbFromContext(ctx))
}

func (u *UnitOfWork) GetNetworkRepository(ctx context.Context) persistence.NetworkRepository {
	return repository.NewNetworkRepository(u.getDbFromContext(ctx))
}

func (u *UnitOfWork) GetTokenRepository(ctx context.Context) persistence.TokenRepository {
	return repository.NewTokenRepository(u.getDbFromContext(ctx))
}

func (u *UnitOfWork) GetWalletBalanceRepository(ctx context.Context) persistence.WalletBalanceRepository {
	return repository.NewWalletBalanceRepository(u.getDbFromContext(ctx))
}

func (u *UnitOfWork) GetInteractionRepository(ctx context.Context) persistence.InteractionRepository {
	return repository.NewInteractionRepository(u.getDbFromContext(ctx))
}

func (u *UnitOfWork) GetPositionRepository(ctx context.Context) persistence.PositionRepository {
	return repository.NewPositionRepository(u.getDbFromContext(ctx))
}

// getDbFromContext returns the open transaction, or the pool bound to ctx
func (u *UnitOfWork) getDbFromContext(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok && tx != nil {
		return tx
	}
	return u.db.WithContext(ctx)
}
