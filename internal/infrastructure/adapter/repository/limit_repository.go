package repository

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	_ persistence.AccountLimitRepository     = (*AccountLimitRepository)(nil)
	_ persistence.TransactionLimitRepository = (*TransactionLimitRepository)(nil)
)

// AccountLimitRepository stores account level limit counters
type AccountLimitRepository struct {
	db              *gorm.DB
	errorClassifier *ErrorClassifier
}

// NewAccountLimitRepository creates a new AccountLimitRepository instance
func NewAccountLimitRepository(db *gorm.DB) *AccountLimitRepository {
	return &AccountLimitRepository{db: db, errorClassifier: NewErrorClassifier()}
}

func toAccountLimitModel(l *entity.AccountLimit) model.AccountLimit {
	return model.AccountLimit{
		ID:          l.ID,
		AccountID:   l.AccountID,
		LimitType:   string(l.LimitType),
		LimitAmount: l.LimitAmount,
		UsedAmount:  l.UsedAmount,
		ResetPeriod: string(l.ResetPeriod),
		LastReset:   l.LastReset,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toAccountLimitEntity(m *model.AccountLimit) *entity.AccountLimit {
	return &entity.AccountLimit{
		ID:        m.ID,
		AccountID: m.AccountID,
		LimitType: entity.AccountLimitType(m.LimitType),
		LimitCounter: entity.LimitCounter{
			LimitAmount: m.LimitAmount,
			UsedAmount:  m.UsedAmount,
			ResetPeriod: entity.ResetPeriod(m.ResetPeriod),
			LastReset:   m.LastReset,
			IsActive:    m.IsActive,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *AccountLimitRepository) list(db *gorm.DB) ([]*entity.AccountLimit, error) {
	var rows []model.AccountLimit
	if err := db.Find(&rows).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrLimitNotFound)
	}
	limits := make([]*entity.AccountLimit, 0, len(rows))
	for i := range rows {
		limits = append(limits, toAccountLimitEntity(&rows[i]))
	}
	return limits, nil
}

// ListByAccount returns the limits of an account
func (r *AccountLimitRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.AccountLimit, error) {
	return r.list(r.db.WithContext(ctx).Where("account_id = ?", accountID).Order("limit_type"))
}

// ListForUpdate returns the active limits of the accounts and locks their rows
// in id order
func (r *AccountLimitRepository) ListForUpdate(ctx context.Context, accountIDs []uuid.UUID) ([]*entity.AccountLimit, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	return r.list(r.db.WithContext(ctx).
		Where("account_id IN ? AND is_active = ?", accountIDs, true).
		Order("id").
		Clauses(forUpdate))
}

// Upsert inserts a limit or replaces the amount, period and active flag of the
// existing limit of the same type. The used amount of a replaced limit is kept.
func (r *AccountLimitRepository) Upsert(ctx context.Context, limit *entity.AccountLimit) error {
	m := toAccountLimitModel(limit)
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "account_id"}, {Name: "limit_type"}},
				DoUpdates: clause.AssignmentColumns([]string{"limit_amount", "reset_period", "is_active", "updated_at"}),
			},
			clause.Returning{},
		).
		Create(&m).Error
	if err != nil {
		return r.errorClassifier.Map(err, errs.ErrLimitNotFound)
	}
	*limit = *toAccountLimitEntity(&m)
	return nil
}

// Update saves the counter of a limit
func (r *AccountLimitRepository) Update(ctx context.Context, limit *entity.AccountLimit) error {
	result := r.db.WithContext(ctx).Model(&model.AccountLimit{}).
		Where("id = ?", limit.ID).
		Updates(map[string]any{
			"used_amount": limit.UsedAmount,
			"last_reset":  limit.LastReset,
			"updated_at":  limit.UpdatedAt,
		})
	if result.Error != nil {
		return r.errorClassifier.Map(result.Error, errs.ErrLimitNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrLimitNotFound
	}
	return nil
}

// ListActive returns every active limit with a resetting period
func (r *AccountLimitRepository) ListActive(ctx context.Context) ([]*entity.AccountLimit, error) {
	return r.list(r.db.WithContext(ctx).
		Where("is_active = ? AND reset_period <> ?", true, string(entity.ResetNever)).
		Order("id"))
}

// TransactionLimitRepository stores user level limit counters
type TransactionLimitRepository struct {
	db              *gorm.DB
	errorClassifier *ErrorClassifier
}

// NewTransactionLimitRepository creates a new TransactionLimitRepository instance
func NewTransactionLimitRepository(db *gorm.DB) *TransactionLimitRepository {
	return &TransactionLimitRepository{db: db, errorClassifier: NewErrorClassifier()}
}

func toTransactionLimitModel(l *entity.TransactionLimit) model.TransactionLimit {
	return model.TransactionLimit{
		ID:              l.ID,
		UserID:          l.UserID,
		AccountID:       l.AccountID,
		TransactionType: string(l.TransactionType),
		LimitType:       string(l.LimitType),
		LimitAmount:     l.LimitAmount,
		UsedAmount:      l.UsedAmount,
		ResetPeriod:     string(l.ResetPeriod),
		LastReset:       l.LastReset,
		IsActive:        l.IsActive,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func toTransactionLimitEntity(m *model.TransactionLimit) *entity.TransactionLimit {
	return &entity.TransactionLimit{
		ID:              m.ID,
		UserID:          m.UserID,
		AccountID:       m.AccountID,
		TransactionType: entity.TransactionType(m.TransactionType),
		LimitType:       entity.UserLimitType(m.LimitType),
		LimitCounter: entity.LimitCounter{
			LimitAmount: m.LimitAmount,
			UsedAmount:  m.UsedAmount,
			ResetPeriod: entity.ResetPeriod(m.ResetPeriod),
			LastReset:   m.LastReset,
			IsActive:    m.IsActive,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *TransactionLimitRepository) list(db *gorm.DB) ([]*entity.TransactionLimit, error) {
	var rows []model.TransactionLimit
	if err := db.Find(&rows).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrLimitNotFound)
	}
	limits := make([]*entity.TransactionLimit, 0, len(rows))
	for i := range rows {
		limits = append(limits, toTransactionLimitEntity(&rows[i]))
	}
	return limits, nil
}

// ListByUser returns the limits of a user
func (r *TransactionLimitRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.TransactionLimit, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID).Order("limit_type"))
}

// ListForUpdate returns the active limits of a user and locks their rows
func (r *TransactionLimitRepository) ListForUpdate(ctx context.Context, userID uuid.UUID) ([]*entity.TransactionLimit, error) {
	return r.list(r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id").
		Clauses(forUpdate))
}

// Upsert inserts a limit or replaces the existing one with the same
// (user, account, transaction type, limit type). The account column is
// nullable, so the match is done with a locked lookup instead of ON CONFLICT.
func (r *TransactionLimitRepository) Upsert(ctx context.Context, limit *entity.TransactionLimit) error {
	db := r.db.WithContext(ctx)

	query := db.Where("user_id = ? AND transaction_type = ? AND limit_type = ?",
		limit.UserID, string(limit.TransactionType), string(limit.LimitType))
	if limit.AccountID == nil {
		query = query.Where("account_id IS NULL")
	} else {
		query = query.Where("account_id = ?", *limit.AccountID)
	}

	var existing model.TransactionLimit
	err := query.Clauses(forUpdate).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		m := toTransactionLimitModel(limit)
		return r.errorClassifier.Map(db.Omit(clause.Associations).Create(&m).Error, errs.ErrLimitNotFound)
	case err != nil:
		return r.errorClassifier.Map(err, errs.ErrLimitNotFound)
	}

	existing.LimitAmount = limit.LimitAmount
	existing.IsActive = limit.IsActive
	existing.UpdatedAt = limit.UpdatedAt
	err = db.Model(&model.TransactionLimit{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"limit_amount": existing.LimitAmount,
			"is_active":    existing.IsActive,
			"updated_at":   existing.UpdatedAt,
		}).Error
	if err != nil {
		return r.errorClassifier.Map(err, errs.ErrLimitNotFound)
	}
	*limit = *toTransactionLimitEntity(&existing)
	return nil
}

// Update saves the counter of a limit
func (r *TransactionLimitRepository) Update(ctx context.Context, limit *entity.TransactionLimit) error {
	result := r.db.WithContext(ctx).Model(&model.TransactionLimit{}).
		Where("id = ?", limit.ID).
		Updates(map[string]any{
			"used_amount": limit.UsedAmount,
			"last_reset":  limit.LastReset,
			"updated_at":  limit.UpdatedAt,
		})
	if result.Error != nil {
		return r.errorClassifier.Map(result.Error, errs.ErrLimitNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrLimitNotFound
	}
	return nil
}

// ListActive returns every active limit with a resetting period
func (r *TransactionLimitRepository) ListActive(ctx context.Context) ([]*entity.TransactionLimit, error) {
	return r.list(r.db.WithContext(ctx).
		Where("is_active = ? AND reset_period <> ?", true, string(entity.ResetNever)).
		Order("id"))
}
