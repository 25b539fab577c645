package repository

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ persistence.RecurringRepository = (*RecurringRepository)(nil)

// RecurringRepository stores recurring templates
type RecurringRepository struct {
	db              *gorm.DB
	errorClassifier *ErrorClassifier
}

// NewRecurringRepository creates a new RecurringRepository instance
func NewRecurringRepository(db *gorm.DB) *RecurringRepository {
	return &RecurringRepository{db: db, errorClassifier: NewErrorClassifier()}
}

func toRecurringModel(rt *entity.RecurringTransaction) model.RecurringTransaction {
	return model.RecurringTransaction{
		ID:                rt.ID,
		UserID:            rt.UserID,
		FromAccountID:     rt.FromAccountID,
		ToAccountID:       rt.ToAccountID,
		Amount:            rt.Amount,
		Currency:          string(rt.Currency),
		TransactionType:   string(rt.TransactionType),
		Description:       rt.Description,
		CategoryID:        rt.CategoryID,
		Frequency:         string(rt.Frequency),
		StartDate:         rt.StartDate,
		EndDate:           rt.EndDate,
		NextExecution:     rt.NextExecution,
		LastExecuted:      rt.LastExecuted,
		ExecutionCount:    rt.ExecutionCount,
		MaxExecutions:     rt.MaxExecutions,
		IsActive:          rt.IsActive,
		LastTransactionID: rt.LastTransactionID,
		CreatedAt:         rt.CreatedAt,
		UpdatedAt:         rt.UpdatedAt,
	}
}

func toRecurringEntity(m *model.RecurringTransaction) *entity.RecurringTransaction {
	return &entity.RecurringTransaction{
		ID:                m.ID,
		UserID:            m.UserID,
		FromAccountID:     m.FromAccountID,
		ToAccountID:       m.ToAccountID,
		Amount:            m.Amount,
		Currency:          entity.Currency(m.Currency),
		TransactionType:   entity.TransactionType(m.TransactionType),
		Description:       m.Description,
		CategoryID:        m.CategoryID,
		Frequency:         entity.Frequency(m.Frequency),
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		NextExecution:     m.NextExecution,
		LastExecuted:      m.LastExecuted,
		ExecutionCount:    m.ExecutionCount,
		MaxExecutions:     m.MaxExecutions,
		IsActive:          m.IsActive,
		LastTransactionID: m.LastTransactionID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func (r *RecurringRepository) Create(ctx context.Context, recurring *entity.RecurringTransaction) error {
	m := toRecurringModel(recurring)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error
	return r.errorClassifier.Map(err, errs.ErrRecurringNotFound)
}

// Update saves schedule and execution state
func (r *RecurringRepository) Update(ctx context.Context, recurring *entity.RecurringTransaction) error {
	result := r.db.WithContext(ctx).Model(&model.RecurringTransaction{}).
		Where("id = ?", recurring.ID).
		Updates(map[string]any{
			"next_execution":      recurring.NextExecution,
			"last_executed":       recurring.LastExecuted,
			"execution_count":     recurring.ExecutionCount,
			"is_active":           recurring.IsActive,
			"last_transaction_id": recurring.LastTransactionID,
			"updated_at":          recurring.UpdatedAt,
		})
	if result.Error != nil {
		return r.errorClassifier.Map(result.Error, errs.ErrRecurringNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrRecurringNotFound
	}
	return nil
}

// GetByID retrieves a template
func (r *RecurringRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RecurringTransaction, error) {
	var m model.RecurringTransaction
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrRecurringNotFound)
	}
	return toRecurringEntity(&m), nil
}

// GetForUpdate retrieves a template and locks its row
func (r *RecurringRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.RecurringTransaction, error) {
	var m model.RecurringTransaction
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&m, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrRecurringNotFound)
	}
	return toRecurringEntity(&m), nil
}

// ListByUser returns one page of a user's templates ordered by next execution
func (r *RecurringRepository) ListByUser(ctx context.Context, userID uuid.UUID, page entity.Page) ([]*entity.RecurringTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.RecurringTransaction{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.errorClassifier.Map(err, errs.ErrRecurringNotFound)
	}

	var rows []model.RecurringTransaction
	if err := query.Order("next_execution ASC").Scopes(pageScope(page.Limit, page.Offset)).Find(&rows).Error; err != nil {
		return nil, 0, r.errorClassifier.Map(err, errs.ErrRecurringNotFound)
	}

	out := make([]*entity.RecurringTransaction, 0, len(rows))
	for i := range rows {
		out = append(out, toRecurringEntity(&rows[i]))
	}
	return out, total, nil
}

// ListDueIDs returns the next page of due templates after the id cursor
func (r *RecurringRepository) ListDueIDs(ctx context.Context, now time.Time, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.RecurringTransaction{}).
		Where("is_active = ? AND next_execution <= ? AND id > ?", true, now, after).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrRecurringNotFound)
	}
	return ids, nil
}
