package repository

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	_ persistence.TransactionRepository = (*TransactionRepository)(nil)
	_ persistence.CategoryRepository    = (*CategoryRepository)(nil)
	_ persistence.DisputeRepository     = (*DisputeRepository)(nil)
)

// TransactionRepository implements TransactionRepository interface using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(t *entity.Transaction) model.Transaction {
	return model.Transaction{
		ID:               t.ID,
		ReferenceNumber:  t.ReferenceNumber,
		FromAccountID:    t.FromAccountID,
		ToAccountID:      t.ToAccountID,
		Amount:           t.Amount,
		Currency:         string(t.Currency),
		FeeAmount:        t.FeeAmount,
		NetAmount:        t.NetAmount,
		ExchangeRate:     t.ExchangeRate,
		TransactionType:  string(t.TransactionType),
		Status:           string(t.Status),
		Description:      t.Description,
		CategoryID:       t.CategoryID,
		MerchantName:     t.MerchantName,
		BlockchainTxHash: t.BlockchainTxHash,
		ChainID:          t.ChainID,
		InitiatedBy:      t.InitiatedBy,
		FailureReason:    t.FailureReason,
		ProcessedAt:      t.ProcessedAt,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// modelToEntity converts a transaction model to an entity
func (r *TransactionRepository) modelToEntity(m *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:               m.ID,
		ReferenceNumber:  m.ReferenceNumber,
		FromAccountID:    m.FromAccountID,
		ToAccountID:      m.ToAccountID,
		Amount:           m.Amount,
		Currency:         entity.Currency(m.Currency),
		FeeAmount:        m.FeeAmount,
		NetAmount:        m.NetAmount,
		ExchangeRate:     m.ExchangeRate,
		TransactionType:  entity.TransactionType(m.TransactionType),
		Status:           entity.TransactionStatus(m.Status),
		Description:      m.Description,
		CategoryID:       m.CategoryID,
		MerchantName:     m.MerchantName,
		BlockchainTxHash: m.BlockchainTxHash,
		ChainID:          m.ChainID,
		InitiatedBy:      m.InitiatedBy,
		FailureReason:    m.FailureReason,
		ProcessedAt:      m.ProcessedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (r *TransactionRepository) modelsToEntities(rows []model.Transaction) []*entity.Transaction {
	out := make([]*entity.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, r.modelToEntity(&rows[i]))
	}
	return out
}

// Create saves a new transaction
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.logger.Debug("Creating transaction", map[string]any{
		"transaction_id":   transaction.ID.String(),
		"reference_number": transaction.ReferenceNumber,
	})

	m := r.entityToModel(transaction)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		if r.errorClassifier.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate reference number", map[string]any{
				"reference_number": transaction.ReferenceNumber,
			})
		}
		return r.errorClassifier.Map(err, errs.ErrTransactionNotFound)
	}
	return nil
}

// Update saves status, failure reason and timestamps
func (r *TransactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]any{
			"status":         string(transaction.Status),
			"failure_reason": transaction.FailureReason,
			"processed_at":   transaction.ProcessedAt,
			"updated_at":     transaction.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("Failed to update transaction", map[string]any{
			"transaction_id": transaction.ID.String(),
			"error":          result.Error.Error(),
		})
		return r.errorClassifier.Map(result.Error, errs.ErrTransactionNotFound)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("Transaction not found during update", map[string]any{
			"transaction_id": transaction.ID.String(),
		})
		return errs.ErrTransactionNotFound
	}
	return nil
}

// GetByID retrieves a transaction
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var m model.Transaction
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrTransactionNotFound)
	}
	return r.modelToEntity(&m), nil
}

// GetForUpdate retrieves a transaction and locks its row
func (r *TransactionRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var m model.Transaction
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&m, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrTransactionNotFound)
	}
	return r.modelToEntity(&m), nil
}

// ReferenceExists reports whether a reference number is taken
func (r *TransactionRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("reference_number = ?", reference).
		Count(&count).Error
	return count > 0, r.errorClassifier.Map(err, errs.ErrTransactionNotFound)
}

// touching matches transactions on either side of the given accounts
func touching(accountIDs []uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(from_account_id IN ? OR to_account_id IN ?)", accountIDs, accountIDs)
	}
}

// List returns one page of matching transactions, newest first, and the total
func (r *TransactionRepository) List(ctx context.Context, filter persistence.TransactionFilter, page entity.Page) ([]*entity.Transaction, int64, error) {
	if len(filter.AccountIDs) == 0 {
		return nil, 0, nil
	}

	query := r.db.WithContext(ctx).Model(&model.Transaction{}).Scopes(touching(filter.AccountIDs))
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Type != "" {
		query = query.Where("transaction_type = ?", string(filter.Type))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.errorClassifier.Map(err, errs.ErrTransactionNotFound)
	}

	var rows []model.Transaction
	err := query.Order("created_at DESC").Scopes(pageScope(page.Limit, page.Offset)).Find(&rows).Error
	if err != nil {
		return nil, 0, r.errorClassifier.Map(err, errs.ErrTransactionNotFound)
	}
	return r.modelsToEntities(rows), total, nil
}

// ListSince returns every transaction touching the accounts created at or after since
func (r *TransactionRepository) ListSince(ctx context.Context, accountIDs []uuid.UUID, since time.Time) ([]*entity.Transaction, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}

	var rows []model.Transaction
	err := r.db.WithContext(ctx).
		Scopes(touching(accountIDs)).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrTransactionNotFound)
	}
	return r.modelsToEntities(rows), nil
}

// SpendingByCategory sums completed outgoing transactions of the accounts per category
func (r *TransactionRepository) SpendingByCategory(ctx context.Context, accountIDs []uuid.UUID, since time.Time) ([]entity.CategorySpending, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}

	var rows []model.CategorySpendingRow
	err := r.db.WithContext(ctx).
		Table("transactions AS t").
		Select("t.category_id, c.name AS category_name, SUM(t.amount) AS total, COUNT(*) AS count").
		Joins("LEFT JOIN transaction_categories c ON c.id = t.category_id").
		Where("t.from_account_id IN ? AND t.status = ? AND t.created_at >= ?", accountIDs, string(entity.StatusCompleted), since).
		Group("t.category_id, c.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrTransactionNotFound)
	}

	out := make([]entity.CategorySpending, 0, len(rows))
	for _, row := range rows {
		spending := entity.CategorySpending{
			CategoryID: row.CategoryID,
			Total:      row.Total,
			Count:      row.Count,
		}
		if row.CategoryName != nil {
			spending.CategoryName = *row.CategoryName
		}
		out = append(out, spending)
	}
	return out, nil
}

// CategoryRepository stores transaction categories
type CategoryRepository struct {
	db              *gorm.DB
	errorClassifier *ErrorClassifier
}

// NewCategoryRepository creates a new CategoryRepository instance
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db, errorClassifier: NewErrorClassifier()}
}

func toCategoryEntity(m *model.TransactionCategory) *entity.TransactionCategory {
	return &entity.TransactionCategory{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Icon:        m.Icon,
		Color:       m.Color,
		ParentID:    m.ParentID,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
	}
}

// Create saves a new category
func (r *CategoryRepository) Create(ctx context.Context, category *entity.TransactionCategory) error {
	m := model.TransactionCategory{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Icon:        category.Icon,
		Color:       category.Color,
		ParentID:    category.ParentID,
		IsActive:    category.IsActive,
		CreatedAt:   category.CreatedAt,
	}
	return r.errorClassifier.Map(r.db.WithContext(ctx).Create(&m).Error, errs.ErrCategoryNotFound)
}

// GetByID retrieves a category
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.TransactionCategory, error) {
	var m model.TransactionCategory
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrCategoryNotFound)
	}
	return toCategoryEntity(&m), nil
}

// ListActive returns active categories ordered by name
func (r *CategoryRepository) ListActive(ctx context.Context) ([]*entity.TransactionCategory, error) {
	var rows []model.TransactionCategory
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&rows).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrCategoryNotFound)
	}
	out := make([]*entity.TransactionCategory, 0, len(rows))
	for i := range rows {
		out = append(out, toCategoryEntity(&rows[i]))
	}
	return out, nil
}

// DisputeRepository stores disputes, at most one per transaction
type DisputeRepository struct {
	db              *gorm.DB
	errorClassifier *ErrorClassifier
}

// NewDisputeRepository creates a new DisputeRepository instance
func NewDisputeRepository(db *gorm.DB) *DisputeRepository {
	return &DisputeRepository{db: db, errorClassifier: NewErrorClassifier()}
}

// Create saves a new dispute. The unique index on transaction_id turns a
// concurrent second dispute into ErrDisputeExists.
func (r *DisputeRepository) Create(ctx context.Context, dispute *entity.TransactionDispute) error {
	m := model.TransactionDispute{
		ID:            dispute.ID,
		TransactionID: dispute.TransactionID,
		RaisedBy:      dispute.RaisedBy,
		Reason:        string(dispute.Reason),
		Description:   dispute.Description,
		Status:        string(dispute.Status),
		Resolution:    dispute.Resolution,
		ResolvedAt:    dispute.ResolvedAt,
		CreatedAt:     dispute.CreatedAt,
		UpdatedAt:     dispute.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error
	if r.errorClassifier.IsDuplicateKeyError(err) {
		return errs.ErrDisputeExists
	}
	return r.errorClassifier.Map(err, errs.ErrTransactionNotFound)
}

// ExistsForTransaction reports whether the transaction has a dispute
func (r *DisputeRepository) ExistsForTransaction(ctx context.Context, transactionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TransactionDispute{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error
	return count > 0, r.errorClassifier.Map(err, errs.ErrTransactionNotFound)
}
