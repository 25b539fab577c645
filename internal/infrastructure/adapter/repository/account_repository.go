package repository

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ persistence.AccountRepository = (*AccountRepository)(nil)

// AccountRepository stores accounts and their balances using GORM
type AccountRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB, logger coreport.Logger) *AccountRepository {
	return &AccountRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func toAccountModel(a *entity.Account) model.Account {
	return model.Account{
		ID:               a.ID,
		UserID:           a.UserID,
		AccountNumber:    a.AccountNumber,
		AccountType:      string(a.AccountType),
		Currency:         string(a.Currency),
		AvailableBalance: a.AvailableBalance,
		LedgerBalance:    a.LedgerBalance,
		PendingBalance:   a.PendingBalance,
		IsActive:         a.IsActive,
		IsFrozen:         a.IsFrozen,
		ChainID:          a.ChainID,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func toAccountEntity(m *model.Account) *entity.Account {
	return &entity.Account{
		ID:               m.ID,
		UserID:           m.UserID,
		AccountNumber:    m.AccountNumber,
		AccountType:      entity.AccountType(m.AccountType),
		Currency:         entity.Currency(m.Currency),
		AvailableBalance: m.AvailableBalance,
		LedgerBalance:    m.LedgerBalance,
		PendingBalance:   m.PendingBalance,
		IsActive:         m.IsActive,
		IsFrozen:         m.IsFrozen,
		ChainID:          m.ChainID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// Create saves a new account
func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountModel := toAccountModel(account)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&accountModel).Error
	return r.errorClassifier.Map(err, errs.ErrAccountNotFound)
}

// GetByID retrieves an account without locking it
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var m model.Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrAccountNotFound)
	}
	return toAccountEntity(&m), nil
}

// GetForUpdate retrieves an account with SELECT ... FOR UPDATE
func (r *AccountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var m model.Account
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&m, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrAccountNotFound)
	}

	r.logger.Debug("Account locked", map[string]any{"account_id": id.String()})
	return toAccountEntity(&m), nil
}

// ListByUser returns every account of a user, oldest first
func (r *AccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error) {
	var rows []model.Account
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrAccountNotFound)
	}

	accounts := make([]*entity.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, toAccountEntity(&rows[i]))
	}
	return accounts, nil
}

// CountByUser returns how many accounts a user holds
func (r *AccountRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).Where("user_id = ?", userID).Count(&count).Error
	return count, r.errorClassifier.Map(err, errs.ErrAccountNotFound)
}

// Exists reports whether the user holds an account of that type and currency
func (r *AccountRepository) Exists(ctx context.Context, userID uuid.UUID, accountType entity.AccountType, currency entity.Currency) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("user_id = ? AND account_type = ? AND currency = ?", userID, string(accountType), string(currency)).
		Count(&count).Error
	return count > 0, r.errorClassifier.Map(err, errs.ErrAccountNotFound)
}

// NumberExists reports whether an account number is taken
func (r *AccountRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).Where("account_number = ?", number).Count(&count).Error
	return count > 0, r.errorClassifier.Map(err, errs.ErrAccountNotFound)
}

// FindActiveByType returns the oldest active, unfrozen account of a type
func (r *AccountRepository) FindActiveByType(ctx context.Context, userID uuid.UUID, accountType entity.AccountType) (*entity.Account, error) {
	var m model.Account
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND account_type = ? AND is_active = ? AND is_frozen = ?", userID, string(accountType), true, false).
		Order("created_at ASC").
		First(&m).Error
	if err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrAccountNotFound)
	}
	return toAccountEntity(&m), nil
}

// Update saves balances and flags
func (r *AccountRepository) Update(ctx context.Context, account *entity.Account) error {
	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"available_balance": account.AvailableBalance,
			"ledger_balance":    account.LedgerBalance,
			"pending_balance":   account.PendingBalance,
			"is_active":         account.IsActive,
			"is_frozen":         account.IsFrozen,
			"updated_at":        account.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("Failed to update account", map[string]any{
			"account_id": account.ID.String(),
			"error":      result.Error.Error(),
		})
		return r.errorClassifier.Map(result.Error, errs.ErrAccountNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}
