package repository

import (
	"context"
	"errors"
	"strings"

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
	_ persistence.UserRepository       = (*UserRepository)(nil)
	_ persistence.PreferenceRepository = (*PreferenceRepository)(nil)
)

// UserRepository implements UserRepository interface using GORM
type UserRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func toUserModel(u *entity.User) model.User {
	return model.User{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		PasswordHash:  u.PasswordHash,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		PhoneNumber:   u.PhoneNumber,
		DateOfBirth:   u.DateOfBirth,
		WalletAddress: u.WalletAddress,
		KYCStatus:     string(u.KYCStatus),
		KYCVerifiedAt: u.KYCVerifiedAt,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func toUserEntity(m *model.User) *entity.User {
	return &entity.User{
		ID:            m.ID,
		Email:         m.Email,
		Username:      m.Username,
		PasswordHash:  m.PasswordHash,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		PhoneNumber:   m.PhoneNumber,
		DateOfBirth:   m.DateOfBirth,
		WalletAddress: m.WalletAddress,
		KYCStatus:     entity.KYCStatus(m.KYCStatus),
		KYCVerifiedAt: m.KYCVerifiedAt,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// Create saves a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := toUserModel(user)
	if err := r.db.WithContext(ctx).Create(&userModel).Error; err != nil {
		if r.errorClassifier.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate user", map[string]any{
				"email":      user.Email,
				"constraint": constraintName(err),
			})
		}
		return r.errorClassifier.Map(err, errs.ErrUserNotFound)
	}

	r.logger.Debug("User created", map[string]any{"user_id": user.ID.String()})
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userModel model.User
	if err := r.db.WithContext(ctx).First(&userModel, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrUserNotFound)
	}
	return toUserEntity(&userModel), nil
}

// GetByEmail retrieves a user by email, case insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&userModel).Error
	if err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrUserNotFound)
	}
	return toUserEntity(&userModel), nil
}

// Exists reports whether the email or the username is already taken
func (r *UserRepository) Exists(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("LOWER(email) = ? OR username = ?", strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(username)).
		Count(&count).Error
	if err != nil {
		return false, r.errorClassifier.Map(err, errs.ErrUserNotFound)
	}
	return count > 0, nil
}

// Update saves profile, wallet and KYC changes
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"first_name":      user.FirstName,
			"last_name":       user.LastName,
			"phone_number":    user.PhoneNumber,
			"date_of_birth":   user.DateOfBirth,
			"wallet_address":  user.WalletAddress,
			"kyc_status":      string(user.KYCStatus),
			"kyc_verified_at": user.KYCVerifiedAt,
			"is_active":       user.IsActive,
			"updated_at":      user.UpdatedAt,
		})
	if result.Error != nil {
		return r.errorClassifier.Map(result.Error, errs.ErrUserNotFound)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("User not found during update", map[string]any{"user_id": user.ID.String()})
		return errs.ErrUserNotFound
	}
	return nil
}

// PreferenceRepository stores user preferences, one row per user
type PreferenceRepository struct {
	db              *gorm.DB
	errorClassifier *ErrorClassifier
}

// NewPreferenceRepository creates a new PreferenceRepository instance
func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db, errorClassifier: NewErrorClassifier()}
}

// Get retrieves the preferences of a user
func (r *PreferenceRepository) Get(ctx context.Context, userID uuid.UUID) (*entity.UserPreference, error) {
	var m model.UserPreference
	err := r.db.WithContext(ctx).First(&m, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrNotFound)
	}
	return &entity.UserPreference{
		UserID:             m.UserID,
		PreferredCurrency:  entity.Currency(m.PreferredCurrency),
		Language:           m.Language,
		Timezone:           m.Timezone,
		EmailNotifications: m.EmailNotifications,
		PushNotifications:  m.PushNotifications,
		SMSNotifications:   m.SMSNotifications,
		TwoFactorEnabled:   m.TwoFactorEnabled,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

// Save inserts or replaces the preferences of a user
func (r *PreferenceRepository) Save(ctx context.Context, pref *entity.UserPreference) error {
	m := model.UserPreference{
		UserID:             pref.UserID,
		PreferredCurrency:  string(pref.PreferredCurrency),
		Language:           pref.Language,
		Timezone:           pref.Timezone,
		EmailNotifications: pref.EmailNotifications,
		PushNotifications:  pref.PushNotifications,
		SMSNotifications:   pref.SMSNotifications,
		TwoFactorEnabled:   pref.TwoFactorEnabled,
		UpdatedAt:          pref.UpdatedAt,
	}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, UpdateAll: true}).
		Create(&m).Error
	return r.errorClassifier.Map(err, errs.ErrUserNotFound)
}
