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

var (
	_ persistence.CardRepository            = (*CardRepository)(nil)
	_ persistence.CardTransactionRepository = (*CardTransactionRepository)(nil)
)

// CardRepository stores payment cards
type CardRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewCardRepository creates a new CardRepository instance
func NewCardRepository(db *gorm.DB, logger coreport.Logger) *CardRepository {
	return &CardRepository{db: db, logger: logger, errorClassifier: NewErrorClassifier()}
}

func toCardModel(c *entity.Card) model.Card {
	return model.Card{
		ID:                   c.ID,
		AccountID:            c.AccountID,
		UserID:               c.UserID,
		CardNumber:           c.CardNumber,
		CardNumberEncrypted:  c.CardNumberEncrypted,
		CVV:                  c.CVV,
		CVVEncrypted:         c.CVVEncrypted,
		ExpiryMonth:          c.ExpiryMonth,
		ExpiryYear:           c.ExpiryYear,
		CardType:             string(c.CardType),
		Status:               string(c.Status),
		Nickname:             c.Nickname,
		SpendingLimit:        c.SpendingLimit,
		SpentAmount:          c.SpentAmount,
		MerchantName:         c.MerchantName,
		UsageCount:           c.UsageCount,
		MaxUsageCount:        c.MaxUsageCount,
		ContactlessEnabled:   c.ContactlessEnabled,
		OnlineEnabled:        c.OnlineEnabled,
		InternationalEnabled: c.InternationalEnabled,
		LastUsedAt:           c.LastUsedAt,
		ExpiresAt:            c.ExpiresAt,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

func toCardEntity(m *model.Card) *entity.Card {
	return &entity.Card{
		ID:                   m.ID,
		AccountID:            m.AccountID,
		UserID:               m.UserID,
		CardNumber:           m.CardNumber,
		CardNumberEncrypted:  m.CardNumberEncrypted,
		CVV:                  m.CVV,
		CVVEncrypted:         m.CVVEncrypted,
		ExpiryMonth:          m.ExpiryMonth,
		ExpiryYear:           m.ExpiryYear,
		CardType:             entity.CardType(m.CardType),
		Status:               entity.CardStatus(m.Status),
		Nickname:             m.Nickname,
		SpendingLimit:        m.SpendingLimit,
		SpentAmount:          m.SpentAmount,
		MerchantName:         m.MerchantName,
		UsageCount:           m.UsageCount,
		MaxUsageCount:        m.MaxUsageCount,
		ContactlessEnabled:   m.ContactlessEnabled,
		OnlineEnabled:        m.OnlineEnabled,
		InternationalEnabled: m.InternationalEnabled,
		LastUsedAt:           m.LastUsedAt,
		ExpiresAt:            m.ExpiresAt,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// Create saves a new card
func (r *CardRepository) Create(ctx context.Context, card *entity.Card) error {
	m := toCardModel(card)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error
	if r.errorClassifier.IsDuplicateKeyError(err) {
		r.logger.Warn("Card number collision", map[string]any{"card_id": card.ID.String()})
	}
	return r.errorClassifier.Map(err, errs.ErrCardNotFound)
}

// Update saves status, limits and usage counters
func (r *CardRepository) Update(ctx context.Context, card *entity.Card) error {
	result := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ?", card.ID).
		Updates(map[string]any{
			"status":                string(card.Status),
			"nickname":              card.Nickname,
			"spending_limit":        card.SpendingLimit,
			"spent_amount":          card.SpentAmount,
			"usage_count":           card.UsageCount,
			"max_usage_count":       card.MaxUsageCount,
			"contactless_enabled":   card.ContactlessEnabled,
			"online_enabled":        card.OnlineEnabled,
			"international_enabled": card.InternationalEnabled,
			"last_used_at":          card.LastUsedAt,
			"updated_at":            card.UpdatedAt,
		})
	if result.Error != nil {
		return r.errorClassifier.Map(result.Error, errs.ErrCardNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrCardNotFound
	}
	return nil
}

// GetByID retrieves a card
func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Card, error) {
	var m model.Card
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrCardNotFound)
	}
	return toCardEntity(&m), nil
}

// GetForUpdate retrieves a card and locks its row
func (r *CardRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Card, error) {
	var m model.Card
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&m, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrCardNotFound)
	}
	return toCardEntity(&m), nil
}

// ListByUser returns every card of a user, newest first
func (r *CardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Card, error) {
	var rows []model.Card
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, r.errorClassifier.Map(err, errs.ErrCardNotFound)
	}
	out := make([]*entity.Card, 0, len(rows))
	for i := range rows {
		out = append(out, toCardEntity(&rows[i]))
	}
	return out, nil
}

// NumberExists reports whether a card number is taken
func (r *CardRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("card_number = ?", entity.FormatCardNumber(number)).
		Count(&count).Error
	return count > 0, r.errorClassifier.Map(err, errs.ErrCardNotFound)
}

// CardTransactionRepository stores card charge records
type CardTransactionRepository struct {
	db              *gorm.DB
	errorClassifier *ErrorClassifier
}

// NewCardTransactionRepository creates a new CardTransactionRepository instance
func NewCardTransactionRepository(db *gorm.DB) *CardTransactionRepository {
	return &CardTransactionRepository{db: db, errorClassifier: NewErrorClassifier()}
}

func (r *CardTransactionRepository) Create(ctx context.Context, cardTx *entity.CardTransaction) error {
	m := model.CardTransaction{
		ID:                cardTx.ID,
		CardID:            cardTx.CardID,
		TransactionID:     cardTx.TransactionID,
		Amount:            cardTx.Amount,
		Currency:          string(cardTx.Currency),
		MerchantName:      cardTx.MerchantName,
		MerchantCategory:  cardTx.MerchantCategory,
		MerchantLocation:  cardTx.MerchantLocation,
		AuthorizationCode: cardTx.AuthorizationCode,
		ProcessorResponse: cardTx.ProcessorResponse,
		CreatedAt:         cardTx.CreatedAt,
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error
	return r.errorClassifier.Map(err, errs.ErrCardNotFound)
}

// ListByCard returns one page of a card's charges, newest first, and the total
func (r *CardTransactionRepository) ListByCard(ctx context.Context, cardID uuid.UUID, page entity.Page) ([]*entity.CardTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.CardTransaction{}).
		Where("card_id = ?", cardID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.errorClassifier.Map(err, errs.ErrCardNotFound)
	}

	var rows []model.CardTransaction
	if err := query.Order("created_at DESC").Scopes(pageScope(page.Limit, page.Offset)).Find(&rows).Error; err != nil {
		return nil, 0, r.errorClassifier.Map(err, errs.ErrCardNotFound)
	}

	out := make([]*entity.CardTransaction, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entity.CardTransaction{
			ID:                m.ID,
			CardID:            m.CardID,
			TransactionID:     m.TransactionID,
			Amount:            m.Amount,
			Currency:          entity.Currency(m.Currency),
			MerchantName:      m.MerchantName,
			MerchantCategory:  m.MerchantCategory,
			MerchantLocation:  m.MerchantLocation,
			AuthorizationCode: m.AuthorizationCode,
			ProcessorResponse: m.ProcessorResponse,
			CreatedAt:         m.CreatedAt,
		})
	}
	return out, total, nil
}
