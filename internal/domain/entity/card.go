package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CardValidityYears is how long an issued card stays valid
const CardValidityYears = 3

// CardType is the form factor and usage policy of a card
type CardType string

const (
	CardPhysical              CardType = "physical"
	CardVirtual               CardType = "virtual"
	CardVirtualSingleUse      CardType = "virtual_single_use"
	CardVirtualMerchantLocked CardType = "virtual_merchant_locked"
	CardVirtualSubscription   CardType = "virtual_subscription"
)

// IsValid reports whether the type is one of the known values
func (t CardType) IsValid() bool {
	return t == CardPhysical || t.IsVirtual()
}

// IsVirtual reports whether the card exists only as data
func (t CardType) IsVirtual() bool {
	switch t {
	case CardVirtual, CardVirtualSingleUse, CardVirtualMerchantLocked, CardVirtualSubscription:
		return true
	}
	return false
}

// CardStatus is the lifecycle state of a card
type CardStatus string

const (
	CardActive    CardStatus = "active"
	CardInactive  CardStatus = "inactive"
	CardBlocked   CardStatus = "blocked"
	CardExpired   CardStatus = "expired"
	CardCancelled CardStatus = "cancelled"
)

// IsToggleable reports whether a holder may move a card into this status
func (s CardStatus) IsToggleable() bool {
	return s == CardActive || s == CardInactive || s == CardBlocked
}

// Card is a payment card drawing on one account
type Card struct {
	ID                   uuid.UUID
	AccountID            uuid.UUID
	UserID               uuid.UUID
	CardNumber           string
	CardNumberEncrypted  string
	CVV                  string
	CVVEncrypted         string
	ExpiryMonth          int
	ExpiryYear           int
	CardType             CardType
	Status               CardStatus
	Nickname             string
	SpendingLimit        *decimal.Decimal
	SpentAmount          decimal.Decimal
	MerchantName         string
	UsageCount           int
	MaxUsageCount        *int
	ContactlessEnabled   bool
	OnlineEnabled        bool
	InternationalEnabled bool
	LastUsedAt           *time.Time
	ExpiresAt            time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewCardParams holds everything needed to issue a card
type NewCardParams struct {
	AccountID           uuid.UUID
	UserID              uuid.UUID
	CardNumber          string
	CardNumberEncrypted string
	CVV                 string
	CVVEncrypted        string
	CardType            CardType
	Nickname            string
	SpendingLimit       *decimal.Decimal
	MerchantName        string
	MaxUsageCount       *int
	ExpiresAt           *time.Time
}

// NewCard creates an active card. Without an explicit expiry the card runs
// until the end of the issue month CardValidityYears later.
func NewCard(p NewCardParams, now time.Time) (*Card, error) {
	fields := map[string]string{}
	if !p.CardType.IsValid() {
		fields["card_type"] = fmt.Sprintf("unsupported card type %q", p.CardType)
	}
	if !LuhnValid(p.CardNumber) {
		fields["card_number"] = "fails the Luhn check"
	}
	if p.SpendingLimit != nil && !p.SpendingLimit.IsPositive() {
		fields["spending_limit"] = "must be greater than zero"
	}
	if p.CardType == CardVirtualMerchantLocked && strings.TrimSpace(p.MerchantName) == "" {
		fields["merchant_name"] = "is required for merchant locked cards"
	}
	if p.MaxUsageCount != nil && *p.MaxUsageCount <= 0 {
		fields["max_usage_count"] = "must be positive"
	}
	if p.ExpiresAt != nil && !p.ExpiresAt.After(now) {
		fields["expires_at"] = "must be in the future"
	}
	if len(fields) > 0 {
		return nil, errs.NewFieldsError(fields)
	}

	maxUsage := p.MaxUsageCount
	if p.CardType == CardVirtualSingleUse {
		one := 1
		maxUsage = &one
	}

	expiresAt := endOfMonth(AddMonths(StartOfMonth(now), 12*CardValidityYears))
	if p.ExpiresAt != nil {
		expiresAt = *p.ExpiresAt
	}

	var limit *decimal.Decimal
	if p.SpendingLimit != nil {
		rounded := RoundMoney(*p.SpendingLimit)
		limit = &rounded
	}

	return &Card{
		ID:                   uuid.New(),
		AccountID:            p.AccountID,
		UserID:               p.UserID,
		CardNumber:           FormatCardNumber(p.CardNumber),
		CardNumberEncrypted:  p.CardNumberEncrypted,
		CVV:                  p.CVV,
		CVVEncrypted:         p.CVVEncrypted,
		ExpiryMonth:          int(expiresAt.Month()),
		ExpiryYear:           expiresAt.Year(),
		CardType:             p.CardType,
		Status:               CardActive,
		Nickname:             strings.TrimSpace(p.Nickname),
		SpendingLimit:        limit,
		SpentAmount:          decimal.Zero,
		MerchantName:         strings.TrimSpace(p.MerchantName),
		MaxUsageCount:        maxUsage,
		ContactlessEnabled:   p.CardType == CardPhysical,
		OnlineEnabled:        true,
		InternationalEnabled: false,
		ExpiresAt:            expiresAt,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

func endOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Second)
}

// MaskedNumber returns the display form of the card number
func (c *Card) MaskedNumber() string {
	return MaskCardNumber(c.CardNumber)
}

// IsExpired reports whether the card is past its expiry at now
func (c *Card) IsExpired(now time.Time) bool {
	return c.Status == CardExpired || now.After(c.ExpiresAt)
}

// IsOwnedBy reports whether userID holds the card
func (c *Card) IsOwnedBy(userID uuid.UUID) bool {
	return c.UserID == userID
}

// SetStatus applies a holder requested status change
func (c *Card) SetStatus(status CardStatus, now time.Time) error {
	if !status.IsToggleable() {
		return errs.NewValidationError("status", "must be one of active, inactive, blocked")
	}
	if c.Status == CardCancelled || c.Status == CardExpired {
		return fmt.Errorf("%w: card is %s", errs.ErrCardNotUsable, c.Status)
	}
	c.Status = status
	c.UpdatedAt = now
	return nil
}

// UpdateSpendingLimit changes the cap of a virtual card. The new limit may not be
// below what was already spent.
func (c *Card) UpdateSpendingLimit(limit decimal.Decimal, now time.Time) error {
	if !c.CardType.IsVirtual() {
		return errs.NewValidationError("card_type", "spending limits can only be set on virtual cards")
	}
	if !limit.IsPositive() {
		return errs.NewValidationError("spending_limit", "must be greater than zero")
	}
	if limit.LessThan(c.SpentAmount) {
		return fmt.Errorf("%w: spent %s", errs.ErrLimitTooLow, FormatMoney(c.SpentAmount))
	}
	rounded := RoundMoney(limit)
	c.SpendingLimit = &rounded
	c.UpdatedAt = now
	return nil
}

// RemainingSpend returns how much the card may still spend, nil when uncapped
func (c *Card) RemainingSpend() *decimal.Decimal {
	if c.SpendingLimit == nil {
		return nil
	}
	remaining := c.SpendingLimit.Sub(c.SpentAmount)
	return &remaining
}

// ChargeRequest describes a card charge presented by a merchant
type ChargeRequest struct {
	Amount           decimal.Decimal
	MerchantName     string
	MerchantCategory string
	MerchantLocation string
	Online           bool
	International    bool
}

// Authorize checks a charge against the card's state and policies without changing it
func (c *Card) Authorize(req ChargeRequest, now time.Time) error {
	if c.Status != CardActive {
		return fmt.Errorf("%w: card is %s", errs.ErrCardNotUsable, c.Status)
	}
	if c.IsExpired(now) {
		return fmt.Errorf("%w: card expired", errs.ErrCardNotUsable)
	}
	if err := ValidatePositive(req.Amount); err != nil {
		return &errs.ValidationError{Fields: map[string]string{"amount": "must be greater than zero"}, Err: err}
	}
	if req.Online && !c.OnlineEnabled {
		return fmt.Errorf("%w: online payments disabled", errs.ErrCardNotUsable)
	}
	if req.International && !c.InternationalEnabled {
		return fmt.Errorf("%w: international payments disabled", errs.ErrCardNotUsable)
	}
	if c.CardType == CardVirtualMerchantLocked && !strings.EqualFold(strings.TrimSpace(req.MerchantName), c.MerchantName) {
		return fmt.Errorf("%w: card is locked to merchant %s", errs.ErrCardNotUsable, c.MerchantName)
	}
	if c.MaxUsageCount != nil && c.UsageCount >= *c.MaxUsageCount {
		return fmt.Errorf("%w: usage limit reached", errs.ErrCardNotUsable)
	}
	if remaining := c.RemainingSpend(); remaining != nil && req.Amount.GreaterThan(*remaining) {
		return errs.NewLimitExceededError("card", c.ID.String(), "spending_limit", FormatMoney(*remaining))
	}
	return nil
}

// RecordCharge applies an authorized charge to the card's counters
func (c *Card) RecordCharge(amount decimal.Decimal, now time.Time) {
	c.SpentAmount = c.SpentAmount.Add(amount)
	c.UsageCount++
	c.LastUsedAt = &now
	c.UpdatedAt = now
}

// CardTransaction links a card charge to its ledger transaction
type CardTransaction struct {
	ID                uuid.UUID
	CardID            uuid.UUID
	TransactionID     uuid.UUID
	Amount            decimal.Decimal
	Currency          Currency
	MerchantName      string
	MerchantCategory  string
	MerchantLocation  string
	AuthorizationCode string
	ProcessorResponse string
	CreatedAt         time.Time
}

// NewCardTransaction records an approved charge
func NewCardTransaction(card *Card, tx *Transaction, req ChargeRequest, authCode string, now time.Time) *CardTransaction {
	return &CardTransaction{
		ID:                uuid.New(),
		CardID:            card.ID,
		TransactionID:     tx.ID,
		Amount:            tx.Amount,
		Currency:          tx.Currency,
		MerchantName:      strings.TrimSpace(req.MerchantName),
		MerchantCategory:  strings.TrimSpace(req.MerchantCategory),
		MerchantLocation:  strings.TrimSpace(req.MerchantLocation),
		AuthorizationCode: authCode,
		ProcessorResponse: "approved",
		CreatedAt:         now,
	}
}
