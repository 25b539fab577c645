package entity

import (
	"regexp"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// TransactionCategory groups transactions for spending analysis
type TransactionCategory struct {
	ID          uuid.UUID
	Name        string
	Description string
	Icon        string
	Color       string
	ParentID    *uuid.UUID
	IsActive    bool
	CreatedAt   time.Time
}

// NewTransactionCategory creates an active category
func NewTransactionCategory(name, description, icon, color string, parentID *uuid.UUID, now time.Time) (*TransactionCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValidationError("name", "is required")
	}
	if color == "" {
		color = "#6B7280"
	}
	if !hexColorPattern.MatchString(color) {
		return nil, errs.NewValidationError("color", "must be a #RRGGBB hex color")
	}
	return &TransactionCategory{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Icon:        icon,
		Color:       color,
		ParentID:    parentID,
		IsActive:    true,
		CreatedAt:   now,
	}, nil
}

// CategorySpending is the outgoing total of one category over a window
type CategorySpending struct {
	CategoryID   *uuid.UUID
	CategoryName string
	Total        decimal.Decimal
	Count        int
}

// DisputeReason is why a customer disputes a transaction
type DisputeReason string

const (
	DisputeUnauthorized    DisputeReason = "unauthorized"
	DisputeDuplicate       DisputeReason = "duplicate"
	DisputeNotReceived     DisputeReason = "not_received"
	DisputeDefective       DisputeReason = "defective"
	DisputeIncorrectAmount DisputeReason = "incorrect_amount"
	DisputeFraud           DisputeReason = "fraud"
	DisputeOther           DisputeReason = "other"
)

// IsValid reports whether the reason is one of the known values
func (r DisputeReason) IsValid() bool {
	switch r {
	case DisputeUnauthorized, DisputeDuplicate, DisputeNotReceived, DisputeDefective,
		DisputeIncorrectAmount, DisputeFraud, DisputeOther:
		return true
	}
	return false
}

// DisputeStatus is the review state of a dispute
type DisputeStatus string

const (
	DisputeOpen          DisputeStatus = "open"
	DisputeInvestigating DisputeStatus = "investigating"
	DisputeResolved      DisputeStatus = "resolved"
	DisputeRejected      DisputeStatus = "rejected"
	DisputeClosed        DisputeStatus = "closed"
)

// TransactionDispute is a customer complaint about one transaction.
// A transaction has at most one dispute.
type TransactionDispute struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	RaisedBy      uuid.UUID
	Reason        DisputeReason
	Description   string
	Status        DisputeStatus
	Resolution    string
	ResolvedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTransactionDispute opens a dispute
func NewTransactionDispute(transactionID, raisedBy uuid.UUID, reason DisputeReason, description string, now time.Time) (*TransactionDispute, error) {
	if !reason.IsValid() {
		return nil, errs.NewValidationError("reason", "must be one of unauthorized, duplicate, not_received, defective, incorrect_amount, fraud, other")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errs.NewValidationError("description", "is required")
	}
	return &TransactionDispute{
		ID:            uuid.New(),
		TransactionID: transactionID,
		RaisedBy:      raisedBy,
		Reason:        reason,
		Description:   description,
		Status:        DisputeOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
