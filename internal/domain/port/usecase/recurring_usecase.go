package usecase

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/google/uuid"
)

// CreateRecurringCommand defines a recurring template
type CreateRecurringCommand struct {
	FromAccountID   *uuid.UUID `validate:"required_without=ToAccountID"`
	ToAccountID     *uuid.UUID `validate:"required_without=FromAccountID"`
	Amount          string     `validate:"required"`
	Currency        string     `validate:"required"`
	TransactionType string     `validate:"required"`
	Description     string     `validate:"max=500"`
	CategoryID      *uuid.UUID `validate:"omitempty"`
	Frequency       string     `validate:"required,oneof=daily weekly biweekly monthly quarterly yearly"`
	StartDate       time.Time  `validate:"required"`
	EndDate         *time.Time `validate:"omitempty"`
	MaxExecutions   *int       `validate:"omitempty,gt=0"`
}

// RecurringExecution is the outcome of one template run
type RecurringExecution struct {
	Recurring   *entity.RecurringTransaction
	Transaction *entity.Transaction
}

// SweepResult summarizes a run of due templates
type SweepResult struct {
	Executed int
	Failed   int
}

// RecurringUseCase manages recurring templates
type RecurringUseCase interface {
	Create(ctx context.Context, userID uuid.UUID, cmd CreateRecurringCommand) (*entity.RecurringTransaction, error)
	List(ctx context.Context, userID uuid.UUID, page entity.Page) (entity.PageResult[*entity.RecurringTransaction], error)
	Get(ctx context.Context, userID, recurringID uuid.UUID) (*entity.RecurringTransaction, error)

	// Execute spawns the pending transaction of one run and advances the schedule
	Execute(ctx context.Context, userID, recurringID uuid.UUID) (*RecurringExecution, error)

	// Toggle flips a template between active and inactive
	Toggle(ctx context.Context, userID, recurringID uuid.UUID) (*entity.RecurringTransaction, error)

	// RunDue executes every due template, each in its own unit of work
	RunDue(ctx context.Context, now time.Time) (*SweepResult, error)
}
