package recurring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/notify"
	"github.com/google/uuid"
)

// DefaultBatchSize bounds how many due templates one sweep picks up
const DefaultBatchSize = 100

var _ usecase.RecurringUseCase = (*Service)(nil)

// Service manages recurring templates and runs the due ones
type Service struct {
	uow          persistence.UnitOfWork
	ledger       usecase.LedgerPoster
	validator    coreport.Validator
	timeProvider coreport.TimeProvider
	notifier     *notify.Notifier
	logger       coreport.Logger
	batchSize    int
}

// NewRecurringService creates a new recurring service
func NewRecurringService(
	uow persistence.UnitOfWork,
	ledger usecase.LedgerPoster,
	validator coreport.Validator,
	timeProvider coreport.TimeProvider,
	publisher coreport.EventPublisher,
	logger coreport.Logger,
	batchSize int,
) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Service{
		uow:          uow,
		ledger:       ledger,
		validator:    validator,
		timeProvider: timeProvider,
		notifier:     notify.NewNotifier(publisher, logger),
		logger:       logger,
		batchSize:    batchSize,
	}
}

// Create stores a new template after checking the caller may move money
// between its accounts
func (s *Service) Create(ctx context.Context, userID uuid.UUID, cmd usecase.CreateRecurringCommand) (*entity.RecurringTransaction, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}
	params, err := parseCreateCommand(userID, cmd)
	if err != nil {
		return nil, err
	}
	recurring, err := entity.NewRecurringTransaction(params, s.timeProvider.Now())
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.checkAccounts(txCtx, userID, recurring); err != nil {
			return err
		}
		return s.uow.GetRecurringRepository(txCtx).Create(txCtx, recurring)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Recurring transaction created", map[string]any{
		"recurring_id":   recurring.ID.String(),
		"user_id":        userID.String(),
		"frequency":      string(recurring.Frequency),
		"next_execution": recurring.NextExecution.Format(time.RFC3339),
	})
	return recurring, nil
}

// List returns one page of the caller's templates
func (s *Service) List(ctx context.Context, userID uuid.UUID, page entity.Page) (entity.PageResult[*entity.RecurringTransaction], error) {
	page = page.Normalize()
	items, total, err := s.uow.GetRecurringRepository(ctx).ListByUser(ctx, userID, page)
	if err != nil {
		return entity.NewPageResult[*entity.RecurringTransaction](nil, 0, page), err
	}
	return entity.NewPageResult(items, total, page), nil
}

// Get returns one of the caller's templates
func (s *Service) Get(ctx context.Context, userID, recurringID uuid.UUID) (*entity.RecurringTransaction, error) {
	recurring, err := s.uow.GetRecurringRepository(ctx).GetByID(ctx, recurringID)
	if err != nil {
		return nil, err
	}
	if recurring.UserID != userID {
		return nil, errs.ErrRecurringNotFound
	}
	return recurring, nil
}

// Toggle flips a template between active and inactive
func (s *Service) Toggle(ctx context.Context, userID, recurringID uuid.UUID) (*entity.RecurringTransaction, error) {
	var recurring *entity.RecurringTransaction
	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		var err error
		recurring, err = s.lockOwned(txCtx, userID, recurringID)
		if err != nil {
			return err
		}
		recurring.Toggle(s.timeProvider.Now())
		return s.uow.GetRecurringRepository(txCtx).Update(txCtx, recurring)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Recurring transaction toggled", map[string]any{
		"recurring_id": recurring.ID.String(),
		"is_active":    recurring.IsActive,
	})
	return recurring, nil
}

// Execute runs one template on demand regardless of its schedule
func (s *Service) Execute(ctx context.Context, userID, recurringID uuid.UUID) (*usecase.RecurringExecution, error) {
	now := s.timeProvider.Now()

	var result *usecase.RecurringExecution
	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		recurring, err := s.lockOwned(txCtx, userID, recurringID)
		if err != nil {
			return err
		}
		result, err = s.run(txCtx, recurring, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.executed(ctx, result, now)
	return result, nil
}

// RunDue executes every template due at now, at most once each. Templates are
// paged by id, so ones that keep failing cannot crowd out the rest. Each
// template runs in its own unit of work so one failure does not stop the sweep.
func (s *Service) RunDue(ctx context.Context, now time.Time) (*usecase.SweepResult, error) {
	result := &usecase.SweepResult{}
	due := 0
	cursor := uuid.Nil
	for {
		ids, err := s.uow.GetRecurringRepository(ctx).ListDueIDs(ctx, now, cursor, s.batchSize)
		if err != nil {
			if due == 0 {
				return nil, err
			}
			return result, err
		}
		due += len(ids)

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			execution, err := s.runDueOne(ctx, id, now)
			if err != nil {
				result.Failed++
				s.logger.Warn("Recurring transaction execution failed", map[string]any{
					"recurring_id": id.String(),
					"error":        err.Error(),
					"error_code":   errs.ErrorCode(err),
				})
				continue
			}
			if execution != nil {
				result.Executed++
				s.executed(ctx, execution, now)
			}
		}

		if len(ids) < s.batchSize {
			break
		}
		cursor = ids[len(ids)-1]
	}

	s.logger.Info("Recurring sweep finished", map[string]any{
		"due":      due,
		"executed": result.Executed,
		"failed":   result.Failed,
	})
	return result, nil
}

// runDueOne executes a template picked by the sweep. It returns nil when the
// template stopped being due after it was listed.
func (s *Service) runDueOne(ctx context.Context, recurringID uuid.UUID, now time.Time) (*usecase.RecurringExecution, error) {
	var result *usecase.RecurringExecution
	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		result = nil
		repo := s.uow.GetRecurringRepository(txCtx)
		recurring, err := repo.GetForUpdate(txCtx, recurringID)
		if err != nil {
			return err
		}

		if !recurring.IsDue(now) {
			if recurring.IsActive && recurring.IsExhausted(now) {
				recurring.IsActive = false
				recurring.UpdatedAt = now
				return repo.Update(txCtx, recurring)
			}
			return nil
		}

		result, err = s.run(txCtx, recurring, now)
		return err
	})
	return result, err
}

// run spawns the pending transaction of one execution and advances the schedule
func (s *Service) run(txCtx context.Context, recurring *entity.RecurringTransaction, now time.Time) (*usecase.RecurringExecution, error) {
	if !recurring.IsActive || recurring.IsExhausted(now) {
		return nil, errs.ErrRecurringInactive
	}

	tx, err := s.ledger.NewPending(txCtx, s.uow, recurring.TransactionParams())
	if err != nil {
		return nil, err
	}
	if err := recurring.RecordExecution(tx.ID, now); err != nil {
		return nil, err
	}
	if err := s.uow.GetRecurringRepository(txCtx).Update(txCtx, recurring); err != nil {
		return nil, err
	}
	return &usecase.RecurringExecution{Recurring: recurring, Transaction: tx}, nil
}

func (s *Service) executed(ctx context.Context, execution *usecase.RecurringExecution, now time.Time) {
	recurring, tx := execution.Recurring, execution.Transaction

	s.logger.Info("Recurring transaction executed", map[string]any{
		"recurring_id":    recurring.ID.String(),
		"transaction_id":  tx.ID.String(),
		"execution_count": recurring.ExecutionCount,
		"next_execution":  recurring.NextExecution.Format(time.RFC3339),
		"is_active":       recurring.IsActive,
	})

	event := notify.TransactionEvent(coreport.EventRecurringExecuted, tx, now)
	event.Key = recurring.ID.String()
	event.Payload["recurring_id"] = recurring.ID.String()
	event.Payload["execution_count"] = recurring.ExecutionCount
	s.notifier.Publish(ctx, event)
}

func (s *Service) lockOwned(txCtx context.Context, userID, recurringID uuid.UUID) (*entity.RecurringTransaction, error) {
	recurring, err := s.uow.GetRecurringRepository(txCtx).GetForUpdate(txCtx, recurringID)
	if err != nil {
		return nil, err
	}
	if recurring.UserID != userID {
		return nil, errs.ErrRecurringNotFound
	}
	return recurring, nil
}

// checkAccounts applies the ledger's ownership rule: the debited account, or
// the credited one when nothing is debited, must belong to the caller
func (s *Service) checkAccounts(txCtx context.Context, userID uuid.UUID, recurring *entity.RecurringTransaction) error {
	accounts := s.uow.GetAccountRepository(txCtx)

	owned := recurring.FromAccountID
	if owned == nil {
		owned = recurring.ToAccountID
	}
	account, err := accounts.GetByID(txCtx, *owned)
	if err != nil {
		return err
	}
	if !account.IsOwnedBy(userID) {
		return errs.ErrAccountNotFound
	}
	if account.Currency != recurring.Currency {
		return errs.NewValidationError("currency", errs.ErrCurrencyMismatch.Error())
	}

	if recurring.ToAccountID != nil && owned != recurring.ToAccountID {
		if _, err := accounts.GetByID(txCtx, *recurring.ToAccountID); err != nil {
			return err
		}
	}
	if recurring.CategoryID != nil {
		if _, err := s.uow.GetCategoryRepository(txCtx).GetByID(txCtx, *recurring.CategoryID); err != nil {
			return err
		}
	}
	return nil
}

func parseCreateCommand(userID uuid.UUID, cmd usecase.CreateRecurringCommand) (entity.NewRecurringParams, error) {
	fields := map[string]string{}

	amount, err := entity.ParseAmount(cmd.Amount)
	if err != nil {
		fields["amount"] = "must be a positive decimal with at most 8 decimal places"
	}
	currency, err := entity.ParseCurrency(cmd.Currency)
	if err != nil {
		fields["currency"] = fmt.Sprintf("unsupported currency %q", cmd.Currency)
	}
	txType := entity.TransactionType(strings.ToLower(strings.TrimSpace(cmd.TransactionType)))
	if !txType.IsValid() {
		fields["transaction_type"] = fmt.Sprintf("unsupported transaction type %q", cmd.TransactionType)
	}
	if cmd.FromAccountID != nil && cmd.ToAccountID != nil && *cmd.FromAccountID == *cmd.ToAccountID {
		fields["to_account"] = "must differ from from_account"
	}
	if len(fields) > 0 {
		return entity.NewRecurringParams{}, errs.NewFieldsError(fields)
	}

	return entity.NewRecurringParams{
		UserID:          userID,
		FromAccountID:   cmd.FromAccountID,
		ToAccountID:     cmd.ToAccountID,
		Amount:          amount,
		Currency:        currency,
		TransactionType: txType,
		Description:     cmd.Description,
		CategoryID:      cmd.CategoryID,
		Frequency:       entity.Frequency(strings.ToLower(cmd.Frequency)),
		StartDate:       cmd.StartDate,
		EndDate:         cmd.EndDate,
		MaxExecutions:   cmd.MaxExecutions,
	}, nil
}
