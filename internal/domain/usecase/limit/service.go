package limit

import (
	"context"
	"strings"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/notify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var _ usecase.LimitUseCase = (*Service)(nil)

// Service manages account and user limits
type Service struct {
	uow          persistence.UnitOfWork
	validator    coreport.Validator
	timeProvider coreport.TimeProvider
	notifier     *notify.Notifier
	logger       coreport.Logger
}

// NewLimitService creates a new limit Service
func NewLimitService(
	uow persistence.UnitOfWork,
	validator coreport.Validator,
	timeProvider coreport.TimeProvider,
	publisher coreport.EventPublisher,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		validator:    validator,
		timeProvider: timeProvider,
		notifier:     notify.NewNotifier(publisher, logger),
		logger:       logger,
	}
}

// ListAccountLimits returns the limits of one of the caller's accounts
func (s *Service) ListAccountLimits(ctx context.Context, userID, accountID uuid.UUID) ([]*entity.AccountLimit, error) {
	if err := s.ensureOwned(ctx, userID, accountID); err != nil {
		return nil, err
	}
	return s.uow.GetAccountLimitRepository(ctx).ListByAccount(ctx, accountID)
}

// SetAccountLimit creates or replaces the limit of the given type. Replacing
// keeps the used counter.
func (s *Service) SetAccountLimit(ctx context.Context, userID, accountID uuid.UUID, cmd usecase.SetAccountLimitCommand) (*entity.AccountLimit, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}
	amount, err := parseLimit("limit_amount", cmd.LimitAmount)
	if err != nil {
		return nil, err
	}

	limit, err := entity.NewAccountLimit(accountID, entity.AccountLimitType(cmd.LimitType), amount, entity.ResetPeriod(cmd.ResetPeriod), s.timeProvider.Now())
	if err != nil {
		return nil, err
	}
	if cmd.IsActive != nil {
		limit.IsActive = *cmd.IsActive
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.ensureOwned(txCtx, userID, accountID); err != nil {
			return err
		}
		return s.uow.GetAccountLimitRepository(txCtx).Upsert(txCtx, limit)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account limit set", map[string]any{
		"account_id":   accountID.String(),
		"limit_type":   string(limit.LimitType),
		"limit_amount": entity.FormatMoney(limit.LimitAmount),
		"reset_period": string(limit.ResetPeriod),
	})
	return limit, nil
}

// ListUserLimits returns the caller's user level limits
func (s *Service) ListUserLimits(ctx context.Context, userID uuid.UUID) ([]*entity.TransactionLimit, error) {
	return s.uow.GetTransactionLimitRepository(ctx).ListByUser(ctx, userID)
}

// SetUserLimit creates or replaces a user level limit
func (s *Service) SetUserLimit(ctx context.Context, userID uuid.UUID, cmd usecase.SetUserLimitCommand) (*entity.TransactionLimit, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}
	value, err := parseLimit("limit_value", cmd.LimitValue)
	if err != nil {
		return nil, err
	}

	txType := entity.TransactionType(strings.ToLower(strings.TrimSpace(cmd.TransactionType)))
	limit, err := entity.NewTransactionLimit(userID, cmd.AccountID, txType, entity.UserLimitType(cmd.LimitType), value, s.timeProvider.Now())
	if err != nil {
		return nil, err
	}
	if cmd.IsActive != nil {
		limit.IsActive = *cmd.IsActive
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if cmd.AccountID != nil {
			if err := s.ensureOwned(txCtx, userID, *cmd.AccountID); err != nil {
				return err
			}
		}
		return s.uow.GetTransactionLimitRepository(txCtx).Upsert(txCtx, limit)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User limit set", map[string]any{
		"user_id":     userID.String(),
		"limit_type":  string(limit.LimitType),
		"limit_value": entity.FormatMoney(limit.LimitAmount),
	})
	return limit, nil
}

// ResetExpired resets every active limit whose period has elapsed
func (s *Service) ResetExpired(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()
	reset := 0

	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		reset = 0

		accountLimits := s.uow.GetAccountLimitRepository(txCtx)
		active, err := accountLimits.ListActive(txCtx)
		if err != nil {
			return err
		}
		for _, l := range active {
			if !l.ResetIfDue(now) {
				continue
			}
			l.UpdatedAt = now
			if err := accountLimits.Update(txCtx, l); err != nil {
				return err
			}
			reset++
		}

		userLimits := s.uow.GetTransactionLimitRepository(txCtx)
		activeUser, err := userLimits.ListActive(txCtx)
		if err != nil {
			return err
		}
		for _, l := range activeUser {
			if !l.ResetIfDue(now) {
				continue
			}
			l.UpdatedAt = now
			if err := userLimits.Update(txCtx, l); err != nil {
				return err
			}
			reset++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Limit reset sweep failed", map[string]any{"error": err.Error()})
		return 0, err
	}

	s.logger.Info("Limit reset sweep finished", map[string]any{"reset": reset})
	if reset > 0 {
		s.notifier.Publish(ctx, coreport.Event{
			Name:       coreport.EventLimitsReset,
			Key:        "limits",
			OccurredAt: now,
			Payload:    map[string]any{"reset": reset},
		})
	}
	return reset, nil
}

func (s *Service) ensureOwned(ctx context.Context, userID, accountID uuid.UUID) error {
	account, err := s.uow.GetAccountRepository(ctx).GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.IsOwnedBy(userID) {
		return errs.ErrAccountNotFound
	}
	return nil
}

func parseLimit(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, errs.NewValidationError(field, "must be a decimal number")
	}
	if d.IsNegative() {
		return decimal.Zero, errs.NewValidationError(field, "cannot be negative")
	}
	return d, nil
}
