package limit

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
)

var _ usecase.LimitEnforcer = (*Tracker)(nil)

// Tracker checks and consumes the account and user limits a posting touches.
// Counters whose period has passed are reset before they are checked.
type Tracker struct {
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewTracker creates a new Tracker
func NewTracker(uow persistence.UnitOfWork, timeProvider coreport.TimeProvider, logger coreport.Logger) *Tracker {
	return &Tracker{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Enforce runs inside the ledger's unit of work, so a rejected posting also
// discards every counter it had already consumed
func (t *Tracker) Enforce(txCtx context.Context, tx *entity.Transaction, from, to *entity.Account) error {
	now := t.timeProvider.Now()

	err := t.enforceAccountLimits(txCtx, tx, from, to, now)
	if err == nil && from != nil {
		err = t.enforceUserLimits(txCtx, tx, from, now)
	}
	if err != nil {
		fields := errs.LogFieldsOf(err)
		fields["transaction_id"] = tx.ID.String()
		fields["amount"] = entity.FormatMoney(tx.Amount)
		t.logger.Warn("Transaction limit exceeded", fields)
	}
	return err
}

func (t *Tracker) enforceAccountLimits(txCtx context.Context, tx *entity.Transaction, from, to *entity.Account, now time.Time) error {
	var ids []uuid.UUID
	if from != nil {
		ids = append(ids, from.ID)
	}
	if to != nil {
		ids = append(ids, to.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	repo := t.uow.GetAccountLimitRepository(txCtx)
	limits, err := repo.ListForUpdate(txCtx, ids)
	if err != nil {
		return err
	}

	for _, l := range limits {
		side, amount := entity.SideDebit, tx.Amount
		if from == nil || l.AccountID != from.ID {
			side, amount = entity.SideCredit, tx.NetAmount
		}

		changed, err := l.Enforce(tx.TransactionType, side, amount, now)
		if err != nil {
			return err
		}
		if changed {
			if err := repo.Update(txCtx, l); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Tracker) enforceUserLimits(txCtx context.Context, tx *entity.Transaction, from *entity.Account, now time.Time) error {
	repo := t.uow.GetTransactionLimitRepository(txCtx)
	limits, err := repo.ListForUpdate(txCtx, from.UserID)
	if err != nil {
		return err
	}

	for _, l := range limits {
		changed, err := l.Enforce(from.ID, tx.TransactionType, tx.Amount, now)
		if err != nil {
			return err
		}
		if changed {
			if err := repo.Update(txCtx, l); err != nil {
				return err
			}
		}
	}
	return nil
}
