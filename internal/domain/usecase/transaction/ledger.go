package transaction

import (
	"bytes"
	"context"
	"slices"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/notify"
	"github.com/google/uuid"
)

// NewPending builds a pending transaction, assigns it a free reference number
// and stores it
func (s *Service) NewPending(txCtx context.Context, uow persistence.UnitOfWork, params entity.NewTransactionParams) (*entity.Transaction, error) {
	tx, err := entity.NewTransaction(params, s.timeProvider)
	if err != nil {
		return nil, err
	}

	repo := uow.GetTransactionRepository(txCtx)
	reference, err := s.references.Next(txCtx, repo)
	if err != nil {
		return nil, err
	}
	tx.AssignReference(reference)

	if err := repo.Create(txCtx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Post moves a pending transaction through processing to completed. Accounts
// are locked in ascending id order, then checked, limited and updated. Any
// error leaves the unit of work to be rolled back by the caller.
func (s *Service) Post(txCtx context.Context, uow persistence.UnitOfWork, tx *entity.Transaction) error {
	now := s.timeProvider.Now()
	if err := tx.TransitionTo(entity.StatusProcessing, now); err != nil {
		return err
	}

	locked, err := lockAccounts(txCtx, uow.GetAccountRepository(txCtx), tx.FromAccountID, tx.ToAccountID)
	if err != nil {
		return err
	}
	var from, to *entity.Account
	if tx.FromAccountID != nil {
		from = locked[*tx.FromAccountID]
		if err := from.CanTransact(tx.Currency); err != nil {
			return err
		}
		if err := from.CanDebit(tx.Amount); err != nil {
			return err
		}
	}
	if tx.ToAccountID != nil {
		to = locked[*tx.ToAccountID]
		if err := to.CanTransact(tx.Currency); err != nil {
			return err
		}
	}

	if err := s.limits.Enforce(txCtx, tx, from, to); err != nil {
		return err
	}

	accounts := uow.GetAccountRepository(txCtx)
	if from != nil {
		if err := from.Debit(tx.Amount, now); err != nil {
			return err
		}
		if err := accounts.Update(txCtx, from); err != nil {
			return err
		}
	}
	if to != nil {
		if err := to.Credit(tx.NetAmount, now); err != nil {
			return err
		}
		if err := accounts.Update(txCtx, to); err != nil {
			return err
		}
	}

	if err := tx.TransitionTo(entity.StatusCompleted, now); err != nil {
		return err
	}
	return uow.GetTransactionRepository(txCtx).Update(txCtx, tx)
}

// lockAccounts takes row locks on the given accounts in ascending id order so
// two transfers between the same pair of accounts cannot deadlock
func lockAccounts(txCtx context.Context, repo persistence.AccountRepository, ids ...*uuid.UUID) (map[uuid.UUID]*entity.Account, error) {
	order := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != nil && !slices.Contains(order, *id) {
			order = append(order, *id)
		}
	}
	slices.SortFunc(order, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})

	locked := make(map[uuid.UUID]*entity.Account, len(order))
	for _, id := range order {
		account, err := repo.GetForUpdate(txCtx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = account
	}
	return locked, nil
}

// ProcessPending posts a pending transaction. When the ledger rules reject it,
// the transaction is marked failed in a separate unit of work and the
// rejection is returned.
func (s *Service) ProcessPending(ctx context.Context, userID, transactionID uuid.UUID) (*entity.Transaction, error) {
	var tx *entity.Transaction
	postErr := s.uow.Execute(ctx, func(txCtx context.Context) error {
		var err error
		tx, err = s.uow.GetTransactionRepository(txCtx).GetForUpdate(txCtx, transactionID)
		if err != nil {
			return err
		}
		if err := s.ensureVisible(txCtx, userID, tx); err != nil {
			return err
		}
		if tx.Status != entity.StatusPending {
			return errs.NewValidationError("status", "only pending transactions can be processed")
		}
		return s.Post(txCtx, s.uow, tx)
	})
	if postErr == nil {
		s.logger.Info("Pending transaction completed", map[string]any{
			"transaction_id":   tx.ID.String(),
			"reference_number": tx.ReferenceNumber,
		})
		s.notifier.Publish(ctx, notify.TransactionEvent(coreport.EventTransactionCompleted, tx, s.timeProvider.Now()))
		return tx, nil
	}
	if tx == nil || tx.Status == entity.StatusCompleted || errs.KindOf(postErr) != errs.KindValidation {
		return nil, postErr
	}

	failed, err := s.markFailed(ctx, transactionID, postErr)
	if err != nil {
		s.logger.Error("Failed to mark transaction as failed", map[string]any{
			"transaction_id": transactionID.String(),
			"cause":          postErr.Error(),
			"error":          err.Error(),
		})
		return nil, postErr
	}
	if failed != nil {
		s.notifier.Publish(ctx, notify.TransactionEvent(coreport.EventTransactionFailed, failed, s.timeProvider.Now()))
	}
	return failed, postErr
}

// markFailed records a rejected posting. It returns nil when the transaction is
// no longer pending.
func (s *Service) markFailed(ctx context.Context, transactionID uuid.UUID, cause error) (*entity.Transaction, error) {
	var tx *entity.Transaction
	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		repo := s.uow.GetTransactionRepository(txCtx)

		current, err := repo.GetForUpdate(txCtx, transactionID)
		if err != nil {
			return err
		}
		if current.Status != entity.StatusPending {
			return nil
		}
		if err := current.MarkAsFailed(cause.Error(), s.timeProvider.Now()); err != nil {
			return err
		}
		tx = current
		return repo.Update(txCtx, current)
	})
	if err != nil {
		return nil, err
	}

	if tx != nil {
		s.logger.Warn("Transaction failed", map[string]any{
			"transaction_id": tx.ID.String(),
			"reason":         tx.FailureReason,
			"error_code":     errs.ErrorCode(cause),
		})
	}
	return tx, nil
}
