package transaction

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/notify"
	"github.com/google/uuid"
)

// Dispute opens the single dispute a transaction may have. A completed
// transaction moves to disputed.
func (s *Service) Dispute(ctx context.Context, userID, transactionID uuid.UUID, cmd usecase.DisputeCommand) (*entity.TransactionDispute, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	var (
		tx      *entity.Transaction
		dispute *entity.TransactionDispute
	)
	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		repo := s.uow.GetTransactionRepository(txCtx)
		disputes := s.uow.GetDisputeRepository(txCtx)

		var err error
		tx, err = repo.GetForUpdate(txCtx, transactionID)
		if err != nil {
			return err
		}
		if err := s.ensureVisible(txCtx, userID, tx); err != nil {
			return err
		}

		exists, err := disputes.ExistsForTransaction(txCtx, tx.ID)
		if err != nil {
			return err
		}
		if exists {
			return errs.ErrDisputeExists
		}

		now := s.timeProvider.Now()
		dispute, err = entity.NewTransactionDispute(tx.ID, userID, entity.DisputeReason(cmd.Reason), cmd.Description, now)
		if err != nil {
			return err
		}
		if err := disputes.Create(txCtx, dispute); err != nil {
			return err
		}

		if tx.Status != entity.StatusCompleted {
			return nil
		}
		if err := tx.TransitionTo(entity.StatusDisputed, now); err != nil {
			return err
		}
		return repo.Update(txCtx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction disputed", map[string]any{
		"transaction_id": tx.ID.String(),
		"dispute_id":     dispute.ID.String(),
		"reason":         string(dispute.Reason),
	})
	event := notify.TransactionEvent(coreport.EventTransactionDisputed, tx, dispute.CreatedAt)
	event.Payload["dispute_id"] = dispute.ID.String()
	event.Payload["reason"] = string(dispute.Reason)
	s.notifier.Publish(ctx, event)
	return dispute, nil
}
