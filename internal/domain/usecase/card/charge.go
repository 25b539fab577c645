package card

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/notify"
	"github.com/google/uuid"
)

const authCodeDigits = 6

// Charge authorizes a merchant charge against the card, posts a card_payment
// through the ledger and records the card transaction. All of it commits
// together or not at all.
func (s *Service) Charge(ctx context.Context, userID, cardID uuid.UUID, cmd usecase.ChargeCardCommand) (*usecase.CardCharge, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}
	amount, err := entity.ParseAmount(cmd.Amount)
	if err != nil {
		return nil, &errs.ValidationError{
			Fields: map[string]string{"amount": "must be a positive decimal with at most 8 decimal places"},
			Err:    errs.ErrInvalidAmount,
		}
	}
	req := entity.ChargeRequest{
		Amount:           amount,
		MerchantName:     cmd.MerchantName,
		MerchantCategory: cmd.MerchantCategory,
		MerchantLocation: cmd.MerchantLocation,
		Online:           cmd.Online,
		International:    cmd.International,
	}

	var result *usecase.CardCharge
	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		now := s.timeProvider.Now()

		card, err := s.lockOwned(txCtx, userID, cardID)
		if err != nil {
			return err
		}
		if err := card.Authorize(req, now); err != nil {
			return err
		}

		account, err := s.uow.GetAccountRepository(txCtx).GetByID(txCtx, card.AccountID)
		if err != nil {
			return err
		}

		tx, err := s.ledger.NewPending(txCtx, s.uow, entity.NewTransactionParams{
			FromAccountID:   &card.AccountID,
			Amount:          amount,
			Currency:        account.Currency,
			TransactionType: entity.TxCardPayment,
			Description:     fmt.Sprintf("Card payment at %s", req.MerchantName),
			CategoryID:      cmd.CategoryID,
			MerchantName:    req.MerchantName,
			InitiatedBy:     userID,
		})
		if err != nil {
			return err
		}
		if err := s.ledger.Post(txCtx, s.uow, tx); err != nil {
			return err
		}

		card.RecordCharge(amount, now)
		if err := s.uow.GetCardRepository(txCtx).Update(txCtx, card); err != nil {
			return err
		}

		authCode, err := s.random.Digits(authCodeDigits)
		if err != nil {
			return fmt.Errorf("failed to generate authorization code: %w", err)
		}
		cardTx := entity.NewCardTransaction(card, tx, req, authCode, now)
		if err := s.uow.GetCardTransactionRepository(txCtx).Create(txCtx, cardTx); err != nil {
			return err
		}

		result = &usecase.CardCharge{Card: card, Transaction: tx, CardTransaction: cardTx}
		return nil
	})
	if err != nil {
		fields := map[string]any{
			"card_id":  cardID.String(),
			"merchant": cmd.MerchantName,
			"amount":   cmd.Amount,
			"error":    err.Error(),
		}
		for k, v := range errs.LogFieldsOf(err) {
			fields[k] = v
		}
		s.logger.Warn("Card charge declined", fields)
		return nil, err
	}

	s.logger.Info("Card charged", map[string]any{
		"card_id":            result.Card.ID.String(),
		"transaction_id":     result.Transaction.ID.String(),
		"authorization_code": result.CardTransaction.AuthorizationCode,
		"amount":             entity.FormatMoney(amount),
	})

	event := notify.TransactionEvent(coreport.EventCardCharged, result.Transaction, result.CardTransaction.CreatedAt)
	event.Key = result.Card.ID.String()
	event.Payload["card_id"] = result.Card.ID.String()
	event.Payload["card_transaction_id"] = result.CardTransaction.ID.String()
	event.Payload["merchant_name"] = result.CardTransaction.MerchantName
	s.notifier.Publish(ctx, event)
	return result, nil
}
