package card

import (
	"context"
	"errors"
	"fmt"
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

// numberAttempts bounds the redraws of a colliding card number
const numberAttempts = 5

var _ usecase.CardUseCase = (*Service)(nil)

// Service issues cards and charges them through the ledger
type Service struct {
	uow          persistence.UnitOfWork
	ledger       usecase.LedgerPoster
	encryptor    coreport.Encryptor
	random       coreport.RandomSource
	validator    coreport.Validator
	timeProvider coreport.TimeProvider
	notifier     *notify.Notifier
	logger       coreport.Logger
}

// NewCardService creates a new card service
func NewCardService(
	uow persistence.UnitOfWork,
	ledger usecase.LedgerPoster,
	encryptor coreport.Encryptor,
	random coreport.RandomSource,
	validator coreport.Validator,
	timeProvider coreport.TimeProvider,
	publisher coreport.EventPublisher,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		ledger:       ledger,
		encryptor:    encryptor,
		random:       random,
		validator:    validator,
		timeProvider: timeProvider,
		notifier:     notify.NewNotifier(publisher, logger),
		logger:       logger,
	}
}

// Issue issues a card of any type on one of the caller's accounts
func (s *Service) Issue(ctx context.Context, userID uuid.UUID, cmd usecase.IssueCardCommand) (*entity.Card, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	var card *entity.Card
	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		account, err := s.ownedAccount(txCtx, userID, cmd.AccountID)
		if err != nil {
			return err
		}
		card, err = s.issue(txCtx, account, entity.NewCardParams{
			CardType: entity.CardType(cmd.CardType),
			Nickname: cmd.Nickname,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.issued(ctx, card)
	return card, nil
}

// CreateVirtual issues a virtual card with its spending controls. Without an
// account the caller's oldest active checking account is used.
func (s *Service) CreateVirtual(ctx context.Context, userID uuid.UUID, cmd usecase.CreateVirtualCardCommand) (*entity.Card, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}
	cardType := entity.CardType(cmd.CardType)
	if !cardType.IsVirtual() {
		return nil, errs.NewValidationError("card_type", "must be a virtual card type")
	}

	var spendingLimit *decimal.Decimal
	if strings.TrimSpace(cmd.SpendingLimit) != "" {
		limit, err := entity.ParseAmount(cmd.SpendingLimit)
		if err != nil {
			return nil, errs.NewValidationError("spending_limit", "must be a positive decimal with at most 8 decimal places")
		}
		spendingLimit = &limit
	}

	var card *entity.Card
	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		account, err := s.fundingAccount(txCtx, userID, cmd.AccountID)
		if err != nil {
			return err
		}
		card, err = s.issue(txCtx, account, entity.NewCardParams{
			CardType:      cardType,
			Nickname:      cmd.Nickname,
			SpendingLimit: spendingLimit,
			MerchantName:  cmd.MerchantName,
			MaxUsageCount: cmd.MaxUsageCount,
			ExpiresAt:     cmd.ExpiresAt,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.issued(ctx, card)
	return card, nil
}

// List returns the caller's cards, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*entity.Card, error) {
	return s.uow.GetCardRepository(ctx).ListByUser(ctx, userID)
}

// Get returns one of the caller's cards
func (s *Service) Get(ctx context.Context, userID, cardID uuid.UUID) (*entity.Card, error) {
	card, err := s.uow.GetCardRepository(ctx).GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !card.IsOwnedBy(userID) {
		return nil, errs.ErrCardNotFound
	}
	return card, nil
}

// ToggleStatus moves a card between active, inactive and blocked
func (s *Service) ToggleStatus(ctx context.Context, userID, cardID uuid.UUID, status string) (*entity.Card, error) {
	return s.modify(ctx, userID, cardID, "Card status changed", func(card *entity.Card) error {
		return card.SetStatus(entity.CardStatus(strings.ToLower(strings.TrimSpace(status))), s.timeProvider.Now())
	})
}

// UpdateLimits changes the spending limit of a virtual card
func (s *Service) UpdateLimits(ctx context.Context, userID, cardID uuid.UUID, spendingLimit string) (*entity.Card, error) {
	limit, err := entity.ParseAmount(spendingLimit)
	if err != nil {
		return nil, errs.NewValidationError("spending_limit", "must be a positive decimal with at most 8 decimal places")
	}
	return s.modify(ctx, userID, cardID, "Card spending limit updated", func(card *entity.Card) error {
		return card.UpdateSpendingLimit(limit, s.timeProvider.Now())
	})
}

// ListTransactions returns one page of a card's charges
func (s *Service) ListTransactions(ctx context.Context, userID, cardID uuid.UUID, page entity.Page) (entity.PageResult[*entity.CardTransaction], error) {
	page = page.Normalize()
	empty := entity.NewPageResult[*entity.CardTransaction](nil, 0, page)

	if _, err := s.Get(ctx, userID, cardID); err != nil {
		return empty, err
	}
	items, total, err := s.uow.GetCardTransactionRepository(ctx).ListByCard(ctx, cardID, page)
	if err != nil {
		return empty, err
	}
	return entity.NewPageResult(items, total, page), nil
}

func (s *Service) modify(ctx context.Context, userID, cardID uuid.UUID, message string, change func(*entity.Card) error) (*entity.Card, error) {
	var card *entity.Card
	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		var err error
		card, err = s.lockOwned(txCtx, userID, cardID)
		if err != nil {
			return err
		}
		if err := change(card); err != nil {
			return err
		}
		return s.uow.GetCardRepository(txCtx).Update(txCtx, card)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(message, map[string]any{
		"card_id": card.ID.String(),
		"status":  string(card.Status),
	})
	return card, nil
}

// issue draws a free number and a CVV, encrypts both and stores the card
func (s *Service) issue(txCtx context.Context, account *entity.Account, params entity.NewCardParams) (*entity.Card, error) {
	if !account.IsActive {
		return nil, errs.ErrAccountInactive
	}

	number, err := s.freeNumber(txCtx)
	if err != nil {
		return nil, err
	}
	cvv, err := entity.GenerateCVV(s.random)
	if err != nil {
		return nil, err
	}

	params.AccountID = account.ID
	params.UserID = account.UserID
	params.CardNumber = number
	params.CVV = cvv
	if params.CardNumberEncrypted, err = s.encryptor.Encrypt(number); err != nil {
		return nil, fmt.Errorf("failed to encrypt card number: %w", err)
	}
	if params.CVVEncrypted, err = s.encryptor.Encrypt(cvv); err != nil {
		return nil, fmt.Errorf("failed to encrypt cvv: %w", err)
	}

	card, err := entity.NewCard(params, s.timeProvider.Now())
	if err != nil {
		return nil, err
	}
	if err := s.uow.GetCardRepository(txCtx).Create(txCtx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *Service) freeNumber(txCtx context.Context) (string, error) {
	cards := s.uow.GetCardRepository(txCtx)
	for range numberAttempts {
		number, err := entity.GenerateCardNumber(s.random)
		if err != nil {
			return "", err
		}
		taken, err := cards.NumberExists(txCtx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("%w: could not draw a free card number", errs.ErrDuplicate)
}

func (s *Service) issued(ctx context.Context, card *entity.Card) {
	s.logger.Info("Card issued", map[string]any{
		"card_id":    card.ID.String(),
		"account_id": card.AccountID.String(),
		"card_type":  string(card.CardType),
		"number":     card.MaskedNumber(),
	})
	s.notifier.Publish(ctx, coreport.Event{
		Name:       coreport.EventCardIssued,
		Key:        card.ID.String(),
		OccurredAt: card.CreatedAt,
		Payload: map[string]any{
			"card_id":    card.ID.String(),
			"user_id":    card.UserID.String(),
			"account_id": card.AccountID.String(),
			"card_type":  string(card.CardType),
			"last4":      card.CardNumber[len(card.CardNumber)-4:],
		},
	})
}

func (s *Service) ownedAccount(txCtx context.Context, userID, accountID uuid.UUID) (*entity.Account, error) {
	account, err := s.uow.GetAccountRepository(txCtx).GetByID(txCtx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsOwnedBy(userID) {
		return nil, errs.ErrAccountNotFound
	}
	return account, nil
}

func (s *Service) fundingAccount(txCtx context.Context, userID uuid.UUID, accountID *uuid.UUID) (*entity.Account, error) {
	if accountID != nil {
		return s.ownedAccount(txCtx, userID, *accountID)
	}

	account, err := s.uow.GetAccountRepository(txCtx).FindActiveByType(txCtx, userID, entity.AccountChecking)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.ErrNoEligibleAccount
	}
	return account, err
}

func (s *Service) lockOwned(txCtx context.Context, userID, cardID uuid.UUID) (*entity.Card, error) {
	card, err := s.uow.GetCardRepository(txCtx).GetForUpdate(txCtx, cardID)
	if err != nil {
		return nil, err
	}
	if !card.IsOwnedBy(userID) {
		return nil, errs.ErrCardNotFound
	}
	return card, nil
}
