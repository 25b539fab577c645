package transaction

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/notify"
	"github.com/google/uuid"
)

var (
	_ usecase.TransactionUseCase = (*Service)(nil)
	_ usecase.LedgerPoster       = (*Service)(nil)
)

// Service is the ledger. It owns every balance movement: other use cases post
// through it inside their own unit of work.
type Service struct {
	uow          persistence.UnitOfWork
	limits       usecase.LimitEnforcer
	validator    coreport.Validator
	references   *ReferenceGenerator
	timeProvider coreport.TimeProvider
	notifier     *notify.Notifier
	logger       coreport.Logger
}

// NewTransactionService creates a new ledger service
func NewTransactionService(
	uow persistence.UnitOfWork,
	limits usecase.LimitEnforcer,
	validator coreport.Validator,
	timeProvider coreport.TimeProvider,
	random coreport.RandomSource,
	publisher coreport.EventPublisher,
	logger coreport.Logger,
	referenceAttempts int,
) *Service {
	return &Service{
		uow:          uow,
		limits:       limits,
		validator:    validator,
		references:   NewReferenceGenerator(random, timeProvider, referenceAttempts),
		timeProvider: timeProvider,
		notifier:     notify.NewNotifier(publisher, logger),
		logger:       logger,
	}
}

// Create validates the command and posts the transaction in one unit of work
func (s *Service) Create(ctx context.Context, userID uuid.UUID, cmd usecase.CreateTransactionCommand) (*entity.Transaction, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}
	params, err := parseCreateCommand(userID, cmd)
	if err != nil {
		return nil, err
	}

	var tx *entity.Transaction
	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.authorize(txCtx, userID, params); err != nil {
			return err
		}

		var err error
		tx, err = s.NewPending(txCtx, s.uow, params)
		if err != nil {
			return err
		}
		return s.Post(txCtx, s.uow, tx)
	})
	if err != nil {
		s.logFailure("Transaction rejected", userID, params, err)
		return nil, err
	}

	s.logger.Info("Transaction completed", map[string]any{
		"transaction_id":   tx.ID.String(),
		"reference_number": tx.ReferenceNumber,
		"amount":           entity.FormatMoney(tx.Amount),
		"currency":         string(tx.Currency),
		"user_id":          userID.String(),
	})
	s.notifier.Publish(ctx, notify.TransactionEvent(coreport.EventTransactionCompleted, tx, s.timeProvider.Now()))
	return tx, nil
}

// Get returns a transaction that touches one of the caller's accounts
func (s *Service) Get(ctx context.Context, userID, transactionID uuid.UUID) (*entity.Transaction, error) {
	tx, err := s.uow.GetTransactionRepository(ctx).GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureVisible(ctx, userID, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// List returns one page of the caller's transactions
func (s *Service) List(ctx context.Context, userID uuid.UUID, query usecase.ListTransactionsQuery) (entity.PageResult[*entity.Transaction], error) {
	page := query.Page.Normalize()
	empty := entity.NewPageResult[*entity.Transaction](nil, 0, page)

	if err := s.validator.Struct(query); err != nil {
		return empty, err
	}

	ids, err := s.accountIDs(ctx, userID)
	if err != nil {
		return empty, err
	}
	if query.AccountID != nil {
		if !containsID(ids, *query.AccountID) {
			return empty, errs.ErrAccountNotFound
		}
		ids = []uuid.UUID{*query.AccountID}
	}
	if len(ids) == 0 {
		return empty, nil
	}

	filter := persistence.TransactionFilter{
		AccountIDs: ids,
		Status:     entity.TransactionStatus(query.Status),
		Type:       entity.TransactionType(query.Type),
	}
	items, total, err := s.uow.GetTransactionRepository(ctx).List(ctx, filter, page)
	if err != nil {
		return empty, err
	}
	return entity.NewPageResult(items, total, page), nil
}

// Cancel moves a pending transaction to cancelled
func (s *Service) Cancel(ctx context.Context, userID, transactionID uuid.UUID) (*entity.Transaction, error) {
	var tx *entity.Transaction
	err := s.uow.Execute(ctx, func(txCtx context.Context) error {
		repo := s.uow.GetTransactionRepository(txCtx)

		var err error
		tx, err = repo.GetForUpdate(txCtx, transactionID)
		if err != nil {
			return err
		}
		if err := s.ensureVisible(txCtx, userID, tx); err != nil {
			return err
		}
		if err := tx.TransitionTo(entity.StatusCancelled, s.timeProvider.Now()); err != nil {
			return err
		}
		return repo.Update(txCtx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction cancelled", map[string]any{
		"transaction_id": tx.ID.String(),
		"user_id":        userID.String(),
	})
	return tx, nil
}

// authorize checks that the caller owns the debited account, or the credited
// account when nothing is debited
func (s *Service) authorize(txCtx context.Context, userID uuid.UUID, params entity.NewTransactionParams) error {
	owned := params.FromAccountID
	if owned == nil {
		owned = params.ToAccountID
	}
	if _, err := s.ownedAccount(txCtx, userID, *owned); err != nil {
		return err
	}
	if params.ToAccountID != nil && owned != params.ToAccountID {
		if _, err := s.uow.GetAccountRepository(txCtx).GetByID(txCtx, *params.ToAccountID); err != nil {
			return err
		}
	}
	if params.CategoryID != nil {
		if _, err := s.uow.GetCategoryRepository(txCtx).GetByID(txCtx, *params.CategoryID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ownedAccount(ctx context.Context, userID, accountID uuid.UUID) (*entity.Account, error) {
	account, err := s.uow.GetAccountRepository(ctx).GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsOwnedBy(userID) {
		return nil, errs.ErrAccountNotFound
	}
	return account, nil
}

func (s *Service) accountIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	accounts, err := s.uow.GetAccountRepository(ctx).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// ensureVisible hides transactions that touch none of the caller's accounts
func (s *Service) ensureVisible(ctx context.Context, userID uuid.UUID, tx *entity.Transaction) error {
	ids, err := s.accountIDs(ctx, userID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if tx.Touches(id) {
			return nil
		}
	}
	return errs.ErrTransactionNotFound
}

func (s *Service) logFailure(message string, userID uuid.UUID, params entity.NewTransactionParams, err error) {
	fields := map[string]any{
		"user_id":          userID.String(),
		"amount":           entity.FormatMoney(params.Amount),
		"transaction_type": string(params.TransactionType),
		"error":            err.Error(),
	}
	for k, v := range errs.LogFieldsOf(err) {
		fields[k] = v
	}

	if errs.KindOf(err) == errs.KindUnexpected {
		s.logger.Error(message, fields)
		return
	}
	s.logger.Warn(message, fields)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
