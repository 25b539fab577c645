package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
)

const (
	// MaxAccountsPerUser caps how many accounts one user may open
	MaxAccountsPerUser = 10

	numberAttempts = 5
)

var _ usecase.AccountUseCase = (*AccountUseCase)(nil)

// AccountUseCase opens and manages accounts
type AccountUseCase struct {
	uow          persistence.UnitOfWork
	validator    coreport.Validator
	random       coreport.RandomSource
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewAccountUseCase creates a new AccountUseCase
func NewAccountUseCase(
	uow persistence.UnitOfWork,
	validator coreport.Validator,
	random coreport.RandomSource,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		uow:          uow,
		validator:    validator,
		random:       random,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create opens an empty account. A user holds at most one account per type
// and currency and at most MaxAccountsPerUser accounts.
func (u *AccountUseCase) Create(ctx context.Context, userID uuid.UUID, cmd usecase.CreateAccountCommand) (*entity.Account, error) {
	if err := u.validator.Struct(cmd); err != nil {
		return nil, err
	}
	accountType := entity.AccountType(strings.ToLower(cmd.AccountType))
	currency, err := entity.ParseCurrency(cmd.Currency)
	if err != nil {
		return nil, err
	}

	var account *entity.Account
	err = u.uow.Execute(ctx, func(txCtx context.Context) error {
		if _, err := u.uow.GetUserRepository(txCtx).GetByID(txCtx, userID); err != nil {
			return err
		}
		if cmd.ChainID != nil {
			if _, err := u.uow.GetNetworkRepository(txCtx).GetActive(txCtx, *cmd.ChainID); err != nil {
				return err
			}
		}

		accounts := u.uow.GetAccountRepository(txCtx)
		count, err := accounts.CountByUser(txCtx, userID)
		if err != nil {
			return err
		}
		if count >= MaxAccountsPerUser {
			return fmt.Errorf("%w: a user may hold %d accounts", errs.ErrAccountLimitReached, MaxAccountsPerUser)
		}

		exists, err := accounts.Exists(txCtx, userID, accountType, currency)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s account in %s already exists", errs.ErrDuplicate, accountType, currency)
		}

		number, err := u.freeNumber(txCtx, accounts, accountType)
		if err != nil {
			return err
		}
		account, err = entity.NewAccount(userID, accountType, currency, number, cmd.ChainID, u.timeProvider)
		if err != nil {
			return err
		}
		return accounts.Create(txCtx, account)
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("Account created", map[string]any{
		"account_id":     account.ID.String(),
		"user_id":        userID.String(),
		"account_type":   string(account.AccountType),
		"currency":       string(account.Currency),
		"account_number": account.AccountNumber,
	})
	return account, nil
}

func (u *AccountUseCase) freeNumber(txCtx context.Context, accounts persistence.AccountRepository, accountType entity.AccountType) (string, error) {
	for i := 0; i < numberAttempts; i++ {
		number, err := entity.GenerateAccountNumber(accountType, u.random)
		if err != nil {
			return "", err
		}
		taken, err := accounts.NumberExists(txCtx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("%w: no free account number after %d attempts", errs.ErrDuplicate, numberAttempts)
}

// List returns the caller's accounts
func (u *AccountUseCase) List(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error) {
	return u.uow.GetAccountRepository(ctx).ListByUser(ctx, userID)
}

// Get returns one of the caller's accounts
func (u *AccountUseCase) Get(ctx context.Context, userID, accountID uuid.UUID) (*entity.Account, error) {
	account, err := u.uow.GetAccountRepository(ctx).GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsOwnedBy(userID) {
		return nil, errs.ErrAccountNotFound
	}
	return account, nil
}

// Freeze blocks every balance movement on the account
func (u *AccountUseCase) Freeze(ctx context.Context, userID, accountID uuid.UUID) (*entity.Account, error) {
	return u.setFrozen(ctx, userID, accountID, true)
}

// Unfreeze lifts a freeze
func (u *AccountUseCase) Unfreeze(ctx context.Context, userID, accountID uuid.UUID) (*entity.Account, error) {
	return u.setFrozen(ctx, userID, accountID, false)
}

func (u *AccountUseCase) setFrozen(ctx context.Context, userID, accountID uuid.UUID, frozen bool) (*entity.Account, error) {
	var account *entity.Account
	err := u.uow.Execute(ctx, func(txCtx context.Context) error {
		accounts := u.uow.GetAccountRepository(txCtx)

		var err error
		account, err = accounts.GetForUpdate(txCtx, accountID)
		if err != nil {
			return err
		}
		if !account.IsOwnedBy(userID) {
			return errs.ErrAccountNotFound
		}

		now := u.timeProvider.Now()
		if frozen {
			account.Freeze(now)
		} else {
			account.Unfreeze(now)
		}
		return accounts.Update(txCtx, account)
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("Account freeze changed", map[string]any{
		"account_id": accountID.String(),
		"frozen":     frozen,
	})
	return account, nil
}
