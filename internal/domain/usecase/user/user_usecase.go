package user

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
)

var _ usecase.UserUseCase = (*UserUseCase)(nil)

// UserUseCase handles identity, profile and preference logic
type UserUseCase struct {
	uow          persistence.UnitOfWork
	hasher       coreport.PasswordHasher
	validator    coreport.Validator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	uow persistence.UnitOfWork,
	hasher coreport.PasswordHasher,
	validator coreport.Validator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *UserUseCase {
	return &UserUseCase{
		uow:          uow,
		hasher:       hasher,
		validator:    validator,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetProfile returns the user
func (u *UserUseCase) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return u.uow.GetUserRepository(ctx).GetByID(ctx, userID)
}

// UpdateProfile applies the non-nil profile fields
func (u *UserUseCase) UpdateProfile(ctx context.Context, userID uuid.UUID, cmd usecase.UpdateProfileCommand) (*entity.User, error) {
	if err := u.validator.Struct(cmd); err != nil {
		return nil, err
	}

	return u.modify(ctx, userID, "Profile updated", func(user *entity.User) error {
		user.UpdateProfile(entity.ProfileUpdate{
			FirstName:   cmd.FirstName,
			LastName:    cmd.LastName,
			PhoneNumber: cmd.PhoneNumber,
			DateOfBirth: cmd.DateOfBirth,
		}, u.timeProvider)
		return nil
	})
}

// ConnectWallet stores the wallet address used by the web3 features
func (u *UserUseCase) ConnectWallet(ctx context.Context, userID uuid.UUID, address string) (*entity.User, error) {
	return u.modify(ctx, userID, "Wallet connected", func(user *entity.User) error {
		return user.ConnectWallet(address, u.timeProvider)
	})
}

// SetKYCStatus records the back-office KYC decision
func (u *UserUseCase) SetKYCStatus(ctx context.Context, userID uuid.UUID, status entity.KYCStatus) (*entity.User, error) {
	return u.modify(ctx, userID, "KYC status changed", func(user *entity.User) error {
		return user.SetKYCStatus(status, u.timeProvider)
	})
}

// modify loads the user, applies change and saves it in one unit of work
func (u *UserUseCase) modify(ctx context.Context, userID uuid.UUID, message string, change func(*entity.User) error) (*entity.User, error) {
	var user *entity.User
	err := u.uow.Execute(ctx, func(txCtx context.Context) error {
		repo := u.uow.GetUserRepository(txCtx)

		var err error
		user, err = repo.GetByID(txCtx, userID)
		if err != nil {
			return err
		}
		if err := change(user); err != nil {
			return err
		}
		return repo.Update(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info(message, map[string]any{
		"user_id":    userID.String(),
		"kyc_status": string(user.KYCStatus),
	})
	return user, nil
}
