package user

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
)

// Register creates a new user together with its default preferences
func (u *UserUseCase) Register(ctx context.Context, cmd usecase.RegisterUserCommand) (*entity.User, error) {
	if err := u.validator.Struct(cmd); err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := entity.NewUser(entity.NewUserParams{
		Email:         cmd.Email,
		Username:      cmd.Username,
		PasswordHash:  hash,
		FirstName:     cmd.FirstName,
		LastName:      cmd.LastName,
		PhoneNumber:   cmd.PhoneNumber,
		DateOfBirth:   cmd.DateOfBirth,
		WalletAddress: cmd.WalletAddress,
	}, u.timeProvider)
	if err != nil {
		return nil, err
	}

	err = u.uow.Execute(ctx, func(txCtx context.Context) error {
		users := u.uow.GetUserRepository(txCtx)

		exists, err := users.Exists(txCtx, user.Email, user.Username)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: email or username already registered", errs.ErrDuplicate)
		}

		if err := users.Create(txCtx, user); err != nil {
			return err
		}
		return u.uow.GetPreferenceRepository(txCtx).Save(txCtx, entity.DefaultPreferences(user.ID, user.CreatedAt))
	})
	if err != nil {
		u.logger.Warn("User registration failed", map[string]any{
			"username": cmd.Username,
			"error":    err.Error(),
		})
		return nil, err
	}

	u.logger.Info("User registered", map[string]any{
		"user_id":  user.ID.String(),
		"username": user.Username,
	})
	return user, nil
}
