package user

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
)

// GetPreferences returns the preferences of a user, creating the defaults for
// users that predate preferences
func (u *UserUseCase) GetPreferences(ctx context.Context, userID uuid.UUID) (*entity.UserPreference, error) {
	var pref *entity.UserPreference
	err := u.uow.Execute(ctx, func(txCtx context.Context) error {
		var err error
		pref, err = u.loadPreferences(txCtx, userID)
		return err
	})
	return pref, err
}

// UpdatePreferences applies the non-nil preference fields
func (u *UserUseCase) UpdatePreferences(ctx context.Context, userID uuid.UUID, cmd usecase.UpdatePreferencesCommand) (*entity.UserPreference, error) {
	if err := u.validator.Struct(cmd); err != nil {
		return nil, err
	}

	var pref *entity.UserPreference
	err := u.uow.Execute(ctx, func(txCtx context.Context) error {
		var err error
		pref, err = u.loadPreferences(txCtx, userID)
		if err != nil {
			return err
		}

		err = pref.Apply(entity.PreferenceUpdate{
			PreferredCurrency:  cmd.PreferredCurrency,
			Language:           cmd.Language,
			Timezone:           cmd.Timezone,
			EmailNotifications: cmd.EmailNotifications,
			PushNotifications:  cmd.PushNotifications,
			SMSNotifications:   cmd.SMSNotifications,
			TwoFactorEnabled:   cmd.TwoFactorEnabled,
		}, u.timeProvider.Now())
		if err != nil {
			return err
		}
		return u.uow.GetPreferenceRepository(txCtx).Save(txCtx, pref)
	})
	if err != nil {
		return nil, err
	}
	return pref, nil
}

func (u *UserUseCase) loadPreferences(txCtx context.Context, userID uuid.UUID) (*entity.UserPreference, error) {
	if _, err := u.uow.GetUserRepository(txCtx).GetByID(txCtx, userID); err != nil {
		return nil, err
	}

	prefs := u.uow.GetPreferenceRepository(txCtx)
	pref, err := prefs.Get(txCtx, userID)
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	pref = entity.DefaultPreferences(userID, u.timeProvider.Now())
	if err := prefs.Save(txCtx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}
