package transaction

import (
	"context"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
)

// ListCategories returns the active categories
func (s *Service) ListCategories(ctx context.Context) ([]*entity.TransactionCategory, error) {
	return s.uow.GetCategoryRepository(ctx).ListActive(ctx)
}

// CreateCategory adds a category under an optional existing parent
func (s *Service) CreateCategory(ctx context.Context, cmd usecase.CreateCategoryCommand) (*entity.TransactionCategory, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	category, err := entity.NewTransactionCategory(cmd.Name, cmd.Description, cmd.Icon, cmd.Color, cmd.ParentID, s.timeProvider.Now())
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		categories := s.uow.GetCategoryRepository(txCtx)
		if category.ParentID != nil {
			if _, err := categories.GetByID(txCtx, *category.ParentID); err != nil {
				return err
			}
		}
		return categories.Create(txCtx, category)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction category created", map[string]any{
		"category_id": category.ID.String(),
		"name":        category.Name,
	})
	return category, nil
}
