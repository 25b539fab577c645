package database

import (
	"context"
	"errors"
	"fmt"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/repository"
)

// ErrorMapper turns what is left of a failed unit of work into a domain error.
// Errors already in the domain taxonomy pass through untouched.
type ErrorMapper struct {
	classifier *repository.ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper(classifier *repository.ErrorClassifier) *ErrorMapper {
	return &ErrorMapper{classifier: classifier}
}

// MapError maps a database error to a domain error. operation names the step
// that failed and ends up in the message of wrapped errors.
func (m *ErrorMapper) MapError(err error, operation string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %s: %w", errs.ErrDatabaseConnection, operation, err)
	case m.classifier.IsLockError(err):
		return fmt.Errorf("%w: %s", errs.ErrConcurrentUpdate, operation)
	case errors.Is(err, errs.ErrDatabaseConnection):
		return err
	case errs.KindOf(err) != errs.KindUnexpected:
		return err
	case m.classifier.IsDuplicateKeyError(err):
		return errs.ErrDuplicate
	case m.classifier.IsConnectionError(err):
		return fmt.Errorf("%w: %s: %w", errs.ErrDatabaseConnection, operation, err)
	}
	return err
}
