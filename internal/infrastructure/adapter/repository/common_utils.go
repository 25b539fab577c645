package repository

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgreSQL SQLSTATE codes the repositories react to
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// ErrCommitUnconfirmed marks a COMMIT that may have reached the server without
// an answer coming back. The transaction may have been applied, so it must not
// be run again.
var ErrCommitUnconfirmed = errors.New("commit outcome unknown")

// forUpdate takes a row lock that lasts until the surrounding transaction ends
var forUpdate = clause.Locking{Strength: "UPDATE"}

// ErrorType represents the type of database error that occurred
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	LockError         ErrorType = "lock"
	ConnectionError   ErrorType = "connection"
	ConstraintError   ErrorType = "constraint"
)

// ErrorClassifier provides methods to classify database errors
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// Classify returns the type of error
func (c *ErrorClassifier) Classify(err error) ErrorType {
	switch {
	case err == nil:
		return ""
	case c.IsDuplicateKeyError(err):
		return DuplicateKeyError
	case c.IsLockError(err):
		return LockError
	case c.IsConnectionError(err):
		return ConnectionError
	case c.IsConstraintError(err):
		return ConstraintError
	}
	return ""
}

// IsDuplicateKeyError checks if the error is a unique violation
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return sqlState(err) == pgUniqueViolation
}

// IsLockError checks if a serializable transaction lost a conflict or deadlocked
func (c *ErrorClassifier) IsLockError(err error) bool {
	switch sqlState(err) {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return true
	}
	return false
}

// IsConnectionError checks if the error is related to database connectivity
func (c *ErrorClassifier) IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	// class 08 is connection exception
	return strings.HasPrefix(sqlState(err), "08")
}

// IsConstraintError checks if the error is an integrity constraint violation
func (c *ErrorClassifier) IsConstraintError(err error) bool {
	return strings.HasPrefix(sqlState(err), "23")
}

// IsCommitUnconfirmed reports whether err, returned by COMMIT, leaves the
// outcome of the transaction unknown: the connection failed after the command
// may have been written, and the server reported nothing.
func (c *ErrorClassifier) IsCommitUnconfirmed(err error) bool {
	return c.IsConnectionError(err) && sqlState(err) == "" && !pgconn.SafeToRetry(err)
}

// IsRetryable reports whether the whole transaction can be run again
func (c *ErrorClassifier) IsRetryable(err error) bool {
	if errors.Is(err, ErrCommitUnconfirmed) {
		return false
	}
	return c.IsLockError(err) || c.IsConnectionError(err)
}

// Map translates a database error into the domain taxonomy. Missing rows become
// notFound and unique violations become ErrDuplicate. Everything else keeps the
// driver error in the chain so the unit of work can still classify it.
func (c *ErrorClassifier) Map(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case c.IsDuplicateKeyError(err):
		if name := constraintName(err); name != "" {
			return fmt.Errorf("%w: %s", errs.ErrDuplicate, name)
		}
		return errs.ErrDuplicate
	}
	return fmt.Errorf("%w: %w", errs.ErrDatabaseConnection, err)
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// pageScope applies a normalized limit/offset window
func pageScope(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(limit).Offset(offset)
	}
}
