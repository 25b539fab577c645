package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	mockcore "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

var accountColumns = []string{
	"id", "user_id", "account_number", "account_type", "currency",
	"available_balance", "ledger_balance", "pending_balance",
	"is_active", "is_frozen", "chain_id", "created_at", "updated_at",
}

func TestAccountRepository_GetForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	log := &mockcore.RecordingLogger{}
	repo := NewAccountRepository(db, log)

	id := uuid.New()
	userID := uuid.New()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 ORDER BY "accounts"\."id" LIMIT \$2 FOR UPDATE`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(id, userID, "CHK1234567890", "checking", "USD", "150.25", "150.25", "0", true, false, nil, now, now))

	account, err := repo.GetForUpdate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)
	assert.Equal(t, userID, account.UserID)
	assert.True(t, decimal.RequireFromString("150.25").Equal(account.AvailableBalance))
	assert.Equal(t, entity.Currency("USD"), account.Currency)
	assert.Equal(t, []string{"Account locked"}, log.Messages(core.LogLevelDebug))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db, &mockcore.RecordingLogger{})

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Update(t *testing.T) {
	account := &entity.Account{
		ID:               uuid.New(),
		AvailableBalance: decimal.NewFromInt(75),
		LedgerBalance:    decimal.NewFromInt(100),
		PendingBalance:   decimal.Zero,
		IsActive:         true,
		UpdatedAt:        time.Now().UTC(),
	}

	t.Run("updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountRepository(db, &mockcore.RecordingLogger{})

		mock.ExpectExec(`UPDATE "accounts" SET .+ WHERE id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(context.Background(), account))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountRepository(db, &mockcore.RecordingLogger{})

		mock.ExpectExec(`UPDATE "accounts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(context.Background(), account), errs.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connection error", func(t *testing.T) {
		db, mock := newMockDB(t)
		log := &mockcore.RecordingLogger{}
		repo := NewAccountRepository(db, log)

		mock.ExpectExec(`UPDATE "accounts" SET`).
			WillReturnError(errors.New("connection reset by peer"))

		err := repo.Update(context.Background(), account)
		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
		assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
		assert.Equal(t, []string{"Failed to update account"}, log.Messages(core.LogLevelError))
	})
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	log := &mockcore.RecordingLogger{}
	repo := NewUserRepository(db, log)

	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})

	user := &entity.User{
		ID:        uuid.New(),
		Email:     "jane@example.com",
		Username:  "jane",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	err := repo.Create(context.Background(), user)
	assert.ErrorIs(t, err, errs.ErrDuplicate)
	assert.Contains(t, err.Error(), "idx_users_email")
	assert.Equal(t, []string{"Duplicate user"}, log.Messages(core.LogLevelWarn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisputeRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDisputeRepository(db)

	mock.ExpectExec(`INSERT INTO "transaction_disputes"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_transaction_disputes_transaction_id"})

	err := repo.Create(context.Background(), &entity.TransactionDispute{
		ID:            uuid.New(),
		TransactionID: uuid.New(),
		RaisedBy:      uuid.New(),
		Reason:        entity.DisputeFraud,
		Status:        entity.DisputeOpen,
	})
	assert.ErrorIs(t, err, errs.ErrDisputeExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurringRepository_ListDueIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecurringRepository(db)

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	first, second := uuid.New(), uuid.New()

	cursor := uuid.New()
	mock.ExpectQuery(`SELECT "id" FROM "recurring_transactions" WHERE is_active = \$1 AND next_execution <= \$2 AND id > \$3 ORDER BY id ASC LIMIT \$4`).
		WithArgs(true, now, cursor, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(first).AddRow(second))

	ids, err := repo.ListDueIDs(context.Background(), now, cursor, 50)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountLimitRepository_ListForUpdate_NoAccounts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountLimitRepository(db)

	limits, err := repo.ListForUpdate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, limits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_FindActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepository(db)
	tokenID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "token_contracts" WHERE \(chain_id = \$1 AND is_active = \$2\) AND \(LOWER\(symbol\) = \$3 OR LOWER\(contract_address\) = \$4\)`).
		WithArgs(int64(1), true, "usdc", "usdc", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "chain_id", "contract_address", "symbol", "name", "decimals", "token_type", "is_active"}).
			AddRow(tokenID, 1, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", "USDC", "USD Coin", 6, "erc20", true))

	token, err := repo.FindActive(context.Background(), 1, " USDC ")
	require.NoError(t, err)
	assert.Equal(t, tokenID, token.ID)
	assert.Equal(t, 6, token.Decimals)
	assert.Equal(t, entity.TokenERC20, token.TokenType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNetworkRepository_GetActive_Unsupported(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNetworkRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "supported_networks" WHERE chain_id = \$1 AND is_active = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"chain_id"}))

	_, err := repo.GetActive(context.Background(), 999)
	assert.ErrorIs(t, err, errs.ErrUnsupportedNetwork)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorClassifier(t *testing.T) {
	c := NewErrorClassifier()

	tests := []struct {
		name      string
		err       error
		want      ErrorType
		retryable bool
	}{
		{"nil", nil, "", false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, DuplicateKeyError, false},
		{"gorm duplicate", gorm.ErrDuplicatedKey, DuplicateKeyError, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, LockError, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, LockError, true},
		{"foreign key", &pgconn.PgError{Code: "23503"}, ConstraintError, false},
		{"admin shutdown class", &pgconn.PgError{Code: "08006"}, ConnectionError, true},
		{"plain error", errors.New("boom"), "", false},
		{"dropped connection", io.ErrUnexpectedEOF, ConnectionError, true},
		{"unconfirmed commit", fmt.Errorf("%w: %w", ErrCommitUnconfirmed, io.EOF), ConnectionError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
			assert.Equal(t, tt.retryable, c.IsRetryable(tt.err))
		})
	}
}

func TestErrorClassifier_IsCommitUnconfirmed(t *testing.T) {
	c := NewErrorClassifier()

	assert.True(t, c.IsCommitUnconfirmed(io.ErrUnexpectedEOF))
	assert.True(t, c.IsCommitUnconfirmed(io.EOF))
	assert.False(t, c.IsCommitUnconfirmed(&pgconn.PgError{Code: "40001"}), "the server answered, the transaction rolled back")
	assert.False(t, c.IsCommitUnconfirmed(&pgconn.PgError{Code: "08006"}))
	assert.False(t, c.IsCommitUnconfirmed(errors.New("boom")))
}

func TestErrorClassifier_Map(t *testing.T) {
	c := NewErrorClassifier()

	assert.NoError(t, c.Map(nil, errs.ErrCardNotFound))
	assert.ErrorIs(t, c.Map(gorm.ErrRecordNotFound, errs.ErrCardNotFound), errs.ErrCardNotFound)

	serialization := &pgconn.PgError{Code: "40001"}
	mapped := c.Map(serialization, errs.ErrCardNotFound)
	assert.ErrorIs(t, mapped, errs.ErrDatabaseConnection)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, mapped, &pgErr)
	assert.True(t, c.IsRetryable(mapped))
}
