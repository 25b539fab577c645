package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	mockcore "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestExtractTableName(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{`SELECT * FROM "accounts" WHERE id = $1`, "accounts"},
		{`INSERT INTO "transactions" ("id") VALUES ($1)`, "transactions"},
		{`UPDATE "cards" SET "status"=$1 WHERE id = $2`, "cards"},
		{`DELETE FROM wallet_balances WHERE user_id = $1`, "wallet_balances"},
		{`SET TRANSACTION ISOLATION LEVEL SERIALIZABLE`, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractTableName(tt.sql), tt.sql)
	}
}

func TestDatabaseLogger_Trace(t *testing.T) {
	begin := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	query := func() (string, int64) { return `SELECT * FROM "users"`, 1 }

	t.Run("failed statement is an error", func(t *testing.T) {
		log := &mockcore.RecordingLogger{}
		l := NewDatabaseLogger(log, mockcore.FixedTimeProvider{At: begin}, "info")

		l.Trace(context.Background(), begin, query, errors.New("boom"))
		assert.Equal(t, []string{"SQL Error"}, log.Messages(core.LogLevelError))
	})

	t.Run("missing row is not a failure", func(t *testing.T) {
		log := &mockcore.RecordingLogger{}
		l := NewDatabaseLogger(log, mockcore.FixedTimeProvider{At: begin}, "info")

		l.Trace(context.Background(), begin, query, gorm.ErrRecordNotFound)
		assert.Empty(t, log.Messages(core.LogLevelError))
		assert.Equal(t, []string{"SQL Query"}, log.Messages(core.LogLevelDebug))
	})

	t.Run("slow statement is a warning", func(t *testing.T) {
		log := &mockcore.RecordingLogger{}
		later := mockcore.FixedTimeProvider{At: begin.Add(time.Second)}
		l := NewDatabaseLogger(log, later, "warn")

		ctx := core.WithRequestID(context.Background(), "req-1")
		l.Trace(ctx, begin, query, nil)
		if assert.Len(t, log.Entries, 1) {
			assert.Equal(t, "Slow SQL Query", log.Entries[0].Message)
			assert.Equal(t, "req-1", log.Entries[0].Fields["request_id"])
			assert.Equal(t, "users", log.Entries[0].Fields["table"])
		}
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		log := &mockcore.RecordingLogger{}
		l := NewDatabaseLogger(log, mockcore.FixedTimeProvider{At: begin}, "info").LogMode(logger.Silent)

		l.Trace(context.Background(), begin, query, errors.New("boom"))
		assert.Empty(t, log.Entries)
	})
}
