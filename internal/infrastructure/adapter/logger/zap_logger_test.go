package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Levels(t *testing.T) {
	zcore, logs := observer.New(zap.DebugLevel)
	l := NewWithCore(zcore, core.LogLevelWarn)

	l.Debug("debug", nil)
	l.Info("info", nil)
	l.Warn("warn", map[string]any{"account_id": "a1"})
	l.Error("error", map[string]any{"error": errors.New("boom")})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0].Message)
	assert.Equal(t, "a1", entries[0].ContextMap()["account_id"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	l.SetLevel(core.LogLevelDebug)
	assert.Equal(t, core.LogLevelDebug, l.GetLevel())
	l.Debug("now visible", nil)
	assert.Equal(t, 1, logs.FilterMessage("now visible").Len())
}

func TestToZapLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, toZapLevel(core.ParseLogLevel("debug")))
	assert.Equal(t, zap.WarnLevel, toZapLevel(core.ParseLogLevel("WARNING")))
	assert.Equal(t, zap.ErrorLevel, toZapLevel(core.ParseLogLevel("error")))
	assert.Equal(t, zap.InfoLevel, toZapLevel(core.ParseLogLevel("verbose")))
}

func TestNew_NoneOutputDiscards(t *testing.T) {
	l, err := New(config.LoggerConfig{Output: "none", Level: "debug"})
	require.NoError(t, err)
	assert.IsType(t, &NoopLogger{}, l)
	assert.NoError(t, l.Flush())
}

func TestNewZapLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewZapLogger(config.LoggerConfig{Output: path, Format: "json", Level: "info"})
	require.NoError(t, err)

	l.Info("written", map[string]any{"user_id": "u1"})
	require.NoError(t, l.Flush())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"message":"written"`)
	assert.Contains(t, string(raw), `"user_id":"u1"`)
}
