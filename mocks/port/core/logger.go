package core

import (
	"sync"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/stretchr/testify/mock"
)

// MockLogger is a testify mock of core.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) SetLevel(level core.LogLevel) { m.Called(level) }

func (m *MockLogger) GetLevel() core.LogLevel {
	args := m.Called()
	return args.Get(0).(core.LogLevel)
}

func (m *MockLogger) Debug(message string, fields map[string]any) { m.Called(message, fields) }
func (m *MockLogger) Info(message string, fields map[string]any)  { m.Called(message, fields) }
func (m *MockLogger) Warn(message string, fields map[string]any)  { m.Called(message, fields) }
func (m *MockLogger) Error(message string, fields map[string]any) { m.Called(message, fields) }

func (m *MockLogger) Flush() error {
	args := m.Called()
	return args.Error(0)
}

// LogEntry is one message captured by RecordingLogger
type LogEntry struct {
	Level   core.LogLevel
	Message string
	Fields  map[string]any
}

// RecordingLogger keeps every message in memory
type RecordingLogger struct {
	mu      sync.Mutex
	Entries []LogEntry
}

func (l *RecordingLogger) record(level core.LogLevel, message string, fields map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Message: message, Fields: fields})
}

func (l *RecordingLogger) SetLevel(core.LogLevel)  {}
func (l *RecordingLogger) GetLevel() core.LogLevel { return core.LogLevelDebug }
func (l *RecordingLogger) Flush() error            { return nil }

func (l *RecordingLogger) Debug(msg string, f map[string]any) { l.record(core.LogLevelDebug, msg, f) }
func (l *RecordingLogger) Info(msg string, f map[string]any)  { l.record(core.LogLevelInfo, msg, f) }
func (l *RecordingLogger) Warn(msg string, f map[string]any)  { l.record(core.LogLevelWarn, msg, f) }
func (l *RecordingLogger) Error(msg string, f map[string]any) { l.record(core.LogLevelError, msg, f) }

// Messages returns the recorded messages at level
func (l *RecordingLogger) Messages(level core.LogLevel) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.Entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}
