package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/config"
	mockcore "github.com/amirhossein-jamali/fintech-backoffice/mocks/port/core"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	at := time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)
	events := []core.Event{
		{Name: core.EventTransactionCompleted, Key: "tx-1", OccurredAt: at, Payload: map[string]any{"amount": "10.00000000"}},
		{Name: core.EventCardCharged, Key: "card-1", OccurredAt: at},
	}

	t.Run("writes one message per event", func(t *testing.T) {
		w := &fakeWriter{}
		p := newKafkaPublisher(w, "fintech.events", &mockcore.RecordingLogger{})

		require.NoError(t, p.Publish(context.Background(), events...))
		require.Len(t, w.msgs, 2)
		assert.Equal(t, []byte("tx-1"), w.msgs[0].Key)
		assert.Equal(t, at, w.msgs[0].Time)
		assert.Equal(t, "event", w.msgs[0].Headers[0].Key)
		assert.Equal(t, []byte(core.EventTransactionCompleted), w.msgs[0].Headers[0].Value)

		var decoded core.Event
		require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
		assert.Equal(t, "10.00000000", decoded.Payload["amount"])

		require.NoError(t, p.Close())
		assert.True(t, w.closed)
	})

	t.Run("no events is a no-op", func(t *testing.T) {
		w := &fakeWriter{err: errors.New("must not be called")}
		p := newKafkaPublisher(w, "fintech.events", &mockcore.RecordingLogger{})
		assert.NoError(t, p.Publish(context.Background()))
	})

	t.Run("write error", func(t *testing.T) {
		w := &fakeWriter{err: errors.New("broker down")}
		p := newKafkaPublisher(w, "fintech.events", &mockcore.RecordingLogger{})
		err := p.Publish(context.Background(), events...)
		assert.ErrorContains(t, err, "write 2 events to fintech.events: broker down")
	})
}

func TestLogPublisher(t *testing.T) {
	logger := &mockcore.RecordingLogger{}
	p := New(config.KafkaConfig{Enabled: false}, logger)
	require.IsType(t, &LogPublisher{}, p)

	require.NoError(t, p.Publish(context.Background(), core.Event{Name: core.EventLimitsReset, Key: "daily"}))
	assert.Equal(t, []string{"Domain event"}, logger.Messages(core.LogLevelInfo))
}

func TestNew_KafkaEnabled(t *testing.T) {
	p := New(config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "fintech.events"}, &mockcore.RecordingLogger{})
	kp, ok := p.(*KafkaPublisher)
	require.True(t, ok)
	assert.Equal(t, "fintech.events", kp.topic)
	assert.NoError(t, kp.Close())
}
