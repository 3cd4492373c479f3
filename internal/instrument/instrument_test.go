package instrument_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/code42/code42-go/internal/instrument"
	"github.com/code42/code42-go/pkg/code42"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPublish = errors.New("nats: connection closed")

type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields map[string]interface{}) { l.record("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) { l.record("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

type fakePublisher struct {
	subject string
	data    []byte
	err     error
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.subject = subject
	p.data = data

	return p.err
}

func okEvent() *code42.Event {
	return &code42.Event{
		ID:       "5f0c6e1e-3f7c-4f51-9d43-1e0f0a4a2b11",
		Name:     code42.RequestEvent,
		Method:   "GET",
		Args:     []any{"org/my", nil},
		Response: &code42.Response{StatusCode: 200},
		Start:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Duration: 1500 * time.Millisecond,
	}
}

func failedEvent() *code42.Event {
	return &code42.Event{
		ID:     "0d9c3a55-98f3-4d4f-a3e6-74f1d1b2e6a0",
		Name:   code42.RequestEvent,
		Method: "POST",
		Args:   []any{"org", map[string]any{"orgName": "Acme"}},
		Err:    code42.NewConnectionFailed(errPublish),
	}
}

func TestNotifier(t *testing.T) {
	t.Parallel()

	notifier := instrument.NewNotifier()

	var got []string

	notifier.Subscribe(func(_ context.Context, event *code42.Event) {
		got = append(got, "first:"+event.Method)
	})
	unsubscribe := notifier.Subscribe(func(_ context.Context, _ *code42.Event) {
		got = append(got, "second")
	})
	notifier.Subscribe(func(_ context.Context, _ *code42.Event) {
		got = append(got, "third")
	})

	notifier.Instrument(context.Background(), okEvent())
	assert.Equal(t, []string{"first:GET", "second", "third"}, got)

	unsubscribe()
	unsubscribe()

	got = nil

	notifier.Instrument(context.Background(), okEvent())
	assert.Equal(t, []string{"first:GET", "third"}, got)
}

func TestMulti(t *testing.T) {
	t.Parallel()

	var calls []string

	first := code42.InstrumenterFunc(func(_ context.Context, _ *code42.Event) { calls = append(calls, "first") })
	second := code42.InstrumenterFunc(func(_ context.Context, _ *code42.Event) { calls = append(calls, "second") })

	multi := instrument.Multi(first, nil, second)
	multi.Instrument(context.Background(), okEvent())

	assert.Equal(t, []string{"first", "second"}, calls)

	assert.NotPanics(t, func() {
		instrument.Multi().Instrument(context.Background(), okEvent())
	})
}

func TestLogInstrumenter(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	instrumenter := instrument.NewLogInstrumenter(logger)

	instrumenter.Instrument(context.Background(), okEvent())
	instrumenter.Instrument(context.Background(), failedEvent())

	require.Len(t, logger.entries, 2)

	assert.Equal(t, "debug", logger.entries[0].level)
	assert.Equal(t, "Request event", logger.entries[0].msg)
	assert.Equal(t, 200, logger.entries[0].fields["status"])
	assert.Equal(t, int64(1500), logger.entries[0].fields["duration_ms"])
	assert.NotContains(t, logger.entries[0].fields, "error")

	assert.Equal(t, "warn", logger.entries[1].level)
	assert.Equal(t, 0, logger.entries[1].fields["status"])
	assert.Contains(t, logger.entries[1].fields["error"], "ConnectionFailed")
}

func TestNATSInstrumenter(t *testing.T) {
	t.Parallel()

	t.Run("publishes the event as JSON", func(t *testing.T) {
		t.Parallel()

		publisher := &fakePublisher{}
		instrumenter := instrument.NewNATSInstrumenter(publisher)

		instrumenter.Instrument(context.Background(), okEvent())

		assert.Equal(t, "code42.request", publisher.subject)

		var payload map[string]any

		err := json.Unmarshal(publisher.data, &payload)
		require.NoError(t, err)
		assert.Equal(t, "5f0c6e1e-3f7c-4f51-9d43-1e0f0a4a2b11", payload["id"])
		assert.Equal(t, code42.RequestEvent, payload["name"])
		assert.Equal(t, "GET", payload["method"])
		assert.Equal(t, []any{"org/my", nil}, payload["args"])
		assert.InDelta(t, 200, payload["status"], 0)
		assert.InDelta(t, 1500, payload["duration_ms"], 0)
		assert.Equal(t, "2024-05-01T12:00:00Z", payload["start"])
		assert.NotContains(t, payload, "error")
	})

	t.Run("custom subject and error", func(t *testing.T) {
		t.Parallel()

		publisher := &fakePublisher{}
		instrumenter := instrument.NewNATSInstrumenter(publisher, instrument.WithSubject("audit.code42"))

		instrumenter.Instrument(context.Background(), failedEvent())

		assert.Equal(t, "audit.code42", publisher.subject)
		assert.Contains(t, string(publisher.data), `"error":"ConnectionFailed`)
		assert.Contains(t, string(publisher.data), `"status":0`)
	})

	t.Run("publish failures are logged", func(t *testing.T) {
		t.Parallel()

		logger := &recordingLogger{}
		publisher := &fakePublisher{err: errPublish}
		instrumenter := instrument.NewNATSInstrumenter(publisher, instrument.WithNATSLogger(logger))

		assert.NotPanics(t, func() {
			instrumenter.Instrument(context.Background(), okEvent())
		})

		require.Len(t, logger.entries, 1)
		assert.Equal(t, "warn", logger.entries[0].level)
		assert.Equal(t, "Publishing request event", logger.entries[0].msg)
		assert.Equal(t, errPublish.Error(), logger.entries[0].fields["error"])
	})

	t.Run("close without owned connection", func(t *testing.T) {
		t.Parallel()

		instrumenter := instrument.NewNATSInstrumenter(&fakePublisher{})
		assert.NoError(t, instrumenter.Close())
	})
}

func TestMetricsInstrumenter(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()

	instrumenter, err := instrument.NewMetricsInstrumenter(registry)
	require.NoError(t, err)

	instrumenter.Instrument(context.Background(), okEvent())
	instrumenter.Instrument(context.Background(), okEvent())
	instrumenter.Instrument(context.Background(), failedEvent())

	// A second instrumenter on the same registry shares the collectors.
	again, err := instrument.NewMetricsInstrumenter(registry)
	require.NoError(t, err)

	again.Instrument(context.Background(), failedEvent())

	count, err := testutil.GatherAndCount(registry, "code42_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(registry, "code42_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
