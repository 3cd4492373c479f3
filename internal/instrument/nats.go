package instrument

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/code42/code42-go/internal/constants"
	"github.com/code42/code42-go/pkg/code42"
	"github.com/nats-io/nats.go"
)

// Publisher is the part of *nats.Conn the NATS instrumenter uses.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSInstrumenter publishes events as JSON on a NATS subject. Publishing is
// fire-and-forget: failures are logged, never returned to the request.
type NATSInstrumenter struct {
	publisher Publisher
	subject   string
	logger    code42.Logger
	conn      *nats.Conn
}

// NATSOption configures a NATSInstrumenter.
type NATSOption func(*NATSInstrumenter)

// WithSubject overrides the subject events are published on.
func WithSubject(subject string) NATSOption {
	return func(n *NATSInstrumenter) {
		n.subject = subject
	}
}

// WithNATSLogger sets the logger publish failures are reported to.
func WithNATSLogger(logger code42.Logger) NATSOption {
	return func(n *NATSInstrumenter) {
		n.logger = logger
	}
}

// NewNATSInstrumenter creates an instrumenter publishing through publisher.
func NewNATSInstrumenter(publisher Publisher, opts ...NATSOption) *NATSInstrumenter {
	n := &NATSInstrumenter{
		publisher: publisher,
		subject:   constants.DefaultEventSubject,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// ConnectNATS dials a NATS server and returns an instrumenter owning the
// connection. Close releases it.
func ConnectNATS(url string, opts ...NATSOption) (*NATSInstrumenter, error) {
	conn, err := nats.Connect(url, nats.Name(constants.DefaultUserAgent))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	n := NewNATSInstrumenter(conn, opts...)
	n.conn = conn

	return n, nil
}

// Close drains the NATS connection when the instrumenter owns one.
func (n *NATSInstrumenter) Close() error {
	if n.conn == nil {
		return nil
	}

	err := n.conn.Drain()
	if err != nil {
		return fmt.Errorf("draining NATS connection: %w", err)
	}

	return nil
}

type natsEvent struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Method     string    `json:"method"`
	Args       []any     `json:"args"`
	Status     int       `json:"status"`
	Error      string    `json:"error,omitempty"`
	Start      time.Time `json:"start"`
	DurationMS int64     `json:"duration_ms"`
}

// Instrument implements code42.Instrumenter.
func (n *NATSInstrumenter) Instrument(_ context.Context, event *code42.Event) {
	payload := natsEvent{
		ID:         event.ID,
		Name:       event.Name,
		Method:     event.Method,
		Args:       event.Args,
		Status:     event.Status(),
		Start:      event.Start,
		DurationMS: event.Duration.Milliseconds(),
	}

	if event.Err != nil {
		payload.Error = event.Err.Error()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		n.warn("Encoding request event", err)

		return
	}

	err = n.publisher.Publish(n.subject, data)
	if err != nil {
		n.warn("Publishing request event", err)
	}
}

func (n *NATSInstrumenter) warn(msg string, err error) {
	if n.logger == nil {
		return
	}

	n.logger.Warn(msg, map[string]interface{}{
		"subject": n.subject,
		"error":   err.Error(),
	})
}
