package instrument

import (
	"context"

	"github.com/code42/code42-go/pkg/code42"
)

// LogInstrumenter writes every event to a logger at debug level, or at warn
// level when the request failed before a response arrived.
type LogInstrumenter struct {
	logger code42.Logger
}

// NewLogInstrumenter creates a LogInstrumenter.
func NewLogInstrumenter(logger code42.Logger) *LogInstrumenter {
	return &LogInstrumenter{logger: logger}
}

// Instrument implements code42.Instrumenter.
func (l *LogInstrumenter) Instrument(_ context.Context, event *code42.Event) {
	fields := map[string]interface{}{
		"id":          event.ID,
		"event":       event.Name,
		"method":      event.Method,
		"args":        event.Args,
		"status":      event.Status(),
		"duration_ms": event.Duration.Milliseconds(),
	}

	if event.Err != nil {
		fields["error"] = event.Err.Error()
		l.logger.Warn("Request event", fields)

		return
	}

	l.logger.Debug("Request event", fields)
}
