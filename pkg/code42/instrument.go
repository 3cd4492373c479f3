package code42

import (
	"context"
	"time"
)

// RequestEvent is the name carried by every request event.
const RequestEvent = "code42.request"

// Event is the instrumentation record emitted once per request.
type Event struct {
	ID       string
	Name     string
	Method   string
	Args     []any
	Response *Response
	Err      error
	Start    time.Time
	Duration time.Duration
}

// Status returns the response status code, or 0 when the transport failed.
func (e *Event) Status() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Instrumenter receives request events.
type Instrumenter interface {
	Instrument(ctx context.Context, event *Event)
}

// InstrumenterFunc adapts a function to the Instrumenter interface.
type InstrumenterFunc func(ctx context.Context, event *Event)

// Instrument implements Instrumenter.
func (f InstrumenterFunc) Instrument(ctx context.Context, event *Event) {
	f(ctx, event)
}
