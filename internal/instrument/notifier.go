package instrument

import (
	"context"
	"sync"

	"github.com/code42/code42-go/pkg/code42"
)

// Subscriber receives events from a Notifier.
type Subscriber func(ctx context.Context, event *code42.Event)

// Notifier delivers every event to its subscribers in subscription order.
type Notifier struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]Subscriber
	order       []int
}

// NewNotifier creates a notifier without subscribers.
func NewNotifier() *Notifier {
	return &Notifier{subscribers: make(map[int]Subscriber)}
}

// Subscribe registers fn and returns a function removing it again.
func (n *Notifier) Subscribe(fn Subscriber) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subscribers[id] = fn
	n.order = append(n.order, id)

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()

		delete(n.subscribers, id)

		for i, v := range n.order {
			if v == id {
				n.order = append(n.order[:i], n.order[i+1:]...)

				break
			}
		}
	}
}

// Instrument implements code42.Instrumenter.
func (n *Notifier) Instrument(ctx context.Context, event *code42.Event) {
	n.mu.RLock()
	subscribers := make([]Subscriber, 0, len(n.order))

	for _, id := range n.order {
		subscribers = append(subscribers, n.subscribers[id])
	}
	n.mu.RUnlock()

	for _, fn := range subscribers {
		fn(ctx, event)
	}
}

// Multi delivers each event to every non-nil instrumenter in order.
func Multi(instrumenters ...code42.Instrumenter) code42.Instrumenter {
	list := make([]code42.Instrumenter, 0, len(instrumenters))

	for _, in := range instrumenters {
		if in != nil {
			list = append(list, in)
		}
	}

	return code42.InstrumenterFunc(func(ctx context.Context, event *code42.Event) {
		for _, in := range list {
			in.Instrument(ctx, event)
		}
	})
}
