// Package event provides a small in-process event bus.
//
// The order service fires events after a change has committed; listeners
// such as the live order feed subscribe at boot.
package event

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/arstoys/pkg/logger"
)

// Order lifecycle events.
const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
	OrderDeleted       = "order.deleted"
)

// Event is what listeners receive.
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"data"`
	At      time.Time   `json:"at"`
}

// Handler receives an event.
type Handler func(ctx context.Context, e Event)

// Bus dispatches events to listeners. The zero value is ready to use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus { return &Bus{} }

// Listen registers a handler for the given event name.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = map[string][]Handler{}
	}
	b.handlers[name] = append(b.handlers[name], h)
}

func (b *Bus) snapshot(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[name]))
	copy(hs, b.handlers[name])
	return hs
}

// Fire dispatches an event synchronously to all registered listeners. A
// panicking listener is logged and does not stop the others. A nil bus
// drops the event.
func (b *Bus) Fire(ctx context.Context, name string, payload interface{}) {
	if b == nil {
		return
	}
	e := Event{Name: name, Payload: payload, At: time.Now().UTC()}
	for _, h := range b.snapshot(name) {
		dispatch(ctx, h, e)
	}
}

func dispatch(ctx context.Context, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", e.Name, "panic", r)
		}
	}()
	h(ctx, e)
}
