// Package sse streams order-feed events to admin dashboards as Server-Sent
// Events, for clients that cannot keep a websocket open.
//
//	feed := sse.NewBroker(15 * time.Second)
//	bus.Listen(event.OrderPlaced, func(_ context.Context, e event.Event) {
//	    feed.Publish(e.Name, e)
//	})
//	admin.Get("/orders/events", "orders.events", feed.ServeHTTP)
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/arstoys/pkg/logger"
	"github.com/shashiranjanraj/arstoys/pkg/metrics"
	"github.com/shashiranjanraj/arstoys/pkg/response"
)

// ErrUnsupported is returned by New when the writer cannot flush.
var ErrUnsupported = errors.New("sse: streaming not supported")

// Stream is one open event-stream response.
type Stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// New sets the event-stream headers and lifts the server write deadline,
// which would otherwise cut long-lived streams.
func New(w http.ResponseWriter) (*Stream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrUnsupported
	}
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // disable nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &Stream{w: w, flusher: flusher}, nil
}

// Send writes one named event. data must be a single line, which JSON is.
func (s *Stream) Send(name string, data []byte) error {
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Comment writes a comment line; clients ignore it, proxies see traffic.
func (s *Stream) Comment(msg string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", msg); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

type frame struct {
	name string
	data []byte
}

// Broker fans published events out to every connected stream.
type Broker struct {
	heartbeat time.Duration

	mu     sync.Mutex
	subs   map[chan frame]struct{}
	closed bool
	done   chan struct{}
}

// NewBroker returns a broker that writes a keepalive comment every
// heartbeat. Zero disables keepalives.
func NewBroker(heartbeat time.Duration) *Broker {
	return &Broker{
		heartbeat: heartbeat,
		subs:      make(map[chan frame]struct{}),
		done:      make(chan struct{}),
	}
}

// Publish marshals v once and queues it for every stream. It never blocks:
// a stream whose buffer is full misses the frame.
func (b *Broker) Publish(name string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("sse: marshal event", "event", name, "error", err)
		return
	}
	f := frame{name: name, data: data}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- f:
		default:
			logger.Warn("sse: slow client, frame dropped", "event", name)
		}
	}
}

// Clients returns the number of open streams.
func (b *Broker) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every open stream. http.Server.Shutdown waits for handlers to
// return, so call it before shutting the server down.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.done)
	}
}

func (b *Broker) subscribe() (chan frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, false
	}
	ch := make(chan frame, 32)
	b.subs[ch] = struct{}{}
	metrics.LiveClients.Inc()
	return ch, true
}

func (b *Broker) unsubscribe(ch chan frame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, ch)
	metrics.LiveClients.Dec()
}

// ServeHTTP holds the response open and writes events until the client
// goes away or the broker closes.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ch, ok := b.subscribe()
	if !ok {
		response.Error(w, http.StatusServiceUnavailable, "Service unavailable")
		return
	}
	defer b.unsubscribe(ch)

	stream, err := New(w)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}
	log := logger.WithCtx(r.Context())
	log.Info("sse: client connected")
	defer log.Info("sse: client disconnected")

	var tick <-chan time.Time
	if b.heartbeat > 0 {
		t := time.NewTicker(b.heartbeat)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-b.done:
			return
		case f := <-ch:
			if err := stream.Send(f.name, f.data); err != nil {
				return
			}
		case <-tick:
			if err := stream.Comment("ping"); err != nil {
				return
			}
		}
	}
}
