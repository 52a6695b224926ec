package viewfinder

import (
	"fmt"
	"sync"
)

// EventKind names a notification emitted by the core.
type EventKind string

const (
	// EventStart fires once the frame source is ready. Payload: types.Size.
	EventStart EventKind = "start"

	// EventChange fires whenever the committed rectangle is replaced or
	// reset. Payload: types.Rect.
	EventChange EventKind = "change"

	// EventSnapshot fires when a new snapshot is appended. Payload: *Snapshot.
	EventSnapshot EventKind = "snapshot"

	// EventError reports stream or device failures. Payload: error.
	EventError EventKind = "error"
)

// Handler receives the payload of a published event. Handlers run
// synchronously on the publishing goroutine and must not call back into the
// Viewer that owns the hub.
type Handler func(payload interface{})

// Token identifies a subscription so it can be removed later.
type Token struct {
	kind EventKind
	id   uint64
}

// Hub is a minimal observer registry decoupling the core from any particular
// UI framework or transport. Dispatch is synchronous and in subscription
// order per kind.
type Hub struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[EventKind][]subscription
}

type subscription struct {
	id uint64
	fn Handler
}

// NewHub creates an empty event hub.
func NewHub() *Hub {
	return &Hub{handlers: make(map[EventKind][]subscription)}
}

// Subscribe registers a handler for the given kind and returns a token for
// Unsubscribe.
func (h *Hub) Subscribe(kind EventKind, fn Handler) Token {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	h.handlers[kind] = append(h.handlers[kind], subscription{id: h.nextID, fn: fn})
	return Token{kind: kind, id: h.nextID}
}

// Unsubscribe removes the subscription identified by token. Unknown tokens
// are ignored.
func (h *Hub) Unsubscribe(token Token) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.handlers[token.kind]
	for i, sub := range subs {
		if sub.id == token.id {
			h.handlers[token.kind] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// publish delivers payload to every handler subscribed to kind. A panicking
// handler must never break the caller's input dispatch, so panics are
// recovered and reported through the error kind instead.
func (h *Hub) publish(kind EventKind, payload interface{}) {
	h.mu.Lock()
	subs := make([]subscription, len(h.handlers[kind]))
	copy(subs, h.handlers[kind])
	h.mu.Unlock()

	for _, sub := range subs {
		h.dispatch(kind, sub.fn, payload)
	}
}

func (h *Hub) dispatch(kind EventKind, fn Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil && kind != EventError {
			h.publish(EventError, fmt.Errorf("%s handler panic: %v", kind, r))
		}
	}()

	fn(payload)
}
