package events

import (
	"fmt"
	"log/slog"
	"sync"
)

// Handler receives a published event.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus delivers events synchronously to the handlers registered for their kind,
// in registration order. A panicking handler is recovered and logged; the
// remaining handlers for the same event still run.
//
// Emit holds no lock while handlers run, so a handler may subscribe or
// unsubscribe. Changes made during a dispatch take effect from the next Emit.
type Bus struct {
	logger   *slog.Logger
	handlers map[Kind][]subscription
	nextID   uint64
	mu       sync.RWMutex
}

// NewBus creates an empty Bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		logger:   logger,
		handlers: make(map[Kind][]subscription),
	}
}

// Subscribe registers handler for kind and returns a func that removes it.
func (b *Bus) Subscribe(kind Kind, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[kind] = append(b.handlers[kind], subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(kind, id) })
	}
}

// On registers a handler typed to one payload. The kind is taken from E.
//
//	events.On(bus, func(e events.LogsChanged) { render(e.Logs) })
func On[E Event](b *Bus, handler func(E)) (unsubscribe func()) {
	var zero E
	return b.Subscribe(zero.Kind(), func(e Event) {
		if typed, ok := e.(E); ok {
			handler(typed)
		}
	})
}

// Emit delivers event to every handler registered for its kind.
func (b *Bus) Emit(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.Kind()]
	// Copy so handlers can (un)subscribe without affecting this dispatch.
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	b.mu.RUnlock()

	for _, sub := range snapshot {
		b.dispatch(event, sub.handler)
	}

	b.logger.Debug("event emitted",
		slog.String("event_type", string(event.Kind())),
		slog.Int("handlers", len(snapshot)))
}

// HandlerCount returns how many handlers are registered for kind.
func (b *Bus) HandlerCount(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[kind])
}

func (b *Bus) dispatch(event Event, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				slog.String("event_type", string(event.Kind())),
				slog.String("panic", fmt.Sprint(r)))
		}
	}()
	handler(event)
}

func (b *Bus) remove(kind Kind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[kind]
	for i, sub := range subs {
		if sub.id == id {
			// Build a new slice; an in-flight Emit may still be reading the old one.
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			b.handlers[kind] = next
			return
		}
	}
}
