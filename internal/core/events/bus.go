package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Event is anything the bus can carry. Concrete events embed BaseEvent.
type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) Payload() interface{}  { return e.Data }

type Handler func(ctx context.Context, event Event) error

// EventBus dispatches events to subscribers in-process and synchronously,
// in subscription order. Budget alerts ride on expense creation this way
// without the expense service knowing about budgets.
type EventBus struct {
	mu     sync.RWMutex
	subs   map[string][]Handler
	logger *slog.Logger
}

func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		subs:   make(map[string][]Handler),
		logger: logger,
	}
}

func (b *EventBus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	b.subs[eventType] = append(b.subs[eventType], handler)
	n := len(b.subs[eventType])
	b.mu.Unlock()

	b.logger.Info("event handler registered", "event_type", eventType, "handlers", n)
}

// Publish runs every subscriber for the event's type. All subscribers run
// even when one fails; the first failure is returned.
func (b *EventBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.subs[event.EventType()]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("event has no subscribers", "event_type", event.EventType())
		return nil
	}

	b.logger.Info("publishing event",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"handlers", len(handlers))

	var firstErr error
	for i, handler := range handlers {
		err := handler(ctx, event)
		if err == nil {
			continue
		}
		b.logger.Error("event handler failed",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"handler_index", i,
			"error", err)
		if firstErr == nil {
			firstErr = fmt.Errorf("handler %d for %s: %w", i, event.EventType(), err)
		}
	}
	return firstErr
}
