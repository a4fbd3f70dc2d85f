package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/lumina/internal/redact"
)

// InMemoryEventEmitter dispatches change events synchronously to the handlers
// registered with it, in registration order.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{logger: logger.With("component", "change_events")}
}

// RegisterHandler implements EventEmitter.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	n := len(e.handlers)
	e.mu.Unlock()
	e.logger.Debug("change handler registered", "handler_count", n)
}

// EmitEvent delivers event to every handler. A failing or panicking handler
// does not stop delivery to the rest; the first failure is returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *ChangeEvent) error {
	e.mu.RLock()
	handlers := append([]EventHandler(nil), e.handlers...)
	e.mu.RUnlock()

	var firstErr error
	for i, h := range handlers {
		if err := deliver(ctx, h, event); err != nil {
			e.logger.WarnContext(ctx, "change handler failed",
				redact.Attr(err),
				slog.Int("handler_index", i),
				slog.String("collection", string(event.Collection)),
				slog.String("action", string(event.Action)),
				slog.String("entity_id", event.EntityID))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func deliver(ctx context.Context, h EventHandler, event *ChangeEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("change handler panicked: %v", r)
		}
	}()
	return h.HandleEvent(ctx, event)
}
