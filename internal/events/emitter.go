package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/phrazzld/scry-match/internal/redact"
)

// InMemoryEventEmitter delivers events synchronously to every registered
// handler, in registration order.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	return &InMemoryEventEmitter{
		logger: logger.With("component", "game_event_emitter"),
	}
}

// RegisterHandler adds handler to the delivery list.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	n := len(e.handlers)
	e.mu.Unlock()
	e.logger.Debug("registered event handler", "handler_count", n)
}

// EmitEvent implements EventEmitter. A failing handler does not stop
// delivery to the rest; all failures are joined into the returned error.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *GameEvent) error {
	e.mu.RLock()
	handlers := slices.Clone(e.handlers)
	e.mu.RUnlock()

	var errs []error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Warn("event handler failed",
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type,
				redact.Attr(err))
			errs = append(errs, fmt.Errorf("handler %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// ForTypes wraps handler so it only sees events of the given types.
func ForTypes(handler EventHandler, types ...string) EventHandler {
	return HandlerFunc(func(ctx context.Context, event *GameEvent) error {
		if !slices.Contains(types, event.Type) {
			return nil
		}
		return handler.HandleEvent(ctx, event)
	})
}

// LogHandler writes every event it sees to logger at info level.
func LogHandler(logger *slog.Logger) EventHandler {
	logger = logger.With("component", "game_events")
	return HandlerFunc(func(ctx context.Context, event *GameEvent) error {
		logger.InfoContext(ctx, "game event",
			"event_id", event.ID,
			"event_type", event.Type,
			"game_id", event.GameID,
			"session_id", event.SessionID,
			"payload", string(event.Payload))
		return nil
	})
}
