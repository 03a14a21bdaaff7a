package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/scry-match/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(t *testing.T, eventType string) *GameEvent {
	t.Helper()
	event, err := NewGameEvent(eventType, "game-1", "session-1", map[string]int{"pairs": 4})
	require.NoError(t, err)
	return event
}

func TestInMemoryEventEmitter_NoHandlers(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, emitter.EmitEvent(context.Background(), newEvent(t, TypeRoundStarted)))
}

func TestInMemoryEventEmitter_DeliversToAll(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	first, second := &MockEventHandler{}, &MockEventHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := newEvent(t, TypeRoundStarted)
	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	assert.Equal(t, 1, first.HandledCount)
	assert.Same(t, event, first.LastEvent)
	assert.Equal(t, 1, second.HandledCount)
	assert.Same(t, event, second.LastEvent)
}

func TestInMemoryEventEmitter_JoinsFailures(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	errA := errors.New("sink a down")
	errB := errors.New("sink b down")
	healthy := &MockEventHandler{}
	emitter.RegisterHandler(&MockEventHandler{HandlerError: errA})
	emitter.RegisterHandler(healthy)
	emitter.RegisterHandler(&MockEventHandler{HandlerError: errB})

	err := emitter.EmitEvent(context.Background(), newEvent(t, TypeAnswerChecked))
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.ErrorContains(t, err, "handler 2")
	assert.Equal(t, 1, healthy.HandledCount, "later handlers still run")
}

func TestForTypes(t *testing.T) {
	t.Parallel()

	inner := &MockEventHandler{}
	h := ForTypes(inner, TypeRoundStarted, TypeRoundCompleted)

	require.NoError(t, h.HandleEvent(context.Background(), newEvent(t, TypeAnswerChecked)))
	assert.Zero(t, inner.HandledCount)

	require.NoError(t, h.HandleEvent(context.Background(), newEvent(t, TypeRoundCompleted)))
	assert.Equal(t, 1, inner.HandledCount)
}

func TestLogHandler(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger()
	require.NoError(t, LogHandler(log).HandleEvent(context.Background(), newEvent(t, TypeGenerationFailed)))

	entry := buf.Find("game event")
	require.NotNil(t, entry)
	assert.Equal(t, TypeGenerationFailed, entry["event_type"])
	assert.Equal(t, "game-1", entry["game_id"])
	assert.Equal(t, "game_events", entry["component"])
}
