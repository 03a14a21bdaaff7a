package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Game event types
const (
	// TypeRoundStarted is emitted when a round enters play.
	TypeRoundStarted = "round_started"
	// TypeRoundCompleted is emitted when every pair of a round is matched.
	TypeRoundCompleted = "round_completed"
	// TypeAnswerChecked is emitted for every evaluated two-card selection.
	TypeAnswerChecked = "answer_checked"
	// TypeGenerationFailed is emitted when a batch of rounds could not be fetched.
	TypeGenerationFailed = "generation_failed"
)

// GameEvent records something that happened in a single game.
type GameEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// GameID identifies the game the event belongs to
	GameID string `json:"game_id"`

	// SessionID is the tutoring session the game is played for
	SessionID string `json:"session_id"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *GameEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewGameEvent creates a GameEvent with the specified type and payload.
// A nil payload leaves Payload empty.
func NewGameEvent(eventType, gameID, sessionID string, payload interface{}) (*GameEvent, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = b
	}

	return &GameEvent{
		ID:        uuid.New(),
		Type:      eventType,
		GameID:    gameID,
		SessionID: sessionID,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *GameEvent) error
}

// HandlerFunc adapts an ordinary function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *GameEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *GameEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *GameEvent) error
}
