package api

import (
	"time"

	"github.com/phrazzld/scry-match/internal/service/matchgame"
)

// CreateGameRequest defines the payload for the game creation endpoint.
// A blank session ID is accepted; the game then starts in the error state
// with the "no session" message, as a page load without one would.
type CreateGameRequest struct {
	SessionID string `json:"session_id" validate:"max=256"`
}

// CreateGameResponse is returned when a game is created.
type CreateGameResponse struct {
	GameID string `json:"game_id"`

	// Token authorizes every /api/games/{id} call for this game
	Token string `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the token expires
	ExpiresAt string `json:"expires_at,omitempty"`

	Game matchgame.Snapshot `json:"game"`
}

// SelectCardRequest defines the payload for the card selection endpoint.
type SelectCardRequest struct {
	CardID string `json:"card_id" validate:"required,max=512"`
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status   string    `json:"status"`
	Database string    `json:"database,omitempty"`
	Games    int       `json:"games"`
	Time     time.Time `json:"time"`
}
