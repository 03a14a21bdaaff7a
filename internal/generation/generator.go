package generation

import (
	"context"

	"github.com/phrazzld/scry-match/internal/domain"
)

// Request asks a generator for a batch of rounds.
type Request struct {
	SessionID string
	GameType  string
	// Nuances steers generation toward specific aspects of the material.
	// The game always sends an empty list.
	Nuances []string
}

// Answer is a checked selection reported for analytics.
type Answer struct {
	SessionID string
	GameType  string
	IsCorrect bool
	Selected  []string
}

// RoundGenerator produces pair-matching rounds for a tutoring session.
type RoundGenerator interface {
	// GenerateRounds returns the rounds in play order. Implementations return
	// ErrNoRounds rather than an empty slice, and may wrap failures in a
	// DetailError to surface a player-facing message.
	GenerateRounds(ctx context.Context, req Request) ([]domain.Round, error)
}

// AnswerReporter records checked answers. Callers treat it as best effort.
type AnswerReporter interface {
	ReportAnswer(ctx context.Context, answer Answer) error
}

// SessionValidator confirms that a session identifier refers to an existing
// session. It returns ErrSessionNotFound for unknown identifiers.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID string) error
}

// Backend bundles the three collaborators the game needs from one source.
type Backend struct {
	Rounds   RoundGenerator
	Answers  AnswerReporter
	Sessions SessionValidator
}
