package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnswerRecord is a single checked selection as reported for analytics and
// adaptive difficulty. It is not game history: nothing reads it back into a
// game.
type AnswerRecord struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"session_id"`
	GameType  string    `json:"game_type"`
	IsCorrect bool      `json:"is_correct"`
	Selected  []string  `json:"selected"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAnswerRecord creates a validated AnswerRecord stamped with a new ID and
// the current UTC time.
func NewAnswerRecord(sessionID, gameType string, isCorrect bool, selected []string) (*AnswerRecord, error) {
	record := &AnswerRecord{
		ID:        uuid.New(),
		SessionID: sessionID,
		GameType:  gameType,
		IsCorrect: isCorrect,
		Selected:  append([]string(nil), selected...),
		CreatedAt: time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

// Validate checks that the record carries a session, a game type and a
// selection.
func (a *AnswerRecord) Validate() error {
	if a.SessionID == "" {
		return ErrEmptySessionID
	}
	if a.GameType == "" || len(a.Selected) == 0 {
		return ErrInvalidAnswer
	}
	return nil
}

// AnswerStats is the running tally of checked answers for one session.
type AnswerStats struct {
	SessionID string    `json:"session_id"`
	Total     int       `json:"total"`
	Correct   int       `json:"correct"`
	UpdatedAt time.Time `json:"updated_at"`
}
