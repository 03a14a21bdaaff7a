package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/scry-match/internal/domain"
)

// AnswerStore records checked answers in local mode.
type AnswerStore interface {
	// Record saves an answer and updates the session tally in one transaction.
	// Returns validation errors from the domain AnswerRecord if data is invalid.
	// Returns ErrAnswerExists if the answer ID was already recorded.
	Record(ctx context.Context, answer *domain.AnswerRecord) error

	// Stats returns the tally for a session.
	// Returns ErrStatsNotFound if no answer was recorded for it.
	Stats(ctx context.Context, sessionID string) (*domain.AnswerStats, error)

	// WithTx returns a new AnswerStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AnswerStore
}
