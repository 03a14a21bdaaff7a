package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/scry-match/internal/domain"
)

// SessionStore reads tutor sessions written by the ingestion flow.
type SessionStore interface {
	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if the session does not exist.
	Get(ctx context.Context, id string) (*domain.TutorSession, error)

	// Put inserts or replaces a session. The game never calls it; it exists
	// for seeding local databases and tests.
	Put(ctx context.Context, session *domain.TutorSession) error

	// WithTx returns a new SessionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SessionStore
}
