package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-match/internal/domain"
	"github.com/phrazzld/scry-match/internal/platform/logger"
	"github.com/phrazzld/scry-match/internal/redact"
	"github.com/phrazzld/scry-match/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// NewPostgresSessionStore creates a new PostgreSQL implementation of the SessionStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Get implements store.SessionStore.Get
// It retrieves a session by its ID.
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) Get(ctx context.Context, id string) (*domain.TutorSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving session by ID", slog.String("session_id", id))

	query := `
		SELECT id, core_concepts, definitions, examples, clean_markdown, created_at
		FROM tutor_sessions
		WHERE id = $1
	`

	var (
		session                         domain.TutorSession
		concepts, definitions, examples []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&concepts,
		&definitions,
		&examples,
		&session.CleanMarkdown,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session",
			redact.Attr(err),
			slog.String("session_id", id))
		return nil, MapError(err)
	}

	for _, col := range []struct {
		raw  []byte
		dest *[]string
	}{
		{concepts, &session.CoreConcepts},
		{definitions, &session.Definitions},
		{examples, &session.Examples},
	} {
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
		}
	}

	return &session, nil
}

// Put implements store.SessionStore.Put
// It inserts the session or replaces the material of an existing one.
func (s *PostgresSessionStore) Put(ctx context.Context, session *domain.TutorSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id, err := domain.NormalizeSessionID(session.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	lists := make([]string, 0, 3)
	for _, items := range [][]string{session.CoreConcepts, session.Definitions, session.Examples} {
		if items == nil {
			items = []string{}
		}
		b, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("failed to encode session %s: %w", id, err)
		}
		lists = append(lists, string(b))
	}

	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO tutor_sessions (id, core_concepts, definitions, examples, clean_markdown, created_at)
		VALUES ($1, $2::jsonb, $3::jsonb, $4::jsonb, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			core_concepts = EXCLUDED.core_concepts,
			definitions = EXCLUDED.definitions,
			examples = EXCLUDED.examples,
			clean_markdown = EXCLUDED.clean_markdown
	`
	_, err = s.db.ExecContext(ctx, query, id, lists[0], lists[1], lists[2], session.CleanMarkdown, createdAt)
	if err != nil {
		log.Error("failed to save session",
			redact.Attr(err),
			slog.String("session_id", id))
		return MapError(err)
	}

	log.Debug("session saved", slog.String("session_id", id))
	return nil
}

// WithTx implements store.SessionStore.WithTx
// It returns a new SessionStore instance that uses the provided transaction.
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}
