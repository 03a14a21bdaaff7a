package sqlite

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

// SessionStore implements store.SessionStore on SQLite. List columns hold
// JSON arrays as text.
type SessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore. If logger is nil, a default logger will be used.
func NewSessionStore(db store.DBTX, logger *slog.Logger) *SessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Get implements store.SessionStore.Get
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.TutorSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, core_concepts, definitions, examples, clean_markdown, created_at
		FROM tutor_sessions
		WHERE id = ?
	`

	var (
		session                         domain.TutorSession
		concepts, definitions, examples string
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
		raw  string
		dest *[]string
	}{
		{concepts, &session.CoreConcepts},
		{definitions, &session.Definitions},
		{examples, &session.Examples},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dest); err != nil {
			return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
		}
	}

	return &session, nil
}

// Put implements store.SessionStore.Put
func (s *SessionStore) Put(ctx context.Context, session *domain.TutorSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id, err := domain.NormalizeSessionID(session.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	concepts, err := marshalList(session.CoreConcepts)
	if err != nil {
		return err
	}
	definitions, err := marshalList(session.Definitions)
	if err != nil {
		return err
	}
	examples, err := marshalList(session.Examples)
	if err != nil {
		return err
	}

	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO tutor_sessions (id, core_concepts, definitions, examples, clean_markdown, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			core_concepts = excluded.core_concepts,
			definitions = excluded.definitions,
			examples = excluded.examples,
			clean_markdown = excluded.clean_markdown
	`
	if _, err := s.db.ExecContext(ctx, query, id, concepts, definitions, examples, session.CleanMarkdown, createdAt); err != nil {
		log.Error("failed to save session",
			redact.Attr(err),
			slog.String("session_id", id))
		return MapError(err)
	}

	log.Debug("session saved", slog.String("session_id", id))
	return nil
}

// WithTx implements store.SessionStore.WithTx
func (s *SessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &SessionStore{db: tx, logger: s.logger}
}

func marshalList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}
