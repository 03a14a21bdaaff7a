package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-match/internal/domain"
	"github.com/phrazzld/scry-match/internal/platform/logger"
	"github.com/phrazzld/scry-match/internal/redact"
	"github.com/phrazzld/scry-match/internal/store"
)

// PostgresAnswerStore implements the store.AnswerStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAnswerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresAnswerStore implements store.AnswerStore interface
var _ store.AnswerStore = (*PostgresAnswerStore)(nil)

// NewPostgresAnswerStore creates a new PostgreSQL implementation of the AnswerStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresAnswerStore(db store.DBTX, logger *slog.Logger) *PostgresAnswerStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAnswerStore{
		db:     db,
		logger: logger.With(slog.String("component", "answer_store")),
	}
}

// Record implements store.AnswerStore.Record
// The answer row and the session tally are written in one transaction. When
// the store is already bound to a transaction, the caller owns it.
func (s *PostgresAnswerStore) Record(ctx context.Context, answer *domain.AnswerRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := answer.Validate(); err != nil {
		log.Warn("answer validation failed during record",
			redact.Attr(err),
			slog.String("answer_id", answer.ID.String()))
		return err
	}

	if db, ok := s.db.(*sql.DB); ok {
		return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			return s.record(ctx, tx, answer)
		})
	}
	return s.record(ctx, s.db, answer)
}

func (s *PostgresAnswerStore) record(ctx context.Context, db store.DBTX, answer *domain.AnswerRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	selected, err := json.Marshal(answer.Selected)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO game_answers (id, session_id, game_type, is_correct, selected, created_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)
	`, answer.ID, answer.SessionID, answer.GameType, answer.IsCorrect, string(selected), answer.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate answer",
				slog.String("answer_id", answer.ID.String()))
			return fmt.Errorf("%w: %s", store.ErrAnswerExists, answer.ID)
		}
		log.Error("failed to insert answer",
			redact.Attr(err),
			slog.String("answer_id", answer.ID.String()))
		return MapError(err)
	}

	correct := 0
	if answer.IsCorrect {
		correct = 1
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO game_answer_stats (session_id, total, correct, updated_at)
		VALUES ($1, 1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET
			total = game_answer_stats.total + 1,
			correct = game_answer_stats.correct + EXCLUDED.correct,
			updated_at = EXCLUDED.updated_at
	`, answer.SessionID, correct, answer.CreatedAt)
	if err != nil {
		log.Error("failed to update answer stats",
			redact.Attr(err),
			slog.String("session_id", answer.SessionID))
		return MapError(err)
	}

	log.Debug("answer recorded",
		slog.String("answer_id", answer.ID.String()),
		slog.String("session_id", answer.SessionID),
		slog.Bool("is_correct", answer.IsCorrect))
	return nil
}

// Stats implements store.AnswerStore.Stats
func (s *PostgresAnswerStore) Stats(ctx context.Context, sessionID string) (*domain.AnswerStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var stats domain.AnswerStats
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, total, correct, updated_at
		FROM game_answer_stats
		WHERE session_id = $1
	`, sessionID).Scan(&stats.SessionID, &stats.Total, &stats.Correct, &stats.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStatsNotFound
		}
		log.Error("failed to get answer stats",
			redact.Attr(err),
			slog.String("session_id", sessionID))
		return nil, MapError(err)
	}
	return &stats, nil
}

// WithTx implements store.AnswerStore.WithTx
func (s *PostgresAnswerStore) WithTx(tx *sql.Tx) store.AnswerStore {
	return &PostgresAnswerStore{
		db:     tx,
		logger: s.logger,
	}
}
