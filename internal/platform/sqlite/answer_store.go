package sqlite

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

// AnswerStore implements store.AnswerStore on SQLite.
type AnswerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.AnswerStore = (*AnswerStore)(nil)

// NewAnswerStore creates an AnswerStore. If logger is nil, a default logger will be used.
func NewAnswerStore(db store.DBTX, logger *slog.Logger) *AnswerStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerStore{
		db:     db,
		logger: logger.With(slog.String("component", "answer_store")),
	}
}

// Record implements store.AnswerStore.Record
func (s *AnswerStore) Record(ctx context.Context, answer *domain.AnswerRecord) error {
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

func (s *AnswerStore) record(ctx context.Context, db store.DBTX, answer *domain.AnswerRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	selected, err := json.Marshal(answer.Selected)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO game_answers (id, session_id, game_type, is_correct, selected, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, answer.ID.String(), answer.SessionID, answer.GameType, answer.IsCorrect, string(selected), answer.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
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
		VALUES (?, 1, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET
			total = game_answer_stats.total + 1,
			correct = game_answer_stats.correct + excluded.correct,
			updated_at = excluded.updated_at
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
func (s *AnswerStore) Stats(ctx context.Context, sessionID string) (*domain.AnswerStats, error) {
	var stats domain.AnswerStats
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, total, correct, updated_at
		FROM game_answer_stats
		WHERE session_id = ?
	`, sessionID).Scan(&stats.SessionID, &stats.Total, &stats.Correct, &stats.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStatsNotFound
		}
		return nil, MapError(err)
	}
	return &stats, nil
}

// WithTx implements store.AnswerStore.WithTx
func (s *AnswerStore) WithTx(tx *sql.Tx) store.AnswerStore {
	return &AnswerStore{db: tx, logger: s.logger}
}
