//go:build cgo

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/scry-match/internal/domain"
	"github.com/phrazzld/scry-match/internal/migrations"
	"github.com/phrazzld/scry-match/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dbCounter atomic.Int64

// newTestDB opens a fresh named in-memory database with the schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(ctx, db, DriverName, nil))
	return db
}

func biologySession() *domain.TutorSession {
	return &domain.TutorSession{
		ID:            "session-bio",
		CoreConcepts:  []string{"Mitochondria", "Ribosome"},
		Definitions:   []string{"Mitochondria produce ATP"},
		Examples:      nil,
		CleanMarkdown: "# Cells\nOrganelles and their roles.",
		CreatedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSessionStore_PutGet(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	s := NewSessionStore(db, nil)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, biologySession()))

	got, err := s.Get(ctx, "session-bio")
	require.NoError(t, err)
	assert.Equal(t, "session-bio", got.ID)
	assert.Equal(t, []string{"Mitochondria", "Ribosome"}, got.CoreConcepts)
	assert.Equal(t, []string{"Mitochondria produce ATP"}, got.Definitions)
	assert.Empty(t, got.Examples)
	assert.Equal(t, "# Cells\nOrganelles and their roles.", got.CleanMarkdown)
	assert.True(t, got.CreatedAt.Equal(biologySession().CreatedAt))
	assert.True(t, got.HasMaterial())
}

func TestSessionStore_PutReplaces(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	s := NewSessionStore(db, nil)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, biologySession()))
	updated := biologySession()
	updated.CoreConcepts = []string{"Golgi"}
	require.NoError(t, s.Put(ctx, updated))

	got, err := s.Get(ctx, "session-bio")
	require.NoError(t, err)
	assert.Equal(t, []string{"Golgi"}, got.CoreConcepts)
}

func TestSessionStore_GetMissing(t *testing.T) {
	t.Parallel()

	s := NewSessionStore(newTestDB(t), nil)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestSessionStore_PutBlankID(t *testing.T) {
	t.Parallel()

	s := NewSessionStore(newTestDB(t), nil)
	err := s.Put(context.Background(), &domain.TutorSession{ID: "  "})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestAnswerStore_RecordAndStats(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	s := NewAnswerStore(db, nil)
	ctx := context.Background()

	for _, correct := range []bool{true, false, true} {
		a, err := domain.NewAnswerRecord("session-bio", domain.GameTypeMatchPairs, correct, []string{"term-0", "assoc-0"})
		require.NoError(t, err)
		require.NoError(t, s.Record(ctx, a))
	}

	stats, err := s.Stats(ctx, "session-bio")
	require.NoError(t, err)
	assert.Equal(t, "session-bio", stats.SessionID)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Correct)
	assert.False(t, stats.UpdatedAt.IsZero())

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM game_answers`).Scan(&rows))
	assert.Equal(t, 3, rows)
}

func TestAnswerStore_DuplicateRollsBack(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	s := NewAnswerStore(db, nil)
	ctx := context.Background()

	a, err := domain.NewAnswerRecord("session-bio", domain.GameTypeMatchPairs, true, []string{"x", "y"})
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, a))

	err = s.Record(ctx, a)
	assert.ErrorIs(t, err, store.ErrAnswerExists)
	assert.True(t, store.IsDuplicateError(err))

	stats, err := s.Stats(ctx, "session-bio")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total, "tally is unchanged by the failed insert")
}

func TestAnswerStore_InvalidRecord(t *testing.T) {
	t.Parallel()

	s := NewAnswerStore(newTestDB(t), nil)
	err := s.Record(context.Background(), &domain.AnswerRecord{GameType: "match_pairs", Selected: []string{"a"}})
	assert.ErrorIs(t, err, domain.ErrEmptySessionID)
}

func TestAnswerStore_StatsMissing(t *testing.T) {
	t.Parallel()

	s := NewAnswerStore(newTestDB(t), nil)
	_, err := s.Stats(context.Background(), "none")
	assert.ErrorIs(t, err, store.ErrStatsNotFound)
}

func TestAnswerStore_WithTx(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	s := NewAnswerStore(db, nil)
	ctx := context.Background()
	rollback := errors.New("abort")

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		a, err := domain.NewAnswerRecord("session-tx", domain.GameTypeMatchPairs, true, []string{"a", "b"})
		require.NoError(t, err)
		require.NoError(t, s.WithTx(tx).Record(ctx, a))
		return rollback
	})
	assert.ErrorIs(t, err, rollback)

	_, err = s.Stats(ctx, "session-tx")
	assert.ErrorIs(t, err, store.ErrStatsNotFound)
}

func TestMapError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, MapError(nil))
	assert.ErrorIs(t, MapError(sql.ErrNoRows), store.ErrNotFound)

	plain := errors.New("disk I/O error")
	assert.Equal(t, plain, MapError(plain))

	db := newTestDB(t)
	_, err := db.Exec(`INSERT INTO game_answer_stats (session_id, total, correct) VALUES ('s', 1, 5)`)
	require.Error(t, err)
	assert.ErrorIs(t, MapError(err), store.ErrInvalidEntity)
}
