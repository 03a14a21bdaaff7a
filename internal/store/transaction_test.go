//go:build cgo

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?cache=private")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func countItems(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n))
	return n
}

func TestRunInTransaction_Commit(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('a'), ('b')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, countItems(t, db))
}

func TestRunInTransaction_RollbackOnError(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	expectedErr := errors.New("function failed")
	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('a')`); err != nil {
			return err
		}
		return expectedErr
	})
	assert.Equal(t, expectedErr, err)
	assert.Zero(t, countItems(t, db))
}

func TestRunInTransaction_RollbackOnPanic(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	assert.Panics(t, func() {
		_ = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			_, _ = tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('a')`)
			panic("boom")
		})
	})
	assert.Zero(t, countItems(t, db))
}

func TestRunInTransaction_BeginFails(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	require.NoError(t, db.Close())

	err := RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
		t.Fatal("function must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrTransactionFailed)
	assert.ErrorContains(t, err, "failed to begin transaction")
}
