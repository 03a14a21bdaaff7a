package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-match/internal/config"
	"github.com/phrazzld/scry-match/internal/platform/postgres"
	"github.com/phrazzld/scry-match/internal/platform/sqlite"
	"github.com/phrazzld/scry-match/internal/redact"
	"github.com/phrazzld/scry-match/internal/store"
)

// stores are the two tables the game touches, bound to one database.
type stores struct {
	sessions store.SessionStore
	answers  store.AnswerStore
}

// openDatabase connects to the configured database and verifies it.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case postgres.DriverName:
		db, err = postgres.Open(ctx, cfg.URL)
	case sqlite.DriverName:
		db, err = sqlite.Open(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("%w: unsupported database driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger.Info("database connection established",
		"driver", cfg.Driver,
		"url", redact.String(cfg.URL))
	return db, nil
}

// newStores builds the session and answer stores for driver.
func newStores(driver string, db *sql.DB, logger *slog.Logger) (stores, error) {
	switch driver {
	case postgres.DriverName:
		return stores{
			sessions: postgres.NewPostgresSessionStore(db, logger),
			answers:  postgres.NewPostgresAnswerStore(db, logger),
		}, nil
	case sqlite.DriverName:
		return stores{
			sessions: sqlite.NewSessionStore(db, logger),
			answers:  sqlite.NewAnswerStore(db, logger),
		}, nil
	default:
		return stores{}, fmt.Errorf("%w: unsupported database driver %q", config.ErrInvalidConfig, driver)
	}
}

func closeDatabase(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("error closing database connection", redact.Attr(err))
	}
}
