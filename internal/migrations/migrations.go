// Package migrations embeds the SQL schema for each supported database and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/scry-match/internal/redact"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Commands accepted by Run.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandStatus  = "status"
	CommandVersion = "version"
	CommandReset   = "reset"
)

// ErrUnsupportedDriver is returned for a database driver without migrations.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// ErrUnknownCommand is returned for a command Run does not understand.
var ErrUnknownCommand = errors.New("unknown migration command")

type dialect struct {
	name string
	dir  string
}

var dialects = map[string]dialect{
	"pgx":     {name: "postgres", dir: "postgres"},
	"sqlite3": {name: "sqlite3", dir: "sqlite"},
}

// goose keeps its dialect, filesystem and logger in package globals.
var gooseMu sync.Mutex

// Up applies every pending migration for driver.
func Up(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) error {
	return Run(ctx, db, driver, CommandUp, logger)
}

// Run executes a goose command against db using the embedded migrations for
// driver ("pgx" or "sqlite3").
func Run(ctx context.Context, db *sql.DB, driver, command string, logger *slog.Logger) error {
	d, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("command", command),
		slog.String("dialect", d.name))

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect(d.name); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	start := time.Now()
	log.Info("starting migration operation")

	var err error
	switch command {
	case CommandUp:
		err = goose.UpContext(ctx, db, d.dir)
	case CommandDown:
		err = goose.DownContext(ctx, db, d.dir)
	case CommandStatus:
		err = goose.StatusContext(ctx, db, d.dir)
	case CommandReset:
		err = goose.ResetContext(ctx, db, d.dir)
	case CommandVersion:
		var version int64
		version, err = goose.GetDBVersionContext(ctx, db)
		if err == nil {
			log.Info("current database version", slog.Int64("version", version))
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}

	duration := time.Since(start)
	if err != nil {
		log.Error("migration operation failed",
			redact.Attr(err),
			slog.Int64("duration_ms", duration.Milliseconds()))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration operation completed",
		slog.Int64("duration_ms", duration.Milliseconds()))
	return nil
}
