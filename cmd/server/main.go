// Package main runs the scry-match server: a pair-matching practice game
// backed by a tutoring service or by local Gemini generation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/scry-match/internal/config"
	"github.com/phrazzld/scry-match/internal/migrations"
	"github.com/phrazzld/scry-match/internal/platform/logger"
	"github.com/phrazzld/scry-match/internal/redact"
)

// options are the command line flags.
type options struct {
	// migrate runs a single migration command and exits instead of serving.
	migrate string
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.migrate, "migrate", "",
		"run a migration command (up, down, status, version, reset) and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("server exited with error", redact.Attr(err))
		os.Exit(1)
	}
}

// run loads configuration, prepares the database and either executes a
// migration command or serves until ctx is cancelled.
func run(ctx context.Context, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"tutor_mode", cfg.Tutor.Mode,
		"database_driver", cfg.Database.Driver)

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if opts.migrate != "" {
		defer closeDatabase(db, log)
		return migrations.Run(ctx, db, cfg.Database.Driver, opts.migrate, log)
	}

	if err := migrations.Up(ctx, db, cfg.Database.Driver, log); err != nil {
		closeDatabase(db, log)
		return err
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		closeDatabase(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
