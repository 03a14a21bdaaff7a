package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/scry-match/internal/config"
	"github.com/phrazzld/scry-match/internal/domain/matching"
	"github.com/phrazzld/scry-match/internal/events"
	"github.com/phrazzld/scry-match/internal/generation"
	"github.com/phrazzld/scry-match/internal/platform/gemini"
	"github.com/phrazzld/scry-match/internal/platform/tutor"
	"github.com/phrazzld/scry-match/internal/reporting"
	"github.com/phrazzld/scry-match/internal/service/auth"
	"github.com/phrazzld/scry-match/internal/service/matchgame"
	"github.com/phrazzld/scry-match/internal/task"
)

// application holds the shared dependencies of the server so they can be
// cleaned up together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService auth.JWTService
	backend    generation.Backend

	taskQueue  *task.TaskQueue
	workerPool *task.WorkerPool
	notifier   reporting.AnswerNotifier

	eventEmitter *events.InMemoryEventEmitter
	games        *matchgame.Registry

	// scheduler overrides the wall clock for feedback expiry in tests.
	scheduler matching.Scheduler

	stopSweeper context.CancelFunc
	cleanupOnce sync.Once
}

// newApplication creates the application with every dependency initialized
// and the background workers started. The database must already be migrated.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("game token service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.backend, err = newBackend(ctx, cfg, logger, db)
	if err != nil {
		return nil, err
	}

	app.taskQueue = task.NewTaskQueue(cfg.Task.QueueSize, logger)
	app.workerPool = task.NewWorkerPool(app.taskQueue, task.WorkerPoolConfig{
		WorkerCount: cfg.Task.WorkerCount,
	}, logger)
	app.workerPool.SetErrorHandler(reporting.LogTaskError(logger))
	app.workerPool.Start()
	app.notifier = reporting.NewAsyncNotifier(app.backend.Answers, app.taskQueue, cfg.Task.ReportTimeout(), logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.ForTypes(events.LogHandler(logger),
		events.TypeRoundStarted, events.TypeRoundCompleted, events.TypeGenerationFailed))

	app.games = matchgame.NewRegistry(logger)
	sweepCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	app.stopSweeper = stop
	go app.games.RunSweeper(sweepCtx, cfg.Game.SweepInterval(), cfg.Game.IdleTimeout())

	logger.Info("application initialized successfully")
	return app, nil
}

// newBackend selects where rounds come from and where answers go.
func newBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (generation.Backend, error) {
	switch cfg.Tutor.Mode {
	case config.ModeRemote:
		client, err := tutor.NewClient(cfg.Tutor, logger)
		if err != nil {
			return generation.Backend{}, fmt.Errorf("failed to create tutor client: %w", err)
		}
		logger.Info("using remote tutor backend", "base_url", cfg.Tutor.BaseURL)
		return generation.Backend{Rounds: client, Answers: client, Sessions: client}, nil

	case config.ModeLocal:
		s, err := newStores(cfg.Database.Driver, db, logger)
		if err != nil {
			return generation.Backend{}, err
		}
		generator, err := gemini.NewGeminiGenerator(ctx,
			logger.With("component", "llm_generator"), cfg.LLM, s.sessions)
		if err != nil {
			return generation.Backend{}, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
		logger.Info("using local Gemini backend", "model", cfg.LLM.ModelName)
		return generation.Backend{
			Rounds:   generator,
			Answers:  &generation.StoreAnswerReporter{Answers: s.answers},
			Sessions: &generation.StoreSessionValidator{Sessions: s.sessions},
		}, nil

	default:
		return generation.Backend{}, fmt.Errorf("%w: unknown tutor mode %q", config.ErrInvalidConfig, cfg.Tutor.Mode)
	}
}

// newGame is the api.GameFactory. Every game gets its own shuffle source.
func (app *application) newGame(ctx context.Context, gameID, sessionID string) (*matchgame.Controller, error) {
	return matchgame.New(ctx, gameID, sessionID,
		matchgame.Dependencies{
			Rounds:   app.backend.Rounds,
			Sessions: app.backend.Sessions,
			Notifier: app.notifier,
			Events:   app.eventEmitter,
			Logger:   app.logger,
		},
		matchgame.Config{
			GameType: app.config.Tutor.GameType,
			Feedback: matching.FeedbackWindows{
				Correct: app.config.Game.CorrectFeedback(),
				Wrong:   app.config.Game.WrongFeedback(),
			},
			Scheduler: app.scheduler,
			Rand:      matching.NewRand(),
		})
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources. Queued answer reports get up to
// the shutdown timeout to finish. Safe to call more than once.
func (app *application) cleanup() {
	app.cleanupOnce.Do(func() {
		if app.stopSweeper != nil {
			app.stopSweeper()
		}
		if app.games != nil {
			app.games.CloseAll()
		}

		if app.taskQueue != nil {
			app.taskQueue.Close()
		}
		if app.workerPool != nil {
			timeout := time.Duration(app.config.Server.ShutdownTimeoutSeconds) * time.Second
			if !app.workerPool.Drain(timeout) {
				app.logger.Warn("some answer reports were abandoned at shutdown")
			}
		}

		if app.db != nil {
			closeDatabase(app.db, app.logger)
		}

		app.logger.Info("application shutdown completed")
	})
}
