package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-match/internal/api/shared"
	"github.com/phrazzld/scry-match/internal/platform/logger"
	"github.com/phrazzld/scry-match/internal/redact"
	"github.com/phrazzld/scry-match/internal/service/auth"
	"github.com/phrazzld/scry-match/internal/service/matchgame"
)

// GameFactory builds the controller for a new game. It performs the page
// load, so the returned game is in ready or error.
type GameFactory func(ctx context.Context, gameID, sessionID string) (*matchgame.Controller, error)

// GameHandler handles match-pairs game requests.
type GameHandler struct {
	games   *matchgame.Registry
	newGame GameFactory
	tokens  auth.JWTService
	logger  *slog.Logger
	db      Pinger
	newID   func() string
	now     func() time.Time
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// WithDatabase makes Health report the reachability of db.
func (h *GameHandler) WithDatabase(db Pinger) *GameHandler {
	h.db = db
	return h
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(
	games *matchgame.Registry,
	newGame GameFactory,
	tokens auth.JWTService,
	logger *slog.Logger,
) *GameHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameHandler{
		games:   games,
		newGame: newGame,
		tokens:  tokens,
		logger:  logger.With(slog.String("component", "game_handler")),
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// RegisterRoutes mounts the game routes on r. authenticate guards every
// route under /api/games/{id}.
func (h *GameHandler) RegisterRoutes(r chi.Router, authenticate func(http.Handler) http.Handler) {
	r.Post("/api/games", h.CreateGame)
	r.Route("/api/games/{id}", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", h.GetGame)
		r.Delete("/", h.DeleteGame)
		r.Post("/reload", h.ReloadGame)
		r.Post("/start", h.StartGame)
		r.Post("/select", h.SelectCard)
		r.Post("/check", h.CheckSelection)
		r.Post("/next", h.NextRound)
		r.Post("/lobby", h.ReturnToLobby)
		r.Post("/retry", h.RetryGame)
		r.Post("/stats/reset", h.ResetStats)
	})
	r.Get("/health", h.Health)
}

// CreateGame handles POST /api/games. It loads the page for the requested
// session and returns the game's token and first snapshot.
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateGameRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	gameID := h.newID()
	ctx := context.WithoutCancel(r.Context())

	game, err := h.newGame(ctx, gameID, req.SessionID)
	if err != nil {
		log.Error("failed to create game", redact.Attr(err))
		HandleAPIError(w, r, err, "Failed to create game")
		return
	}

	token, err := h.tokens.GenerateToken(ctx, gameID)
	if err != nil {
		game.Close()
		log.Error("failed to issue game token", redact.Attr(err), slog.String("game_id", gameID))
		HandleAPIError(w, r, err, "Failed to create game")
		return
	}

	h.games.Add(game)
	snap := game.Snapshot()
	log.Info("game created",
		slog.String("game_id", gameID),
		slog.String("state", string(snap.State)))

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateGameResponse{
		GameID: gameID,
		Token:  token,
		Game:   snap,
	})
}

// GetGame handles GET /api/games/{id}.
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, game.Snapshot())
}

// DeleteGame handles DELETE /api/games/{id}.
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getGameID(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := h.games.Remove(gameID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).
		Info("game deleted", slog.String("game_id", gameID))
	w.WriteHeader(http.StatusNoContent)
}

// ReloadGame handles POST /api/games/{id}/reload.
func (h *GameHandler) ReloadGame(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "reload", detached((*matchgame.Controller).Reload))
}

// StartGame handles POST /api/games/{id}/start.
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "start", detached((*matchgame.Controller).Start))
}

// SelectCard handles POST /api/games/{id}/select.
func (h *GameHandler) SelectCard(w http.ResponseWriter, r *http.Request) {
	var req SelectCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	h.run(w, r, "select", func(game *matchgame.Controller, ctx context.Context) (matchgame.Snapshot, error) {
		return game.Select(ctx, req.CardID)
	})
}

// CheckSelection handles POST /api/games/{id}/check.
func (h *GameHandler) CheckSelection(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "check", detached((*matchgame.Controller).Check))
}

// NextRound handles POST /api/games/{id}/next.
func (h *GameHandler) NextRound(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "next", detached((*matchgame.Controller).Advance))
}

// ReturnToLobby handles POST /api/games/{id}/lobby.
func (h *GameHandler) ReturnToLobby(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "lobby", (*matchgame.Controller).ReturnToLobby)
}

// RetryGame handles POST /api/games/{id}/retry.
func (h *GameHandler) RetryGame(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "retry", detached((*matchgame.Controller).Retry))
}

// ResetStats handles POST /api/games/{id}/stats/reset.
func (h *GameHandler) ResetStats(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "reset_stats", (*matchgame.Controller).ResetStats)
}

// Health handles GET /health. It answers 503 when the database is set
// and cannot be reached.
func (h *GameHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "ok",
		Games:  h.games.Len(),
		Time:   h.now().UTC(),
	}
	status := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		resp.Database = "ok"
		if err := h.db.PingContext(ctx); err != nil {
			logger.FromContextOrDefault(r.Context(), h.logger).Warn("database ping failed", redact.Attr(err))
			resp.Status = "degraded"
			resp.Database = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	shared.RespondWithJSON(w, r, status, resp)
}

const healthPingTimeout = 2 * time.Second

// gameOp has the shape of a Controller method expression.
type gameOp func(game *matchgame.Controller, ctx context.Context) (matchgame.Snapshot, error)

// detached runs op on a context that outlives the request, so a client
// that disconnects mid-fetch does not push the game into error.
func detached(op gameOp) gameOp {
	return func(game *matchgame.Controller, ctx context.Context) (matchgame.Snapshot, error) {
		return op(game, context.WithoutCancel(ctx))
	}
}

func (h *GameHandler) run(w http.ResponseWriter, r *http.Request, name string, op gameOp) {
	game, ok := h.lookup(w, r)
	if !ok {
		return
	}

	snap, err := op(game, r.Context())
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("game operation rejected",
			slog.String("op", name),
			slog.String("game_id", game.ID()),
			slog.String("state", string(snap.State)),
			redact.Attr(err))
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, snap)
}

func (h *GameHandler) lookup(w http.ResponseWriter, r *http.Request) (*matchgame.Controller, bool) {
	gameID, err := getGameID(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	game, err := h.games.Get(gameID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	return game, true
}
