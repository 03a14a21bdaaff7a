package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-match/internal/api"
	apimiddleware "github.com/phrazzld/scry-match/internal/api/middleware"
)

// setupRouter creates the HTTP router with the standard middleware stack
// and the game routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService, app.logger)

	handler := api.NewGameHandler(app.games, app.newGame, app.jwtService, app.logger)
	if app.db != nil {
		handler.WithDatabase(app.db)
	}
	handler.RegisterRoutes(r, authMiddleware.Authenticate)

	return r
}
