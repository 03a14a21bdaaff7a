package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-match/internal/api/middleware"
	"github.com/phrazzld/scry-match/internal/api/shared"
	"github.com/phrazzld/scry-match/internal/domain"
)

// HandleAPIError writes the status and safe message for err. A non-empty
// userMessage replaces the default message. Authentication failures are
// logged at WARN.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err, opts...)
}

// getGameID extracts and validates the game UUID from the route.
func getGameID(r *http.Request) (string, error) {
	param := chi.URLParam(r, middleware.GameIDParam)
	if param == "" {
		return "", fmt.Errorf("%w: game id is required", domain.ErrValidation)
	}
	id, err := uuid.Parse(param)
	if err != nil {
		return "", fmt.Errorf("%w: game id has invalid format", domain.ErrValidation)
	}
	return id.String(), nil
}
