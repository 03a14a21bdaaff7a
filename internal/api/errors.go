package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-match/internal/api/shared"
	"github.com/phrazzld/scry-match/internal/domain"
	"github.com/phrazzld/scry-match/internal/service/auth"
	"github.com/phrazzld/scry-match/internal/service/matchgame"
	"github.com/phrazzld/scry-match/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, auth.ErrWrongGame):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, matchgame.ErrGameNotFound),
		errors.Is(err, matchgame.ErrGameClosed),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, matchgame.ErrInvalidTransition),
		errors.Is(err, matchgame.ErrNotPlaying):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, matchgame.ErrUnknownCard),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-friendly message for err that leaks
// no internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrWrongGame):
		return "Token does not grant access to this game"

	case errors.Is(err, matchgame.ErrGameNotFound),
		errors.Is(err, matchgame.ErrGameClosed):
		return "Game not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, matchgame.ErrInvalidTransition):
		return "That action is not available right now"

	case errors.Is(err, matchgame.ErrNotPlaying):
		return "No round in play"

	case errors.Is(err, matchgame.ErrUnknownCard):
		return "Unknown card"

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message such
// as "Invalid card_id: required field". Anything else becomes
// "Validation error".
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("Invalid %s: %s", fieldName(fe), getValidationTagMessage(fe.Tag())))
	}
	return strings.Join(msgs, "; ")
}

// fieldName prefers the JSON name registered on the validator.
func fieldName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	return fe.StructField()
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "uuid4":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}
