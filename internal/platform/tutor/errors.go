package tutor

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/scry-match/internal/generation"
)

// ErrInvalidBaseURL is returned when the configured service URL is unusable.
var ErrInvalidBaseURL = errors.New("invalid tutor service base URL")

// StatusError reports a non-2xx response from the tutoring service.
type StatusError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("tutor service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("tutor service returned status %d: %s", e.StatusCode, e.Detail)
}

// Unwrap marks throttling and server errors as transient.
func (e *StatusError) Unwrap() error {
	if isTransientStatus(e.StatusCode) {
		return generation.ErrTransientFailure
	}
	return nil
}

func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// statusError builds the error for a failed response. A non-empty detail is
// exposed through generation.DetailError so the game can show it.
func statusError(code int, detail string) error {
	err := &StatusError{StatusCode: code, Detail: detail}
	if detail == "" {
		return err
	}
	return &generation.DetailError{Detail: detail, Err: err}
}
