package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when round generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate game")

	// ErrNoRounds is returned when a generator answers successfully but with no rounds
	ErrNoRounds = errors.New("no games returned from server")

	// ErrInvalidResponse is returned when the generator response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from round generator")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during round generation")

	// ErrSessionNotFound is returned when the session identifier is unknown to the backend
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// DetailError carries a message supplied by the backend that is safe to show
// to the player, such as the "detail" field of a tutoring service error.
type DetailError struct {
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	if e.Err == nil {
		return e.Detail
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Err
}

// Detail returns the backend-supplied detail message carried by err, or ""
// when there is none.
func Detail(err error) string {
	var detailErr *DetailError
	if errors.As(err, &detailErr) {
		return detailErr.Detail
	}
	return ""
}
