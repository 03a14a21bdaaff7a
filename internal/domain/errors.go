// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyRound is returned when a round carries no pairs. An empty round
	// can't be played and is treated as a malformed generator response.
	ErrEmptyRound = errors.New("round has no pairs")

	// ErrEmptyTerm is returned when a pair set contains a blank term.
	ErrEmptyTerm = errors.New("pair term cannot be empty")

	// ErrEmptyAssociation is returned when a term has a blank association.
	ErrEmptyAssociation = errors.New("pair association cannot be empty")

	// ErrEmptySessionID is returned when a tutor session identifier is blank.
	ErrEmptySessionID = errors.New("session ID cannot be empty")

	// ErrInvalidAnswer is returned when an answer record is malformed.
	ErrInvalidAnswer = errors.New("invalid answer record")
)
