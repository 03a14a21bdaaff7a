package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyPrompt is returned when a rendered prompt is blank.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrNoMaterial is returned when a session has nothing to build pairs from.
	ErrNoMaterial = errors.New("session has no ingested material")
)

// noMaterialDetail is shown to the player when a session has no material.
const noMaterialDetail = "This session has no ingested content yet. Add material in Chat first."
