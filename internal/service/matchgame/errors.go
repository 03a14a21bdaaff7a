package matchgame

import "errors"

// Common errors returned by the matchgame package
var (
	// ErrInvalidTransition is returned when an operation is not allowed in the
	// game's current state, such as starting while a fetch is outstanding.
	ErrInvalidTransition = errors.New("operation not allowed in current game state")

	// ErrNotPlaying is returned when cards are selected or checked outside a
	// round in play.
	ErrNotPlaying = errors.New("no round in play")

	// ErrUnknownCard is returned when a selected card is not in the current deck.
	ErrUnknownCard = errors.New("unknown card")

	// ErrGameNotFound is returned when a game ID is not in the registry.
	ErrGameNotFound = errors.New("game not found")

	// ErrNilGenerator is returned when a controller is built without a round generator.
	ErrNilGenerator = errors.New("round generator cannot be nil")

	// ErrGameClosed is returned for operations on a discarded game.
	ErrGameClosed = errors.New("game closed")
)
