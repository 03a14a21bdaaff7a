package matchgame

// State is the phase a game is in.
type State string

// Game states
const (
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StatePlaying   State = "playing"
	StateCompleted State = "completed"
	StateError     State = "error"
)

// Valid reports whether s is one of the game states.
func (s State) Valid() bool {
	switch s {
	case StateLoading, StateReady, StatePlaying, StateCompleted, StateError:
		return true
	}
	return false
}
