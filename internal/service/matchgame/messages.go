package matchgame

import "fmt"

// Player-facing messages
const (
	MsgReady           = "Pick two cards that form a correct pair, then click “Check”."
	MsgPlaying         = "Select two cards that belong together, then click Check."
	MsgSelectTwo       = "Select two cards, then click Check."
	MsgCorrect         = "✅ Correct pair!"
	MsgIncorrect       = "❌ Not a correct pair."
	MsgAlreadyMatched  = "❌ Those cards are already matched. Try a different pair."
	MsgCompleted       = "🎉 All pairs matched!"
	MsgStatsReset      = "Stats reset! Ready for a fresh start."
	MsgNoSession       = "No session found. Go to Chat, ingest content, and get the concept marked understood first."
	MsgGenerating      = "Generating game..."
	MsgGenerateFailed  = "Failed to generate game"
	MsgNoGamesReturned = "No games returned from server"
)

func errorMessage(reason string) string {
	return fmt.Sprintf("Error: %s", reason)
}
