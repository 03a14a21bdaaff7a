package matchgame

import "github.com/phrazzld/scry-match/internal/domain/matching"

// Card feedback markers
const (
	FeedbackNone    = ""
	FeedbackCorrect = "correct"
	FeedbackWrong   = "wrong"
)

// CardView is a card as the player sees it.
type CardView struct {
	ID       string        `json:"id"`
	Text     string        `json:"text"`
	Side     matching.Side `json:"side"`
	Selected bool          `json:"selected"`
	Matched  bool          `json:"matched"`
	Feedback string        `json:"feedback,omitempty"`
}

// Snapshot is a point-in-time view of a game.
type Snapshot struct {
	GameID       string         `json:"game_id"`
	State        State          `json:"state"`
	Message      string         `json:"message"`
	IsCorrect    *bool          `json:"is_correct"`
	Why          string         `json:"why"`
	Cards        []CardView     `json:"cards"`
	Selected     []string       `json:"selected"`
	Score        matching.Score `json:"score"`
	Accuracy     int            `json:"accuracy"`
	Streak       int            `json:"streak"`
	BestStreak   int            `json:"best_streak"`
	PairsTotal   int            `json:"pairs_total"`
	PairsMatched int            `json:"pairs_matched"`
	QueuedRounds int            `json:"queued_rounds"`
	Columns      int            `json:"columns"`
	Locked       bool           `json:"locked"`
}

// snapshot must be called with c.mu held.
func (c *Controller) snapshot() Snapshot {
	score := c.scoring.Score()
	streak := c.scoring.Streak()

	snap := Snapshot{
		GameID:       c.id,
		State:        c.state,
		Message:      c.message,
		Why:          c.why,
		Selected:     c.selection.IDs(),
		Score:        score,
		Accuracy:     score.Accuracy(),
		Streak:       streak.Current,
		BestStreak:   streak.Best,
		QueuedRounds: len(c.queue),
		Columns:      c.deck.Columns(),
		Locked:       c.scoring.Locked(),
		Cards:        []CardView{},
	}
	if c.isCorrect != nil {
		v := *c.isCorrect
		snap.IsCorrect = &v
	}
	if snap.Selected == nil {
		snap.Selected = []string{}
	}

	if c.state != StatePlaying && c.state != StateCompleted {
		return snap
	}

	snap.PairsTotal = c.scoring.PairsTotal()
	snap.PairsMatched = c.scoring.MatchedPairs()

	checked := make(map[string]bool)
	for _, id := range c.scoring.FeedbackIDs() {
		checked[id] = true
	}
	verdict := c.scoring.FeedbackCorrect()

	for _, card := range c.deck.Cards() {
		view := CardView{
			ID:       card.ID,
			Text:     card.Text,
			Side:     card.Side,
			Selected: c.selection.Contains(card.ID),
			Matched:  c.scoring.IsMatched(card.ID),
		}
		if checked[card.ID] && verdict != nil {
			if *verdict {
				view.Feedback = FeedbackCorrect
			} else {
				view.Feedback = FeedbackWrong
			}
		}
		snap.Cards = append(snap.Cards, view)
	}

	return snap
}
