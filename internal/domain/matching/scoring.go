package matching

import "math"

// Score counts checked attempts within a round.
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy returns the rounded share of correct attempts as a percentage,
// or 0 when nothing has been checked yet.
func (s Score) Accuracy() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(s.Total) * 100))
}

// Streak tracks consecutive correct checks across rounds.
type Streak struct {
	Current int
	Best    int
}

// Hit records a correct check.
func (s *Streak) Hit() {
	s.Current++
	if s.Current > s.Best {
		s.Best = s.Current
	}
}

// Miss records a wrong check. Best is kept.
func (s *Streak) Miss() {
	s.Current = 0
}

// Reset zeroes both counters.
func (s *Streak) Reset() {
	s.Current = 0
	s.Best = 0
}

// Session is the scoring state of one game. The matched set and score live
// for a single round and are reset by StartRound; the streak lives for the
// whole game and is reset only by ResetStats.
type Session struct {
	windows  FeedbackWindows
	feedback *Feedback

	pairs   int
	matched MatchedSet
	score   Score
	streak  Streak
}

// NewSession creates scoring state whose feedback expires on the given
// scheduler. Windows that are not positive, or where the correct window is
// not shorter than the wrong one, fall back to the defaults.
func NewSession(scheduler Scheduler, windows FeedbackWindows) *Session {
	if windows.Correct <= 0 || windows.Wrong <= 0 || windows.Correct >= windows.Wrong {
		windows = DefaultFeedbackWindows()
	}
	return &Session{
		windows:  windows,
		feedback: NewFeedback(scheduler),
		matched:  MatchedSet{},
	}
}

// StartRound begins a round of the given number of pairs. It clears the
// matched set, the round score and any pending feedback.
func (s *Session) StartRound(pairs int) {
	s.pairs = pairs
	s.matched = MatchedSet{}
	s.score = Score{}
	s.feedback.Clear()
}

// Apply records an evaluation and shows its feedback. onExpire is scheduled
// to run with the feedback generation when the window closes. Invalid
// evaluations change nothing and return false.
func (s *Session) Apply(eval Evaluation, onExpire func(generation uint64)) bool {
	if !eval.Outcome.IsAttempt() {
		return false
	}

	s.score.Total++
	correct := eval.Outcome == OutcomeCorrect
	window := s.windows.Wrong
	if correct {
		s.matched.Add(eval.IDs...)
		s.score.Correct++
		s.streak.Hit()
		window = s.windows.Correct
	} else {
		s.streak.Miss()
	}

	s.feedback.Show(eval.IDs, correct, window, onExpire)
	return true
}

// Complete reports whether every pair of a non-empty round is matched.
func (s *Session) Complete() bool {
	return s.pairs > 0 && s.matched.Pairs() >= s.pairs
}

// ResetStats zeroes the score and both streak counters. The matched set and
// the round in progress are left alone.
func (s *Session) ResetStats() {
	s.score = Score{}
	s.streak.Reset()
}

// Reset returns the session to its initial state: no round, zero score and
// zero streaks. Feedback generations keep counting so stale expiries stay
// stale.
func (s *Session) Reset() {
	s.StartRound(0)
	s.ResetStats()
}

// ExpireFeedback clears the feedback shown for generation. A stale generation
// is ignored and false is returned.
func (s *Session) ExpireFeedback(generation uint64) bool {
	return s.feedback.Expire(generation)
}

// ClearFeedback cancels pending feedback immediately.
func (s *Session) ClearFeedback() {
	s.feedback.Clear()
}

// Locked reports whether a check result is on display, during which new
// selections are refused.
func (s *Session) Locked() bool {
	return s.feedback.Pending()
}

// IsMatched reports whether the card has been matched this round.
func (s *Session) IsMatched(id string) bool {
	return s.matched.Has(id)
}

// Matched returns a copy of the matched set.
func (s *Session) Matched() MatchedSet {
	out := make(MatchedSet, len(s.matched))
	for id := range s.matched {
		out[id] = struct{}{}
	}
	return out
}

// MatchedPairs returns the number of pairs matched this round.
func (s *Session) MatchedPairs() int {
	return s.matched.Pairs()
}

// PairsTotal returns the number of pairs in the round.
func (s *Session) PairsTotal() int {
	return s.pairs
}

// Score returns the round score.
func (s *Session) Score() Score {
	return s.score
}

// Streak returns the game streak counters.
func (s *Session) Streak() Streak {
	return s.streak
}

// FeedbackIDs returns the cards the current feedback is about.
func (s *Session) FeedbackIDs() []string {
	return s.feedback.IDs()
}

// FeedbackCorrect returns the current feedback verdict, or nil.
func (s *Session) FeedbackCorrect() *bool {
	return s.feedback.Correct()
}
