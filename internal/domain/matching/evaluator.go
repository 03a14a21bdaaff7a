package matching

import "github.com/phrazzld/scry-match/internal/domain"

// Outcome is the result of evaluating a selection.
type Outcome string

// Evaluation outcomes
const (
	// OutcomeInvalid means the selection was not exactly two distinct, known cards.
	OutcomeInvalid Outcome = "invalid"
	// OutcomeCorrect means the two cards are opposite sides of the same
	// unmatched pair.
	OutcomeCorrect Outcome = "correct"
	// OutcomeAlreadyMatched means the cards belong together but at least one
	// of them was already matched. It scores as a wrong attempt.
	OutcomeAlreadyMatched Outcome = "already_matched"
	// OutcomeIncorrect means the cards come from different pairs.
	OutcomeIncorrect Outcome = "incorrect"
)

// IsAttempt reports whether the outcome counts toward the score total.
func (o Outcome) IsAttempt() bool {
	return o == OutcomeCorrect || o == OutcomeAlreadyMatched || o == OutcomeIncorrect
}

// CardLookup resolves card IDs to cards. *Deck satisfies it.
type CardLookup interface {
	Lookup(id string) (Card, bool)
}

// Evaluation is the verdict on a two-card selection.
type Evaluation struct {
	Outcome Outcome
	// IDs are the evaluated card IDs in pick order. Empty for invalid selections.
	IDs []string
	// PairKey is set when both cards share a pair key.
	PairKey string
	// Rationale explains the pair named by PairKey, if the round has one.
	Rationale string
}

// Evaluator judges selections against one round's deck and rationales.
type Evaluator struct {
	cards CardLookup
	round *domain.Round
}

// NewEvaluator creates an Evaluator for a round.
func NewEvaluator(cards CardLookup, round *domain.Round) *Evaluator {
	return &Evaluator{cards: cards, round: round}
}

// Evaluate judges ids against the matched set. It never mutates anything and
// gives the same verdict regardless of the order of the two IDs.
func (e *Evaluator) Evaluate(matched MatchedSet, ids []string) Evaluation {
	if len(ids) != MaxSelection || ids[0] == ids[1] {
		return Evaluation{Outcome: OutcomeInvalid}
	}

	a, okA := e.cards.Lookup(ids[0])
	b, okB := e.cards.Lookup(ids[1])
	if !okA || !okB {
		return Evaluation{Outcome: OutcomeInvalid}
	}

	eval := Evaluation{IDs: []string{a.ID, b.ID}}

	if a.PairKey != b.PairKey {
		eval.Outcome = OutcomeIncorrect
		return eval
	}

	eval.PairKey = a.PairKey
	eval.Rationale = e.round.Rationale(a.PairKey)

	switch {
	case a.Side == b.Side:
		// Unreachable with well-formed card IDs.
		eval.Outcome = OutcomeIncorrect
	case matched.Has(a.ID) || matched.Has(b.ID):
		eval.Outcome = OutcomeAlreadyMatched
	default:
		eval.Outcome = OutcomeCorrect
	}

	return eval
}

// MatchedSet is the set of card IDs confirmed by a correct evaluation.
type MatchedSet map[string]struct{}

// Has reports whether the card is matched.
func (m MatchedSet) Has(id string) bool {
	_, ok := m[id]
	return ok
}

// Add marks the cards as matched.
func (m MatchedSet) Add(ids ...string) {
	for _, id := range ids {
		m[id] = struct{}{}
	}
}

// Pairs returns the number of matched pairs.
func (m MatchedSet) Pairs() int {
	return len(m) / 2
}
