package matching

import (
	"math/rand"
	"testing"

	"github.com/phrazzld/scry-match/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBiologyEvaluator(t *testing.T) *Evaluator {
	t.Helper()

	round, err := domain.NewRound(biologyPairs(), map[string]string{
		"mitochondria": "ATP is produced there",
	})
	require.NoError(t, err)

	deck := NewDeck(round.Pairs, rand.New(rand.NewSource(3)))
	return NewEvaluator(deck, round)
}

var (
	mitoTerm  = CardID(SideTerm, "mitochondria")
	mitoAssoc = CardID(SideAssoc, "mitochondria")
	riboTerm  = CardID(SideTerm, "ribosome")
	riboAssoc = CardID(SideAssoc, "ribosome")
)

func TestEvaluator_Evaluate(t *testing.T) {
	t.Parallel()

	eval := newBiologyEvaluator(t)

	tests := []struct {
		name          string
		matched       MatchedSet
		ids           []string
		wantOutcome   Outcome
		wantPairKey   string
		wantRationale string
	}{
		{
			name:        "no ids",
			ids:         nil,
			wantOutcome: OutcomeInvalid,
		},
		{
			name:        "one id",
			ids:         []string{mitoTerm},
			wantOutcome: OutcomeInvalid,
		},
		{
			name:        "three ids",
			ids:         []string{mitoTerm, mitoAssoc, riboTerm},
			wantOutcome: OutcomeInvalid,
		},
		{
			name:        "duplicate id",
			ids:         []string{mitoTerm, mitoTerm},
			wantOutcome: OutcomeInvalid,
		},
		{
			name:        "unknown card",
			ids:         []string{mitoTerm, "assoc:nucleus"},
			wantOutcome: OutcomeInvalid,
		},
		{
			name:          "correct pair with rationale",
			ids:           []string{mitoTerm, mitoAssoc},
			wantOutcome:   OutcomeCorrect,
			wantPairKey:   "mitochondria",
			wantRationale: "ATP is produced there",
		},
		{
			name:        "correct pair without rationale",
			ids:         []string{riboAssoc, riboTerm},
			wantOutcome: OutcomeCorrect,
			wantPairKey: "ribosome",
		},
		{
			name:        "different pairs",
			ids:         []string{mitoTerm, riboAssoc},
			wantOutcome: OutcomeIncorrect,
		},
		{
			name:        "two terms",
			ids:         []string{mitoTerm, riboTerm},
			wantOutcome: OutcomeIncorrect,
		},
		{
			name:          "pair already matched",
			matched:       MatchedSet{mitoTerm: {}, mitoAssoc: {}},
			ids:           []string{mitoAssoc, mitoTerm},
			wantOutcome:   OutcomeAlreadyMatched,
			wantPairKey:   "mitochondria",
			wantRationale: "ATP is produced there",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			matched := tt.matched
			if matched == nil {
				matched = MatchedSet{}
			}
			got := eval.Evaluate(matched, tt.ids)

			assert.Equal(t, tt.wantOutcome, got.Outcome)
			assert.Equal(t, tt.wantPairKey, got.PairKey)
			assert.Equal(t, tt.wantRationale, got.Rationale)
			if tt.wantOutcome == OutcomeInvalid {
				assert.Empty(t, got.IDs)
			} else {
				assert.Equal(t, tt.ids, got.IDs)
			}
		})
	}
}

func TestEvaluator_Symmetric(t *testing.T) {
	t.Parallel()

	eval := newBiologyEvaluator(t)
	ids := []string{mitoTerm, mitoAssoc, riboTerm, riboAssoc}
	matchedSets := []MatchedSet{
		{},
		{riboTerm: {}, riboAssoc: {}},
	}

	for _, matched := range matchedSets {
		for _, a := range ids {
			for _, b := range ids {
				ab := eval.Evaluate(matched, []string{a, b})
				ba := eval.Evaluate(matched, []string{b, a})
				assert.Equal(t, ab.Outcome, ba.Outcome, "%s/%s", a, b)
				assert.Equal(t, ab.PairKey, ba.PairKey, "%s/%s", a, b)
				assert.Equal(t, ab.Rationale, ba.Rationale, "%s/%s", a, b)
			}
		}
	}
}

func TestEvaluator_DoesNotMutateMatched(t *testing.T) {
	t.Parallel()

	eval := newBiologyEvaluator(t)
	matched := MatchedSet{}

	eval.Evaluate(matched, []string{mitoTerm, mitoAssoc})
	eval.Evaluate(matched, []string{mitoTerm})
	eval.Evaluate(matched, []string{mitoTerm, mitoAssoc, riboTerm})

	assert.Empty(t, matched)
}

func TestOutcome_IsAttempt(t *testing.T) {
	t.Parallel()

	assert.False(t, OutcomeInvalid.IsAttempt())
	assert.True(t, OutcomeCorrect.IsAttempt())
	assert.True(t, OutcomeAlreadyMatched.IsAttempt())
	assert.True(t, OutcomeIncorrect.IsAttempt())
}

func TestMatchedSet(t *testing.T) {
	t.Parallel()

	m := MatchedSet{}
	assert.Zero(t, m.Pairs())

	m.Add(mitoTerm, mitoAssoc)
	assert.True(t, m.Has(mitoTerm))
	assert.False(t, m.Has(riboTerm))
	assert.Equal(t, 1, m.Pairs())
}
