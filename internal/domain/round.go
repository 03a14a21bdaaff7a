package domain

import (
	"fmt"
	"sort"
	"strings"
)

// GameTypeMatchPairs is the game type identifier understood by the tutoring
// service for the pair-matching game.
const GameTypeMatchPairs = "match_pairs"

// PairSet maps a term (the unique pair key) to its association.
type PairSet map[string]string

// Terms returns the pair keys in sorted order.
func (p PairSet) Terms() []string {
	terms := make([]string, 0, len(p))
	for term := range p {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// Round is a single playable game: a pair set plus a parallel mapping from
// pair key to the rationale explaining why the pair belongs together.
// Rounds are immutable once received from a generator.
type Round struct {
	Pairs PairSet           `json:"pairs"`
	Why   map[string]string `json:"why"`
}

// NewRound builds a Round from the given pairs and rationales and validates it.
// Rationales for keys that are not in pairs are dropped.
func NewRound(pairs map[string]string, why map[string]string) (*Round, error) {
	round := &Round{
		Pairs: make(PairSet, len(pairs)),
		Why:   make(map[string]string, len(why)),
	}
	for term, assoc := range pairs {
		round.Pairs[term] = assoc
	}
	for term, reason := range why {
		if _, ok := pairs[term]; ok {
			round.Why[term] = reason
		}
	}

	if err := round.Validate(); err != nil {
		return nil, err
	}
	return round, nil
}

// Validate checks that the round is playable.
func (r *Round) Validate() error {
	if r == nil || len(r.Pairs) == 0 {
		return ErrEmptyRound
	}

	for term, assoc := range r.Pairs {
		if strings.TrimSpace(term) == "" {
			return ErrEmptyTerm
		}
		if strings.TrimSpace(assoc) == "" {
			return fmt.Errorf("%w: term %q", ErrEmptyAssociation, term)
		}
	}

	return nil
}

// PairCount returns the number of pairs in the round.
func (r *Round) PairCount() int {
	if r == nil {
		return 0
	}
	return len(r.Pairs)
}

// Rationale returns the explanation for the given pair key, or an empty
// string when the round carries none.
func (r *Round) Rationale(pairKey string) string {
	if r == nil || r.Why == nil {
		return ""
	}
	return r.Why[pairKey]
}
