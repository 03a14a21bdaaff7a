package matching

import (
	"math/rand"
	"time"

	"github.com/phrazzld/scry-match/internal/domain"
)

// Side identifies which half of a pair a card shows.
type Side string

// Card sides
const (
	SideTerm  Side = "term"
	SideAssoc Side = "assoc"
)

// Card is a single face-up card in a round. PairKey points back at the term
// that owns the card; it is a reference, not ownership.
type Card struct {
	ID      string `json:"id"`
	PairKey string `json:"pair_key"`
	Text    string `json:"text"`
	Side    Side   `json:"side"`
}

// CardID returns the identifier of the card showing the given side of a pair.
func CardID(side Side, pairKey string) string {
	return string(side) + ":" + pairKey
}

// NewRand returns a time-seeded random source for deck shuffling.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// BuildDeck turns a pair set into 2N cards in uniformly random order.
//
// Cards are first laid out deterministically (terms sorted, term side before
// association side) and then shuffled in place, so the result depends only on
// the pair set and rng. An empty pair set yields an empty deck. A nil rng
// gets a fresh time-seeded source.
func BuildDeck(pairs domain.PairSet, rng *rand.Rand) []Card {
	cards := make([]Card, 0, len(pairs)*2)
	for _, term := range pairs.Terms() {
		cards = append(cards,
			Card{
				ID:      CardID(SideTerm, term),
				PairKey: term,
				Text:    term,
				Side:    SideTerm,
			},
			Card{
				ID:      CardID(SideAssoc, term),
				PairKey: term,
				Text:    pairs[term],
				Side:    SideAssoc,
			},
		)
	}

	if rng == nil {
		rng = NewRand()
	}
	Shuffle(cards, rng)
	return cards
}

// Shuffle permutes cards in place with a Fisher-Yates shuffle.
func Shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Deck is the ordered set of cards for the current round with an index by
// card ID.
type Deck struct {
	cards []Card
	byID  map[string]Card
}

// NewDeck builds and indexes a shuffled deck for the given pairs.
func NewDeck(pairs domain.PairSet, rng *rand.Rand) *Deck {
	cards := BuildDeck(pairs, rng)
	byID := make(map[string]Card, len(cards))
	for _, card := range cards {
		byID[card.ID] = card
	}
	return &Deck{cards: cards, byID: byID}
}

// Cards returns the cards in display order. The slice is a copy.
func (d *Deck) Cards() []Card {
	if d == nil {
		return nil
	}
	return append([]Card(nil), d.cards...)
}

// Lookup returns the card with the given ID.
func (d *Deck) Lookup(id string) (Card, bool) {
	if d == nil {
		return Card{}, false
	}
	card, ok := d.byID[id]
	return card, ok
}

// Len returns the number of cards in the deck.
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.cards)
}

// Columns returns the grid width hint for laying the deck out in two rows,
// capped at five columns.
func (d *Deck) Columns() int {
	count := d.Len()
	if count == 0 {
		return 3
	}
	cols := count / 2
	if cols < 1 {
		cols = 1
	}
	if cols > 5 {
		cols = 5
	}
	return cols
}
