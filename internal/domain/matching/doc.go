// Package matching implements the rules of the pair-matching practice game.
//
// A round's PairSet is turned into a shuffled Deck of face-up cards, two per
// pair (one term card, one association card). Players build a Selection of
// at most two cards, the Evaluator decides whether the selection is a correct
// match, and the scoring Session records the result: the matched set and the
// per-round Score, the cross-round Streak, and a transient Feedback window
// that clears itself after a short delay.
//
// Nothing in this package performs I/O or holds locks. Callers that share a
// Session between goroutines must serialize access themselves.
package matching
