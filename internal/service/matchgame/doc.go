// Package matchgame runs pair-matching games.
//
// A Controller owns one game: the round queue, the deck in play, the current
// selection and the scoring state. It moves through the states loading,
// ready, playing, completed and error, fetching batches of rounds from a
// generation.RoundGenerator and reporting every checked answer on a best
// effort basis. A Registry keeps the controllers of a running server and
// evicts the ones that have gone idle.
package matchgame
