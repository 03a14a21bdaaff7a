// Package task runs background work on a bounded in-memory queue drained by a
// pool of workers. The game uses it to deliver answer reports to the round
// backend without holding up the player's request.
package task
