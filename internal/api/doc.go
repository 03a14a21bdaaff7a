// Package api exposes the match-pairs game over HTTP. Handlers translate
// requests into calls on a game controller held in the in-memory registry
// and return the controller's snapshot as JSON. Every route under
// /api/games/{id} is guarded by a per-game token issued at creation.
package api
