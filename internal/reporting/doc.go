// Package reporting delivers checked answers to the round backend on a
// best-effort basis. Delivery failures are logged and reported through an
// Outcome that callers may ignore; they never reach the player.
package reporting
