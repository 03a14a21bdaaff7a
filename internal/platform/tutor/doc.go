// Package tutor is the HTTP client for the remote tutoring service. It
// generates match-pairs rounds for a session, reports checked answers, and
// checks that a session exists. Transient failures (network errors, 429 and
// 5xx responses) are retried with exponential backoff and jitter; error
// responses carry the service's "detail" message through
// generation.DetailError.
package tutor
