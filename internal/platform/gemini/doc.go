// Package gemini generates match-pairs rounds locally with Google's Gemini
// API, for deployments that run without the remote tutoring service.
//
// The generator reads the ingested material of a tutor session from the
// database, renders it into a prompt from a text/template file, and asks
// Gemini for a JSON batch of games:
//
//	{"games":[{"pairs":{"<term>":"<association>"},"why":{"<term>":"<explanation>"}}]}
//
// Errors are translated to the generation package's sentinels. API failures
// are retried with exponential backoff and jitter; blocked content and
// unparseable responses are permanent.
package gemini
