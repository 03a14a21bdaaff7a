// Package generation defines the boundary between the match game and the
// services that produce its rounds. A RoundGenerator returns batches of
// pair-matching rounds for a tutoring session, an AnswerReporter receives
// checked answers for analytics, and a SessionValidator confirms that a
// session identifier refers to ingested study material.
//
// Two backends implement these interfaces: the remote tutoring service
// (internal/platform/tutor) and a local Gemini-backed generator
// (internal/platform/gemini) reading sessions from the database.
package generation
