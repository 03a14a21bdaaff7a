// Package store defines persistence for the two tables the game touches:
// tutor_sessions, written by the ingestion flow and only read here, and
// game_answers, the local record of checked answers. Postgres and SQLite
// implementations live under internal/platform.
package store
