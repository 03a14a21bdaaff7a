// Package logger provides structured logging functionality for the application.
//
// It uses the standard library log/slog package to produce JSON logs with a
// configurable level, and carries request-scoped loggers through
// context.Context so that handlers and services log with the same trace
// attributes.
package logger
