// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package. It uses the pgx
// driver through database/sql and maps pgconn errors to store errors.
package postgres
