// Package sqlite provides SQLite implementations of the store interfaces,
// used for local development and single-node deployments. It relies on the
// cgo mattn/go-sqlite3 driver.
package sqlite
