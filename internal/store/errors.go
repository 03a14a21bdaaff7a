package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the root of every "no such row" error.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is the root of every unique-key conflict.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity means the database rejected a row for violating a
	// constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed wraps failures to begin or commit a transaction.
	ErrTransactionFailed = errors.New("transaction failed")

	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
	ErrStatsNotFound   = fmt.Errorf("%w: answer stats", ErrNotFound)
	ErrAnswerExists    = fmt.Errorf("%w: answer", ErrDuplicate)
)

// IsNotFoundError reports whether err is any kind of not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any kind of duplicate error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
