package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "wrapped ErrNotFound", err: fmt.Errorf("failed to do something: %w", ErrNotFound), expected: true},
		{name: "ErrSessionNotFound", err: ErrSessionNotFound, expected: true},
		{name: "wrapped ErrStatsNotFound", err: fmt.Errorf("lookup: %w", ErrStatsNotFound), expected: true},
		{name: "duplicate is not not-found", err: ErrAnswerExists, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: true},
		{name: "ErrAnswerExists", err: ErrAnswerExists, expected: true},
		{name: "wrapped ErrAnswerExists", err: fmt.Errorf("record: %w", ErrAnswerExists), expected: true},
		{name: "not found is not duplicate", err: ErrSessionNotFound, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsDuplicateError(tt.err))
		})
	}
}

func TestEntityErrorsWrapGeneric(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ErrSessionNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrStatsNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrAnswerExists, ErrDuplicate)
}
