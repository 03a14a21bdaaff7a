package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	opts, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Empty(t, opts.migrate)

	opts, err = parseFlags([]string{"-migrate", "status"})
	require.NoError(t, err)
	assert.Equal(t, "status", opts.migrate)

	_, err = parseFlags([]string{"-nope"})
	assert.Error(t, err)
}
