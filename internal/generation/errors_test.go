package generation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetail(t *testing.T) {
	t.Parallel()

	err := &DetailError{Detail: "Session has no ingested content", Err: ErrGenerationFailed}
	wrapped := fmt.Errorf("generate rounds: %w", err)

	assert.Equal(t, "Session has no ingested content", Detail(wrapped))
	assert.True(t, errors.Is(wrapped, ErrGenerationFailed))
	assert.Contains(t, err.Error(), "Session has no ingested content")

	assert.Empty(t, Detail(ErrNoRounds))
	assert.Empty(t, Detail(nil))
}

func TestDetailError_NoCause(t *testing.T) {
	t.Parallel()

	err := &DetailError{Detail: "boom"}
	assert.Equal(t, "boom", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
