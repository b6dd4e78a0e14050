package recipe

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesSentinelByCode(t *testing.T) {
	err := fmt.Errorf("retarget: %w", NewNotFound("node", "abc"))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestError_Message(t *testing.T) {
	err := NewNotFound("node", "abc")
	assert.Equal(t, "NOT_FOUND: node not found (id=abc)", err.Error())

	cause := errors.New("unexpected EOF")
	derr := NewDecodeFailure("decode graph", cause)
	assert.Equal(t, "DECODE_FAILURE: decode graph: unexpected EOF", derr.Error())
	assert.ErrorIs(t, derr, cause)
}

func TestCodeOf_ForeignError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.False(t, IsDecodeFailure(nil))
}
