package nodegen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	t.Run("carries type, property, constraint and value", func(t *testing.T) {
		err := NewValidationError("CodeChunk", "executionCount", "minimum", -1, "must be >= 0")

		assert.Contains(t, err.Error(), "CodeChunk")
		assert.Contains(t, err.Error(), "executionCount")
		assert.Contains(t, err.Error(), "minimum")
		assert.Contains(t, err.Error(), "-1")
	})

	t.Run("matches the sentinel", func(t *testing.T) {
		err := NewValidationError("Article", "title", "pattern", "x", "")

		assert.True(t, errors.Is(err, ErrValidation))
		assert.True(t, IsValidationError(err))
	})

	t.Run("unwraps through wrapping", func(t *testing.T) {
		var ve *ValidationError
		wrapped := errors.Join(errors.New("decode CodeChunk"), NewValidationError("CodeChunk", "code", "pattern", 1, ""))

		assert.True(t, errors.As(wrapped, &ve))
		assert.Equal(t, "code", ve.Property)
	})
}

func TestUnknownTypeError(t *testing.T) {
	err := &UnknownTypeError{Union: "Node", Type: "NotAType"}

	assert.Contains(t, err.Error(), "NotAType")
	assert.Contains(t, err.Error(), "Node")
	assert.True(t, errors.Is(err, ErrUnknownType))
	assert.True(t, IsUnknownTypeError(err))
	assert.False(t, IsValidationError(err))
}

func TestAliasError(t *testing.T) {
	err := &AliasError{Type: "Person", Property: "familyNames", Alias: "surname"}

	assert.Contains(t, err.Error(), "familyNames")
	assert.Contains(t, err.Error(), "surname")
	assert.True(t, errors.Is(err, ErrValidation))
}
