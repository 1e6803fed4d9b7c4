package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsAreDistinguishable(t *testing.T) {
	notFound := NotFound("project")
	forbidden := Forbidden("")

	assert.True(t, Is(notFound, ErrNotFound))
	assert.False(t, Is(notFound, ErrForbidden))
	assert.True(t, Is(forbidden, ErrForbidden))
	assert.False(t, Is(forbidden, ErrNotFound))
	assert.Equal(t, "project not found", notFound.Error())
}

func TestIsSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("edit project: %w", Validation("title is required"))

	assert.True(t, Is(err, ErrValidation))
	assert.Equal(t, "edit project: title is required", err.Error())
}

func TestStorageKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Storage("delete user", cause)

	assert.True(t, Is(err, ErrStorage))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "delete user: disk full", err.Error())
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	conflict := Conflict("email already in use")
	got := From(fmt.Errorf("wrapped: %w", conflict))
	require.NotNil(t, got)
	assert.Same(t, conflict, got)

	plain := From(errors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrStorage, plain.Kind)
}

func TestValidationFields(t *testing.T) {
	err := ValidationFields("invalid input", map[string]string{"due_date": "must be YYYY-MM-DD"})

	assert.True(t, Is(err, ErrValidation))
	assert.Equal(t, "must be YYYY-MM-DD", err.Details["due_date"])
}
