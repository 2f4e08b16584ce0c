package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var nilErr *ValidationError
	assert.Empty(t, nilErr.Error())
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
	assert.Equal(t, "validation failed", (&ValidationError{FieldErrors: map[string]string{"days": "select at least one day"}}).Error())
}

func TestValidationError_HasErrors(t *testing.T) {
	t.Parallel()

	var nilErr *ValidationError
	assert.False(t, nilErr.HasErrors())
	assert.False(t, (&ValidationError{}).HasErrors())
	assert.True(t, (&ValidationError{FieldErrors: map[string]string{"end_date": "bad"}}).HasErrors())
}

func TestValidationError_AddAndMerge(t *testing.T) {
	t.Parallel()

	verr := &ValidationError{}
	verr.add("base", "end must be after start")
	verr.merge(map[string]string{"days": "select at least one day", "end_date": "too early"})
	verr.merge(nil)

	assert.Equal(t, map[string]string{
		"base":     "end must be after start",
		"days":     "select at least one day",
		"end_date": "too early",
	}, verr.FieldErrors)
}

func TestValidationError_SurvivesWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("preview recurrence: %w", &ValidationError{FieldErrors: map[string]string{"days": "x"}})

	var verr *ValidationError
	require.True(t, errors.As(wrapped, &verr))
	assert.True(t, verr.HasErrors())
	assert.False(t, errors.Is(wrapped, ErrWindowClosed))
}
