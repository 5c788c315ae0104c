package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "month out of range",
			field:    "birth_month",
			message:  "month 13 must be between 1 and 12",
			expected: "validation error on field 'birth_month': month 13 must be between 1 and 12",
		},
		{
			name:     "required field error",
			field:    "name",
			message:  "name is required",
			expected: "validation error on field 'name': name is required",
		},
		{
			name:     "empty message",
			field:    "id",
			message:  "",
			expected: "validation error on field 'id': ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{
				Field:   tt.field,
				Message: tt.message,
			}

			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_UnwrapsToInvalidRecord(t *testing.T) {
	err := error(&ValidationError{Field: "birth_day", Message: "day 31 is not valid for April"})

	assert.True(t, errors.Is(err, ErrInvalidRecord))
	assert.False(t, errors.Is(err, ErrInvalidInput))

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "birth_day", validationErr.Field)
}

func TestValidationError_InErrorChain(t *testing.T) {
	wrapped := errors.Join(errors.New("character 42"), &ValidationError{Field: "birth_month", Message: "bad"})

	var validationErr *ValidationError
	assert.True(t, errors.As(wrapped, &validationErr))
	assert.True(t, errors.Is(wrapped, ErrInvalidRecord))
}

func TestSentinelErrors_ErrorMessages(t *testing.T) {
	assert.Equal(t, "invalid record", ErrInvalidRecord.Error())
	assert.Equal(t, "invalid input", ErrInvalidInput.Error())
	assert.NotEqual(t, ErrInvalidRecord, ErrInvalidInput)
}
