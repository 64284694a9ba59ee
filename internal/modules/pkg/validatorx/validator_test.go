package validatorx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Driver string `validate:"oneof=postgres sqlite"`
	Path   string `validate:"required_if=Driver sqlite"`
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(sample{Driver: "postgres"}))
	assert.NoError(t, v.Validate(sample{Driver: "sqlite", Path: "keys.db"}))
}

func TestValidator_CollectsFieldErrors(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sample{Driver: "mysql"})
	require.Error(t, err)

	var valErr ValidationError
	require.True(t, errors.As(err, &valErr))
	require.Len(t, valErr.Errors, 1)
	assert.Equal(t, "sample.Driver", valErr.Errors[0].Field)
	assert.Equal(t, "oneof", valErr.Errors[0].Tag)
	assert.Equal(t, "This field must be one of: postgres sqlite", valErr.Errors[0].Message)
	assert.Contains(t, err.Error(), "sample.Driver (oneof)")
}

func TestValidator_RequiredIf(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sample{Driver: "sqlite"})

	var valErr ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "required_if", valErr.Errors[0].Tag)
	assert.Equal(t, "This field is required", valErr.Errors[0].Message)
}
