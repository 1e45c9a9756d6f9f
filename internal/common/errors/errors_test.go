package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	base := errors.New("disk full")

	assert.Nil(t, WrapError(nil, "ctx"))

	wrapped := WrapError(base, "writing pass history")
	assert.EqualError(t, wrapped, "writing pass history: disk full")
	assert.True(t, errors.Is(wrapped, base))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("expire_at", "soon", "unrecognised date format")
	assert.EqualError(t, err, "invalid expire_at soon: unrecognised date format")
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("trigger_config", "token", "required when trigger is enabled")
	assert.Equal(t, "configuration error in trigger_config.token: required when trigger is enabled", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	noField := NewConfigurationError("storage_config", "", "missing")
	assert.Equal(t, "configuration error in storage_config: missing", noField.Error())
}

func TestErrorCollector(t *testing.T) {
	var ec ErrorCollector
	assert.False(t, ec.HasErrors())
	assert.NoError(t, ec.Error())

	first := errors.New("first")
	ec.Add(nil)
	ec.Add(first)
	assert.Same(t, first, ec.Error())

	ec.AddWithContext(errors.New("second"), "domain b.com")
	assert.True(t, ec.HasErrors())
	assert.Equal(t, 2, ec.Len())

	err := ec.Error()
	assert.EqualError(t, err, "2 errors: first; domain b.com: second")
	assert.ErrorIs(t, err, first)

	var multi *MultiError
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.Errs, 2)
}
