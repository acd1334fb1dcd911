package rate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidator_ValidateCodes_Errors(t *testing.T) {
	v := NewValidator()

	require.Equal(t, ErrSourceRequired, v.ValidateCodes("", "EUR"))
	require.Equal(t, ErrTargetRequired, v.ValidateCodes("USD", ""))
	require.Equal(t, ErrSameCodes, v.ValidateCodes("USD", "USD"))
	require.Equal(t, ErrInvalidCode, v.ValidateCodes("usd", "EUR"))
	require.Equal(t, ErrInvalidCode, v.ValidateCodes("USD", "EURO"))
	require.Equal(t, ErrInvalidCode, v.ValidateCodes("US1", "EUR"))
}

func TestValidator_ValidateCodes_Success(t *testing.T) {
	require.NoError(t, NewValidator().ValidateCodes("USD", "EUR"))
}

func TestValidator_Struct(t *testing.T) {
	type req struct {
		Start string `validate:"required,datetime=2006-01-02"`
		Code  string `validate:"omitempty,len=3"`
	}
	v := NewValidator()

	require.NoError(t, v.Struct(req{Start: "2025-01-01"}))

	err := v.Struct(req{Start: "01/01/2025", Code: "EURO"})
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.ErrorContains(t, err, "Start failed on datetime=2006-01-02")
	require.ErrorContains(t, err, "Code failed on len=3")

	err = v.Struct(req{})
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.ErrorContains(t, err, "Start failed on required")
}
