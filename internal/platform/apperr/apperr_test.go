package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataFor(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeAuthentication, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, MetadataFor(tt.code).HTTPStatus)
		})
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(CodeInternal, cause, "loading employees")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeInternal, err.Code())
	assert.Contains(t, err.Error(), "connection reset")
}

func TestAs_FindsWrappedError(t *testing.T) {
	inner := New(CodeNotFound, "employee not found")
	outer := fmt.Errorf("handler: %w", inner)

	typed := As(outer)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())
	assert.Equal(t, "employee not found", typed.Message())

	assert.Nil(t, As(errors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestNilError_IsSafe(t *testing.T) {
	var e *Error
	assert.Equal(t, CodeInternal, e.Code())
	assert.Empty(t, e.Message())
	assert.Nil(t, e.Details())
	assert.Nil(t, e.WithDetails("x"))
}

func TestChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", errors.New("inner"))

	chain := Chain(err)

	assert.Len(t, chain, 2)
	assert.Contains(t, chain[1], "inner")
}
