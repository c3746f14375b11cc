package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("update stock: %w", NotFound("Item", "42"))

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, Is(err, KindNotFound))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	assert.Equal(t, "update stock: Item 42 not found!", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Conflict("dup"), http.StatusConflict},
		{Transaction("tx", errors.New("boom")), http.StatusInternalServerError},
		{Permission("no"), http.StatusForbidden},
		{Unauthenticated("who"), http.StatusUnauthorized},
		{RateLimited("slow down"), http.StatusTooManyRequests},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestIsOperational(t *testing.T) {
	assert.True(t, IsOperational(Validation("x")))
	assert.False(t, IsOperational(Internal("x", nil)))
	assert.False(t, IsOperational(errors.New("x")))
}

func TestFromValidatorEnumeratesFields(t *testing.T) {
	type row struct {
		Name  string `validate:"required"`
		Stock int    `validate:"min=0"`
	}
	err := validator.New().Struct(row{Stock: -1})
	require.Error(t, err)

	converted := FromValidator("Item is invalid", 3, err)

	var appErr *Error
	require.True(t, errors.As(converted, &appErr))
	assert.Equal(t, KindValidation, appErr.Kind)
	require.Len(t, appErr.Fields, 2)
	assert.Equal(t, "Name", appErr.Fields[0].Field)
	assert.Equal(t, 3, appErr.Fields[0].Row)
	assert.Equal(t, "Stock cannot be below 0", appErr.Fields[1].Message)
}

func TestFromValidatorPassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("not a validation error")
	assert.Same(t, plain, FromValidator("x", 0, plain))
}
