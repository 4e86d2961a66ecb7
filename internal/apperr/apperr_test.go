package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nondefyde/coderealm-api/internal/apperr"
)

/*
TestError_IsByCode verifies errors.Is matches on the stable code, so copies
created via WithCause still compare equal to their sentinel.
*/
func TestError_IsByCode(t *testing.T) {
	sentinel := apperr.NotFound("user not found")
	wrapped := sentinel.WithCause(errors.New("no rows"))

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, errors.Is(wrapped, apperr.Forbidden("nope")))
}

/*
TestError_WithCause checks the cause is carried in the chain and in the
message.
*/
func TestError_WithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperr.Internal(cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
}

/*
TestError_StatusMapping checks each constructor's HTTP status.
*/
func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperr.Validation("bad input", nil), http.StatusBadRequest},
		{apperr.Unauthorized("no"), http.StatusUnauthorized},
		{apperr.Forbidden("no"), http.StatusForbidden},
		{apperr.NotFound("gone"), http.StatusNotFound},
		{apperr.Conflict("dupe", nil), http.StatusConflict},
		{apperr.Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			ae := apperr.As(tt.err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.status, ae.Status)
			assert.True(t, apperr.IsStatus(tt.err, tt.status))
		})
	}
}

/*
TestAs returns nil for non-domain errors.
*/
func TestAs(t *testing.T) {
	assert.Nil(t, apperr.As(errors.New("plain")))
	assert.Nil(t, apperr.As(nil))

	wrapped := fmt.Errorf("outer: %w", apperr.Conflict("dupe", nil))
	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.ErrConflict, ae.Code)
}

/*
TestError_Messages carries the per-field map through WithMessages.
*/
func TestError_Messages(t *testing.T) {
	fields := apperr.FieldMessages{"email": {"The email field is required."}}
	err := apperr.Validation("The email field is required.", fields)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, fields, ae.Messages)
}
