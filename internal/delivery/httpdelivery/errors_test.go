package httpdelivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmuptt/be-app-management/internal/domain/menu"
	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
	"github.com/bmuptt/be-app-management/internal/domain/user"
	"github.com/bmuptt/be-app-management/pkg/response"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{shared.NewValidationError("name", "name is required"), http.StatusBadRequest},
		{fmt.Errorf("failed to get menu: %w", shared.ErrNotFound), http.StatusNotFound},
		{shared.ErrAlreadyExists, http.StatusBadRequest},
		{menu.ErrHasChildren, http.StatusBadRequest},
		{shared.ErrAccountLocked, http.StatusTooManyRequests},
		{shared.ErrInvalidCredentials, http.StatusUnauthorized},
		{shared.ErrTokenRevoked, http.StatusUnauthorized},
		{shared.ErrPermissionDenied, http.StatusForbidden},
		{role.ErrSystemRoleDelete, http.StatusBadRequest},
		{user.ErrDeleteSelf, http.StatusBadRequest},
		{menu.ErrKeyTooLong, http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Run("internal errors are hidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "pq:")
	})

	t.Run("validation error carries its field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(rec, httptest.NewRequest(http.MethodPost, "/", nil), shared.NewValidationError("key_menu", "key_menu is required"))

		var body response.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Validation failed", body.Message)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "key_menu", body.Errors[0].Field)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
