package httpdelivery

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bmuptt/be-app-management/internal/domain/menu"
	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
	"github.com/bmuptt/be-app-management/internal/domain/user"
	"github.com/bmuptt/be-app-management/pkg/response"
)

// statusFor maps a domain error to its HTTP status code.
func statusFor(err error) int {
	var vErr *shared.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrAlreadyExists),
		errors.Is(err, shared.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrAccountLocked):
		return http.StatusTooManyRequests
	case errors.Is(err, shared.ErrUnauthorized),
		errors.Is(err, shared.ErrInvalidCredentials),
		errors.Is(err, shared.ErrInvalidToken),
		errors.Is(err, shared.ErrTokenExpired),
		errors.Is(err, shared.ErrTokenRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrPermissionDenied):
		return http.StatusForbidden
	case isEntityRuleError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// isEntityRuleError reports errors raised by entity constructors and mutators.
func isEntityRuleError(err error) bool {
	for _, target := range []error{
		shared.ErrEmptyID, shared.ErrEmptyName, shared.ErrEmptyKey, shared.ErrNameTooLong,
		menu.ErrKeyTooLong, menu.ErrInvalidURL,
		role.ErrSystemRoleDelete, role.ErrSystemRoleModify, role.ErrReservedName,
		user.ErrInvalidEmail, user.ErrEmptyPassword, user.ErrInvalidStatus, user.ErrDeleteSelf,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeError writes the failure envelope for err. Internal errors are logged
// and their message is hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", RequestIDFrom(r.Context())).
			Msg("Request failed")
		response.Error(w, status, "internal server error")
		return
	}

	var vErr *shared.ValidationError
	if errors.As(err, &vErr) {
		response.Error(w, status, "Validation failed", response.FieldError{Field: vErr.Field, Message: vErr.Message})
		return
	}
	response.Error(w, status, err.Error())
}
