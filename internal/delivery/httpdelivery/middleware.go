package httpdelivery

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	domainAuth "github.com/bmuptt/be-app-management/internal/domain/auth"
	"github.com/bmuptt/be-app-management/internal/domain/rolemenu"
	"github.com/bmuptt/be-app-management/pkg/response"
)

// ContextKey is the type for request context keys.
type ContextKey string

// Context keys set by the middleware chain.
const (
	RequestIDKey ContextKey = "request_id"
	PrincipalKey ContextKey = "principal"
)

const requestIDHeader = "X-Request-ID"

// Authenticator validates access tokens and resolves menu permissions.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domainAuth.Principal, error)
	PermissionForKey(ctx context.Context, userID int64, keyMenu string) (rolemenu.Matrix, error)
}

// responseWriter captures the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// recoveryMiddleware turns a handler panic into a 500.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("stack", string(debug.Stack())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("PANIC recovered")
				response.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware propagates or generates X-Request-ID.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), RequestIDKey, id)))
	})
}

// RequestIDFrom returns the request id stored in ctx.
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		return v
	}
	return ""
}

// accessLogMiddleware logs one line per request.
func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := wrapResponseWriter(w)
		next.ServeHTTP(rec, r)

		event := log.Info()
		switch {
		case rec.status >= http.StatusInternalServerError:
			event = log.Error()
		case rec.status >= http.StatusBadRequest:
			event = log.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Str("ip", clientIP(r)).
			Str("request_id", RequestIDFrom(r.Context())).
			Msg("HTTP request")
	})
}

// authMiddleware validates the Bearer token and stores the principal in the context.
func authMiddleware(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}

			p, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				log.Debug().Str("path", r.URL.Path).Err(err).Msg("Authentication failed")
				writeError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), PrincipalKey, p)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// PrincipalFrom returns the authenticated principal, if any.
func PrincipalFrom(ctx context.Context) (*domainAuth.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*domainAuth.Principal)
	return p, ok && p != nil
}

// actorID returns the authenticated user id, or 0 when unauthenticated.
func actorID(r *http.Request) int64 {
	if p, ok := PrincipalFrom(r.Context()); ok {
		return p.UserID
	}
	return 0
}

// requirePermission wraps h so the caller's role must hold action on keyMenu.
func requirePermission(authn Authenticator, keyMenu string, action rolemenu.Action, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			response.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}

		matrix, err := authn.PermissionForKey(r.Context(), p.UserID, keyMenu)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !matrix.Allows(action) {
			log.Warn().
				Int64("user_id", p.UserID).
				Str("key_menu", keyMenu).
				Str("action", string(action)).
				Msg("Permission denied")
			response.Error(w, http.StatusForbidden, "permission denied")
			return
		}
		h(w, r)
	})
}
