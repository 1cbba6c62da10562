// Package httpdelivery provides the HTTP server and REST handlers.
package httpdelivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/bmuptt/be-app-management/internal/domain/rolemenu"
	"github.com/bmuptt/be-app-management/internal/infrastructure/config"
)

// Keys of the management menus that guard the CRUD endpoints.
const (
	KeyMenuMenu = "menu"
	KeyMenuRole = "role"
	KeyMenuUser = "user"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handlers groups the REST handlers mounted by the server.
type Handlers struct {
	Auth     *AuthHandler
	Menu     *MenuHandler
	RoleMenu *RoleMenuHandler
	Role     *RoleHandler
	User     *UserHandler
}

// Server represents the HTTP server.
type Server struct {
	server         *http.Server
	config         *config.ServerConfig
	authn          Authenticator
	handlers       Handlers
	allowedOrigins []string
	corsMaxAge     int
	apiLimiter     *RateLimiter
	loginLimiter   *RateLimiter
	checks         map[string]HealthChecker
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.ServerConfig, authn Authenticator, handlers Handlers, opts ...Option) *Server {
	s := &Server{
		config:         cfg,
		authn:          authn,
		handlers:       handlers,
		allowedOrigins: []string{"http://localhost:3001"},
		corsMaxAge:     300,
		checks:         make(map[string]HealthChecker),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures the HTTP server.
type Option func(*Server)

// WithCORS sets CORS allowed origins and max age.
func WithCORS(origins []string, maxAge int) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
		if maxAge > 0 {
			s.corsMaxAge = maxAge
		}
	}
}

// WithRateLimit enables per-IP rate limiting for the API and a stricter
// limiter for login.
func WithRateLimit(cfg *config.RateLimitConfig) Option {
	return func(s *Server) {
		if cfg.RequestsPerSecond > 0 {
			s.apiLimiter = NewRateLimiter("api", float64(cfg.RequestsPerSecond), cfg.BurstSize)
		}
		if cfg.LoginRequestsPerMinute > 0 {
			s.loginLimiter = NewRateLimiter("login", float64(cfg.LoginRequestsPerMinute)/60, cfg.LoginBurstSize)
		}
	}
}

// WithReadinessCheck adds a dependency probed by /readyz.
func WithReadinessCheck(name string, checker HealthChecker) Option {
	return func(s *Server) {
		if checker != nil {
			s.checks[name] = checker
		}
	}
}

// Handler builds the full middleware chain around the router.
func (s *Server) Handler() http.Handler {
	router := s.routes()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           s.corsMaxAge,
	}).Handler(router)

	traced := otelhttp.NewHandler(corsHandler, "http.server",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	return recoveryMiddleware(requestIDMiddleware(accessLogMiddleware(traced)))
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(metricsMiddleware)

	// Health check endpoints
	router.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	router.HandleFunc("/readyz", s.readyHandler).Methods(http.MethodGet)
	router.HandleFunc("/livez", s.liveHandler).Methods(http.MethodGet)

	// Metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	if s.apiLimiter != nil {
		api.Use(s.apiLimiter.Middleware)
	}

	// Public
	var login http.Handler = http.HandlerFunc(s.handlers.Auth.Login)
	if s.loginLimiter != nil {
		login = s.loginLimiter.Middleware(login)
	}
	api.Handle("/auth/login", login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", s.handlers.Auth.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/menu/structure", s.handlers.Menu.Structure).Methods(http.MethodGet)

	// Authenticated
	private := api.NewRoute().Subrouter()
	private.Use(authMiddleware(s.authn))
	private.HandleFunc("/auth/logout", s.handlers.Auth.Logout).Methods(http.MethodPost)
	private.HandleFunc("/auth/profile", s.handlers.Auth.Profile).Methods(http.MethodGet)
	private.HandleFunc("/auth/menu", s.handlers.Auth.Menu).Methods(http.MethodGet)
	private.HandleFunc("/auth/permission", s.handlers.Auth.Permission).Methods(http.MethodGet)

	mgmt := private.PathPrefix("/app-management").Subrouter()
	guard := func(method, path, key string, action rolemenu.Action, h http.HandlerFunc) {
		mgmt.Handle(path, requirePermission(s.authn, key, action, h)).Methods(method)
	}

	// Menus
	mh := s.handlers.Menu
	guard(http.MethodGet, "/menu/detail/{id}", KeyMenuMenu, rolemenu.ActionAccess, mh.Detail)
	guard(http.MethodGet, "/menu/header/{exclude}", KeyMenuMenu, rolemenu.ActionAccess, mh.ListHeaders)
	guard(http.MethodGet, "/menu/{parent}", KeyMenuMenu, rolemenu.ActionAccess, mh.ListChildren)
	guard(http.MethodPost, "/menu", KeyMenuMenu, rolemenu.ActionCreate, mh.Create)
	guard(http.MethodPatch, "/menu/{id}", KeyMenuMenu, rolemenu.ActionUpdate, mh.Update)
	guard(http.MethodPost, "/menu/sort/{parent}", KeyMenuMenu, rolemenu.ActionUpdate, mh.Sort)
	guard(http.MethodPost, "/menu/change-parent/{id}", KeyMenuMenu, rolemenu.ActionUpdate, mh.ChangeParent)
	guard(http.MethodPost, "/menu/active/{id}", KeyMenuMenu, rolemenu.ActionUpdate, mh.Activate)
	guard(http.MethodDelete, "/menu/{id}/hard", KeyMenuMenu, rolemenu.ActionDelete, mh.HardDelete)
	guard(http.MethodDelete, "/menu/{id}", KeyMenuMenu, rolemenu.ActionDelete, mh.SoftDelete)

	// Role permissions
	rmh := s.handlers.RoleMenu
	guard(http.MethodGet, "/role-menu/{role}", KeyMenuRole, rolemenu.ActionAccess, rmh.Tree)
	guard(http.MethodPost, "/role-menu/{role}", KeyMenuRole, rolemenu.ActionUpdate, rmh.Configure)
	guard(http.MethodPut, "/role-menu/{role}/{menu}", KeyMenuRole, rolemenu.ActionUpdate, rmh.Set)

	// Roles
	rh := s.handlers.Role
	guard(http.MethodGet, "/role", KeyMenuRole, rolemenu.ActionAccess, rh.List)
	guard(http.MethodPost, "/role", KeyMenuRole, rolemenu.ActionCreate, rh.Create)
	guard(http.MethodGet, "/role/{id}", KeyMenuRole, rolemenu.ActionAccess, rh.Get)
	guard(http.MethodPatch, "/role/{id}", KeyMenuRole, rolemenu.ActionUpdate, rh.Update)
	guard(http.MethodDelete, "/role/{id}", KeyMenuRole, rolemenu.ActionDelete, rh.Delete)

	// Users
	uh := s.handlers.User
	guard(http.MethodGet, "/user", KeyMenuUser, rolemenu.ActionAccess, uh.List)
	guard(http.MethodPost, "/user", KeyMenuUser, rolemenu.ActionCreate, uh.Create)
	guard(http.MethodGet, "/user/{id}", KeyMenuUser, rolemenu.ActionAccess, uh.Get)
	guard(http.MethodPatch, "/user/{id}", KeyMenuUser, rolemenu.ActionUpdate, uh.Update)
	guard(http.MethodDelete, "/user/{id}", KeyMenuUser, rolemenu.ActionDelete, uh.Delete)

	return router
}

// Start starts the HTTP server. It returns nil after a graceful Stop.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.HTTPPort),
		Handler:           s.Handler(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	log.Info().
		Int("port", s.config.HTTPPort).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Health handlers.
func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func (s *Server) liveHandler(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, map[string]any{"status": "live"})
}

func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names))
	ready := true
	for _, name := range names {
		if err := s.checks[name].Health(ctx); err != nil {
			log.Warn().Err(err).Str("dependency", name).Msg("Readiness check failed")
			results[name] = err.Error()
			ready = false
			continue
		}
		results[name] = "ok"
	}

	if !ready {
		writeStatus(w, http.StatusServiceUnavailable, map[string]any{"status": "not ready", "checks": results})
		return
	}
	writeStatus(w, http.StatusOK, map[string]any{"status": "ready", "checks": results})
}

func writeStatus(w http.ResponseWriter, code int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("Failed to write health response")
	}
}
