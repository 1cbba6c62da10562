package httpdelivery

import (
	"context"
	"net/http"
	"strings"

	appauth "github.com/bmuptt/be-app-management/internal/application/auth"
	domainAuth "github.com/bmuptt/be-app-management/internal/domain/auth"
	"github.com/bmuptt/be-app-management/internal/domain/menu"
	"github.com/bmuptt/be-app-management/internal/domain/rolemenu"
	"github.com/bmuptt/be-app-management/pkg/response"
)

// AuthService is the application service behind the auth endpoints.
type AuthService interface {
	Authenticator
	Login(ctx context.Context, input domainAuth.LoginInput) (*appauth.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domainAuth.TokenPair, error)
	Logout(ctx context.Context, p *domainAuth.Principal) error
	Profile(ctx context.Context, userID int64) (*appauth.Profile, error)
	Menu(ctx context.Context, userID int64) ([]*menu.Node[*rolemenu.Entry], error)
}

// AuthHandler serves login, token and profile endpoints.
type AuthHandler struct {
	service   AuthService
	validator *Validator
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service AuthService, validator *Validator) *AuthHandler {
	return &AuthHandler{service: service, validator: validator}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.validator.Decode(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), domainAuth.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: clientIP(r),
	})
	RecordAuthOperation("login", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, "Login successful", loginView{
		tokenView: toTokenView(result.Tokens),
		User:      toUserView(result.User),
	})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !h.validator.Decode(w, r, &req) {
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	RecordAuthOperation("refresh", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Token refreshed", toTokenView(pair))
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	err := h.service.Logout(r.Context(), p)
	RecordAuthOperation("logout", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Logout successful", nil)
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Profile(r.Context(), actorID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	view := profileView{
		User: toUserView(profile.User),
		Menu: toPermissionNodeViews(profile.Menu),
	}
	if profile.Role != nil {
		rv := toRoleView(profile.Role)
		view.Role = &rv
	}
	response.OK(w, "Success", view)
}

// Menu handles GET /api/auth/menu.
func (h *AuthHandler) Menu(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.Menu(r.Context(), actorID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Success", toPermissionNodeViews(tree))
}

// Permission handles GET /api/auth/permission?key_menu=...
func (h *AuthHandler) Permission(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key_menu"))
	if key == "" {
		response.Error(w, http.StatusBadRequest, "Validation failed",
			response.FieldError{Field: "key_menu", Message: "key_menu is required"})
		return
	}

	matrix, err := h.service.PermissionForKey(r.Context(), actorID(r), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Success", matrix)
}
