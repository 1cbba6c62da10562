package httpdelivery_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appauth "github.com/bmuptt/be-app-management/internal/application/auth"
	appmenu "github.com/bmuptt/be-app-management/internal/application/menu"
	apprm "github.com/bmuptt/be-app-management/internal/application/rolemenu"
	"github.com/bmuptt/be-app-management/internal/delivery/httpdelivery"
	domainAuth "github.com/bmuptt/be-app-management/internal/domain/auth"
	"github.com/bmuptt/be-app-management/internal/domain/menu"
	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/domain/rolemenu"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
	"github.com/bmuptt/be-app-management/internal/domain/user"
	"github.com/bmuptt/be-app-management/internal/infrastructure/config"
	"github.com/bmuptt/be-app-management/internal/mocks"
)

const (
	testToken      = "access-token"
	adminEmail     = "admin@example.com"
	adminID        = int64(1)
	adminRoleID    = int64(1)
	guardMenuID    = int64(90)
	defaultHeaders = "application/json"
)

type testEnv struct {
	users     *mocks.UserRepository
	roles     *mocks.RoleRepository
	menus     *mocks.MenuRepository
	roleMenus *mocks.RoleMenuRepository
	tokens    *mocks.TokenIssuer
	hasher    *mocks.PasswordHasher
	handler   http.Handler
}

func newTestEnv(t *testing.T, opts ...httpdelivery.Option) *testEnv {
	t.Helper()
	e := &testEnv{
		users:     new(mocks.UserRepository),
		roles:     new(mocks.RoleRepository),
		menus:     new(mocks.MenuRepository),
		roleMenus: new(mocks.RoleMenuRepository),
		tokens:    new(mocks.TokenIssuer),
		hasher:    new(mocks.PasswordHasher),
	}

	authSvc := appauth.NewService(e.users, e.roles, e.menus, e.roleMenus, e.tokens, e.hasher, nil, nil,
		&config.SecurityConfig{MaxLoginAttempts: 5, LockoutDuration: time.Minute})
	v := httpdelivery.NewValidator()
	handlers := httpdelivery.Handlers{
		Auth:     httpdelivery.NewAuthHandler(authSvc, v),
		Menu:     httpdelivery.NewMenuHandler(appmenu.NewService(e.menus), v),
		RoleMenu: httpdelivery.NewRoleMenuHandler(apprm.NewService(e.roles, e.menus, e.roleMenus), v),
		Role:     httpdelivery.NewRoleHandler(e.roles, adminEmail, v),
		User:     httpdelivery.NewUserHandler(e.users, e.roles, e.hasher, v),
	}
	e.handler = httpdelivery.NewServer(&config.ServerConfig{HTTPPort: 3000}, authSvc, handlers, opts...).Handler()
	return e
}

func adminUser() *user.User {
	rid := adminRoleID
	return user.ReconstructUser(adminID, adminEmail, "Admin", "hash", &rid, user.StatusActive, shared.AuditInfo{})
}

func testMenu(id int64, key string, parentID *int64, order int) *menu.Menu {
	return menu.ReconstructMenu(id, key, strings.ToUpper(key), order, nil, parentID, menu.StatusActive, shared.AuditInfo{})
}

// authorize accepts testToken and grants matrix on the guard menu key.
func (e *testEnv) authorize(key string, matrix rolemenu.Matrix) {
	e.tokens.On("ValidateAccessToken", testToken).Return(&domainAuth.Principal{
		UserID: adminID, Email: adminEmail, TokenID: "jti", ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	e.users.On("GetByID", mock.Anything, adminID).Return(adminUser(), nil)
	e.menus.On("GetByKey", mock.Anything, key).Return(testMenu(guardMenuID, key, nil, 1), nil)
	e.roleMenus.On("Get", mock.Anything, adminRoleID, guardMenuID).
		Return(rolemenu.ReconstructPermission(adminRoleID, guardMenuID, matrix, shared.AuditInfo{}), nil)
}

func (e *testEnv) do(method, path, body string, withToken bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", defaultHeaders)
	}
	if withToken {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Total   *int64          `json:"total"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

type failingCheck struct{ err error }

func (f failingCheck) Health(context.Context) error { return f.err }

// =============================================================================
// Health and middleware
// =============================================================================

func TestHealthEndpoints(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		e := newTestEnv(t)
		rec := e.do(http.MethodGet, "/healthz", "", false)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})

	t.Run("readyz reports failing dependency", func(t *testing.T) {
		e := newTestEnv(t,
			httpdelivery.WithReadinessCheck("postgres", failingCheck{}),
			httpdelivery.WithReadinessCheck("redis", failingCheck{err: errors.New("connection refused")}),
		)
		rec := e.do(http.MethodGet, "/readyz", "", false)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t,
			`{"status":"not ready","checks":{"postgres":"ok","redis":"connection refused"}}`,
			rec.Body.String())
	})
}

func TestRequestID(t *testing.T) {
	e := newTestEnv(t)

	t.Run("generated when missing", func(t *testing.T) {
		rec := e.do(http.MethodGet, "/healthz", "", false)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("propagated when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rec := httptest.NewRecorder()
		e.handler.ServeHTTP(rec, req)
		assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	})
}

func TestAuthentication(t *testing.T) {
	t.Run("error - missing token", func(t *testing.T) {
		e := newTestEnv(t)
		rec := e.do(http.MethodGet, "/api/auth/profile", "", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "authentication required", decode(t, rec).Message)
	})

	t.Run("error - invalid token", func(t *testing.T) {
		e := newTestEnv(t)
		e.tokens.On("ValidateAccessToken", testToken).Return(nil, shared.ErrInvalidToken)

		rec := e.do(http.MethodGet, "/api/app-management/menu/0", "", true)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		e.menus.AssertNotCalled(t, "ListChildren", mock.Anything, mock.Anything)
	})

	t.Run("error - expired token", func(t *testing.T) {
		e := newTestEnv(t)
		e.tokens.On("ValidateAccessToken", testToken).Return(nil, shared.ErrTokenExpired)

		rec := e.do(http.MethodGet, "/api/auth/menu", "", true)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPermissionGuard(t *testing.T) {
	t.Run("error - role lacks create flag", func(t *testing.T) {
		e := newTestEnv(t)
		e.authorize(httpdelivery.KeyMenuMenu, rolemenu.Matrix{Access: true})

		rec := e.do(http.MethodPost, "/api/app-management/menu", `{"key_menu":"x","name":"X"}`, true)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		e.menus.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("error - no permission row", func(t *testing.T) {
		e := newTestEnv(t)
		e.tokens.On("ValidateAccessToken", testToken).Return(&domainAuth.Principal{UserID: adminID}, nil)
		e.users.On("GetByID", mock.Anything, adminID).Return(adminUser(), nil)
		e.menus.On("GetByKey", mock.Anything, httpdelivery.KeyMenuUser).Return(testMenu(guardMenuID, "user", nil, 1), nil)
		e.roleMenus.On("Get", mock.Anything, adminRoleID, guardMenuID).Return(nil, shared.ErrNotFound)

		rec := e.do(http.MethodGet, "/api/app-management/user", "", true)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestLoginRateLimit(t *testing.T) {
	e := newTestEnv(t, httpdelivery.WithRateLimit(&config.RateLimitConfig{
		RequestsPerSecond:      100,
		BurstSize:              100,
		LoginRequestsPerMinute: 1,
		LoginBurstSize:         1,
	}))

	first := e.do(http.MethodPost, "/api/auth/login", `{}`, false)
	second := e.do(http.MethodPost, "/api/auth/login", `{}`, false)

	assert.Equal(t, http.StatusBadRequest, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

// =============================================================================
// Auth endpoints
// =============================================================================

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		e := newTestEnv(t)
		u := adminUser()
		e.users.On("GetByEmail", mock.Anything, adminEmail).Return(u, nil)
		e.hasher.On("Verify", "Secret123", "hash").Return(true)
		e.tokens.On("GenerateTokenPair", adminID, adminEmail).Return(&domainAuth.TokenPair{
			AccessToken: "a", RefreshToken: "r",
		}, nil)

		rec := e.do(http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"Secret123"}`, false)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var data struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
			User        struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
		assert.Equal(t, "a", data.AccessToken)
		assert.Equal(t, "Bearer", data.TokenType)
		assert.Equal(t, adminEmail, data.User.Email)
		assert.Empty(t, data.User.Password)
	})

	t.Run("error - wrong password", func(t *testing.T) {
		e := newTestEnv(t)
		e.users.On("GetByEmail", mock.Anything, adminEmail).Return(adminUser(), nil)
		e.hasher.On("Verify", "nope", "hash").Return(false)

		rec := e.do(http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"nope"}`, false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("error - validation", func(t *testing.T) {
		e := newTestEnv(t)

		rec := e.do(http.MethodPost, "/api/auth/login", `{"email":"not-an-email"}`, false)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		fields := map[string]string{}
		for _, fe := range decode(t, rec).Errors {
			fields[fe.Field] = fe.Message
		}
		assert.Contains(t, fields, "email")
		assert.Equal(t, "password is required", fields["password"])
	})
}

func TestPermissionEndpoint(t *testing.T) {
	e := newTestEnv(t)
	e.authorize("menu", rolemenu.Matrix{Access: true, Update: true})

	rec := e.do(http.MethodGet, "/api/auth/permission?key_menu=MENU", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var m rolemenu.Matrix
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &m))
	assert.Equal(t, rolemenu.Matrix{Access: true, Update: true}, m)
}

func TestAuthMenu(t *testing.T) {
	e := newTestEnv(t)
	e.authorize("menu", rolemenu.Full())
	root := testMenu(1, "app-management", nil, 1)
	child := testMenu(2, "menu", ptr(1), 1)
	e.roleMenus.On("ListAccessibleByRole", mock.Anything, adminRoleID).Return([]*rolemenu.Entry{
		{Menu: root, Permissions: rolemenu.Matrix{Access: true}},
		{Menu: child, Permissions: rolemenu.Matrix{Access: true, Create: true}},
	}, nil)

	rec := e.do(http.MethodGet, "/api/auth/menu", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var tree []struct {
		KeyMenu     string          `json:"key_menu"`
		Permissions rolemenu.Matrix `json:"permissions"`
		Children    []struct {
			KeyMenu     string          `json:"key_menu"`
			Permissions rolemenu.Matrix `json:"permissions"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &tree))
	require.Len(t, tree, 1)
	assert.True(t, tree[0].Permissions.Access)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "menu", tree[0].Children[0].KeyMenu)
	assert.Equal(t, rolemenu.Matrix{Access: true, Create: true}, tree[0].Children[0].Permissions)
}

func TestAuthProfile(t *testing.T) {
	e := newTestEnv(t)
	e.authorize("menu", rolemenu.Full())
	e.roles.On("GetByID", mock.Anything, adminRoleID).Return(role.ReconstructRole(adminRoleID, "Super Admin", shared.AuditInfo{}), nil)
	e.roleMenus.On("ListAccessibleByRole", mock.Anything, adminRoleID).Return([]*rolemenu.Entry{
		{Menu: testMenu(1, "app-management", nil, 1), Permissions: rolemenu.Matrix{Access: true, Approval3: true}},
	}, nil)

	rec := e.do(http.MethodGet, "/api/auth/profile", "", true)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profile struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		Menu []map[string]json.RawMessage `json:"menu"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &profile))
	assert.Equal(t, adminEmail, profile.User.Email)
	require.Len(t, profile.Menu, 1)
	require.Contains(t, profile.Menu[0], "permissions")

	var flags rolemenu.Matrix
	require.NoError(t, json.Unmarshal(profile.Menu[0]["permissions"], &flags))
	assert.Equal(t, rolemenu.Matrix{Access: true, Approval3: true}, flags)
}

func ptr(v int64) *int64 { return &v }
