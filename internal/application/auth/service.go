// Package auth provides authentication and profile application services.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	domainAuth "github.com/bmuptt/be-app-management/internal/domain/auth"
	"github.com/bmuptt/be-app-management/internal/domain/menu"
	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/domain/rolemenu"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
	"github.com/bmuptt/be-app-management/internal/domain/user"
	"github.com/bmuptt/be-app-management/internal/infrastructure/config"
)

// Service provides login, token lifecycle and the logged-in user's menu and permissions.
// The blacklist and attempt tracker are optional; without Redis they are nil.
type Service struct {
	userRepo     user.Repository
	roleRepo     role.Repository
	menuRepo     menu.Repository
	roleMenuRepo rolemenu.Repository
	tokens       domainAuth.TokenIssuer
	hasher       domainAuth.PasswordHasher
	blacklist    domainAuth.TokenBlacklist
	attempts     domainAuth.LoginAttemptTracker
	securityCfg  *config.SecurityConfig
}

// NewService creates a new auth service.
func NewService(
	userRepo user.Repository,
	roleRepo role.Repository,
	menuRepo menu.Repository,
	roleMenuRepo rolemenu.Repository,
	tokens domainAuth.TokenIssuer,
	hasher domainAuth.PasswordHasher,
	blacklist domainAuth.TokenBlacklist,
	attempts domainAuth.LoginAttemptTracker,
	securityCfg *config.SecurityConfig,
) *Service {
	return &Service{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		menuRepo:     menuRepo,
		roleMenuRepo: roleMenuRepo,
		tokens:       tokens,
		hasher:       hasher,
		blacklist:    blacklist,
		attempts:     attempts,
		securityCfg:  securityCfg,
	}
}

// LoginResult contains the issued tokens and the authenticated user.
type LoginResult struct {
	Tokens *domainAuth.TokenPair
	User   *user.User
}

// Profile is the logged-in user with role and accessible menu tree.
type Profile struct {
	User *user.User
	Role *role.Role
	Menu []*menu.Node[*rolemenu.Entry]
}

// Login authenticates a user by email and password.
func (s *Service) Login(ctx context.Context, input domainAuth.LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(input.Email)
	if err := s.checkRateLimit(ctx, email); err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.recordFailedLogin(ctx, email)
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !s.hasher.Verify(input.Password, u.PasswordHash()) {
		s.recordFailedLogin(ctx, email)
		return nil, shared.ErrInvalidCredentials
	}
	if !u.IsActive() {
		log.Warn().Int64("user_id", u.ID()).Str("status", string(u.Active())).Msg("login rejected for non-active user")
		return nil, user.ErrInactive
	}

	pair, err := s.tokens.GenerateTokenPair(u.ID(), u.Email())
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if s.attempts != nil {
		if err := s.attempts.Reset(ctx, email); err != nil {
			log.Warn().Err(err).Msg("failed to reset login attempts")
		}
	}

	log.Info().Int64("user_id", u.ID()).Str("ip", input.IPAddress).Msg("User logged in")
	return &LoginResult{Tokens: pair, User: u}, nil
}

// Authenticate validates an access token and rejects revoked ones.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*domainAuth.Principal, error) {
	p, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	if err := s.checkTokenBlacklist(ctx, p.TokenID); err != nil {
		return nil, err
	}
	return p, nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token is revoked.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domainAuth.TokenPair, error) {
	p, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.checkTokenBlacklist(ctx, p.TokenID); err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !u.IsActive() {
		return nil, user.ErrInactive
	}

	pair, err := s.tokens.GenerateTokenPair(u.ID(), u.Email())
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.revoke(ctx, p)
	return pair, nil
}

// Logout revokes the presented access token until it expires.
func (s *Service) Logout(ctx context.Context, p *domainAuth.Principal) error {
	ttl := time.Until(p.ExpiresAt)
	if ttl <= 0 || s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, p.TokenID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	log.Info().Int64("user_id", p.UserID).Msg("User logged out")
	return nil
}

// Profile returns the user, their role and their menu tree.
func (s *Service) Profile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: u, Menu: []*menu.Node[*rolemenu.Entry]{}}
	if u.RoleID() == nil {
		return profile, nil
	}

	r, err := s.roleRepo.GetByID(ctx, *u.RoleID())
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to load role: %w", err)
	}
	profile.Role = r

	tree, err := s.menuForRole(ctx, *u.RoleID())
	if err != nil {
		return nil, err
	}
	profile.Menu = tree
	return profile, nil
}

// Menu returns the tree of active menus the user's role can access.
// Users without a role get an empty tree.
func (s *Service) Menu(ctx context.Context, userID int64) ([]*menu.Node[*rolemenu.Entry], error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.RoleID() == nil {
		return []*menu.Node[*rolemenu.Entry]{}, nil
	}
	return s.menuForRole(ctx, *u.RoleID())
}

// PermissionForKey resolves the user's flags on the menu with the given key.
// A missing user role, menu or permission row all yield the zero matrix.
func (s *Service) PermissionForKey(ctx context.Context, userID int64, keyMenu string) (rolemenu.Matrix, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFoundAsZero(err)
	}
	if u.RoleID() == nil {
		return rolemenu.Matrix{}, nil
	}

	m, err := s.menuRepo.GetByKey(ctx, menu.NormalizeKey(keyMenu))
	if err != nil {
		return notFoundAsZero(err)
	}

	row, err := s.roleMenuRepo.Get(ctx, *u.RoleID(), m.ID())
	if err != nil {
		return notFoundAsZero(err)
	}
	return row.Matrix(), nil
}

func (s *Service) menuForRole(ctx context.Context, roleID int64) ([]*menu.Node[*rolemenu.Entry], error) {
	entries, err := s.roleMenuRepo.ListAccessibleByRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accessible menus: %w", err)
	}
	return menu.BuildTree(entries), nil
}

func notFoundAsZero(err error) (rolemenu.Matrix, error) {
	if errors.Is(err, shared.ErrNotFound) {
		return rolemenu.Matrix{}, nil
	}
	return rolemenu.Matrix{}, err
}

func (s *Service) checkRateLimit(ctx context.Context, identifier string) error {
	if s.attempts == nil {
		return nil
	}
	count, err := s.attempts.Count(ctx, identifier)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read login attempts")
		return nil
	}
	if s.securityCfg.MaxLoginAttempts > 0 && count >= int64(s.securityCfg.MaxLoginAttempts) {
		return shared.ErrAccountLocked
	}
	return nil
}

func (s *Service) recordFailedLogin(ctx context.Context, identifier string) {
	if s.attempts == nil {
		return
	}
	if _, err := s.attempts.Increment(ctx, identifier, s.securityCfg.LockoutDuration); err != nil {
		log.Warn().Err(err).Msg("failed to increment login attempt counter")
	}
}

func (s *Service) checkTokenBlacklist(ctx context.Context, tokenID string) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsRevoked(ctx, tokenID)
	if err != nil {
		log.Warn().Err(err).Msg("failed to check token blacklist")
		return nil
	}
	if revoked {
		return shared.ErrTokenRevoked
	}
	return nil
}

func (s *Service) revoke(ctx context.Context, p *domainAuth.Principal) {
	ttl := time.Until(p.ExpiresAt)
	if ttl <= 0 || s.blacklist == nil {
		return
	}
	if err := s.blacklist.Revoke(ctx, p.TokenID, ttl); err != nil {
		log.Warn().Err(err).Msg("failed to blacklist token")
	}
}
