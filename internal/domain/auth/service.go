// Package auth provides authentication domain contracts.
package auth

import (
	"context"
	"time"
)

// Principal is the identity carried by a validated token.
type Principal struct {
	UserID    int64
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// TokenPair is an issued access and refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// TokenIssuer issues and validates signed tokens.
type TokenIssuer interface {
	GenerateTokenPair(userID int64, email string) (*TokenPair, error)
	ValidateAccessToken(token string) (*Principal, error)
	ValidateRefreshToken(token string) (*Principal, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	Validate(password string) error
}

// TokenBlacklist tracks revoked token ids until they expire.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// LoginAttemptTracker counts failed logins per identifier.
type LoginAttemptTracker interface {
	Increment(ctx context.Context, identifier string, ttl time.Duration) (int64, error)
	Count(ctx context.Context, identifier string) (int64, error)
	Reset(ctx context.Context, identifier string) error
}

// LoginInput contains the login request parameters.
type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
}
