package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bmuptt/be-app-management/internal/domain/auth"
)

// TokenIssuer is a mock implementation of auth.TokenIssuer.
type TokenIssuer struct {
	mock.Mock
}

func (m *TokenIssuer) GenerateTokenPair(userID int64, email string) (*auth.TokenPair, error) {
	args := m.Called(userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenPair), args.Error(1)
}

func (m *TokenIssuer) ValidateAccessToken(token string) (*auth.Principal, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Principal), args.Error(1)
}

func (m *TokenIssuer) ValidateRefreshToken(token string) (*auth.Principal, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Principal), args.Error(1)
}

// PasswordHasher is a mock implementation of auth.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Verify(password, hash string) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}

func (m *PasswordHasher) Validate(password string) error {
	args := m.Called(password)
	return args.Error(0)
}

// TokenBlacklist is a mock implementation of auth.TokenBlacklist.
type TokenBlacklist struct {
	mock.Mock
}

func (m *TokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// LoginAttemptTracker is a mock implementation of auth.LoginAttemptTracker.
type LoginAttemptTracker struct {
	mock.Mock
}

func (m *LoginAttemptTracker) Increment(ctx context.Context, identifier string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, identifier, ttl)
	return args.Get(0).(int64), args.Error(1)
}

func (m *LoginAttemptTracker) Count(ctx context.Context, identifier string) (int64, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(int64), args.Error(1)
}

func (m *LoginAttemptTracker) Reset(ctx context.Context, identifier string) error {
	args := m.Called(ctx, identifier)
	return args.Error(0)
}
