// Package redis provides Redis cache implementations.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/bmuptt/be-app-management/internal/infrastructure/config"
)

const (
	blacklistPrefix    = "app:blacklist:"
	loginAttemptPrefix = "app:login_attempt:"
)

// Client wraps the Redis client.
type Client struct {
	*redis.Client
}

// NewClient creates a new Redis client.
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().
		Str("address", cfg.Address()).
		Int("db", cfg.DB).
		Msg("Redis connection established")

	return &Client{client}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	if err := c.Client.Close(); err != nil {
		return fmt.Errorf("failed to close redis: %w", err)
	}
	log.Info().Msg("Redis connection closed")
	return nil
}

// Health checks if Redis is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// TokenBlacklist implements auth.TokenBlacklist.
type TokenBlacklist struct {
	client *Client
}

// NewTokenBlacklist creates a new TokenBlacklist.
func NewTokenBlacklist(client *Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke blacklists a token id until ttl elapses.
func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return b.client.Set(ctx, blacklistPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked checks if a token id is blacklisted.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := b.client.Exists(ctx, blacklistPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// LoginAttemptCache implements auth.LoginAttemptTracker.
type LoginAttemptCache struct {
	client *Client
}

// NewLoginAttemptCache creates a new LoginAttemptCache.
func NewLoginAttemptCache(client *Client) *LoginAttemptCache {
	return &LoginAttemptCache{client: client}
}

// Increment increments the failed login counter and refreshes its window.
func (c *LoginAttemptCache) Increment(ctx context.Context, identifier string, ttl time.Duration) (int64, error) {
	key := loginAttemptPrefix + identifier
	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Count gets the current failed login count.
func (c *LoginAttemptCache) Count(ctx context.Context, identifier string) (int64, error) {
	val, err := c.client.Get(ctx, loginAttemptPrefix+identifier).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return val, nil
}

// Reset clears the failed login counter.
func (c *LoginAttemptCache) Reset(ctx context.Context, identifier string) error {
	return c.client.Del(ctx, loginAttemptPrefix+identifier).Err()
}
