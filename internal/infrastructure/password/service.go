// Package password provides password hashing and validation utilities.
package password

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/bmuptt/be-app-management/internal/infrastructure/config"
)

// Policy defines password strength requirements.
type Policy struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
	RequireSpecial   bool
}

// DefaultPolicy returns the default password policy.
func DefaultPolicy() Policy {
	return Policy{
		MinLength:        8,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumber:    true,
	}
}

var (
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	numberRegex    = regexp.MustCompile(`[0-9]`)
	specialRegex   = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// Validation errors.
var (
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 bytes")
	ErrNoUppercase      = errors.New("password must contain at least one uppercase letter")
	ErrNoLowercase      = errors.New("password must contain at least one lowercase letter")
	ErrNoNumber         = errors.New("password must contain at least one number")
	ErrNoSpecial        = errors.New("password must contain at least one special character")
)

// bcrypt ignores input beyond this length.
const maxLength = 72

// Validate checks if a password meets the policy requirements.
func Validate(password string, policy Policy) error {
	if len(password) < policy.MinLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxLength {
		return ErrPasswordTooLong
	}
	if policy.RequireUppercase && !uppercaseRegex.MatchString(password) {
		return ErrNoUppercase
	}
	if policy.RequireLowercase && !lowercaseRegex.MatchString(password) {
		return ErrNoLowercase
	}
	if policy.RequireNumber && !numberRegex.MatchString(password) {
		return ErrNoNumber
	}
	if policy.RequireSpecial && !specialRegex.MatchString(password) {
		return ErrNoSpecial
	}
	return nil
}

// Hash creates a bcrypt hash of the password.
func Hash(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify checks if a password matches the hash. Malformed hashes never match.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Hasher implements auth.PasswordHasher with a fixed policy and cost.
type Hasher struct {
	policy Policy
	cost   int
}

// NewHasher creates a Hasher from security configuration.
func NewHasher(cfg *config.SecurityConfig) *Hasher {
	return &Hasher{
		policy: Policy{
			MinLength:        cfg.PasswordMinLength,
			RequireUppercase: cfg.PasswordRequireUppercase,
			RequireLowercase: cfg.PasswordRequireLowercase,
			RequireNumber:    cfg.PasswordRequireNumber,
		},
		cost: cfg.BcryptCost,
	}
}

// Hash hashes a password.
func (h *Hasher) Hash(password string) (string, error) { return Hash(password, h.cost) }

// Verify checks a password against a hash.
func (h *Hasher) Verify(password, hash string) bool { return Verify(password, hash) }

// Validate applies the configured policy.
func (h *Hasher) Validate(password string) error { return Validate(password, h.policy) }
