// Package user provides domain logic for user accounts.
package user

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

// Domain-specific errors for user package.
var (
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrInvalidStatus = errors.New("status must be one of: Active, Inactive, Take Out")
	ErrInactive      = fmt.Errorf("user account is not active: %w", shared.ErrUnauthorized)
	ErrDeleteSelf    = errors.New("users cannot delete their own account")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Status is the three-state account status.
type Status string

// Account statuses.
const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusTakeOut  Status = "Take Out"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusTakeOut:
		return true
	}
	return false
}

// User is the aggregate root for the user domain.
type User struct {
	id           int64
	email        string
	name         string
	passwordHash string
	roleID       *int64
	active       Status
	audit        shared.AuditInfo
}

// NewUser creates a new active User entity with validation.
func NewUser(email, name, passwordHash string, roleID *int64, createdBy *int64) (*User, error) {
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	n := strings.TrimSpace(name)
	if n == "" {
		return nil, shared.ErrEmptyName
	}
	if passwordHash == "" {
		return nil, ErrEmptyPassword
	}

	return &User{
		email:        email,
		name:         n,
		passwordHash: passwordHash,
		roleID:       roleID,
		active:       StatusActive,
		audit:        shared.NewAuditInfo(createdBy),
	}, nil
}

// ReconstructUser reconstructs a User entity from persistence data.
func ReconstructUser(id int64, email, name, passwordHash string, roleID *int64, active Status, audit shared.AuditInfo) *User {
	return &User{
		id:           id,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		roleID:       roleID,
		active:       active,
		audit:        audit,
	}
}

// ID returns the user identifier.
func (u *User) ID() int64 { return u.id }

// Email returns the email address.
func (u *User) Email() string { return u.email }

// Name returns the display name.
func (u *User) Name() string { return u.name }

// PasswordHash returns the password hash.
func (u *User) PasswordHash() string { return u.passwordHash }

// RoleID returns the assigned role, nil when the user has none.
func (u *User) RoleID() *int64 { return u.roleID }

// Active returns the account status.
func (u *User) Active() Status { return u.active }

// IsActive reports whether the user may log in.
func (u *User) IsActive() bool { return u.active == StatusActive }

// Audit returns the audit information.
func (u *User) Audit() shared.AuditInfo { return u.audit }

// Update changes profile fields. Nil arguments are left unchanged,
// except roleID which is always replaced.
func (u *User) Update(email, name *string, roleID *int64, status *Status, updatedBy *int64) error {
	if email != nil {
		if !emailRegex.MatchString(*email) {
			return ErrInvalidEmail
		}
		u.email = *email
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return shared.ErrEmptyName
		}
		u.name = n
	}
	if status != nil {
		if !status.IsValid() {
			return ErrInvalidStatus
		}
		u.active = *status
	}
	u.roleID = roleID
	u.audit.Update(updatedBy)
	return nil
}

// ChangePassword replaces the stored hash.
func (u *User) ChangePassword(hash string, updatedBy *int64) error {
	if hash == "" {
		return ErrEmptyPassword
	}
	u.passwordHash = hash
	u.audit.Update(updatedBy)
	return nil
}
