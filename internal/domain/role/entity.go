// Package role provides domain logic for role management.
package role

import (
	"errors"
	"strings"

	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

// SuperAdminName is the name of the seeded system role.
const SuperAdminName = "Super Admin"

// MaxNameLength bounds role names.
const MaxNameLength = 100

// Domain-specific errors for role package.
var (
	ErrSystemRoleDelete = errors.New("system roles cannot be deleted")
	ErrSystemRoleModify = errors.New("system role name cannot be modified")
	ErrReservedName     = errors.New("role name is reserved")
)

// Role represents a role entity.
type Role struct {
	id    int64
	name  string
	audit shared.AuditInfo
}

// NewRole creates a new Role entity.
func NewRole(name string, createdBy *int64) (*Role, error) {
	n, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if IsSuperAdminName(n) {
		return nil, ErrReservedName
	}
	return &Role{name: n, audit: shared.NewAuditInfo(createdBy)}, nil
}

// ReconstructRole reconstructs a Role from persistence.
func ReconstructRole(id int64, name string, audit shared.AuditInfo) *Role {
	return &Role{id: id, name: name, audit: audit}
}

// ID returns the role identifier.
func (r *Role) ID() int64 { return r.id }

// Name returns the role name.
func (r *Role) Name() string { return r.name }

// Audit returns the audit information.
func (r *Role) Audit() shared.AuditInfo { return r.audit }

// IsSystem reports whether the role is the protected Super Admin role.
func (r *Role) IsSystem() bool { return IsSuperAdminName(r.name) }

// Rename changes the role name.
func (r *Role) Rename(name string, updatedBy *int64) error {
	if r.IsSystem() {
		return ErrSystemRoleModify
	}
	n, err := validateName(name)
	if err != nil {
		return err
	}
	if IsSuperAdminName(n) {
		return ErrReservedName
	}
	r.name = n
	r.audit.Update(updatedBy)
	return nil
}

// CanDelete returns an error when the role must not be removed.
func (r *Role) CanDelete() error {
	if r.IsSystem() {
		return ErrSystemRoleDelete
	}
	return nil
}

// IsSuperAdminName compares case-insensitively against the system role name.
func IsSuperAdminName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), SuperAdminName)
}

func validateName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", shared.ErrEmptyName
	}
	if len(n) > MaxNameLength {
		return "", shared.ErrNameTooLong
	}
	return n, nil
}
