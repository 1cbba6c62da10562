// Package rolemenu provides the per-role permission matrix attached to menus.
package rolemenu

import (
	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

// Matrix is the set of permission flags one role holds on one menu.
// The zero value denies everything.
type Matrix struct {
	Access    bool `json:"access"`
	Create    bool `json:"create"`
	Update    bool `json:"update"`
	Delete    bool `json:"delete"`
	Approval  bool `json:"approval"`
	Approval2 bool `json:"approval_2"`
	Approval3 bool `json:"approval_3"`
}

// Action names a single flag of the matrix.
type Action string

// Actions that can be checked against a matrix.
const (
	ActionAccess    Action = "access"
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionApproval  Action = "approval"
	ActionApproval2 Action = "approval_2"
	ActionApproval3 Action = "approval_3"
)

// Allows reports whether the matrix grants the given action.
func (m Matrix) Allows(action Action) bool {
	switch action {
	case ActionAccess:
		return m.Access
	case ActionCreate:
		return m.Create
	case ActionUpdate:
		return m.Update
	case ActionDelete:
		return m.Delete
	case ActionApproval:
		return m.Approval
	case ActionApproval2:
		return m.Approval2
	case ActionApproval3:
		return m.Approval3
	default:
		return false
	}
}

// Full returns a matrix with every flag set.
func Full() Matrix {
	return Matrix{Access: true, Create: true, Update: true, Delete: true, Approval: true, Approval2: true, Approval3: true}
}

// Permission is a stored (role, menu) row.
type Permission struct {
	roleID int64
	menuID int64
	matrix Matrix
	audit  shared.AuditInfo
}

// NewPermission creates a permission row for an upsert.
func NewPermission(roleID, menuID int64, matrix Matrix, actor *int64) (*Permission, error) {
	if roleID <= 0 || menuID <= 0 {
		return nil, shared.ErrEmptyID
	}
	return &Permission{
		roleID: roleID,
		menuID: menuID,
		matrix: matrix,
		audit:  shared.NewAuditInfo(actor),
	}, nil
}

// ReconstructPermission reconstructs a Permission from persistence.
func ReconstructPermission(roleID, menuID int64, matrix Matrix, audit shared.AuditInfo) *Permission {
	return &Permission{roleID: roleID, menuID: menuID, matrix: matrix, audit: audit}
}

// Getters
func (p *Permission) RoleID() int64           { return p.roleID }
func (p *Permission) MenuID() int64           { return p.menuID }
func (p *Permission) Matrix() Matrix          { return p.matrix }
func (p *Permission) Audit() shared.AuditInfo { return p.audit }
