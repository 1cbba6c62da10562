package user

import (
	"context"

	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

// Repository defines the interface for user persistence operations.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params ListParams) ([]*User, int64, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}

// ListParams contains parameters for listing users.
type ListParams struct {
	Search    string
	RoleID    *int64
	Status    *Status
	SortBy    string
	SortOrder string
	shared.Pagination
}

var sortableFields = map[string]struct{}{
	"id":         {},
	"email":      {},
	"name":       {},
	"active":     {},
	"created_at": {},
	"updated_at": {},
}

// IsSortableField reports whether field may be used in ORDER BY.
func IsSortableField(field string) bool {
	_, ok := sortableFields[field]
	return ok
}
