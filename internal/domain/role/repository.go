package role

import (
	"context"

	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

// Repository defines the interface for role persistence operations.
type Repository interface {
	Create(ctx context.Context, role *Role) (*Role, error)
	GetByID(ctx context.Context, id int64) (*Role, error)
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params ListParams) ([]*Role, int64, error)
	// ExistsByName compares names case-insensitively, ignoring excludeID.
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
}

// ListParams contains parameters for listing roles.
type ListParams struct {
	Search        string
	SortBy        string
	SortOrder     string
	ExcludeSystem bool
	shared.Pagination
}

var sortableFields = map[string]struct{}{
	"id":         {},
	"name":       {},
	"created_at": {},
	"updated_at": {},
}

// IsSortableField reports whether field may be used in ORDER BY.
func IsSortableField(field string) bool {
	_, ok := sortableFields[field]
	return ok
}
