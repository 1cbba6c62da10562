package menu

import (
	"context"

	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

// Repository defines the interface for menu persistence operations.
type Repository interface {
	// Create inserts m at the end of its sibling list and returns the stored menu.
	Create(ctx context.Context, m *Menu) (*Menu, error)
	GetByID(ctx context.Context, id int64) (*Menu, error)
	GetByKey(ctx context.Context, key string) (*Menu, error)
	GetWithChildren(ctx context.Context, id int64) (*WithChildren, error)
	Update(ctx context.Context, m *Menu) error
	ExistsByKey(ctx context.Context, key string, excludeID int64) (bool, error)

	// Listings
	ListChildren(ctx context.Context, params ChildrenParams) ([]*WithChildren, int64, error)
	ListHeaders(ctx context.Context, params HeaderParams) ([]*Menu, int64, error)
	ListActive(ctx context.Context) ([]*Menu, error)

	// Structural changes
	// ChangeParent returns ErrCycle when parentID is the menu or one of its descendants.
	ChangeParent(ctx context.Context, id int64, parentID *int64, updatedBy *int64) (*Menu, error)
	UpdateActive(ctx context.Context, id int64, status Status, updatedBy *int64) error
	Sort(ctx context.Context, parent ParentFilter, ids []int64, updatedBy *int64) error
	SoftDelete(ctx context.Context, id int64, updatedBy *int64) error
	DeleteHard(ctx context.Context, id int64) error
}

// ChildrenParams contains parameters for listing one level of the tree.
type ChildrenParams struct {
	Parent ParentFilter
	Search string
	shared.Pagination
}

// HeaderParams contains parameters for the flat parent-picker listing.
type HeaderParams struct {
	Exclude   ParentFilter
	Search    string
	SortBy    string
	SortOrder string
	shared.Pagination
}

// Sortable columns for header listings.
var sortableFields = map[string]struct{}{
	"id":           {},
	"key_menu":     {},
	"name":         {},
	"order_number": {},
	"created_at":   {},
	"updated_at":   {},
}

// IsSortableField reports whether field may be used in ORDER BY.
func IsSortableField(field string) bool {
	_, ok := sortableFields[field]
	return ok
}
