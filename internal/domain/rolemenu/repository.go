package rolemenu

import (
	"context"
)

// Repository defines the interface for permission row persistence.
type Repository interface {
	ListByRole(ctx context.Context, roleID int64) ([]*Permission, error)
	// ListAccessibleByRole returns the role's active menus whose access flag is set,
	// ordered by order_number.
	ListAccessibleByRole(ctx context.Context, roleID int64) ([]*Entry, error)
	Get(ctx context.Context, roleID, menuID int64) (*Permission, error)
	UpsertOne(ctx context.Context, p *Permission) error
	// UpsertMany writes all rows in one transaction.
	UpsertMany(ctx context.Context, roleID int64, rows []*Permission) error
}
