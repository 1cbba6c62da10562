// Package rolemenu provides application services for configuring role permissions on menus.
package rolemenu

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bmuptt/be-app-management/internal/domain/menu"
	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/domain/rolemenu"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

// Service provides role-menu operations.
type Service struct {
	roleRepo     role.Repository
	menuRepo     menu.Repository
	roleMenuRepo rolemenu.Repository
}

// NewService creates a new role-menu service.
func NewService(roleRepo role.Repository, menuRepo menu.Repository, roleMenuRepo rolemenu.Repository) *Service {
	return &Service{
		roleRepo:     roleRepo,
		menuRepo:     menuRepo,
		roleMenuRepo: roleMenuRepo,
	}
}

// ConfigureItem is one row of a bulk configuration. Omitted flags are false.
type ConfigureItem struct {
	MenuID int64
	rolemenu.Matrix
}

// ConfigureInput replaces the listed rows of one role.
type ConfigureInput struct {
	RoleID int64
	Items  []ConfigureItem
	Actor  int64
}

// PermissionTree returns every active menu annotated with the role's flags.
func (s *Service) PermissionTree(ctx context.Context, roleID int64) ([]*menu.Node[*rolemenu.Entry], error) {
	if _, err := s.roleRepo.GetByID(ctx, roleID); err != nil {
		return nil, err
	}

	menus, err := s.menuRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active menus: %w", err)
	}
	rows, err := s.roleMenuRepo.ListByRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}

	return rolemenu.ResolveTree(menus, rows), nil
}

// Configure upserts every listed row in one transaction.
// An empty list succeeds without touching the store.
func (s *Service) Configure(ctx context.Context, input ConfigureInput) error {
	if len(input.Items) == 0 {
		return nil
	}
	if _, err := s.roleRepo.GetByID(ctx, input.RoleID); err != nil {
		return err
	}

	actor := shared.Actor(input.Actor)
	rows := make([]*rolemenu.Permission, 0, len(input.Items))
	for _, item := range input.Items {
		p, err := rolemenu.NewPermission(input.RoleID, item.MenuID, item.Matrix, actor)
		if err != nil {
			return shared.NewValidationError("menu_id", "menu_id must be a positive integer")
		}
		rows = append(rows, p)
	}

	if err := s.roleMenuRepo.UpsertMany(ctx, input.RoleID, rows); err != nil {
		return fmt.Errorf("failed to configure role permissions: %w", err)
	}

	log.Info().
		Int64("role_id", input.RoleID).
		Int("rows", len(rows)).
		Int64("actor", input.Actor).
		Msg("Role permissions configured")
	return nil
}

// SetOne upserts a single (role, menu) row.
func (s *Service) SetOne(ctx context.Context, roleID, menuID int64, matrix rolemenu.Matrix, actor int64) error {
	p, err := rolemenu.NewPermission(roleID, menuID, matrix, shared.Actor(actor))
	if err != nil {
		return err
	}
	if err := s.roleMenuRepo.UpsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to save role permission: %w", err)
	}
	return nil
}
