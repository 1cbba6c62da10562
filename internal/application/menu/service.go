// Package menu provides application layer services for menu management.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bmuptt/be-app-management/internal/domain/menu"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

// Service provides menu management operations.
type Service struct {
	menuRepo menu.Repository
}

// NewService creates a new menu service.
func NewService(menuRepo menu.Repository) *Service {
	return &Service{
		menuRepo: menuRepo,
	}
}

// ListChildrenQuery selects one level of the tree.
type ListChildrenQuery struct {
	Parent   menu.ParentFilter
	Search   string
	Page     int
	PageSize int
}

// ListHeadersQuery is the flat parent-picker listing.
type ListHeadersQuery struct {
	ExcludeID int64
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// CreateInput represents input for creating a menu.
type CreateInput struct {
	KeyMenu  string
	Name     string
	URL      *string
	ParentID *int64
	Actor    int64
}

// UpdateInput represents input for updating a menu.
type UpdateInput struct {
	ID      int64
	KeyMenu string
	Name    string
	URL     *string
	Actor   int64
}

// SortInput assigns sibling order by position.
type SortInput struct {
	Parent menu.ParentFilter
	IDs    []int64
	Actor  int64
}

// ChangeParentInput moves a menu under a new parent, or to the root level when ParentID is nil.
type ChangeParentInput struct {
	ID       int64
	ParentID *int64
	Actor    int64
}

// ListChildren returns the direct children of a parent, each with its own direct children.
// An unknown parent yields an empty list.
func (s *Service) ListChildren(ctx context.Context, q ListChildrenQuery) ([]*menu.WithChildren, int64, error) {
	if _, ok := q.Parent.ExcludedID(); ok {
		return nil, 0, shared.NewValidationError("parent", "exclude filter is not allowed for children listing")
	}
	items, total, err := s.menuRepo.ListChildren(ctx, menu.ChildrenParams{
		Parent:     q.Parent,
		Search:     strings.TrimSpace(q.Search),
		Pagination: shared.Pagination{Page: q.Page, PageSize: q.PageSize},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list menu children: %w", err)
	}
	return items, total, nil
}

// Detail returns a menu with its direct children.
func (s *Service) Detail(ctx context.Context, id int64) (*menu.WithChildren, error) {
	return s.menuRepo.GetWithChildren(ctx, id)
}

// ListHeaders lists every menu except one, flat.
func (s *Service) ListHeaders(ctx context.Context, q ListHeadersQuery) ([]*menu.Menu, int64, error) {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "id"
	}
	if !menu.IsSortableField(sortBy) {
		return nil, 0, shared.NewValidationError("order_field", "unsupported sort field")
	}
	sortOrder := shared.SortDESC
	if q.SortBy != "" && !strings.EqualFold(q.SortOrder, shared.SortDESC) {
		sortOrder = shared.SortASC
	}

	items, total, err := s.menuRepo.ListHeaders(ctx, menu.HeaderParams{
		Exclude:    menu.Exclude(q.ExcludeID),
		Search:     strings.TrimSpace(q.Search),
		SortBy:     sortBy,
		SortOrder:  sortOrder,
		Pagination: shared.Pagination{Page: q.Page, PageSize: q.PageSize},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list menu headers: %w", err)
	}
	return items, total, nil
}

// Structure returns the forest of active menus.
func (s *Service) Structure(ctx context.Context) ([]*menu.Node[*menu.Menu], error) {
	menus, err := s.menuRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active menus: %w", err)
	}
	return menu.BuildTree(menus), nil
}

// Create creates a new menu at the end of its sibling list.
func (s *Service) Create(ctx context.Context, input CreateInput) (*menu.Menu, error) {
	m, err := menu.NewMenu(input.KeyMenu, input.Name, input.URL, input.ParentID, shared.Actor(input.Actor))
	if err != nil {
		return nil, err
	}

	if err := s.ensureKeyAvailable(ctx, m.KeyMenu(), 0); err != nil {
		return nil, err
	}
	if input.ParentID != nil {
		if _, err := s.menuRepo.GetByID(ctx, *input.ParentID); err != nil {
			return nil, fmt.Errorf("invalid parent menu: %w", err)
		}
	}

	created, err := s.menuRepo.Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("failed to save menu: %w", err)
	}

	log.Info().
		Int64("menu_id", created.ID()).
		Str("key_menu", created.KeyMenu()).
		Int("order_number", created.OrderNumber()).
		Msg("Menu created")
	return created, nil
}

// Update changes key_menu, name and url of a menu.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*menu.Menu, error) {
	m, err := s.menuRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if err := m.Update(input.KeyMenu, input.Name, input.URL, shared.Actor(input.Actor)); err != nil {
		return nil, err
	}
	if err := s.ensureKeyAvailable(ctx, m.KeyMenu(), m.ID()); err != nil {
		return nil, err
	}

	if err := s.menuRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save menu: %w", err)
	}
	return m, nil
}

// Sort assigns order_number 1..N following the order of input.IDs.
func (s *Service) Sort(ctx context.Context, input SortInput) error {
	if len(input.IDs) == 0 {
		return shared.NewValidationError("list_menu", "at least one menu is required")
	}
	if _, ok := input.Parent.ExcludedID(); ok {
		return shared.NewValidationError("parent", "exclude filter is not allowed for sorting")
	}
	if hasDuplicates(input.IDs) {
		return shared.NewValidationError("list_menu", "menu ids must be unique")
	}

	if err := s.menuRepo.Sort(ctx, input.Parent, input.IDs, shared.Actor(input.Actor)); err != nil {
		return fmt.Errorf("failed to sort menus: %w", err)
	}
	return nil
}

// ChangeParent moves a menu to the end of its new sibling list.
// Moving a menu under itself or one of its descendants is rejected; the
// repository checks descendants in the same transaction as the move.
func (s *Service) ChangeParent(ctx context.Context, input ChangeParentInput) (*menu.Menu, error) {
	if _, err := s.menuRepo.GetByID(ctx, input.ID); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		if *input.ParentID == input.ID {
			return nil, menu.ErrCycle
		}
		if _, err := s.menuRepo.GetByID(ctx, *input.ParentID); err != nil {
			return nil, fmt.Errorf("invalid parent menu: %w", err)
		}
	}

	moved, err := s.menuRepo.ChangeParent(ctx, input.ID, input.ParentID, shared.Actor(input.Actor))
	if err != nil {
		if errors.Is(err, menu.ErrCycle) {
			log.Warn().Int64("menu_id", input.ID).Msg("Change parent rejected, target is a descendant")
		}
		return nil, fmt.Errorf("failed to change menu parent: %w", err)
	}
	return moved, nil
}

// SoftDelete deactivates a menu and removes its permission rows for every role.
func (s *Service) SoftDelete(ctx context.Context, id, actor int64) error {
	if err := s.menuRepo.SoftDelete(ctx, id, shared.Actor(actor)); err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	log.Info().Int64("menu_id", id).Int64("actor", actor).Msg("Menu deactivated")
	return nil
}

// HardDelete removes a leaf menu permanently.
func (s *Service) HardDelete(ctx context.Context, id, actor int64) error {
	if err := s.menuRepo.DeleteHard(ctx, id); err != nil {
		if errors.Is(err, menu.ErrHasChildren) {
			log.Warn().Int64("menu_id", id).Msg("Hard delete rejected, menu has children")
		}
		return fmt.Errorf("failed to hard delete menu: %w", err)
	}
	log.Info().Int64("menu_id", id).Int64("actor", actor).Msg("Menu hard deleted")
	return nil
}

// Activate sets a menu back to Active. Children keep their own status.
func (s *Service) Activate(ctx context.Context, id, actor int64) error {
	if err := s.menuRepo.UpdateActive(ctx, id, menu.StatusActive, shared.Actor(actor)); err != nil {
		return fmt.Errorf("failed to activate menu: %w", err)
	}
	return nil
}

func (s *Service) ensureKeyAvailable(ctx context.Context, key string, excludeID int64) error {
	exists, err := s.menuRepo.ExistsByKey(ctx, key, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check existing menu: %w", err)
	}
	if exists {
		return fmt.Errorf("key_menu %q: %w", key, shared.ErrAlreadyExists)
	}
	return nil
}

func hasDuplicates(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
