package role

import (
	"context"
	"strings"

	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
	"github.com/bmuptt/be-app-management/pkg/safeconv"
)

// ListQuery represents the list roles query.
type ListQuery struct {
	Page        int
	PageSize    int
	Search      string
	SortBy      string
	SortOrder   string
	CallerEmail string
}

// ListResult represents the list roles result.
type ListResult struct {
	Roles       []*role.Role
	TotalItems  int64
	TotalPages  int32
	CurrentPage int32
	PageSize    int32
}

// ListHandler handles the ListRoles query.
// The Super Admin role is only listed for the designated super admin account.
type ListHandler struct {
	repo            role.Repository
	superAdminEmail string
}

// NewListHandler creates a new ListHandler.
func NewListHandler(repo role.Repository, superAdminEmail string) *ListHandler {
	return &ListHandler{repo: repo, superAdminEmail: superAdminEmail}
}

// Handle executes the list roles query.
func (h *ListHandler) Handle(ctx context.Context, query ListQuery) (*ListResult, error) {
	params := role.ListParams{
		Search:        strings.TrimSpace(query.Search),
		SortBy:        query.SortBy,
		SortOrder:     strings.ToUpper(query.SortOrder),
		ExcludeSystem: !strings.EqualFold(query.CallerEmail, h.superAdminEmail),
		Pagination:    shared.Pagination{Page: query.Page, PageSize: query.PageSize},
	}

	// Apply defaults
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 10
	}
	if params.SortBy == "" {
		params.SortBy = "id"
		params.SortOrder = shared.SortDESC
	}
	if !role.IsSortableField(params.SortBy) {
		return nil, shared.NewValidationError("order_field", "unsupported sort field")
	}
	if params.SortOrder != shared.SortDESC {
		params.SortOrder = shared.SortASC
	}

	roles, total, err := h.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	var totalPages int32
	if total > 0 {
		computed := (total + int64(params.PageSize) - 1) / int64(params.PageSize)
		totalPages = safeconv.Int64ToInt32(computed)
	}

	return &ListResult{
		Roles:       roles,
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: safeconv.IntToInt32(params.Page),
		PageSize:    safeconv.IntToInt32(params.PageSize),
	}, nil
}
