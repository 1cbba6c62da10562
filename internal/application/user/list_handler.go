package user

import (
	"context"
	"strings"

	"github.com/bmuptt/be-app-management/internal/domain/shared"
	"github.com/bmuptt/be-app-management/internal/domain/user"
	"github.com/bmuptt/be-app-management/pkg/safeconv"
)

// ListQuery represents the list users query.
type ListQuery struct {
	Page      int
	PageSize  int
	Search    string
	RoleID    *int64
	Status    *user.Status
	SortBy    string
	SortOrder string
}

// ListResult represents the list users result.
type ListResult struct {
	Users       []*user.User
	TotalItems  int64
	TotalPages  int32
	CurrentPage int32
	PageSize    int32
}

// ListHandler handles the ListUsers query.
type ListHandler struct {
	repo user.Repository
}

// NewListHandler creates a new ListHandler.
func NewListHandler(repo user.Repository) *ListHandler {
	return &ListHandler{repo: repo}
}

// Handle executes the list users query.
func (h *ListHandler) Handle(ctx context.Context, query ListQuery) (*ListResult, error) {
	if query.Status != nil && !query.Status.IsValid() {
		return nil, shared.NewValidationError("active", user.ErrInvalidStatus.Error())
	}

	params := user.ListParams{
		Search:     strings.TrimSpace(query.Search),
		RoleID:     query.RoleID,
		Status:     query.Status,
		SortBy:     query.SortBy,
		SortOrder:  strings.ToUpper(query.SortOrder),
		Pagination: shared.Pagination{Page: query.Page, PageSize: query.PageSize},
	}

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
	if !user.IsSortableField(params.SortBy) {
		return nil, shared.NewValidationError("order_field", "unsupported sort field")
	}
	if params.SortOrder != shared.SortDESC {
		params.SortOrder = shared.SortASC
	}

	users, total, err := h.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	var totalPages int32
	if total > 0 {
		totalPages = safeconv.Int64ToInt32((total + int64(params.PageSize) - 1) / int64(params.PageSize))
	}

	return &ListResult{
		Users:       users,
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: safeconv.IntToInt32(params.Page),
		PageSize:    safeconv.IntToInt32(params.PageSize),
	}, nil
}
