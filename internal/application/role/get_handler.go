package role

import (
	"context"

	"github.com/bmuptt/be-app-management/internal/domain/role"
)

// GetQuery represents the get role query.
type GetQuery struct {
	ID int64
}

// GetHandler handles the GetRole query.
type GetHandler struct {
	repo role.Repository
}

// NewGetHandler creates a new GetHandler.
func NewGetHandler(repo role.Repository) *GetHandler {
	return &GetHandler{repo: repo}
}

// Handle executes the get role query.
func (h *GetHandler) Handle(ctx context.Context, query GetQuery) (*role.Role, error) {
	return h.repo.GetByID(ctx, query.ID)
}
