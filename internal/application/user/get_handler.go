package user

import (
	"context"

	"github.com/bmuptt/be-app-management/internal/domain/user"
)

// GetQuery represents the get user query.
type GetQuery struct {
	ID int64
}

// GetHandler handles the GetUser query.
type GetHandler struct {
	repo user.Repository
}

// NewGetHandler creates a new GetHandler.
func NewGetHandler(repo user.Repository) *GetHandler {
	return &GetHandler{repo: repo}
}

// Handle executes the get user query.
func (h *GetHandler) Handle(ctx context.Context, query GetQuery) (*user.User, error) {
	return h.repo.GetByID(ctx, query.ID)
}
