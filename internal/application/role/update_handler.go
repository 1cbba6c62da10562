package role

import (
	"context"
	"fmt"

	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

// UpdateCommand represents the rename role command.
type UpdateCommand struct {
	ID    int64
	Name  string
	Actor int64
}

// UpdateHandler handles the UpdateRole command.
type UpdateHandler struct {
	repo role.Repository
}

// NewUpdateHandler creates a new UpdateHandler.
func NewUpdateHandler(repo role.Repository) *UpdateHandler {
	return &UpdateHandler{repo: repo}
}

// Handle executes the update role command.
func (h *UpdateHandler) Handle(ctx context.Context, cmd UpdateCommand) (*role.Role, error) {
	entity, err := h.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if err := entity.Rename(cmd.Name, shared.Actor(cmd.Actor)); err != nil {
		return nil, err
	}

	exists, err := h.repo.ExistsByName(ctx, entity.Name(), entity.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to check existing role: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("role %q: %w", entity.Name(), shared.ErrAlreadyExists)
	}

	if err := h.repo.Update(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}
