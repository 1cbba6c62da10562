// Package role provides application layer handlers for role operations.
package role

import (
	"context"
	"fmt"

	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

// CreateCommand represents the create role command.
type CreateCommand struct {
	Name  string
	Actor int64
}

// CreateHandler handles the CreateRole command.
type CreateHandler struct {
	repo role.Repository
}

// NewCreateHandler creates a new CreateHandler.
func NewCreateHandler(repo role.Repository) *CreateHandler {
	return &CreateHandler{repo: repo}
}

// Handle executes the create role command.
func (h *CreateHandler) Handle(ctx context.Context, cmd CreateCommand) (*role.Role, error) {
	entity, err := role.NewRole(cmd.Name, shared.Actor(cmd.Actor))
	if err != nil {
		return nil, err
	}

	exists, err := h.repo.ExistsByName(ctx, entity.Name(), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing role: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("role %q: %w", entity.Name(), shared.ErrAlreadyExists)
	}

	return h.repo.Create(ctx, entity)
}
