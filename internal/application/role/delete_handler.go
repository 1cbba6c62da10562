package role

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/bmuptt/be-app-management/internal/domain/role"
)

// DeleteCommand represents the delete role command.
type DeleteCommand struct {
	ID    int64
	Actor int64
}

// DeleteHandler handles the DeleteRole command.
// Permission rows go with the role and users lose their role assignment.
type DeleteHandler struct {
	repo role.Repository
}

// NewDeleteHandler creates a new DeleteHandler.
func NewDeleteHandler(repo role.Repository) *DeleteHandler {
	return &DeleteHandler{repo: repo}
}

// Handle executes the delete role command.
func (h *DeleteHandler) Handle(ctx context.Context, cmd DeleteCommand) error {
	entity, err := h.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if err := entity.CanDelete(); err != nil {
		return err
	}

	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		return err
	}

	log.Info().Int64("role_id", cmd.ID).Int64("actor", cmd.Actor).Msg("Role deleted")
	return nil
}
