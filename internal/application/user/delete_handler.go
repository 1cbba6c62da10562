package user

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/bmuptt/be-app-management/internal/domain/user"
)

// DeleteCommand represents the delete user command.
type DeleteCommand struct {
	ID    int64
	Actor int64
}

// DeleteHandler handles the DeleteUser command.
type DeleteHandler struct {
	repo user.Repository
}

// NewDeleteHandler creates a new DeleteHandler.
func NewDeleteHandler(repo user.Repository) *DeleteHandler {
	return &DeleteHandler{repo: repo}
}

// Handle executes the delete user command.
func (h *DeleteHandler) Handle(ctx context.Context, cmd DeleteCommand) error {
	if cmd.ID == cmd.Actor {
		return user.ErrDeleteSelf
	}
	if _, err := h.repo.GetByID(ctx, cmd.ID); err != nil {
		return err
	}
	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		return err
	}
	log.Info().Int64("user_id", cmd.ID).Int64("actor", cmd.Actor).Msg("User deleted")
	return nil
}
