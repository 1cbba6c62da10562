package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmuptt/be-app-management/internal/domain/auth"
	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
	"github.com/bmuptt/be-app-management/internal/domain/user"
)

// UpdateCommand represents the update user command.
// RoleID always replaces the current role; nil removes it.
type UpdateCommand struct {
	ID       int64
	Email    *string
	Name     *string
	RoleID   *int64
	Status   *user.Status
	Password *string
	Actor    int64
}

// UpdateHandler handles the UpdateUser command.
type UpdateHandler struct {
	userRepo user.Repository
	roleRepo role.Repository
	hasher   auth.PasswordHasher
}

// NewUpdateHandler creates a new UpdateHandler.
func NewUpdateHandler(userRepo user.Repository, roleRepo role.Repository, hasher auth.PasswordHasher) *UpdateHandler {
	return &UpdateHandler{userRepo: userRepo, roleRepo: roleRepo, hasher: hasher}
}

// Handle executes the update user command.
func (h *UpdateHandler) Handle(ctx context.Context, cmd UpdateCommand) (*user.User, error) {
	entity, err := h.userRepo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Email != nil {
		email := strings.TrimSpace(*cmd.Email)
		cmd.Email = &email
		exists, err := h.userRepo.ExistsByEmail(ctx, email, cmd.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing user: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("email %q: %w", email, shared.ErrAlreadyExists)
		}
	}

	if err := ensureRole(ctx, h.roleRepo, cmd.RoleID); err != nil {
		return nil, err
	}

	actor := shared.Actor(cmd.Actor)
	if err := entity.Update(cmd.Email, cmd.Name, cmd.RoleID, cmd.Status, actor); err != nil {
		return nil, err
	}

	if cmd.Password != nil && *cmd.Password != "" {
		if err := h.hasher.Validate(*cmd.Password); err != nil {
			return nil, shared.NewValidationError("password", err.Error())
		}
		hash, err := h.hasher.Hash(*cmd.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := entity.ChangePassword(hash, actor); err != nil {
			return nil, err
		}
	}

	if err := h.userRepo.Update(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}
