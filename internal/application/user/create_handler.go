// Package user provides application layer handlers for user operations.
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

// CreateCommand represents the create user command.
type CreateCommand struct {
	Email    string
	Name     string
	Password string
	RoleID   *int64
	Actor    int64
}

// CreateHandler handles the CreateUser command.
type CreateHandler struct {
	userRepo user.Repository
	roleRepo role.Repository
	hasher   auth.PasswordHasher
}

// NewCreateHandler creates a new CreateHandler.
func NewCreateHandler(userRepo user.Repository, roleRepo role.Repository, hasher auth.PasswordHasher) *CreateHandler {
	return &CreateHandler{userRepo: userRepo, roleRepo: roleRepo, hasher: hasher}
}

// Handle executes the create user command.
func (h *CreateHandler) Handle(ctx context.Context, cmd CreateCommand) (*user.User, error) {
	email := strings.TrimSpace(cmd.Email)

	if err := h.hasher.Validate(cmd.Password); err != nil {
		return nil, shared.NewValidationError("password", err.Error())
	}

	exists, err := h.userRepo.ExistsByEmail(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email %q: %w", email, shared.ErrAlreadyExists)
	}

	if err := ensureRole(ctx, h.roleRepo, cmd.RoleID); err != nil {
		return nil, err
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	entity, err := user.NewUser(email, cmd.Name, hash, cmd.RoleID, shared.Actor(cmd.Actor))
	if err != nil {
		return nil, err
	}

	return h.userRepo.Create(ctx, entity)
}

func ensureRole(ctx context.Context, repo role.Repository, roleID *int64) error {
	if roleID == nil {
		return nil
	}
	if _, err := repo.GetByID(ctx, *roleID); err != nil {
		return fmt.Errorf("invalid role: %w", err)
	}
	return nil
}
