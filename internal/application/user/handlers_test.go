// Package user_test provides unit tests for application layer user handlers.
package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appuser "github.com/bmuptt/be-app-management/internal/application/user"
	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
	"github.com/bmuptt/be-app-management/internal/domain/user"
	"github.com/bmuptt/be-app-management/internal/mocks"
)

func roleID(v int64) *int64 { return &v }

func existingUser() *user.User {
	return user.ReconstructUser(4, "jane@example.com", "Jane", "old-hash", roleID(2), user.StatusActive, shared.AuditInfo{})
}

// =============================================================================
// CreateHandler
// =============================================================================

func TestCreateHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("success - creates user with hashed password", func(t *testing.T) {
		users := new(mocks.UserRepository)
		roles := new(mocks.RoleRepository)
		hasher := new(mocks.PasswordHasher)
		handler := appuser.NewCreateHandler(users, roles, hasher)

		hasher.On("Validate", "Secret123").Return(nil)
		users.On("ExistsByEmail", ctx, "jane@example.com", int64(0)).Return(false, nil)
		roles.On("GetByID", ctx, int64(2)).Return(role.ReconstructRole(2, "Staff", shared.AuditInfo{}), nil)
		hasher.On("Hash", "Secret123").Return("hashed", nil)
		users.On("Create", ctx, mock.MatchedBy(func(u *user.User) bool {
			return u.PasswordHash() == "hashed" && u.Email() == "jane@example.com" && *u.RoleID() == 2
		})).Return(existingUser(), nil)

		got, err := handler.Handle(ctx, appuser.CreateCommand{
			Email: " jane@example.com ", Name: "Jane", Password: "Secret123", RoleID: roleID(2), Actor: 1,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(4), got.ID())
		users.AssertExpectations(t)
		hasher.AssertExpectations(t)
	})

	t.Run("error - weak password", func(t *testing.T) {
		hasher := new(mocks.PasswordHasher)
		handler := appuser.NewCreateHandler(new(mocks.UserRepository), new(mocks.RoleRepository), hasher)

		hasher.On("Validate", "weak").Return(errors.New("password is too short"))

		_, err := handler.Handle(ctx, appuser.CreateCommand{Email: "a@example.com", Name: "A", Password: "weak"})

		var vErr *shared.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "password", vErr.Field)
	})

	t.Run("error - duplicate email", func(t *testing.T) {
		users := new(mocks.UserRepository)
		hasher := new(mocks.PasswordHasher)
		handler := appuser.NewCreateHandler(users, new(mocks.RoleRepository), hasher)

		hasher.On("Validate", "Secret123").Return(nil)
		users.On("ExistsByEmail", ctx, "a@example.com", int64(0)).Return(true, nil)

		_, err := handler.Handle(ctx, appuser.CreateCommand{Email: "a@example.com", Name: "A", Password: "Secret123"})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("error - unknown role", func(t *testing.T) {
		users := new(mocks.UserRepository)
		roles := new(mocks.RoleRepository)
		hasher := new(mocks.PasswordHasher)
		handler := appuser.NewCreateHandler(users, roles, hasher)

		hasher.On("Validate", "Secret123").Return(nil)
		users.On("ExistsByEmail", ctx, "a@example.com", int64(0)).Return(false, nil)
		roles.On("GetByID", ctx, int64(9)).Return(nil, shared.ErrNotFound)

		_, err := handler.Handle(ctx, appuser.CreateCommand{Email: "a@example.com", Name: "A", Password: "Secret123", RoleID: roleID(9)})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

// =============================================================================
// UpdateHandler
// =============================================================================

func TestUpdateHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("success - take out and clear role", func(t *testing.T) {
		users := new(mocks.UserRepository)
		handler := appuser.NewUpdateHandler(users, new(mocks.RoleRepository), new(mocks.PasswordHasher))
		entity := existingUser()
		takeOut := user.StatusTakeOut

		users.On("GetByID", ctx, int64(4)).Return(entity, nil)
		users.On("Update", ctx, entity).Return(nil)

		got, err := handler.Handle(ctx, appuser.UpdateCommand{ID: 4, Status: &takeOut, Actor: 1})

		require.NoError(t, err)
		assert.Equal(t, user.StatusTakeOut, got.Active())
		assert.Nil(t, got.RoleID())
		assert.Equal(t, "old-hash", got.PasswordHash())
	})

	t.Run("success - password change", func(t *testing.T) {
		users := new(mocks.UserRepository)
		hasher := new(mocks.PasswordHasher)
		roles := new(mocks.RoleRepository)
		handler := appuser.NewUpdateHandler(users, roles, hasher)
		entity := existingUser()
		pw := "NewSecret1"

		users.On("GetByID", ctx, int64(4)).Return(entity, nil)
		roles.On("GetByID", ctx, int64(2)).Return(role.ReconstructRole(2, "Staff", shared.AuditInfo{}), nil)
		hasher.On("Validate", pw).Return(nil)
		hasher.On("Hash", pw).Return("new-hash", nil)
		users.On("Update", ctx, entity).Return(nil)

		got, err := handler.Handle(ctx, appuser.UpdateCommand{ID: 4, RoleID: roleID(2), Password: &pw, Actor: 1})

		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash())
	})

	t.Run("error - email taken", func(t *testing.T) {
		users := new(mocks.UserRepository)
		handler := appuser.NewUpdateHandler(users, new(mocks.RoleRepository), new(mocks.PasswordHasher))
		email := "taken@example.com"

		users.On("GetByID", ctx, int64(4)).Return(existingUser(), nil)
		users.On("ExistsByEmail", ctx, email, int64(4)).Return(true, nil)

		_, err := handler.Handle(ctx, appuser.UpdateCommand{ID: 4, Email: &email})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

// =============================================================================
// DeleteHandler
// =============================================================================

func TestDeleteHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		users := new(mocks.UserRepository)
		handler := appuser.NewDeleteHandler(users)

		users.On("GetByID", ctx, int64(4)).Return(existingUser(), nil)
		users.On("Delete", ctx, int64(4)).Return(nil)

		require.NoError(t, handler.Handle(ctx, appuser.DeleteCommand{ID: 4, Actor: 1}))
		users.AssertExpectations(t)
	})

	t.Run("error - self delete", func(t *testing.T) {
		handler := appuser.NewDeleteHandler(new(mocks.UserRepository))

		err := handler.Handle(ctx, appuser.DeleteCommand{ID: 1, Actor: 1})

		assert.ErrorIs(t, err, user.ErrDeleteSelf)
	})
}

// =============================================================================
// ListHandler
// =============================================================================

func TestListHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("success - applies defaults", func(t *testing.T) {
		users := new(mocks.UserRepository)
		handler := appuser.NewListHandler(users)

		users.On("List", ctx, user.ListParams{
			SortBy:     "id",
			SortOrder:  shared.SortDESC,
			Pagination: shared.Pagination{Page: 1, PageSize: 10},
		}).Return([]*user.User{existingUser()}, int64(1), nil)

		result, err := handler.Handle(ctx, appuser.ListQuery{PageSize: 1000})

		require.NoError(t, err)
		assert.Len(t, result.Users, 1)
		assert.Equal(t, int32(1), result.TotalPages)
	})

	t.Run("error - invalid status filter", func(t *testing.T) {
		handler := appuser.NewListHandler(new(mocks.UserRepository))
		bad := user.Status("Gone")

		_, err := handler.Handle(ctx, appuser.ListQuery{Status: &bad})

		var vErr *shared.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}
