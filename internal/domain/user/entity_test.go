package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

func TestNewUser(t *testing.T) {
	roleID := int64(2)

	t.Run("success", func(t *testing.T) {
		u, err := NewUser("john@example.com", " John ", "hash", &roleID, shared.Actor(1))
		require.NoError(t, err)
		assert.Equal(t, "John", u.Name())
		assert.Equal(t, StatusActive, u.Active())
		assert.True(t, u.IsActive())
		assert.Equal(t, &roleID, u.RoleID())
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "John", "hash", nil, nil)
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := NewUser("john@example.com", "John", "", nil, nil)
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})
}

func TestUser_Update(t *testing.T) {
	u := ReconstructUser(1, "a@example.com", "A", "hash", nil, StatusActive, shared.AuditInfo{})
	takeOut := StatusTakeOut
	roleID := int64(3)

	require.NoError(t, u.Update(nil, nil, &roleID, &takeOut, shared.Actor(9)))
	assert.Equal(t, StatusTakeOut, u.Active())
	assert.False(t, u.IsActive())
	assert.Equal(t, "a@example.com", u.Email())
	assert.Equal(t, int64(3), *u.RoleID())

	bad := Status("Deleted")
	assert.ErrorIs(t, u.Update(nil, nil, nil, &bad, nil), ErrInvalidStatus)
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusTakeOut.IsValid())
	assert.False(t, Status("").IsValid())
}
