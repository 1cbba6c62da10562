package menu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

func strPtr(s string) *string { return &s }
func idPtr(id int64) *int64   { return &id }

func TestNewMenu(t *testing.T) {
	tests := []struct {
		name     string
		keyMenu  string
		title    string
		url      *string
		parentID *int64
		wantKey  string
		wantErr  error
	}{
		{
			name:    "valid root menu",
			keyMenu: "appmanagement",
			title:   "App Management",
			wantKey: "appmanagement",
		},
		{
			name:     "key is lower-cased and trimmed",
			keyMenu:  "  User ",
			title:    "User",
			url:      strPtr("/user"),
			parentID: idPtr(1),
			wantKey:  "user",
		},
		{
			name:    "empty key",
			keyMenu: "   ",
			title:   "Menu",
			wantErr: shared.ErrEmptyKey,
		},
		{
			name:    "empty name",
			keyMenu: "menu",
			title:   "",
			wantErr: shared.ErrEmptyName,
		},
		{
			name:    "key too long",
			keyMenu: strings.Repeat("k", MaxKeyLength+1),
			title:   "Menu",
			wantErr: ErrKeyTooLong,
		},
		{
			name:    "name at column width",
			keyMenu: "menu",
			title:   strings.Repeat("n", MaxNameLength),
			wantKey: "menu",
		},
		{
			name:    "name wider than column",
			keyMenu: "menu",
			title:   strings.Repeat("n", 101),
			wantErr: shared.ErrNameTooLong,
		},
		{
			name:    "url too long",
			keyMenu: "menu",
			title:   "Menu",
			url:     strPtr(strings.Repeat("u", MaxURLLength+1)),
			wantErr: ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMenu(tt.keyMenu, tt.title, tt.url, tt.parentID, idPtr(7))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, m.KeyMenu())
			assert.Equal(t, StatusActive, m.Active())
			assert.Equal(t, tt.parentID, m.ParentID())
			assert.Equal(t, int64(7), *m.Audit().CreatedBy)
		})
	}
}

func TestMenu_Update(t *testing.T) {
	m := ReconstructMenu(3, "menu", "Menu", 4, nil, idPtr(1), StatusInactive, shared.AuditInfo{})

	err := m.Update("Menu-Item", "Menu Item", strPtr("/menu"), idPtr(2))
	require.NoError(t, err)

	assert.Equal(t, "menu-item", m.KeyMenu())
	assert.Equal(t, "Menu Item", m.Name())
	assert.Equal(t, "/menu", *m.URL())
	// protected fields keep their values
	assert.Equal(t, 4, m.OrderNumber())
	assert.Equal(t, int64(1), *m.ParentID())
	assert.Equal(t, StatusInactive, m.Active())
	assert.Equal(t, int64(2), *m.Audit().UpdatedBy)

	assert.ErrorIs(t, m.Update("", "x", nil, nil), shared.ErrEmptyKey)
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusActive.IsValid())
	assert.True(t, StatusInactive.IsValid())
	assert.False(t, Status("Take Out").IsValid())
}

func TestErrors_AreInvalidState(t *testing.T) {
	assert.ErrorIs(t, ErrHasChildren, shared.ErrInvalidState)
	assert.ErrorIs(t, ErrCycle, shared.ErrInvalidState)
}

func TestParentFilter(t *testing.T) {
	t.Run("root", func(t *testing.T) {
		f := Root()
		assert.True(t, f.IsRoot())
		_, ok := f.ParentID()
		assert.False(t, ok)
		assert.Nil(t, f.ParentPtr())
	})

	t.Run("children of", func(t *testing.T) {
		f := ChildrenOf(5)
		id, ok := f.ParentID()
		assert.True(t, ok)
		assert.Equal(t, int64(5), id)
		assert.Equal(t, int64(5), *f.ParentPtr())
		assert.False(t, f.IsRoot())
	})

	t.Run("exclude", func(t *testing.T) {
		f := Exclude(9)
		id, ok := f.ExcludedID()
		assert.True(t, ok)
		assert.Equal(t, int64(9), id)
		assert.Nil(t, f.ParentPtr())
	})

	t.Run("from id", func(t *testing.T) {
		assert.True(t, ParentFromID(nil).IsRoot())
		assert.True(t, ParentFromID(idPtr(0)).IsRoot())
		id, ok := ParentFromID(idPtr(4)).ParentID()
		assert.True(t, ok)
		assert.Equal(t, int64(4), id)
	})
}

func TestIsSortableField(t *testing.T) {
	assert.True(t, IsSortableField("order_number"))
	assert.False(t, IsSortableField("id; DROP TABLE menus"))
}
