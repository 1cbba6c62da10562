package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmuptt/be-app-management/internal/domain/menu"
	"github.com/bmuptt/be-app-management/internal/domain/rolemenu"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
	"github.com/bmuptt/be-app-management/internal/infrastructure/postgres"
)

// menuFixture creates menus under a per-test key prefix and removes them on cleanup.
type menuFixture struct {
	db     *postgres.DB
	repo   *postgres.MenuRepository
	prefix string
}

func newMenuFixture(t *testing.T) *menuFixture {
	t.Helper()
	db := setupTestDB(t)
	f := &menuFixture{db: db, repo: postgres.NewMenuRepository(db), prefix: "it" + uniqueSuffix() + "-"}
	t.Cleanup(func() { cleanupMenus(t, db, f.prefix) })
	return f
}

func (f *menuFixture) create(t *testing.T, key string, parentID *int64) *menu.Menu {
	t.Helper()
	m, err := menu.NewMenu(f.prefix+key, key, nil, parentID, nil)
	require.NoError(t, err)
	created, err := f.repo.Create(context.Background(), m)
	require.NoError(t, err)
	return created
}

func (f *menuFixture) order(t *testing.T, id int64) int {
	t.Helper()
	m, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return m.OrderNumber()
}

func childIDs(items []*menu.WithChildren) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.Menu.ID())
	}
	return ids
}

func TestMenuRepositoryIntegration_Create(t *testing.T) {
	f := newMenuFixture(t)
	parent := f.create(t, "parent", nil)

	for i := 1; i <= 4; i++ {
		m := f.create(t, "child-"+string(rune('a'+i-1)), int64Ptr(parent.ID()))
		assert.Equal(t, i, m.OrderNumber())
	}
}

func TestMenuRepositoryIntegration_ListChildren(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()

	a := f.create(t, "a", nil)
	b := f.create(t, "b", nil)
	c := f.create(t, "c", int64Ptr(a.ID()))

	assert.Equal(t, a.OrderNumber()+1, b.OrderNumber())
	assert.Equal(t, 1, c.OrderNumber())

	roots, _, err := f.repo.ListChildren(ctx, menu.ChildrenParams{Parent: menu.Root()})
	require.NoError(t, err)
	ids := childIDs(roots)
	assert.Less(t, indexOf(ids, a.ID()), indexOf(ids, b.ID()))

	children, total, err := f.repo.ListChildren(ctx, menu.ChildrenParams{Parent: menu.ChildrenOf(a.ID())})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []int64{c.ID()}, childIDs(children))
}

func indexOf(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func TestMenuRepositoryIntegration_Sort(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	parent := f.create(t, "parent", nil)
	scope := menu.ChildrenOf(parent.ID())
	a := f.create(t, "a", int64Ptr(parent.ID()))
	b := f.create(t, "b", int64Ptr(parent.ID()))
	c := f.create(t, "c", int64Ptr(parent.ID()))

	t.Run("success - sorting twice gives the same order", func(t *testing.T) {
		ids := []int64{c.ID(), a.ID(), b.ID()}

		require.NoError(t, f.repo.Sort(ctx, scope, ids, nil))
		first := []int{f.order(t, a.ID()), f.order(t, b.ID()), f.order(t, c.ID())}
		require.NoError(t, f.repo.Sort(ctx, scope, ids, nil))
		second := []int{f.order(t, a.ID()), f.order(t, b.ID()), f.order(t, c.ID())}

		assert.Equal(t, []int{2, 3, 1}, first)
		assert.Equal(t, first, second)
	})

	t.Run("error - id outside the parent rolls back", func(t *testing.T) {
		before := []int{f.order(t, a.ID()), f.order(t, b.ID()), f.order(t, c.ID())}

		err := f.repo.Sort(ctx, scope, []int64{a.ID(), b.ID(), parent.ID()}, nil)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, before, []int{f.order(t, a.ID()), f.order(t, b.ID()), f.order(t, c.ID())})
	})
}

func TestMenuRepositoryIntegration_ChangeParent(t *testing.T) {
	ctx := context.Background()

	t.Run("success - moved to the end of the new siblings", func(t *testing.T) {
		f := newMenuFixture(t)
		a := f.create(t, "a", nil)
		f.create(t, "a1", int64Ptr(a.ID()))
		f.create(t, "a2", int64Ptr(a.ID()))
		b := f.create(t, "b", nil)

		moved, err := f.repo.ChangeParent(ctx, b.ID(), int64Ptr(a.ID()), nil)

		require.NoError(t, err)
		assert.Equal(t, a.ID(), *moved.ParentID())
		assert.Equal(t, 3, moved.OrderNumber())
	})

	t.Run("error - under a grandchild", func(t *testing.T) {
		f := newMenuFixture(t)
		a := f.create(t, "a", nil)
		b := f.create(t, "b", int64Ptr(a.ID()))
		c := f.create(t, "c", int64Ptr(b.ID()))

		_, err := f.repo.ChangeParent(ctx, a.ID(), int64Ptr(c.ID()), nil)

		assert.ErrorIs(t, err, menu.ErrCycle)
		got, err := f.repo.GetByID(ctx, a.ID())
		require.NoError(t, err)
		assert.True(t, got.IsRoot())
	})

	t.Run("error - opposite concurrent moves cannot both succeed", func(t *testing.T) {
		f := newMenuFixture(t)
		a := f.create(t, "a", nil)
		b := f.create(t, "b", nil)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		moves := [][2]int64{{a.ID(), b.ID()}, {b.ID(), a.ID()}}
		for i, mv := range moves {
			wg.Add(1)
			go func(i int, id, parentID int64) {
				defer wg.Done()
				_, errs[i] = f.repo.ChangeParent(ctx, id, &parentID, nil)
			}(i, mv[0], mv[1])
		}
		wg.Wait()

		failed := 0
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, menu.ErrCycle)
				failed++
			}
		}
		assert.Equal(t, 1, failed)
	})
}

func TestMenuRepositoryIntegration_DeleteHard(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	rl := createTestRole(t, f.db)
	rmRepo := postgres.NewRoleMenuRepository(f.db)

	parent := f.create(t, "parent", nil)
	leaf := f.create(t, "leaf", int64Ptr(parent.ID()))
	p, err := rolemenu.NewPermission(rl.ID(), leaf.ID(), rolemenu.Full(), nil)
	require.NoError(t, err)
	require.NoError(t, rmRepo.UpsertOne(ctx, p))

	err = f.repo.DeleteHard(ctx, parent.ID())
	assert.ErrorIs(t, err, menu.ErrHasChildren)
	_, err = f.repo.GetByID(ctx, parent.ID())
	require.NoError(t, err)
	_, err = f.repo.GetByID(ctx, leaf.ID())
	require.NoError(t, err)

	require.NoError(t, f.repo.DeleteHard(ctx, leaf.ID()))
	_, err = f.repo.GetByID(ctx, leaf.ID())
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = f.repo.GetByID(ctx, parent.ID())
	assert.NoError(t, err)
	_, err = rmRepo.Get(ctx, rl.ID(), leaf.ID())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMenuRepositoryIntegration_SoftDelete(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	rl := createTestRole(t, f.db)
	rmRepo := postgres.NewRoleMenuRepository(f.db)

	m := f.create(t, "m", nil)
	p, err := rolemenu.NewPermission(rl.ID(), m.ID(), rolemenu.Matrix{Access: true, Create: true}, nil)
	require.NoError(t, err)
	require.NoError(t, rmRepo.UpsertMany(ctx, rl.ID(), []*rolemenu.Permission{p}))

	require.NoError(t, f.repo.SoftDelete(ctx, m.ID(), nil))

	got, err := f.repo.GetByID(ctx, m.ID())
	require.NoError(t, err)
	assert.Equal(t, menu.StatusInactive, got.Active())

	rows, err := rmRepo.ListByRole(ctx, rl.ID())
	require.NoError(t, err)
	assert.Empty(t, rows)

	active, err := f.repo.ListActive(ctx)
	require.NoError(t, err)
	for _, node := range rolemenu.ResolveTree(active, rows) {
		assert.NotEqual(t, m.ID(), node.Item.ID())
	}
}

func TestRoleMenuRepositoryIntegration_UpsertMany(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()
	rl := createTestRole(t, f.db)
	rmRepo := postgres.NewRoleMenuRepository(f.db)
	m := f.create(t, "m", nil)

	t.Run("error - unknown menu aborts the batch", func(t *testing.T) {
		good, err := rolemenu.NewPermission(rl.ID(), m.ID(), rolemenu.Full(), nil)
		require.NoError(t, err)
		bad, err := rolemenu.NewPermission(rl.ID(), m.ID()+1_000_000, rolemenu.Full(), nil)
		require.NoError(t, err)

		err = rmRepo.UpsertMany(ctx, rl.ID(), []*rolemenu.Permission{good, bad})

		assert.True(t, errors.Is(err, shared.ErrNotFound), "got %v", err)
		rows, err := rmRepo.ListByRole(ctx, rl.ID())
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("success - second write replaces every flag", func(t *testing.T) {
		first, err := rolemenu.NewPermission(rl.ID(), m.ID(), rolemenu.Full(), nil)
		require.NoError(t, err)
		require.NoError(t, rmRepo.UpsertMany(ctx, rl.ID(), []*rolemenu.Permission{first}))

		second, err := rolemenu.NewPermission(rl.ID(), m.ID(), rolemenu.Matrix{Access: true}, nil)
		require.NoError(t, err)
		require.NoError(t, rmRepo.UpsertMany(ctx, rl.ID(), []*rolemenu.Permission{second}))

		got, err := rmRepo.Get(ctx, rl.ID(), m.ID())
		require.NoError(t, err)
		assert.Equal(t, rolemenu.Matrix{Access: true}, got.Matrix())
	})
}
