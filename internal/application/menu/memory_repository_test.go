package menu_test

import (
	"context"
	"slices"
	"sync"

	"github.com/bmuptt/be-app-management/internal/domain/menu"
	"github.com/bmuptt/be-app-management/internal/domain/rolemenu"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

// memoryStore keeps menus and permission rows in memory with the same
// ordering and cascade rules as the Postgres repositories.
type memoryStore struct {
	mu     sync.Mutex
	nextID int64
	menus  map[int64]*menuRecord
	perms  map[permKey]rolemenu.Matrix
}

type menuRecord struct {
	id       int64
	key      string
	name     string
	order    int
	url      *string
	parentID *int64
	active   menu.Status
}

type permKey struct {
	roleID int64
	menuID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		menus: make(map[int64]*menuRecord),
		perms: make(map[permKey]rolemenu.Matrix),
	}
}

func (r *menuRecord) toMenu() *menu.Menu {
	return menu.ReconstructMenu(r.id, r.key, r.name, r.order, r.url, r.parentID, r.active, shared.AuditInfo{})
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// siblings returns the records under parentID ordered by order number, then id.
func (s *memoryStore) siblings(parentID *int64) []*menuRecord {
	var out []*menuRecord
	for _, r := range s.menus {
		if sameParent(r.parentID, parentID) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b *menuRecord) int {
		if a.order != b.order {
			return a.order - b.order
		}
		return int(a.id - b.id)
	})
	return out
}

func (s *memoryStore) nextOrder(parentID *int64, excludeID int64) int {
	maxOrder := 0
	for _, r := range s.siblings(parentID) {
		if r.id != excludeID && r.order > maxOrder {
			maxOrder = r.order
		}
	}
	return maxOrder + 1
}

func toMenus(records []*menuRecord) []*menu.Menu {
	out := make([]*menu.Menu, 0, len(records))
	for _, r := range records {
		out = append(out, r.toMenu())
	}
	return out
}

// =============================================================================
// menu.Repository
// =============================================================================

type memoryMenuRepository struct{ *memoryStore }

func (s memoryMenuRepository) Create(_ context.Context, m *menu.Menu) (*menu.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r := &menuRecord{
		id:       s.nextID,
		key:      m.KeyMenu(),
		name:     m.Name(),
		order:    s.nextOrder(m.ParentID(), 0),
		url:      m.URL(),
		parentID: m.ParentID(),
		active:   m.Active(),
	}
	s.menus[r.id] = r
	return r.toMenu(), nil
}

func (s memoryMenuRepository) GetByID(_ context.Context, id int64) (*menu.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.menus[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r.toMenu(), nil
}

func (s memoryMenuRepository) GetByKey(_ context.Context, key string) (*menu.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.menus {
		if r.key == key {
			return r.toMenu(), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s memoryMenuRepository) GetWithChildren(_ context.Context, id int64) (*menu.WithChildren, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.menus[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &menu.WithChildren{Menu: r.toMenu(), Children: toMenus(s.siblings(&id))}, nil
}

func (s memoryMenuRepository) Update(_ context.Context, m *menu.Menu) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.menus[m.ID()]
	if !ok {
		return shared.ErrNotFound
	}
	r.key, r.name, r.url = m.KeyMenu(), m.Name(), m.URL()
	return nil
}

func (s memoryMenuRepository) ExistsByKey(_ context.Context, key string, excludeID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.menus {
		if r.key == key && r.id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s memoryMenuRepository) ListChildren(_ context.Context, params menu.ChildrenParams) ([]*menu.WithChildren, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, excluded := params.Parent.ExcludedID(); excluded {
		return nil, 0, shared.NewValidationError("parent", "exclude filter is not supported for children listing")
	}
	level := s.siblings(params.Parent.ParentPtr())
	items := make([]*menu.WithChildren, 0, len(level))
	for _, r := range level {
		id := r.id
		items = append(items, &menu.WithChildren{Menu: r.toMenu(), Children: toMenus(s.siblings(&id))})
	}
	return items, int64(len(items)), nil
}

func (s memoryMenuRepository) ListHeaders(_ context.Context, params menu.HeaderParams) ([]*menu.Menu, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	excludedID, _ := params.Exclude.ExcludedID()
	var out []*menu.Menu
	for _, r := range s.menus {
		if r.id != excludedID {
			out = append(out, r.toMenu())
		}
	}
	slices.SortFunc(out, func(a, b *menu.Menu) int { return int(b.ID() - a.ID()) })
	return out, int64(len(out)), nil
}

func (s memoryMenuRepository) ListActive(_ context.Context) ([]*menu.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return toMenus(s.activeRecords()), nil
}

func (s *memoryStore) activeRecords() []*menuRecord {
	var out []*menuRecord
	for _, r := range s.menus {
		if r.active == menu.StatusActive {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b *menuRecord) int {
		if a.order != b.order {
			return a.order - b.order
		}
		return int(a.id - b.id)
	})
	return out
}

func (s memoryMenuRepository) ChangeParent(_ context.Context, id int64, parentID *int64, _ *int64) (*menu.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.menus[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	for p := parentID; p != nil; {
		if *p == id {
			return nil, menu.ErrCycle
		}
		parent, ok := s.menus[*p]
		if !ok {
			return nil, shared.ErrNotFound
		}
		p = parent.parentID
	}

	r.order = s.nextOrder(parentID, id)
	r.parentID = parentID
	return r.toMenu(), nil
}

func (s memoryMenuRepository) UpdateActive(_ context.Context, id int64, status menu.Status, _ *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.menus[id]
	if !ok {
		return shared.ErrNotFound
	}
	r.active = status
	return nil
}

// Sort checks every id before writing so a failed sort changes nothing.
func (s memoryMenuRepository) Sort(_ context.Context, parent menu.ParentFilter, ids []int64, _ *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parentID, scoped := parent.ParentID()
	for _, id := range ids {
		r, ok := s.menus[id]
		if !ok || (scoped && !sameParent(r.parentID, &parentID)) {
			return shared.ErrNotFound
		}
	}
	for i, id := range ids {
		s.menus[id].order = i + 1
	}
	return nil
}

func (s memoryMenuRepository) SoftDelete(_ context.Context, id int64, _ *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.menus[id]
	if !ok {
		return shared.ErrNotFound
	}
	s.dropPermissions(id)
	r.active = menu.StatusInactive
	return nil
}

func (s memoryMenuRepository) DeleteHard(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menus[id]; !ok {
		return shared.ErrNotFound
	}
	if len(s.siblings(&id)) > 0 {
		return menu.ErrHasChildren
	}
	s.dropPermissions(id)
	delete(s.menus, id)
	return nil
}

func (s *memoryStore) dropPermissions(menuID int64) {
	for k := range s.perms {
		if k.menuID == menuID {
			delete(s.perms, k)
		}
	}
}

// =============================================================================
// rolemenu.Repository
// =============================================================================

type memoryRoleMenuRepository struct{ *memoryStore }

func (s memoryRoleMenuRepository) ListByRole(_ context.Context, roleID int64) ([]*rolemenu.Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*rolemenu.Permission{}
	for k, m := range s.perms {
		if k.roleID == roleID {
			out = append(out, rolemenu.ReconstructPermission(k.roleID, k.menuID, m, shared.AuditInfo{}))
		}
	}
	return out, nil
}

func (s memoryRoleMenuRepository) ListAccessibleByRole(_ context.Context, roleID int64) ([]*rolemenu.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*rolemenu.Entry{}
	for _, r := range s.activeRecords() {
		m, ok := s.perms[permKey{roleID, r.id}]
		if ok && m.Access {
			out = append(out, &rolemenu.Entry{Menu: r.toMenu(), Permissions: m})
		}
	}
	return out, nil
}

func (s memoryRoleMenuRepository) Get(_ context.Context, roleID, menuID int64) (*rolemenu.Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.perms[permKey{roleID, menuID}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return rolemenu.ReconstructPermission(roleID, menuID, m, shared.AuditInfo{}), nil
}

func (s memoryRoleMenuRepository) UpsertOne(ctx context.Context, p *rolemenu.Permission) error {
	return s.UpsertMany(ctx, p.RoleID(), []*rolemenu.Permission{p})
}

// UpsertMany writes nothing when any row references a missing menu.
func (s memoryRoleMenuRepository) UpsertMany(_ context.Context, roleID int64, rows []*rolemenu.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range rows {
		if _, ok := s.menus[p.MenuID()]; !ok {
			return shared.ErrNotFound
		}
	}
	for _, p := range rows {
		s.perms[permKey{roleID, p.MenuID()}] = p.Matrix()
	}
	return nil
}
