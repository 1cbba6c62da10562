package menu

type filterKind uint8

const (
	filterRoot filterKind = iota
	filterChildrenOf
	filterExclude
)

// ParentFilter selects which menus a listing covers: the root level, the
// direct children of one menu, or every menu except one.
type ParentFilter struct {
	kind filterKind
	id   int64
}

// Root selects menus without a parent.
func Root() ParentFilter { return ParentFilter{kind: filterRoot} }

// ChildrenOf selects the direct children of the given menu.
func ChildrenOf(id int64) ParentFilter { return ParentFilter{kind: filterChildrenOf, id: id} }

// Exclude selects every menu except the given one.
func Exclude(id int64) ParentFilter { return ParentFilter{kind: filterExclude, id: id} }

// ParentFromID maps an optional parent id to Root or ChildrenOf.
// Non-positive ids are treated as the root level.
func ParentFromID(id *int64) ParentFilter {
	if id == nil || *id <= 0 {
		return Root()
	}
	return ChildrenOf(*id)
}

// IsRoot reports whether the filter selects the root level.
func (f ParentFilter) IsRoot() bool { return f.kind == filterRoot }

// ParentID returns the parent id for ChildrenOf filters.
func (f ParentFilter) ParentID() (int64, bool) {
	return f.id, f.kind == filterChildrenOf
}

// ExcludedID returns the excluded id for Exclude filters.
func (f ParentFilter) ExcludedID() (int64, bool) {
	return f.id, f.kind == filterExclude
}

// ParentPtr returns the parent id as a nullable column value.
// It is nil for Root and Exclude filters.
func (f ParentFilter) ParentPtr() *int64 {
	if f.kind != filterChildrenOf {
		return nil
	}
	id := f.id
	return &id
}
