package rolemenu

import (
	"github.com/bmuptt/be-app-management/internal/domain/menu"
)

// Entry is a menu annotated with the resolved permission matrix of one role.
type Entry struct {
	Menu        *menu.Menu
	Permissions Matrix
}

// ID implements menu.TreeItem.
func (e *Entry) ID() int64 { return e.Menu.ID() }

// ParentID implements menu.TreeItem.
func (e *Entry) ParentID() *int64 { return e.Menu.ParentID() }

// Index maps rows by menu id. Later rows for the same menu win.
func Index(rows []*Permission) map[int64]Matrix {
	out := make(map[int64]Matrix, len(rows))
	for _, r := range rows {
		out[r.MenuID()] = r.Matrix()
	}
	return out
}

// Resolve annotates every menu with its matrix, defaulting to all false.
// Menus keep the order they were given in.
func Resolve(menus []*menu.Menu, matrices map[int64]Matrix) []*Entry {
	entries := make([]*Entry, 0, len(menus))
	for _, m := range menus {
		entries = append(entries, &Entry{Menu: m, Permissions: matrices[m.ID()]})
	}
	return entries
}

// ResolveTree builds the permission-annotated forest for one role.
// Only the given menus are considered, so callers pass active menus only.
func ResolveTree(menus []*menu.Menu, rows []*Permission) []*menu.Node[*Entry] {
	return menu.BuildTree(Resolve(menus, Index(rows)))
}
