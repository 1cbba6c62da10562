// Package menu provides domain logic for the hierarchical menu tree.
package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

// Domain-specific errors for menu package.
var (
	ErrHasChildren = fmt.Errorf("cannot delete menu with children: %w", shared.ErrInvalidState)
	ErrCycle       = fmt.Errorf("menu cannot be moved under itself or its descendants: %w", shared.ErrInvalidState)
	ErrKeyTooLong  = errors.New("key_menu exceeds maximum length")
	ErrInvalidURL  = errors.New("url exceeds maximum length")
)

// Field limits.
const (
	MaxKeyLength  = 100
	MaxNameLength = 100
	MaxURLLength  = 255
)

// Status is the lifecycle state of a menu.
type Status string

// Menu statuses.
const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// Menu is a node in the menu forest. Parent relations are stored as ids only.
type Menu struct {
	id          int64
	keyMenu     string
	name        string
	orderNumber int
	url         *string
	parentID    *int64
	active      Status
	audit       shared.AuditInfo
}

// NewMenu creates a new Menu entity with validation.
// The order number and id are assigned by the store on insert.
func NewMenu(keyMenu, name string, url *string, parentID *int64, createdBy *int64) (*Menu, error) {
	key, err := normalizeFields(keyMenu, name, url)
	if err != nil {
		return nil, err
	}

	return &Menu{
		keyMenu:  key,
		name:     strings.TrimSpace(name),
		url:      url,
		parentID: parentID,
		active:   StatusActive,
		audit:    shared.NewAuditInfo(createdBy),
	}, nil
}

// ReconstructMenu reconstructs a Menu from persistence.
func ReconstructMenu(
	id int64,
	keyMenu, name string,
	orderNumber int,
	url *string,
	parentID *int64,
	active Status,
	audit shared.AuditInfo,
) *Menu {
	return &Menu{
		id:          id,
		keyMenu:     keyMenu,
		name:        name,
		orderNumber: orderNumber,
		url:         url,
		parentID:    parentID,
		active:      active,
		audit:       audit,
	}
}

// NormalizeKey lower-cases and trims a key_menu value.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Getters
func (m *Menu) ID() int64               { return m.id }
func (m *Menu) KeyMenu() string         { return m.keyMenu }
func (m *Menu) Name() string            { return m.name }
func (m *Menu) OrderNumber() int        { return m.orderNumber }
func (m *Menu) URL() *string            { return m.url }
func (m *Menu) ParentID() *int64        { return m.parentID }
func (m *Menu) Active() Status          { return m.active }
func (m *Menu) IsActive() bool          { return m.active == StatusActive }
func (m *Menu) IsRoot() bool            { return m.parentID == nil }
func (m *Menu) Audit() shared.AuditInfo { return m.audit }

// Update changes the mutable fields of a menu. Parent, order and status are
// changed only through their dedicated operations.
func (m *Menu) Update(keyMenu, name string, url *string, updatedBy *int64) error {
	key, err := normalizeFields(keyMenu, name, url)
	if err != nil {
		return err
	}
	m.keyMenu = key
	m.name = strings.TrimSpace(name)
	m.url = url
	m.audit.Update(updatedBy)
	return nil
}

func normalizeFields(keyMenu, name string, url *string) (string, error) {
	key := NormalizeKey(keyMenu)
	if key == "" {
		return "", shared.ErrEmptyKey
	}
	if len(key) > MaxKeyLength {
		return "", ErrKeyTooLong
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", shared.ErrEmptyName
	}
	if len(trimmed) > MaxNameLength {
		return "", shared.ErrNameTooLong
	}
	if url != nil && len(*url) > MaxURLLength {
		return "", ErrInvalidURL
	}
	return key, nil
}

// WithChildren is a menu annotated with its direct children (one level only).
type WithChildren struct {
	Menu     *Menu
	Children []*Menu
}
