package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bmuptt/be-app-management/internal/domain/menu"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

const menuColumns = `id, key_menu, name, order_number, url, parent_id, active,
	created_by, created_at, updated_by, updated_at`

// maxAncestorDepth bounds the recursive ancestor walk in case the table already holds a cycle.
const maxAncestorDepth = 64

// menuMoveLockKey identifies the advisory lock taken by ChangeParent.
const menuMoveLockKey int64 = 0x6d656e75

// MenuRepository implements menu.Repository interface.
type MenuRepository struct {
	db *DB
}

// NewMenuRepository creates a new MenuRepository.
func NewMenuRepository(db *DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// Create inserts a menu at the end of its sibling list.
// The order number is computed by the insert statement itself.
func (r *MenuRepository) Create(ctx context.Context, m *menu.Menu) (*menu.Menu, error) {
	query := `
		INSERT INTO menus (
			key_menu, name, order_number, url, parent_id, active,
			created_by, created_at, updated_by, updated_at
		)
		SELECT $1, $2, COALESCE(MAX(order_number), 0) + 1, $3, $4, $5, $6, $7, $6, $7
		FROM menus WHERE parent_id IS NOT DISTINCT FROM $4::bigint
		RETURNING ` + menuColumns

	created, err := scanMenu(r.db.QueryRowContext(ctx, query,
		m.KeyMenu(), m.Name(), m.URL(), m.ParentID(), string(m.Active()),
		m.Audit().CreatedBy, m.Audit().CreatedAt,
	))
	if err != nil {
		return nil, translateError(err, "create menu")
	}
	return created, nil
}

// GetByID retrieves a menu by ID.
func (r *MenuRepository) GetByID(ctx context.Context, id int64) (*menu.Menu, error) {
	query := `SELECT ` + menuColumns + ` FROM menus WHERE id = $1`
	m, err := scanMenu(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "get menu")
	}
	return m, nil
}

// GetByKey retrieves a menu by its normalized key.
func (r *MenuRepository) GetByKey(ctx context.Context, key string) (*menu.Menu, error) {
	query := `SELECT ` + menuColumns + ` FROM menus WHERE key_menu = $1`
	m, err := scanMenu(r.db.QueryRowContext(ctx, query, key))
	if err != nil {
		return nil, translateError(err, "get menu by key")
	}
	return m, nil
}

// GetWithChildren retrieves a menu with its direct children.
func (r *MenuRepository) GetWithChildren(ctx context.Context, id int64) (*menu.WithChildren, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + menuColumns + ` FROM menus WHERE parent_id = $1 ORDER BY order_number, id`
	children, err := r.queryMenus(ctx, "GetWithChildren", query, id)
	if err != nil {
		return nil, err
	}
	return &menu.WithChildren{Menu: m, Children: children}, nil
}

// Update updates key, name and url of a menu.
func (r *MenuRepository) Update(ctx context.Context, m *menu.Menu) error {
	query := `
		UPDATE menus SET key_menu = $2, name = $3, url = $4, updated_by = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		m.ID(), m.KeyMenu(), m.Name(), m.URL(), m.Audit().UpdatedBy, m.Audit().UpdatedAt,
	)
	if err != nil {
		return translateError(err, "update menu")
	}
	return expectAffected(result)
}

// ExistsByKey checks if another menu already uses key.
func (r *MenuRepository) ExistsByKey(ctx context.Context, key string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM menus WHERE key_menu = $1 AND id <> $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, key, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}
	return exists, nil
}

// ListChildren lists one level of the tree, each item with its own direct children.
func (r *MenuRepository) ListChildren(ctx context.Context, params menu.ChildrenParams) ([]*menu.WithChildren, int64, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if id, ok := params.Parent.ParentID(); ok {
		conditions = append(conditions, fmt.Sprintf("parent_id = $%d", argIndex))
		args = append(args, id)
		argIndex++
	} else if params.Parent.IsRoot() {
		conditions = append(conditions, "parent_id IS NULL")
	} else {
		return nil, 0, shared.NewValidationError("parent", "exclude filter is not supported for children listing")
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR key_menu ILIKE $%d)", argIndex, argIndex))
		args = append(args, searchPattern(params.Search))
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM menus WHERE %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count menus: %w", err)
	}
	if total == 0 {
		return []*menu.WithChildren{}, 0, nil
	}

	page := fmt.Sprintf("SELECT id FROM menus WHERE %s ORDER BY order_number, id", whereClause)
	if params.Limited() {
		page += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, params.PageSize, params.Offset())
	}

	parents, err := r.queryMenus(ctx, "ListChildren",
		fmt.Sprintf("SELECT %s FROM menus WHERE id IN (%s) ORDER BY order_number, id", menuColumns, page), args...)
	if err != nil {
		return nil, 0, err
	}
	grandchildren, err := r.queryMenus(ctx, "ListChildren",
		fmt.Sprintf("SELECT %s FROM menus WHERE parent_id IN (%s) ORDER BY order_number, id", menuColumns, page), args...)
	if err != nil {
		return nil, 0, err
	}

	byParent := make(map[int64][]*menu.Menu, len(parents))
	for _, c := range grandchildren {
		pid := *c.ParentID()
		byParent[pid] = append(byParent[pid], c)
	}

	items := make([]*menu.WithChildren, 0, len(parents))
	for _, p := range parents {
		children := byParent[p.ID()]
		if children == nil {
			children = []*menu.Menu{}
		}
		items = append(items, &menu.WithChildren{Menu: p, Children: children})
	}
	return items, total, nil
}

// ListHeaders lists menus flat, optionally excluding one id.
func (r *MenuRepository) ListHeaders(ctx context.Context, params menu.HeaderParams) ([]*menu.Menu, int64, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argIndex := 1

	if id, ok := params.Exclude.ExcludedID(); ok {
		conditions = append(conditions, fmt.Sprintf("id <> $%d", argIndex))
		args = append(args, id)
		argIndex++
	}
	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR key_menu ILIKE $%d)", argIndex, argIndex))
		args = append(args, searchPattern(params.Search))
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM menus WHERE %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count menus: %w", err)
	}

	orderBy := "id DESC"
	if params.SortBy != "" && menu.IsSortableField(params.SortBy) {
		orderBy = params.SortBy + " " + sortDirection(params.SortOrder)
		if params.SortBy != "id" {
			orderBy += ", id"
		}
	}

	dataQuery := fmt.Sprintf("SELECT %s FROM menus WHERE %s ORDER BY %s", menuColumns, whereClause, orderBy)
	if params.Limited() {
		dataQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, params.PageSize, params.Offset())
	}

	menus, err := r.queryMenus(ctx, "ListHeaders", dataQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	return menus, total, nil
}

// ListActive lists every active menu ordered for tree building.
func (r *MenuRepository) ListActive(ctx context.Context) ([]*menu.Menu, error) {
	query := `SELECT ` + menuColumns + ` FROM menus WHERE active = $1 ORDER BY order_number, id`
	return r.queryMenus(ctx, "ListActive", query, string(menu.StatusActive))
}

// ChangeParent moves a menu to the end of the new parent's children.
// Moves hold a transaction-scoped advisory lock, so the ancestor check and the
// update see the same tree and two concurrent moves cannot close a cycle.
func (r *MenuRepository) ChangeParent(ctx context.Context, id int64, parentID *int64, updatedBy *int64) (*menu.Menu, error) {
	query := `
		UPDATE menus SET
			parent_id = $2,
			order_number = (
				SELECT COALESCE(MAX(s.order_number), 0) + 1 FROM menus s
				WHERE s.parent_id IS NOT DISTINCT FROM $2::bigint AND s.id <> $1
			),
			updated_by = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + menuColumns

	var moved *menu.Menu
	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, menuMoveLockKey); err != nil {
			return fmt.Errorf("failed to acquire menu move lock: %w", err)
		}

		var locked int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM menus WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
			return translateError(err, "lock menu")
		}

		if parentID != nil {
			if *parentID == id {
				return menu.ErrCycle
			}
			ancestors, err := ancestorIDs(ctx, tx, *parentID)
			if err != nil {
				return err
			}
			if slices.Contains(ancestors, id) {
				return menu.ErrCycle
			}
		}

		m, err := scanMenu(tx.QueryRowContext(ctx, query, id, parentID, updatedBy, time.Now()))
		if err != nil {
			return translateError(err, "change menu parent")
		}
		moved = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// UpdateActive sets the status of a single menu. Descendants are untouched.
func (r *MenuRepository) UpdateActive(ctx context.Context, id int64, status menu.Status, updatedBy *int64) error {
	query := `UPDATE menus SET active = $2, updated_by = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, string(status), updatedBy, time.Now())
	if err != nil {
		return translateError(err, "update menu status")
	}
	return expectAffected(result)
}

// Sort assigns order numbers 1..N by position in one transaction.
// Any id that does not exist (or is not under the given parent) aborts the whole sort.
func (r *MenuRepository) Sort(ctx context.Context, parent menu.ParentFilter, ids []int64, updatedBy *int64) error {
	if _, excluded := parent.ExcludedID(); excluded {
		return shared.NewValidationError("parent", "exclude filter is not supported for sorting")
	}

	query := `UPDATE menus SET order_number = $2, updated_by = $3, updated_at = $4 WHERE id = $1`
	parentID, scoped := parent.ParentID()
	if scoped {
		query += ` AND parent_id = $5`
	}

	now := time.Now()
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		for i, id := range ids {
			args := []interface{}{id, i + 1, updatedBy, now}
			if scoped {
				args = append(args, parentID)
			}
			result, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("failed to sort menu %d: %w", id, err)
			}
			if err := expectAffected(result); err != nil {
				return fmt.Errorf("menu %d: %w", id, err)
			}
		}
		return nil
	})
}

// SoftDelete deactivates a menu and removes every permission row that references it.
func (r *MenuRepository) SoftDelete(ctx context.Context, id int64, updatedBy *int64) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM role_menus WHERE menu_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete menu permissions: %w", err)
		}
		result, err := tx.ExecContext(ctx,
			`UPDATE menus SET active = $2, updated_by = $3, updated_at = $4 WHERE id = $1`,
			id, string(menu.StatusInactive), updatedBy, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to deactivate menu: %w", err)
		}
		return expectAffected(result)
	})
}

// DeleteHard physically removes a menu that has no children.
func (r *MenuRepository) DeleteHard(ctx context.Context, id int64) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		var locked int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM menus WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
			return translateError(err, "lock menu")
		}

		var hasChildren bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM menus WHERE parent_id = $1)`, id,
		).Scan(&hasChildren); err != nil {
			return fmt.Errorf("failed to check children: %w", err)
		}
		if hasChildren {
			return menu.ErrHasChildren
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM role_menus WHERE menu_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete menu permissions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM menus WHERE id = $1`, id); err != nil {
			return translateError(err, "delete menu")
		}
		return nil
	})
}

// Helper functions

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// ancestorIDs returns the ids on the path from the menu's parent up to its root.
func ancestorIDs(ctx context.Context, q queryer, id int64) ([]int64, error) {
	query := `
		WITH RECURSIVE ancestors AS (
			SELECT parent_id, 1 AS depth FROM menus WHERE id = $1
			UNION ALL
			SELECT m.parent_id, a.depth + 1
			FROM menus m INNER JOIN ancestors a ON m.id = a.parent_id
			WHERE a.depth < $2
		)
		SELECT parent_id FROM ancestors WHERE parent_id IS NOT NULL
	`
	rows, err := q.QueryContext(ctx, query, id, maxAncestorDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu ancestors: %w", err)
	}
	defer closeRows(rows, "ancestorIDs")

	var ids []int64
	for rows.Next() {
		var pid int64
		if err := rows.Scan(&pid); err != nil {
			return nil, fmt.Errorf("failed to scan ancestor id: %w", err)
		}
		ids = append(ids, pid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ancestors: %w", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *MenuRepository) queryMenus(ctx context.Context, op, query string, args ...interface{}) ([]*menu.Menu, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	defer closeRows(rows, op)

	menus := []*menu.Menu{}
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu: %w", err)
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menus: %w", err)
	}
	return menus, nil
}

func scanMenu(row rowScanner) (*menu.Menu, error) {
	var (
		id          int64
		key, name   string
		orderNumber int
		url         sql.NullString
		parentID    sql.NullInt64
		active      string
		createdBy   sql.NullInt64
		createdAt   time.Time
		updatedBy   sql.NullInt64
		updatedAt   time.Time
	)
	if err := row.Scan(
		&id, &key, &name, &orderNumber, &url, &parentID, &active,
		&createdBy, &createdAt, &updatedBy, &updatedAt,
	); err != nil {
		return nil, err
	}

	return menu.ReconstructMenu(
		id, key, name, orderNumber,
		nullStringToPtr(url), nullInt64ToPtr(parentID), menu.Status(active),
		auditFrom(createdAt, createdBy, updatedAt, updatedBy),
	), nil
}
