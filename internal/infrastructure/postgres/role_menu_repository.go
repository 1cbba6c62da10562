package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bmuptt/be-app-management/internal/domain/menu"
	"github.com/bmuptt/be-app-management/internal/domain/rolemenu"
)

const roleMenuColumns = `role_id, menu_id, access, "create", "update", "delete",
	approval, approval_2, approval_3, created_by, created_at, updated_by, updated_at`

const upsertRoleMenuQuery = `
	INSERT INTO role_menus (
		role_id, menu_id, access, "create", "update", "delete",
		approval, approval_2, approval_3, created_by, created_at, updated_by, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $10, $11)
	ON CONFLICT (role_id, menu_id) DO UPDATE SET
		access = EXCLUDED.access,
		"create" = EXCLUDED."create",
		"update" = EXCLUDED."update",
		"delete" = EXCLUDED."delete",
		approval = EXCLUDED.approval,
		approval_2 = EXCLUDED.approval_2,
		approval_3 = EXCLUDED.approval_3,
		updated_by = EXCLUDED.updated_by,
		updated_at = EXCLUDED.updated_at
`

// RoleMenuRepository implements rolemenu.Repository interface.
type RoleMenuRepository struct {
	db *DB
}

// NewRoleMenuRepository creates a new RoleMenuRepository.
func NewRoleMenuRepository(db *DB) *RoleMenuRepository {
	return &RoleMenuRepository{db: db}
}

// ListByRole lists every permission row of a role.
func (r *RoleMenuRepository) ListByRole(ctx context.Context, roleID int64) ([]*rolemenu.Permission, error) {
	query := `SELECT ` + roleMenuColumns + ` FROM role_menus WHERE role_id = $1 ORDER BY menu_id`
	rows, err := r.db.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role menus: %w", err)
	}
	defer closeRows(rows, "ListByRole")

	perms := []*rolemenu.Permission{}
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role menu: %w", err)
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate role menus: %w", err)
	}
	return perms, nil
}

// ListAccessibleByRole joins the role's rows having access to active menus.
func (r *RoleMenuRepository) ListAccessibleByRole(ctx context.Context, roleID int64) ([]*rolemenu.Entry, error) {
	query := `
		SELECT m.id, m.key_menu, m.name, m.order_number, m.url, m.parent_id, m.active,
			m.created_by, m.created_at, m.updated_by, m.updated_at,
			rm.access, rm."create", rm."update", rm."delete",
			rm.approval, rm.approval_2, rm.approval_3
		FROM role_menus rm
		INNER JOIN menus m ON m.id = rm.menu_id
		WHERE rm.role_id = $1 AND rm.access = TRUE AND m.active = $2
		ORDER BY m.order_number, m.id
	`
	rows, err := r.db.QueryContext(ctx, query, roleID, string(menu.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to list accessible menus: %w", err)
	}
	defer closeRows(rows, "ListAccessibleByRole")

	entries := []*rolemenu.Entry{}
	for rows.Next() {
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
			mx          rolemenu.Matrix
		)
		if err := rows.Scan(
			&id, &key, &name, &orderNumber, &url, &parentID, &active,
			&createdBy, &createdAt, &updatedBy, &updatedAt,
			&mx.Access, &mx.Create, &mx.Update, &mx.Delete,
			&mx.Approval, &mx.Approval2, &mx.Approval3,
		); err != nil {
			return nil, fmt.Errorf("failed to scan accessible menu: %w", err)
		}
		m := menu.ReconstructMenu(id, key, name, orderNumber,
			nullStringToPtr(url), nullInt64ToPtr(parentID), menu.Status(active),
			auditFrom(createdAt, createdBy, updatedAt, updatedBy))
		entries = append(entries, &rolemenu.Entry{Menu: m, Permissions: mx})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accessible menus: %w", err)
	}
	return entries, nil
}

// Get retrieves a single permission row.
func (r *RoleMenuRepository) Get(ctx context.Context, roleID, menuID int64) (*rolemenu.Permission, error) {
	query := `SELECT ` + roleMenuColumns + ` FROM role_menus WHERE role_id = $1 AND menu_id = $2`
	p, err := scanPermission(r.db.QueryRowContext(ctx, query, roleID, menuID))
	if err != nil {
		return nil, translateError(err, "get role menu")
	}
	return p, nil
}

// UpsertOne inserts or fully replaces a single row.
func (r *RoleMenuRepository) UpsertOne(ctx context.Context, p *rolemenu.Permission) error {
	if _, err := r.db.ExecContext(ctx, upsertRoleMenuQuery, upsertArgs(p)...); err != nil {
		return translateError(err, "upsert role menu")
	}
	return nil
}

// UpsertMany writes all rows in one transaction; a failing row aborts the batch.
func (r *RoleMenuRepository) UpsertMany(ctx context.Context, roleID int64, rows []*rolemenu.Permission) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertRoleMenuQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare role menu upsert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, p := range rows {
			if p.RoleID() != roleID {
				return fmt.Errorf("role menu row for role %d in batch for role %d", p.RoleID(), roleID)
			}
			if _, err := stmt.ExecContext(ctx, upsertArgs(p)...); err != nil {
				return translateError(err, fmt.Sprintf("upsert role menu %d", p.MenuID()))
			}
		}
		return nil
	})
}

func upsertArgs(p *rolemenu.Permission) []interface{} {
	mx := p.Matrix()
	return []interface{}{
		p.RoleID(), p.MenuID(),
		mx.Access, mx.Create, mx.Update, mx.Delete, mx.Approval, mx.Approval2, mx.Approval3,
		p.Audit().UpdatedBy, p.Audit().UpdatedAt,
	}
}

func scanPermission(row rowScanner) (*rolemenu.Permission, error) {
	var (
		roleID, menuID int64
		mx             rolemenu.Matrix
		createdBy      sql.NullInt64
		createdAt      time.Time
		updatedBy      sql.NullInt64
		updatedAt      time.Time
	)
	if err := row.Scan(
		&roleID, &menuID,
		&mx.Access, &mx.Create, &mx.Update, &mx.Delete, &mx.Approval, &mx.Approval2, &mx.Approval3,
		&createdBy, &createdAt, &updatedBy, &updatedAt,
	); err != nil {
		return nil, err
	}
	return rolemenu.ReconstructPermission(roleID, menuID, mx, auditFrom(createdAt, createdBy, updatedAt, updatedBy)), nil
}
