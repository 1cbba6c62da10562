package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bmuptt/be-app-management/internal/domain/role"
)

const roleColumns = `id, name, created_by, created_at, updated_by, updated_at`

// RoleRepository implements role.Repository interface.
type RoleRepository struct {
	db *DB
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create creates a new role.
func (r *RoleRepository) Create(ctx context.Context, rl *role.Role) (*role.Role, error) {
	query := `
		INSERT INTO roles (name, created_by, created_at, updated_by, updated_at)
		VALUES ($1, $2, $3, $2, $3)
		RETURNING ` + roleColumns
	created, err := scanRole(r.db.QueryRowContext(ctx, query, rl.Name(), rl.Audit().CreatedBy, rl.Audit().CreatedAt))
	if err != nil {
		return nil, translateError(err, "create role")
	}
	return created, nil
}

// GetByID retrieves a role by ID.
func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*role.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = $1`
	rl, err := scanRole(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "get role")
	}
	return rl, nil
}

// Update updates a role.
func (r *RoleRepository) Update(ctx context.Context, rl *role.Role) error {
	query := `UPDATE roles SET name = $2, updated_by = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, rl.ID(), rl.Name(), rl.Audit().UpdatedBy, rl.Audit().UpdatedAt)
	if err != nil {
		return translateError(err, "update role")
	}
	return expectAffected(result)
}

// Delete deletes a role. Permission rows cascade and users lose the role via foreign keys.
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "delete role")
	}
	return expectAffected(result)
}

// List lists roles with pagination.
func (r *RoleRepository) List(ctx context.Context, params role.ListParams) ([]*role.Role, int64, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argIndex := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, searchPattern(params.Search))
		argIndex++
	}
	if params.ExcludeSystem {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) <> LOWER($%d)", argIndex))
		args = append(args, role.SuperAdminName)
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM roles WHERE %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count roles: %w", err)
	}

	orderBy := "id DESC"
	if params.SortBy != "" && role.IsSortableField(params.SortBy) {
		orderBy = params.SortBy + " " + sortDirection(params.SortOrder)
	}

	dataQuery := fmt.Sprintf("SELECT %s FROM roles WHERE %s ORDER BY %s", roleColumns, whereClause, orderBy)
	if params.Limited() {
		dataQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, params.PageSize, params.Offset())
	}

	rows, err := r.db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}
	defer closeRows(rows, "List roles")

	roles := []*role.Role{}
	for rows.Next() {
		rl, err := scanRole(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, rl)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate roles: %w", err)
	}
	return roles, total, nil
}

// ExistsByName checks case-insensitively if another role uses name.
func (r *RoleRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM roles WHERE LOWER(name) = LOWER($1) AND id <> $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check name existence: %w", err)
	}
	return exists, nil
}

func scanRole(row rowScanner) (*role.Role, error) {
	var (
		id        int64
		name      string
		createdBy sql.NullInt64
		createdAt time.Time
		updatedBy sql.NullInt64
		updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &createdBy, &createdAt, &updatedBy, &updatedAt); err != nil {
		return nil, err
	}
	return role.ReconstructRole(id, name, auditFrom(createdAt, createdBy, updatedAt, updatedBy)), nil
}
