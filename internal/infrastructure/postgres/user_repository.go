package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bmuptt/be-app-management/internal/domain/user"
)

const userColumns = `id, email, name, password, role_id, active,
	created_by, created_at, updated_by, updated_at`

// UserRepository implements user.Repository interface.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		INSERT INTO users (email, name, password, role_id, active, created_by, created_at, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $6, $7)
		RETURNING ` + userColumns
	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		u.Email(), u.Name(), u.PasswordHash(), u.RoleID(), string(u.Active()),
		u.Audit().CreatedBy, u.Audit().CreatedAt,
	))
	if err != nil {
		return nil, translateError(err, "create user")
	}
	return created, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "get user")
	}
	return u, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translateError(err, "get user by email")
	}
	return u, nil
}

// Update updates a user.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users SET email = $2, name = $3, password = $4, role_id = $5, active = $6,
			updated_by = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		u.ID(), u.Email(), u.Name(), u.PasswordHash(), u.RoleID(), string(u.Active()),
		u.Audit().UpdatedBy, u.Audit().UpdatedAt,
	)
	if err != nil {
		return translateError(err, "update user")
	}
	return expectAffected(result)
}

// Delete deletes a user.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "delete user")
	}
	return expectAffected(result)
}

// List lists users with pagination.
func (r *UserRepository) List(ctx context.Context, params user.ListParams) ([]*user.User, int64, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argIndex := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", argIndex, argIndex))
		args = append(args, searchPattern(params.Search))
		argIndex++
	}
	if params.RoleID != nil {
		conditions = append(conditions, fmt.Sprintf("role_id = $%d", argIndex))
		args = append(args, *params.RoleID)
		argIndex++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", argIndex))
		args = append(args, string(*params.Status))
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM users WHERE %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	orderBy := "id DESC"
	if params.SortBy != "" && user.IsSortableField(params.SortBy) {
		orderBy = params.SortBy + " " + sortDirection(params.SortOrder)
	}

	dataQuery := fmt.Sprintf("SELECT %s FROM users WHERE %s ORDER BY %s", userColumns, whereClause, orderBy)
	if params.Limited() {
		dataQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, params.PageSize, params.Offset())
	}

	rows, err := r.db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer closeRows(rows, "List users")

	users := []*user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, total, nil
}

// ExistsByEmail checks if another user uses email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		id                    int64
		email, name, password string
		roleID                sql.NullInt64
		active                string
		createdBy             sql.NullInt64
		createdAt             time.Time
		updatedBy             sql.NullInt64
		updatedAt             time.Time
	)
	if err := row.Scan(
		&id, &email, &name, &password, &roleID, &active,
		&createdBy, &createdAt, &updatedBy, &updatedAt,
	); err != nil {
		return nil, err
	}
	return user.ReconstructUser(id, email, name, password, nullInt64ToPtr(roleID), user.Status(active),
		auditFrom(createdAt, createdBy, updatedAt, updatedBy)), nil
}
