package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/bmuptt/be-app-management/internal/domain/shared"
)

const (
	sortASC  = "ASC"
	sortDESC = "DESC"
)

// PostgreSQL error codes mapped to domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps driver errors to domain sentinels and wraps everything else.
func translateError(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return shared.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("failed to %s: %w", action, shared.ErrAlreadyExists)
		case pgForeignKeyViolation:
			return fmt.Errorf("failed to %s: %w", action, shared.ErrNotFound)
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// expectAffected returns ErrNotFound when a write touched no rows.
func expectAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func closeRows(rows *sql.Rows, op string) {
	if err := rows.Close(); err != nil {
		log.Warn().Err(err).Msgf("failed to close rows in %s", op)
	}
}

func sortDirection(order string) string {
	if strings.EqualFold(order, sortASC) {
		return sortASC
	}
	return sortDESC
}

func nullInt64ToPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullStringToPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func auditFrom(createdAt time.Time, createdBy sql.NullInt64, updatedAt time.Time, updatedBy sql.NullInt64) shared.AuditInfo {
	return shared.AuditInfo{
		CreatedAt: createdAt,
		CreatedBy: nullInt64ToPtr(createdBy),
		UpdatedAt: updatedAt,
		UpdatedBy: nullInt64ToPtr(updatedBy),
	}
}

// searchPattern builds an ILIKE pattern, escaping wildcard characters in the term.
func searchPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
