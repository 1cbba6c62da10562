package postgres_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/bmuptt/be-app-management/internal/infrastructure/postgres"
)

// newMockDB returns a DB backed by sqlmock. Expectations are verified on cleanup.
func newMockDB(t *testing.T) (*postgres.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return &postgres.DB{DB: db}, mock
}

var menuCols = []string{
	"id", "key_menu", "name", "order_number", "url", "parent_id", "active",
	"created_by", "created_at", "updated_by", "updated_at",
}

func menuRow(rows *sqlmock.Rows, id int64, key string, order int, parentID interface{}, active string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, key, key, order, nil, parentID, active, int64(1), now, int64(1), now)
}

func int64Ptr(v int64) *int64 { return &v }
