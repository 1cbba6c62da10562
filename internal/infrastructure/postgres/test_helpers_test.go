package postgres_test

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/infrastructure/config"
	"github.com/bmuptt/be-app-management/internal/infrastructure/postgres"
)

const schemaPath = "../../../seeds/schema.sql"

func skipIfNoIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test (set INTEGRATION_TEST=true)")
	}
}

// setupTestDB connects to the test database and applies the schema.
func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	skipIfNoIntegration(t)

	cfg := &config.DatabaseConfig{
		Host:            envOrDefault("TEST_DB_HOST", "localhost"),
		Port:            intEnvOrDefault("TEST_DB_PORT", 5432),
		User:            envOrDefault("TEST_DB_USER", "postgres"),
		Password:        envOrDefault("TEST_DB_PASSWORD", "postgres"),
		Name:            envOrDefault("TEST_DB_NAME", "app_management_test"),
		SSLMode:         envOrDefault("TEST_DB_SSLMODE", "disable"),
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}

	db, err := postgres.NewConnection(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile(schemaPath)
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(), string(schema))
	require.NoError(t, err)

	return db
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func intEnvOrDefault(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func uniqueSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// cleanupMenus hard-deletes every menu whose key starts with prefix, leaves first.
// Permission rows go with them through the foreign key.
func cleanupMenus(t *testing.T, db *postgres.DB, prefix string) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		result, err := db.ExecContext(ctx, `
			DELETE FROM menus m
			WHERE m.key_menu LIKE $1
			AND NOT EXISTS (SELECT 1 FROM menus c WHERE c.parent_id = m.id)`, prefix+"%")
		if err != nil {
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return
		}
	}
}

// createTestRole inserts a role that is removed when the test ends.
func createTestRole(t *testing.T, db *postgres.DB) *role.Role {
	t.Helper()
	rl, err := role.NewRole("Test Role "+uniqueSuffix(), nil)
	require.NoError(t, err)

	created, err := postgres.NewRoleRepository(db).Create(context.Background(), rl)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DELETE FROM roles WHERE id = $1", created.ID())
	})
	return created
}
