// Package main creates the schema and seeds the default app-management data.
package main

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/domain/rolemenu"
	"github.com/bmuptt/be-app-management/internal/domain/user"
	"github.com/bmuptt/be-app-management/internal/infrastructure/config"
	"github.com/bmuptt/be-app-management/internal/infrastructure/password"
	"github.com/bmuptt/be-app-management/internal/infrastructure/postgres"
	"github.com/bmuptt/be-app-management/pkg/logger"
)

//go:embed schema.sql
var schema string

// seedMenu defines a menu to seed. Parent refers to another seedMenu key.
type seedMenu struct {
	Key    string
	Name   string
	URL    string
	Parent string
}

// defaultMenus returns the management menus in insertion order.
func defaultMenus() []seedMenu {
	return []seedMenu{
		{Key: "app-management", Name: "App Management"},
		{Key: "menu", Name: "Menu", URL: "/app-management/menu", Parent: "app-management"},
		{Key: "role", Name: "Role", URL: "/app-management/role", Parent: "app-management"},
		{Key: "user", Name: "User", URL: "/app-management/user", Parent: "app-management"},
	}
}

func main() {
	logger.Setup(os.Getenv("LOG_LEVEL"), "console")

	log.Info().Msg("Starting database seeding...")

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	log.Info().Msg("Seeding completed successfully")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close database connection")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123"
	}
	hash, err := password.Hash(adminPassword, cfg.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}

		roleID, err := seedSuperAdminRole(ctx, tx)
		if err != nil {
			return fmt.Errorf("failed to seed role: %w", err)
		}

		if err := seedAdminUser(ctx, tx, cfg.Security.SuperAdminEmail, hash, roleID); err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}

		menuIDs, err := seedMenus(ctx, tx)
		if err != nil {
			return fmt.Errorf("failed to seed menus: %w", err)
		}

		if err := seedRoleMenus(ctx, tx, roleID, menuIDs); err != nil {
			return fmt.Errorf("failed to seed role menus: %w", err)
		}
		return nil
	})
}

// seedSuperAdminRole inserts the system role and returns its id.
func seedSuperAdminRole(ctx context.Context, tx *sql.Tx) (int64, error) {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, role.SuperAdminName,
	); err != nil {
		return 0, err
	}

	// Retrieve the actual ID (may differ if row already existed)
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM roles WHERE name = $1`, role.SuperAdminName).Scan(&id); err != nil {
		return 0, err
	}

	log.Info().Str("role", role.SuperAdminName).Int64("role_id", id).Msg("Role seeded")
	return id, nil
}

// seedAdminUser creates the super admin account. An existing account keeps its password.
func seedAdminUser(ctx context.Context, tx *sql.Tx, email, hash string, roleID int64) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (email, name, password, role_id, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET role_id = EXCLUDED.role_id`,
		email, "Super Admin", hash, roleID, string(user.StatusActive),
	); err != nil {
		return err
	}

	log.Info().Str("email", email).Msg("Admin user seeded")
	return nil
}

// seedMenus inserts the management menus and returns a map of key -> id.
func seedMenus(ctx context.Context, tx *sql.Tx) (map[string]int64, error) {
	ids := make(map[string]int64)
	order := make(map[string]int)

	for _, m := range defaultMenus() {
		var parentID *int64
		if m.Parent != "" {
			pid, ok := ids[m.Parent]
			if !ok {
				return nil, fmt.Errorf("parent %s of %s not seeded", m.Parent, m.Key)
			}
			parentID = &pid
		}
		var url *string
		if m.URL != "" {
			url = &m.URL
		}
		order[m.Parent]++

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO menus (key_menu, name, order_number, url, parent_id, active)
			VALUES ($1, $2, $3, $4, $5, 'Active')
			ON CONFLICT (key_menu) DO NOTHING`,
			m.Key, m.Name, order[m.Parent], url, parentID,
		); err != nil {
			return nil, fmt.Errorf("failed to insert menu %s: %w", m.Key, err)
		}

		var id int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM menus WHERE key_menu = $1`, m.Key).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to retrieve id for menu %s: %w", m.Key, err)
		}
		ids[m.Key] = id
	}

	log.Info().Int("count", len(ids)).Msg("Menus seeded")
	return ids, nil
}

// seedRoleMenus grants every flag on every seeded menu to the super admin role.
func seedRoleMenus(ctx context.Context, tx *sql.Tx, roleID int64, menuIDs map[string]int64) error {
	full := rolemenu.Full()
	for key, menuID := range menuIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO role_menus (role_id, menu_id, access, "create", "update", "delete", approval, approval_2, approval_3)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (role_id, menu_id) DO NOTHING`,
			roleID, menuID,
			full.Access, full.Create, full.Update, full.Delete, full.Approval, full.Approval2, full.Approval3,
		); err != nil {
			return fmt.Errorf("failed to grant menu %s: %w", key, err)
		}
	}

	log.Info().Int64("role_id", roleID).Int("menus", len(menuIDs)).Msg("Role menus seeded")
	return nil
}
