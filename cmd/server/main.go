// Package main is the entry point for the app-management service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	authapp "github.com/bmuptt/be-app-management/internal/application/auth"
	menuapp "github.com/bmuptt/be-app-management/internal/application/menu"
	rolemenuapp "github.com/bmuptt/be-app-management/internal/application/rolemenu"
	"github.com/bmuptt/be-app-management/internal/delivery/httpdelivery"
	domainAuth "github.com/bmuptt/be-app-management/internal/domain/auth"
	"github.com/bmuptt/be-app-management/internal/infrastructure/config"
	"github.com/bmuptt/be-app-management/internal/infrastructure/jwt"
	"github.com/bmuptt/be-app-management/internal/infrastructure/password"
	"github.com/bmuptt/be-app-management/internal/infrastructure/postgres"
	redisinfra "github.com/bmuptt/be-app-management/internal/infrastructure/redis"
	"github.com/bmuptt/be-app-management/internal/infrastructure/tracing"
	"github.com/bmuptt/be-app-management/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Service failed")
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	logger.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg.Logger.Level, cfg.Logger.Format)

	log.Info().
		Str("service", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Env).
		Msg("Starting app-management service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Setup tracing (optional)
	cleanupTracing := setupTracing(ctx, cfg)
	defer cleanupTracing()

	// Setup database
	db, err := setupDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	// Setup Redis (optional - graceful degradation)
	redisClient, blacklist, attempts := setupRedis(cfg)
	if redisClient != nil {
		defer closeRedis(redisClient)
	}

	// Setup infrastructure services
	jwtService := jwt.NewService(&cfg.JWT)
	hasher := password.NewHasher(&cfg.Security)

	// Setup repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	menuRepo := postgres.NewMenuRepository(db)
	roleMenuRepo := postgres.NewRoleMenuRepository(db)

	// Setup application services
	authService := authapp.NewService(
		userRepo, roleRepo, menuRepo, roleMenuRepo,
		jwtService, hasher,
		blacklist, attempts,
		&cfg.Security,
	)
	menuService := menuapp.NewService(menuRepo)
	roleMenuService := rolemenuapp.NewService(roleRepo, menuRepo, roleMenuRepo)

	// Setup HTTP handlers
	validator := httpdelivery.NewValidator()
	handlers := httpdelivery.Handlers{
		Auth:     httpdelivery.NewAuthHandler(authService, validator),
		Menu:     httpdelivery.NewMenuHandler(menuService, validator),
		RoleMenu: httpdelivery.NewRoleMenuHandler(roleMenuService, validator),
		Role:     httpdelivery.NewRoleHandler(roleRepo, cfg.Security.SuperAdminEmail, validator),
		User:     httpdelivery.NewUserHandler(userRepo, roleRepo, hasher, validator),
	}

	opts := []httpdelivery.Option{
		httpdelivery.WithCORS(cfg.CORS.AllowedOrigins, 0),
		httpdelivery.WithRateLimit(&cfg.RateLimit),
		httpdelivery.WithReadinessCheck("postgres", db),
	}
	if redisClient != nil {
		opts = append(opts, httpdelivery.WithReadinessCheck("redis", redisClient))
	}
	httpServer := httpdelivery.NewServer(&cfg.Server, authService, handlers, opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
		defer cancel()
		return httpServer.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("Server shutdown complete")
	return nil
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 10 * time.Second
}

// setupTracing initializes tracing and returns a cleanup function.
func setupTracing(ctx context.Context, cfg *config.Config) func() {
	provider, err := tracing.NewProvider(ctx, &cfg.Tracing, &cfg.App)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to setup tracing, continuing without it")
		return func() {}
	}
	if !provider.Enabled() {
		return func() {}
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to shutdown tracing provider")
		}
	}
}

// setupDatabase creates a database connection.
func setupDatabase(cfg *config.Config) (*postgres.DB, error) {
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Name).
		Msg("Database connection established")

	return db, nil
}

// closeDatabase closes the database connection.
func closeDatabase(db *postgres.DB) {
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close database connection")
	}
}

// setupRedis creates a Redis connection. Without Redis, logout does not
// revoke tokens and login lockout is disabled.
func setupRedis(cfg *config.Config) (*redisinfra.Client, domainAuth.TokenBlacklist, domainAuth.LoginAttemptTracker) {
	client, err := redisinfra.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis, continuing without token revocation")
		return nil, nil, nil
	}

	log.Info().
		Str("host", cfg.Redis.Host).
		Int("port", cfg.Redis.Port).
		Msg("Redis connection established")

	return client, redisinfra.NewTokenBlacklist(client), redisinfra.NewLoginAttemptCache(client)
}

// closeRedis closes the Redis connection.
func closeRedis(client *redisinfra.Client) {
	if err := client.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close Redis connection")
	}
}
