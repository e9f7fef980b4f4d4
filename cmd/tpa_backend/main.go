package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/planloop/trip_planner_app/cmd/docs"
	"github.com/planloop/trip_planner_app/internal/adapters/storage/fsstore"
	"github.com/planloop/trip_planner_app/internal/adapters/storage/pgstore"
	portsrepo "github.com/planloop/trip_planner_app/internal/core/ports/repositories"
	"github.com/planloop/trip_planner_app/internal/core/services"
	"github.com/planloop/trip_planner_app/internal/dto"
	"github.com/planloop/trip_planner_app/internal/handlers"
	"github.com/planloop/trip_planner_app/internal/middleware"
	"github.com/planloop/trip_planner_app/internal/platform/config"
	"github.com/planloop/trip_planner_app/internal/repositories/blob"
	"github.com/planloop/trip_planner_app/pkg/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Trip Planner API
// @version 1.0
// @description Command-journaled trip itinerary backend.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, cleanup, err := buildStorage(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	repos := portsrepo.RepositoryProvider{
		Store:            store,
		UserRepo:         blob.NewUserRepository(store),
		ExchangeRateRepo: blob.NewExchangeRateRepository(store),
		ConversationRepo: blob.NewConversationRepository(store),
	}

	serviceContainer := services.NewServiceContainer(cfg, repos)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dto.RegisterCustomValidators()

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildStorage selects the storage adapter from config and returns it
// with a cleanup function for any held connections.
func buildStorage(cfg *config.Config, logger *slog.Logger) (portsrepo.Storage, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDriverPgSQL:
		pool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Database connection pool established.")

		if err := runMigrations(cfg, logger); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return pgstore.New(pool), func() { database.ClosePgxPool(pool) }, nil

	default:
		logger.Info("Using filesystem storage", slog.String("dir", cfg.DataDir))
		return fsstore.NewOS(cfg.DataDir), func() {}, nil
	}
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection, as required by golang-migrate.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
