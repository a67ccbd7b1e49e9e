package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/tanmay/placementdesk/internal/app/controllers"
	appMigrations "github.com/tanmay/placementdesk/internal/app/migrations"
	appRepos "github.com/tanmay/placementdesk/internal/app/repositories"
	appRoutes "github.com/tanmay/placementdesk/internal/app/routes"
	appServices "github.com/tanmay/placementdesk/internal/app/services"
	"github.com/tanmay/placementdesk/internal/config"
	"github.com/tanmay/placementdesk/internal/db"
	"github.com/tanmay/placementdesk/internal/pkg/cache"
	"github.com/tanmay/placementdesk/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	PlacementService    *appServices.PlacementService
	IngestService       *appServices.IngestService
	PlacementController *appControllers.PlacementController
	Repos               *appRepos.Repositories
	DatasetCache        *cache.DatasetCache
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := "configs/config.yaml"
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// SetupDatasetCache connects the optional Redis dataset cache. A missing
// Redis address disables caching; a nil cache is safe to use everywhere.
func SetupDatasetCache(cfg *config.Config, lgr zerolog.Logger) (*cache.DatasetCache, error) {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("No Redis address configured, dataset cache disabled")
		return nil, nil
	}

	ttl, err := time.ParseDuration(cfg.Redis.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis cache TTL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	datasetCache, err := cache.NewDatasetCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, ttl)
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		return nil, err
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", ttl).Msg("Dataset cache connected")
	return datasetCache, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	datasetCache, err := SetupDatasetCache(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup dataset cache: %w", err)
	}
	deps.DatasetCache = datasetCache

	deps.PlacementService = appServices.NewPlacementService(deps.Repos.PlacementRepository, datasetCache, lgr)
	deps.IngestService = appServices.NewIngestService(deps.Repos.PlacementRepository, datasetCache, lgr)

	deps.PlacementController = appControllers.NewPlacementController(deps.PlacementService, deps.IngestService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router, deps.PlacementController)

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
