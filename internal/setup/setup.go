package setup

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robalyx/frost/internal/database"
	"github.com/robalyx/frost/internal/database/migrations"
	"github.com/robalyx/frost/internal/lock"
	"github.com/robalyx/frost/internal/metrics"
	"github.com/robalyx/frost/internal/mute"
	"github.com/robalyx/frost/internal/redis"
	"github.com/robalyx/frost/internal/setup/config"
	"github.com/robalyx/frost/internal/setup/telemetry"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// ErrPendingMigrations indicates the schema is behind the compiled migrations.
var ErrPendingMigrations = errors.New("database migrations are pending, run the migrate command first")

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config       // Application configuration
	Logger       *zap.Logger          // Main application logger
	DBLogger     *zap.Logger          // Database-specific logger
	DB           database.Client      // Database connection pool
	RedisManager *redis.Manager       // Redis connection manager, nil when disabled
	Locker       mute.Locker          // Per-member lock shared by the coordinator
	Metrics      *metrics.Metrics     // Prometheus collectors for mute activity
	Registry     *prometheus.Registry // Registry served on the metrics endpoint
	LogManager   *telemetry.Manager   // Log management system
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, serviceType telemetry.ServiceType, logDir string) (*App, error) {
	// Load app configuration
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(serviceType, logDir, &cfg.Common.Debug)
	logManager.StartTracing(&cfg.Common.Telemetry, config.RepositoryVersion)

	logger, dbLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(ctx, &cfg.Common.Database, dbLogger)
	if err != nil {
		return nil, err
	}

	// Migrations only run from the migrate command; everything else requires an up-to-date schema
	if serviceType != telemetry.ServiceMigrate {
		if err := checkMigrations(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	// Redis backs the member lock when several bot processes share a database
	var (
		redisManager *redis.Manager
		locker       mute.Locker = lock.NewKeyedMutex()
	)
	if cfg.Common.Redis.Enabled {
		redisManager = redis.NewManager(&cfg.Common.Redis, logger)

		lockClient, err := redisManager.GetClient(redis.LockDBIndex)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		locker = lock.NewRedisLocker(lockClient, cfg.Bot.Moderation.LockDuration(), logger)
		logger.Info("Using redis member locks", zap.String("addr", redisManager.Address()))
	}

	// Each process gets its own registry so tests and commands never collide
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Bundle all initialized components
	return &App{
		Config:       cfg,
		Logger:       logger,
		DBLogger:     dbLogger.Named("database"),
		DB:           db,
		RedisManager: redisManager,
		Locker:       locker,
		Metrics:      metrics.New(registry),
		Registry:     registry,
		LogManager:   logManager,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(ctx context.Context) {
	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}

	// Flush pending spans
	s.LogManager.Stop(ctx)

	// Close database connections
	if err := s.DB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}

	// Close Redis connections last as other components might need it during cleanup
	if s.RedisManager != nil {
		s.RedisManager.Close()
	}
}

// checkMigrations fails if any migration has not been applied.
func checkMigrations(ctx context.Context, db database.Client, logger *zap.Logger) error {
	migrator := migrate.NewMigrator(db.DB(), migrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migration tables: %w", err)
	}

	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}

	if unapplied := ms.Unapplied(); len(unapplied) > 0 {
		logger.Error("Database schema is out of date", zap.Int("pending", len(unapplied)))
		return ErrPendingMigrations
	}

	return nil
}
