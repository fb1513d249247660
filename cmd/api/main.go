// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/commerce-analytics/internal/config"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/memory"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/mongo"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/postgres"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/redis"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/sample"
	"github.com/your-org/commerce-analytics/internal/interfaces/http"
	"github.com/your-org/commerce-analytics/internal/pkg/export"
	"github.com/your-org/commerce-analytics/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// run wires the service and blocks until shutdown. Opened connections are closed before it
// returns, including on startup failures.
func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.New(cfg.Logging)
	appLogger.WithFields(logrus.Fields{
		"version":      cfg.App.Version,
		"environment":  cfg.App.Environment,
		"store_driver": cfg.App.StoreDriver,
	}).Infof("🚀 Starting %s", cfg.App.Name)

	checks := map[string]http.HealthCheck{}
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	// Connect to the record store
	store, err := openStore(cfg, checks, &closers)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}

	analyticsService := analytics.NewService(store, analytics.OptionsFromConfig(cfg.Analytics), appLogger)
	export.Register(analyticsService, cfg.Export)

	deps := http.Dependencies{
		Analytics:    analyticsService,
		Logger:       appLogger,
		HealthChecks: checks,
	}

	// Connect to Redis for the report cache and rate limiting
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewConnection(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		closers = append(closers, func() { redisClient.Close() })
		checks["redis"] = redisClient.Health

		analyticsService.UseCache(redis.NewReportCache(redisClient, redis.ReportCachePrefix), cfg.Analytics.CacheTTL)
		deps.RateLimiter = redis.NewRateLimiter(redisClient, cfg.Security.RateLimitPerMinute, time.Minute)
	}

	appLogger.Info("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, deps)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for interrupt signal or a server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	appLogger.Info("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLogger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	appLogger.Info("✅ Server shutdown completed")
	return nil
}

// openStore connects the configured record store and registers its health check
func openStore(cfg *config.Config, checks map[string]http.HealthCheck, closers *[]func()) (analytics.Store, error) {
	switch cfg.App.StoreDriver {
	case config.StoreDriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
		defer cancel()

		conn, err := mongo.NewConnection(ctx, cfg)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func() { conn.Close(context.Background()) })
		checks["mongo"] = conn.Health

		if err := mongo.EnsureIndexes(ctx, conn.DB); err != nil {
			log.Printf("Warning: Index creation failed: %v", err)
		}
		if cfg.Database.Seed {
			if err := mongo.Seed(ctx, conn.DB, time.Now()); err != nil {
				log.Printf("Warning: Data seeding failed: %v", err)
			}
		}
		return mongo.NewAnalyticsStore(conn.DB), nil

	case config.StoreDriverMemory:
		store := memory.NewStore()
		store.Load(sample.Build(time.Now()))
		return store, nil

	default:
		db, err := postgres.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func() { postgres.Close(db) })
		checks["database"] = func(ctx context.Context) error { return postgres.Health(ctx, db) }

		// Schema setup is for development databases only
		if cfg.Database.AutoMigrate || cfg.Database.Seed {
			migration := postgres.NewMigration(db)
			if err := migration.RunAutoMigrations(); err != nil {
				return nil, err
			}
			if err := migration.CreateIndexes(); err != nil {
				log.Printf("Warning: Index creation failed: %v", err)
			}
			if cfg.Database.Seed {
				if err := migration.SeedInitialData(time.Now()); err != nil {
					log.Printf("Warning: Data seeding failed: %v", err)
				}
			}
		}
		return postgres.NewAnalyticsStore(db), nil
	}
}
