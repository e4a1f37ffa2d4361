package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"astrodyn-platform/internal/config"
	"astrodyn-platform/internal/handlers"
	"astrodyn-platform/internal/iers"
	"astrodyn-platform/internal/repository"
	"astrodyn-platform/internal/services"
	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/database"
	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/frames"
	"astrodyn-platform/pkg/iau"
	"astrodyn-platform/pkg/logging"
	"astrodyn-platform/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logLevel := logging.InfoLevel
	if cfg.Logging.Level == "debug" {
		logLevel = logging.DebugLevel
	}

	logger := logging.NewStructuredLogger("astrodyn-api", "1.0.0", logLevel)

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting astrodynamics platform API server", logging.Fields{
		"version":     "1.0.0",
		"server_host": cfg.Server.Host,
		"server_port": cfg.Server.Port,
		"db_host":     cfg.Database.Host,
		"db_name":     cfg.Database.Database,
		"eop_datadir": cfg.EOP.DataDir,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("astrodyn_platform")

	// Initialize database
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}

	db, err := database.NewPostgresDB(dbConfig, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	// Initialize repository
	eopRepo := repository.NewEOPRepository(db, logger, metricsCollector)

	// Initialize frame registry. Histories read stored datasets first and
	// fall back to raw product files under the data directory.
	registry := frames.NewRegistry(frames.Options{
		Logger:                 logger,
		Metrics:                metricsCollector,
		DefaultLoaders:         defaultLoaders(eopRepo, cfg.EOP.DataDir),
		CacheSlots:             cfg.Frames.CacheSlots,
		EOPContinuityThreshold: cfg.EOP.ContinuityDays * astrotime.SecondsPerDay,
	})

	// Initialize services
	transformService := services.NewTransformService(registry, logger, metricsCollector)
	coverageService := services.NewCoverageService(eopRepo, cfg.EOP.ContinuityDays, logger, metricsCollector)

	// Initialize handlers
	frameHandler := handlers.NewFrameHandler(transformService, coverageService, eopRepo, logger, metricsCollector)

	// Setup router
	router := mux.NewRouter()

	// Register routes
	frameHandler.RegisterRoutes(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}

// defaultLoaders chains the stored datasets ahead of the raw IERS files, so
// ingested data wins wherever both cover a date.
func defaultLoaders(repo repository.EOPRepository, dataDir string) func(iau.Convention) []eop.Loader {
	fromStore := repository.Loaders(repo)
	fromFiles := iers.DefaultLoaders(dataDir)
	return func(conv iau.Convention) []eop.Loader {
		return append(fromStore(conv), fromFiles(conv)...)
	}
}
