package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"astrodyn-platform/internal/config"
	"astrodyn-platform/internal/repository"
	"astrodyn-platform/internal/services"
	"astrodyn-platform/pkg/database"
	"astrodyn-platform/pkg/logging"
	"astrodyn-platform/pkg/metrics"
)

func main() {
	// Parse command-line flags
	dataDir := flag.String("data-dir", "./eop-data", "Directory containing IERS Earth orientation files")
	batchSize := flag.Int("batch-size", 1000, "Number of records to insert in each batch")
	reportCoverage := flag.Bool("coverage", false, "Report stored coverage after ingestion")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logLevel := logging.InfoLevel
	if cfg.Logging.Level == "debug" {
		logLevel = logging.DebugLevel
	}

	logger := logging.NewStructuredLogger("astrodyn-ingester", "1.0.0", logLevel)

	ctx := context.Background()
	logger.Info(ctx, "[INGESTER_START] Starting Earth orientation data ingestion", logging.Fields{
		"version":    "1.0.0",
		"data_dir":   *dataDir,
		"batch_size": *batchSize,
		"coverage":   *reportCoverage,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("astrodyn_ingester")

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
		logger.Fatal(ctx, "[INGESTER_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	// Initialize repository
	eopRepo := repository.NewEOPRepository(db, logger, metricsCollector)

	// Initialize services
	ingestionService := services.NewIngestionService(eopRepo, logger, metricsCollector)
	coverageService := services.NewCoverageService(eopRepo, cfg.EOP.ContinuityDays, logger, metricsCollector)

	// Ingest data
	result, err := ingestionService.IngestDirectory(ctx, *dataDir, *batchSize)
	if err != nil {
		logger.Fatal(ctx, "[INGESTION_ERROR] Ingestion failed", logging.Fields{
			"error": err.Error(),
		}, err)
	}

	// Print results
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("INGESTION COMPLETE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Total Files:        %d\n", result.TotalFiles)
	fmt.Printf("Total Datasets:     %d\n", result.TotalDatasets)
	fmt.Printf("Total Records:      %d\n", result.TotalRecords)
	fmt.Printf("Successful Records: %d\n", result.SuccessfulRecords)
	fmt.Printf("Failed Records:     %d\n", result.FailedRecords)
	fmt.Printf("Duration:           %v\n", result.Duration)
	fmt.Printf("Records/Second:     %.2f\n", float64(result.SuccessfulRecords)/result.Duration.Seconds())

	if len(result.Errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(result.Errors))
		for i, errMsg := range result.Errors {
			if i < 10 {
				fmt.Printf("  - %s\n", errMsg)
			}
		}
		if len(result.Errors) > 10 {
			fmt.Printf("  ... and %d more errors\n", len(result.Errors)-10)
		}
	}

	// Report coverage if requested
	if *reportCoverage {
		fmt.Println("\n" + strings.Repeat("=", 80))
		fmt.Println("STORED COVERAGE")
		fmt.Println(strings.Repeat("=", 80))

		summaries, err := coverageService.Coverage(ctx)
		if err != nil {
			logger.Error(ctx, "[COVERAGE_ERROR] Coverage report failed", logging.Fields{}, err)
			fmt.Printf("Coverage report failed: %v\n", err)
		} else {
			for _, summary := range summaries {
				fmt.Printf("IERS %s: MJD %.1f to %.1f, %d entries, largest gap %.2f days, continuous=%v\n",
					summary.Convention, summary.StartMJD, summary.EndMJD,
					summary.EntryCount, summary.LargestGapDays, summary.Continuous)
			}
		}
	}

	logger.Info(ctx, "[INGESTER_COMPLETE] Ingestion completed successfully", logging.Fields{
		"total_files":        result.TotalFiles,
		"total_datasets":     result.TotalDatasets,
		"successful_records": result.SuccessfulRecords,
		"failed_records":     result.FailedRecords,
		"duration_seconds":   result.Duration.Seconds(),
	})
}
