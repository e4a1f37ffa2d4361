// Package services holds the application services gluing the frame and EOP
// core to the persistence and API layers.
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"astrodyn-platform/internal/iers"
	"astrodyn-platform/internal/models"
	"astrodyn-platform/internal/repository"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/iau"
	"astrodyn-platform/pkg/logging"
	"astrodyn-platform/pkg/metrics"
)

// IngestionService loads Earth orientation product files into the store.
type IngestionService struct {
	repo    repository.EOPRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// IngestionResult contains ingestion statistics.
type IngestionResult struct {
	TotalFiles        int
	TotalDatasets     int
	TotalRecords      int
	SuccessfulRecords int
	FailedRecords     int
	Duration          time.Duration
	Errors            []string
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(repo repository.EOPRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *IngestionService {
	return &IngestionService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// productFile is one recognized file queued for ingestion.
type productFile struct {
	path string
	info iers.FileInfo
}

// IngestDirectory ingests every recognized Earth orientation file from a
// directory. A file publishing non-rotating-origin corrections feeds both
// the 2003 and 2010 conventions, so it produces one dataset per convention.
func (s *IngestionService) IngestDirectory(ctx context.Context, dataDir string, batchSize int) (*IngestionResult, error) {
	startTime := time.Now()

	s.logger.Info(ctx, "[INGEST_START] Starting Earth orientation ingestion", logging.Fields{
		"data_dir":   dataDir,
		"batch_size": batchSize,
		"stage":      "INITIALIZATION",
	})

	result := &IngestionResult{
		Errors: make([]string, 0),
	}

	dirEntries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading directory %s", dataDir)
	}

	files := make([]productFile, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		info, ok := iers.Classify(de.Name())
		if !ok {
			continue
		}
		files = append(files, productFile{path: filepath.Join(dataDir, de.Name()), info: info})
	}

	if len(files) == 0 {
		return nil, errors.Newf("no Earth orientation files found in %s", dataDir)
	}

	result.TotalFiles = len(files)

	s.logger.Info(ctx, "[INGEST_FILES] Found product files", logging.Fields{
		"file_count": len(files),
		"stage":      "FILE_DISCOVERY",
	})

	for _, file := range files {
		for _, convention := range file.info.Conventions() {
			fileResult, err := s.ingestFile(ctx, file.path, file.info, convention, batchSize)
			if err != nil {
				errMsg := fmt.Sprintf("failed to ingest %s for conventions %s: %v", file.path, convention, err)
				result.Errors = append(result.Errors, errMsg)
				s.logger.Error(ctx, "[INGEST_FILE_ERROR] File ingestion failed", logging.Fields{
					"file_path":  file.path,
					"convention": convention.String(),
					"stage":      "FILE_PROCESSING",
				}, err)
				s.metrics.RecordIngestionError("file_error")
				continue
			}

			result.TotalDatasets++
			result.TotalRecords += fileResult.TotalRecords
			result.SuccessfulRecords += fileResult.SuccessfulRecords
			result.FailedRecords += fileResult.FailedRecords

			s.logger.Info(ctx, "[INGEST_FILE_SUCCESS] File ingested", logging.Fields{
				"file_path":          file.path,
				"convention":         convention.String(),
				"total_records":      fileResult.TotalRecords,
				"successful_records": fileResult.SuccessfulRecords,
				"failed_records":     fileResult.FailedRecords,
				"stage":              "FILE_COMPLETE",
			})
		}
	}

	result.Duration = time.Since(startTime)
	s.metrics.IngestionDuration.Observe(result.Duration.Seconds())

	s.logger.Info(ctx, "[INGEST_COMPLETE] Earth orientation ingestion completed", logging.Fields{
		"total_files":        result.TotalFiles,
		"total_datasets":     result.TotalDatasets,
		"total_records":      result.TotalRecords,
		"successful_records": result.SuccessfulRecords,
		"failed_records":     result.FailedRecords,
		"duration_seconds":   result.Duration.Seconds(),
		"error_count":        len(result.Errors),
		"stage":              "COMPLETE",
	})

	return result, nil
}

// FileIngestionResult contains per-dataset ingestion statistics.
type FileIngestionResult struct {
	TotalRecords      int
	SuccessfulRecords int
	FailedRecords     int
}

// ingestFile parses a single product file for one convention and stores it
// as a new dataset.
func (s *IngestionService) ingestFile(ctx context.Context, path string, info iers.FileInfo, convention iau.Convention, batchSize int) (*FileIngestionResult, error) {
	entries, err := iers.ParseFile(path, info, convention.NutationCorrectionConverter())
	if err != nil {
		s.metrics.RecordIngestionError("parse_error")
		return nil, err
	}

	result := &FileIngestionResult{TotalRecords: len(entries)}

	rows := make([]models.EOPEntryRow, 0, len(entries))
	for _, entry := range entries {
		row := models.FromEntry(0, entry)
		if err := row.Validate(); err != nil {
			result.FailedRecords++
			s.metrics.RecordIngestionError("validation_error")
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.Newf("no usable rows in %s", path)
	}

	dataset := &models.EOPDataset{
		Convention: convention.String(),
		Source:     filepath.Base(path),
		Format:     info.Format.String(),
		StartMJD:   rows[0].MJD,
		EndMJD:     rows[len(rows)-1].MJD,
		EntryCount: len(rows),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.CreateDataset(ctx, dataset); err != nil {
		return nil, errors.Wrapf(err, "creating dataset for %s", path)
	}

	batch := make([]models.EOPEntryRow, 0, batchSize)
	for i := range rows {
		rows[i].DatasetID = dataset.ID
		batch = append(batch, rows[i])

		if len(batch) >= batchSize {
			if err := s.repo.InsertEntriesBatch(ctx, batch); err != nil {
				return nil, errors.Wrap(err, "inserting batch")
			}
			result.SuccessfulRecords += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := s.repo.InsertEntriesBatch(ctx, batch); err != nil {
			return nil, errors.Wrap(err, "inserting final batch")
		}
		result.SuccessfulRecords += len(batch)
	}

	return result, nil
}
