// Package repository provides PostgreSQL persistence for ingested Earth
// orientation products.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"astrodyn-platform/internal/models"
	"astrodyn-platform/pkg/database"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/iau"
	"astrodyn-platform/pkg/logging"
	"astrodyn-platform/pkg/metrics"
)

// EOPRepository provides data access for Earth orientation data.
type EOPRepository interface {
	// Dataset operations
	CreateDataset(ctx context.Context, dataset *models.EOPDataset) error
	GetDataset(ctx context.Context, id int64) (*models.EOPDataset, error)
	ListDatasets(ctx context.Context, filter DatasetFilter) ([]*models.EOPDataset, int, error)

	// Entry operations
	InsertEntriesBatch(ctx context.Context, entries []models.EOPEntryRow) error
	EntriesForConvention(ctx context.Context, convention iau.Convention) ([]models.EOPEntryRow, error)

	// Coverage operations
	CoverageForConvention(ctx context.Context, convention iau.Convention) (*models.CoverageSummary, error)

	// Utility operations
	HealthCheck(ctx context.Context) error
}

// DatasetFilter defines filters for querying ingested datasets.
type DatasetFilter struct {
	Convention *string
	Format     *string
	Limit      int
	Offset     int
}

// eopRepository implements EOPRepository.
type eopRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewEOPRepository creates a new Earth orientation repository.
func NewEOPRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) EOPRepository {
	return &eopRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// CreateDataset records one ingested product and fills in its generated ID.
func (r *eopRepository) CreateDataset(ctx context.Context, dataset *models.EOPDataset) error {
	query := `
		INSERT INTO eop_datasets (convention, source, format, start_mjd, end_mjd, entry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		dataset.Convention,
		dataset.Source,
		dataset.Format,
		dataset.StartMJD,
		dataset.EndMJD,
		dataset.EntryCount,
		dataset.CreatedAt,
	).Scan(&dataset.ID)

	if err != nil {
		return errors.Wrap(err, "creating dataset")
	}

	r.logger.Debug(ctx, "[REPO_CREATE_DATASET] Dataset created", logging.Fields{
		"dataset_id": dataset.ID,
		"convention": dataset.Convention,
		"source":     dataset.Source,
		"format":     dataset.Format,
	})

	return nil
}

// GetDataset retrieves a dataset by ID.
func (r *eopRepository) GetDataset(ctx context.Context, id int64) (*models.EOPDataset, error) {
	query := `
		SELECT id, convention, source, format, start_mjd, end_mjd, entry_count, created_at
		FROM eop_datasets
		WHERE id = $1
	`

	var dataset models.EOPDataset
	err := r.db.GetContext(ctx, "get_dataset", &dataset, query, id)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{
			Resource: "eop_dataset",
			ID:       fmt.Sprintf("%d", id),
		}
	}

	if err != nil {
		return nil, errors.Wrap(err, "getting dataset")
	}

	return &dataset, nil
}

// ListDatasets retrieves ingested datasets with filtering and pagination,
// newest first.
func (r *eopRepository) ListDatasets(ctx context.Context, filter DatasetFilter) ([]*models.EOPDataset, int, error) {
	query := `
		SELECT id, convention, source, format, start_mjd, end_mjd, entry_count, created_at
		FROM eop_datasets
		WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.Convention != nil {
		query += fmt.Sprintf(" AND convention = $%d", argNum)
		args = append(args, *filter.Convention)
		argNum++
	}

	if filter.Format != nil {
		query += fmt.Sprintf(" AND format = $%d", argNum)
		args = append(args, *filter.Format)
		argNum++
	}

	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS count_query"
	var totalCount int
	err := r.db.GetContext(ctx, "count_datasets", &totalCount, countQuery, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting datasets")
	}

	query += " ORDER BY created_at DESC, id DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var datasets []*models.EOPDataset
	err = r.db.SelectContext(ctx, "list_datasets", &datasets, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing datasets")
	}

	return datasets, totalCount, nil
}

// InsertEntriesBatch inserts tabulation rows in a single transaction. Rows
// that collide on (dataset_id, mjd) overwrite the stored values.
func (r *eopRepository) InsertEntriesBatch(ctx context.Context, entries []models.EOPEntryRow) error {
	if len(entries) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		duration := time.Since(timer)
		r.metrics.IngestionBatchSize.Observe(float64(len(entries)))
		r.logger.Debug(ctx, "[REPO_BATCH_INSERT] Batch insert completed", logging.Fields{
			"count":       len(entries),
			"duration_ms": duration.Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO eop_entries (
			dataset_id, mjd,
			dut1, lod, pole_x, pole_y,
			ddpsi, ddeps, dx, dy,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (dataset_id, mjd) DO UPDATE SET
			dut1 = EXCLUDED.dut1,
			lod = EXCLUDED.lod,
			pole_x = EXCLUDED.pole_x,
			pole_y = EXCLUDED.pole_y,
			ddpsi = EXCLUDED.ddpsi,
			ddeps = EXCLUDED.ddeps,
			dx = EXCLUDED.dx,
			dy = EXCLUDED.dy
	`)
	if err != nil {
		return errors.Wrap(err, "preparing statement")
	}
	defer stmt.Close()

	for _, entry := range entries {
		_, err := stmt.ExecContext(ctx,
			entry.DatasetID,
			entry.MJD,
			entry.DUT1,
			entry.LOD,
			entry.PoleX,
			entry.PoleY,
			entry.DDPsi,
			entry.DDEps,
			entry.DX,
			entry.DY,
			entry.CreatedAt,
		)
		if err != nil {
			return errors.Wrapf(err, "inserting entry at MJD %.2f", entry.MJD)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}

	r.metrics.IngestionRecordsTotal.Add(float64(len(entries)))

	return nil
}

// EntriesForConvention returns the stored tabulation for one convention,
// taking the newest dataset per source. Final series rows come before
// rapid-data rows so that where products overlap the measured values win
// once fed through a collection.
func (r *eopRepository) EntriesForConvention(ctx context.Context, convention iau.Convention) ([]models.EOPEntryRow, error) {
	query := `
		SELECT e.id, e.dataset_id, e.mjd,
		       e.dut1, e.lod, e.pole_x, e.pole_y,
		       e.ddpsi, e.ddeps, e.dx, e.dy,
		       e.created_at
		FROM eop_entries e
		JOIN (
			SELECT DISTINCT ON (source) id, format
			FROM eop_datasets
			WHERE convention = $1
			ORDER BY source, created_at DESC
		) d ON e.dataset_id = d.id
		ORDER BY CASE WHEN d.format = $2 THEN 0 ELSE 1 END, e.mjd
	`

	var entries []models.EOPEntryRow
	err := r.db.SelectContext(ctx, "entries_for_convention", &entries, query,
		convention.String(), models.DatasetFormatC04)
	if err != nil {
		return nil, errors.Wrapf(err, "getting entries for conventions %s", convention)
	}

	return entries, nil
}

// CoverageForConvention computes the stored span, entry count and largest
// tabulation hole for one convention across the newest dataset per source.
func (r *eopRepository) CoverageForConvention(ctx context.Context, convention iau.Convention) (*models.CoverageSummary, error) {
	timer := time.Now()
	defer func() {
		duration := time.Since(timer)
		r.logger.Debug(ctx, "[REPO_COVERAGE] Coverage computed", logging.Fields{
			"convention":  convention.String(),
			"duration_ms": duration.Milliseconds(),
		})
	}()

	query := `
		WITH latest AS (
			SELECT DISTINCT ON (source) id
			FROM eop_datasets
			WHERE convention = $1
			ORDER BY source, created_at DESC
		),
		points AS (
			SELECT DISTINCT mjd
			FROM eop_entries
			WHERE dataset_id IN (SELECT id FROM latest)
		),
		gaps AS (
			SELECT mjd - LAG(mjd) OVER (ORDER BY mjd) AS gap
			FROM points
		)
		SELECT
			COUNT(*) AS entry_count,
			COALESCE(MIN(mjd), 0) AS start_mjd,
			COALESCE(MAX(mjd), 0) AS end_mjd,
			COALESCE((SELECT MAX(gap) FROM gaps), 0) AS largest_gap_days
		FROM points
	`

	var result struct {
		EntryCount     int     `db:"entry_count"`
		StartMJD       float64 `db:"start_mjd"`
		EndMJD         float64 `db:"end_mjd"`
		LargestGapDays float64 `db:"largest_gap_days"`
	}

	err := r.db.GetContext(ctx, "coverage_for_convention", &result, query, convention.String())
	if err != nil {
		return nil, errors.Wrapf(err, "computing coverage for conventions %s", convention)
	}

	if result.EntryCount == 0 {
		return nil, &NotFoundError{
			Resource: "eop_coverage",
			ID:       convention.String(),
		}
	}

	return &models.CoverageSummary{
		Convention:     convention.String(),
		StartMJD:       result.StartMJD,
		EndMJD:         result.EndMJD,
		EntryCount:     result.EntryCount,
		LargestGapDays: result.LargestGapDays,
	}, nil
}

// HealthCheck performs a repository health check.
func (r *eopRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// Is makes the error match the shared not-found sentinel under errors.Is.
func (e *NotFoundError) Is(target error) bool {
	return target == errors.ErrNotFound
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
