package services

import (
	"context"

	"astrodyn-platform/internal/models"
	"astrodyn-platform/internal/repository"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/iau"
	"astrodyn-platform/pkg/logging"
	"astrodyn-platform/pkg/metrics"
)

// CoverageService reports the stored Earth orientation coverage.
type CoverageService struct {
	repo           repository.EOPRepository
	logger         *logging.StructuredLogger
	metrics        *metrics.Collector
	continuityDays float64
}

// NewCoverageService creates a coverage service judging continuity against
// the given largest tolerated tabulation hole, in days.
func NewCoverageService(repo repository.EOPRepository, continuityDays float64, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *CoverageService {
	return &CoverageService{
		repo:           repo,
		logger:         logger,
		metrics:        metricsCollector,
		continuityDays: continuityDays,
	}
}

// CoverageForConvention summarizes the stored span for one convention.
func (s *CoverageService) CoverageForConvention(ctx context.Context, convention iau.Convention) (*models.CoverageSummary, error) {
	summary, err := s.repo.CoverageForConvention(ctx, convention)
	if err != nil {
		return nil, err
	}

	summary.Continuous = summary.LargestGapDays <= s.continuityDays

	s.logger.Debug(ctx, "[COVERAGE] Coverage summarized", logging.Fields{
		"convention":       summary.Convention,
		"entry_count":      summary.EntryCount,
		"largest_gap_days": summary.LargestGapDays,
		"continuous":       summary.Continuous,
	})

	return summary, nil
}

// Coverage summarizes every convention holding stored data.
func (s *CoverageService) Coverage(ctx context.Context) ([]models.CoverageSummary, error) {
	summaries := make([]models.CoverageSummary, 0, len(iau.Conventions))
	for _, conv := range iau.Conventions {
		summary, err := s.CoverageForConvention(ctx, conv)
		if err != nil {
			if errors.IsNotFoundError(err) {
				continue
			}
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// ListDatasets lists the ingested datasets, newest first.
func (s *CoverageService) ListDatasets(ctx context.Context, filter repository.DatasetFilter) ([]*models.EOPDataset, int, error) {
	return s.repo.ListDatasets(ctx, filter)
}
