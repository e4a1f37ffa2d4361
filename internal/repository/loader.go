package repository

import (
	"context"
	"time"

	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/iau"
)

// loadTimeout bounds one database read when a frame build pulls its Earth
// orientation history.
const loadTimeout = 30 * time.Second

// RepositoryLoader exposes stored entries through the eop.Loader contract so
// a frame registry can be fed straight from the database.
type RepositoryLoader struct {
	repo       EOPRepository
	convention iau.Convention
}

// NewRepositoryLoader creates a loader serving one convention from the store.
func NewRepositoryLoader(repo EOPRepository, convention iau.Convention) *RepositoryLoader {
	return &RepositoryLoader{repo: repo, convention: convention}
}

// FillHistory appends the stored entries for the loader's convention. The
// converter is unused because rows persist both correction bases. An empty
// store is not an error; the registry reports missing data itself.
func (l *RepositoryLoader) FillHistory(_ iau.NutationCorrectionConverter, out *eop.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	rows, err := l.repo.EntriesForConvention(ctx, l.convention)
	if err != nil {
		return errors.Wrapf(err, "loading stored entries for conventions %s", l.convention)
	}

	entries := make([]eop.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.ToEntry())
	}
	out.AddAll(entries)

	return nil
}

// Loaders returns a loader factory feeding a frame registry from the store,
// one loader per requested convention.
func Loaders(repo EOPRepository) func(iau.Convention) []eop.Loader {
	return func(convention iau.Convention) []eop.Loader {
		return []eop.Loader{NewRepositoryLoader(repo, convention)}
	}
}
