package eop

import (
	"sort"

	"astrodyn-platform/pkg/iau"
)

// Loader feeds Earth orientation entries into a collection. Implementations
// read files, databases or in-memory tables; they convert whichever nutation
// correction basis their product uses through the supplied converter and
// report unreadable sources by error.
type Loader interface {
	FillHistory(converter iau.NutationCorrectionConverter, out *Collection) error
}

// Collection accumulates entries from loaders before a history is built.
// For a given tabulation date the first entry added wins, so loader
// registration order is a deterministic precedence order.
type Collection struct {
	byMJD map[float64]Entry
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{byMJD: make(map[float64]Entry)}
}

// Add inserts an entry unless its date is already covered. It reports
// whether the entry was kept.
func (c *Collection) Add(e Entry) bool {
	if _, exists := c.byMJD[e.MJD]; exists {
		return false
	}
	c.byMJD[e.MJD] = e
	return true
}

// AddAll inserts entries in order, keeping the first seen per date, and
// returns how many were kept.
func (c *Collection) AddAll(entries []Entry) int {
	kept := 0
	for _, e := range entries {
		if c.Add(e) {
			kept++
		}
	}
	return kept
}

// Len returns the number of distinct tabulation dates collected.
func (c *Collection) Len() int {
	return len(c.byMJD)
}

// Sorted returns the collected entries in date order.
func (c *Collection) Sorted() []Entry {
	out := make([]Entry, 0, len(c.byMJD))
	for _, e := range c.byMJD {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MJD < out[j].MJD })
	return out
}

// StaticLoader serves a fixed entry list, the loader used by tests and by
// callers that assemble entries in memory.
type StaticLoader struct {
	Entries []Entry
}

// FillHistory appends the fixed entries. The converter is unused because
// static entries already carry both correction bases.
func (l StaticLoader) FillHistory(_ iau.NutationCorrectionConverter, out *Collection) error {
	out.AddAll(l.Entries)
	return nil
}
