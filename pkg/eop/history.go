package eop

import (
	"sort"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/geom"
	"astrodyn-platform/pkg/iau"
)

// interpolationPoints is the size of the sliding sample window used for the
// per-field polynomial fits. Four daily points give a cubic, ample for the
// smooth published series.
const interpolationPoints = 4

// History is a chronologically ordered, duplicate-free Earth orientation
// series for one convention, with or without the sub-daily tidal
// corrections applied on top of the interpolated values.
type History struct {
	conv      iau.Convention
	simpleEOP bool
	entries   []Entry
	tides     *tidalModel
}

// NewHistory builds a history from merged loader output. Entries sharing an
// already-seen date are dropped, keeping the first occurrence so loader
// precedence is preserved. An empty series is unusable and reported as
// ErrDataUnavailable.
func NewHistory(conv iau.Convention, simpleEOP bool, entries []Entry) (*History, error) {
	if len(entries) == 0 {
		return nil, errors.Wrapf(errors.ErrDataUnavailable, "building %s history", conv)
	}

	seen := make(map[float64]struct{}, len(entries))
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.MJD]; ok {
			continue
		}
		seen[e.MJD] = struct{}{}
		kept = append(kept, e)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].MJD < kept[j].MJD })

	h := &History{conv: conv, simpleEOP: simpleEOP, entries: kept}
	if !simpleEOP {
		h.tides = &tidalModel{conv: conv}
	}
	return h, nil
}

// Convention returns the convention the history was built for.
func (h *History) Convention() iau.Convention {
	return h.conv
}

// IsSimpleEOP reports whether sub-daily tidal corrections are ignored.
func (h *History) IsSimpleEOP() bool {
	return h.simpleEOP
}

// Size returns the number of entries.
func (h *History) Size() int {
	return len(h.entries)
}

// StartDate returns the date of the earliest entry.
func (h *History) StartDate() astrotime.Date {
	return h.entries[0].Date
}

// EndDate returns the date of the latest entry.
func (h *History) EndDate() astrotime.Date {
	return h.entries[len(h.entries)-1].Date
}

// Entries returns a copy of the ordered series.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// CheckContinuity verifies that no two consecutive entries are separated by
// more than maxGap seconds. A larger hole makes interpolation across it
// unreliable, so the series is reported as defective.
func (h *History) CheckContinuity(maxGap float64) error {
	for i := 1; i < len(h.entries); i++ {
		gap := h.entries[i].Date.DurationFrom(h.entries[i-1].Date)
		if gap > maxGap {
			return errors.WithDetailf(
				errors.Wrapf(errors.ErrContinuity, "%.1f day hole between MJD %.1f and MJD %.1f",
					gap/astrotime.SecondsPerDay, h.entries[i-1].MJD, h.entries[i].MJD),
				"maximum allowed gap is %.1f days", maxGap/astrotime.SecondsPerDay)
		}
	}
	return nil
}

// covers reports whether date falls inside the series span, boundaries
// included.
func (h *History) covers(date astrotime.Date) bool {
	return !date.Before(h.StartDate()) && !date.After(h.EndDate())
}

// window returns the entries surrounding date, shifted to stay inside the
// series near its ends.
func (h *History) window(date astrotime.Date) []Entry {
	i := sort.Search(len(h.entries), func(k int) bool {
		return h.entries[k].Date.After(date)
	})
	start := i - interpolationPoints/2
	if start > len(h.entries)-interpolationPoints {
		start = len(h.entries) - interpolationPoints
	}
	if start < 0 {
		start = 0
	}
	end := start + interpolationPoints
	if end > len(h.entries) {
		end = len(h.entries)
	}
	return h.entries[start:end]
}

// interpolate fits the picked fields over the window around date and
// evaluates the fit at date. The abscissa is the signed offset from the
// query date so the evaluation point is always zero.
func (h *History) interpolate(date astrotime.Date, pick func(Entry) []float64) []float64 {
	interp := geom.NewHermiteInterpolator()
	for _, e := range h.window(date) {
		_ = interp.AddSamplePoint(e.Date.DurationFrom(date), pick(e))
	}
	return interp.Value(0)
}

// interpolateDUT1 fits UT1-UTC over the window around date. The fit bridges
// leap seconds by shifting the post-leap samples onto the pre-leap branch
// and restoring the step afterwards, so it never chases the one second
// discontinuity.
func (h *History) interpolateDUT1(date astrotime.Date) float64 {
	win := h.window(date)
	first := win[0].DUT1
	afterLeap := false
	interp := geom.NewHermiteInterpolator()
	for _, e := range win {
		dut1 := e.DUT1
		if dut1-first > 0.9 {
			dut1--
			if !e.Date.After(date) {
				afterLeap = true
			}
		}
		_ = interp.AddSamplePoint(e.Date.DurationFrom(date), []float64{dut1})
	}
	value := interp.Value(0)[0]
	if afterLeap {
		value++
	}
	return value
}

// UT1MinusUTC returns the UT1-UTC offset in seconds at date, zero outside
// the series span.
func (h *History) UT1MinusUTC(date astrotime.Date) float64 {
	if !h.covers(date) {
		return 0
	}
	value := h.interpolateDUT1(date)
	if h.tides != nil {
		dut1, _, _, _ := h.tides.corrections(date)
		value += dut1
	}
	return value
}

// LOD returns the excess length of day in seconds at date, zero outside the
// series span.
func (h *History) LOD(date astrotime.Date) float64 {
	if !h.covers(date) {
		return 0
	}
	value := h.interpolate(date, func(e Entry) []float64 { return []float64{e.LOD} })[0]
	if h.tides != nil {
		_, lod, _, _ := h.tides.corrections(date)
		value += lod
	}
	return value
}

// PoleCorrection returns the pole coordinates in radians at date, zero
// outside the series span.
func (h *History) PoleCorrection(date astrotime.Date) (x, y float64) {
	if !h.covers(date) {
		return 0, 0
	}
	v := h.interpolate(date, func(e Entry) []float64 { return []float64{e.X, e.Y} })
	x, y = v[0], v[1]
	if h.tides != nil {
		_, _, tx, ty := h.tides.corrections(date)
		x += tx
		y += ty
	}
	return x, y
}

// EquinoxNutationCorrection returns the nutation corrections in the equinox
// basis (δΔψ, δΔε) in radians at date, zero outside the series span.
func (h *History) EquinoxNutationCorrection(date astrotime.Date) (ddpsi, ddeps float64) {
	if !h.covers(date) {
		return 0, 0
	}
	v := h.interpolate(date, func(e Entry) []float64 { return []float64{e.DDPsi, e.DDEps} })
	return v[0], v[1]
}

// NonRotatingNutationCorrection returns the nutation corrections in the
// non-rotating-origin basis (δX, δY) in radians at date, zero outside the
// series span.
func (h *History) NonRotatingNutationCorrection(date astrotime.Date) (dx, dy float64) {
	if !h.covers(date) {
		return 0, 0
	}
	v := h.interpolate(date, func(e Entry) []float64 { return []float64{e.DX, e.DY} })
	return v[0], v[1]
}

// EntryAt returns the raw series value at date as a synthetic entry. Inside
// the span every field is interpolated; outside it the nearest boundary
// entry is extended flatly, a deliberate availability trade-off for callers
// that prefer a stale value over none. Tidal corrections are never applied
// here.
func (h *History) EntryAt(date astrotime.Date) Entry {
	if date.Before(h.StartDate()) {
		return h.entries[0]
	}
	if date.After(h.EndDate()) {
		return h.entries[len(h.entries)-1]
	}
	v := h.interpolate(date, func(e Entry) []float64 {
		return []float64{e.LOD, e.X, e.Y, e.DDPsi, e.DDEps, e.DX, e.DY}
	})
	return Entry{
		MJD:   date.MJDUTC(),
		Date:  date,
		DUT1:  h.interpolateDUT1(date),
		LOD:   v[0],
		X:     v[1],
		Y:     v[2],
		DDPsi: v[3],
		DDEps: v[4],
		DX:    v[5],
		DY:    v[6],
	}
}
