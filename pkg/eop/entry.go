// Package eop holds Earth orientation parameter series: entries merged from
// pluggable loaders into an ordered history that the frame providers query.
// The package performs no I/O of its own; loaders are the only way data
// enters.
package eop

import (
	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/iau"
)

// Entry is one tabulation point of an Earth orientation series. Angles are
// radians and offsets seconds. Both nutation correction bases are always
// populated; loaders normalize whichever basis their product publishes
// through the convention converter.
type Entry struct {
	// MJD is the UTC modified Julian day of the tabulation point.
	MJD float64
	// Date is the same instant as an astrotime date.
	Date astrotime.Date
	// DUT1 is UT1-UTC in seconds.
	DUT1 float64
	// LOD is the excess length of day in seconds.
	LOD float64
	// X, Y are the polar motion coordinates in radians.
	X, Y float64
	// DDPsi, DDEps are the equinox-basis nutation corrections in radians.
	DDPsi, DDEps float64
	// DX, DY are the non-rotating-origin corrections in radians.
	DX, DY float64
}

// NewEntryFromEquinox builds an entry from a product publishing equinox
// corrections, deriving the non-rotating pair.
func NewEntryFromEquinox(converter iau.NutationCorrectionConverter, mjd, dut1, lod, x, y, ddpsi, ddeps float64) Entry {
	date := astrotime.FromMJDUTC(mjd)
	dx, dy := converter.ToNonRotating(date, ddpsi, ddeps)
	return Entry{
		MJD: mjd, Date: date,
		DUT1: dut1, LOD: lod, X: x, Y: y,
		DDPsi: ddpsi, DDEps: ddeps, DX: dx, DY: dy,
	}
}

// NewEntryFromNonRotating builds an entry from a product publishing
// non-rotating-origin corrections, deriving the equinox pair.
func NewEntryFromNonRotating(converter iau.NutationCorrectionConverter, mjd, dut1, lod, x, y, dx, dy float64) Entry {
	date := astrotime.FromMJDUTC(mjd)
	ddpsi, ddeps := converter.ToEquinox(date, dx, dy)
	return Entry{
		MJD: mjd, Date: date,
		DUT1: dut1, LOD: lod, X: x, Y: y,
		DDPsi: ddpsi, DDEps: ddeps, DX: dx, DY: dy,
	}
}
