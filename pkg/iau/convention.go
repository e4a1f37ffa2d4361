// Package iau provides the precession, nutation, sidereal time and celestial
// intermediate origin models of the three supported IERS convention
// generations, as pure functions of date. Series are truncated to their
// dominant terms (documented per file); the truncation level is consistent
// with the interpolation tolerances used by the frame providers built on
// this package.
package iau

import (
	"math"
	"strings"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/errors"
)

// Convention selects one generation of the IERS conventions.
type Convention int

const (
	// Conventions1996 covers the IAU 1976 precession and 1980 nutation
	// models with equinox-based sidereal time.
	Conventions1996 Convention = iota
	// Conventions2003 covers the IAU 2000A-era models.
	Conventions2003
	// Conventions2010 covers the IAU 2006/2000A models.
	Conventions2010
)

// Conventions lists all supported generations, oldest first.
var Conventions = []Convention{Conventions1996, Conventions2003, Conventions2010}

func (c Convention) String() string {
	switch c {
	case Conventions1996:
		return "1996"
	case Conventions2003:
		return "2003"
	case Conventions2010:
		return "2010"
	default:
		return "unknown"
	}
}

// ParseConvention maps the textual form back to a Convention.
func ParseConvention(s string) (Convention, error) {
	switch strings.TrimSpace(s) {
	case "1996":
		return Conventions1996, nil
	case "2003":
		return Conventions2003, nil
	case "2010":
		return Conventions2010, nil
	default:
		return 0, errors.Newf("unknown IERS convention %q", s)
	}
}

// Radians per arcsecond.
const arcsecToRad = math.Pi / (180 * 3600)

// Radians per microarcsecond.
const uasToRad = arcsecToRad * 1e-6

// centuries returns the TT Julian centuries since J2000 used as the argument
// of every polynomial development in this package.
func centuries(d astrotime.Date) float64 {
	return d.JulianCenturiesTT()
}
