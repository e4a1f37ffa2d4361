package eop

import (
	"math"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/iau"
)

const (
	microarcsecToRad = math.Pi / 648000 * 1e-6
	microsecond      = 1e-6
)

// tideTerm is one constituent of the sub-daily ocean tide model. The
// argument is a linear combination of GMST+π and the Delaunay arguments;
// amplitudes are in microseconds for UT1 and microarcseconds for the pole.
type tideTerm struct {
	name   string
	period float64 // hours
	chi    float64
	l      float64
	lp     float64
	f      float64
	d      float64
	om     float64
	utSin  float64
	utCos  float64
	xSin   float64
	xCos   float64
	ySin   float64
	yCos   float64
}

// tideTerms keeps the leading diurnal and semidiurnal constituents of the
// IERS ocean tide tabulation. The full model carries 71 terms; this
// truncation retains the eight largest, which cover the bulk of the
// sub-daily signal (tens of microseconds in UT1, a few tenths of a
// milliarcsecond in the pole).
var tideTerms = []tideTerm{
	{"Q1", 26.868, 1, -1, 0, -2, 0, -2, -0.44, 0.25, -5.4, 4.7, -4.7, -5.4},
	{"O1", 25.819, 1, 0, 0, -2, 0, -2, -2.18, 1.24, -28.2, 23.1, -23.1, -28.2},
	{"P1", 24.066, 1, 0, 0, -2, 2, -2, -0.91, 0.52, -11.4, 9.4, -9.4, -11.4},
	{"K1", 23.934, 1, 0, 0, 0, 0, 0, -2.84, 1.67, -34.6, 28.9, -28.9, -34.6},
	{"N2", 12.658, 2, -1, 0, -2, 0, -2, -0.86, 0.48, -8.6, 7.2, 7.2, -8.6},
	{"M2", 12.421, 2, 0, 0, -2, 0, -2, -4.76, 2.42, -45.0, 37.5, 37.5, -45.0},
	{"S2", 12.000, 2, 0, 0, -2, 2, -2, -2.08, 1.12, -20.4, 17.0, 17.0, -20.4},
	{"K2", 11.967, 2, 0, 0, 0, 0, 0, -0.58, 0.31, -5.5, 4.6, 4.6, -5.5},
}

// tidalModel evaluates the truncated sub-daily tide corrections for one
// convention. It is a pure function of date.
type tidalModel struct {
	conv iau.Convention
}

// corrections returns the tidal contributions to UT1-UTC and LOD in seconds
// and to the pole coordinates in radians. The constituent phases use GMST
// with a zero UT1-UTC offset; the resulting phase error stays below a tenth
// of a millisecond of time, negligible against the truncation itself.
func (m tidalModel) corrections(date astrotime.Date) (dut1, lod, x, y float64) {
	chi := m.conv.GMST(date, 0) + math.Pi
	l, lp, f, d, om := iau.DelaunayArguments(date)

	for _, t := range tideTerms {
		theta := t.chi*chi + t.l*l + t.lp*lp + t.f*f + t.d*d + t.om*om
		sin, cos := math.Sincos(theta)
		rate := 2 * math.Pi / (t.period * 3600)

		dut1 += (t.utSin*sin + t.utCos*cos) * microsecond
		// LOD is the negated UT1 drift over one day, term by term.
		lod += -astrotime.SecondsPerDay * rate * (t.utSin*cos - t.utCos*sin) * microsecond
		x += (t.xSin*sin + t.xCos*cos) * microarcsecToRad
		y += (t.ySin*sin + t.yCos*cos) * microarcsecToRad
	}
	return dut1, lod, x, y
}
