package iau

import (
	"math"

	"astrodyn-platform/pkg/astrotime"
)

// delaunay holds the luni-solar fundamental arguments in radians.
type delaunay struct {
	l, lp, f, d, om float64
}

// DelaunayArguments returns the five luni-solar fundamental arguments
// (l, l', F, D, Ω) in radians. Tidal models outside this package key their
// constituent phases on these.
func DelaunayArguments(date astrotime.Date) (l, lp, f, d, om float64) {
	a := fundamentalArguments(date)
	return a.l, a.lp, a.f, a.d, a.om
}

// fundamentalArguments evaluates the Delaunay arguments. The polynomials
// follow the 2003 update for every convention; the differences between
// generations are far below the truncation level of the series using them.
func fundamentalArguments(date astrotime.Date) delaunay {
	t := centuries(date)
	deg := math.Pi / 180

	arg := func(deg0 float64, c1, c2, c3, c4 float64) float64 {
		v := deg0*deg + (((c4*t+c3)*t+c2)*t+c1)*t*arcsecToRad
		return math.Mod(v, 2*math.Pi)
	}

	return delaunay{
		l:  arg(134.96340251, 1717915923.2178, 31.8792, 0.051635, -0.00024470),
		lp: arg(357.52910918, 129596581.0481, -0.5532, 0.000136, -0.00001149),
		f:  arg(93.27209062, 1739527262.8478, -12.7512, -0.001037, 0.00000417),
		d:  arg(297.85019547, 1602961601.2090, -6.3706, 0.006593, -0.00003169),
		om: arg(125.04455501, -6962890.5431, 7.4722, 0.007702, -0.00005939),
	}
}
