package iau

import (
	"math"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/geom"
)

// nutationTerm is one luni-solar series row. Multipliers apply to the
// Delaunay arguments; amplitudes are in 0.1 milliarcseconds, the unit of the
// published tables, with secular variation per Julian century.
type nutationTerm struct {
	cl, clp, cf, cd, com int
	ps, pst              float64
	es, est              float64
}

// nutation1980 lists the ten dominant terms of the IAU 1980 theory. The
// omitted tail is below one milliarcsecond per term.
var nutation1980 = []nutationTerm{
	{0, 0, 0, 0, 1, -171996, -174.2, 92025, 8.9},
	{0, 0, 2, -2, 2, -13187, -1.6, 5736, -3.1},
	{0, 0, 2, 0, 2, -2274, -0.2, 977, -0.5},
	{0, 0, 0, 0, 2, 2062, 0.2, -895, 0.5},
	{0, 1, 0, 0, 0, 1426, -3.4, 54, -0.1},
	{1, 0, 0, 0, 0, 712, 0.1, -7, 0},
	{0, 1, 2, -2, 2, -517, 1.2, 224, -0.6},
	{0, 0, 2, 0, 1, -386, -0.4, 200, 0},
	{1, 0, 2, 0, 2, -301, 0, 129, -0.1},
	{0, -1, 2, -2, 2, 217, -0.5, -95, 0.3},
}

// nutation2000 lists the matching dominant terms of the IAU 2000A theory,
// shared by the 2003 and 2010 generations at this truncation level.
var nutation2000 = []nutationTerm{
	{0, 0, 0, 0, 1, -172064.161, -174.666, 92052.331, 9.086},
	{0, 0, 2, -2, 2, -13170.906, -1.675, 5730.336, -3.015},
	{0, 0, 2, 0, 2, -2276.413, -0.234, 978.459, -0.485},
	{0, 0, 0, 0, 2, 2074.554, 0.207, -897.492, 0.470},
	{0, 1, 0, 0, 0, 1475.877, -3.633, 73.871, -0.184},
	{1, 0, 0, 0, 0, 711.159, 0.073, -6.750, 0},
	{0, 1, 2, -2, 2, -516.821, 1.226, 224.386, -0.677},
	{0, 0, 2, 0, 1, -387.298, -0.367, 200.728, 0.018},
	{1, 0, 2, 0, 2, -301.461, -0.036, 129.025, -0.063},
	{0, -1, 2, -2, 2, 215.829, -0.494, -95.929, 0.299},
}

// Nutation returns the nutation in longitude and obliquity in radians.
func (c Convention) Nutation(date astrotime.Date) (dpsi, deps float64) {
	terms := nutation2000
	if c == Conventions1996 {
		terms = nutation1980
	}
	t := centuries(date)
	args := fundamentalArguments(date)
	for _, term := range terms {
		arg := float64(term.cl)*args.l + float64(term.clp)*args.lp +
			float64(term.cf)*args.f + float64(term.cd)*args.d + float64(term.com)*args.om
		sin, cos := math.Sincos(arg)
		dpsi += (term.ps + term.pst*t) * sin
		deps += (term.es + term.est*t) * cos
	}
	// 0.1 mas table units to radians.
	scale := 1e-4 * arcsecToRad
	return dpsi * scale, deps * scale
}

// NutationRotation maps mean-of-date coordinates to true-of-date
// coordinates. The nutation angles include any EOP corrections the caller
// folded in.
func NutationRotation(meanObliquity, dpsi, deps float64) geom.Rotation {
	return geom.NewRotation(geom.AxisX, -(meanObliquity + deps)).
		Compose(geom.NewRotation(geom.AxisZ, -dpsi)).
		Compose(geom.NewRotation(geom.AxisX, meanObliquity))
}
