package iau

import (
	"math"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/geom"
)

// cioTerm is one periodic row of the X or Y series: amplitude of the sine
// and cosine of the argument, in microarcseconds, with an optional t-scaled
// pair.
type cioTerm struct {
	cl, clp, cf, cd, com int
	s, c                 float64
	st, ct               float64
}

// xSeries and ySeries carry the dominant periodic terms of the IAU 2006/2000A
// developments of the celestial intermediate pole coordinates. The omitted
// tail is below the hundred-microarcsecond level.
var xSeries = []cioTerm{
	{0, 0, 0, 0, 1, -6844318.44, 1328.67, -3309.73, 205833.11},
	{0, 0, 2, -2, 2, -523908.04, -544.76, 0, 12814.01},
	{0, 0, 2, 0, 2, -90552.22, 111.23, 0, 2187.91},
	{0, 0, 0, 0, 2, 82168.76, -27.64, 0, -2004.36},
	{0, 1, 0, 0, 0, 58707.02, 470.05, 0, 0},
}

var ySeries = []cioTerm{
	{0, 0, 0, 0, 1, 1538.18, 9205236.26, 153041.79, -458.66},
	{0, 0, 2, -2, 2, -458.66, 573033.42, 11714.49, -771.72},
	{0, 0, 2, 0, 2, 137.41, 97846.69, 0, 0},
	{0, 0, 0, 0, 2, -29.05, -89618.24, 0, 0},
	{0, 1, 0, 0, 0, -17.40, 22438.42, 0, 0},
}

func evalCIOSeries(terms []cioTerm, args delaunay, t float64) float64 {
	var sum float64
	for _, term := range terms {
		arg := float64(term.cl)*args.l + float64(term.clp)*args.lp +
			float64(term.cf)*args.f + float64(term.cd)*args.d + float64(term.com)*args.om
		sin, cos := math.Sincos(arg)
		sum += (term.s+term.st*t)*sin + (term.c+term.ct*t)*cos
	}
	return sum * uasToRad
}

// CIOCoordinates returns the celestial intermediate pole coordinates X, Y
// and the CIO locator s, all in radians. For the 1996 generation, which has
// no published CIO development, the pole coordinates are extracted from the
// classical precession-nutation rotation and s keeps its defining
// approximation.
func (c Convention) CIOCoordinates(date astrotime.Date) (x, y, s float64) {
	t := centuries(date)
	if c == Conventions1996 {
		dpsi, deps := c.Nutation(date)
		bpn := NutationRotation(c.MeanObliquity(date), dpsi, deps).
			Compose(c.PrecessionRotation(date))
		// The pole unit vector in celestial coordinates is the third row
		// of the celestial-to-true matrix.
		pole := bpn.ApplyInverse(geom.Vector3{Z: 1})
		x, y = pole.X, pole.Y
	} else {
		args := fundamentalArguments(date)
		var px, py float64
		if c == Conventions2003 {
			px = -0.016617 + t*(2004.1917476+t*(-0.4269353+t*(-0.19861834)))
			py = -0.006951 + t*(-0.025896+t*(-22.4072747+t*0.00190059))
		} else {
			px = -0.016617 + t*(2004.191898+t*(-0.4297829+t*(-0.19861834+t*(0.000007578+t*0.0000059285))))
			py = -0.006951 + t*(-0.025896+t*(-22.4072747+t*(0.00190059+t*(0.001112526+t*0.0000001358))))
		}
		x = px*arcsecToRad + evalCIOSeries(xSeries, args, t)
		y = py*arcsecToRad + evalCIOSeries(ySeries, args, t)
	}
	s = c.CIOLocator(date, x, y)
	return x, y, s
}

// CIOLocator evaluates s for a given pole position through the s+XY/2
// development, truncated to its dominant terms. Separating it from the pole
// series lets callers fold measured pole corrections into x and y first.
func (c Convention) CIOLocator(date astrotime.Date, x, y float64) float64 {
	t := centuries(date)
	args := fundamentalArguments(date)
	sxy2 := 94 + t*(3808.65+t*(-122.68+t*(-72574.11))) -
		2640.73*math.Sin(args.om) - 63.53*math.Sin(2*args.om)
	return sxy2*uasToRad - x*y/2
}

// CIRMRotation maps celestial (GCRF) coordinates to celestial intermediate
// reference coordinates from the pole position and locator.
func CIRMRotation(x, y, s float64) geom.Rotation {
	r2 := x*x + y*y
	var e float64
	if r2 > 0 {
		e = math.Atan2(y, x)
	}
	d := math.Atan(math.Sqrt(r2 / (1 - r2)))
	return geom.NewRotation(geom.AxisZ, -(e + s)).
		Compose(geom.NewRotation(geom.AxisY, d)).
		Compose(geom.NewRotation(geom.AxisZ, e))
}
