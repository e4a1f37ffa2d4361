package iau

import (
	"math"

	"astrodyn-platform/pkg/astrotime"
)

const (
	// eraPhase and eraRatio define the Earth rotation angle as a linear
	// function of UT1 (Capitaine model).
	eraPhase = 0.7790572732640
	eraRatio = 1.00273781191135448

	// Rotation rates in rad/s: the ERA derivative for the intermediate
	// frames, the classical mean value for the equinox-based frames.
	eraRate       = 2 * math.Pi * eraRatio / astrotime.SecondsPerDay
	classicalRate = 7.292115146706979e-5
)

// normalizeAngle reduces a to [0, 2π).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// ERA returns the Earth rotation angle in [0, 2π) for the given UT1 day
// count since J2000.
func ERA(ut1Days float64) float64 {
	frac := math.Mod(eraPhase+eraRatio*ut1Days, 1)
	if frac < 0 {
		frac++
	}
	return 2 * math.Pi * frac
}

// ERARate returns the time derivative of the Earth rotation angle in rad/s,
// scaled by the excess length of day.
func ERARate(lod float64) float64 {
	return eraRate * (1 - lod/astrotime.SecondsPerDay)
}

// SiderealRate returns the classical Earth angular velocity in rad/s scaled
// by the excess length of day, used by the equinox-based rotating frames.
func SiderealRate(lod float64) float64 {
	return classicalRate * (1 - lod/astrotime.SecondsPerDay)
}

// GMST returns the Greenwich mean sidereal time in radians. dut1 is the
// UT1-UTC offset in seconds applicable at the date.
func (c Convention) GMST(date astrotime.Date, dut1 float64) float64 {
	ut1Days := date.UT1DaysSinceJ2000(dut1)
	if c == Conventions1996 {
		// 1982 development, argument in UT1 centuries.
		tu := ut1Days / 36525
		sec := 67310.54841 + tu*(3164400184.812866+tu*(0.093104+tu*(-6.2e-6)))
		return normalizeAngle(2 * math.Pi * sec / astrotime.SecondsPerDay)
	}
	t := centuries(date)
	var poly float64
	if c == Conventions2003 {
		poly = 0.014506 + t*(4612.15739966+t*(1.39667721+t*(-0.00009344+t*0.00001882)))
	} else {
		poly = 0.014506 + t*(4612.156534+t*(1.3915817+t*(-0.00000044+t*(-0.000029956+t*(-0.0000000368)))))
	}
	return normalizeAngle(ERA(ut1Days) + poly*arcsecToRad)
}

// EquationOfEquinoxes returns GAST-GMST in radians for the given nutation in
// longitude, including the two dominant complementary terms.
func (c Convention) EquationOfEquinoxes(date astrotime.Date, dpsi float64) float64 {
	args := fundamentalArguments(date)
	comp := (0.00264*math.Sin(args.om) + 0.000063*math.Sin(2*args.om)) * arcsecToRad
	return dpsi*math.Cos(c.MeanObliquity(date)) + comp
}

// GAST returns the Greenwich apparent sidereal time in radians.
func (c Convention) GAST(date astrotime.Date, dut1, dpsi float64) float64 {
	return normalizeAngle(c.GMST(date, dut1) + c.EquationOfEquinoxes(date, dpsi))
}
