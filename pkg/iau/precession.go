package iau

import (
	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/geom"
)

// MeanObliquity returns the mean obliquity of the ecliptic in radians.
func (c Convention) MeanObliquity(date astrotime.Date) float64 {
	t := centuries(date)
	switch c {
	case Conventions2010:
		// IAU 2006 development.
		return (84381.406 + t*(-46.836769+t*(-0.0001831+t*(0.00200340+t*(-0.000000576+t*(-0.0000000434)))))) * arcsecToRad
	case Conventions2003:
		return (84381.448 + t*(-46.84024+t*(-0.00059+t*0.001813))) * arcsecToRad
	default:
		// IAU 1980 development.
		return (84381.448 + t*(-46.8150+t*(-0.00059+t*0.001813))) * arcsecToRad
	}
}

// obliquityJ2000 is the reference obliquity anchoring the four-rotation
// precession formulation and the correction converters.
func (c Convention) obliquityJ2000() float64 {
	if c == Conventions2010 {
		return 84381.406 * arcsecToRad
	}
	return 84381.448 * arcsecToRad
}

// equatorialPrecession returns the ζ, θ, z accumulated angles in radians for
// the equinox-based formulations.
func (c Convention) equatorialPrecession(date astrotime.Date) (zeta, theta, z float64) {
	t := centuries(date)
	if c == Conventions1996 {
		// IAU 1976 developments.
		zeta = t * (2306.2181 + t*(0.30188+t*0.017998)) * arcsecToRad
		z = t * (2306.2181 + t*(1.09468+t*0.018203)) * arcsecToRad
		theta = t * (2004.3109 + t*(-0.42665+t*(-0.041833))) * arcsecToRad
		return zeta, theta, z
	}
	// 2003 update, with the constant offsets absorbing the frame bias
	// accumulated since the reference epoch.
	zeta = (2.5976176 + t*(2306.0809506+t*(0.3019015+t*(0.0179663+t*(-0.0000327+t*(-0.0000002)))))) * arcsecToRad
	z = (-2.5976176 + t*(2306.0803226+t*(1.0947790+t*(0.0182273+t*(0.0000470+t*(-0.0000003)))))) * arcsecToRad
	theta = t * (2004.1917476 + t*(-0.4269353+t*(-0.0418251+t*(-0.0000601+t*(-0.0000001))))) * arcsecToRad
	return zeta, theta, z
}

// eclipticPrecession returns the ψA, ωA, χA accumulated angles in radians of
// the four-rotation formulation.
func (c Convention) eclipticPrecession(date astrotime.Date) (psiA, omegaA, chiA float64) {
	t := centuries(date)
	switch c {
	case Conventions2010:
		// P03 developments.
		psiA = t * (5038.481507 + t*(-1.0790069+t*(-0.00114045+t*(0.000132851+t*(-0.0000000951))))) * arcsecToRad
		omegaA = c.obliquityJ2000() + t*(-0.025754+t*(0.0512623+t*(-0.00772503+t*(-0.000000467+t*0.0000003337))))*arcsecToRad
		chiA = t * (10.556403 + t*(-2.3814292+t*(-0.00121197+t*(0.000170663+t*(-0.0000000560))))) * arcsecToRad
	case Conventions2003:
		psiA = t * (5038.47875 + t*(-1.07259+t*(-0.001147))) * arcsecToRad
		omegaA = c.obliquityJ2000() + t*t*(0.05127-0.007726*t)*arcsecToRad
		chiA = t * (10.5526 + t*(-2.38064+t*(-0.001125))) * arcsecToRad
	default:
		// IAU 1976 values, used only by the correction converter.
		psiA = t * (5038.7784 + t*(-1.07259+t*(-0.001147))) * arcsecToRad
		omegaA = c.obliquityJ2000() + t*t*(0.05127-0.007726*t)*arcsecToRad
		chiA = t * (10.5526 + t*(-2.38064+t*(-0.001125))) * arcsecToRad
	}
	return psiA, omegaA, chiA
}

// PrecessionRotation maps mean-equator-and-equinox-of-J2000 coordinates to
// mean-of-date coordinates.
func (c Convention) PrecessionRotation(date astrotime.Date) geom.Rotation {
	if c == Conventions2010 {
		psiA, omegaA, chiA := c.eclipticPrecession(date)
		eps0 := c.obliquityJ2000()
		return geom.NewRotation(geom.AxisZ, chiA).
			Compose(geom.NewRotation(geom.AxisX, -omegaA)).
			Compose(geom.NewRotation(geom.AxisZ, -psiA)).
			Compose(geom.NewRotation(geom.AxisX, eps0))
	}
	zeta, theta, z := c.equatorialPrecession(date)
	return geom.NewRotation(geom.AxisZ, -z).
		Compose(geom.NewRotation(geom.AxisY, theta)).
		Compose(geom.NewRotation(geom.AxisZ, -zeta))
}
