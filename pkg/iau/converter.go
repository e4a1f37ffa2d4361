package iau

import (
	"math"

	"astrodyn-platform/pkg/astrotime"
)

// NutationCorrectionConverter translates Earth orientation nutation
// corrections between the equinox basis (δΔψ, δΔε) the older products are
// published in and the non-rotating-origin basis (δX, δY) of the newer ones.
// Entries loaded from either kind of product carry both forms, normalized
// through the converter of the convention that will consume them.
type NutationCorrectionConverter interface {
	// ToNonRotating converts equinox corrections to CIP coordinate
	// corrections, all in radians.
	ToNonRotating(date astrotime.Date, ddpsi, ddeps float64) (dx, dy float64)
	// ToEquinox converts CIP coordinate corrections to equinox
	// corrections, all in radians.
	ToEquinox(date astrotime.Date, dx, dy float64) (ddpsi, ddeps float64)
}

// NutationCorrectionConverter returns the converter of this convention.
func (c Convention) NutationCorrectionConverter() NutationCorrectionConverter {
	return correctionConverter{conv: c}
}

type correctionConverter struct {
	conv Convention
}

// coupling returns sin εA and the precession coupling factor
// ψA cos ε0 - χA linking the two correction bases at first order.
func (cc correctionConverter) coupling(date astrotime.Date) (sinEps, factor float64) {
	sinEps = math.Sin(cc.conv.MeanObliquity(date))
	psiA, _, chiA := cc.conv.eclipticPrecession(date)
	factor = psiA*math.Cos(cc.conv.obliquityJ2000()) - chiA
	return sinEps, factor
}

func (cc correctionConverter) ToNonRotating(date astrotime.Date, ddpsi, ddeps float64) (dx, dy float64) {
	sinEps, f := cc.coupling(date)
	dx = ddpsi*sinEps + f*ddeps
	dy = ddeps - f*ddpsi*sinEps
	return dx, dy
}

func (cc correctionConverter) ToEquinox(date astrotime.Date, dx, dy float64) (ddpsi, ddeps float64) {
	sinEps, f := cc.coupling(date)
	det := 1 + f*f
	ddpsi = (dx - f*dy) / (sinEps * det)
	ddeps = (dy + f*dx) / det
	return ddpsi, ddeps
}
