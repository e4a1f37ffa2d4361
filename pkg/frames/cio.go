package frames

import (
	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/geom"
	"astrodyn-platform/pkg/iau"
)

// CIRFProvider realizes the celestial intermediate reference frame from the
// conventional pole series plus the measured celestial pole offsets. The
// locator is recomputed from the corrected pole so the intermediate origin
// stays kinematically consistent.
type CIRFProvider struct {
	conv iau.Convention
	eop  *eop.History
}

// NewCIRFProvider builds the intermediate-pole provider.
func NewCIRFProvider(conv iau.Convention, history *eop.History) *CIRFProvider {
	return &CIRFProvider{conv: conv, eop: history}
}

// Transform returns the celestial-to-intermediate rotation at date.
func (p *CIRFProvider) Transform(date astrotime.Date) (Transform, error) {
	x, y, s := p.conv.CIOCoordinates(date)
	if p.eop != nil {
		dx, dy := p.eop.NonRotatingNutationCorrection(date)
		x += dx
		y += dy
		s = p.conv.CIOLocator(date, x, y)
	}
	return NewRotationTransform(date, iau.CIRMRotation(x, y, s)), nil
}

// TIRFProvider realizes the terrestrial intermediate frame by spinning the
// celestial intermediate frame through the Earth rotation angle, with the
// rate scaled by the excess length of day.
type TIRFProvider struct {
	eop *eop.History
}

// NewTIRFProvider builds the Earth rotation provider.
func NewTIRFProvider(history *eop.History) *TIRFProvider {
	return &TIRFProvider{eop: history}
}

// Transform returns the CIRF-to-TIRF rotation and rate at date.
func (p *TIRFProvider) Transform(date astrotime.Date) (Transform, error) {
	dut1 := p.eop.UT1MinusUTC(date)
	lod := p.eop.LOD(date)
	era := iau.ERA(date.UT1DaysSinceJ2000(dut1))
	rate := geom.Vector3{Z: iau.ERARate(lod)}
	return NewRotationRateTransform(date, geom.NewRotation(geom.AxisZ, era), rate), nil
}

// tioLocatorRate is the secular drift of the terrestrial intermediate
// origin locator s', in radians per Julian century.
const tioLocatorRate = -47e-6 * arcsecToRad

// ITRFProvider realizes the international terrestrial frame by applying
// polar motion and the terrestrial intermediate origin locator on top of
// the intermediate frame.
type ITRFProvider struct {
	eop *eop.History
}

// NewITRFProvider builds the polar motion provider.
func NewITRFProvider(history *eop.History) *ITRFProvider {
	return &ITRFProvider{eop: history}
}

// Transform returns the TIRF-to-ITRF rotation at date.
func (p *ITRFProvider) Transform(date astrotime.Date) (Transform, error) {
	xp, yp := p.eop.PoleCorrection(date)
	sPrime := tioLocatorRate * date.JulianCenturiesTT()
	rot := geom.NewRotation(geom.AxisX, -yp).
		Compose(geom.NewRotation(geom.AxisY, -xp)).
		Compose(geom.NewRotation(geom.AxisZ, sPrime))
	return NewRotationTransform(date, rot), nil
}
