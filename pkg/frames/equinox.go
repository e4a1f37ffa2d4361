package frames

import (
	"math"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/geom"
	"astrodyn-platform/pkg/iau"
)

// MODProvider realizes the mean equator/equinox of date by accumulated
// precession. The model is free of Earth orientation data.
type MODProvider struct {
	conv iau.Convention
}

// NewMODProvider builds the precession provider for one convention.
func NewMODProvider(conv iau.Convention) *MODProvider {
	return &MODProvider{conv: conv}
}

// Transform returns the parent-to-MOD rotation at date.
func (p *MODProvider) Transform(date astrotime.Date) (Transform, error) {
	return NewRotationTransform(date, p.conv.PrecessionRotation(date)), nil
}

// TODProvider realizes the true equator/equinox of date by nutation, with
// the published celestial pole offsets folded in when a history is
// injected. A nil history is the coarse legacy mode.
type TODProvider struct {
	conv iau.Convention
	eop  *eop.History
}

// NewTODProvider builds the nutation provider. history may be nil.
func NewTODProvider(conv iau.Convention, history *eop.History) *TODProvider {
	return &TODProvider{conv: conv, eop: history}
}

// Transform returns the MOD-to-TOD rotation at date.
func (p *TODProvider) Transform(date astrotime.Date) (Transform, error) {
	dpsi, deps := p.conv.Nutation(date)
	if p.eop != nil {
		ddpsi, ddeps := p.eop.EquinoxNutationCorrection(date)
		dpsi += ddpsi
		deps += ddeps
	}
	rot := iau.NutationRotation(p.conv.MeanObliquity(date), dpsi, deps)
	return NewRotationTransform(date, rot), nil
}

// GTODProvider realizes the Greenwich true-of-date rotating frame through
// apparent sidereal time, with the Earth rate scaled by the excess length
// of day.
type GTODProvider struct {
	conv iau.Convention
	eop  *eop.History
}

// NewGTODProvider builds the sidereal rotation provider. history may be
// nil for the coarse legacy mode.
func NewGTODProvider(conv iau.Convention, history *eop.History) *GTODProvider {
	return &GTODProvider{conv: conv, eop: history}
}

// Transform returns the TOD-to-GTOD rotation and rate at date.
func (p *GTODProvider) Transform(date astrotime.Date) (Transform, error) {
	dpsi, _ := p.conv.Nutation(date)
	var dut1, lod float64
	if p.eop != nil {
		dut1 = p.eop.UT1MinusUTC(date)
		lod = p.eop.LOD(date)
		ddpsi, _ := p.eop.EquinoxNutationCorrection(date)
		dpsi += ddpsi
	}
	gast := p.conv.GAST(date, dut1, dpsi)
	rate := geom.Vector3{Z: iau.SiderealRate(lod)}
	return NewRotationRateTransform(date, geom.NewRotation(geom.AxisZ, gast), rate), nil
}

// TEMEProvider realizes the true-equator mean-equinox frame used by the
// general perturbation element sets, offset from TOD by the equation of
// the equinoxes.
type TEMEProvider struct {
	conv iau.Convention
}

// NewTEMEProvider builds the TEME offset provider.
func NewTEMEProvider(conv iau.Convention) *TEMEProvider {
	return &TEMEProvider{conv: conv}
}

// Transform returns the TOD-to-TEME rotation at date.
func (p *TEMEProvider) Transform(date astrotime.Date) (Transform, error) {
	dpsi, _ := p.conv.Nutation(date)
	eqe := p.conv.EquationOfEquinoxes(date, dpsi)
	return NewRotationTransform(date, geom.NewRotation(geom.AxisZ, eqe)), nil
}

const (
	// Veis sidereal time development: phase and daily advance at the
	// 1950-01-01 UT base epoch, and the fixed rotation rate.
	veisVST0 = 1.746647708617871
	veisVST1 = 0.17202179573714597e-1
	veisRate = 7.292115146705209e-5

	// Day count from the 1950 base epoch to J2000.
	veisEpochOffset = 51544.5 - 33282.0
)

// VEISProvider realizes the Veis 1950 quasi-inertial frame by unwinding
// the Earth rotation of its Greenwich parent with the Veis sidereal angle.
type VEISProvider struct{}

// NewVEISProvider builds the Veis 1950 provider.
func NewVEISProvider() *VEISProvider {
	return &VEISProvider{}
}

// Transform returns the GTOD-to-Veis rotation and rate at date. The parent
// carries no Earth orientation corrections, so UT1 is taken equal to UTC.
func (p *VEISProvider) Transform(date astrotime.Date) (Transform, error) {
	ttd := date.UT1DaysSinceJ2000(0) + veisEpochOffset
	rdtt := ttd - math.Floor(ttd)
	// vst is the angle of the Greenwich parent past the Veis reference
	// axis, so mapping into the frame unwinds it.
	vst := math.Mod(veisVST0+veisVST1*ttd+2*math.Pi*rdtt, 2*math.Pi)
	rate := geom.Vector3{Z: -veisRate}
	return NewRotationRateTransform(date, geom.NewRotation(geom.AxisZ, -vst), rate), nil
}

// EclipticProvider realizes the mean ecliptic of date, tilted from MOD by
// the mean obliquity.
type EclipticProvider struct {
	conv iau.Convention
}

// NewEclipticProvider builds the ecliptic provider for one convention.
func NewEclipticProvider(conv iau.Convention) *EclipticProvider {
	return &EclipticProvider{conv: conv}
}

// Transform returns the MOD-to-ecliptic rotation at date.
func (p *EclipticProvider) Transform(date astrotime.Date) (Transform, error) {
	return NewRotationTransform(date, geom.NewRotation(geom.AxisX, p.conv.MeanObliquity(date))), nil
}
