package frames

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/geom"
	"astrodyn-platform/pkg/iau"
)

// earthRate is the nominal Earth rotation rate in rad/s.
const earthRate = 7.2921150e-5

// testEntries builds a synthetic daily series with realistic pole and clock
// offsets starting at the given modified Julian day.
func testEntries(conv iau.Convention, startMJD float64, days int) []eop.Entry {
	converter := conv.NutationCorrectionConverter()
	entries := make([]eop.Entry, 0, days)
	for d := 0; d < days; d++ {
		mjd := startMJD + float64(d)
		entries = append(entries, eop.NewEntryFromEquinox(converter, mjd,
			0.2+0.0005*float64(d), 0.0012,
			0.05*arcsecToRad, 0.30*arcsecToRad,
			-0.052*arcsecToRad, -0.004*arcsecToRad))
	}
	return entries
}

// testHistory builds a short synthetic daily series bracketing J2000.
func testHistory(t *testing.T, conv iau.Convention, simpleEOP bool) *eop.History {
	t.Helper()
	h, err := eop.NewHistory(conv, simpleEOP, testEntries(conv, 51535, 21))
	require.NoError(t, err)
	return h
}

func TestEME2000BiasMagnitude(t *testing.T) {
	p := NewEME2000Provider()
	date := astrotime.NewDateTT(86400 * 100)
	tr, err := p.Transform(date)
	require.NoError(t, err)

	// The fixed bias between the celestial frame and the J2000 mean
	// equator and equinox is about 23 milliarcseconds.
	angle := tr.Rotation().Angle() / arcsecToRad * 1000
	assert.Greater(t, angle, 20.0)
	assert.Less(t, angle, 26.0)

	assert.Equal(t, date, tr.Date())
	assert.Zero(t, tr.RotationRate().Norm())
	assert.Zero(t, tr.Translation().Norm())
}

func TestMODPrecessionAccumulates(t *testing.T) {
	for _, conv := range iau.Conventions {
		p := NewMODProvider(conv)

		atEpoch, err := p.Transform(astrotime.J2000)
		require.NoError(t, err)
		assert.Less(t, atEpoch.Rotation().Angle(), 1e-6, "convention %s", conv)

		// General precession is close to 50.3 arcseconds per year.
		tenYears := astrotime.NewDateTT(10 * astrotime.JulianYear)
		later, err := p.Transform(tenYears)
		require.NoError(t, err)
		accumulated := later.Rotation().Angle() / arcsecToRad
		assert.Greater(t, accumulated, 460.0, "convention %s", conv)
		assert.Less(t, accumulated, 550.0, "convention %s", conv)
	}
}

func TestTODNutationMagnitude(t *testing.T) {
	for _, conv := range iau.Conventions {
		p := NewTODProvider(conv, nil)
		tr, err := p.Transform(astrotime.J2000)
		require.NoError(t, err)

		// Nutation at J2000 is dominated by the 18.6 year lunar term,
		// around 14 arcseconds in longitude at that date.
		angle := tr.Rotation().Angle() / arcsecToRad
		assert.Greater(t, angle, 4.0, "convention %s", conv)
		assert.Less(t, angle, 30.0, "convention %s", conv)
		assert.Zero(t, tr.RotationRate().Norm())
	}
}

func TestTODAppliesEquinoxCorrections(t *testing.T) {
	conv := iau.Conventions1996
	bare := NewTODProvider(conv, nil)
	corrected := NewTODProvider(conv, testHistory(t, conv, true))

	date := astrotime.FromMJDUTC(51545.0)
	a, err := bare.Transform(date)
	require.NoError(t, err)
	b, err := corrected.Transform(date)
	require.NoError(t, err)

	// The series carries a -52 milliarcsecond longitude correction, so the
	// two rotations must differ by a comparable angle.
	diff := a.Rotation().Distance(b.Rotation()) / arcsecToRad * 1000
	assert.Greater(t, diff, 10.0)
	assert.Less(t, diff, 100.0)
}

func TestGTODSpinsAtEarthRate(t *testing.T) {
	p := NewGTODProvider(iau.Conventions1996, nil)
	tr, err := p.Transform(astrotime.FromMJDUTC(51545.0))
	require.NoError(t, err)

	rate := tr.RotationRate()
	assert.InDelta(t, earthRate, rate.Norm(), 1e-8)
	assert.InDelta(t, rate.Norm(), rate.Z, 1e-15, "spin must be about +z")

	// The rotation is purely equatorial.
	pole := tr.Rotation().Apply(geom.Vector3{Z: 1})
	assert.InDelta(t, 1, pole.Z, 1e-12)
}

func TestTIRFSpinsAtEarthRate(t *testing.T) {
	p := NewTIRFProvider(testHistory(t, iau.Conventions2010, true))
	tr, err := p.Transform(astrotime.FromMJDUTC(51545.0))
	require.NoError(t, err)

	rate := tr.RotationRate()
	assert.InDelta(t, earthRate, rate.Norm(), 1e-8)
	assert.InDelta(t, rate.Norm(), rate.Z, 1e-15)
}

func TestITRFAppliesPolarMotion(t *testing.T) {
	h := testHistory(t, iau.Conventions2010, true)
	p := NewITRFProvider(h)
	tr, err := p.Transform(astrotime.FromMJDUTC(51545.0))
	require.NoError(t, err)

	// The series pole lies 0.05 and 0.30 arcseconds off the intermediate
	// pole, so the tilt must match the combined offset.
	want := math.Hypot(0.05, 0.30)
	got := tr.Rotation().Angle() / arcsecToRad
	assert.InDelta(t, want, got, 0.01)
	assert.Zero(t, tr.RotationRate().Norm())
}

func TestTEMERotatesAboutPole(t *testing.T) {
	p := NewTEMEProvider(iau.Conventions1996)
	tr, err := p.Transform(astrotime.J2000)
	require.NoError(t, err)

	// The equation of the equinoxes at J2000 is near -13 arcseconds.
	angle := tr.Rotation().Angle() / arcsecToRad
	assert.Greater(t, angle, 4.0)
	assert.Less(t, angle, 30.0)

	pole := tr.Rotation().Apply(geom.Vector3{Z: 1})
	assert.InDelta(t, 0, pole.Distance(geom.Vector3{Z: 1}), 1e-14, "equinox shift is about z")
}

func TestVeisRotatesAboutPole(t *testing.T) {
	p := NewVEISProvider()
	tr, err := p.Transform(astrotime.FromMJDUTC(51545.0))
	require.NoError(t, err)

	assert.InDelta(t, earthRate, tr.RotationRate().Norm(), 1e-8)
	assert.InDelta(t, -tr.RotationRate().Norm(), tr.RotationRate().Z, 1e-15)

	pole := tr.Rotation().Apply(geom.Vector3{Z: 1})
	assert.InDelta(t, 0, pole.Distance(geom.Vector3{Z: 1}), 1e-14)
}

func TestEclipticTilt(t *testing.T) {
	for _, conv := range iau.Conventions {
		p := NewEclipticProvider(conv)
		date := astrotime.J2000
		tr, err := p.Transform(date)
		require.NoError(t, err)

		eps := conv.MeanObliquity(date)
		assert.InDelta(t, eps, tr.Rotation().Angle(), 1e-12)

		// The equatorial pole seen from the ecliptic frame tips toward +y.
		pole := tr.Rotation().Apply(geom.Vector3{Z: 1})
		assert.InDelta(t, math.Sin(eps), pole.Y, 1e-12)
		assert.InDelta(t, math.Cos(eps), pole.Z, 1e-12)
	}
}

func TestCIRFSmallNearEpoch(t *testing.T) {
	p := NewCIRFProvider(iau.Conventions2010, nil)
	tr, err := p.Transform(astrotime.J2000)
	require.NoError(t, err)
	assert.Less(t, tr.Rotation().Angle(), 1e-5)

	// A quarter century out the intermediate pole has precessed by a few
	// hundred arcseconds.
	later, err := p.Transform(astrotime.NewDateTT(25 * astrotime.JulianYear))
	require.NoError(t, err)
	assert.Greater(t, later.Rotation().Angle()/arcsecToRad, 100.0)
}

func TestCIRFAppliesCorrections(t *testing.T) {
	conv := iau.Conventions2010
	bare := NewCIRFProvider(conv, nil)
	corrected := NewCIRFProvider(conv, testHistory(t, conv, true))

	date := astrotime.FromMJDUTC(51545.0)
	a, err := bare.Transform(date)
	require.NoError(t, err)
	b, err := corrected.Transform(date)
	require.NoError(t, err)
	assert.Greater(t, a.Rotation().Distance(b.Rotation()), 1e-9)
}

func TestHelmertShift(t *testing.T) {
	p, err := NewHelmertProvider(ITRF2005)
	require.NoError(t, err)

	tr, err := p.Transform(astrotime.J2000)
	require.NoError(t, err)
	// Published 2008 to 2005 offset at epoch: (-2.0, -0.9, -4.7) mm.
	assert.InDelta(t, -2.0e-3, tr.Translation().X, 1e-9)
	assert.InDelta(t, -0.9e-3, tr.Translation().Y, 1e-9)
	assert.InDelta(t, -4.7e-3, tr.Translation().Z, 1e-9)

	// The x offset drifts 0.3 mm per year.
	tenYears := astrotime.NewDateTT(10 * astrotime.JulianYear)
	later, err := p.Transform(tenYears)
	require.NoError(t, err)
	assert.InDelta(t, 1.0e-3, later.Translation().X, 1e-9)

	// Linear drift means the velocity matches a finite difference exactly.
	dt := astrotime.SecondsPerDay
	ahead, err := p.Transform(astrotime.J2000.Shift(dt))
	require.NoError(t, err)
	fd := ahead.Translation().Sub(tr.Translation()).Scale(1 / dt)
	assert.InDelta(t, 0, fd.Distance(tr.Velocity()), 1e-15)
}

func TestHelmertRotationalGenerations(t *testing.T) {
	p, err := NewHelmertProvider(ITRF1993)
	require.NoError(t, err)
	tr, err := p.Transform(astrotime.J2000)
	require.NoError(t, err)

	// (-1.71, -1.48, -0.30) mas combine to about 2.28 mas of tilt.
	want := math.Sqrt(1.71*1.71+1.48*1.48+0.30*0.30) * 1e-3 * arcsecToRad
	assert.InDelta(t, want, tr.Rotation().Angle(), 1e-12)
	assert.Greater(t, tr.RotationRate().Norm(), 0.0)

	_, err = NewHelmertProvider(ITRFGeneration(99))
	assert.Error(t, err)
}

// TestRotatingProviderVelocityConsistency verifies the advertised velocity
// against a centered finite difference of the transformed position, for the
// providers that carry rates.
func TestRotatingProviderVelocityConsistency(t *testing.T) {
	h := testHistory(t, iau.Conventions1996, true)
	providers := map[string]Provider{
		"GTOD": NewGTODProvider(iau.Conventions1996, h),
		"TIRF": NewTIRFProvider(h),
		"VEIS": NewVEISProvider(),
	}
	date := astrotime.FromMJDUTC(51545.0)
	point := geom.Vector3{X: 7e6, Y: -2e6, Z: 1e6}
	const step = 1.0

	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			tr, err := p.Transform(date)
			require.NoError(t, err)
			before, err := p.Transform(date.Shift(-step))
			require.NoError(t, err)
			after, err := p.Transform(date.Shift(step))
			require.NoError(t, err)

			v := tr.TransformPV(PV{Position: point}).Velocity
			fd := after.TransformPosition(point).
				Sub(before.TransformPosition(point)).
				Scale(1 / (2 * step))
			assert.InDelta(t, 0, v.Distance(fd), 1e-2,
				"velocity %v does not match finite difference %v", v, fd)
		})
	}
}
