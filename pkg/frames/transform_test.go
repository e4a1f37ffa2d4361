package frames

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/geom"
)

func TestTransformPositionConvention(t *testing.T) {
	date := astrotime.J2000

	t.Run("pure translation", func(t *testing.T) {
		tr := NewTranslationTransform(date, geom.Vector3{X: 1}, geom.Vector3{})
		got := tr.TransformPosition(geom.Vector3{X: 2, Y: 1})
		assert.InDelta(t, 3, got.X, 1e-15)
		assert.InDelta(t, 1, got.Y, 1e-15)
	})

	t.Run("pure rotation", func(t *testing.T) {
		psi := 0.4
		tr := NewRotationTransform(date, geom.NewRotation(geom.AxisZ, psi))
		got := tr.TransformPosition(geom.Vector3{X: 1})
		assert.InDelta(t, math.Cos(psi), got.X, 1e-15)
		assert.InDelta(t, -math.Sin(psi), got.Y, 1e-15)

		// Directions ignore any translation.
		vec := tr.TransformVector(geom.Vector3{X: 1})
		assert.InDelta(t, 0, got.Distance(vec), 1e-15)
	})

	t.Run("rotating frame velocity", func(t *testing.T) {
		// A point at rest on the x axis, seen from a frame spinning at
		// rate w about z, moves backwards along y at w times the radius.
		w := 7.29e-5
		tr := NewRotationRateTransform(date, geom.Identity, geom.Vector3{Z: w})
		got := tr.TransformPV(PV{Position: geom.Vector3{X: 2}})
		assert.InDelta(t, 0, got.Velocity.X, 1e-18)
		assert.InDelta(t, -2*w, got.Velocity.Y, 1e-18)
		assert.InDelta(t, 0, got.Velocity.Z, 1e-18)
	})
}

// sampleTransforms returns two unrelated fully populated transforms.
func sampleTransforms() (Transform, Transform) {
	date := astrotime.J2000
	first := NewCompositeTransform(date,
		geom.Vector3{X: 1.0, Y: -2.0, Z: 3.0},
		geom.Vector3{X: 0.1, Y: 0.02, Z: -0.3},
		geom.NewRotation(geom.AxisZ, 0.7).Compose(geom.NewRotation(geom.AxisX, -0.2)),
		geom.Vector3{X: 0.01, Y: -0.02, Z: 0.03})
	second := NewCompositeTransform(date,
		geom.Vector3{X: -4.0, Y: 0.5, Z: 1.5},
		geom.Vector3{X: -0.05, Y: 0.2, Z: 0.07},
		geom.NewRotation(geom.AxisY, 1.3).Compose(geom.NewRotation(geom.AxisZ, -2.1)),
		geom.Vector3{X: -0.03, Y: 0.01, Z: 0.02})
	return first, second
}

func TestComposeMatchesSequentialApplication(t *testing.T) {
	first, second := sampleTransforms()
	composite := Compose(first, second)

	states := []PV{
		{Position: geom.Vector3{X: 7e6, Y: -1e5, Z: 2e6}, Velocity: geom.Vector3{X: 1.2e3, Y: -7.1e3, Z: 0.4e3}},
		{Position: geom.Vector3{X: -3.3, Y: 0.1, Z: 9.9}, Velocity: geom.Vector3{}},
		{},
	}
	for _, pv := range states {
		direct := composite.TransformPV(pv)
		chained := second.TransformPV(first.TransformPV(pv))
		assert.InDelta(t, 0, direct.Position.Distance(chained.Position), 1e-7*math.Max(1, pv.Position.Norm()))
		assert.InDelta(t, 0, direct.Velocity.Distance(chained.Velocity), 1e-7*math.Max(1, pv.Velocity.Norm()))
	}
}

func TestComposeAssociative(t *testing.T) {
	first, second := sampleTransforms()
	third := NewCompositeTransform(astrotime.J2000,
		geom.Vector3{X: 0.3, Y: 0.4, Z: -0.5},
		geom.Vector3{X: 0.01, Y: 0, Z: 0.02},
		geom.NewRotation(geom.AxisX, 2.2),
		geom.Vector3{Z: -0.015})

	left := Compose(Compose(first, second), third)
	right := Compose(first, Compose(second, third))
	pv := PV{Position: geom.Vector3{X: 1e3, Y: 2e3, Z: -5e2}, Velocity: geom.Vector3{X: 1, Y: -2, Z: 3}}

	lpv := left.TransformPV(pv)
	rpv := right.TransformPV(pv)
	assert.InDelta(t, 0, lpv.Position.Distance(rpv.Position), 1e-9)
	assert.InDelta(t, 0, lpv.Velocity.Distance(rpv.Velocity), 1e-9)
}

func TestInverseRoundTrip(t *testing.T) {
	first, second := sampleTransforms()
	for _, tr := range []Transform{first, second, Compose(first, second)} {
		pv := PV{Position: geom.Vector3{X: 7e6, Y: -1e5, Z: 2e6}, Velocity: geom.Vector3{X: 1.2e3, Y: -7.1e3, Z: 0.4e3}}
		back := tr.Inverse().TransformPV(tr.TransformPV(pv))
		assert.InDelta(t, 0, back.Position.Distance(pv.Position), 1e-6)
		assert.InDelta(t, 0, back.Velocity.Distance(pv.Velocity), 1e-6)

		ident := Compose(tr, tr.Inverse())
		assert.InDelta(t, 0, ident.Rotation().Angle(), 1e-13)
		assert.InDelta(t, 0, ident.Translation().Norm(), 1e-13)
		assert.InDelta(t, 0, ident.Velocity().Norm(), 1e-13)
		assert.InDelta(t, 0, ident.RotationRate().Norm(), 1e-13)
	}
}

func TestIdentityNeutralInComposition(t *testing.T) {
	first, _ := sampleTransforms()
	id := IdentityTransform(first.Date())
	pv := PV{Position: geom.Vector3{X: 10, Y: 20, Z: 30}, Velocity: geom.Vector3{X: 0.1, Y: 0.2, Z: 0.3}}

	for _, tr := range []Transform{Compose(id, first), Compose(first, id)} {
		got := tr.TransformPV(pv)
		want := first.TransformPV(pv)
		assert.InDelta(t, 0, got.Position.Distance(want.Position), 1e-12)
		assert.InDelta(t, 0, got.Velocity.Distance(want.Velocity), 1e-12)
	}
}

func TestTransformCarriesDate(t *testing.T) {
	date := astrotime.NewDateTT(12345.0)
	tr := NewRotationTransform(date, geom.NewRotation(geom.AxisZ, 1))
	assert.Equal(t, date, tr.Date())
	assert.Equal(t, date, tr.Inverse().Date())
	assert.Equal(t, date, Compose(tr, IdentityTransform(date)).Date())
}
