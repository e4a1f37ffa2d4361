// Package frames builds the reference frame tree and the time-dependent
// transforms between its nodes. Frames hang off a single celestial root;
// each carries a provider producing the parent-relative transform at any
// date, parametrized where needed by Earth orientation data. A registry
// caches lazily built frames and histories behind stable keys.
package frames

import (
	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/geom"
)

// PV is a position/velocity pair expressed in one frame.
type PV struct {
	Position geom.Vector3 `json:"position"`
	Velocity geom.Vector3 `json:"velocity"`
}

// Transform maps coordinates from one frame to another at a fixed date.
// Applying it runs translation first, then rotation: p' = R(p + t). The
// rotation rate is the destination frame's angular velocity relative to the
// origin frame, expressed in the destination frame. Transforms are values;
// composition and inversion return new ones.
type Transform struct {
	date        astrotime.Date
	translation geom.Vector3
	velocity    geom.Vector3
	rotation    geom.Rotation
	rate        geom.Vector3
}

// IdentityTransform returns the identity at the given date.
func IdentityTransform(date astrotime.Date) Transform {
	return Transform{date: date, rotation: geom.Identity}
}

// NewRotationTransform builds a pure rotation with no rate.
func NewRotationTransform(date astrotime.Date, r geom.Rotation) Transform {
	return Transform{date: date, rotation: r}
}

// NewRotationRateTransform builds a rotation with an angular velocity.
func NewRotationRateTransform(date astrotime.Date, r geom.Rotation, rate geom.Vector3) Transform {
	return Transform{date: date, rotation: r, rate: rate}
}

// NewTranslationTransform builds a pure translation with a drift velocity.
func NewTranslationTransform(date astrotime.Date, translation, velocity geom.Vector3) Transform {
	return Transform{date: date, translation: translation, velocity: velocity, rotation: geom.Identity}
}

// NewCompositeTransform builds the general case from all four components.
func NewCompositeTransform(date astrotime.Date, translation, velocity geom.Vector3, r geom.Rotation, rate geom.Vector3) Transform {
	return Transform{date: date, translation: translation, velocity: velocity, rotation: r, rate: rate}
}

// Date returns the instant the transform is valid for.
func (t Transform) Date() astrotime.Date {
	return t.date
}

// Rotation returns the angular part.
func (t Transform) Rotation() geom.Rotation {
	return t.rotation
}

// RotationRate returns the angular velocity, expressed in the destination
// frame.
func (t Transform) RotationRate() geom.Vector3 {
	return t.rate
}

// Translation returns the offset, expressed in the origin frame.
func (t Transform) Translation() geom.Vector3 {
	return t.translation
}

// Velocity returns the offset drift rate.
func (t Transform) Velocity() geom.Vector3 {
	return t.velocity
}

// Compose combines two transforms into the single equivalent of applying
// first and then second. The composite carries first's date.
func Compose(first, second Transform) Transform {
	r1 := first.rotation
	crossP := first.rate.Cross(second.translation)
	return Transform{
		date:        first.date,
		translation: first.translation.Add(r1.ApplyInverse(second.translation)),
		velocity:    first.velocity.Add(r1.ApplyInverse(second.velocity.Add(crossP))),
		rotation:    second.rotation.Compose(r1),
		rate:        second.rate.Add(second.rotation.Apply(first.rate)),
	}
}

// Inverse returns the exact algebraic inverse.
func (t Transform) Inverse() Transform {
	rp := t.rotation.Apply(t.translation)
	rv := t.rotation.Apply(t.velocity)
	return Transform{
		date:        t.date,
		translation: rp.Neg(),
		velocity:    t.rate.Cross(rp).Sub(rv),
		rotation:    t.rotation.Inverse(),
		rate:        t.rotation.ApplyInverse(t.rate).Neg(),
	}
}

// TransformPosition maps a position from the origin to the destination
// frame.
func (t Transform) TransformPosition(p geom.Vector3) geom.Vector3 {
	return t.rotation.Apply(p.Add(t.translation))
}

// TransformVector maps a direction, ignoring the translation.
func (t Transform) TransformVector(v geom.Vector3) geom.Vector3 {
	return t.rotation.Apply(v)
}

// TransformPV maps a full position/velocity state, including the frame
// rotation contribution to the velocity.
func (t Transform) TransformPV(pv PV) PV {
	p := t.TransformPosition(pv.Position)
	v := t.rotation.Apply(pv.Velocity.Add(t.velocity)).Sub(t.rate.Cross(p))
	return PV{Position: p, Velocity: v}
}
