package frames

import (
	"math"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/geom"
)

const arcsecToRad = math.Pi / 648000

// Provider produces the parent-to-frame transform at a date. Implementations
// are pure functions of the date and, where relevant, of an injected Earth
// orientation history; none mutate shared state.
type Provider interface {
	Transform(date astrotime.Date) (Transform, error)
}

// FixedProvider serves a constant transform. Only the date tag follows the
// query so composition stays date-consistent.
type FixedProvider struct {
	transform Transform
}

// NewFixedProvider wraps a constant transform, covering frame biases and
// user-defined fixed offsets.
func NewFixedProvider(t Transform) *FixedProvider {
	return &FixedProvider{transform: t}
}

// Transform returns the fixed transform restamped at date.
func (p *FixedProvider) Transform(date astrotime.Date) (Transform, error) {
	t := p.transform
	t.date = date
	return t, nil
}

// NewEME2000Provider returns the fixed frame bias between the celestial
// root and the J2000 mean equator/equinox frame, from the IAU 2000
// offsets at epoch.
func NewEME2000Provider() *FixedProvider {
	const (
		alpha0 = -0.0146 * arcsecToRad
		xi0    = -0.016617 * arcsecToRad
		eta0   = -0.0068192 * arcsecToRad
	)
	bias := geom.NewRotation(geom.AxisX, -eta0).
		Compose(geom.NewRotation(geom.AxisY, xi0)).
		Compose(geom.NewRotation(geom.AxisZ, alpha0))
	return NewFixedProvider(NewRotationTransform(astrotime.J2000, bias))
}
