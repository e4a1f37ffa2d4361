package frames

import (
	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/geom"
)

// ITRFGeneration names a realization of the international terrestrial
// reference system. The 2008 realization is the one the polar motion chain
// produces directly; earlier generations hang off it through fixed datum
// shifts.
type ITRFGeneration int

const (
	ITRF2008 ITRFGeneration = iota
	ITRF2005
	ITRF2000
	ITRF1997
	ITRF1993
)

func (g ITRFGeneration) String() string {
	switch g {
	case ITRF2008:
		return "ITRF2008"
	case ITRF2005:
		return "ITRF2005"
	case ITRF2000:
		return "ITRF2000"
	case ITRF1997:
		return "ITRF97"
	case ITRF1993:
		return "ITRF93"
	default:
		return "unknown"
	}
}

// Generations lists the realizations reachable through datum shifts.
var Generations = []ITRFGeneration{ITRF2005, ITRF2000, ITRF1997, ITRF1993}

// helmertParameters holds the published seven-parameter sets mapping the
// 2008 realization to earlier generations at epoch 2000.0. Translations in
// millimeters, rotations in milliarcseconds, rates per Julian year. The
// parts-per-billion scale terms of the published sets are omitted: frame
// transforms are rigid.
var helmertParameters = map[ITRFGeneration]struct {
	tx, ty, tz    float64
	rx, ry, rz    float64
	txd, tyd, tzd float64
	rxd, ryd, rzd float64
}{
	ITRF2005: {-2.0, -0.9, -4.7, 0, 0, 0, 0.3, 0.0, 0.0, 0, 0, 0},
	ITRF2000: {-1.9, -1.7, -10.5, 0, 0, 0, 0.1, 0.1, -1.8, 0, 0, 0},
	ITRF1997: {4.8, 2.6, -33.2, 0, 0, 0.06, 0.1, -0.5, -3.2, 0, 0, 0.02},
	ITRF1993: {-24.0, 2.4, -38.6, -1.71, -1.48, -0.30, -2.8, -0.1, -2.4, -0.11, -0.19, 0.07},
}

// HelmertProvider applies a linearly drifting seven-parameter datum shift
// between two terrestrial realizations. The published small-rotation
// convention is p' = p + T + r x p.
type HelmertProvider struct {
	translation geom.Vector3
	velocity    geom.Vector3
	rotation    geom.Vector3
	rotationDot geom.Vector3
}

// NewHelmertProvider builds the shift from the 2008 realization to the
// given earlier generation.
func NewHelmertProvider(gen ITRFGeneration) (*HelmertProvider, error) {
	p, ok := helmertParameters[gen]
	if !ok {
		return nil, errors.AssertionFailedf("no datum shift parameters for %s", gen)
	}
	const (
		mm      = 1e-3
		mas     = 1e-3 * arcsecToRad
		perYear = 1 / astrotime.JulianYear
	)
	return &HelmertProvider{
		translation: geom.Vector3{X: p.tx * mm, Y: p.ty * mm, Z: p.tz * mm},
		velocity:    geom.Vector3{X: p.txd * mm * perYear, Y: p.tyd * mm * perYear, Z: p.tzd * mm * perYear},
		rotation:    geom.Vector3{X: p.rx * mas, Y: p.ry * mas, Z: p.rz * mas},
		rotationDot: geom.Vector3{X: p.rxd * mas * perYear, Y: p.ryd * mas * perYear, Z: p.rzd * mas * perYear},
	}, nil
}

// Transform returns the datum shift at date, parameters propagated
// linearly from the 2000.0 epoch.
func (p *HelmertProvider) Transform(date astrotime.Date) (Transform, error) {
	dt := date.DurationFrom(astrotime.J2000)
	r := p.rotation.Add(p.rotationDot.Scale(dt))
	rot := geom.RotationFromVector(r.Neg())
	return NewCompositeTransform(date, p.translation.Add(p.velocity.Scale(dt)), p.velocity, rot, p.rotationDot.Neg()), nil
}
