package frames

import (
	"astrodyn-platform/pkg/iau"
)

// recipe declares how one predefined frame is assembled: its parent key,
// the provider construction, an optional interpolation grid wrapped around
// the provider, and the pseudo-inertial flag.
type recipe struct {
	parent         Key
	build          func(r *Registry) (Provider, error)
	interp         *InterpolationConfig
	pseudoInertial bool
}

// rotationGrid returns the interpolation settings for the slowly varying
// rotation-only providers. Value-only fits: these providers produce no
// rates, so there are no derivatives to constrain with.
func rotationGrid(points int, step float64) *InterpolationConfig {
	cfg := DefaultInterpolationConfig(points, step)
	cfg.Cartesian = CartesianP
	cfg.Angular = AngularR
	return &cfg
}

// recipes declares the whole predefined tree. Frames are built lazily from
// this table. The root is not listed, each registry owns its GCRF instance.
var recipes = buildRecipes()

func buildRecipes() map[Key]recipe {
	m := make(map[Key]recipe)

	m[KeyEME2000] = recipe{
		parent:         KeyGCRF,
		pseudoInertial: true,
		build: func(*Registry) (Provider, error) {
			return NewEME2000Provider(), nil
		},
	}

	for _, conv := range iau.Conventions {
		addConventionRecipes(m, conv)
	}

	// The 1996 chain without Earth orientation corrections, kept for the
	// legacy analytical models anchored to it.
	m[KeyMODWithoutEOP] = recipe{
		parent:         KeyEME2000,
		pseudoInertial: true,
		build: func(*Registry) (Provider, error) {
			return NewMODProvider(iau.Conventions1996), nil
		},
	}
	m[KeyTODWithoutEOP] = recipe{
		parent:         KeyMODWithoutEOP,
		pseudoInertial: true,
		interp:         rotationGrid(gridPoints, coarseGridStep),
		build: func(*Registry) (Provider, error) {
			return NewTODProvider(iau.Conventions1996, nil), nil
		},
	}
	m[KeyGTODWithoutEOP] = recipe{
		parent: KeyTODWithoutEOP,
		build: func(*Registry) (Provider, error) {
			return NewGTODProvider(iau.Conventions1996, nil), nil
		},
	}
	m[KeyTEME] = recipe{
		parent:         KeyTODWithoutEOP,
		pseudoInertial: true,
		interp:         rotationGrid(gridPoints, coarseGridStep),
		build: func(*Registry) (Provider, error) {
			return NewTEMEProvider(iau.Conventions1996), nil
		},
	}
	m[KeyVeis1950] = recipe{
		parent:         KeyGTODWithoutEOP,
		pseudoInertial: true,
		build: func(*Registry) (Provider, error) {
			return NewVEISProvider(), nil
		},
	}

	return m
}

// addConventionRecipes declares the frames existing once per convention.
// The 1996 precession is developed against the J2000 mean equator, so its
// mean-of-date frame descends from EME2000; the later conventions are
// referenced to the geocentric celestial frame directly.
func addConventionRecipes(m map[Key]recipe, conv iau.Convention) {
	modParent := KeyGCRF
	if conv == iau.Conventions1996 {
		modParent = KeyEME2000
	}
	m[MODKey(conv)] = recipe{
		parent:         modParent,
		pseudoInertial: true,
		build: func(*Registry) (Provider, error) {
			return NewMODProvider(conv), nil
		},
	}
	m[EclipticKey(conv)] = recipe{
		parent:         MODKey(conv),
		pseudoInertial: true,
		build: func(*Registry) (Provider, error) {
			return NewEclipticProvider(conv), nil
		},
	}

	for _, simpleEOP := range []bool{false, true} {
		addEOPChainRecipes(m, conv, simpleEOP)
	}
}

// addEOPChainRecipes declares the frames existing per convention and EOP
// fidelity: the equinox-based true-of-date pair and the CIO-based chain
// down to the terrestrial realizations.
func addEOPChainRecipes(m map[Key]recipe, conv iau.Convention, simpleEOP bool) {
	m[TODKey(conv, simpleEOP)] = recipe{
		parent:         MODKey(conv),
		pseudoInertial: true,
		interp:         rotationGrid(gridPoints, fineGridStep),
		build: func(r *Registry) (Provider, error) {
			h, err := r.EOPHistory(conv, simpleEOP)
			if err != nil {
				return nil, err
			}
			return NewTODProvider(conv, h), nil
		},
	}
	m[GTODKey(conv, simpleEOP)] = recipe{
		parent: TODKey(conv, simpleEOP),
		build: func(r *Registry) (Provider, error) {
			h, err := r.EOPHistory(conv, simpleEOP)
			if err != nil {
				return nil, err
			}
			return NewGTODProvider(conv, h), nil
		},
	}

	m[CIRFKey(conv, simpleEOP)] = recipe{
		parent:         KeyGCRF,
		pseudoInertial: true,
		interp:         rotationGrid(gridPoints, fineGridStep),
		build: func(r *Registry) (Provider, error) {
			h, err := r.EOPHistory(conv, simpleEOP)
			if err != nil {
				return nil, err
			}
			return NewCIRFProvider(conv, h), nil
		},
	}
	m[TIRFKey(conv, simpleEOP)] = recipe{
		parent: CIRFKey(conv, simpleEOP),
		build: func(r *Registry) (Provider, error) {
			h, err := r.EOPHistory(conv, simpleEOP)
			if err != nil {
				return nil, err
			}
			return NewTIRFProvider(h), nil
		},
	}
	m[ITRFKey(conv, simpleEOP)] = recipe{
		parent: TIRFKey(conv, simpleEOP),
		build: func(r *Registry) (Provider, error) {
			h, err := r.EOPHistory(conv, simpleEOP)
			if err != nil {
				return nil, err
			}
			return NewITRFProvider(h), nil
		},
	}
	for _, gen := range Generations {
		m[ITRFRealizationKey(gen, conv, simpleEOP)] = recipe{
			parent: ITRFKey(conv, simpleEOP),
			build: func(*Registry) (Provider, error) {
				return NewHelmertProvider(gen)
			},
		}
	}
}
