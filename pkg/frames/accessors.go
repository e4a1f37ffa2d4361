package frames

import (
	"astrodyn-platform/pkg/iau"
)

// EME2000 returns the mean equator, mean equinox of J2000 frame.
func (r *Registry) EME2000() (*Frame, error) {
	return r.Frame(KeyEME2000)
}

// MOD returns the mean equator of date frame for a convention.
func (r *Registry) MOD(conv iau.Convention) (*Frame, error) {
	return r.Frame(MODKey(conv))
}

// TOD returns the true equator of date frame for a convention and EOP
// fidelity.
func (r *Registry) TOD(conv iau.Convention, simpleEOP bool) (*Frame, error) {
	return r.Frame(TODKey(conv, simpleEOP))
}

// GTOD returns the Greenwich true of date frame.
func (r *Registry) GTOD(conv iau.Convention, simpleEOP bool) (*Frame, error) {
	return r.Frame(GTODKey(conv, simpleEOP))
}

// MODWithoutEOP returns the 1996 mean of date frame with no Earth
// orientation corrections.
func (r *Registry) MODWithoutEOP() (*Frame, error) {
	return r.Frame(KeyMODWithoutEOP)
}

// TODWithoutEOP returns the 1996 true of date frame with no Earth
// orientation corrections.
func (r *Registry) TODWithoutEOP() (*Frame, error) {
	return r.Frame(KeyTODWithoutEOP)
}

// GTODWithoutEOP returns the 1996 Greenwich true of date frame with no
// Earth orientation corrections.
func (r *Registry) GTODWithoutEOP() (*Frame, error) {
	return r.Frame(KeyGTODWithoutEOP)
}

// TEME returns the true equator, mean equinox frame used by SGP4 element
// sets.
func (r *Registry) TEME() (*Frame, error) {
	return r.Frame(KeyTEME)
}

// Veis1950 returns the Veis 1950 frame.
func (r *Registry) Veis1950() (*Frame, error) {
	return r.Frame(KeyVeis1950)
}

// Ecliptic returns the mean ecliptic of date frame for a convention.
func (r *Registry) Ecliptic(conv iau.Convention) (*Frame, error) {
	return r.Frame(EclipticKey(conv))
}

// CIRF returns the celestial intermediate frame.
func (r *Registry) CIRF(conv iau.Convention, simpleEOP bool) (*Frame, error) {
	return r.Frame(CIRFKey(conv, simpleEOP))
}

// TIRF returns the terrestrial intermediate frame.
func (r *Registry) TIRF(conv iau.Convention, simpleEOP bool) (*Frame, error) {
	return r.Frame(TIRFKey(conv, simpleEOP))
}

// ITRF returns the Earth-fixed frame produced by the polar motion chain.
func (r *Registry) ITRF(conv iau.Convention, simpleEOP bool) (*Frame, error) {
	return r.Frame(ITRFKey(conv, simpleEOP))
}

// ITRFRealization returns a specific terrestrial realization, reached from
// the chain output through its datum shift.
func (r *Registry) ITRFRealization(gen ITRFGeneration, conv iau.Convention, simpleEOP bool) (*Frame, error) {
	return r.Frame(ITRFRealizationKey(gen, conv, simpleEOP))
}
