package frames

import (
	"fmt"

	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/iau"
)

// Key identifies one predefined frame of the tree. Keys are plain strings so
// they can travel through configuration and request payloads; ParseKey turns
// external input back into a checked key.
type Key string

func (k Key) String() string {
	return string(k)
}

// Keys of the frames that exist in a single flavor.
const (
	KeyGCRF     Key = "GCRF"
	KeyEME2000  Key = "EME2000"
	KeyTEME     Key = "TEME"
	KeyVeis1950 Key = "VEIS1950"

	KeyMODWithoutEOP  Key = "MOD/1996 without EOP"
	KeyTODWithoutEOP  Key = "TOD/1996 without EOP"
	KeyGTODWithoutEOP Key = "GTOD/1996 without EOP"
)

func eopSuffix(simpleEOP bool) string {
	if simpleEOP {
		return "simple EOP"
	}
	return "accurate EOP"
}

// MODKey returns the mean-of-date frame key for a convention.
func MODKey(conv iau.Convention) Key {
	return Key(fmt.Sprintf("MOD/%s", conv))
}

// TODKey returns the true-of-date frame key for a convention and EOP
// fidelity.
func TODKey(conv iau.Convention, simpleEOP bool) Key {
	return Key(fmt.Sprintf("TOD/%s %s", conv, eopSuffix(simpleEOP)))
}

// GTODKey returns the Greenwich true-of-date frame key.
func GTODKey(conv iau.Convention, simpleEOP bool) Key {
	return Key(fmt.Sprintf("GTOD/%s %s", conv, eopSuffix(simpleEOP)))
}

// EclipticKey returns the mean ecliptic frame key for a convention.
func EclipticKey(conv iau.Convention) Key {
	return Key(fmt.Sprintf("ecliptic/%s", conv))
}

// CIRFKey returns the celestial intermediate frame key.
func CIRFKey(conv iau.Convention, simpleEOP bool) Key {
	return Key(fmt.Sprintf("CIRF/%s %s", conv, eopSuffix(simpleEOP)))
}

// TIRFKey returns the terrestrial intermediate frame key.
func TIRFKey(conv iau.Convention, simpleEOP bool) Key {
	return Key(fmt.Sprintf("TIRF/%s %s", conv, eopSuffix(simpleEOP)))
}

// ITRFKey returns the Earth-fixed frame key. The polar motion chain realizes
// the 2008 frame directly; see ITRFRealizationKey for earlier generations.
func ITRFKey(conv iau.Convention, simpleEOP bool) Key {
	return Key(fmt.Sprintf("ITRF/%s %s", conv, eopSuffix(simpleEOP)))
}

// ITRFRealizationKey returns the key of a specific terrestrial realization.
// The 2008 generation is the chain output itself.
func ITRFRealizationKey(gen ITRFGeneration, conv iau.Convention, simpleEOP bool) Key {
	if gen == ITRF2008 {
		return ITRFKey(conv, simpleEOP)
	}
	return Key(fmt.Sprintf("%s/%s %s", gen, conv, eopSuffix(simpleEOP)))
}

// aliases maps accepted legacy spellings onto canonical keys.
var aliases = map[string]Key{
	"J2000":                        KeyEME2000,
	"ITRF2008":                     ITRFKey(iau.Conventions2010, false),
	"VEIS 1950":                    KeyVeis1950,
	"MOD without EOP corrections":  KeyMODWithoutEOP,
	"TOD without EOP corrections":  KeyTODWithoutEOP,
	"GTOD without EOP corrections": KeyGTODWithoutEOP,
}

// ParseKey resolves external input, alias spellings included, into a
// canonical frame key. Unknown names are reported as ErrUnknownFrame.
func ParseKey(s string) (Key, error) {
	if k, ok := aliases[s]; ok {
		return k, nil
	}
	k := Key(s)
	if k == KeyGCRF {
		return k, nil
	}
	if _, ok := recipes[k]; ok {
		return k, nil
	}
	return "", errors.Wrapf(errors.ErrUnknownFrame, "%q", s)
}

// FrameDescription is static metadata of a predefined frame, available
// without building it or its Earth orientation history.
type FrameDescription struct {
	Key            Key
	Parent         Key
	Depth          int
	PseudoInertial bool
	Interpolated   bool
}

// Describe returns the static metadata of a frame key.
func Describe(key Key) (FrameDescription, error) {
	if key == KeyGCRF {
		return FrameDescription{Key: KeyGCRF, PseudoInertial: true}, nil
	}
	rec, ok := recipes[key]
	if !ok {
		return FrameDescription{}, errors.Wrapf(errors.ErrUnknownFrame, "%q", key)
	}
	depth := 0
	for k := key; k != KeyGCRF; depth++ {
		next, ok := recipes[k]
		if !ok {
			return FrameDescription{}, errors.AssertionFailedf("recipe chain of %s broken at %s", key, k)
		}
		k = next.parent
	}
	return FrameDescription{
		Key:            key,
		Parent:         rec.parent,
		Depth:          depth,
		PseudoInertial: rec.pseudoInertial,
		Interpolated:   rec.interp != nil,
	}, nil
}

// AllKeys lists every predefined frame key in a stable order, inertial
// families first, then the rotating chains per convention.
func AllKeys() []Key {
	keys := []Key{KeyGCRF, KeyEME2000, KeyTEME, KeyVeis1950,
		KeyMODWithoutEOP, KeyTODWithoutEOP, KeyGTODWithoutEOP}
	for _, conv := range iau.Conventions {
		keys = append(keys, MODKey(conv), EclipticKey(conv))
	}
	for _, conv := range iau.Conventions {
		for _, simpleEOP := range []bool{false, true} {
			keys = append(keys,
				TODKey(conv, simpleEOP),
				GTODKey(conv, simpleEOP),
				CIRFKey(conv, simpleEOP),
				TIRFKey(conv, simpleEOP),
				ITRFKey(conv, simpleEOP))
			for _, gen := range Generations {
				keys = append(keys, ITRFRealizationKey(gen, conv, simpleEOP))
			}
		}
	}
	return keys
}
