// Package iers loads Earth orientation series from IERS operational
// products. Two layouts are recognized: EOP C04 whitespace tables and the
// fixed-width rapid data and prediction columns files (finals). Parsed
// values are normalized to radians and seconds, and every record passes
// through the convention converter so entries carry both correction bases.
package iers

import (
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/iau"
)

const (
	arcsecToRad = math.Pi / (180.0 * 3600.0)
	masToRad    = arcsecToRad / 1000.0
	msToSeconds = 1e-3
)

// Record is one parsed Earth orientation line. Angles are radians, offsets
// seconds. Exactly one correction pair is set, matching the basis the file
// publishes; both nil means the line carried no corrections.
type Record struct {
	MJD  float64
	DUT1 float64
	LOD  float64
	X, Y float64

	DDPsi, DDEps *float64
	DX, DY       *float64
}

// ToEntry converts the record into a history entry, deriving the missing
// correction basis. Absent corrections read as zero in both bases.
func (r Record) ToEntry(converter iau.NutationCorrectionConverter) eop.Entry {
	switch {
	case r.DDPsi != nil && r.DDEps != nil:
		return eop.NewEntryFromEquinox(converter, r.MJD, r.DUT1, r.LOD, r.X, r.Y, *r.DDPsi, *r.DDEps)
	case r.DX != nil && r.DY != nil:
		return eop.NewEntryFromNonRotating(converter, r.MJD, r.DUT1, r.LOD, r.X, r.Y, *r.DX, *r.DY)
	default:
		return eop.NewEntryFromEquinox(converter, r.MJD, r.DUT1, r.LOD, r.X, r.Y, 0, 0)
	}
}

// matchingFiles lists the regular files under dir whose base name matches
// pattern, in lexical order.
func matchingFiles(dir string, pattern *regexp.Regexp) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !pattern.MatchString(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func parseField(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Newf("invalid %s value %q", name, strings.TrimSpace(s))
	}
	return v, nil
}
