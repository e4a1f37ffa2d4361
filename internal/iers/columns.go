package iers

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/iau"
)

var (
	columnsNames1980 = regexp.MustCompile(`^finals\.[^.]*$`)
	columnsNames2000 = regexp.MustCompile(`^finals2000A\.[^.]*$`)
)

// colRange is a 1-based inclusive column span of the fixed-width layout.
type colRange struct {
	first, last int
}

func (c colRange) extract(line string) string {
	if len(line) < c.first {
		return ""
	}
	end := c.last
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[c.first-1 : end])
}

// Rapid data and prediction columns layout. Pole coordinates are
// arcseconds, UT1-UTC seconds, LOD milliseconds and the corrections
// milliarcseconds.
var (
	colMJD   = colRange{8, 15}
	colPoleX = colRange{19, 27}
	colPoleY = colRange{38, 46}
	colDUT1  = colRange{59, 68}
	colLOD   = colRange{80, 86}
	colCorr1 = colRange{98, 106}
	colCorr2 = colRange{117, 125}
)

// ColumnsLoader reads rapid data and prediction columns files (finals and
// finals2000A). The prediction tail of these files thins out: lines without
// pole or clock values are skipped, a missing LOD reads as zero and missing
// corrections stay unset.
type ColumnsLoader struct {
	dir               string
	pattern           *regexp.Regexp
	nonRotatingOrigin bool
}

// NewColumnsLoader builds a loader scanning dir for finals files of the
// requested correction basis.
func NewColumnsLoader(dir string, nonRotatingOrigin bool) *ColumnsLoader {
	pattern := columnsNames1980
	if nonRotatingOrigin {
		pattern = columnsNames2000
	}
	return &ColumnsLoader{dir: dir, pattern: pattern, nonRotatingOrigin: nonRotatingOrigin}
}

// FillHistory parses every matching file under the loader's directory into
// out. A malformed data line fails the whole load.
func (l *ColumnsLoader) FillHistory(converter iau.NutationCorrectionConverter, out *eop.Collection) error {
	files, err := matchingFiles(l.dir, l.pattern)
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := l.loadFile(path, converter, out); err != nil {
			return err
		}
	}
	return nil
}

func (l *ColumnsLoader) loadFile(path string, converter iau.NutationCorrectionConverter, out *eop.Collection) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		rec, ok, err := l.parseLine(scanner.Text())
		if err != nil {
			return errors.Wrapf(err, "%s:%d", path, lineno)
		}
		if !ok {
			continue
		}
		out.Add(rec.ToEntry(converter))
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	return nil
}

func (l *ColumnsLoader) parseLine(line string) (Record, bool, error) {
	if strings.TrimSpace(line) == "" {
		return Record{}, false, nil
	}
	mjd, err := parseField("MJD", colMJD.extract(line))
	if err != nil {
		return Record{}, false, err
	}

	// Prediction tail lines carry a date but no values yet.
	xs, ys, ds := colPoleX.extract(line), colPoleY.extract(line), colDUT1.extract(line)
	if xs == "" || ys == "" || ds == "" {
		return Record{}, false, nil
	}
	x, err := parseField("pole x", xs)
	if err != nil {
		return Record{}, false, err
	}
	y, err := parseField("pole y", ys)
	if err != nil {
		return Record{}, false, err
	}
	dut1, err := parseField("UT1-UTC", ds)
	if err != nil {
		return Record{}, false, err
	}

	var lod float64
	if s := colLOD.extract(line); s != "" {
		v, err := parseField("LOD", s)
		if err != nil {
			return Record{}, false, err
		}
		lod = v * msToSeconds
	}

	rec := Record{
		MJD:  mjd,
		DUT1: dut1,
		LOD:  lod,
		X:    x * arcsecToRad,
		Y:    y * arcsecToRad,
	}

	c1s, c2s := colCorr1.extract(line), colCorr2.extract(line)
	if c1s != "" && c2s != "" {
		corr1, err := parseField("first correction", c1s)
		if err != nil {
			return Record{}, false, err
		}
		corr2, err := parseField("second correction", c2s)
		if err != nil {
			return Record{}, false, err
		}
		c1 := corr1 * masToRad
		c2 := corr2 * masToRad
		if l.nonRotatingOrigin {
			rec.DX, rec.DY = &c1, &c2
		} else {
			rec.DDPsi, rec.DDEps = &c1, &c2
		}
	}
	return rec, true, nil
}
