package iers

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"

	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/iau"
)

var (
	c04Names1980 = regexp.MustCompile(`^eopc04_08\.(\d\d)$`)
	c04Names2000 = regexp.MustCompile(`^eopc04_08_IAU2000\.(\d\d)$`)
)

// C04Loader reads IERS EOP 08 C04 yearly files: whitespace separated tables
// of daily values. The IAU1980 compatible flavor publishes equinox
// corrections, the IAU2000 flavor non-rotating-origin ones; both use
// arcseconds for angles and seconds for time offsets.
type C04Loader struct {
	dir               string
	pattern           *regexp.Regexp
	nonRotatingOrigin bool
}

// NewC04Loader builds a loader scanning dir for C04 files of the requested
// correction basis.
func NewC04Loader(dir string, nonRotatingOrigin bool) *C04Loader {
	pattern := c04Names1980
	if nonRotatingOrigin {
		pattern = c04Names2000
	}
	return &C04Loader{dir: dir, pattern: pattern, nonRotatingOrigin: nonRotatingOrigin}
}

// FillHistory parses every matching file under the loader's directory into
// out. A malformed data line fails the whole load.
func (l *C04Loader) FillHistory(converter iau.NutationCorrectionConverter, out *eop.Collection) error {
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

func (l *C04Loader) loadFile(path string, converter iau.NutationCorrectionConverter, out *eop.Collection) error {
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

// parseLine parses one C04 line. Header lines are recognized by a first
// field that is not a plausible year and reported as skippable.
func (l *C04Loader) parseLine(line string) (Record, bool, error) {
	fields := strings.Fields(line)
	if len(fields) < 10 {
		return Record{}, false, nil
	}
	if year, err := strconv.Atoi(fields[0]); err != nil || year < 1900 {
		return Record{}, false, nil
	}

	// year month day MJD x y UT1-UTC LOD and two correction columns.
	mjd, err := parseField("MJD", fields[3])
	if err != nil {
		return Record{}, false, err
	}
	x, err := parseField("pole x", fields[4])
	if err != nil {
		return Record{}, false, err
	}
	y, err := parseField("pole y", fields[5])
	if err != nil {
		return Record{}, false, err
	}
	dut1, err := parseField("UT1-UTC", fields[6])
	if err != nil {
		return Record{}, false, err
	}
	lod, err := parseField("LOD", fields[7])
	if err != nil {
		return Record{}, false, err
	}
	corr1, err := parseField("first correction", fields[8])
	if err != nil {
		return Record{}, false, err
	}
	corr2, err := parseField("second correction", fields[9])
	if err != nil {
		return Record{}, false, err
	}

	rec := Record{
		MJD:  mjd,
		DUT1: dut1,
		LOD:  lod,
		X:    x * arcsecToRad,
		Y:    y * arcsecToRad,
	}
	c1 := corr1 * arcsecToRad
	c2 := corr2 * arcsecToRad
	if l.nonRotatingOrigin {
		rec.DX, rec.DY = &c1, &c2
	} else {
		rec.DDPsi, rec.DDEps = &c1, &c2
	}
	return rec, true, nil
}
