package iers

import (
	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/iau"
)

// Format distinguishes the two supported product layouts.
type Format int

const (
	// FormatC04 is the whitespace separated yearly C04 table.
	FormatC04 Format = iota
	// FormatColumns is the fixed-width rapid data and prediction file.
	FormatColumns
)

func (f Format) String() string {
	if f == FormatC04 {
		return "c04"
	}
	return "columns"
}

// FileInfo describes a recognized Earth orientation product file.
type FileInfo struct {
	Format Format
	// NonRotatingOrigin reports which correction basis the product
	// publishes: dX/dY when true, dpsi/deps otherwise.
	NonRotatingOrigin bool
}

// Conventions returns the convention generations the product feeds. The
// equinox basis serves the 1996 conventions, the non-rotating basis the
// later two.
func (i FileInfo) Conventions() []iau.Convention {
	if i.NonRotatingOrigin {
		return []iau.Convention{iau.Conventions2003, iau.Conventions2010}
	}
	return []iau.Convention{iau.Conventions1996}
}

// Classify recognizes a product file by name. The patterns are the same
// ones the directory loaders scan for.
func Classify(name string) (FileInfo, bool) {
	switch {
	case c04Names1980.MatchString(name):
		return FileInfo{Format: FormatC04}, true
	case c04Names2000.MatchString(name):
		return FileInfo{Format: FormatC04, NonRotatingOrigin: true}, true
	case columnsNames1980.MatchString(name):
		return FileInfo{Format: FormatColumns}, true
	case columnsNames2000.MatchString(name):
		return FileInfo{Format: FormatColumns, NonRotatingOrigin: true}, true
	}
	return FileInfo{}, false
}

// ParseFile reads one recognized product file into chronological entries,
// normalizing corrections through the converter of the convention the data
// will serve.
func ParseFile(path string, info FileInfo, converter iau.NutationCorrectionConverter) ([]eop.Entry, error) {
	out := eop.NewCollection()

	var err error
	switch info.Format {
	case FormatC04:
		l := &C04Loader{nonRotatingOrigin: info.NonRotatingOrigin}
		err = l.loadFile(path, converter, out)
	case FormatColumns:
		l := &ColumnsLoader{nonRotatingOrigin: info.NonRotatingOrigin}
		err = l.loadFile(path, converter, out)
	default:
		return nil, errors.AssertionFailedf("unhandled product format %d", int(info.Format))
	}
	if err != nil {
		return nil, err
	}

	return out.Sorted(), nil
}
