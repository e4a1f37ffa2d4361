package iers

import (
	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/iau"
)

// DefaultLoaders returns a loader factory rooted at dir, suitable for
// frames.Options. The 1996 conventions read the IAU1980 compatible products
// and the newer conventions the IAU2000 ones. Final C04 values are
// registered ahead of the rapid data files, so measured values win over
// predictions on overlapping dates.
func DefaultLoaders(dir string) func(conv iau.Convention) []eop.Loader {
	return func(conv iau.Convention) []eop.Loader {
		nonRotatingOrigin := conv != iau.Conventions1996
		return []eop.Loader{
			NewC04Loader(dir, nonRotatingOrigin),
			NewColumnsLoader(dir, nonRotatingOrigin),
		}
	}
}
