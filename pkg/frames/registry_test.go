package frames

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/iau"
	"astrodyn-platform/pkg/metrics"
)

// countingLoader wraps a static series and counts FillHistory invocations.
type countingLoader struct {
	entries []eop.Entry
	calls   atomic.Int64
}

func (l *countingLoader) FillHistory(_ iau.NutationCorrectionConverter, out *eop.Collection) error {
	l.calls.Add(1)
	out.AddAll(l.entries)
	return nil
}

// testRegistry builds a registry fed with a synthetic Earth orientation
// series for every convention.
func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry(Options{})
	for _, conv := range iau.Conventions {
		r.AddEOPLoaders(conv, eop.StaticLoader{Entries: testEntries(conv, 51535, 21)})
	}
	return r
}

func TestFrameSingleInstancePerKey(t *testing.T) {
	r := testRegistry(t)

	first, err := r.Frame(KeyTEME)
	require.NoError(t, err)
	second, err := r.Frame(KeyTEME)
	require.NoError(t, err)
	assert.Same(t, first, second)

	byAccessor, err := r.TEME()
	require.NoError(t, err)
	assert.Same(t, first, byAccessor)
}

func TestConcurrentFrameRequestsShareBuild(t *testing.T) {
	loader := &countingLoader{entries: testEntries(iau.Conventions2010, 51535, 21)}
	r := NewRegistry(Options{})
	r.AddEOPLoaders(iau.Conventions2010, loader)

	key := ITRFKey(iau.Conventions2010, false)
	const workers = 16
	results := make([]*Frame, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.Frame(key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
	}
	assert.EqualValues(t, 1, loader.calls.Load(), "one history build feeds the whole chain")
}

func TestFrameChainDepthsAndParents(t *testing.T) {
	r := testRegistry(t)

	itrf, err := r.ITRF(iau.Conventions2010, false)
	require.NoError(t, err)
	assert.Equal(t, 3, itrf.Depth())
	assert.False(t, itrf.IsPseudoInertial())
	assert.Equal(t, string(TIRFKey(iau.Conventions2010, false)), itrf.Parent().Name())
	assert.Equal(t, string(CIRFKey(iau.Conventions2010, false)), itrf.Parent().Parent().Name())
	assert.Same(t, r.GCRF(), itrf.Root())
	assert.True(t, itrf.Parent().Parent().IsPseudoInertial())

	gtod, err := r.GTOD(iau.Conventions1996, false)
	require.NoError(t, err)
	assert.Equal(t, 4, gtod.Depth(), "1996 chain passes through EME2000")
	assert.Equal(t, string(TODKey(iau.Conventions1996, false)), gtod.Parent().Name())
	assert.Equal(t, string(MODKey(iau.Conventions1996)), gtod.Parent().Parent().Name())
	assert.Equal(t, string(KeyEME2000), gtod.Parent().Parent().Parent().Name())

	mod, err := r.MOD(iau.Conventions2010)
	require.NoError(t, err)
	assert.Equal(t, 1, mod.Depth(), "post-1996 precession is referred to GCRF directly")

	itrf93, err := r.ITRFRealization(ITRF1993, iau.Conventions2010, false)
	require.NoError(t, err)
	assert.Equal(t, 4, itrf93.Depth())
	assert.Same(t, itrf, itrf93.Parent())
}

func TestSimpleAndAccurateEOPAreDistinctFrames(t *testing.T) {
	r := testRegistry(t)

	simple, err := r.GTOD(iau.Conventions2010, true)
	require.NoError(t, err)
	accurate, err := r.GTOD(iau.Conventions2010, false)
	require.NoError(t, err)

	assert.NotSame(t, simple, accurate)
	assert.Equal(t, simple.Depth(), accurate.Depth())
	assert.NotEqual(t, simple.Name(), accurate.Name())

	// Both represent the same physical frame, so the fidelity gap between
	// them stays below a microradian.
	tr, err := simple.TransformTo(accurate, astrotime.J2000)
	require.NoError(t, err)
	assert.Less(t, tr.Rotation().Angle(), 1e-6)
}

func TestAliasResolution(t *testing.T) {
	r := testRegistry(t)

	canonical, err := r.EME2000()
	require.NoError(t, err)
	aliased, err := r.Frame("J2000")
	require.NoError(t, err)
	assert.Same(t, canonical, aliased)

	itrf, err := r.ITRF(iau.Conventions2010, false)
	require.NoError(t, err)
	aliased, err = r.Frame("ITRF2008")
	require.NoError(t, err)
	assert.Same(t, itrf, aliased)

	_, err = r.Frame("equatorial of nowhere")
	require.Error(t, err)
	assert.True(t, errors.IsUnknownFrame(err))
}

func TestMissingLoadersSurfaceDataUnavailable(t *testing.T) {
	r := NewRegistry(Options{})

	eme2000, err := r.EME2000()
	require.NoError(t, err, "bias-only frames need no Earth orientation data")
	assert.Equal(t, 1, eme2000.Depth())

	_, err = r.CIRF(iau.Conventions2010, false)
	require.Error(t, err)
	assert.True(t, errors.IsDataUnavailable(err))
	assert.ErrorContains(t, err, "no Earth orientation loaders")
}

func TestFailedBuildRetriesAfterLoadersArrive(t *testing.T) {
	r := NewRegistry(Options{})

	_, err := r.Frame(CIRFKey(iau.Conventions2010, false))
	require.Error(t, err)
	assert.True(t, errors.IsDataUnavailable(err))

	r.AddEOPLoaders(iau.Conventions2010,
		eop.StaticLoader{Entries: testEntries(iau.Conventions2010, 51535, 21)})

	f, err := r.Frame(CIRFKey(iau.Conventions2010, false))
	require.NoError(t, err, "a failed build must not poison the key")
	assert.Equal(t, 1, f.Depth())
}

func TestClearEOPLoadersAffectsFutureBuildsOnly(t *testing.T) {
	r := NewRegistry(Options{})
	r.AddEOPLoaders(iau.Conventions2010,
		eop.StaticLoader{Entries: testEntries(iau.Conventions2010, 51535, 21)})

	accurate, err := r.EOPHistory(iau.Conventions2010, false)
	require.NoError(t, err)

	r.ClearEOPLoaders()

	again, err := r.EOPHistory(iau.Conventions2010, false)
	require.NoError(t, err, "built histories keep serving")
	assert.Same(t, accurate, again)

	_, err = r.EOPHistory(iau.Conventions2010, true)
	require.Error(t, err, "the simple-EOP history was never built")
	assert.True(t, errors.IsDataUnavailable(err))
}

func TestContinuityHoleRejected(t *testing.T) {
	conv := iau.Conventions2010
	converter := conv.NutationCorrectionConverter()
	entries := make([]eop.Entry, 0, 24)
	for d := 0; d < 30; d++ {
		if d >= 10 && d <= 15 {
			continue
		}
		entries = append(entries, eop.NewEntryFromEquinox(converter, 51535+float64(d),
			0.2, 0.001, 0.05*arcsecToRad, 0.30*arcsecToRad, 0, 0))
	}

	r := NewRegistry(Options{})
	r.AddEOPLoaders(conv, eop.StaticLoader{Entries: entries})
	_, err := r.TIRF(conv, false)
	require.Error(t, err)
	assert.True(t, errors.IsContinuityViolation(err))
	assert.ErrorContains(t, err, "hole")

	relaxed := NewRegistry(Options{EOPContinuityThreshold: 8 * astrotime.SecondsPerDay})
	relaxed.AddEOPLoaders(conv, eop.StaticLoader{Entries: entries})
	_, err = relaxed.TIRF(conv, false)
	require.NoError(t, err, "a seven day hole fits an eight day tolerance")
}

func TestDefaultLoadersInstalledLazily(t *testing.T) {
	var factoryCalls atomic.Int64
	r := NewRegistry(Options{
		DefaultLoaders: func(conv iau.Convention) []eop.Loader {
			factoryCalls.Add(1)
			return []eop.Loader{eop.StaticLoader{Entries: testEntries(conv, 51535, 21)}}
		},
	})

	assert.EqualValues(t, 0, factoryCalls.Load())

	_, err := r.CIRF(iau.Conventions2010, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, factoryCalls.Load())

	// The installed loaders feed the other fidelity without going back to
	// the factory.
	_, err = r.CIRF(iau.Conventions2010, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, factoryCalls.Load())

	_, err = r.TOD(iau.Conventions1996, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, factoryCalls.Load(), "each convention installs its own loaders")
}

func TestEOPHistorySharedWithinFidelity(t *testing.T) {
	loader := &countingLoader{entries: testEntries(iau.Conventions2003, 51535, 21)}
	r := NewRegistry(Options{})
	r.AddEOPLoaders(iau.Conventions2003, loader)

	_, err := r.TOD(iau.Conventions2003, false)
	require.NoError(t, err)
	_, err = r.GTOD(iau.Conventions2003, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, loader.calls.Load(), "one history serves the whole chain")

	_, err = r.TOD(iau.Conventions2003, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, loader.calls.Load(), "each fidelity builds its own history")
}

func TestTransformRoundTripIsIdentity(t *testing.T) {
	r := testRegistry(t)
	date := astrotime.J2000
	itrf := ITRFKey(iau.Conventions2010, false)

	fwd, err := r.Transform(KeyGCRF, itrf, date)
	require.NoError(t, err)
	back, err := r.Transform(itrf, KeyGCRF, date)
	require.NoError(t, err)

	ident := Compose(fwd, back)
	assert.Less(t, ident.Rotation().Angle(), 1e-12)
	assert.Less(t, ident.Translation().Norm(), 1e-9)
	assert.Less(t, ident.RotationRate().Norm(), 1e-15)

	// The chain is rotating, so the one way rotation is large.
	assert.Greater(t, fwd.Rotation().Angle(), 0.1)
}

func TestInterpolatedTransformMatchesRaw(t *testing.T) {
	r := testRegistry(t)
	itrf := ITRFKey(iau.Conventions2010, false)
	// Off the grid nodes so the interpolation actually interpolates.
	date := astrotime.J2000.Shift(1000.25)

	interp, err := r.Transform(KeyGCRF, itrf, date)
	require.NoError(t, err)
	raw, err := r.NonInterpolatingTransform(KeyGCRF, itrf, date)
	require.NoError(t, err)

	delta := interp.Rotation().Compose(raw.Rotation().Inverse()).Angle()
	assert.Less(t, delta, 1e-9)
	assert.Equal(t, date, interp.Date())
	assert.Equal(t, date, raw.Date())
}

func TestTransformAcrossConventionBranches(t *testing.T) {
	r := testRegistry(t)
	date := astrotime.J2000

	// Equinox based and non rotating origin chains meet at the root. Both
	// model the true equator of date, so they differ by well under a degree.
	tr, err := r.Transform(TODKey(iau.Conventions1996, false), CIRFKey(iau.Conventions2010, false), date)
	require.NoError(t, err)
	assert.Less(t, tr.Rotation().Angle(), 0.02)

	_, err = r.Transform("BOGUS", KeyGCRF, date)
	require.Error(t, err)
	assert.True(t, errors.IsUnknownFrame(err))
}

func TestRegistriesAreIndependent(t *testing.T) {
	ra := testRegistry(t)
	rb := testRegistry(t)

	fa, err := ra.Frame(KeyTEME)
	require.NoError(t, err)
	fb, err := rb.Frame(KeyTEME)
	require.NoError(t, err)
	assert.NotSame(t, fa, fb)

	_, err = fa.TransformTo(fb, astrotime.J2000)
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
}

func TestAllRecipesBuild(t *testing.T) {
	r := testRegistry(t)

	for _, key := range AllKeys() {
		key := key
		t.Run(string(key), func(t *testing.T) {
			f, err := r.Frame(key)
			require.NoError(t, err)
			assert.Equal(t, string(key), f.Name())

			parsed, err := ParseKey(string(key))
			require.NoError(t, err)
			assert.Equal(t, key, parsed)
		})
	}
}

func TestRegistryRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollectorWith("astro", reg)
	r := NewRegistry(Options{Metrics: collector})
	r.AddEOPLoaders(iau.Conventions2010,
		eop.StaticLoader{Entries: testEntries(iau.Conventions2010, 51535, 21)})

	_, err := r.Transform(KeyGCRF, TIRFKey(iau.Conventions2010, false), astrotime.J2000)
	require.NoError(t, err)
	// The repeat lands in the sample cache of the interpolated hop.
	_, err = r.Transform(KeyGCRF, TIRFKey(iau.Conventions2010, false), astrotime.J2000)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	found := make(map[string]bool, len(families))
	for _, mf := range families {
		found[mf.GetName()] = true
	}
	for _, want := range []string{
		"astro_frame_builds_total",
		"astro_eop_history_loads_total",
		"astro_transforms_total",
		"astro_transform_duration_seconds",
		"astro_interpolation_cache_misses_total",
		"astro_interpolation_cache_hits_total",
	} {
		assert.True(t, found[want], fmt.Sprintf("metric %s not gathered", want))
	}
}

func TestDescribeMatchesBuiltFrames(t *testing.T) {
	r := testRegistry(t)

	for _, key := range AllKeys() {
		key := key
		t.Run(string(key), func(t *testing.T) {
			desc, err := Describe(key)
			require.NoError(t, err)
			assert.Equal(t, key, desc.Key)

			f, err := r.Frame(key)
			require.NoError(t, err)
			assert.Equal(t, f.Depth(), desc.Depth)
			assert.Equal(t, f.IsPseudoInertial(), desc.PseudoInertial)
			if key == KeyGCRF {
				assert.Empty(t, string(desc.Parent))
			} else {
				assert.Equal(t, f.Parent().Name(), string(desc.Parent))
			}
		})
	}

	tod, err := Describe(TODKey(iau.Conventions2010, false))
	require.NoError(t, err)
	assert.True(t, tod.Interpolated)

	gtod, err := Describe(GTODKey(iau.Conventions2010, false))
	require.NoError(t, err)
	assert.False(t, gtod.Interpolated)

	_, err = Describe(Key("NOPE"))
	assert.True(t, errors.IsUnknownFrame(err))
}
