package frames

import (
	"context"
	"fmt"
	"sync"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/eop"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/iau"
	"astrodyn-platform/pkg/logging"
	"astrodyn-platform/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

const (
	gridPoints     = 6
	fineGridStep   = astrotime.SecondsPerDay / 24
	coarseGridStep = astrotime.SecondsPerDay / 8

	defaultContinuityGap = 5 * astrotime.SecondsPerDay
)

// Options configures a Registry. The zero value is usable: frames needing
// Earth orientation data will then fail with ErrDataUnavailable until
// loaders are registered.
type Options struct {
	// Logger receives build events. Nil means silent.
	Logger *logging.StructuredLogger
	// Metrics receives build and transform counters. Nil records nothing.
	Metrics *metrics.Collector
	// DefaultLoaders supplies the Earth orientation loaders for a
	// convention when none were registered explicitly.
	DefaultLoaders func(conv iau.Convention) []eop.Loader
	// CacheSlots overrides the sample cache size of interpolated frames
	// when positive.
	CacheSlots int
	// EOPContinuityThreshold is the largest tolerated hole in an Earth
	// orientation series, in seconds. Zero means five days.
	EOPContinuityThreshold float64
}

// Registry builds and caches the frame tree lazily. Each registry owns an
// independent tree rooted at its own GCRF instance, so two registries never
// share frames.
type Registry struct {
	opts Options
	log  *logging.StructuredLogger
	gcrf *Frame

	mu        sync.Mutex
	frames    map[Key]*Frame
	histories map[historyKey]*eop.History
	loaders   map[iau.Convention][]eop.Loader

	flight singleflight.Group
}

type historyKey struct {
	conv      iau.Convention
	simpleEOP bool
}

// NewRegistry builds an empty registry holding only the root frame.
func NewRegistry(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.EOPContinuityThreshold <= 0 {
		opts.EOPContinuityThreshold = defaultContinuityGap
	}
	r := &Registry{
		opts:      opts,
		log:       opts.Logger,
		gcrf:      newRootFrame(string(KeyGCRF)),
		frames:    make(map[Key]*Frame),
		histories: make(map[historyKey]*eop.History),
		loaders:   make(map[iau.Convention][]eop.Loader),
	}
	r.frames[KeyGCRF] = r.gcrf
	return r
}

// AddEOPLoaders registers Earth orientation loaders for a convention, after
// any already registered. Loaders registered earlier win on overlapping
// dates. Registration only affects histories not built yet.
func (r *Registry) AddEOPLoaders(conv iau.Convention, loaders ...eop.Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[conv] = append(r.loaders[conv], loaders...)
}

// ClearEOPLoaders empties the loader table for every convention. Histories
// already built keep serving; the default loader factory, when configured,
// fills the table again on the next history build.
func (r *Registry) ClearEOPLoaders() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders = make(map[iau.Convention][]eop.Loader)
}

// GCRF returns the root frame.
func (r *Registry) GCRF() *Frame {
	return r.gcrf
}

// Frame returns the frame for key, building it and its ancestors on first
// use. Concurrent requests for the same key share a single build, and a
// failed build is retried on the next request.
func (r *Registry) Frame(key Key) (*Frame, error) {
	if k, ok := aliases[string(key)]; ok {
		key = k
	}
	r.mu.Lock()
	if f, ok := r.frames[key]; ok {
		r.mu.Unlock()
		return f, nil
	}
	r.mu.Unlock()

	v, err, _ := r.flight.Do(string(key), func() (interface{}, error) {
		r.mu.Lock()
		if f, ok := r.frames[key]; ok {
			r.mu.Unlock()
			return f, nil
		}
		r.mu.Unlock()

		rec, ok := recipes[key]
		if !ok {
			return nil, errors.Wrapf(errors.ErrUnknownFrame, "%q", key)
		}
		f, err := r.build(key, rec)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.frames[key] = f
		r.mu.Unlock()
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Frame), nil
}

// build assembles one frame from its recipe. Parent frames are requested
// through Frame, so a deep first query builds the whole chain.
func (r *Registry) build(key Key, rec recipe) (*Frame, error) {
	parent, err := r.Frame(rec.parent)
	if err != nil {
		return nil, errors.Wrapf(err, "building frame %s", key)
	}

	provider, err := rec.build(r)
	if err != nil {
		return nil, errors.Wrapf(err, "building frame %s", key)
	}
	if rec.interp != nil {
		cfg := *rec.interp
		if r.opts.CacheSlots > 0 {
			cfg.Slots = r.opts.CacheSlots
		}
		ip := NewInterpolatingProvider(provider, cfg)
		ip.ObserveCache(string(key), r.opts.Metrics)
		provider = ip
	}

	f, err := NewFrame(parent, provider, string(key), rec.pseudoInertial)
	if err != nil {
		return nil, errors.Wrapf(err, "building frame %s", key)
	}
	r.log.Info(context.Background(), "frame built", logging.Fields{
		"frame":  string(key),
		"parent": parent.Name(),
	})
	r.opts.Metrics.RecordFrameBuild(string(key))
	return f, nil
}

// EOPHistory returns the Earth orientation history for a convention and
// fidelity, building it from the registered loaders on first use.
// Concurrent requests share one build.
func (r *Registry) EOPHistory(conv iau.Convention, simpleEOP bool) (*eop.History, error) {
	hk := historyKey{conv: conv, simpleEOP: simpleEOP}
	r.mu.Lock()
	if h, ok := r.histories[hk]; ok {
		r.mu.Unlock()
		return h, nil
	}
	r.mu.Unlock()

	v, err, _ := r.flight.Do(fmt.Sprintf("eop/%s/%t", conv, simpleEOP), func() (interface{}, error) {
		r.mu.Lock()
		if h, ok := r.histories[hk]; ok {
			r.mu.Unlock()
			return h, nil
		}
		loaders := r.convLoadersLocked(conv)
		r.mu.Unlock()

		h, err := r.buildHistory(conv, simpleEOP, loaders)
		if err != nil {
			r.opts.Metrics.RecordEOPLoad(conv.String(), "failed")
			return nil, err
		}
		r.opts.Metrics.RecordEOPLoad(conv.String(), "ok")
		r.log.Info(context.Background(), "EOP history built", logging.Fields{
			"convention": conv.String(),
			"simple_eop": simpleEOP,
			"entries":    h.Size(),
		})

		r.mu.Lock()
		r.histories[hk] = h
		r.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*eop.History), nil
}

// convLoadersLocked returns a copy of the loader list for conv, installing
// the defaults first if nothing was registered. Callers hold r.mu.
func (r *Registry) convLoadersLocked(conv iau.Convention) []eop.Loader {
	if len(r.loaders[conv]) == 0 && r.opts.DefaultLoaders != nil {
		r.loaders[conv] = r.opts.DefaultLoaders(conv)
	}
	return append([]eop.Loader(nil), r.loaders[conv]...)
}

// buildHistory runs every loader, merges their output with earlier loaders
// winning on overlapping dates, and validates the merged series. Loader
// failures are tolerated as long as some data was produced.
func (r *Registry) buildHistory(conv iau.Convention, simpleEOP bool, loaders []eop.Loader) (*eop.History, error) {
	if len(loaders) == 0 {
		return nil, errors.Wrapf(errors.ErrDataUnavailable, "no Earth orientation loaders registered for %s", conv)
	}

	converter := conv.NutationCorrectionConverter()
	coll := eop.NewCollection()
	var failures error
	for _, l := range loaders {
		if err := l.FillHistory(converter, coll); err != nil {
			failures = errors.CombineErrors(failures, err)
		}
	}
	if coll.Len() == 0 {
		if failures != nil {
			return nil, errors.Wrapf(failures, "loading %s Earth orientation data", conv)
		}
		return nil, errors.Wrapf(errors.ErrDataUnavailable, "loaders produced no %s entries", conv)
	}
	if failures != nil {
		r.log.Warn(context.Background(), "partial EOP load", logging.Fields{
			"convention": conv.String(),
		})
	}

	h, err := eop.NewHistory(conv, simpleEOP, coll.Sorted())
	if err != nil {
		return nil, err
	}
	if err := h.CheckContinuity(r.opts.EOPContinuityThreshold); err != nil {
		return nil, err
	}
	return h, nil
}

// Transform returns the transform between two frames by key at date.
func (r *Registry) Transform(from, to Key, date astrotime.Date) (Transform, error) {
	return r.transformByKey(from, to, date, func(p Provider) Provider { return p })
}

// NonInterpolatingTransform is Transform with the sample caches bypassed,
// every edge evaluated directly.
func (r *Registry) NonInterpolatingTransform(from, to Key, date astrotime.Date) (Transform, error) {
	return r.transformByKey(from, to, date, rawResolver)
}

func rawResolver(p Provider) Provider {
	if ip, ok := p.(*InterpolatingProvider); ok {
		return ip.RawProvider()
	}
	return p
}

func (r *Registry) transformByKey(from, to Key, date astrotime.Date, resolve func(Provider) Provider) (Transform, error) {
	timer := r.opts.Metrics.TransformTimer()
	defer timer.ObserveDuration()

	src, err := r.Frame(from)
	if err != nil {
		r.opts.Metrics.RecordTransformError(transformErrorType(err))
		return Transform{}, err
	}
	dst, err := r.Frame(to)
	if err != nil {
		r.opts.Metrics.RecordTransformError(transformErrorType(err))
		return Transform{}, err
	}
	t, err := src.transformTo(dst, date, resolve)
	if err != nil {
		r.opts.Metrics.RecordTransformError(transformErrorType(err))
		return Transform{}, err
	}
	r.opts.Metrics.RecordTransform(src.Name(), dst.Name())
	return t, nil
}

func transformErrorType(err error) string {
	switch {
	case errors.IsUnknownFrame(err):
		return "unknown_frame"
	case errors.IsDataUnavailable(err):
		return "data_unavailable"
	case errors.IsOutsideValidity(err):
		return "outside_validity"
	case errors.IsContinuityViolation(err):
		return "continuity"
	default:
		return "internal"
	}
}
