package frames

import (
	"math"
	"sync"

	"astrodyn-platform/pkg/astrotime"
	"astrodyn-platform/pkg/errors"
	"astrodyn-platform/pkg/geom"
	"astrodyn-platform/pkg/metrics"
)

// CartesianFilter selects which translational quantities feed the fit.
type CartesianFilter int

const (
	// CartesianP fits positions only.
	CartesianP CartesianFilter = iota
	// CartesianPV fits positions with their velocities as derivative
	// constraints.
	CartesianPV
)

// AngularFilter selects which rotational quantities feed the fit.
type AngularFilter int

const (
	// AngularR fits rotations only.
	AngularR AngularFilter = iota
	// AngularRR fits rotations with their rates as derivative constraints.
	AngularRR
)

// DefaultSlots is the number of independent sample runs kept per provider
// when the configuration does not say otherwise.
const DefaultSlots = 100

const (
	defaultMaxSpan = astrotime.JulianYear
	defaultSlotGap = 30 * astrotime.SecondsPerDay
)

// InterpolationConfig tunes an InterpolatingProvider. Points and Step define
// the sampling grid, the filters decide how much derivative information is
// used, and the slot settings bound the sample cache.
type InterpolationConfig struct {
	// Points is the number of grid samples per fit window.
	Points int
	// Step is the grid spacing in seconds.
	Step float64
	// Cartesian and Angular select the quantities fed to the fits.
	Cartesian CartesianFilter
	Angular   AngularFilter

	// Slots caps the number of disjoint sample runs kept alive. Zero means
	// DefaultSlots.
	Slots int
	// MaxSpan caps the length of a single run in seconds. Zero means one
	// Julian year.
	MaxSpan float64
	// SlotGap is the largest distance from an existing run that still grows
	// it instead of starting a new one. Zero means thirty days.
	SlotGap float64

	// ValidityStart and ValidityEnd bound the dates the provider accepts.
	// Leaving both at their zero value means unbounded.
	ValidityStart astrotime.Date
	ValidityEnd   astrotime.Date
}

// DefaultInterpolationConfig returns a config with the given grid and every
// other field at its default.
func DefaultInterpolationConfig(points int, step float64) InterpolationConfig {
	return InterpolationConfig{
		Points:        points,
		Step:          step,
		Cartesian:     CartesianPV,
		Angular:       AngularRR,
		Slots:         DefaultSlots,
		MaxSpan:       defaultMaxSpan,
		SlotGap:       defaultSlotGap,
		ValidityStart: astrotime.PastInfinity,
		ValidityEnd:   astrotime.FutureInfinity,
	}
}

// sampleSlot is one contiguous run of grid samples. first is the global
// grid index of samples[0].
type sampleSlot struct {
	first   int64
	samples []Transform
	lastUse uint64
}

func (s *sampleSlot) last() int64 {
	return s.first + int64(len(s.samples)) - 1
}

// InterpolatingProvider wraps a raw provider and serves transforms fitted
// over a sliding window of grid samples. Raw evaluations land on a global
// grid so repeated queries share cached samples, and disjoint query regions
// each get their own run of samples, recycled least-recently-used.
type InterpolatingProvider struct {
	raw Provider
	cfg InterpolationConfig

	mu      sync.Mutex
	slots   []*sampleSlot
	tick    uint64
	metrics *metrics.Collector
	frame   string
}

// NewInterpolatingProvider wraps raw. Zero cache fields in cfg are replaced
// by their defaults.
func NewInterpolatingProvider(raw Provider, cfg InterpolationConfig) *InterpolatingProvider {
	if cfg.Slots <= 0 {
		cfg.Slots = DefaultSlots
	}
	if cfg.MaxSpan <= 0 {
		cfg.MaxSpan = defaultMaxSpan
	}
	if cfg.SlotGap <= 0 {
		cfg.SlotGap = defaultSlotGap
	}
	if cfg.ValidityStart == (astrotime.Date{}) && cfg.ValidityEnd == (astrotime.Date{}) {
		cfg.ValidityStart = astrotime.PastInfinity
		cfg.ValidityEnd = astrotime.FutureInfinity
	}
	return &InterpolatingProvider{raw: raw, cfg: cfg}
}

// RawProvider returns the wrapped provider, bypassing interpolation.
func (p *InterpolatingProvider) RawProvider() Provider {
	return p.raw
}

// Config returns the provider configuration after default substitution.
func (p *InterpolatingProvider) Config() InterpolationConfig {
	return p.cfg
}

// ObserveCache routes sample cache hit, miss and eviction counts for this
// provider to m, labelled with frame. A nil collector records nothing.
func (p *InterpolatingProvider) ObserveCache(frame string, m *metrics.Collector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame = frame
	p.metrics = m
}

// Transform returns the transform at date interpolated from cached grid
// samples, filling in missing samples from the raw provider as needed.
func (p *InterpolatingProvider) Transform(date astrotime.Date) (Transform, error) {
	if date.Before(p.cfg.ValidityStart) || date.After(p.cfg.ValidityEnd) {
		return Transform{}, errors.Wrapf(errors.ErrOutsideValidity,
			"%v not in [%v, %v]", date, p.cfg.ValidityStart, p.cfg.ValidityEnd)
	}

	base := int64(math.Floor(date.TT() / p.cfg.Step))
	first := base - int64((p.cfg.Points-1)/2)

	samples, err := p.window(first)
	if err != nil {
		return Transform{}, err
	}
	return interpolateTransform(date, samples, p.cfg.Cartesian, p.cfg.Angular)
}

// window returns a copy of the Points samples starting at grid index first,
// evaluating the raw provider for any the cache does not hold yet.
func (p *InterpolatingProvider) window(first int64) ([]Transform, error) {
	last := first + int64(p.cfg.Points) - 1

	p.mu.Lock()
	defer p.mu.Unlock()
	p.tick++

	for _, s := range p.slots {
		if s.first <= first && last <= s.last() {
			p.metrics.RecordCacheHit(p.frame)
			return p.serve(s, first), nil
		}
	}
	p.metrics.RecordCacheMiss(p.frame)

	if s := p.extendable(first, last); s != nil {
		if err := p.extend(s, first, last); err != nil {
			return nil, err
		}
		return p.serve(s, first), nil
	}

	s, err := p.newSlot(first, last)
	if err != nil {
		return nil, err
	}
	return p.serve(s, first), nil
}

// serve stamps the slot as freshly used and copies the window out so the
// fit can run outside the lock.
func (p *InterpolatingProvider) serve(s *sampleSlot, first int64) []Transform {
	s.lastUse = p.tick
	out := make([]Transform, p.cfg.Points)
	copy(out, s.samples[first-s.first:])
	return out
}

// extendable returns the nearest slot the requested window may grow, or nil
// when every slot is too far away or growing it would exceed MaxSpan.
func (p *InterpolatingProvider) extendable(first, last int64) *sampleSlot {
	var best *sampleSlot
	var bestDist int64
	for _, s := range p.slots {
		dist := s.first - last
		if d := first - s.last(); d > dist {
			dist = d
		}
		if float64(dist)*p.cfg.Step > p.cfg.SlotGap {
			continue
		}
		lo, hi := s.first, s.last()
		if first < lo {
			lo = first
		}
		if last > hi {
			hi = last
		}
		if float64(hi-lo)*p.cfg.Step > p.cfg.MaxSpan {
			continue
		}
		if best == nil || dist < bestDist {
			best, bestDist = s, dist
		}
	}
	return best
}

// extend grows s until it contains [first, last].
func (p *InterpolatingProvider) extend(s *sampleSlot, first, last int64) error {
	if first < s.first {
		prefix := make([]Transform, s.first-first)
		for i := range prefix {
			t, err := p.sample(first + int64(i))
			if err != nil {
				return err
			}
			prefix[i] = t
		}
		s.samples = append(prefix, s.samples...)
		s.first = first
	}
	for idx := s.last() + 1; idx <= last; idx++ {
		t, err := p.sample(idx)
		if err != nil {
			return err
		}
		s.samples = append(s.samples, t)
	}
	return nil
}

// newSlot evaluates a fresh run covering [first, last], evicting the least
// recently used slot when the cache is full.
func (p *InterpolatingProvider) newSlot(first, last int64) (*sampleSlot, error) {
	samples := make([]Transform, 0, last-first+1)
	for idx := first; idx <= last; idx++ {
		t, err := p.sample(idx)
		if err != nil {
			return nil, err
		}
		samples = append(samples, t)
	}

	if len(p.slots) >= p.cfg.Slots {
		oldest := 0
		for i, s := range p.slots {
			if s.lastUse < p.slots[oldest].lastUse {
				oldest = i
			}
		}
		p.slots = append(p.slots[:oldest], p.slots[oldest+1:]...)
		p.metrics.RecordCacheEviction(p.frame)
	}

	s := &sampleSlot{first: first, samples: samples}
	p.slots = append(p.slots, s)
	return s, nil
}

func (p *InterpolatingProvider) sample(idx int64) (Transform, error) {
	return p.raw.Transform(astrotime.NewDateTT(float64(idx) * p.cfg.Step))
}

// interpolateTransform fits the sample window and evaluates at date. The
// translation is fitted componentwise. Rotations are mapped to rotation
// vectors relative to the middle sample so the fit runs in a chart where
// they stay small, then mapped back.
func interpolateTransform(date astrotime.Date, samples []Transform, cf CartesianFilter, af AngularFilter) (Transform, error) {
	cart := geom.NewHermiteInterpolator()
	ang := geom.NewHermiteInterpolator()
	ref := samples[len(samples)/2].rotation
	refInv := ref.Inverse()

	for _, s := range samples {
		dt := s.date.DurationFrom(date)

		pos := []float64{s.translation.X, s.translation.Y, s.translation.Z}
		var err error
		if cf == CartesianPV {
			err = cart.AddSamplePoint(dt, pos, []float64{s.velocity.X, s.velocity.Y, s.velocity.Z})
		} else {
			err = cart.AddSamplePoint(dt, pos)
		}
		if err != nil {
			return Transform{}, err
		}

		theta := s.rotation.Compose(refInv).Vector()
		if af == AngularRR {
			thetaDot := geom.VectorDerivativeFromRate(theta, s.rate)
			err = ang.AddSamplePoint(dt, []float64{theta.X, theta.Y, theta.Z},
				[]float64{thetaDot.X, thetaDot.Y, thetaDot.Z})
		} else {
			err = ang.AddSamplePoint(dt, []float64{theta.X, theta.Y, theta.Z})
		}
		if err != nil {
			return Transform{}, err
		}
	}

	pos, vel := cart.ValueAndDerivative(0)
	th, thDot := ang.ValueAndDerivative(0)

	theta := geom.Vector3{X: th[0], Y: th[1], Z: th[2]}
	rotation := geom.RotationFromVector(theta).Compose(ref)
	rate := geom.RateFromVectorDerivative(theta, geom.Vector3{X: thDot[0], Y: thDot[1], Z: thDot[2]})

	return NewCompositeTransform(date,
		geom.Vector3{X: pos[0], Y: pos[1], Z: pos[2]},
		geom.Vector3{X: vel[0], Y: vel[1], Z: vel[2]},
		rotation, rate), nil
}
