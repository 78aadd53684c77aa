package smooth

import (
	"fmt"
	"math"
	"sync/atomic"
)

const (
	// DefaultRampTime is the time in seconds a full-span jump takes.
	DefaultRampTime = 0.05

	// DefaultTimeConstant is the one-pole time constant in seconds.
	DefaultTimeConstant = 0.01

	// DefaultSpan is the value range a ramp of DefaultRampTime covers.
	DefaultSpan = 1.0

	// logFloor is the smallest value mapped into the log domain.
	logFloor = 1e-9
)

// Scale selects the domain in which a smoother ramps.
type Scale int

const (
	// Linear ramps the value itself.
	Linear Scale = iota
	// Logarithmic ramps the natural logarithm of the value. Values <= 0 are
	// floored to a tiny positive number.
	Logarithmic
)

// String returns the scale name.
func (s Scale) String() string {
	switch s {
	case Linear:
		return "linear"
	case Logarithmic:
		return "log"
	default:
		return fmt.Sprintf("Scale(%d)", int(s))
	}
}

// Option mutates smoother construction parameters.
type Option func(*config) error

type config struct {
	rampTime     float64
	timeConstant float64
	span         float64
	scale        Scale
}

func defaultConfig() config {
	return config{
		rampTime:     DefaultRampTime,
		timeConstant: DefaultTimeConstant,
		span:         DefaultSpan,
		scale:        Linear,
	}
}

// WithRampTime sets the time in seconds needed to traverse the whole span.
func WithRampTime(seconds float64) Option {
	return func(cfg *config) error {
		if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("smooth: ramp time must be > 0 and finite: %f", seconds)
		}
		cfg.rampTime = seconds
		return nil
	}
}

// WithTimeConstant sets the one-pole time constant in seconds. Zero gives a
// pure linear ramp at the slew limit.
func WithTimeConstant(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("smooth: time constant must be >= 0 and finite: %f", seconds)
		}
		cfg.timeConstant = seconds
		return nil
	}
}

// WithSpan sets the distance covered in one ramp time, measured in the
// smoothing domain: value units for Linear, natural-log units for
// Logarithmic (math.Log(hi/lo)).
func WithSpan(span float64) Option {
	return func(cfg *config) error {
		if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
			return fmt.Errorf("smooth: span must be > 0 and finite: %f", span)
		}
		cfg.span = span
		return nil
	}
}

// WithScale selects the smoothing domain.
func WithScale(scale Scale) Option {
	return func(cfg *config) error {
		if scale != Linear && scale != Logarithmic {
			return fmt.Errorf("smooth: unknown scale %v", scale)
		}
		cfg.scale = scale
		return nil
	}
}

// Smoother ramps a parameter toward a lock-free target.
//
// SetTarget and Target may be called from any goroutine. Tick, Current,
// Settled and Reset belong to the single goroutine that consumes the
// trajectory.
type Smoother struct {
	target atomic.Uint64

	scale   Scale
	maxStep float64
	coeff   float64

	// pos is the current value in the smoothing domain, current in value
	// units.
	pos     float64
	current float64

	// Last target seen, cached with its mapped position.
	lastBits uint64
	lastPos  float64
}

// New creates a smoother resting at initial.
func New(initial, sampleRate float64, opts ...Option) (*Smoother, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("smooth: sample rate must be > 0 and finite: %f", sampleRate)
	}
	if math.IsNaN(initial) || math.IsInf(initial, 0) {
		return nil, fmt.Errorf("smooth: initial value must be finite: %f", initial)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	s := &Smoother{
		scale:   cfg.scale,
		maxStep: cfg.span / (cfg.rampTime * sampleRate),
	}
	if cfg.timeConstant > 0 {
		s.coeff = 1 - math.Exp(-1/(cfg.timeConstant*sampleRate))
	}
	s.Reset(initial)
	return s, nil
}

// SetTarget stores a new target. It never blocks; the last write wins.
func (s *Smoother) SetTarget(v float64) {
	s.target.Store(math.Float64bits(v))
}

// Target returns the most recently stored target.
func (s *Smoother) Target() float64 {
	return math.Float64frombits(s.target.Load())
}

// Current returns the value produced by the last Tick.
func (s *Smoother) Current() float64 {
	return s.current
}

// MaxStep returns the largest per-tick move in the smoothing domain.
func (s *Smoother) MaxStep() float64 {
	return s.maxStep
}

// Settled reports whether the current value equals the target exactly.
func (s *Smoother) Settled() bool {
	return math.Float64bits(s.current) == s.target.Load()
}

// Tick advances the current value by one sample and returns it.
func (s *Smoother) Tick() float64 {
	bits := s.target.Load()
	if bits == math.Float64bits(s.current) {
		return s.current
	}

	if bits != s.lastBits {
		s.lastBits = bits
		s.lastPos = s.toDomain(math.Float64frombits(bits))
	}

	d := s.lastPos - s.pos
	if math.Abs(d) <= s.maxStep || math.IsNaN(d) {
		s.pos = s.lastPos
		s.current = math.Float64frombits(bits)
		return s.current
	}

	step := d * s.coeff
	if s.coeff == 0 || math.Abs(step) > s.maxStep {
		step = math.Copysign(s.maxStep, d)
	} else if math.Abs(step) < s.maxStep*1e-3 {
		// Keep the exponential tail from crawling.
		step = math.Copysign(s.maxStep*1e-3, d)
	}

	s.pos += step
	s.current = s.fromDomain(s.pos)
	return s.current
}

// Skip advances n ticks at once and returns the resulting value.
func (s *Smoother) Skip(n int) float64 {
	for i := 0; i < n && !s.Settled(); i++ {
		s.Tick()
	}
	return s.current
}

// Snap moves the current value onto the target immediately.
func (s *Smoother) Snap() {
	bits := s.target.Load()
	s.lastBits = bits
	s.lastPos = s.toDomain(math.Float64frombits(bits))
	s.pos = s.lastPos
	s.current = math.Float64frombits(bits)
}

// Reset sets both target and current value to v.
func (s *Smoother) Reset(v float64) {
	s.SetTarget(v)
	s.Snap()
}

func (s *Smoother) toDomain(v float64) float64 {
	if s.scale == Logarithmic {
		if v < logFloor || math.IsNaN(v) {
			v = logFloor
		}
		return math.Log(v)
	}
	return v
}

func (s *Smoother) fromDomain(p float64) float64 {
	if s.scale == Logarithmic {
		return math.Exp(p)
	}
	return p
}
