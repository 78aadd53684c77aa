package eq

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/core"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/filter/biquad"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/filter/design"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/mix"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/smooth"
)

// Smoothing spans covered in one ramp time.
var (
	freqSpan  = math.Log(1000) // 20 Hz to 20 kHz
	qSpan     = math.Log(100)  // 0.1 to 10
	boostSpan = 48.0           // -24 dB to +24 dB
)

// Params holds the four band parameters.
type Params struct {
	Freq   float64
	Q      float64
	Boost  float64
	Bypass float64
}

// Get returns the value of field f.
func (p Params) Get(f Field) float64 {
	switch f {
	case Freq:
		return p.Freq
	case Q:
		return p.Q
	case Boost:
		return p.Boost
	case Bypass:
		return p.Bypass
	default:
		return math.NaN()
	}
}

// Band is one filter stage of the chain: a biquad section with smoothed
// frequency, Q and boost plus a bypass crossfade.
type Band struct {
	label      string
	typ        design.FilterType
	sampleRate float64
	blockSize  int

	freq   *smooth.Smoother
	q      *smooth.Smoother
	boost  *smooth.Smoother
	bypass *mix.Crossfader

	section  biquad.Section
	designed [3]float64
	fresh    bool

	wet    []float64
	faults atomic.Uint64
}

func newBand(label string, typ design.FilterType, cfg core.ProcessorConfig, p Params) (*Band, error) {
	p = clampParams(p, cfg.SampleRate)

	freq, err := smooth.New(p.Freq, cfg.SampleRate,
		smooth.WithScale(smooth.Logarithmic),
		smooth.WithSpan(freqSpan),
		smooth.WithRampTime(cfg.RampTime),
	)
	if err != nil {
		return nil, fmt.Errorf("eq: %s freq: %w", label, err)
	}
	q, err := smooth.New(p.Q, cfg.SampleRate,
		smooth.WithScale(smooth.Logarithmic),
		smooth.WithSpan(qSpan),
		smooth.WithRampTime(cfg.RampTime),
	)
	if err != nil {
		return nil, fmt.Errorf("eq: %s q: %w", label, err)
	}
	boost, err := smooth.New(p.Boost, cfg.SampleRate,
		smooth.WithSpan(boostSpan),
		smooth.WithRampTime(cfg.RampTime),
	)
	if err != nil {
		return nil, fmt.Errorf("eq: %s boost: %w", label, err)
	}
	bypass, err := mix.NewCrossfader(p.Bypass, cfg.SampleRate, cfg.RampTime)
	if err != nil {
		return nil, fmt.Errorf("eq: %s bypass: %w", label, err)
	}

	b := &Band{
		label:      label,
		typ:        typ,
		sampleRate: cfg.SampleRate,
		blockSize:  cfg.BlockSize,
		freq:       freq,
		q:          q,
		boost:      boost,
		bypass:     bypass,
		wet:        make([]float64, cfg.BlockSize),
	}
	b.redesign()
	return b, nil
}

// Label returns the display name of the band.
func (b *Band) Label() string { return b.label }

// Type returns the filter type, fixed at construction.
func (b *Band) Type() design.FilterType { return b.typ }

// SetParameter stores a new target for field. Frequency is clamped below
// Nyquist, Q to the design floor and bypass to [0, 1]. Safe for concurrent
// use with Process.
func (b *Band) SetParameter(field Field, value float64) error {
	if !field.valid() {
		return fmt.Errorf("eq: %s: %v: %w", b.label, field, ErrUnknownField)
	}
	if !core.IsFinite(value) {
		return fmt.Errorf("eq: %s %v=%v: %w", b.label, field, value, ErrInvalidValue)
	}

	switch field {
	case Freq:
		b.freq.SetTarget(design.ClampFrequency(value, b.sampleRate))
	case Q:
		b.q.SetTarget(design.ClampQ(value))
	case Boost:
		b.boost.SetTarget(value)
	case Bypass:
		b.bypass.SetTarget(value)
	}
	return nil
}

// Params returns the target values. Safe for concurrent use.
func (b *Band) Params() Params {
	return Params{
		Freq:   b.freq.Target(),
		Q:      b.q.Target(),
		Boost:  b.boost.Target(),
		Bypass: b.bypass.Target(),
	}
}

// Current returns the smoothed values reached by the audio path. It must be
// called from the goroutine running Process.
func (b *Band) Current() Params {
	return Params{
		Freq:   b.freq.Current(),
		Q:      b.q.Current(),
		Boost:  b.boost.Current(),
		Bypass: b.bypass.Amount(),
	}
}

// Coefficients returns the coefficients the section currently runs with.
// It must be called from the goroutine running Process.
func (b *Band) Coefficients() biquad.Coefficients {
	return b.section.Coefficients
}

// Settled reports whether every parameter has reached its target.
func (b *Band) Settled() bool {
	return b.freq.Settled() && b.q.Settled() && b.boost.Settled() && b.bypass.Settled()
}

// Faults returns how many non-finite filter outputs were replaced by silence.
func (b *Band) Faults() uint64 {
	return b.faults.Load()
}

// Reset clears the filter state and snaps every parameter to its target.
// It must not run concurrently with Process.
func (b *Band) Reset() {
	b.freq.Snap()
	b.q.Snap()
	b.boost.Snap()
	b.bypass.Snap()
	b.section.Reset()
	b.fresh = false
	b.redesign()
}

// Process filters src into dst. dst must hold len(src) samples and may be
// the same slice as src. The audio path never allocates.
func (b *Band) Process(dst, src []float64) {
	_ = dst[:len(src)]
	for off := 0; off < len(src); off += b.blockSize {
		end := min(off+b.blockSize, len(src))
		b.processBlock(dst[off:end], src[off:end])
	}
}

func (b *Band) processBlock(dst, src []float64) {
	b.redesign()

	if b.Settled() {
		b.processSettled(dst, src)
		return
	}

	n := len(src)
	for i := 0; i < n; i++ {
		x := src[i]
		dst[i] = b.bypass.Next(x, b.filterSample(x))
	}

	// Coefficients follow the trajectory at block rate.
	b.freq.Skip(n)
	b.q.Skip(n)
	b.boost.Skip(n)
}

func (b *Band) processSettled(dst, src []float64) {
	// The filter runs even when fully bypassed so its state stays warm for a
	// later fade back in.
	wet := b.wet[:len(src)]
	b.filterBlock(wet, src)

	switch b.bypass.Amount() {
	case 0:
		copy(dst, wet)
	case 1:
		copy(dst, src)
	default:
		b.bypass.ProcessBlock(dst, src, wet)
	}
}

// filterBlock runs the block kernel and replays the block sample by sample
// when it produced a non-finite value.
func (b *Band) filterBlock(wet, src []float64) {
	state := b.section.State()
	copy(wet, src)
	b.section.ProcessBlock(wet)
	if allFinite(wet) {
		return
	}

	b.section.SetState(state)
	for i, x := range src {
		wet[i] = b.filterSample(x)
	}
}

// filterSample silences a non-finite output and clears the section state.
func (b *Band) filterSample(x float64) float64 {
	y := b.section.ProcessSample(x)
	if !core.IsFinite(y) {
		b.section.Reset()
		b.faults.Add(1)
		return 0
	}
	return y
}

func allFinite(buf []float64) bool {
	for _, v := range buf {
		if !core.IsFinite(v) {
			return false
		}
	}
	return true
}

// redesign recomputes the coefficients when the smoothed design values
// moved since the last call.
func (b *Band) redesign() {
	f, q, g := b.freq.Current(), b.q.Current(), b.boost.Current()
	if b.fresh && b.designed == [3]float64{f, q, g} {
		return
	}
	b.section.SetCoefficients(design.Compute(b.typ, b.sampleRate, f, q, g))
	b.designed = [3]float64{f, q, g}
	b.fresh = true
}

func clampParams(p Params, sampleRate float64) Params {
	return Params{
		Freq:   design.ClampFrequency(p.Freq, sampleRate),
		Q:      design.ClampQ(p.Q),
		Boost:  finiteOr(p.Boost, 0),
		Bypass: core.Clamp(finiteOr(p.Bypass, 0), 0, 1),
	}
}

func finiteOr(v, fallback float64) float64 {
	if core.IsFinite(v) {
		return v
	}
	return fallback
}
