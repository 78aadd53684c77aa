package eq

import (
	"fmt"
	"math"
	"sync/atomic"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/core"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/filter/design"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/mix"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/smooth"
)

// NumBands is the fixed number of bands in a chain.
const NumBands = 5

// Band indices in processing order.
const (
	LowShelfBand = iota
	Peak1Band
	Peak2Band
	Peak3Band
	HighShelfBand
)

const (
	// DefaultMul is the initial output gain.
	DefaultMul = 1.0
	// DefaultPan is the initial pan position.
	DefaultPan = mix.CenterPan

	mulSpan = 1.0
)

var (
	bandLabels = [NumBands]string{"Lowpass", "Peak1", "Peak2", "Peak3", "Highpass"}
	bandTypes  = [NumBands]design.FilterType{
		design.LowShelf, design.Peak, design.Peak, design.Peak, design.HighShelf,
	}
	defaultFreqs = [NumBands]float64{100, 250, 1000, 4000, 10000}
)

// BandLabel returns the display label of band i.
func BandLabel(i int) string {
	if i < 0 || i >= NumBands {
		return ""
	}
	return bandLabels[i]
}

// BandType returns the filter type of band i.
func BandType(i int) design.FilterType {
	if i < 0 || i >= NumBands {
		return design.Peak
	}
	return bandTypes[i]
}

// DefaultParams returns the parameters band i starts with: its default
// frequency, Q 1, boost 0 dB and bypass 0.
func DefaultParams(i int) Params {
	p := Params{Freq: 1000, Q: 1}
	if i >= 0 && i < NumBands {
		p.Freq = defaultFreqs[i]
	}
	return p
}

// Chain is the five-band equalizer followed by output gain and pan.
//
// Process and ProcessMono must be called from a single goroutine. The
// setters, Snapshot, ResponseDB and Faults are safe from any goroutine.
type Chain struct {
	cfg   core.ProcessorConfig
	bands [NumBands]*Band

	mul *smooth.Smoother
	pan *smooth.Smoother

	scratch []float64
	faults  atomic.Uint64
}

// NewChain creates a chain with default parameters. All buffers are
// allocated here.
func NewChain(opts ...core.ProcessorOption) (*Chain, error) {
	cfg := core.ApplyProcessorOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("eq: %w: %w", ErrConfig, err)
	}

	c := &Chain{
		cfg:     cfg,
		scratch: make([]float64, cfg.BlockSize),
	}

	for i := range c.bands {
		b, err := newBand(bandLabels[i], bandTypes[i], cfg, DefaultParams(i))
		if err != nil {
			return nil, err
		}
		c.bands[i] = b
	}

	var err error
	c.mul, err = smooth.New(DefaultMul, cfg.SampleRate,
		smooth.WithSpan(mulSpan),
		smooth.WithRampTime(cfg.RampTime),
	)
	if err != nil {
		return nil, fmt.Errorf("eq: mul: %w", err)
	}
	c.pan, err = smooth.New(DefaultPan, cfg.SampleRate,
		smooth.WithSpan(1),
		smooth.WithRampTime(cfg.RampTime),
	)
	if err != nil {
		return nil, fmt.Errorf("eq: pan: %w", err)
	}

	return c, nil
}

// Config returns the processor configuration.
func (c *Chain) Config() core.ProcessorConfig {
	return c.cfg
}

// Band returns band i, or nil when i is out of range.
func (c *Chain) Band(i int) *Band {
	if i < 0 || i >= NumBands {
		return nil
	}
	return c.bands[i]
}

// SetParameter stores a new target for one band field.
func (c *Chain) SetParameter(band int, field Field, value float64) error {
	if band < 0 || band >= NumBands {
		return fmt.Errorf("eq: band %d: %w", band, ErrBandIndex)
	}
	return c.bands[band].SetParameter(field, value)
}

// SetMul stores the output gain target. Negative gains clamp to 0; the output
// signal itself is never clipped.
func (c *Chain) SetMul(v float64) error {
	if !core.IsFinite(v) {
		return fmt.Errorf("eq: mul=%v: %w", v, ErrInvalidValue)
	}
	c.mul.SetTarget(math.Max(v, 0))
	return nil
}

// SetPan stores the pan target, clamped to [0, 1].
func (c *Chain) SetPan(v float64) error {
	if !core.IsFinite(v) {
		return fmt.Errorf("eq: pan=%v: %w", v, ErrInvalidValue)
	}
	c.pan.SetTarget(core.Clamp(v, 0, 1))
	return nil
}

// Mul returns the output gain target.
func (c *Chain) Mul() float64 { return c.mul.Target() }

// Pan returns the pan target.
func (c *Chain) Pan() float64 { return c.pan.Target() }

// Faults returns the number of non-finite samples replaced by silence in
// the bands and at the output stage.
func (c *Chain) Faults() uint64 {
	n := c.faults.Load()
	for _, b := range c.bands {
		n += b.Faults()
	}
	return n
}

// Process runs in through the cascade, applies the output gain and pans the
// result into outL and outR. Both outputs must hold len(in) samples.
func (c *Chain) Process(outL, outR, in []float64) error {
	if len(outL) < len(in) || len(outR) < len(in) {
		return fmt.Errorf("eq: %d/%d output samples for %d input: %w",
			len(outL), len(outR), len(in), ErrBlockLength)
	}

	bs := c.cfg.BlockSize
	for off := 0; off < len(in); off += bs {
		end := min(off+bs, len(in))
		buf := c.scratch[:end-off]
		c.cascade(buf, in[off:end])
		c.panBlock(outL[off:end], outR[off:end], buf)
	}
	return nil
}

// ProcessMono runs src through the cascade and output gain into dst. dst
// may be the same slice as src.
func (c *Chain) ProcessMono(dst, src []float64) error {
	if len(dst) < len(src) {
		return fmt.Errorf("eq: %d output samples for %d input: %w", len(dst), len(src), ErrBlockLength)
	}

	bs := c.cfg.BlockSize
	for off := 0; off < len(src); off += bs {
		end := min(off+bs, len(src))
		c.cascade(dst[off:end], src[off:end])
	}
	return nil
}

// Reset clears every filter state and snaps all smoothers to their targets.
// It must not run concurrently with Process.
func (c *Chain) Reset() {
	for _, b := range c.bands {
		b.Reset()
	}
	c.mul.Snap()
	c.pan.Snap()
}

func (c *Chain) cascade(dst, src []float64) {
	c.bands[0].Process(dst, src)
	for _, b := range c.bands[1:] {
		b.Process(dst, dst)
	}

	if c.mul.Settled() {
		if g := c.mul.Current(); g != 1 {
			vecmath.ScaleBlockInPlace(dst, g)
		}
	} else {
		for i := range dst {
			dst[i] *= c.mul.Tick()
		}
	}

	if n := core.SanitizeBlock(dst); n > 0 {
		c.faults.Add(uint64(n))
	}
}

func (c *Chain) panBlock(outL, outR, buf []float64) {
	if c.pan.Settled() {
		mix.PanBlock(outL, outR, buf, c.pan.Current())
		return
	}
	for i, x := range buf {
		gl, gr := mix.PanGains(c.pan.Tick())
		outL[i] = x * gl
		outR[i] = x * gr
	}
}
