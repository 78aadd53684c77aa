package mix

import (
	"fmt"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/core"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/smooth"
)

// Blend returns dry*amount + wet*(1-amount). Amount 0 returns wet and
// amount 1 returns dry unchanged.
func Blend(dry, wet, amount float64) float64 {
	switch amount {
	case 0:
		return wet
	case 1:
		return dry
	}
	return dry*amount + wet*(1-amount)
}

// Crossfader blends a dry and a wet stream with a smoothed amount in [0, 1].
// Amount 0 selects the wet stream, 1 the dry stream.
type Crossfader struct {
	amount *smooth.Smoother
}

// NewCrossfader creates a crossfader resting at initial.
func NewCrossfader(initial, sampleRate, rampTime float64) (*Crossfader, error) {
	s, err := smooth.New(core.Clamp(initial, 0, 1), sampleRate,
		smooth.WithRampTime(rampTime),
		smooth.WithSpan(1),
	)
	if err != nil {
		return nil, fmt.Errorf("mix: crossfader: %w", err)
	}
	return &Crossfader{amount: s}, nil
}

// SetTarget stores a new amount, clamped to [0, 1]. Safe for concurrent use.
func (c *Crossfader) SetTarget(amount float64) {
	c.amount.SetTarget(core.Clamp(amount, 0, 1))
}

// Target returns the most recently stored amount.
func (c *Crossfader) Target() float64 {
	return c.amount.Target()
}

// Amount returns the current smoothed amount.
func (c *Crossfader) Amount() float64 {
	return c.amount.Current()
}

// Settled reports whether the amount has reached its target.
func (c *Crossfader) Settled() bool {
	return c.amount.Settled()
}

// Next advances the amount by one sample and blends dry with wet.
func (c *Crossfader) Next(dry, wet float64) float64 {
	return Blend(dry, wet, c.amount.Tick())
}

// ProcessBlock blends dry and wet into dst, one tick per sample.
// dst may alias either input. Lengths are taken from dst.
func (c *Crossfader) ProcessBlock(dst, dry, wet []float64) {
	n := len(dst)
	if len(dry) < n || len(wet) < n {
		panic("mix: crossfader input shorter than dst")
	}
	for i := 0; i < n; i++ {
		dst[i] = Blend(dry[i], wet[i], c.amount.Tick())
	}
}

// Snap moves the amount onto its target.
func (c *Crossfader) Snap() {
	c.amount.Snap()
}
