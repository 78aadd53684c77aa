package eq

import (
	"math/cmplx"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/core"
	"github.com/RiccardoCataldi/OscParametricEq/dsp/filter/design"
)

// ResponseDB returns the analytic mono magnitude response in dB of the target
// settings at each frequency. It reads a snapshot and never touches the
// audio state.
func (c *Chain) ResponseDB(freqs []float64) []float64 {
	return c.Snapshot().ResponseDB(freqs)
}

// ResponseDB returns the magnitude response in dB of the snapshot settings,
// including partial bypass and the output gain.
func (s Snapshot) ResponseDB(freqs []float64) []float64 {
	out := make([]float64, len(freqs))
	if len(freqs) == 0 {
		return out
	}

	for i := range out {
		out[i] = 1
	}

	for _, b := range s.Bands {
		coeffs := design.Compute(b.Type, s.SampleRate, b.Freq, b.Q, b.Boost)
		dry := complex(b.Bypass, 0)
		for i, f := range freqs {
			h := dry + complex(1-b.Bypass, 0)*coeffs.Response(f, s.SampleRate)
			out[i] *= cmplx.Abs(h)
		}
	}

	for i := range out {
		out[i] = core.LinearToDB(out[i] * s.Mul)
	}
	return out
}
