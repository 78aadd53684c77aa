package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/core"
)

var (
	// ErrLength is returned when the FFT length is not a power of two >= 2.
	ErrLength = errors.New("fft length must be a power of two >= 2")

	// ErrSampleRate is returned for a non-positive or non-finite rate.
	ErrSampleRate = errors.New("sample rate must be > 0 and finite")
)

// floorDB is reported for bins with zero magnitude.
const floorDB = -300.0

// Processor is a mono block processor, such as eq.Chain.
type Processor interface {
	ProcessMono(dst, src []float64) error
}

// Result is a measured magnitude response on bins 0..n/2.
type Result struct {
	SampleRate  float64
	Freqs       []float64
	Magnitude   []float64
	MagnitudeDB []float64
}

// Measure feeds a unit impulse of n samples through p and returns the
// magnitude of its spectrum. The processor state is advanced by n samples.
func Measure(p Processor, n int, sampleRate float64) (*Result, error) {
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("response: n=%d: %w", n, ErrLength)
	}
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("response: %v: %w", sampleRate, ErrSampleRate)
	}

	impulse := make([]float64, n)
	impulse[0] = 1
	ir := make([]float64, n)
	if err := p.ProcessMono(ir, impulse); err != nil {
		return nil, fmt.Errorf("response: process: %w", err)
	}

	return FromImpulse(ir, sampleRate)
}

// FromImpulse computes the magnitude response of an impulse response whose
// length is a power of two.
func FromImpulse(ir []float64, sampleRate float64) (*Result, error) {
	n := len(ir)
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("response: n=%d: %w", n, ErrLength)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("response: fft plan: %w", err)
	}

	in := make([]complex128, n)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}
	spectrum := make([]complex128, n)
	if err := plan.Forward(spectrum, in); err != nil {
		return nil, fmt.Errorf("response: fft: %w", err)
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := 0; k < bins; k++ {
		re[k] = real(spectrum[k])
		im[k] = imag(spectrum[k])
	}

	res := &Result{
		SampleRate:  sampleRate,
		Freqs:       make([]float64, bins),
		Magnitude:   make([]float64, bins),
		MagnitudeDB: make([]float64, bins),
	}
	vecmath.Magnitude(res.Magnitude, re, im)

	df := sampleRate / float64(n)
	for k := range res.Freqs {
		res.Freqs[k] = float64(k) * df
		if m := res.Magnitude[k]; m > 0 {
			res.MagnitudeDB[k] = core.LinearToDB(m)
		} else {
			res.MagnitudeDB[k] = floorDB
		}
	}
	return res, nil
}

// At returns the response in dB at freq, interpolated linearly between the
// neighbouring bins. Frequencies outside [0, Nyquist] clamp to the edges.
func (r *Result) At(freq float64) float64 {
	if len(r.Freqs) == 0 {
		return math.NaN()
	}
	df := r.Freqs[1] - r.Freqs[0]
	pos := freq / df
	last := len(r.Freqs) - 1
	switch {
	case pos <= 0 || math.IsNaN(pos):
		return r.MagnitudeDB[0]
	case pos >= float64(last):
		return r.MagnitudeDB[last]
	}

	k := int(pos)
	frac := pos - float64(k)
	return r.MagnitudeDB[k]*(1-frac) + r.MagnitudeDB[k+1]*frac
}
