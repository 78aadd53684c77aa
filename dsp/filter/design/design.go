package design

import (
	"fmt"
	"math"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/filter/biquad"
)

const (
	// MinFrequency is the lowest corner/centre frequency a band is designed at.
	MinFrequency = 1.0

	// NyquistMargin keeps the design frequency strictly below Nyquist, as a
	// fraction of the Nyquist frequency.
	NyquistMargin = 1e-3

	// MinQ is the floor applied to Q before design.
	MinQ = 0.01
)

// FilterType selects the response of one band.
type FilterType int

const (
	// LowShelf boosts or cuts below the corner frequency.
	LowShelf FilterType = iota
	// Peak boosts or cuts a bell centred on the frequency.
	Peak
	// HighShelf boosts or cuts above the corner frequency.
	HighShelf
)

// String returns the lower-case name of t.
func (t FilterType) String() string {
	switch t {
	case LowShelf:
		return "lowshelf"
	case Peak:
		return "peak"
	case HighShelf:
		return "highshelf"
	default:
		return fmt.Sprintf("FilterType(%d)", int(t))
	}
}

// ClampFrequency limits freq to [MinFrequency, Nyquist*(1-NyquistMargin)].
// NaN maps to MinFrequency.
func ClampFrequency(freq, sampleRate float64) float64 {
	upper := sampleRate / 2 * (1 - NyquistMargin)
	if math.IsNaN(freq) || freq < MinFrequency {
		return math.Min(MinFrequency, upper)
	}
	if freq > upper {
		return upper
	}
	return freq
}

// ClampQ applies the MinQ floor. NaN maps to MinQ.
func ClampQ(q float64) float64 {
	if math.IsNaN(q) || q < MinQ {
		return MinQ
	}
	return q
}

// Compute designs the coefficients for one band. A boost of exactly 0 dB
// yields [biquad.Identity]; non-finite boost or sample rate also fall back to
// the identity.
func Compute(t FilterType, sampleRate, freq, q, boostDB float64) biquad.Coefficients {
	if boostDB == 0 || math.IsNaN(boostDB) || math.IsInf(boostDB, 0) {
		return biquad.Identity
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return biquad.Identity
	}

	freq = ClampFrequency(freq, sampleRate)
	q = ClampQ(q)

	switch t {
	case LowShelf:
		return LowShelfRBJ(freq, boostDB, q, sampleRate)
	case Peak:
		return PeakRBJ(freq, boostDB, q, sampleRate)
	case HighShelf:
		return HighShelfRBJ(freq, boostDB, q, sampleRate)
	default:
		return biquad.Identity
	}
}

// PeakRBJ designs a peaking-EQ biquad with gain in dB.
func PeakRBJ(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * ClampQ(q))
	a := math.Pow(10, gainDB/40)

	b0 := 1 + alpha*a
	b1 := -2 * cw
	b2 := 1 - alpha*a
	a0 := 1 + alpha/a
	a1 := -2 * cw
	a2 := 1 - alpha/a

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// LowShelfRBJ designs a low-shelf biquad with gain in dB.
func LowShelfRBJ(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * ClampQ(q))
	a := math.Pow(10, gainDB/40)
	beta := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) - (a-1)*cw + beta)
	b1 := 2 * a * ((a - 1) - (a+1)*cw)
	b2 := a * ((a + 1) - (a-1)*cw - beta)
	a0 := (a + 1) + (a-1)*cw + beta
	a1 := -2 * ((a - 1) + (a+1)*cw)
	a2 := (a + 1) + (a-1)*cw - beta

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// HighShelfRBJ designs a high-shelf biquad with gain in dB.
func HighShelfRBJ(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * ClampQ(q))
	a := math.Pow(10, gainDB/40)
	beta := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) + (a-1)*cw + beta)
	b1 := -2 * a * ((a - 1) + (a+1)*cw)
	b2 := a * ((a + 1) + (a-1)*cw - beta)
	a0 := (a + 1) - (a-1)*cw + beta
	a1 := 2 * ((a - 1) - (a+1)*cw)
	a2 := (a + 1) - (a-1)*cw - beta

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	if freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Identity
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
