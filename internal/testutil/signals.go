package testutil

import (
	"math"
	"math/rand"
)

// Sine returns length samples of a sine at freqHz starting at phase 0.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Noise returns uniform white noise in [-amplitude, amplitude) for a fixed
// seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse returns a unit impulse at pos.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// RMS returns the root mean square of x, or 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// GainDB returns the level of out relative to in, in dB, measured by RMS
// over the samples after skip. It is meant for steady-state sine tests.
func GainDB(in, out []float64, skip int) float64 {
	if skip < 0 || skip >= len(in) || len(out) != len(in) {
		return math.NaN()
	}
	return 20 * math.Log10(RMS(out[skip:])/RMS(in[skip:]))
}
