// Package eq implements a fixed five-band parametric equalizer.
//
// A [Chain] cascades a low shelf, three peaking bells and a high shelf, then
// applies an output gain and a constant-power mono-to-stereo pan. Every band
// parameter is held by a lock-free smoother: control goroutines store targets
// with [Chain.SetParameter], while the single audio goroutine calling
// [Chain.Process] ramps the current values toward them.
//
// Biquad coefficients are redesigned at most once per processing block from
// the current smoothed values, so a parameter change reaches the filter with
// a lag of at most one block. The bypass control crossfades per sample
// between the band input (1) and the filtered signal (0).
package eq
