// Package smooth provides click-free parameter trajectories for real-time
// audio.
//
// A [Smoother] separates the target value, written by any goroutine through
// an atomic store, from the current value, advanced one sample at a time by
// the audio goroutine. Each tick moves the current value toward the target
// with a one-pole step that is slew limited to [Smoother.MaxStep], so even a
// full-range jump is spread over the configured ramp time. Once the distance
// to the target falls within one step the current value snaps onto the
// target exactly, which lets callers detect a settled state bit for bit.
//
// Frequency-like parameters should use [Logarithmic] scale so the ramp is
// perceptually even across octaves.
package smooth
