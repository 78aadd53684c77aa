// Package response measures the magnitude response of a block processor by
// transforming its impulse response with an FFT.
//
// It is a diagnostic companion to the analytic response of the equalizer:
// the measured curve includes everything the audio path does, such as the
// cascade order, bypass crossfades and the output gain.
//
// # Usage
//
//	res, err := response.Measure(chain, 8192, 48000)
//	fmt.Printf("%.1f dB at 1 kHz\n", res.At(1000))
package response
