// Package audio connects the equalizer to a playback device.
//
// A [Renderer] pulls fixed-size blocks from a mono [Source], runs them
// through a [Processor] and encodes the stereo result as interleaved
// float32 little-endian frames. It implements io.Reader so it can feed an
// oto player directly.
package audio
