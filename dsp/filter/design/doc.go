// Package design computes biquad coefficients for the equalizer band types.
//
// [Compute] is the single entry point used by the real-time path: it clamps
// frequency and Q into their valid ranges, returns the exact identity for a
// 0 dB boost and otherwise dispatches to the RBJ cookbook designers
// [LowShelf], [Peak] and [HighShelf]. All functions are pure.
package design
