// Package mix provides dry/wet blending with a smoothed crossfade and the
// mono-to-stereo pan law used at the output stage.
package mix
