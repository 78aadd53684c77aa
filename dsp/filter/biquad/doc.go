// Package biquad provides the second-order IIR runtime used by every
// equalizer band.
//
// A [Section] holds one set of [Coefficients] and the two-sample Direct Form
// II Transposed delay line that belongs to exactly one band. Coefficients can
// be replaced between blocks with [Section.SetCoefficients] without touching
// the delay line, which keeps parameter sweeps continuous.
//
// Coefficient design (shelves and peaking bells) lives in dsp/filter/design.
package biquad
