package eq

import "errors"

var (
	// ErrBandIndex is returned for a band index outside [0, NumBands).
	ErrBandIndex = errors.New("band index out of range")

	// ErrUnknownField is returned for a parameter field that does not exist.
	ErrUnknownField = errors.New("unknown parameter field")

	// ErrInvalidValue is returned for NaN or infinite parameter values.
	ErrInvalidValue = errors.New("parameter value must be finite")

	// ErrBlockLength is returned when an output slice is shorter than the input.
	ErrBlockLength = errors.New("output block shorter than input")

	// ErrConfig is returned by NewChain for an unusable processor config.
	ErrConfig = errors.New("invalid chain config")
)
