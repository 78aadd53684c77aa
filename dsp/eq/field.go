package eq

import (
	"fmt"
	"strings"
)

// Field names one smoothed band parameter.
type Field int

const (
	// Freq is the corner or centre frequency in Hz.
	Freq Field = iota
	// Q is the quality factor.
	Q
	// Boost is the gain in dB.
	Boost
	// Bypass is the dry amount in [0, 1]: 0 filtered, 1 untouched.
	Bypass
)

// Fields lists every band field in display order.
var Fields = [...]Field{Freq, Q, Boost, Bypass}

// String returns the field name as used in control addresses.
func (f Field) String() string {
	switch f {
	case Freq:
		return "freq"
	case Q:
		return "q"
	case Boost:
		return "boost"
	case Bypass:
		return "bypass"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

func (f Field) valid() bool {
	return f >= Freq && f <= Bypass
}

// ParseField maps a field name to its Field.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "freq", "frequency":
		return Freq, nil
	case "q":
		return Q, nil
	case "boost", "gain":
		return Boost, nil
	case "bypass":
		return Bypass, nil
	default:
		return 0, fmt.Errorf("eq: field %q: %w", name, ErrUnknownField)
	}
}
