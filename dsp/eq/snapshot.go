package eq

import (
	"strconv"
	"strings"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/filter/design"
)

// BandSnapshot is the read-only state of one band.
type BandSnapshot struct {
	Label string
	Type  design.FilterType
	Params
}

// Snapshot is a copy of every target value of a chain.
type Snapshot struct {
	SampleRate float64
	Bands      [NumBands]BandSnapshot
	Mul        float64
	Pan        float64
	Faults     uint64
}

// Snapshot copies the current targets. Safe for concurrent use.
func (c *Chain) Snapshot() Snapshot {
	s := Snapshot{
		SampleRate: c.cfg.SampleRate,
		Mul:        c.mul.Target(),
		Pan:        c.pan.Target(),
		Faults:     c.Faults(),
	}
	for i, b := range c.bands {
		s.Bands[i] = BandSnapshot{
			Label:  b.Label(),
			Type:   b.Type(),
			Params: b.Params(),
		}
	}
	return s
}

// String renders the settings grouped by field, one "<Label> <field>=<value>"
// line per band parameter, followed by "Mul=<value>".
func (s Snapshot) String() string {
	var sb strings.Builder
	for _, f := range Fields {
		name := f.String()
		if f == Q {
			name = "Q"
		}
		for _, b := range s.Bands {
			sb.WriteString(b.Label)
			sb.WriteByte(' ')
			sb.WriteString(name)
			sb.WriteByte('=')
			sb.WriteString(formatValue(b.Get(f)))
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("Mul=")
	sb.WriteString(formatValue(s.Mul))
	sb.WriteByte('\n')
	return sb.String()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
