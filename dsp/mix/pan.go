package mix

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/core"
)

// CenterPan is the pan position that feeds both channels equally.
const CenterPan = 0.5

// PanGains returns constant-power left and right gains for a pan position in
// [0, 1]: 0 is hard left, 1 hard right. NaN pans to the centre.
func PanGains(pan float64) (left, right float64) {
	p := core.Clamp(pan, 0, 1)
	if math.IsNaN(p) {
		p = CenterPan
	}
	switch p {
	case 0:
		return 1, 0
	case 1:
		return 0, 1
	}
	theta := p * math.Pi / 2
	return math.Cos(theta), math.Sin(theta)
}

// PanBlock writes src into left and right with a fixed pan position.
func PanBlock(left, right, src []float64, pan float64) {
	gl, gr := PanGains(pan)
	vecmath.ScaleBlock(left[:len(src)], src, gl)
	vecmath.ScaleBlock(right[:len(src)], src, gr)
}
