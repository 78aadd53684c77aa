package generic

import (
	"testing"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/filter/biquad/internal/arch/registry"
)

func TestProcessBlockPureDelay(t *testing.T) {
	// B1=1 turns the section into a one-sample delay.
	buf := []float64{1, 2, 3, 4}
	d0, d1 := processBlock(registry.Coefficients{B1: 1}, 0, 0, buf)

	want := []float64{0, 1, 2, 3}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
	if d0 != 4 || d1 != 0 {
		t.Fatalf("state = (%v, %v), want (4, 0)", d0, d1)
	}
}
