package core

import (
	"math"
	"testing"
)

func TestSanitizeBlock(t *testing.T) {
	buf := []float64{0.5, math.NaN(), -0.25, math.Inf(-1)}

	n := SanitizeBlock(buf)
	if n != 2 {
		t.Fatalf("replaced = %d, want 2", n)
	}

	want := []float64{0.5, 0, -0.25, 0}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}
