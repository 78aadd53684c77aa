package core

// SanitizeBlock replaces every non-finite sample in buf with 0 and returns
// how many samples were replaced.
func SanitizeBlock(buf []float64) int {
	n := 0
	for i, x := range buf {
		if !IsFinite(x) {
			buf[i] = 0
			n++
		}
	}
	return n
}
