//go:build amd64 && !purego

package biquad

import (
	_ "github.com/RiccardoCataldi/OscParametricEq/dsp/filter/biquad/internal/arch/amd64/avx2" // register AVX2 backend
)
