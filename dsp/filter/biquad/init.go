package biquad

import (
	_ "github.com/RiccardoCataldi/OscParametricEq/dsp/filter/biquad/internal/arch/generic"  // register generic backend
	_ "github.com/RiccardoCataldi/OscParametricEq/dsp/filter/biquad/internal/arch/registry" // initialize backend registry
)
