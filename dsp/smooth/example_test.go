package smooth_test

import (
	"fmt"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/smooth"
)

func ExampleSmoother() {
	s, err := smooth.New(0, 1000, smooth.WithRampTime(0.01), smooth.WithTimeConstant(0))
	if err != nil {
		panic(err)
	}

	s.SetTarget(1)
	for i := 0; i < 5; i++ {
		fmt.Printf("%.1f ", s.Tick())
	}
	fmt.Println(s.Settled())
	s.Skip(10)
	fmt.Println(s.Current(), s.Settled())
	// Output:
	// 0.1 0.2 0.3 0.4 0.5 false
	// 1 true
}
