package kernel_test

import (
	"fmt"

	"github.com/cwbudde/algo-nuft/core"
	"github.com/cwbudde/algo-nuft/kernel"
)

func ExampleTransform() {
	s := kernel.Series{
		Values: []float64{1, 2, 3, 4},
		Times:  []float64{0, 1, 2, 3},
	}
	out, err := kernel.Transform(s, []float64{0}, core.WithSign(1), core.WithTimeZero(0))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.2f\n", out[0])
	// Output:
	// (1.25+0.00i)
}
