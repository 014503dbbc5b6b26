package fit_test

import (
	"fmt"

	"github.com/estebandragone/roomdecay/fit"
)

func ExampleLine() {
	x := []float64{0, 1, 2, 3}
	y := []float64{1, 3, 5, 7}

	res, err := fit.Line(x, y)
	if err != nil {
		panic(err)
	}

	fmt.Printf("slope = %.1f\n", res.Slope)
	fmt.Printf("intercept = %.1f\n", res.Intercept)

	// Output:
	// slope = 2.0
	// intercept = 1.0
}
