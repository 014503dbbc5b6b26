package deconv_test

import (
	"fmt"

	"github.com/estebandragone/roomdecay/deconv"
)

func ExampleImpulseResponse() {
	// A recording of the two-tap excitation [1, -0.5] played through a
	// room whose impulse response is [1, 0.5, 0.25, 0.125].
	excitation := []float64{1, -0.5}
	response := []float64{1, 0, 0, 0, -0.0625}

	ir, err := deconv.ImpulseResponse(response, excitation, deconv.DefaultOptions())
	if err != nil {
		panic(err)
	}

	for _, v := range ir {
		fmt.Printf("%.3f\n", v)
	}
	// Output:
	// 1.000
	// 0.500
	// 0.250
	// 0.125
}
