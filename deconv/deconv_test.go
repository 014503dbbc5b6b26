package deconv

import (
	"errors"
	"testing"

	"github.com/estebandragone/roomdecay/internal/testutil"
)

// convolve computes the direct linear convolution of x and h.
func convolve(x, h []float64) []float64 {
	out := make([]float64, len(x)+len(h)-1)
	for i, xv := range x {
		for j, hv := range h {
			out[i+j] += xv * hv
		}
	}
	return out
}

func TestImpulseResponseIdentity(t *testing.T) {
	// An impulse excitation leaves the response untouched.
	response := testutil.ExponentialDecay(1000, 0.5, 0.064)

	got, err := ImpulseResponse(response, []float64{1}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, got, response, 1e-6)
}

func TestImpulseResponseRecoversKnownIR(t *testing.T) {
	ir := testutil.ExponentialDecay(1000, 0.3, 0.064)
	excitation := []float64{1, -0.5}
	response := convolve(excitation, ir)

	got, err := ImpulseResponse(response, excitation, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != len(ir) {
		t.Fatalf("len = %d, want %d", len(got), len(ir))
	}

	testutil.RequireSliceNearlyEqual(t, got, ir, 1e-6)
}

func TestImpulseResponseSweepExcitation(t *testing.T) {
	// A sweep through most of the band recovers a delayed impulse:
	// bins outside the sweep range are regularized toward zero, so the
	// peak attenuates slightly but stays in place.
	sweep := testutil.Sweep(8000, 100, 3900, 0.25)
	ir := testutil.Impulse(200, 10)
	response := convolve(sweep, ir)

	got, err := ImpulseResponse(response, sweep, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != len(ir) {
		t.Fatalf("len = %d, want %d", len(got), len(ir))
	}

	testutil.RequirePeakIndex(t, got, 10)

	if got[10] < 0.5 {
		t.Errorf("peak value = %v, want > 0.5", got[10])
	}
}

func TestImpulseResponseLengthFallback(t *testing.T) {
	// Excitation longer than the response: fall back to the response
	// length instead of returning nothing.
	response := []float64{1, 0.5, 0.25, 0.125}
	excitation := testutil.Sweep(8000, 100, 3900, 0.001)

	if len(excitation) <= len(response) {
		t.Fatalf("excitation len = %d, need > %d", len(excitation), len(response))
	}

	got, err := ImpulseResponse(response, excitation, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != len(response) {
		t.Fatalf("len = %d, want %d", len(got), len(response))
	}

	testutil.RequireFinite(t, got)
}

func TestImpulseResponseEpsilonDamping(t *testing.T) {
	// With an impulse excitation |X|^2 = 1 everywhere, so epsilon = 1
	// scales the output by exactly 1/2.
	response := []float64{1, 0.5, 0.25, 0.125}

	got, err := ImpulseResponse(response, []float64{1}, Options{Epsilon: 1})
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0.5, 0.25, 0.125, 0.0625}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestImpulseResponseZeroEpsilonUsesDefault(t *testing.T) {
	response := testutil.ExponentialDecay(1000, 0.5, 0.032)
	excitation := []float64{1, -0.5}

	a, err := ImpulseResponse(response, excitation, Options{})
	if err != nil {
		t.Fatal(err)
	}

	b, err := ImpulseResponse(response, excitation, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, a, b, 0)
}

func TestImpulseResponseValidation(t *testing.T) {
	t.Run("empty_response", func(t *testing.T) {
		_, err := ImpulseResponse(nil, []float64{1}, DefaultOptions())
		if !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("got %v, want ErrEmptyResponse", err)
		}
	})

	t.Run("empty_excitation", func(t *testing.T) {
		_, err := ImpulseResponse([]float64{1}, nil, DefaultOptions())
		if !errors.Is(err, ErrEmptyExcitation) {
			t.Errorf("got %v, want ErrEmptyExcitation", err)
		}
	})

	t.Run("negative_epsilon", func(t *testing.T) {
		_, err := ImpulseResponse([]float64{1}, []float64{1}, Options{Epsilon: -1e-6})
		if !errors.Is(err, ErrInvalidEpsilon) {
			t.Errorf("got %v, want ErrInvalidEpsilon", err)
		}
	})
}

func TestNextPowerOf2(t *testing.T) {
	cases := map[int]int{
		0:    1,
		1:    1,
		2:    2,
		3:    4,
		4:    4,
		5:    8,
		1023: 1024,
		1024: 1024,
		1025: 2048,
	}

	for in, want := range cases {
		if got := nextPowerOf2(in); got != want {
			t.Errorf("nextPowerOf2(%d) = %d, want %d", in, got, want)
		}
	}
}
