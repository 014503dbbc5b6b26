package decay

import (
	"errors"
	"math"
	"testing"
)

func TestSchroederConstantInput(t *testing.T) {
	// For a constant energy signal the normalized backward integral is the
	// exact ramp (n-i)/n, starting at 1 at position zero.
	n := 64
	energy := make([]float64, n)
	for i := range energy {
		energy[i] = 1
	}

	curve, err := Schroeder(energy, n, Compensation{})
	if err != nil {
		t.Fatal(err)
	}

	if len(curve) != n {
		t.Fatalf("length = %d, want %d", len(curve), n)
	}

	if curve[0] != 1 {
		t.Errorf("curve[0] = %v, want exactly 1", curve[0])
	}

	for i := range curve {
		want := float64(n-i) / float64(n)
		if math.Abs(curve[i]-want) > 1e-12 {
			t.Errorf("curve[%d] = %v, want %v", i, curve[i], want)
		}
	}
}

func TestSchroederKnownValues(t *testing.T) {
	curve, err := Schroeder([]float64{1, 1, 1, 1}, 4, Compensation{})
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{1, 0.75, 0.5, 0.25}
	for i := range want {
		if math.Abs(curve[i]-want[i]) > 1e-12 {
			t.Errorf("curve[%d] = %v, want %v", i, curve[i], want[i])
		}
	}
}

func TestSchroederTruncation(t *testing.T) {
	// Head of two samples integrated and normalized, tail passed through.
	energy := []float64{4, 3, 2, 1}

	curve, err := Schroeder(energy, 2, Compensation{})
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{1, 3.0 / 7.0, 2, 1}
	for i := range want {
		if math.Abs(curve[i]-want[i]) > 1e-12 {
			t.Errorf("curve[%d] = %v, want %v", i, curve[i], want[i])
		}
	}
}

func TestSchroederCompensation(t *testing.T) {
	t.Run("rms_subtraction", func(t *testing.T) {
		curve, err := Schroeder([]float64{4, 3, 2, 1}, 4, Compensation{RMS: 0.5})
		if err != nil {
			t.Fatal(err)
		}

		// Cumulative sums of (sample - 0.5) from the end: 0.5, 2, 4.5, 8.
		want := []float64{1, 0.5625, 0.25, 0.0625}
		for i := range want {
			if math.Abs(curve[i]-want[i]) > 1e-12 {
				t.Errorf("curve[%d] = %v, want %v", i, curve[i], want[i])
			}
		}
	})

	t.Run("additive_term", func(t *testing.T) {
		curve, err := Schroeder([]float64{4, 3, 2, 1}, 4, Compensation{C: 2, RMS: 0.5})
		if err != nil {
			t.Fatal(err)
		}

		want := []float64{1, 0.65, 0.4, 0.25}
		for i := range want {
			if math.Abs(curve[i]-want[i]) > 1e-12 {
				t.Errorf("curve[%d] = %v, want %v", i, curve[i], want[i])
			}
		}
	})
}

func TestSchroederZeroTruncation(t *testing.T) {
	energy := []float64{3, 2, 1}

	curve, err := Schroeder(energy, 0, Compensation{})
	if err != nil {
		t.Fatal(err)
	}

	for i := range energy {
		if curve[i] != energy[i] {
			t.Errorf("curve[%d] = %v, want %v unchanged", i, curve[i], energy[i])
		}
	}

	// The output is a copy, not an alias.
	curve[0] = -1
	if energy[0] != 3 {
		t.Error("Schroeder aliased its input")
	}
}

func TestSchroederMonotoneHead(t *testing.T) {
	energy := make([]float64, 1000)
	for i := range energy {
		tt := float64(i) / 1000
		energy[i] = math.Exp(-13.8 * tt)
	}

	curve, err := Schroeder(energy, len(energy), Compensation{})
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i < len(curve); i++ {
		if curve[i] > curve[i-1] {
			t.Fatalf("curve increases at %d: %v > %v", i, curve[i], curve[i-1])
		}
	}
}

func TestSchroederValidation(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Schroeder(nil, 0, Compensation{})
		if !errors.Is(err, ErrDegenerateSignal) {
			t.Errorf("Schroeder(nil) = %v, want ErrDegenerateSignal", err)
		}
	})

	t.Run("negative_truncation", func(t *testing.T) {
		_, err := Schroeder([]float64{1, 2}, -1, Compensation{})
		if !errors.Is(err, ErrInvalidTruncation) {
			t.Errorf("Schroeder(t=-1) = %v, want ErrInvalidTruncation", err)
		}
	})

	t.Run("truncation_past_end", func(t *testing.T) {
		_, err := Schroeder([]float64{1, 2}, 3, Compensation{})
		if !errors.Is(err, ErrInvalidTruncation) {
			t.Errorf("Schroeder(t=3) = %v, want ErrInvalidTruncation", err)
		}
	})

	t.Run("all_zero_energy", func(t *testing.T) {
		_, err := Schroeder(make([]float64, 10), 10, Compensation{})
		if !errors.Is(err, ErrDegenerateSignal) {
			t.Errorf("Schroeder(zeros) = %v, want ErrDegenerateSignal", err)
		}
	})

	t.Run("rms_exceeds_energy", func(t *testing.T) {
		energy := []float64{1, 1, 1, 1}
		_, err := Schroeder(energy, 4, Compensation{RMS: 10})
		if !errors.Is(err, ErrDegenerateSignal) {
			t.Errorf("Schroeder(rms=10) = %v, want ErrDegenerateSignal", err)
		}
	})
}
