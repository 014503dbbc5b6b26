package testutil

import (
	"math"
	"math/rand"
)

// ExponentialDecay generates a synthetic impulse response with a known
// RT60. The envelope exp(-6.9078*t/rt60) reaches -60 dB at t = rt60.
func ExponentialDecay(sampleRate, rt60, durationSec float64) []float64 {
	out := make([]float64, int(sampleRate*durationSec))
	decayRate := 6.9078 / rt60
	for i := range out {
		t := float64(i) / sampleRate
		out[i] = math.Exp(-decayRate * t)
	}
	return out
}

// WithNoiseFloor overlays seeded uniform noise on a signal, simulating
// a measurement noise floor. The input is not modified.
func WithNoiseFloor(signal []float64, seed int64, amplitude float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = v + (rng.Float64()*2-1)*amplitude
	}
	return out
}

// Sweep generates a linear sine sweep from f0 to f1 Hz, the usual
// excitation for room measurements.
func Sweep(sampleRate, f0, f1, durationSec float64) []float64 {
	out := make([]float64, int(sampleRate*durationSec))
	if len(out) == 0 {
		return out
	}
	rate := (f1 - f0) / (2 * durationSec)
	for i := range out {
		t := float64(i) / sampleRate
		out[i] = math.Sin(2 * math.Pi * (f0 + rate*t) * t)
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}
