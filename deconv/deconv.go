// Package deconv recovers room impulse responses from recorded
// measurements by regularized spectral division.
//
// Given a recording y of a known excitation x played through a room,
// the room impulse response h satisfies y = conv(x, h). The estimate is
//
//	h = IFFT(FFT(y) * conj(FFT(x)) / (|FFT(x)|^2 + epsilon))
//
// where epsilon guards against near-zero bins in the excitation
// spectrum. Sine sweeps have well-behaved spectra, so a small epsilon
// suffices; noisier excitations need a larger one.
package deconv

import (
	"errors"
	"fmt"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// Deconvolution errors.
var (
	ErrEmptyResponse   = errors.New("deconv: empty response")
	ErrEmptyExcitation = errors.New("deconv: empty excitation")
	ErrInvalidEpsilon  = errors.New("deconv: epsilon must not be negative")
)

// Options configures impulse response recovery.
type Options struct {
	// Epsilon is the spectral regularization term added to |FFT(x)|^2
	// before division. Zero selects the default; negative values are
	// rejected.
	Epsilon float64
}

// DefaultOptions returns options suited to clean sweep measurements.
func DefaultOptions() Options {
	return Options{
		Epsilon: 1e-8,
	}
}

// ImpulseResponse recovers the impulse response from a recorded
// response and the excitation signal that produced it.
//
// The result has length len(response) - len(excitation) + 1, matching
// the linear convolution model. If the excitation is not shorter than
// the response, the full response length is returned instead.
func ImpulseResponse(response, excitation []float64, opts Options) ([]float64, error) {
	if len(response) == 0 {
		return nil, ErrEmptyResponse
	}

	if len(excitation) == 0 {
		return nil, ErrEmptyExcitation
	}

	if opts.Epsilon < 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidEpsilon, opts.Epsilon)
	}

	if opts.Epsilon == 0 {
		opts.Epsilon = DefaultOptions().Epsilon
	}

	n := len(response)
	m := len(excitation)

	// If y = conv(x, h), then len(h) = len(y) - len(x) + 1.
	outputLen := n - m + 1
	if outputLen <= 0 {
		outputLen = n
	}

	fftSize := nextPowerOf2(max(n, m))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("deconv: failed to create FFT plan: %w", err)
	}

	respPadded := make([]complex128, fftSize)
	excPadded := make([]complex128, fftSize)

	for i := range n {
		respPadded[i] = complex(response[i], 0)
	}

	for i := range m {
		excPadded[i] = complex(excitation[i], 0)
	}

	respFreq := make([]complex128, fftSize)
	excFreq := make([]complex128, fftSize)

	err = plan.Forward(respFreq, respPadded)
	if err != nil {
		return nil, err
	}

	err = plan.Forward(excFreq, excPadded)
	if err != nil {
		return nil, err
	}

	// Denominator |X|^2 per bin.
	re := make([]float64, fftSize)
	im := make([]float64, fftSize)

	for i, v := range excFreq {
		re[i] = real(v)
		im[i] = imag(v)
	}

	den := make([]float64, fftSize)
	vecmath.Power(den, re, im)

	// Regularized division: Y * conj(X) / (|X|^2 + epsilon).
	resultFreq := make([]complex128, fftSize)
	for i := range resultFreq {
		resultFreq[i] = respFreq[i] * cmplx.Conj(excFreq[i]) / complex(den[i]+opts.Epsilon, 0)
	}

	resultTime := make([]complex128, fftSize)

	err = plan.Inverse(resultTime, resultFreq)
	if err != nil {
		return nil, err
	}

	result := make([]float64, outputLen)
	for i := range result {
		result[i] = real(resultTime[i])
	}

	return result, nil
}

// nextPowerOf2 returns the smallest power of two >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
