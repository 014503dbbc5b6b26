package decay

import "math"

// PeakGuard is the number of samples discarded after the located peak when
// trimming an impulse response, so the fit never includes the direct sound
// itself.
const PeakGuard = 5

// TrimToPeak slices an impulse response to start PeakGuard samples after
// its peak, the first sample of maximum absolute value.
//
// Returns ErrDegenerateSignal for an empty or all-zero input, and when the
// peak sits within PeakGuard samples of the end, leaving no decay tail.
func TrimToPeak(ir []float64) ([]float64, error) {
	if len(ir) == 0 || maxAbs(ir) == 0 {
		return nil, ErrDegenerateSignal
	}

	trimmed := trimToPeak(ir)
	if len(trimmed) == 0 {
		return nil, ErrDegenerateSignal
	}

	return trimmed, nil
}

// trimToPeak slices past the peak (unchecked).
func trimToPeak(ir []float64) []float64 {
	start := peakIndex(ir) + PeakGuard
	if start > len(ir) {
		start = len(ir)
	}

	return ir[start:]
}

// peakIndex returns the index of the first occurrence of the maximum
// absolute value.
func peakIndex(data []float64) int {
	idx := 0
	peak := 0.0

	for i, v := range data {
		av := math.Abs(v)
		if av > peak {
			peak = av
			idx = i
		}
	}

	return idx
}
