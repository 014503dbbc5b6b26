package decay

import (
	"errors"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Errors returned by decay analysis functions.
var (
	ErrDegenerateSignal   = errors.New("decay: degenerate signal")
	ErrInvalidSampleRate  = errors.New("decay: sample rate must be positive")
	ErrInvalidTruncation  = errors.New("decay: truncation index out of range")
	ErrInsufficientWindow = errors.New("decay: insufficient decay range for window")
	ErrInvalidSlope       = errors.New("decay: fitted slope is not decaying")
)

// Times holds the standardized decay times in seconds.
type Times struct {
	EDT float64 // early decay time, fitted -1 to -10 dB
	T20 float64 // fitted -5 to -25 dB
	T30 float64 // fitted -5 to -35 dB
}

// Metrics holds the results of a full impulse response analysis.
type Metrics struct {
	INR   float64 // impulse-to-noise ratio in dB
	LIR   float64 // back-extrapolated impulse level in dB
	LN    float64 // noise floor level in dB
	Times Times
}

// Trace captures the intermediate series built during Analyze so an
// external collaborator can render them. Time, RawDB and SmoothedDB are
// index-aligned over the trimmed signal.
type Trace struct {
	Time       []float64 // seconds from the trimmed start
	RawDB      []float64 // normalized squared IR in dB
	SmoothedDB []float64 // Schroeder decay curve in dB
	LN         float64   // noise floor level in dB
	LIR        float64   // back-extrapolated impulse level in dB
}

// Analyzer computes decay metrics from impulse response data.
type Analyzer struct {
	SampleRate float64

	// OnTrace, when non-nil, receives the intermediate decay series each
	// time Analyze succeeds. Analyze does not retain the Trace afterwards.
	OnTrace func(*Trace)
}

// NewAnalyzer creates a decay analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

// Analyze computes decay metrics from a raw impulse response.
//
// The IR is trimmed to its peak, normalized to unit magnitude, squared to
// power, and backward integrated into a decay curve; EDT, T20 and T30 are
// fitted on the curve in dB. The noise floor LN is estimated from the
// trailing fifth of the power signal, and the impulse-to-noise ratio is
// the distance between the T20-extrapolated impulse level and LN.
//
// The IR should contain the direct sound and enough of the decay tail for
// the fitting windows to be reachable.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if a.SampleRate <= 0 {
		return Metrics{}, ErrInvalidSampleRate
	}

	trimmed, err := TrimToPeak(ir)
	if err != nil {
		return Metrics{}, err
	}

	// Normalize so all levels are relative to the direct sound.
	peak := maxAbs(trimmed)
	if peak == 0 {
		return Metrics{}, ErrDegenerateSignal
	}

	norm := make([]float64, len(trimmed))
	for i, v := range trimmed {
		norm[i] = v / peak
	}

	power := make([]float64, len(norm))
	vecmath.MulBlock(power, norm, norm)

	ln := noiseFloorDB(power)

	curve, err := Schroeder(power, len(power), Compensation{})
	if err != nil {
		return Metrics{}, err
	}

	curveDB := make([]float64, len(curve))
	for i, v := range curve {
		// The normalized curve is non-negative up to rounding noise.
		curveDB[i] = powerToDB(math.Abs(v))
	}

	times, err := a.Times(curveDB)
	if err != nil {
		return Metrics{}, err
	}

	// Extrapolated impulse level through the standardized T20 derivation.
	// peakPower is nominally 1 after normalization.
	peakPower := maxValue(power)
	s0 := 10 * math.Log10(times.T20*peakPower/(6*math.Ln10))
	lir := s0 + 10*math.Log10(6*math.Ln10/times.T20)

	if a.OnTrace != nil {
		a.OnTrace(a.trace(power, curveDB, ln, lir))
	}

	return Metrics{INR: lir - ln, LIR: lir, LN: ln, Times: times}, nil
}

// noiseFloorDB estimates the noise floor as the level of the loudest
// sample in the trailing fifth of the power signal, where no decay energy
// is assumed to remain.
func noiseFloorDB(power []float64) float64 {
	start := len(power) - len(power)/5
	if start >= len(power) {
		start = len(power) - 1
	}

	return powerToDB(maxValue(power[start:]))
}

// trace assembles the visualization series for the OnTrace hook.
func (a *Analyzer) trace(power, curveDB []float64, ln, lir float64) *Trace {
	tr := &Trace{
		Time:       make([]float64, len(power)),
		RawDB:      make([]float64, len(power)),
		SmoothedDB: append([]float64(nil), curveDB...),
		LN:         ln,
		LIR:        lir,
	}

	for i, v := range power {
		tr.Time[i] = float64(i) / a.SampleRate
		tr.RawDB[i] = powerToDB(v)
	}

	return tr
}

// powerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func powerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}

// maxAbs returns the largest absolute sample value.
func maxAbs(data []float64) float64 {
	peak := 0.0

	for _, v := range data {
		av := math.Abs(v)
		if av > peak {
			peak = av
		}
	}

	return peak
}

// maxValue returns the largest value, ignoring NaN entries.
func maxValue(data []float64) float64 {
	m := math.Inf(-1)

	for _, v := range data {
		if v > m {
			m = v
		}
	}

	return m
}

// minValue returns the smallest value, ignoring NaN entries.
func minValue(data []float64) float64 {
	m := math.Inf(1)

	for _, v := range data {
		if v < m {
			m = v
		}
	}

	return m
}
