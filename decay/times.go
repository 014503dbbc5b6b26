package decay

import (
	"fmt"
	"math"

	"github.com/estebandragone/roomdecay/fit"
)

// Window describes a dB evaluation range on a decay curve, measured
// downward from the curve maximum. A sample y qualifies when
// max-Upper < y <= max-Lower.
type Window struct {
	Name  string
	Lower float64 // dB below maximum where the window opens
	Upper float64 // dB below maximum where the window closes
}

// Standardized evaluation windows. DecayTime accepts any custom Window for
// non-standard measurement ranges.
var (
	WindowEDT = Window{Name: "EDT", Lower: 1, Upper: 10}
	WindowT20 = Window{Name: "T20", Lower: 5, Upper: 25}
	WindowT30 = Window{Name: "T30", Lower: 5, Upper: 35}
)

// Times computes all standardized decay times from a decay curve in dB.
// The first window that cannot be fitted aborts the computation; use
// DecayTime for per-window results.
func (a *Analyzer) Times(curveDB []float64) (Times, error) {
	edt, err := a.DecayTime(curveDB, WindowEDT)
	if err != nil {
		return Times{}, err
	}

	t20, err := a.DecayTime(curveDB, WindowT20)
	if err != nil {
		return Times{}, err
	}

	t30, err := a.DecayTime(curveDB, WindowT30)
	if err != nil {
		return Times{}, err
	}

	return Times{EDT: edt, T20: t20, T30: t30}, nil
}

// DecayTime fits one window on a decay curve in dB and extrapolates the
// slope to the time of a full -60 dB decay.
//
// The curve must actually decay through the window: its dynamic range from
// the maximum has to reach Upper dB, and at least two samples must fall
// inside the window. A fitted slope that is not negative reports
// ErrInvalidSlope instead of a meaningless decay time.
func (a *Analyzer) DecayTime(curveDB []float64, w Window) (float64, error) {
	if a.SampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	if len(curveDB) == 0 {
		return 0, ErrDegenerateSignal
	}

	x, y, err := a.windowPoints(curveDB, w)
	if err != nil {
		return 0, err
	}

	res, err := fit.Line(x, y)
	if err != nil {
		return 0, fmt.Errorf("decay: %s window: %w", w.Name, err)
	}

	if res.Slope >= 0 {
		return 0, fmt.Errorf("%w: %s window", ErrInvalidSlope, w.Name)
	}

	return -60 / res.Slope, nil
}

// windowPoints gathers the time/level pairs inside the window, scanning
// from the curve maximum onward.
func (a *Analyzer) windowPoints(curveDB []float64, w Window) ([]float64, []float64, error) {
	peak := maxIndex(curveDB)
	top := curveDB[peak]

	if math.IsInf(top, 0) || math.IsNaN(top) {
		return nil, nil, fmt.Errorf("%w: no finite maximum", ErrDegenerateSignal)
	}

	if minValue(curveDB[peak:]) > top-w.Upper {
		return nil, nil, fmt.Errorf("%w: %s window: curve never reaches %g dB below maximum",
			ErrInsufficientWindow, w.Name, w.Upper)
	}

	var x, y []float64

	for i := peak; i < len(curveDB); i++ {
		v := curveDB[i]
		if v > top-w.Upper && v <= top-w.Lower {
			x = append(x, float64(i)/a.SampleRate)
			y = append(y, v)
		}
	}

	if len(x) < 2 {
		return nil, nil, fmt.Errorf("%w: %s window: %d samples in range",
			ErrInsufficientWindow, w.Name, len(x))
	}

	return x, y, nil
}

// maxIndex returns the index of the first occurrence of the maximum value,
// ignoring NaN entries.
func maxIndex(data []float64) int {
	idx := 0
	m := math.Inf(-1)

	for i, v := range data {
		if v > m {
			m = v
			idx = i
		}
	}

	return idx
}
