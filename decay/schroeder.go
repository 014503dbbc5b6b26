package decay

import "fmt"

// Compensation holds the optional correction terms applied during Schroeder
// integration. The zero value disables compensation.
type Compensation struct {
	// C is added to every cumulative sum, accounting for decay energy
	// beyond the truncation point (Lundeby-style correction).
	C float64

	// RMS is an estimated noise power subtracted from each sample before
	// integration (Chu-style correction).
	RMS float64
}

// Schroeder computes the backward-integrated decay curve of an energy
// signal.
//
// Samples before trunc form the decay region: each output value is the
// cumulative energy from that position up to trunc with comp applied, and
// the region is normalized by the position-zero total so the curve starts
// at 1. Samples from trunc onward are carried through unchanged. The
// output always has the same length as the input.
//
// With trunc equal to the full length and zero comp this is the classic
// Schroeder integral of the energy signal.
func Schroeder(energy []float64, trunc int, comp Compensation) ([]float64, error) {
	if len(energy) == 0 {
		return nil, ErrDegenerateSignal
	}

	if trunc < 0 || trunc > len(energy) {
		return nil, fmt.Errorf("%w: %d of %d samples", ErrInvalidTruncation, trunc, len(energy))
	}

	out := make([]float64, len(energy))
	copy(out[trunc:], energy[trunc:])

	if trunc == 0 {
		return out, nil
	}

	var cum float64
	for i := trunc - 1; i >= 0; i-- {
		cum += energy[i] - comp.RMS
		out[i] = cum + comp.C
	}

	total := out[0]
	if total <= 0 {
		return nil, fmt.Errorf("%w: non-positive total energy", ErrDegenerateSignal)
	}

	for i := range trunc {
		out[i] /= total
	}

	return out, nil
}
