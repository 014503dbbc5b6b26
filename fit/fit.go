// Package fit provides least-squares line fitting for decay-curve analysis.
package fit

import (
	"errors"
	"math"
)

// Errors returned by fitting functions.
var (
	ErrLengthMismatch = errors.New("fit: x and y must have the same length")
	ErrTooFewPoints   = errors.New("fit: at least two points are required")
	ErrSingular       = errors.New("fit: singular design matrix")
)

// qrTol is the singularity threshold for the R diagonal, scaled by the
// column norm before use.
const qrTol = 1e-12

// Result holds a fitted line y = Slope*x + Intercept together with its
// evaluation at the input x values.
type Result struct {
	Slope     float64
	Intercept float64
	Fitted    []float64
}

// Line fits a straight line to (x, y) by least squares.
//
// The solve factors the [x 1] design matrix with Householder QR instead of
// using covariance-ratio formulas, so rank-deficient inputs (all x equal)
// are reported as ErrSingular rather than producing an arbitrary slope.
func Line(x, y []float64) (Result, error) {
	if len(x) != len(y) {
		return Result{}, ErrLengthMismatch
	}

	n := len(x)
	if n < 2 {
		return Result{}, ErrTooFewPoints
	}

	// Design matrix columns and right-hand side. The reflections update
	// these in place.
	col0 := make([]float64, n)
	col1 := make([]float64, n)
	rhs := make([]float64, n)
	copy(col0, x)
	copy(rhs, y)

	for i := range col1 {
		col1[i] = 1
	}

	r00 := reflect(col0, 0, col1, rhs)
	r11 := reflect(col1, 1, rhs)
	r01 := col1[0]

	// A vanishing diagonal entry means the columns are linearly dependent;
	// for [x 1] that happens exactly when all x values coincide.
	tol := qrTol * math.Sqrt(float64(n))
	if math.Abs(r00) <= tol || math.Abs(r11) <= tol {
		return Result{}, ErrSingular
	}

	intercept := rhs[1] / r11
	slope := (rhs[0] - r01*intercept) / r00

	fitted := make([]float64, n)
	for i, xv := range x {
		fitted[i] = slope*xv + intercept
	}

	return Result{Slope: slope, Intercept: intercept, Fitted: fitted}, nil
}

// reflect builds the Householder reflector that zeroes col below row k,
// applies it to col and every target, and returns the diagonal entry R[k][k].
func reflect(col []float64, k int, targets ...[]float64) float64 {
	n := len(col)

	var norm float64
	for i := k; i < n; i++ {
		norm = math.Hypot(norm, col[i])
	}

	if norm == 0 {
		return 0
	}

	alpha := -norm
	if col[k] < 0 {
		alpha = norm
	}

	// u = col[k:] - alpha*e1 spans the reflection plane.
	u := make([]float64, n-k)
	copy(u, col[k:])
	u[0] -= alpha

	var beta float64
	for _, v := range u {
		beta += v * v
	}

	if beta == 0 {
		return alpha
	}

	for _, t := range targets {
		var dot float64
		for i := k; i < n; i++ {
			dot += u[i-k] * t[i]
		}

		scale := 2 * dot / beta
		for i := k; i < n; i++ {
			t[i] -= scale * u[i-k]
		}
	}

	// The reflector maps col[k:] onto alpha*e1 exactly.
	col[k] = alpha
	for i := k + 1; i < n; i++ {
		col[i] = 0
	}

	return alpha
}
