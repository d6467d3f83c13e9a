// Package numerics holds the error values and small helpers shared by the
// numerical method packages. Every method is a pure function of its inputs.
package numerics

import (
	"errors"
	"math"
)

var (
	ErrInvalidInput                 = errors.New("invalid input")
	ErrNoSignChange                 = errors.New("function does not change sign on the interval")
	ErrSingularMatrix               = errors.New("matrix is singular")
	ErrNotSymmetricPositiveDefinite = errors.New("matrix is not symmetric positive definite")
	ErrNotSymmetric                 = errors.New("matrix is not symmetric")
	ErrDimensionMismatch            = errors.New("dimension mismatch")
	ErrDiverged                     = errors.New("iteration diverged")
	ErrMaxIterations                = errors.New("maximum iterations reached without convergence")
	ErrZeroDerivative               = errors.New("derivative is zero")
	ErrOutOfRange                   = errors.New("target outside interpolation range")
)

const (
	DefaultEpsilon       = 1e-6
	DefaultMaxIterations = 100
)

// Func is a real function of one variable that may fail to evaluate.
type Func func(x float64) (float64, error)

// Iteration is one row of an iterative method's table.
type Iteration struct {
	N     int       `json:"n"`
	X     []float64 `json:"x"`
	FX    float64   `json:"fx,omitempty"`
	Error float64   `json:"error"`
}

// Tolerance returns eps, or DefaultEpsilon when eps is not positive.
func Tolerance(eps float64) float64 {
	if eps <= 0 || math.IsNaN(eps) {
		return DefaultEpsilon
	}
	return eps
}

// MaxIterations returns n, or DefaultMaxIterations when n is not positive.
func MaxIterations(n int) int {
	if n <= 0 {
		return DefaultMaxIterations
	}
	return n
}

// RelativeError is |new-old|/|new|, falling back to the absolute difference
// when new is zero.
func RelativeError(newValue, oldValue float64) float64 {
	diff := math.Abs(newValue - oldValue)
	if newValue == 0 {
		return diff
	}
	return diff / math.Abs(newValue)
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
