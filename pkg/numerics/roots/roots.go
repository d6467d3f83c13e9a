// Package roots implements root-of-equation methods: graphical search,
// bisection, false position, one-point (fixed point) iteration,
// Newton-Raphson and secant.
package roots

import (
	"fmt"
	"math"

	"github.com/tb0hdan/numlab/pkg/numerics"
)

const (
	// divergenceLimit is the magnitude past which an open method is treated as diverged.
	divergenceLimit = 1e12
	// maxScanSteps bounds the number of evaluations in one graphical scan.
	maxScanSteps = 1_000_000
)

// Result is the outcome of a root search.
type Result struct {
	Root       float64              `json:"root"`
	FRoot      float64              `json:"fRoot"`
	Converged  bool                 `json:"converged"`
	Iterations []numerics.Iteration `json:"iterations"`
}

// Options bounds an iterative search.
type Options struct {
	Epsilon       float64
	MaxIterations int
}

func (o Options) normalized() (float64, int) {
	return numerics.Tolerance(o.Epsilon), numerics.MaxIterations(o.MaxIterations)
}

func bracket(a, b float64) (float64, float64, error) {
	if !numerics.IsFinite(a) || !numerics.IsFinite(b) {
		return 0, 0, fmt.Errorf("%w: interval bounds must be finite", numerics.ErrInvalidInput)
	}
	if a == b {
		return 0, 0, fmt.Errorf("%w: interval is empty (a == b)", numerics.ErrInvalidInput)
	}
	if a > b {
		a, b = b, a
	}
	return a, b, nil
}

func finish(res Result, f numerics.Func, converged bool) (Result, error) {
	fr, err := f(res.Root)
	if err != nil {
		return res, err
	}
	res.FRoot = fr
	res.Converged = converged
	if !converged {
		return res, numerics.ErrMaxIterations
	}
	return res, nil
}

// Bisection halves [a, b] until the relative change of the midpoint is below epsilon.
func Bisection(f numerics.Func, a, b float64, opts Options) (Result, error) {
	return bracketing(f, a, b, opts, func(xl, xr, _, _ float64) float64 {
		return (xl + xr) / 2
	})
}

// FalsePosition replaces the midpoint with the secant through the bracket ends.
func FalsePosition(f numerics.Func, a, b float64, opts Options) (Result, error) {
	return bracketing(f, a, b, opts, func(xl, xr, fl, fr float64) float64 {
		return (xl*fr - xr*fl) / (fr - fl)
	})
}

func bracketing(f numerics.Func, a, b float64, opts Options, next func(xl, xr, fl, fr float64) float64) (Result, error) {
	xl, xr, err := bracket(a, b)
	if err != nil {
		return Result{}, err
	}
	eps, maxIter := opts.normalized()

	fl, err := f(xl)
	if err != nil {
		return Result{}, err
	}
	fr, err := f(xr)
	if err != nil {
		return Result{}, err
	}

	res := Result{Iterations: []numerics.Iteration{}}
	switch {
	case fl == 0:
		res.Root = xl
		return finish(res, f, true)
	case fr == 0:
		res.Root = xr
		return finish(res, f, true)
	case fl*fr > 0:
		return Result{}, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", numerics.ErrNoSignChange, xl, fl, xr, fr)
	}

	var xOld float64
	for i := 1; i <= maxIter; i++ {
		x := next(xl, xr, fl, fr)
		fx, err := f(x)
		if err != nil {
			return res, err
		}

		relErr := 1.0
		if i > 1 {
			relErr = numerics.RelativeError(x, xOld)
		}
		res.Iterations = append(res.Iterations, numerics.Iteration{N: i, X: []float64{xl, xr, x}, FX: fx, Error: relErr})
		res.Root = x

		if fx == 0 || (i > 1 && relErr < eps) {
			return finish(res, f, true)
		}

		if fx*fr > 0 {
			xr, fr = x, fx
		} else {
			xl, fl = x, fx
		}
		xOld = x
	}
	return finish(res, f, false)
}

// Graphical scans [a, b] with the given step for a sign change, then repeats the
// scan inside the found sub-interval with a ten times smaller step until the step
// drops below epsilon. A non-positive step defaults to (b-a)/10.
func Graphical(f numerics.Func, a, b, step float64, opts Options) (Result, error) {
	lo, hi, err := bracket(a, b)
	if err != nil {
		return Result{}, err
	}
	eps, maxIter := opts.normalized()
	if step <= 0 || !numerics.IsFinite(step) {
		step = (hi - lo) / 10
	}
	if (hi-lo)/step > maxScanSteps {
		return Result{}, fmt.Errorf("%w: step %g is too small for [%g, %g]", numerics.ErrInvalidInput, step, lo, hi)
	}

	res := Result{Iterations: []numerics.Iteration{}}
	for i := 1; i <= maxIter; i++ {
		found := false
		for k := 0; ; k++ {
			x0 := lo + float64(k)*step
			if x0 >= hi {
				break
			}
			x1 := math.Min(x0+step, hi)
			f0, err := f(x0)
			if err != nil {
				return res, err
			}
			f1, err := f(x1)
			if err != nil {
				return res, err
			}
			if f0 == 0 || f1 == 0 {
				res.Root = x0
				if f1 == 0 {
					res.Root = x1
				}
				res.Iterations = append(res.Iterations, numerics.Iteration{N: i, X: []float64{x0, x1}, FX: 0, Error: 0})
				return finish(res, f, true)
			}
			if f0*f1 < 0 {
				lo, hi = x0, x1
				found = true
				break
			}
		}
		if !found {
			return Result{}, fmt.Errorf("%w: no sign change found with step %g", numerics.ErrNoSignChange, step)
		}

		res.Root = (lo + hi) / 2
		fm, err := f(res.Root)
		if err != nil {
			return res, err
		}
		res.Iterations = append(res.Iterations, numerics.Iteration{N: i, X: []float64{lo, hi}, FX: fm, Error: step})
		if step < eps {
			return finish(res, f, true)
		}
		step /= 10
	}
	return finish(res, f, false)
}

// OnePoint iterates x = g(x) from x0.
func OnePoint(g numerics.Func, x0 float64, opts Options) (Result, error) {
	if !numerics.IsFinite(x0) {
		return Result{}, fmt.Errorf("%w: x0 must be finite", numerics.ErrInvalidInput)
	}
	eps, maxIter := opts.normalized()

	res := Result{Iterations: []numerics.Iteration{}, Root: x0}
	x := x0
	for i := 1; i <= maxIter; i++ {
		next, err := g(x)
		if err != nil {
			return res, err
		}
		if math.Abs(next) > divergenceLimit {
			return res, fmt.Errorf("%w: |x| exceeded %g at iteration %d", numerics.ErrDiverged, divergenceLimit, i)
		}
		relErr := numerics.RelativeError(next, x)
		res.Iterations = append(res.Iterations, numerics.Iteration{N: i, X: []float64{next}, Error: relErr})
		res.Root = next
		if relErr < eps {
			return finishFixedPoint(res, g, true)
		}
		x = next
	}
	return finishFixedPoint(res, g, false)
}

// finishFixedPoint reports g(root) - root as the residual.
func finishFixedPoint(res Result, g numerics.Func, converged bool) (Result, error) {
	return finish(res, func(x float64) (float64, error) {
		gx, err := g(x)
		return gx - x, err
	}, converged)
}

// NewtonRaphson iterates x - f(x)/f'(x) from x0. When df is nil the derivative
// is approximated with a central difference.
func NewtonRaphson(f, df numerics.Func, x0 float64, opts Options) (Result, error) {
	if !numerics.IsFinite(x0) {
		return Result{}, fmt.Errorf("%w: x0 must be finite", numerics.ErrInvalidInput)
	}
	if df == nil {
		df = centralDifference(f)
	}
	eps, maxIter := opts.normalized()

	res := Result{Iterations: []numerics.Iteration{}, Root: x0}
	x := x0
	for i := 1; i <= maxIter; i++ {
		fx, err := f(x)
		if err != nil {
			return res, err
		}
		if fx == 0 {
			res.Root = x
			return finish(res, f, true)
		}
		dfx, err := df(x)
		if err != nil {
			return res, err
		}
		if dfx == 0 {
			return res, fmt.Errorf("%w: f'(%g) = 0", numerics.ErrZeroDerivative, x)
		}

		next := x - fx/dfx
		if !numerics.IsFinite(next) || math.Abs(next) > divergenceLimit {
			return res, fmt.Errorf("%w at iteration %d", numerics.ErrDiverged, i)
		}
		relErr := numerics.RelativeError(next, x)
		res.Iterations = append(res.Iterations, numerics.Iteration{N: i, X: []float64{next}, FX: fx, Error: relErr})
		res.Root = next
		if relErr < eps {
			return finish(res, f, true)
		}
		x = next
	}
	return finish(res, f, false)
}

// Secant iterates with the slope through the last two estimates, starting from x0 and x1.
func Secant(f numerics.Func, x0, x1 float64, opts Options) (Result, error) {
	if !numerics.IsFinite(x0) || !numerics.IsFinite(x1) {
		return Result{}, fmt.Errorf("%w: starting points must be finite", numerics.ErrInvalidInput)
	}
	if x0 == x1 {
		return Result{}, fmt.Errorf("%w: starting points must differ", numerics.ErrInvalidInput)
	}
	eps, maxIter := opts.normalized()

	f0, err := f(x0)
	if err != nil {
		return Result{}, err
	}
	f1, err := f(x1)
	if err != nil {
		return Result{}, err
	}

	res := Result{Iterations: []numerics.Iteration{}, Root: x1}
	for i := 1; i <= maxIter; i++ {
		if f1 == 0 {
			res.Root = x1
			return finish(res, f, true)
		}
		if f1 == f0 {
			return res, fmt.Errorf("%w: secant slope is zero at iteration %d", numerics.ErrZeroDerivative, i)
		}

		x2 := x1 - f1*(x1-x0)/(f1-f0)
		if !numerics.IsFinite(x2) || math.Abs(x2) > divergenceLimit {
			return res, fmt.Errorf("%w at iteration %d", numerics.ErrDiverged, i)
		}
		f2, err := f(x2)
		if err != nil {
			return res, err
		}
		relErr := numerics.RelativeError(x2, x1)
		res.Iterations = append(res.Iterations, numerics.Iteration{N: i, X: []float64{x2}, FX: f2, Error: relErr})
		res.Root = x2
		if relErr < eps {
			return finish(res, f, true)
		}
		x0, f0 = x1, f1
		x1, f1 = x2, f2
	}
	return finish(res, f, false)
}

func centralDifference(f numerics.Func) numerics.Func {
	return func(x float64) (float64, error) {
		h := 1e-6 * math.Max(1, math.Abs(x))
		fp, err := f(x + h)
		if err != nil {
			return 0, err
		}
		fm, err := f(x - h)
		if err != nil {
			return 0, err
		}
		return (fp - fm) / (2 * h), nil
	}
}
