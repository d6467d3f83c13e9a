package linear

import (
	"fmt"
	"math"

	"github.com/tb0hdan/numlab/pkg/numerics"
)

const divergenceLimit = 1e12

// IterativeResult is the outcome of an iterative solver.
type IterativeResult struct {
	X          Vector               `json:"x"`
	Converged  bool                 `json:"converged"`
	Iterations []numerics.Iteration `json:"iterations"`
}

// Options bounds an iterative solver. Initial defaults to the zero vector.
type Options struct {
	Initial       Vector
	Epsilon       float64
	MaxIterations int
}

func (o Options) start(n int) (Vector, error) {
	if o.Initial == nil {
		return make(Vector, n), nil
	}
	if len(o.Initial) != n {
		return nil, fmt.Errorf("%w: initial guess has %d entries, want %d", numerics.ErrDimensionMismatch, len(o.Initial), n)
	}
	return append(Vector(nil), o.Initial...), nil
}

// maxRelativeError is the largest component-wise relative change.
func maxRelativeError(next, prev Vector) float64 {
	var worst float64
	for i := range next {
		worst = math.Max(worst, numerics.RelativeError(next[i], prev[i]))
	}
	return worst
}

func diverged(x Vector) bool {
	for _, v := range x {
		if !numerics.IsFinite(v) || math.Abs(v) > divergenceLimit {
			return true
		}
	}
	return false
}

func checkDiagonal(a Matrix) error {
	for i := range a {
		if a[i][i] == 0 {
			return fmt.Errorf("%w: zero on diagonal at row %d", numerics.ErrSingularMatrix, i)
		}
	}
	return nil
}

// Jacobi updates every component from the previous iterate.
func Jacobi(a Matrix, b Vector, opts Options) (IterativeResult, error) {
	return relax(a, b, opts, false)
}

// GaussSeidel updates components in place, using new values as soon as they are known.
func GaussSeidel(a Matrix, b Vector, opts Options) (IterativeResult, error) {
	return relax(a, b, opts, true)
}

func relax(a Matrix, b Vector, opts Options, inPlace bool) (IterativeResult, error) {
	n, err := validateSystem(a, b)
	if err != nil {
		return IterativeResult{}, err
	}
	if err := checkDiagonal(a); err != nil {
		return IterativeResult{}, err
	}
	x, err := opts.start(n)
	if err != nil {
		return IterativeResult{}, err
	}
	eps := numerics.Tolerance(opts.Epsilon)
	maxIter := numerics.MaxIterations(opts.MaxIterations)

	res := IterativeResult{Iterations: []numerics.Iteration{}}
	for it := 1; it <= maxIter; it++ {
		prev := append(Vector(nil), x...)
		src := prev
		if inPlace {
			src = x
		}
		next := x
		if !inPlace {
			next = make(Vector, n)
		}
		for i := 0; i < n; i++ {
			sum := b[i]
			for j := 0; j < n; j++ {
				if j != i {
					sum -= a[i][j] * src[j]
				}
			}
			next[i] = sum / a[i][i]
		}
		x = next
		if diverged(x) {
			return res, fmt.Errorf("%w at iteration %d", numerics.ErrDiverged, it)
		}

		relErr := maxRelativeError(x, prev)
		res.Iterations = append(res.Iterations, numerics.Iteration{N: it, X: append([]float64(nil), x...), Error: relErr})
		res.X = x
		if relErr < eps {
			res.Converged = true
			return res, nil
		}
	}
	return res, numerics.ErrMaxIterations
}

// ConjugateGradient solves a symmetric positive definite system; it stops when
// the residual norm drops below epsilon.
func ConjugateGradient(a Matrix, b Vector, opts Options) (IterativeResult, error) {
	n, err := validateSystem(a, b)
	if err != nil {
		return IterativeResult{}, err
	}
	if !a.IsSymmetric(1e-9) {
		return IterativeResult{}, numerics.ErrNotSymmetric
	}
	x, err := opts.start(n)
	if err != nil {
		return IterativeResult{}, err
	}
	eps := numerics.Tolerance(opts.Epsilon)
	maxIter := numerics.MaxIterations(opts.MaxIterations)

	ax := a.MulVec(x)
	r := make(Vector, n)
	for i := range r {
		r[i] = b[i] - ax[i]
	}
	d := append(Vector(nil), r...)
	rr := dot(r, r)

	res := IterativeResult{X: x, Iterations: []numerics.Iteration{}}
	if math.Sqrt(rr) < eps {
		res.Converged = true
		return res, nil
	}

	for it := 1; it <= maxIter; it++ {
		ad := a.MulVec(d)
		dad := dot(d, ad)
		if dad <= 0 {
			return res, fmt.Errorf("%w: d^T A d = %g", numerics.ErrNotSymmetricPositiveDefinite, dad)
		}
		alpha := rr / dad
		for i := range x {
			x[i] += alpha * d[i]
			r[i] -= alpha * ad[i]
		}
		rrNext := dot(r, r)
		norm := math.Sqrt(rrNext)
		res.Iterations = append(res.Iterations, numerics.Iteration{N: it, X: append([]float64(nil), x...), Error: norm})
		res.X = x
		if norm < eps {
			res.Converged = true
			return res, nil
		}

		beta := rrNext / rr
		for i := range d {
			d[i] = r[i] + beta*d[i]
		}
		rr = rrNext
	}
	return res, numerics.ErrMaxIterations
}
