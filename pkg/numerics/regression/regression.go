// Package regression fits least-squares models by solving the normal equations.
package regression

import (
	"fmt"

	"github.com/tb0hdan/numlab/pkg/numerics"
	"github.com/tb0hdan/numlab/pkg/numerics/interpolation"
	"github.com/tb0hdan/numlab/pkg/numerics/linear"
)

// PolynomialResult holds a0..am of y = a0 + a1 x + ... + am x^m.
type PolynomialResult struct {
	Degree       int       `json:"degree"`
	Coefficients []float64 `json:"coefficients"`
	Target       float64   `json:"target"`
	Prediction   float64   `json:"prediction"`
	// RSquared is the coefficient of determination of the fit.
	RSquared float64 `json:"rSquared"`
}

// MultipleResult holds a0..ak of y = a0 + a1 x1 + ... + ak xk.
type MultipleResult struct {
	Coefficients []float64 `json:"coefficients"`
	Targets      []float64 `json:"targets"`
	Prediction   float64   `json:"prediction"`
	RSquared     float64   `json:"rSquared"`
}

// Polynomial fits a degree m polynomial; m = 1 is simple linear regression.
func Polynomial(points []interpolation.Point, degree int, target float64) (PolynomialResult, error) {
	if degree < 1 {
		return PolynomialResult{}, fmt.Errorf("%w: degree must be at least 1, got %d", numerics.ErrInvalidInput, degree)
	}
	if len(points) <= degree {
		return PolynomialResult{}, fmt.Errorf("%w: degree %d needs more than %d points, got %d",
			numerics.ErrInvalidInput, degree, degree, len(points))
	}
	if !numerics.IsFinite(target) {
		return PolynomialResult{}, fmt.Errorf("%w: target is not finite", numerics.ErrInvalidInput)
	}

	rows := make(linear.Matrix, len(points))
	ys := make(linear.Vector, len(points))
	for i, p := range points {
		if !numerics.IsFinite(p.X) || !numerics.IsFinite(p.Y) {
			return PolynomialResult{}, fmt.Errorf("%w: point %d is not finite", numerics.ErrInvalidInput, i)
		}
		rows[i] = powers(p.X, degree)
		ys[i] = p.Y
	}

	coef, err := leastSquares(rows, ys)
	if err != nil {
		return PolynomialResult{}, err
	}
	return PolynomialResult{
		Degree:       degree,
		Coefficients: coef,
		Target:       target,
		Prediction:   predict(coef, powers(target, degree)),
		RSquared:     rSquared(rows, ys, coef),
	}, nil
}

// MultipleRegression fits a linear model in k predictors; each row of xs holds
// one observation's k predictor values.
func MultipleRegression(xs linear.Matrix, ys linear.Vector, targets []float64) (MultipleResult, error) {
	if len(xs) == 0 || len(xs[0]) == 0 {
		return MultipleResult{}, fmt.Errorf("%w: no observations", numerics.ErrInvalidInput)
	}
	k := len(xs[0])
	if len(ys) != len(xs) {
		return MultipleResult{}, fmt.Errorf("%w: %d observations but %d responses", numerics.ErrDimensionMismatch, len(xs), len(ys))
	}
	if len(targets) != k {
		return MultipleResult{}, fmt.Errorf("%w: %d target values for %d predictors", numerics.ErrDimensionMismatch, len(targets), k)
	}
	if len(xs) <= k {
		return MultipleResult{}, fmt.Errorf("%w: %d predictors need more than %d observations, got %d",
			numerics.ErrInvalidInput, k, k, len(xs))
	}

	rows := make(linear.Matrix, len(xs))
	for i, obs := range xs {
		if len(obs) != k {
			return MultipleResult{}, fmt.Errorf("%w: observation %d has %d predictors, want %d", numerics.ErrDimensionMismatch, i, len(obs), k)
		}
		rows[i] = append([]float64{1}, obs...)
	}

	coef, err := leastSquares(rows, ys)
	if err != nil {
		return MultipleResult{}, err
	}
	return MultipleResult{
		Coefficients: coef,
		Targets:      targets,
		Prediction:   predict(coef, append([]float64{1}, targets...)),
		RSquared:     rSquared(rows, ys, coef),
	}, nil
}

func powers(x float64, degree int) []float64 {
	out := make([]float64, degree+1)
	out[0] = 1
	for i := 1; i <= degree; i++ {
		out[i] = out[i-1] * x
	}
	return out
}

// leastSquares solves (X^T X) a = X^T y.
func leastSquares(x linear.Matrix, y linear.Vector) ([]float64, error) {
	for i, row := range x {
		for _, v := range row {
			if !numerics.IsFinite(v) {
				return nil, fmt.Errorf("%w: observation %d is not finite", numerics.ErrInvalidInput, i)
			}
		}
	}
	xt := x.Transpose()
	sol, err := linear.GaussElimination(xt.Mul(x), xt.MulVec(y))
	if err != nil {
		return nil, fmt.Errorf("normal equations: %w", err)
	}
	return sol.X, nil
}

func predict(coef, row []float64) float64 {
	var y float64
	for i, c := range coef {
		y += c * row[i]
	}
	return y
}

func rSquared(x linear.Matrix, y linear.Vector, coef []float64) float64 {
	var mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	var ssRes, ssTot float64
	for i, row := range x {
		r := y[i] - predict(coef, row)
		ssRes += r * r
		d := y[i] - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return 1
	}
	return 1 - ssRes/ssTot
}
