package methods

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/tb0hdan/numlab/pkg/numerics"
	"github.com/tb0hdan/numlab/pkg/numerics/calculus"
	"github.com/tb0hdan/numlab/pkg/numerics/interpolation"
	"github.com/tb0hdan/numlab/pkg/numerics/linear"
	"github.com/tb0hdan/numlab/pkg/numerics/regression"
	"github.com/tb0hdan/numlab/pkg/numerics/roots"
)

var ErrUnknownMethod = errors.New("unknown method")

const (
	defaultIntervals     = 4
	defaultGaussPoints   = 2
	defaultRombergLevels = 6
	defaultStep          = 0.1
)

type solver func(Params) (any, error)

var solvers = map[string]solver{
	Bisection:          bracketing(roots.Bisection),
	FalsePosition:      bracketing(roots.FalsePosition),
	Graphical:          solveGraphical,
	OnePoint:           solveOnePoint,
	NewtonRaphson:      solveNewtonRaphson,
	Secant:             solveSecant,
	Cramer:             direct(linear.Cramer),
	GaussElimination:   direct(linear.GaussElimination),
	GaussJordan:        direct(linear.GaussJordan),
	MatrixInversion:    solveInversion,
	LU:                 direct(linear.LU),
	Cholesky:           direct(linear.Cholesky),
	Jacobi:             iterative(linear.Jacobi),
	GaussSeidel:        iterative(linear.GaussSeidel),
	ConjugateGradient:  iterative(linear.ConjugateGradient),
	NewtonDivided:      pointwise(interpolation.NewtonDivided),
	Lagrange:           pointwise(interpolation.Lagrange),
	Spline:             solveSpline,
	PolynomialRegress:  solvePolynomial,
	MultipleRegression: solveMultiple,
	Trapezoidal:        composite(calculus.Trapezoidal),
	Simpson:            composite(calculus.Simpson),
	Differentiation:    solveDifferentiation,
	Romberg:            solveRomberg,
	GaussIntegration:   solveGauss,
}

var validate = validator.New()

// Solve runs the method named by key (a slug or route path) on p. Iterative
// methods that stop without converging still return their partial result
// alongside numerics.ErrMaxIterations.
func Solve(key string, p Params) (any, error) {
	m, ok := Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, key)
	}
	run, ok := solvers[m.Slug]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not solvable", ErrUnknownMethod, key)
	}
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", numerics.ErrInvalidInput, err)
	}
	return run(p)
}

func (p Params) rootOptions() roots.Options {
	return roots.Options{Epsilon: p.Epsilon, MaxIterations: p.MaxIterations}
}

func (p Params) linearOptions() linear.Options {
	return linear.Options{Initial: p.Initial, Epsilon: p.Epsilon, MaxIterations: p.MaxIterations}
}

func intOr(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

func bracketing(method func(numerics.Func, float64, float64, roots.Options) (roots.Result, error)) solver {
	return func(p Params) (any, error) {
		f, err := p.function()
		if err != nil {
			return nil, err
		}
		a, b, err := p.interval()
		if err != nil {
			return nil, err
		}
		return method(f, a, b, p.rootOptions())
	}
}

func solveGraphical(p Params) (any, error) {
	f, err := p.function()
	if err != nil {
		return nil, err
	}
	a, b, err := p.interval()
	if err != nil {
		return nil, err
	}
	return roots.Graphical(f, a, b, p.Step, p.rootOptions())
}

func solveOnePoint(p Params) (any, error) {
	g, err := p.function()
	if err != nil {
		return nil, err
	}
	x0, err := required("x0", p.X0)
	if err != nil {
		return nil, err
	}
	return roots.OnePoint(g, x0, p.rootOptions())
}

func solveNewtonRaphson(p Params) (any, error) {
	f, err := p.function()
	if err != nil {
		return nil, err
	}
	df, err := p.derivative()
	if err != nil {
		return nil, err
	}
	x0, err := required("x0", p.X0)
	if err != nil {
		return nil, err
	}
	return roots.NewtonRaphson(f, df, x0, p.rootOptions())
}

func solveSecant(p Params) (any, error) {
	f, err := p.function()
	if err != nil {
		return nil, err
	}
	x0, err := required("x0", p.X0)
	if err != nil {
		return nil, err
	}
	x1, err := required("x1", p.X1)
	if err != nil {
		return nil, err
	}
	return roots.Secant(f, x0, x1, p.rootOptions())
}

func direct[R any](method func(linear.Matrix, linear.Vector) (R, error)) solver {
	return func(p Params) (any, error) {
		if len(p.Matrix) == 0 {
			return nil, missing("matrix")
		}
		if len(p.Vector) == 0 {
			return nil, missing("vector")
		}
		return method(p.Matrix, p.Vector)
	}
}

func solveInversion(p Params) (any, error) {
	if len(p.Matrix) == 0 {
		return nil, missing("matrix")
	}
	var b linear.Vector
	if len(p.Vector) > 0 {
		b = p.Vector
	}
	return linear.MatrixInversion(p.Matrix, b)
}

func iterative(method func(linear.Matrix, linear.Vector, linear.Options) (linear.IterativeResult, error)) solver {
	return func(p Params) (any, error) {
		if len(p.Matrix) == 0 {
			return nil, missing("matrix")
		}
		if len(p.Vector) == 0 {
			return nil, missing("vector")
		}
		return method(p.Matrix, p.Vector, p.linearOptions())
	}
}

func pointwise[R any](method func([]interpolation.Point, []float64) (R, error)) solver {
	return func(p Params) (any, error) {
		return method(p.Points, p.targets())
	}
}

func solveSpline(p Params) (any, error) {
	kind := interpolation.SplineKind(p.Kind)
	switch kind {
	case "", interpolation.SplineLinear, interpolation.SplineQuadratic, interpolation.SplineCubic:
	default:
		return nil, fmt.Errorf("%w: spline kind must be linear, quadratic or cubic", numerics.ErrInvalidInput)
	}
	return interpolation.Spline(kind, p.Points, p.targets())
}

func solvePolynomial(p Params) (any, error) {
	target, err := required("target", p.Target)
	if err != nil {
		return nil, err
	}
	return regression.Polynomial(p.Points, intOr(p.Degree, 1), target)
}

func solveMultiple(p Params) (any, error) {
	if len(p.Matrix) == 0 {
		return nil, missing("matrix")
	}
	return regression.MultipleRegression(p.Matrix, p.Y, p.Targets)
}

func composite(rule func(numerics.Func, float64, float64, int) (calculus.IntegralResult, error)) solver {
	return func(p Params) (any, error) {
		f, err := p.function()
		if err != nil {
			return nil, err
		}
		a, b, err := p.interval()
		if err != nil {
			return nil, err
		}
		return rule(f, a, b, intOr(p.N, defaultIntervals))
	}
}

func solveRomberg(p Params) (any, error) {
	f, err := p.function()
	if err != nil {
		return nil, err
	}
	a, b, err := p.interval()
	if err != nil {
		return nil, err
	}
	return calculus.Romberg(f, a, b, intOr(p.N, defaultRombergLevels), p.Epsilon)
}

func solveGauss(p Params) (any, error) {
	f, err := p.function()
	if err != nil {
		return nil, err
	}
	a, b, err := p.interval()
	if err != nil {
		return nil, err
	}
	return calculus.GaussIntegration(f, a, b, intOr(p.N, defaultGaussPoints))
}

func solveDifferentiation(p Params) (any, error) {
	f, err := p.function()
	if err != nil {
		return nil, err
	}
	df, err := p.derivative()
	if err != nil {
		return nil, err
	}
	x, err := required("x", p.X)
	if err != nil {
		return nil, err
	}
	h := defaultStep
	if p.H != nil {
		h = *p.H
	}
	accuracy := calculus.Accuracy(p.Kind)
	switch accuracy {
	case "", calculus.AccuracyBasic, calculus.AccuracyHigh:
	default:
		return nil, fmt.Errorf("%w: differentiation kind must be basic or high", numerics.ErrInvalidInput)
	}
	return calculus.Differentiation(f, x, h, calculus.DifferentiationOptions{
		Order:     intOr(p.Order, 1),
		Direction: calculus.Direction(p.Direction),
		Accuracy:  accuracy,
		Exact:     df,
	})
}
