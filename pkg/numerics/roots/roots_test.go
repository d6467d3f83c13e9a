package roots

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tb0hdan/numlab/pkg/numerics"
	"github.com/tb0hdan/numlab/pkg/numerics/expression"
)

func poly(x float64) (float64, error) {
	return x*x*x - x - 2, nil // root near 1.5213797
}

const polyRoot = 1.5213797068045676

func TestBisection(t *testing.T) {
	res, err := Bisection(poly, 1, 2, Options{Epsilon: 1e-8})
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.InDelta(t, polyRoot, res.Root, 1e-6)
	assert.NotEmpty(t, res.Iterations)
	assert.Equal(t, 1, res.Iterations[0].N)
	assert.InDelta(t, 1.5, res.Iterations[0].X[2], 1e-12)
}

func TestBisection_ReversedInterval(t *testing.T) {
	res, err := Bisection(poly, 2, 1, Options{Epsilon: 1e-8})
	require.NoError(t, err)
	assert.InDelta(t, polyRoot, res.Root, 1e-6)
}

func TestBisection_ExpressionScenario(t *testing.T) {
	f := expression.MustCompile("x^2-4")
	res, err := Bisection(f, 0, 5, Options{Epsilon: 0.0001})
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Root, 1e-3)
}

func TestBisection_RootAtEndpoint(t *testing.T) {
	f := expression.MustCompile("x-3")
	res, err := Bisection(f, 3, 5, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Root)
	assert.Empty(t, res.Iterations)
}

func TestBisection_NoSignChange(t *testing.T) {
	f := expression.MustCompile("x^2+1")
	_, err := Bisection(f, -1, 1, Options{})
	assert.ErrorIs(t, err, numerics.ErrNoSignChange)
}

func TestBisection_InvalidInterval(t *testing.T) {
	_, err := Bisection(poly, 1, 1, Options{})
	assert.ErrorIs(t, err, numerics.ErrInvalidInput)

	_, err = Bisection(poly, math.NaN(), 1, Options{})
	assert.ErrorIs(t, err, numerics.ErrInvalidInput)
}

func TestBisection_MaxIterations(t *testing.T) {
	res, err := Bisection(poly, 1, 2, Options{Epsilon: 1e-15, MaxIterations: 3})
	assert.ErrorIs(t, err, numerics.ErrMaxIterations)
	assert.False(t, res.Converged)
	assert.Len(t, res.Iterations, 3)
}

func TestFalsePosition(t *testing.T) {
	res, err := FalsePosition(poly, 1, 2, Options{Epsilon: 1e-10})
	require.NoError(t, err)
	assert.InDelta(t, polyRoot, res.Root, 1e-7)

	bis, err := Bisection(poly, 1, 2, Options{Epsilon: 1e-10})
	require.NoError(t, err)
	assert.Less(t, len(res.Iterations), len(bis.Iterations))
}

func TestGraphical(t *testing.T) {
	res, err := Graphical(poly, 0, 3, 1, Options{Epsilon: 1e-6})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, polyRoot, res.Root, 1e-5)
	// First scan brackets [1, 2].
	assert.Equal(t, []float64{1, 2}, res.Iterations[0].X)
}

func TestGraphical_ExactHit(t *testing.T) {
	f := expression.MustCompile("x^2-4")
	res, err := Graphical(f, 0, 5, 0.5, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Root, 1e-12)
}

func TestGraphical_DefaultStepAndNoRoot(t *testing.T) {
	f := expression.MustCompile("x^2+1")
	_, err := Graphical(f, -5, 5, 0, Options{})
	assert.ErrorIs(t, err, numerics.ErrNoSignChange)
}

func TestGraphical_StepTooSmall(t *testing.T) {
	_, err := Graphical(poly, 0, 10, 1e-9, Options{})
	assert.ErrorIs(t, err, numerics.ErrInvalidInput)
}

func TestOnePoint(t *testing.T) {
	// x = cos(x) has a fixed point near 0.739085.
	g := expression.MustCompile("cos(x)")
	res, err := OnePoint(g, 0.5, Options{Epsilon: 1e-10, MaxIterations: 200})
	require.NoError(t, err)
	assert.InDelta(t, 0.7390851332, res.Root, 1e-8)
	assert.InDelta(t, 0, res.FRoot, 1e-8)
}

func TestOnePoint_Diverges(t *testing.T) {
	g := func(x float64) (float64, error) { return 10 * x, nil }
	_, err := OnePoint(g, 1, Options{MaxIterations: 100})
	assert.ErrorIs(t, err, numerics.ErrDiverged)
}

func TestNewtonRaphson_NumericDerivative(t *testing.T) {
	res, err := NewtonRaphson(poly, nil, 2, Options{Epsilon: 1e-12})
	require.NoError(t, err)
	assert.InDelta(t, polyRoot, res.Root, 1e-9)
	assert.Less(t, len(res.Iterations), 10)
}

func TestNewtonRaphson_ExplicitDerivative(t *testing.T) {
	f := expression.MustCompile("x^2-7")
	df := expression.MustCompile("2*x")
	res, err := NewtonRaphson(f, df, 2, Options{Epsilon: 1e-12})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(7), res.Root, 1e-10)
}

func TestNewtonRaphson_ZeroDerivative(t *testing.T) {
	f := expression.MustCompile("x^2+1")
	df := expression.MustCompile("2*x")
	_, err := NewtonRaphson(f, df, 0, Options{})
	assert.ErrorIs(t, err, numerics.ErrZeroDerivative)
}

func TestSecant(t *testing.T) {
	res, err := Secant(poly, 1, 2, Options{Epsilon: 1e-12})
	require.NoError(t, err)
	assert.InDelta(t, polyRoot, res.Root, 1e-9)
}

func TestSecant_SameStartingPoints(t *testing.T) {
	_, err := Secant(poly, 1, 1, Options{})
	assert.ErrorIs(t, err, numerics.ErrInvalidInput)
}

func TestSecant_FlatSlope(t *testing.T) {
	f := expression.MustCompile("x^2+1")
	_, err := Secant(f, -1, 1, Options{})
	assert.ErrorIs(t, err, numerics.ErrZeroDerivative)
}
