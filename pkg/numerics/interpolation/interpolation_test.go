package interpolation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tb0hdan/numlab/pkg/numerics"
)

// Samples of f(x) = x^3 - 2x + 1.
var cubicPoints = []Point{
	{X: 0, Y: 1},
	{X: 1, Y: 0},
	{X: 2, Y: 5},
	{X: 3, Y: 22},
}

func cubic(x float64) float64 { return x*x*x - 2*x + 1 }

func TestNewtonDivided(t *testing.T) {
	res, err := NewtonDivided(cubicPoints, []float64{0.5, 2.5})
	require.NoError(t, err)

	require.Len(t, res.Coefficients, 4)
	assert.InDelta(t, 1, res.Coefficients[0], 1e-12)
	assert.InDelta(t, -1, res.Coefficients[1], 1e-12)
	assert.InDelta(t, 3, res.Coefficients[2], 1e-12)
	assert.InDelta(t, 1, res.Coefficients[3], 1e-12)

	for _, e := range res.Estimates {
		assert.InDelta(t, cubic(e.X), e.Y, 1e-9)
	}
}

func TestLagrange_MatchesNewton(t *testing.T) {
	targets := []float64{-1, 0.25, 1.75, 4}
	newton, err := NewtonDivided(cubicPoints, targets)
	require.NoError(t, err)
	lagrange, err := Lagrange(cubicPoints, targets)
	require.NoError(t, err)

	for i := range targets {
		assert.InDelta(t, newton.Estimates[i].Y, lagrange.Estimates[i].Y, 1e-9)
	}
}

func TestLagrange_PassesThroughSamples(t *testing.T) {
	targets := make([]float64, len(cubicPoints))
	for i, p := range cubicPoints {
		targets[i] = p.X
	}
	res, err := Lagrange(cubicPoints, targets)
	require.NoError(t, err)
	for i, p := range cubicPoints {
		assert.InDelta(t, p.Y, res.Estimates[i].Y, 1e-12)
	}
}

func TestInterpolation_InvalidPoints(t *testing.T) {
	_, err := NewtonDivided([]Point{{X: 1, Y: 1}}, []float64{1})
	assert.ErrorIs(t, err, numerics.ErrInvalidInput)

	_, err = Lagrange([]Point{{X: 1, Y: 1}, {X: 1, Y: 2}}, []float64{1})
	assert.ErrorIs(t, err, numerics.ErrInvalidInput)

	_, err = Lagrange(cubicPoints, nil)
	assert.ErrorIs(t, err, numerics.ErrInvalidInput)

	_, err = NewtonDivided(cubicPoints, []float64{math.NaN()})
	assert.ErrorIs(t, err, numerics.ErrInvalidInput)
}

func TestSpline_Linear(t *testing.T) {
	res, err := Spline(SplineLinear, cubicPoints, []float64{0.5, 2.5})
	require.NoError(t, err)
	require.Len(t, res.Segments, 3)
	assert.InDelta(t, 0.5, res.Estimates[0].Y, 1e-12)
	assert.InDelta(t, 13.5, res.Estimates[1].Y, 1e-12)
}

func TestSpline_UnsortedInput(t *testing.T) {
	shuffled := []Point{cubicPoints[2], cubicPoints[0], cubicPoints[3], cubicPoints[1]}
	res, err := Spline(SplineLinear, shuffled, []float64{0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.Estimates[0].Y, 1e-12)
	assert.Equal(t, 0.0, res.Segments[0].X0)
}

func TestSpline_Quadratic(t *testing.T) {
	res, err := Spline(SplineQuadratic, cubicPoints, []float64{0, 1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Segments[0].C)

	for i, p := range cubicPoints {
		assert.InDelta(t, p.Y, res.Estimates[i].Y, 1e-9)
	}
	// First derivative is continuous at interior knots.
	for i := 0; i < len(res.Segments)-1; i++ {
		s := res.Segments[i]
		h := s.X1 - s.X0
		assert.InDelta(t, s.B+2*s.C*h, res.Segments[i+1].B, 1e-9)
	}
}

func TestSpline_CubicNatural(t *testing.T) {
	res, err := Spline(SplineCubic, cubicPoints, []float64{0, 1.5, 3})
	require.NoError(t, err)
	require.Len(t, res.Segments, 3)

	assert.InDelta(t, 1, res.Estimates[0].Y, 1e-9)
	assert.InDelta(t, 22, res.Estimates[2].Y, 1e-9)

	first, last := res.Segments[0], res.Segments[2]
	assert.InDelta(t, 0, first.C, 1e-12)
	h := last.X1 - last.X0
	assert.InDelta(t, 0, 2*last.C+6*last.D*h, 1e-9)

	// Value, slope and curvature agree at interior knots.
	for i := 0; i < len(res.Segments)-1; i++ {
		s, next := res.Segments[i], res.Segments[i+1]
		h := s.X1 - s.X0
		assert.InDelta(t, next.A, s.eval(s.X1), 1e-9)
		assert.InDelta(t, next.B, s.B+2*s.C*h+3*s.D*h*h, 1e-9)
		assert.InDelta(t, next.C, s.C+3*s.D*h, 1e-9)
	}
}

func TestSpline_DefaultsToCubic(t *testing.T) {
	res, err := Spline("", cubicPoints, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, SplineCubic, res.Kind)
}

func TestSpline_TwoPointCubicIsLinear(t *testing.T) {
	res, err := Spline(SplineCubic, []Point{{X: 0, Y: 0}, {X: 2, Y: 4}}, []float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Estimates[0].Y, 1e-12)
}

func TestSpline_Errors(t *testing.T) {
	_, err := Spline(SplineCubic, cubicPoints, []float64{3.5})
	assert.ErrorIs(t, err, numerics.ErrOutOfRange)

	_, err = Spline("bezier", cubicPoints, []float64{1})
	assert.ErrorIs(t, err, numerics.ErrInvalidInput)
}
