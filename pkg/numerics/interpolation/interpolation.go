// Package interpolation implements Newton divided differences, Lagrange
// polynomials and linear, quadratic and natural cubic splines.
package interpolation

import (
	"fmt"
	"sort"

	"github.com/tb0hdan/numlab/pkg/numerics"
	"github.com/tb0hdan/numlab/pkg/numerics/linear"
)

// Point is a sample (x, f(x)).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Estimate is the interpolated value at one target.
type Estimate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type NewtonResult struct {
	// Coefficients are the leading divided differences f[x0], f[x0,x1], ...
	Coefficients []float64  `json:"coefficients"`
	Estimates    []Estimate `json:"estimates"`
}

type LagrangeResult struct {
	Estimates []Estimate `json:"estimates"`
}

// SplineKind selects the spline degree.
type SplineKind string

const (
	SplineLinear    SplineKind = "linear"
	SplineQuadratic SplineKind = "quadratic"
	SplineCubic     SplineKind = "cubic"
)

// Segment is the polynomial a + b(x-x0) + c(x-x0)^2 + d(x-x0)^3 on [X0, X1].
type Segment struct {
	X0 float64 `json:"x0"`
	X1 float64 `json:"x1"`
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	C  float64 `json:"c"`
	D  float64 `json:"d"`
}

func (s Segment) eval(x float64) float64 {
	t := x - s.X0
	return s.A + t*(s.B+t*(s.C+t*s.D))
}

type SplineResult struct {
	Kind      SplineKind `json:"kind"`
	Segments  []Segment  `json:"segments"`
	Estimates []Estimate `json:"estimates"`
}

func validatePoints(points []Point, minPoints int) error {
	if len(points) < minPoints {
		return fmt.Errorf("%w: need at least %d points, got %d", numerics.ErrInvalidInput, minPoints, len(points))
	}
	seen := make(map[float64]bool, len(points))
	for i, p := range points {
		if !numerics.IsFinite(p.X) || !numerics.IsFinite(p.Y) {
			return fmt.Errorf("%w: point %d is not finite", numerics.ErrInvalidInput, i)
		}
		if seen[p.X] {
			return fmt.Errorf("%w: duplicate x = %g", numerics.ErrInvalidInput, p.X)
		}
		seen[p.X] = true
	}
	return nil
}

func validateTargets(targets []float64) error {
	if len(targets) == 0 {
		return fmt.Errorf("%w: at least one target x is required", numerics.ErrInvalidInput)
	}
	for i, t := range targets {
		if !numerics.IsFinite(t) {
			return fmt.Errorf("%w: target %d is not finite", numerics.ErrInvalidInput, i)
		}
	}
	return nil
}

// NewtonDivided builds the Newton form of the interpolating polynomial.
func NewtonDivided(points []Point, targets []float64) (NewtonResult, error) {
	if err := validatePoints(points, 2); err != nil {
		return NewtonResult{}, err
	}
	if err := validateTargets(targets); err != nil {
		return NewtonResult{}, err
	}

	n := len(points)
	coef := make([]float64, n)
	for i, p := range points {
		coef[i] = p.Y
	}
	for j := 1; j < n; j++ {
		for i := n - 1; i >= j; i-- {
			coef[i] = (coef[i] - coef[i-1]) / (points[i].X - points[i-j].X)
		}
	}

	res := NewtonResult{Coefficients: coef, Estimates: make([]Estimate, len(targets))}
	for k, x := range targets {
		y := coef[n-1]
		for i := n - 2; i >= 0; i-- {
			y = y*(x-points[i].X) + coef[i]
		}
		res.Estimates[k] = Estimate{X: x, Y: y}
	}
	return res, nil
}

func Lagrange(points []Point, targets []float64) (LagrangeResult, error) {
	if err := validatePoints(points, 2); err != nil {
		return LagrangeResult{}, err
	}
	if err := validateTargets(targets); err != nil {
		return LagrangeResult{}, err
	}

	res := LagrangeResult{Estimates: make([]Estimate, len(targets))}
	for k, x := range targets {
		var y float64
		for i, pi := range points {
			l := 1.0
			for j, pj := range points {
				if i != j {
					l *= (x - pj.X) / (pi.X - pj.X)
				}
			}
			y += l * pi.Y
		}
		res.Estimates[k] = Estimate{X: x, Y: y}
	}
	return res, nil
}

// Spline fits a piecewise polynomial through the points (sorted by x) and
// evaluates it at each target. Targets outside [min x, max x] are rejected.
func Spline(kind SplineKind, points []Point, targets []float64) (SplineResult, error) {
	if kind == "" {
		kind = SplineCubic
	}
	if err := validatePoints(points, 2); err != nil {
		return SplineResult{}, err
	}
	if err := validateTargets(targets); err != nil {
		return SplineResult{}, err
	}

	sorted := append([]Point(nil), points...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var (
		segments []Segment
		err      error
	)
	switch kind {
	case SplineLinear:
		segments = linearSegments(sorted)
	case SplineQuadratic:
		segments, err = quadraticSegments(sorted)
	case SplineCubic:
		segments, err = cubicSegments(sorted)
	default:
		return SplineResult{}, fmt.Errorf("%w: unknown spline kind %q", numerics.ErrInvalidInput, kind)
	}
	if err != nil {
		return SplineResult{}, err
	}

	lo, hi := sorted[0].X, sorted[len(sorted)-1].X
	res := SplineResult{Kind: kind, Segments: segments, Estimates: make([]Estimate, len(targets))}
	for k, x := range targets {
		if x < lo || x > hi {
			return SplineResult{}, fmt.Errorf("%w: %g not in [%g, %g]", numerics.ErrOutOfRange, x, lo, hi)
		}
		res.Estimates[k] = Estimate{X: x, Y: segments[segmentFor(segments, x)].eval(x)}
	}
	return res, nil
}

func segmentFor(segments []Segment, x float64) int {
	i := sort.Search(len(segments), func(i int) bool { return segments[i].X1 >= x })
	if i == len(segments) {
		i = len(segments) - 1
	}
	return i
}

func linearSegments(p []Point) []Segment {
	out := make([]Segment, len(p)-1)
	for i := range out {
		slope := (p[i+1].Y - p[i].Y) / (p[i+1].X - p[i].X)
		out[i] = Segment{X0: p[i].X, X1: p[i+1].X, A: p[i].Y, B: slope}
	}
	return out
}

// quadraticSegments uses the textbook condition that the first segment is linear
// (c0 = 0) and the first derivative is continuous at interior knots.
func quadraticSegments(p []Point) ([]Segment, error) {
	out := make([]Segment, len(p)-1)
	h0 := p[1].X - p[0].X
	b := (p[1].Y - p[0].Y) / h0
	for i := range out {
		h := p[i+1].X - p[i].X
		// a + b h + c h^2 = y_{i+1}
		c := (p[i+1].Y - p[i].Y - b*h) / (h * h)
		if i == 0 {
			c = 0
		}
		out[i] = Segment{X0: p[i].X, X1: p[i+1].X, A: p[i].Y, B: b, C: c}
		b += 2 * c * h
	}
	return out, nil
}

// cubicSegments builds a natural cubic spline (second derivative zero at both ends).
func cubicSegments(p []Point) ([]Segment, error) {
	n := len(p) - 1
	if n == 1 {
		return linearSegments(p), nil
	}

	h := make([]float64, n)
	for i := 0; i < n; i++ {
		h[i] = p[i+1].X - p[i].X
	}

	// Solve for the interior second-derivative terms c_1..c_{n-1}.
	size := n - 1
	m := make(linear.Matrix, size)
	rhs := make(linear.Vector, size)
	for r := 0; r < size; r++ {
		i := r + 1
		m[r] = make([]float64, size)
		m[r][r] = 2 * (h[i-1] + h[i])
		if r > 0 {
			m[r][r-1] = h[i-1]
		}
		if r < size-1 {
			m[r][r+1] = h[i]
		}
		rhs[r] = 3 * ((p[i+1].Y-p[i].Y)/h[i] - (p[i].Y-p[i-1].Y)/h[i-1])
	}
	sol, err := linear.GaussElimination(m, rhs)
	if err != nil {
		return nil, err
	}

	c := make([]float64, n+1)
	copy(c[1:n], sol.X)

	out := make([]Segment, n)
	for i := 0; i < n; i++ {
		b := (p[i+1].Y-p[i].Y)/h[i] - h[i]*(2*c[i]+c[i+1])/3
		d := (c[i+1] - c[i]) / (3 * h[i])
		out[i] = Segment{X0: p[i].X, X1: p[i+1].X, A: p[i].Y, B: b, C: c[i], D: d}
	}
	return out, nil
}
