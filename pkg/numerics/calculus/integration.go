// Package calculus implements numerical integration (composite trapezoidal and
// Simpson rules, Romberg, Gauss-Legendre) and finite-difference differentiation.
package calculus

import (
	"fmt"
	"math"

	"github.com/tb0hdan/numlab/pkg/numerics"
)

const (
	defaultRombergLevels = 6
	maxRombergLevels     = 20
)

// IntegralResult is the outcome of a composite rule over n subintervals.
type IntegralResult struct {
	Value float64 `json:"value"`
	N     int     `json:"n"`
	H     float64 `json:"h"`
}

type RombergResult struct {
	Value     float64     `json:"value"`
	Table     [][]float64 `json:"table"`
	Error     float64     `json:"error"`
	Converged bool        `json:"converged"`
}

type GaussResult struct {
	Value  float64   `json:"value"`
	Points int       `json:"points"`
	Nodes  []float64 `json:"nodes"`
}

// Gauss-Legendre nodes and weights on [-1, 1], non-negative half only.
var legendre = map[int]struct{ nodes, weights []float64 }{
	1: {[]float64{0}, []float64{2}},
	2: {[]float64{0.5773502691896257}, []float64{1}},
	3: {[]float64{0, 0.7745966692414834}, []float64{0.8888888888888888, 0.5555555555555556}},
	4: {[]float64{0.3399810435848563, 0.8611363115940526}, []float64{0.6521451548625461, 0.3478548451374538}},
	5: {[]float64{0, 0.5384693101056831, 0.9061798459386640}, []float64{0.5688888888888889, 0.4786286704993665, 0.2369268850561891}},
	6: {[]float64{0.2386191860831969, 0.6612093864662645, 0.9324695142031521}, []float64{0.4679139345726910, 0.3607615730481386, 0.1713244923791704}},
}

func validateInterval(a, b float64) error {
	if !numerics.IsFinite(a) || !numerics.IsFinite(b) {
		return fmt.Errorf("%w: interval bounds must be finite", numerics.ErrInvalidInput)
	}
	if a == b {
		return fmt.Errorf("%w: empty interval [%g, %g]", numerics.ErrInvalidInput, a, b)
	}
	return nil
}

// Trapezoidal applies the composite trapezoidal rule with n subintervals.
func Trapezoidal(f numerics.Func, a, b float64, n int) (IntegralResult, error) {
	if err := validateInterval(a, b); err != nil {
		return IntegralResult{}, err
	}
	if n < 1 {
		return IntegralResult{}, fmt.Errorf("%w: n must be at least 1, got %d", numerics.ErrInvalidInput, n)
	}
	v, err := trapezoid(f, a, b, n)
	if err != nil {
		return IntegralResult{}, err
	}
	return IntegralResult{Value: v, N: n, H: (b - a) / float64(n)}, nil
}

func trapezoid(f numerics.Func, a, b float64, n int) (float64, error) {
	h := (b - a) / float64(n)
	fa, err := f(a)
	if err != nil {
		return 0, err
	}
	fb, err := f(b)
	if err != nil {
		return 0, err
	}
	sum := (fa + fb) / 2
	for i := 1; i < n; i++ {
		fx, err := f(a + float64(i)*h)
		if err != nil {
			return 0, err
		}
		sum += fx
	}
	return h * sum, nil
}

// Simpson applies the composite Simpson 1/3 rule; n must be even.
func Simpson(f numerics.Func, a, b float64, n int) (IntegralResult, error) {
	if err := validateInterval(a, b); err != nil {
		return IntegralResult{}, err
	}
	if n < 2 || n%2 != 0 {
		return IntegralResult{}, fmt.Errorf("%w: n must be a positive even number, got %d", numerics.ErrInvalidInput, n)
	}

	h := (b - a) / float64(n)
	var sum float64
	for i := 0; i <= n; i++ {
		fx, err := f(a + float64(i)*h)
		if err != nil {
			return IntegralResult{}, err
		}
		switch {
		case i == 0 || i == n:
			sum += fx
		case i%2 == 1:
			sum += 4 * fx
		default:
			sum += 2 * fx
		}
	}
	return IntegralResult{Value: h / 3 * sum, N: n, H: h}, nil
}

// Romberg extrapolates trapezoid estimates with 1, 2, 4, ... subintervals.
// It builds levels rows, stopping early once the diagonal's relative change
// drops below epsilon.
func Romberg(f numerics.Func, a, b float64, levels int, epsilon float64) (RombergResult, error) {
	if err := validateInterval(a, b); err != nil {
		return RombergResult{}, err
	}
	if levels <= 0 {
		levels = defaultRombergLevels
	}
	if levels > maxRombergLevels {
		return RombergResult{}, fmt.Errorf("%w: at most %d levels, got %d", numerics.ErrInvalidInput, maxRombergLevels, levels)
	}

	res := RombergResult{Table: make([][]float64, 0, levels)}
	for i := 0; i < levels; i++ {
		t, err := trapezoid(f, a, b, 1<<i)
		if err != nil {
			return RombergResult{}, err
		}
		row := make([]float64, i+1)
		row[0] = t
		for j := 1; j <= i; j++ {
			p := math.Pow(4, float64(j))
			row[j] = (p*row[j-1] - res.Table[i-1][j-1]) / (p - 1)
		}
		res.Table = append(res.Table, row)
		res.Value = row[i]

		if i > 0 {
			res.Error = numerics.RelativeError(row[i], res.Table[i-1][i-1])
			if epsilon > 0 && res.Error < epsilon {
				res.Converged = true
				return res, nil
			}
		}
	}
	res.Converged = epsilon <= 0 || res.Error < epsilon
	return res, nil
}

// GaussIntegration applies the points-point Gauss-Legendre rule on [a, b].
func GaussIntegration(f numerics.Func, a, b float64, points int) (GaussResult, error) {
	if err := validateInterval(a, b); err != nil {
		return GaussResult{}, err
	}
	rule, ok := legendre[points]
	if !ok {
		return GaussResult{}, fmt.Errorf("%w: Gauss-Legendre supports 1 to 6 points, got %d", numerics.ErrInvalidInput, points)
	}

	half, mid := (b-a)/2, (b+a)/2
	res := GaussResult{Points: points, Nodes: make([]float64, 0, points)}
	var sum float64
	for i, t := range rule.nodes {
		signs := []float64{1, -1}
		if t == 0 {
			signs = signs[:1]
		}
		for _, s := range signs {
			x := mid + half*s*t
			fx, err := f(x)
			if err != nil {
				return GaussResult{}, err
			}
			sum += rule.weights[i] * fx
			res.Nodes = append(res.Nodes, x)
		}
	}
	res.Value = half * sum
	return res, nil
}
