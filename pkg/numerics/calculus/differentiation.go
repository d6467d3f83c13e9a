package calculus

import (
	"fmt"
	"math"

	"github.com/tb0hdan/numlab/pkg/numerics"
)

type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
	Central  Direction = "central"
)

// Accuracy picks the lower (O(h) forward/backward, O(h^2) central) or the
// higher (O(h^2) and O(h^4)) order formula.
type Accuracy string

const (
	AccuracyBasic Accuracy = "basic"
	AccuracyHigh  Accuracy = "high"
)

type stencil struct {
	offsets []int
	weights []float64
	// scale divides the weighted sum before the h^order factor.
	scale float64
}

var forwardStencils = map[Accuracy][5]stencil{
	AccuracyBasic: {
		1: {[]int{0, 1}, []float64{-1, 1}, 1},
		2: {[]int{0, 1, 2}, []float64{1, -2, 1}, 1},
		3: {[]int{0, 1, 2, 3}, []float64{-1, 3, -3, 1}, 1},
		4: {[]int{0, 1, 2, 3, 4}, []float64{1, -4, 6, -4, 1}, 1},
	},
	AccuracyHigh: {
		1: {[]int{0, 1, 2}, []float64{-3, 4, -1}, 2},
		2: {[]int{0, 1, 2, 3}, []float64{2, -5, 4, -1}, 1},
		3: {[]int{0, 1, 2, 3, 4}, []float64{-5, 18, -24, 14, -3}, 2},
		4: {[]int{0, 1, 2, 3, 4, 5}, []float64{3, -14, 26, -24, 11, -2}, 1},
	},
}

var centralStencils = map[Accuracy][5]stencil{
	AccuracyBasic: {
		1: {[]int{-1, 1}, []float64{-1, 1}, 2},
		2: {[]int{-1, 0, 1}, []float64{1, -2, 1}, 1},
		3: {[]int{-2, -1, 1, 2}, []float64{-1, 2, -2, 1}, 2},
		4: {[]int{-2, -1, 0, 1, 2}, []float64{1, -4, 6, -4, 1}, 1},
	},
	AccuracyHigh: {
		1: {[]int{-2, -1, 1, 2}, []float64{1, -8, 8, -1}, 12},
		2: {[]int{-2, -1, 0, 1, 2}, []float64{-1, 16, -30, 16, -1}, 12},
		3: {[]int{-3, -2, -1, 1, 2, 3}, []float64{1, -8, 13, -13, 8, -1}, 8},
		4: {[]int{-3, -2, -1, 0, 1, 2, 3}, []float64{-1, 12, -39, 56, -39, 12, -1}, 6},
	},
}

// DifferentiationOptions selects the finite-difference formula.
type DifferentiationOptions struct {
	Order     int
	Direction Direction
	Accuracy  Accuracy
	// Exact, when set, is the analytic derivative of the requested order.
	Exact numerics.Func
}

type DifferentiationResult struct {
	Value         float64   `json:"value"`
	Order         int       `json:"order"`
	Direction     Direction `json:"direction"`
	Accuracy      Accuracy  `json:"accuracy"`
	H             float64   `json:"h"`
	Exact         *float64  `json:"exact,omitempty"`
	RelativeError *float64  `json:"relativeError,omitempty"`
}

func (o DifferentiationOptions) stencil() (stencil, error) {
	if o.Order < 1 || o.Order > 4 {
		return stencil{}, fmt.Errorf("%w: derivative order must be 1 to 4, got %d", numerics.ErrInvalidInput, o.Order)
	}
	acc := o.Accuracy
	if acc == "" {
		acc = AccuracyBasic
	}
	if acc != AccuracyBasic && acc != AccuracyHigh {
		return stencil{}, fmt.Errorf("%w: unknown accuracy %q", numerics.ErrInvalidInput, o.Accuracy)
	}

	switch o.Direction {
	case Forward, "":
		return forwardStencils[acc][o.Order], nil
	case Backward:
		// Replacing h with -h mirrors the forward formula.
		fw := forwardStencils[acc][o.Order]
		sign := 1.0
		if o.Order%2 == 1 {
			sign = -1
		}
		bw := stencil{offsets: make([]int, len(fw.offsets)), weights: make([]float64, len(fw.weights)), scale: fw.scale}
		for i := range fw.offsets {
			bw.offsets[i] = -fw.offsets[i]
			bw.weights[i] = sign * fw.weights[i]
		}
		return bw, nil
	case Central:
		return centralStencils[acc][o.Order], nil
	default:
		return stencil{}, fmt.Errorf("%w: unknown direction %q", numerics.ErrInvalidInput, o.Direction)
	}
}

// Differentiation estimates the order-th derivative of f at x with step h.
func Differentiation(f numerics.Func, x, h float64, opts DifferentiationOptions) (DifferentiationResult, error) {
	if !numerics.IsFinite(x) {
		return DifferentiationResult{}, fmt.Errorf("%w: x is not finite", numerics.ErrInvalidInput)
	}
	if !numerics.IsFinite(h) || h <= 0 {
		return DifferentiationResult{}, fmt.Errorf("%w: step h must be positive, got %g", numerics.ErrInvalidInput, h)
	}
	st, err := opts.stencil()
	if err != nil {
		return DifferentiationResult{}, err
	}

	var sum float64
	for i, off := range st.offsets {
		fx, err := f(x + float64(off)*h)
		if err != nil {
			return DifferentiationResult{}, err
		}
		sum += st.weights[i] * fx
	}

	res := DifferentiationResult{
		Value:     sum / (st.scale * math.Pow(h, float64(opts.Order))),
		Order:     opts.Order,
		Direction: opts.Direction,
		Accuracy:  opts.Accuracy,
		H:         h,
	}
	if res.Direction == "" {
		res.Direction = Forward
	}
	if res.Accuracy == "" {
		res.Accuracy = AccuracyBasic
	}

	if opts.Exact != nil {
		exact, err := opts.Exact(x)
		if err != nil {
			return DifferentiationResult{}, fmt.Errorf("exact derivative: %w", err)
		}
		relErr := numerics.RelativeError(exact, res.Value)
		res.Exact = &exact
		res.RelativeError = &relErr
	}
	return res, nil
}
