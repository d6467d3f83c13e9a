package methods

import (
	"fmt"

	"github.com/tb0hdan/numlab/pkg/numerics"
	"github.com/tb0hdan/numlab/pkg/numerics/expression"
	"github.com/tb0hdan/numlab/pkg/numerics/interpolation"
)

// Params is the union of every method's inputs. Each method reads the fields
// it needs and ignores the rest; pointer fields distinguish "absent" from zero.
type Params struct {
	Equation      string                `json:"equation,omitempty" jsonschema:"function of x, e.g. x^2-4 or exp(-x)-x"`
	Derivative    string                `json:"derivative,omitempty" jsonschema:"derivative of equation; Newton-Raphson falls back to a central difference, differentiation reports relative error against it"`
	A             *float64              `json:"a,omitempty" jsonschema:"interval start"`
	B             *float64              `json:"b,omitempty" jsonschema:"interval end"`
	Epsilon       float64               `json:"epsilon,omitempty" validate:"omitempty,gt=0" jsonschema:"stopping tolerance, default 1e-6"`
	MaxIterations int                   `json:"maxIterations,omitempty" validate:"omitempty,min=1,max=100000" jsonschema:"iteration cap, default 100"`
	X0            *float64              `json:"x0,omitempty" jsonschema:"initial guess"`
	X1            *float64              `json:"x1,omitempty" jsonschema:"second initial guess (secant)"`
	Step          float64               `json:"step,omitempty" validate:"omitempty,gt=0" jsonschema:"scan step for the graphical method"`
	Matrix        [][]float64           `json:"matrix,omitempty" jsonschema:"coefficient matrix A, or one row of predictors per observation for multiple regression"`
	Vector        []float64             `json:"vector,omitempty" jsonschema:"right-hand side b"`
	Initial       []float64             `json:"initial,omitempty" jsonschema:"initial guess for iterative solvers"`
	X             *float64              `json:"x,omitempty" jsonschema:"point at which to differentiate"`
	Y             []float64             `json:"y,omitempty" jsonschema:"responses for multiple regression"`
	Points        []interpolation.Point `json:"points,omitempty" jsonschema:"samples (x, y)"`
	Target        *float64              `json:"target,omitempty" jsonschema:"x at which to evaluate a regression polynomial"`
	Targets       []float64             `json:"targets,omitempty" jsonschema:"interpolation targets, or predictor values for multiple regression"`
	Degree        int                   `json:"degree,omitempty" validate:"omitempty,min=1,max=20" jsonschema:"polynomial degree, default 1"`
	N             int                   `json:"n,omitempty" validate:"omitempty,min=1,max=1000000" jsonschema:"subintervals, Romberg levels or Gauss points"`
	Order         int                   `json:"order,omitempty" validate:"omitempty,min=1,max=4" jsonschema:"derivative order, default 1"`
	Direction     string                `json:"direction,omitempty" validate:"omitempty,oneof=forward backward central" jsonschema:"finite difference direction"`
	H             *float64              `json:"h,omitempty" jsonschema:"finite difference step"`
	Kind          string                `json:"kind,omitempty" validate:"omitempty,oneof=linear quadratic cubic basic high" jsonschema:"spline kind, or differentiation accuracy (basic or high)"`
}

func missing(name string) error {
	return fmt.Errorf("%w: %s is required", numerics.ErrInvalidInput, name)
}

func required(name string, v *float64) (float64, error) {
	if v == nil {
		return 0, missing(name)
	}
	if !numerics.IsFinite(*v) {
		return 0, fmt.Errorf("%w: %s is not finite", numerics.ErrInvalidInput, name)
	}
	return *v, nil
}

func (p Params) function() (numerics.Func, error) {
	if p.Equation == "" {
		return nil, missing("equation")
	}
	return expression.Compile(p.Equation)
}

func (p Params) derivative() (numerics.Func, error) {
	if p.Derivative == "" {
		return nil, nil
	}
	df, err := expression.Compile(p.Derivative)
	if err != nil {
		return nil, fmt.Errorf("derivative: %w", err)
	}
	return df, nil
}

func (p Params) interval() (float64, float64, error) {
	a, err := required("a", p.A)
	if err != nil {
		return 0, 0, err
	}
	b, err := required("b", p.B)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (p Params) targets() []float64 {
	if len(p.Targets) == 0 && p.Target != nil {
		return []float64{*p.Target}
	}
	return p.Targets
}
