// Package expression compiles single-variable equations such as "x^2-4" or
// "e^(-x) - x" into callable functions.
package expression

import (
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/tb0hdan/numlab/pkg/numerics"
)

// Variable is the only free identifier an equation may reference.
const Variable = "x"

// Func evaluates a compiled equation at x.
type Func = numerics.Func

type unary func(float64) float64

// abs, ceil and floor come from the expr builtins.
var functions = map[string]unary{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"exp":   math.Exp,
	"log":   math.Log,
	"ln":    math.Log,
	"log10": math.Log10,
	"log2":  math.Log2,
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
}

func baseEnv(x float64) map[string]any {
	return map[string]any{
		Variable: x,
		"pi":     math.Pi,
		"e":      math.E,
	}
}

func options() []expr.Option {
	opts := []expr.Option{expr.Env(baseEnv(0))}
	for name, fn := range functions {
		f := fn
		opts = append(opts, expr.Function(name, func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(params))
			}
			v, err := toFloat(params[0])
			if err != nil {
				return nil, err
			}
			return f(v), nil
		}))
	}
	return opts
}

// Compile parses equation once and returns a function that evaluates it.
// Non-finite results are reported as errors.
func Compile(equation string) (Func, error) {
	src := strings.TrimSpace(equation)
	if src == "" {
		return nil, fmt.Errorf("%w: empty equation", numerics.ErrInvalidInput)
	}

	program, err := expr.Compile(src, options()...)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse %q: %v", numerics.ErrInvalidInput, src, err)
	}

	return func(x float64) (float64, error) {
		return run(program, src, x)
	}, nil
}

// MustCompile is Compile for equations known to be valid.
func MustCompile(equation string) Func {
	f, err := Compile(equation)
	if err != nil {
		panic(err)
	}
	return f
}

// Eval compiles and evaluates equation at x in a single call.
func Eval(equation string, x float64) (float64, error) {
	f, err := Compile(equation)
	if err != nil {
		return 0, err
	}
	return f(x)
}

func run(program *vm.Program, src string, x float64) (float64, error) {
	out, err := expr.Run(program, baseEnv(x))
	if err != nil {
		return 0, fmt.Errorf("%w: evaluating %q at x=%g: %v", numerics.ErrInvalidInput, src, x, err)
	}
	v, err := toFloat(out)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", numerics.ErrInvalidInput, src, err)
	}
	if !numerics.IsFinite(v) {
		return 0, fmt.Errorf("%w: %q is not finite at x=%g", numerics.ErrInvalidInput, src, x)
	}
	return v, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
