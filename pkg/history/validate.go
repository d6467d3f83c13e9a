package history

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tb0hdan/numlab/pkg/methods"
	"github.com/tb0hdan/numlab/pkg/models"
	"github.com/tb0hdan/numlab/pkg/numerics"
)

// ValidationErrors maps a request field to what is wrong with it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// checked is the request after coercion; validator runs on it.
type checked struct {
	Method   string   `json:"method" validate:"omitempty,method"`
	Equation string   `json:"equation" validate:"required,max=1024"`
	A        *float64 `json:"a" validate:"required"`
	B        *float64 `json:"b" validate:"required"`
	Epsilon  *float64 `json:"epsilon" validate:"required,gt=0"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation("method", func(fl validator.FieldLevel) bool {
		return methods.Solvable(fl.Field().String())
	})
	return v
}

// Validate coerces the request into a record, or reports every invalid field.
func (r SaveRequest) Validate() (*models.ComputationRecord, error) {
	return r.validate(defaultValidator)
}

var defaultValidator = newValidator()

func (r SaveRequest) validate(v *validator.Validate) (*models.ComputationRecord, error) {
	problems := ValidationErrors{}

	equation := strings.TrimSpace(r.Equation)
	if equation == "" {
		equation = strings.TrimSpace(r.Eq)
	}

	c := checked{Method: strings.TrimSpace(r.Method), Equation: equation}
	c.A = coerce("a", r.A, problems)
	c.B = coerce("b", r.B, problems)
	c.Epsilon = coerce("epsilon", r.Epsilon, problems)

	if err := v.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		for _, fe := range fieldErrs {
			if _, seen := problems[fe.Field()]; seen {
				continue
			}
			problems[fe.Field()] = message(fe)
		}
	}
	if len(problems) > 0 {
		return nil, problems
	}

	return &models.ComputationRecord{
		Method:   c.Method,
		Equation: c.Equation,
		A:        *c.A,
		B:        *c.B,
		Epsilon:  *c.Epsilon,
	}, nil
}

func coerce(field string, n Number, problems ValidationErrors) *float64 {
	switch {
	case !n.Set:
		return nil
	case !n.Valid:
		problems[field] = "must be a number"
		return nil
	case !numerics.IsFinite(n.Value):
		problems[field] = "must be a finite number"
		return nil
	}
	v := n.Value
	return &v
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "method":
		return "is not a known method"
	default:
		return "is invalid"
	}
}
