// Package methods is the catalog of numerical methods the lab exposes and the
// dispatcher that runs one of them from a loosely typed parameter set.
package methods

import (
	"strings"
)

type Category string

const (
	CategoryHome          Category = "home"
	CategoryRoot          Category = "root"
	CategoryLinear        Category = "linear"
	CategoryInterpolation Category = "interpolation"
	CategoryRegression    Category = "regression"
	CategoryIntegration   Category = "integration"
)

// Method is one page of the lab.
type Method struct {
	Slug     string   `json:"slug"`
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// Slugs of every solvable method.
const (
	Bisection          = "bisection"
	Graphical          = "graphical"
	FalsePosition      = "false-position"
	OnePoint           = "one-point"
	NewtonRaphson      = "newton-raphson"
	Secant             = "secant"
	Cramer             = "cramer"
	GaussElimination   = "gauss-elimination"
	GaussJordan        = "gauss-jordan"
	MatrixInversion    = "matrix-inversion"
	LU                 = "lu"
	Cholesky           = "cholesky"
	Jacobi             = "jacobi"
	GaussSeidel        = "gauss-seidel"
	ConjugateGradient  = "conjugate-gradient"
	NewtonDivided      = "newton-divided"
	Lagrange           = "lagrange"
	Spline             = "spline"
	PolynomialRegress  = "linear-polynomial-regression"
	MultipleRegression = "multiple-regression"
	Trapezoidal        = "trapezoidal"
	Simpson            = "simpson"
	Differentiation    = "differentiation"
	Romberg            = "romberg"
	GaussIntegration   = "gauss-integration"
)

const home = "home"

var catalog = []Method{
	{Slug: home, Path: "/", Name: "Home", Category: CategoryHome},
	{Slug: Bisection, Path: "/bisection", Name: "Bisection", Category: CategoryRoot},
	{Slug: Graphical, Path: "/Graphical", Name: "Graphical", Category: CategoryRoot},
	{Slug: FalsePosition, Path: "/False-Position", Name: "False Position", Category: CategoryRoot},
	{Slug: OnePoint, Path: "/One-Point", Name: "One-Point Iteration", Category: CategoryRoot},
	{Slug: NewtonRaphson, Path: "/NewtonRaphson", Name: "Newton-Raphson", Category: CategoryRoot},
	{Slug: Secant, Path: "/Secant", Name: "Secant", Category: CategoryRoot},
	{Slug: Cramer, Path: "/Cramer", Name: "Cramer's Rule", Category: CategoryLinear},
	{Slug: GaussElimination, Path: "/GaussElimination", Name: "Gauss Elimination", Category: CategoryLinear},
	{Slug: GaussJordan, Path: "/GaussJordan", Name: "Gauss-Jordan", Category: CategoryLinear},
	{Slug: MatrixInversion, Path: "/MatrixInversion", Name: "Matrix Inversion", Category: CategoryLinear},
	{Slug: LU, Path: "/LU", Name: "LU Decomposition", Category: CategoryLinear},
	{Slug: Cholesky, Path: "/Cholesky", Name: "Cholesky Decomposition", Category: CategoryLinear},
	{Slug: Jacobi, Path: "/Jacobi", Name: "Jacobi Iteration", Category: CategoryLinear},
	{Slug: GaussSeidel, Path: "/GaussSeidel", Name: "Gauss-Seidel Iteration", Category: CategoryLinear},
	{Slug: ConjugateGradient, Path: "/ConjugateGradient", Name: "Conjugate Gradient", Category: CategoryLinear},
	{Slug: NewtonDivided, Path: "/NewtonDivided", Name: "Newton's Divided Differences", Category: CategoryInterpolation},
	{Slug: Lagrange, Path: "/Lagrange", Name: "Lagrange Polynomial", Category: CategoryInterpolation},
	{Slug: Spline, Path: "/Spline", Name: "Spline", Category: CategoryInterpolation},
	{Slug: PolynomialRegress, Path: "/Linear_Polynomial_Regress", Name: "Linear / Polynomial Regression", Category: CategoryRegression},
	{Slug: MultipleRegression, Path: "/MultipleRegression", Name: "Multiple Linear Regression", Category: CategoryRegression},
	{Slug: Trapezoidal, Path: "/Trapezoidal", Name: "Trapezoidal Rule", Category: CategoryIntegration},
	{Slug: Simpson, Path: "/Simpson", Name: "Simpson's Rule", Category: CategoryIntegration},
	{Slug: Differentiation, Path: "/Differentiation", Name: "Numerical Differentiation", Category: CategoryIntegration},
	{Slug: Romberg, Path: "/Romberg", Name: "Romberg Integration", Category: CategoryIntegration},
	{Slug: GaussIntegration, Path: "/GaussIntegration", Name: "Gauss-Legendre Integration", Category: CategoryIntegration},
}

// Catalog returns every route in display order, home first.
func Catalog() []Method {
	return append([]Method(nil), catalog...)
}

// Lookup resolves a slug or route path, ignoring case and a leading slash.
func Lookup(key string) (Method, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	switch k {
	case "":
		return Method{}, false
	case "/":
		return catalog[0], true
	}
	k = strings.TrimPrefix(k, "/")
	for _, m := range catalog {
		if m.Slug == k || strings.ToLower(strings.TrimPrefix(m.Path, "/")) == k {
			return m, true
		}
	}
	return Method{}, false
}

// Solvable reports whether slug names a method Solve can run.
func Solvable(slug string) bool {
	_, ok := solvers[slug]
	return ok
}
