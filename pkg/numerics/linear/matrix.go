// Package linear solves systems of linear algebraic equations Ax = b with
// direct (Cramer, Gauss, Gauss-Jordan, inversion, LU, Cholesky) and
// iterative (Jacobi, Gauss-Seidel, conjugate gradient) methods.
package linear

import (
	"fmt"
	"math"

	"github.com/tb0hdan/numlab/pkg/numerics"
)

// singularTolerance is the pivot magnitude treated as zero.
const singularTolerance = 1e-12

// Matrix is a dense row-major matrix.
type Matrix [][]float64

// Vector is a dense column vector.
type Vector []float64

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Identity returns the n x n identity matrix.
func Identity(n int) Matrix {
	out := make(Matrix, n)
	for i := range out {
		out[i] = make([]float64, n)
		out[i][i] = 1
	}
	return out
}

// MulVec returns m * v.
func (m Matrix) MulVec(v Vector) Vector {
	out := make(Vector, len(m))
	for i, row := range m {
		var sum float64
		for j, a := range row {
			sum += a * v[j]
		}
		out[i] = sum
	}
	return out
}

// Mul returns m * other.
func (m Matrix) Mul(other Matrix) Matrix {
	rows, inner := len(m), len(other)
	cols := 0
	if inner > 0 {
		cols = len(other[0])
	}
	out := make(Matrix, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			var sum float64
			for k := 0; k < inner; k++ {
				sum += m[i][k] * other[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// Transpose returns the transpose of m.
func (m Matrix) Transpose() Matrix {
	if len(m) == 0 {
		return Matrix{}
	}
	out := make(Matrix, len(m[0]))
	for j := range out {
		out[j] = make([]float64, len(m))
		for i := range m {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// IsSymmetric reports whether m equals its transpose within tol.
func (m Matrix) IsSymmetric(tol float64) bool {
	for i := range m {
		for j := i + 1; j < len(m); j++ {
			if math.Abs(m[i][j]-m[j][i]) > tol {
				return false
			}
		}
	}
	return true
}

func dot(a, b Vector) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func validateSquare(a Matrix) (int, error) {
	n := len(a)
	if n == 0 {
		return 0, fmt.Errorf("%w: matrix is empty", numerics.ErrInvalidInput)
	}
	for i, row := range a {
		if len(row) != n {
			return 0, fmt.Errorf("%w: row %d has %d columns, want %d", numerics.ErrDimensionMismatch, i, len(row), n)
		}
		for j, v := range row {
			if !numerics.IsFinite(v) {
				return 0, fmt.Errorf("%w: a[%d][%d] is not finite", numerics.ErrInvalidInput, i, j)
			}
		}
	}
	return n, nil
}

func validateSystem(a Matrix, b Vector) (int, error) {
	n, err := validateSquare(a)
	if err != nil {
		return 0, err
	}
	if len(b) != n {
		return 0, fmt.Errorf("%w: vector has %d entries, want %d", numerics.ErrDimensionMismatch, len(b), n)
	}
	for i, v := range b {
		if !numerics.IsFinite(v) {
			return 0, fmt.Errorf("%w: b[%d] is not finite", numerics.ErrInvalidInput, i)
		}
	}
	return n, nil
}

// Determinant computes det(a) by elimination with partial pivoting.
func Determinant(a Matrix) (float64, error) {
	n, err := validateSquare(a)
	if err != nil {
		return 0, err
	}
	m := a.Clone()
	det := 1.0
	for col := 0; col < n; col++ {
		pivot := pivotRow(m, col)
		if math.Abs(m[pivot][col]) < singularTolerance {
			return 0, nil
		}
		if pivot != col {
			m[pivot], m[col] = m[col], m[pivot]
			det = -det
		}
		det *= m[col][col]
		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c < n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}
	return det, nil
}

func pivotRow(m Matrix, col int) int {
	best := col
	for r := col + 1; r < len(m); r++ {
		if math.Abs(m[r][col]) > math.Abs(m[best][col]) {
			best = r
		}
	}
	return best
}

func augment(a Matrix, b Vector) Matrix {
	out := make(Matrix, len(a))
	for i, row := range a {
		out[i] = append(append(make([]float64, 0, len(row)+1), row...), b[i])
	}
	return out
}
