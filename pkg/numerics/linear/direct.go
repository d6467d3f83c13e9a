package linear

import (
	"fmt"
	"math"

	"github.com/tb0hdan/numlab/pkg/numerics"
)

// CramerResult carries det(A) and the determinants of each column-substituted matrix.
type CramerResult struct {
	X           Vector    `json:"x"`
	Determinant float64   `json:"determinant"`
	ColumnDets  []float64 `json:"columnDeterminants"`
}

// EliminationResult carries the solution and the reduced augmented matrix.
type EliminationResult struct {
	X         Vector `json:"x"`
	Augmented Matrix `json:"augmented"`
}

// InversionResult carries A^-1 and, when b was given, x = A^-1 b.
type InversionResult struct {
	Inverse Matrix `json:"inverse"`
	X       Vector `json:"x,omitempty"`
}

// LUResult carries the Doolittle factors and the forward/back substitution vectors.
type LUResult struct {
	L Matrix `json:"l"`
	U Matrix `json:"u"`
	Y Vector `json:"y"`
	X Vector `json:"x"`
}

// CholeskyResult carries the lower factor L with A = L L^T.
type CholeskyResult struct {
	L Matrix `json:"l"`
	Y Vector `json:"y"`
	X Vector `json:"x"`
}

func Cramer(a Matrix, b Vector) (CramerResult, error) {
	n, err := validateSystem(a, b)
	if err != nil {
		return CramerResult{}, err
	}
	det, err := Determinant(a)
	if err != nil {
		return CramerResult{}, err
	}
	if math.Abs(det) < singularTolerance {
		return CramerResult{}, numerics.ErrSingularMatrix
	}

	res := CramerResult{X: make(Vector, n), Determinant: det, ColumnDets: make([]float64, n)}
	for col := 0; col < n; col++ {
		m := a.Clone()
		for row := 0; row < n; row++ {
			m[row][col] = b[row]
		}
		d, err := Determinant(m)
		if err != nil {
			return CramerResult{}, err
		}
		res.ColumnDets[col] = d
		res.X[col] = d / det
	}
	return res, nil
}

// GaussElimination reduces [A|b] to upper triangular form with partial pivoting
// and back-substitutes.
func GaussElimination(a Matrix, b Vector) (EliminationResult, error) {
	n, err := validateSystem(a, b)
	if err != nil {
		return EliminationResult{}, err
	}
	m := augment(a, b)

	for col := 0; col < n; col++ {
		pivot := pivotRow(m, col)
		if math.Abs(m[pivot][col]) < singularTolerance {
			return EliminationResult{}, fmt.Errorf("%w: zero pivot in column %d", numerics.ErrSingularMatrix, col)
		}
		m[pivot], m[col] = m[col], m[pivot]
		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}

	x := make(Vector, n)
	for i := n - 1; i >= 0; i-- {
		sum := m[i][n]
		for j := i + 1; j < n; j++ {
			sum -= m[i][j] * x[j]
		}
		x[i] = sum / m[i][i]
	}
	return EliminationResult{X: x, Augmented: m}, nil
}

// GaussJordan reduces [A|b] to [I|x].
func GaussJordan(a Matrix, b Vector) (EliminationResult, error) {
	n, err := validateSystem(a, b)
	if err != nil {
		return EliminationResult{}, err
	}
	m := augment(a, b)
	if err := reduce(m, n); err != nil {
		return EliminationResult{}, err
	}

	x := make(Vector, n)
	for i := range x {
		x[i] = m[i][n]
	}
	return EliminationResult{X: x, Augmented: m}, nil
}

// reduce runs Gauss-Jordan elimination on the first n columns of m in place.
func reduce(m Matrix, n int) error {
	width := len(m[0])
	for col := 0; col < n; col++ {
		pivot := pivotRow(m, col)
		if math.Abs(m[pivot][col]) < singularTolerance {
			return fmt.Errorf("%w: zero pivot in column %d", numerics.ErrSingularMatrix, col)
		}
		m[pivot], m[col] = m[col], m[pivot]

		p := m[col][col]
		for c := 0; c < width; c++ {
			m[col][c] /= p
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := m[r][col]
			if factor == 0 {
				continue
			}
			for c := 0; c < width; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}
	return nil
}

// MatrixInversion computes A^-1 by Gauss-Jordan on [A|I]. b may be nil.
func MatrixInversion(a Matrix, b Vector) (InversionResult, error) {
	var (
		n   int
		err error
	)
	if b == nil {
		n, err = validateSquare(a)
	} else {
		n, err = validateSystem(a, b)
	}
	if err != nil {
		return InversionResult{}, err
	}

	m := make(Matrix, n)
	id := Identity(n)
	for i := range a {
		m[i] = append(append(make([]float64, 0, 2*n), a[i]...), id[i]...)
	}
	if err := reduce(m, n); err != nil {
		return InversionResult{}, err
	}

	inv := make(Matrix, n)
	for i := range m {
		inv[i] = append([]float64(nil), m[i][n:]...)
	}
	res := InversionResult{Inverse: inv}
	if b != nil {
		res.X = inv.MulVec(b)
	}
	return res, nil
}

// LU factors A = LU with a unit lower triangular L (Doolittle) and solves
// Ly = b, Ux = y.
func LU(a Matrix, b Vector) (LUResult, error) {
	n, err := validateSystem(a, b)
	if err != nil {
		return LUResult{}, err
	}

	l := Identity(n)
	u := make(Matrix, n)
	for i := range u {
		u[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for k := i; k < n; k++ {
			var sum float64
			for j := 0; j < i; j++ {
				sum += l[i][j] * u[j][k]
			}
			u[i][k] = a[i][k] - sum
		}
		if math.Abs(u[i][i]) < singularTolerance {
			return LUResult{}, fmt.Errorf("%w: zero pivot u[%d][%d]", numerics.ErrSingularMatrix, i, i)
		}
		for k := i + 1; k < n; k++ {
			var sum float64
			for j := 0; j < i; j++ {
				sum += l[k][j] * u[j][i]
			}
			l[k][i] = (a[k][i] - sum) / u[i][i]
		}
	}

	y := forwardSubstitute(l, b)
	x := backSubstitute(u, y)
	return LUResult{L: l, U: u, Y: y, X: x}, nil
}

// Cholesky factors a symmetric positive definite A = L L^T and solves for x.
func Cholesky(a Matrix, b Vector) (CholeskyResult, error) {
	n, err := validateSystem(a, b)
	if err != nil {
		return CholeskyResult{}, err
	}
	if !a.IsSymmetric(1e-9) {
		return CholeskyResult{}, numerics.ErrNotSymmetricPositiveDefinite
	}

	l := make(Matrix, n)
	for i := range l {
		l[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			var sum float64
			for k := 0; k < j; k++ {
				sum += l[i][k] * l[j][k]
			}
			if i == j {
				d := a[i][i] - sum
				if d <= 0 {
					return CholeskyResult{}, fmt.Errorf("%w: non-positive pivot at row %d", numerics.ErrNotSymmetricPositiveDefinite, i)
				}
				l[i][i] = math.Sqrt(d)
			} else {
				l[i][j] = (a[i][j] - sum) / l[j][j]
			}
		}
	}

	y := forwardSubstitute(l, b)
	x := backSubstitute(l.Transpose(), y)
	return CholeskyResult{L: l, Y: y, X: x}, nil
}

func forwardSubstitute(l Matrix, b Vector) Vector {
	n := len(b)
	y := make(Vector, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for j := 0; j < i; j++ {
			sum -= l[i][j] * y[j]
		}
		y[i] = sum / l[i][i]
	}
	return y
}

func backSubstitute(u Matrix, y Vector) Vector {
	n := len(y)
	x := make(Vector, n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for j := i + 1; j < n; j++ {
			sum -= u[i][j] * x[j]
		}
		x[i] = sum / u[i][i]
	}
	return x
}
