package nurbs

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/alexozer/nurbs/geom"
)

// LinearSolver solves the dense system A·X = B for X. Implementations must
// report singular or numerically ill-conditioned matrices with an error
// wrapping ErrSingularSystem.
type LinearSolver interface {
	Solve(a, b *mat.Dense) (*mat.Dense, error)
}

// LUSolver solves by LU decomposition with partial pivoting. It is the
// default solver.
type LUSolver struct{}

func (LUSolver) Solve(a, b *mat.Dense) (*mat.Dense, error) {
	var lu mat.LU
	lu.Factorize(a)

	var x mat.Dense
	if err := lu.SolveTo(&x, false, b); err != nil {
		return nil, singular(err)
	}
	return &x, nil
}

// QRSolver solves by QR decomposition. It is slower than LUSolver and
// somewhat more stable on badly scaled systems.
type QRSolver struct{}

func (QRSolver) Solve(a, b *mat.Dense) (*mat.Dense, error) {
	var qr mat.QR
	qr.Factorize(a)

	var x mat.Dense
	if err := qr.SolveTo(&x, false, b); err != nil {
		return nil, singular(err)
	}
	return &x, nil
}

func singular(err error) error {
	var cond mat.Condition
	if errors.As(err, &cond) {
		return fmt.Errorf("%w: condition number %g", ErrSingularSystem, float64(cond))
	}
	return fmt.Errorf("%w: %v", ErrSingularSystem, err)
}

// solveRows solves a·X = rows, where a is an n×n matrix in row-major order
// and rows holds n right hand side vectors of equal dimension.
func solveRows[T geom.Float](solver LinearSolver, a []T, rows [][]T) ([][]T, error) {
	n := len(rows)
	if n == 0 || len(a) != n*n {
		return nil, fmt.Errorf("%w: empty system", ErrSingularSystem)
	}
	dim := len(rows[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-dimensional rows", ErrSingularSystem)
	}

	aData := make([]float64, n*n)
	for i, v := range a {
		aData[i] = float64(v)
	}
	bData := make([]float64, 0, n*dim)
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: row %d has dimension %d, expected %d", ErrSingularSystem, i, len(row), dim)
		}
		for _, v := range row {
			bData = append(bData, float64(v))
		}
	}

	x, err := solver.Solve(mat.NewDense(n, n, aData), mat.NewDense(n, dim, bData))
	if err != nil {
		return nil, err
	}
	if r, c := x.Dims(); r != n || c != dim {
		return nil, fmt.Errorf("%w: solver returned a %d×%d solution, expected %d×%d", ErrSingularSystem, r, c, n, dim)
	}

	out := make([][]T, n)
	for i := range out {
		out[i] = make([]T, dim)
		for j := range out[i] {
			v := x.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non-finite solution", ErrSingularSystem)
			}
			out[i][j] = T(v)
		}
	}
	return out, nil
}
