package effham

import (
	"github.com/relcc/tcengine/cblas128"
	"github.com/relcc/tcengine/clapack128"
	"github.com/relcc/tcengine/internal/errs"
)

// Invert computes the complex matrix inverse of a square matrix via
// clapack128.Getrf/Getri: LU factorization with partial pivoting followed
// by a solve against the identity, the same LU-based route LAPACK's
// Zgetrf/Zgetri pair takes. It is used to normalize a model-space
// effective Hamiltonian built over a non-orthogonal basis: Heff = S^-1 H.
func Invert(a cblas128.General) (cblas128.General, error) {
	n := a.Rows
	if a.Cols != n {
		return cblas128.General{}, errs.New(errs.KindNumerical, "effham: Invert requires a square matrix, got %dx%d", a.Rows, a.Cols)
	}

	lu := cloneGeneral(a)
	ipiv := make([]int, n)
	if ok := clapack128.Getrf(lu, ipiv); !ok {
		return cblas128.General{}, errs.New(errs.KindNumerical, "effham: matrix is singular")
	}
	inv, ok := clapack128.Getri(lu, ipiv)
	if !ok {
		return cblas128.General{}, errs.New(errs.KindNumerical, "effham: matrix is singular")
	}
	return inv, nil
}
