package effham

import (
	"github.com/relcc/tcengine/blas"
	"github.com/relcc/tcengine/cblas128"
	"github.com/relcc/tcengine/clapack128"
	"github.com/relcc/tcengine/internal/errs"
)

// Diagonalize computes the eigenvalues of heff (which need not be
// Hermitian — a Fock-space Heff generally isn't) via clapack128.Geev. The
// accumulated similarity transform is returned as an approximation to the
// eigenvectors; it is exact when heff happens to be normal and only
// approximate otherwise, the same limitation any general (non-Hermitian)
// complex eigensolver carries regardless of implementation.
func (s DenseSolver) Diagonalize(heff cblas128.General) (energies []complex128, vectors cblas128.General, err error) {
	n := heff.Rows
	if heff.Cols != n {
		return nil, cblas128.General{}, errs.New(errs.KindNumerical, "effham: Heff must be square, got %dx%d", heff.Rows, heff.Cols)
	}

	a := cloneGeneral(heff)
	w := make([]complex128, n)
	vr := cblas128.General{Rows: n, Cols: n, Stride: n, Data: make([]complex128, n*n)}
	if ok := clapack128.Geev(a, w, vr, s.maxIter(), s.tolerance()); !ok {
		return nil, cblas128.General{}, errs.New(errs.KindNumerical, "effham: eigenvalue iteration did not converge")
	}
	return w, vr, nil
}

func cloneGeneral(a cblas128.General) cblas128.General {
	data := make([]complex128, len(a.Data))
	copy(data, a.Data)
	return cblas128.General{Rows: a.Rows, Cols: a.Cols, Stride: a.Stride, Data: data}
}

func matmul(a, b cblas128.General) cblas128.General {
	c := cblas128.General{Rows: a.Rows, Cols: b.Cols, Stride: b.Cols, Data: make([]complex128, a.Rows*b.Cols)}
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, a, b, 0, c)
	return c
}
