// Package effham defines the effective-Hamiltonian collaborator contract:
// building a Fock-space effective Hamiltonian matrix from converged
// coupled-cluster amplitudes and diagonalizing it to recover target-state
// energies. Property and density post-processing on the resulting
// eigenvectors is out of scope; this stays a narrow contract plus one
// reference solver.
package effham

import (
	"github.com/relcc/tcengine/cblas128"
)

// Solver is the effective-Hamiltonian collaborator: build the Heff matrix
// from a model-space contribution function, then diagonalize it.
type Solver interface {
	BuildHeff(dim int, contribution func(p, q int) complex128) cblas128.General
	Diagonalize(heff cblas128.General) (energies []complex128, vectors cblas128.General, err error)
}

// DenseSolver is the reference Solver: BuildHeff is a direct dense fill,
// Invert and Diagonalize are backed by the adapted clapack128.Getrf/
// Getri/Geev entry points (see lapack/native, a from-scratch Hessenberg
// plus shifted-QR implementation standing in for a vendor LAPACK, since
// this pack carries no native LAPACK binding to call out to; documented
// in DESIGN.md).
type DenseSolver struct {
	// MaxIter bounds the eigenvalue iteration; zero selects a built-in default.
	MaxIter int
	// Tolerance is the subdiagonal deflation threshold; zero selects a
	// built-in default.
	Tolerance float64
}

func (s DenseSolver) maxIter() int {
	if s.MaxIter > 0 {
		return s.MaxIter
	}
	return 500
}

func (s DenseSolver) tolerance() float64 {
	if s.Tolerance > 0 {
		return s.Tolerance
	}
	return 1e-10
}

// BuildHeff fills an dim x dim effective Hamiltonian by calling
// contribution for every matrix element, row-major to match
// cblas128.General's storage convention.
func (s DenseSolver) BuildHeff(dim int, contribution func(p, q int) complex128) cblas128.General {
	data := make([]complex128, dim*dim)
	for p := 0; p < dim; p++ {
		for q := 0; q < dim; q++ {
			data[p*dim+q] = contribution(p, q)
		}
	}
	return cblas128.General{Rows: dim, Cols: dim, Stride: dim, Data: data}
}
