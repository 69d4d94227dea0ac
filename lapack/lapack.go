// Copyright ©2015 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lapack carries the narrow LAPACK parameter vocabulary the
// effective-Hamiltonian solver needs: LU factorization/inversion and a
// general complex eigendecomposition. The full LAPACK surface (banded and
// packed storage, real Schur form, single precision, ...) is not
// reproduced — nothing in this module calls it.
package lapack

// Complex128 implements the double precision complex LAPACK routines used here.
type Complex128 interface {
	// Zgetrf computes the LU factorization of the m×n matrix a with
	// partial pivoting. ipiv must have length min(m,n) and records the
	// row interchange performed at each pivot step. It reports whether a
	// is nonsingular.
	Zgetrf(m, n int, a []complex128, lda int, ipiv []int) bool

	// Zgetri computes the inverse of the n×n matrix whose LU factorization
	// (as computed by Zgetrf) is in a and ipiv. It reports whether the
	// matrix was nonsingular.
	Zgetri(n int, a []complex128, lda int, ipiv []int) ([]complex128, bool)

	// Zgeev computes the eigenvalues of the n×n matrix a into w, and an
	// accumulated similarity transform into vr. maxSweeps bounds the QR
	// iteration and tol is the subdiagonal deflation tolerance. It
	// reports whether the iteration converged.
	Zgeev(n int, a []complex128, lda int, w []complex128, vr []complex128, ldvr int, maxSweeps int, tol float64) bool
}
