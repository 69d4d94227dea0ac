// Copyright ©2021 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clapack128 provides a simple interface to the complex128 LAPACK
// API needed by the effective-Hamiltonian solver.
package clapack128

import (
	"github.com/relcc/tcengine/cblas128"
	"github.com/relcc/tcengine/lapack"
	"github.com/relcc/tcengine/lapack/native"
)

var clapack128 lapack.Complex128 = native.Implementation{}

// Use sets the LAPACK complex128 implementation to be used by subsequent calls.
// The default implementation is native.Implementation.
func Use(l lapack.Complex128) {
	clapack128 = l
}

// Implementation returns the current LAPACK complex128 implementation.
func Implementation() lapack.Complex128 {
	return clapack128
}

// Getrf computes the LU factorization of the square matrix a with partial
// pivoting. a is overwritten with L (unit lower, diagonal implicit) and U
// (upper, including diagonal); ipiv must have length a.Rows and records
// the row interchange performed at each pivot step. It reports whether a
// is nonsingular.
func Getrf(a cblas128.General, ipiv []int) bool {
	return clapack128.Zgetrf(a.Rows, a.Cols, a.Data, a.Stride, ipiv)
}

// Getri computes the inverse of the matrix whose LU factorization (from
// Getrf) is in a and ipiv. It reports whether the matrix was nonsingular.
func Getri(a cblas128.General, ipiv []int) (cblas128.General, bool) {
	data, ok := clapack128.Zgetri(a.Rows, a.Data, a.Stride, ipiv)
	if !ok {
		return cblas128.General{}, false
	}
	return cblas128.General{Rows: a.Rows, Cols: a.Rows, Stride: a.Rows, Data: data}, true
}

// Geev computes the eigenvalues of the square matrix a into w (which must
// have length a.Rows) and, into vr, an accumulated similarity transform
// that gives the exact eigenvectors when a is normal and an approximation
// otherwise (see DESIGN.md). a is not modified. maxSweeps bounds the
// internal QR iteration and tol is its deflation tolerance. It reports
// whether the iteration converged.
func Geev(a cblas128.General, w []complex128, vr cblas128.General, maxSweeps int, tol float64) bool {
	return clapack128.Zgeev(a.Rows, a.Data, a.Stride, w, vr.Data, vr.Stride, maxSweeps, tol)
}
