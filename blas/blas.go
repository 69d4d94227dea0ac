// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blas carries the small subset of the BLAS parameter vocabulary
// that the tensor engine's contraction kernel needs: transpose flags and
// the two Level 3 entry points (Dgemm, Zgemm) on which block-wise
// contraction is built. The full BLAS API surface (Level 1/2, banded and
// packed storage, single precision) is not reproduced — nothing in this
// module calls it.
package blas

// Transpose is used to specify the transposition operation for a routine.
type Transpose int

const (
	NoTrans Transpose = 111 + iota
	Trans
	ConjTrans
)

// Float64 implements the double precision real BLAS routines used here.
type Float64 interface {
	Dgemm(tA, tB Transpose, m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int)
}

// Complex128 implements the double precision complex BLAS routines used here.
type Complex128 interface {
	Zgemm(tA, tB Transpose, m, n, k int, alpha complex128, a []complex128, lda int, b []complex128, ldb int, beta complex128, c []complex128, ldc int)
}
