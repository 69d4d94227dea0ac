// Copyright ©2019 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package native is a pure-Go row-major implementation of the two Level 3
// BLAS entry points the contraction kernel needs. It plays the role the
// cgo/external-BLAS implementations play in a production build: callers
// that want a vendor BLAS (MKL, OpenBLAS) swap it in behind the same
// blas.Float64/blas.Complex128 interfaces via blas64.Use/cblas128.Use.
package native

import (
	"math/cmplx"

	"github.com/relcc/tcengine/blas"
)

// Implementation is the default, pure-Go BLAS implementation.
type Implementation struct{}

var (
	_ blas.Float64   = Implementation{}
	_ blas.Complex128 = Implementation{}
)

const (
	badTranspose = "native: illegal transpose"
	mLT0         = "native: m < 0"
	nLT0         = "native: n < 0"
	kLT0         = "native: k < 0"
	badLdA       = "native: index of a out of range"
	badLdB       = "native: index of b out of range"
	badLdC       = "native: index of c out of range"
	shortA       = "native: insufficient length of a"
	shortB       = "native: insufficient length of b"
	shortC       = "native: insufficient length of c"
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Dgemm performs C = alpha*op(A)*op(B) + beta*C for op(X) in {X, X^T}.
// Row-major, matching the storage convention of blas64.General.
func (Implementation) Dgemm(tA, tB blas.Transpose, m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) {
	checkGemmDims(tA, tB, m, n, k, len(a), lda, len(b), ldb, len(c), ldc)
	if m == 0 || n == 0 {
		return
	}
	if (alpha == 0 || k == 0) && beta == 1 {
		return
	}
	if alpha == 0 {
		scaleGeneralFloat64(m, n, beta, c, ldc)
		return
	}

	switch tA {
	case blas.NoTrans:
		switch tB {
		case blas.NoTrans:
			// C = alpha*A*B + beta*C.
			for i := 0; i < m; i++ {
				scaleRowFloat64(n, beta, c[i*ldc:i*ldc+n])
				for l := 0; l < k; l++ {
					tmp := alpha * a[i*lda+l]
					for j := 0; j < n; j++ {
						c[i*ldc+j] += tmp * b[l*ldb+j]
					}
				}
			}
		default:
			// C = alpha*A*B^T + beta*C.
			for i := 0; i < m; i++ {
				scaleRowFloat64(n, beta, c[i*ldc:i*ldc+n])
				for l := 0; l < k; l++ {
					tmp := alpha * a[i*lda+l]
					for j := 0; j < n; j++ {
						c[i*ldc+j] += tmp * b[j*ldb+l]
					}
				}
			}
		}
	default:
		switch tB {
		case blas.NoTrans:
			// C = alpha*A^T*B + beta*C.
			for i := 0; i < m; i++ {
				for j := 0; j < n; j++ {
					var tmp float64
					for l := 0; l < k; l++ {
						tmp += a[l*lda+i] * b[l*ldb+j]
					}
					c[i*ldc+j] = addScaledFloat64(beta, c[i*ldc+j], alpha, tmp)
				}
			}
		default:
			// C = alpha*A^T*B^T + beta*C.
			for i := 0; i < m; i++ {
				for j := 0; j < n; j++ {
					var tmp float64
					for l := 0; l < k; l++ {
						tmp += a[l*lda+i] * b[j*ldb+l]
					}
					c[i*ldc+j] = addScaledFloat64(beta, c[i*ldc+j], alpha, tmp)
				}
			}
		}
	}
}

func addScaledFloat64(beta, c, alpha, tmp float64) float64 {
	if beta == 0 {
		return alpha * tmp
	}
	return alpha*tmp + beta*c
}

func scaleRowFloat64(n int, beta float64, row []float64) {
	switch beta {
	case 0:
		for j := range row {
			row[j] = 0
		}
	case 1:
	default:
		for j := range row {
			row[j] *= beta
		}
	}
}

func scaleGeneralFloat64(m, n int, beta float64, c []float64, ldc int) {
	if beta == 1 {
		return
	}
	for i := 0; i < m; i++ {
		scaleRowFloat64(n, beta, c[i*ldc:i*ldc+n])
	}
}

// Zgemm performs one of the matrix-matrix operations
//
//	C = alpha * op(A) * op(B) + beta * C
//
// where op(X) is one of op(X) = X, op(X) = X^T or op(X) = X^H, alpha and
// beta are scalars, and A, B and C are matrices, with op(A) an m×k matrix,
// op(B) a k×n matrix and C an m×n matrix.
func (Implementation) Zgemm(tA, tB blas.Transpose, m, n, k int, alpha complex128, a []complex128, lda int, b []complex128, ldb int, beta complex128, c []complex128, ldc int) {
	switch tA {
	default:
		panic(badTranspose)
	case blas.NoTrans, blas.Trans, blas.ConjTrans:
	}
	switch tB {
	default:
		panic(badTranspose)
	case blas.NoTrans, blas.Trans, blas.ConjTrans:
	}
	switch {
	case m < 0:
		panic(mLT0)
	case n < 0:
		panic(nLT0)
	case k < 0:
		panic(kLT0)
	}
	rowA, colA := m, k
	if tA != blas.NoTrans {
		rowA, colA = k, m
	}
	if lda < max(1, colA) {
		panic(badLdA)
	}
	rowB, colB := k, n
	if tB != blas.NoTrans {
		rowB, colB = n, k
	}
	if ldb < max(1, colB) {
		panic(badLdB)
	}
	if ldc < max(1, n) {
		panic(badLdC)
	}

	if m == 0 || n == 0 {
		return
	}
	if len(a) < (rowA-1)*lda+colA {
		panic(shortA)
	}
	if len(b) < (rowB-1)*ldb+colB {
		panic(shortB)
	}
	if len(c) < (m-1)*ldc+n {
		panic(shortC)
	}
	if (alpha == 0 || k == 0) && beta == 1 {
		return
	}

	if alpha == 0 {
		if beta == 0 {
			for i := 0; i < m; i++ {
				for j := 0; j < n; j++ {
					c[i*ldc+j] = 0
				}
			}
		} else {
			for i := 0; i < m; i++ {
				for j := 0; j < n; j++ {
					c[i*ldc+j] *= beta
				}
			}
		}
		return
	}

	switch tA {
	case blas.NoTrans:
		switch tB {
		case blas.NoTrans:
			// C = alpha*A*B + beta*C.
			for i := 0; i < m; i++ {
				scaleRowComplex128(n, beta, c[i*ldc:i*ldc+n])
				for l := 0; l < k; l++ {
					tmp := alpha * a[i*lda+l]
					for j := 0; j < n; j++ {
						c[i*ldc+j] += tmp * b[l*ldb+j]
					}
				}
			}
		case blas.Trans:
			// C = alpha*A*B^T + beta*C.
			for i := 0; i < m; i++ {
				scaleRowComplex128(n, beta, c[i*ldc:i*ldc+n])
				for l := 0; l < k; l++ {
					tmp := alpha * a[i*lda+l]
					for j := 0; j < n; j++ {
						c[i*ldc+j] += tmp * b[j*ldb+l]
					}
				}
			}
		case blas.ConjTrans:
			// C = alpha*A*B^H + beta*C.
			for i := 0; i < m; i++ {
				scaleRowComplex128(n, beta, c[i*ldc:i*ldc+n])
				for l := 0; l < k; l++ {
					tmp := alpha * a[i*lda+l]
					for j := 0; j < n; j++ {
						c[i*ldc+j] += tmp * cmplx.Conj(b[j*ldb+l])
					}
				}
			}
		}
	case blas.Trans:
		switch tB {
		case blas.NoTrans:
			// C = alpha*A^T*B + beta*C.
			for i := 0; i < m; i++ {
				for j := 0; j < n; j++ {
					var tmp complex128
					for l := 0; l < k; l++ {
						tmp += a[l*lda+i] * b[l*ldb+j]
					}
					c[i*ldc+j] = addScaledComplex128(beta, c[i*ldc+j], alpha, tmp)
				}
			}
		case blas.Trans:
			// C = alpha*A^T*B^T + beta*C.
			for i := 0; i < m; i++ {
				for j := 0; j < n; j++ {
					var tmp complex128
					for l := 0; l < k; l++ {
						tmp += a[l*lda+i] * b[j*ldb+l]
					}
					c[i*ldc+j] = addScaledComplex128(beta, c[i*ldc+j], alpha, tmp)
				}
			}
		case blas.ConjTrans:
			// C = alpha*A^T*B^H + beta*C.
			for i := 0; i < m; i++ {
				for j := 0; j < n; j++ {
					var tmp complex128
					for l := 0; l < k; l++ {
						tmp += a[l*lda+i] * cmplx.Conj(b[j*ldb+l])
					}
					c[i*ldc+j] = addScaledComplex128(beta, c[i*ldc+j], alpha, tmp)
				}
			}
		}
	case blas.ConjTrans:
		switch tB {
		case blas.NoTrans:
			// C = alpha*A^H*B + beta*C.
			for i := 0; i < m; i++ {
				for j := 0; j < n; j++ {
					var tmp complex128
					for l := 0; l < k; l++ {
						tmp += cmplx.Conj(a[l*lda+i]) * b[l*ldb+j]
					}
					c[i*ldc+j] = addScaledComplex128(beta, c[i*ldc+j], alpha, tmp)
				}
			}
		case blas.Trans:
			// C = alpha*A^H*B^T + beta*C.
			for i := 0; i < m; i++ {
				for j := 0; j < n; j++ {
					var tmp complex128
					for l := 0; l < k; l++ {
						tmp += cmplx.Conj(a[l*lda+i]) * b[j*ldb+l]
					}
					c[i*ldc+j] = addScaledComplex128(beta, c[i*ldc+j], alpha, tmp)
				}
			}
		case blas.ConjTrans:
			// C = alpha*A^H*B^H + beta*C.
			for i := 0; i < m; i++ {
				for j := 0; j < n; j++ {
					var tmp complex128
					for l := 0; l < k; l++ {
						tmp += cmplx.Conj(a[l*lda+i]) * cmplx.Conj(b[j*ldb+l])
					}
					c[i*ldc+j] = addScaledComplex128(beta, c[i*ldc+j], alpha, tmp)
				}
			}
		}
	}
}

func addScaledComplex128(beta, c, alpha, tmp complex128) complex128 {
	if beta == 0 {
		return alpha * tmp
	}
	return alpha*tmp + beta*c
}

func scaleRowComplex128(n int, beta complex128, row []complex128) {
	switch beta {
	case 0:
		for j := range row {
			row[j] = 0
		}
	case 1:
	default:
		for j := range row {
			row[j] *= beta
		}
	}
}

func checkGemmDims(tA, tB blas.Transpose, m, n, k, lena, lda, lenb, ldb, lenc, ldc int) {
	switch tA {
	default:
		panic(badTranspose)
	case blas.NoTrans, blas.Trans, blas.ConjTrans:
	}
	switch tB {
	default:
		panic(badTranspose)
	case blas.NoTrans, blas.Trans, blas.ConjTrans:
	}
	switch {
	case m < 0:
		panic(mLT0)
	case n < 0:
		panic(nLT0)
	case k < 0:
		panic(kLT0)
	}
	rowA, colA := m, k
	if tA != blas.NoTrans {
		rowA, colA = k, m
	}
	if lda < max(1, colA) {
		panic(badLdA)
	}
	rowB, colB := k, n
	if tB != blas.NoTrans {
		rowB, colB = n, k
	}
	if ldb < max(1, colB) {
		panic(badLdB)
	}
	if ldc < max(1, n) {
		panic(badLdC)
	}
	if lena < (rowA-1)*lda+colA {
		panic(shortA)
	}
	if lenb < (rowB-1)*ldb+colB {
		panic(shortB)
	}
	if lenc < (m-1)*ldc+n {
		panic(shortC)
	}
}
