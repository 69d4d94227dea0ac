// Copyright ©2015 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cblas128 provides a simple interface to the complex128 BLAS API
// needed by the contraction kernel.
package cblas128

import (
	"github.com/relcc/tcengine/blas"
	"github.com/relcc/tcengine/blas/native"
)

var cblas128 blas.Complex128 = native.Implementation{}

// Use sets the BLAS complex128 implementation to be used by subsequent calls.
func Use(b blas.Complex128) {
	cblas128 = b
}

// Implementation returns the current BLAS complex128 implementation.
func Implementation() blas.Complex128 {
	return cblas128
}

// General represents a matrix using the conventional row-major storage
// scheme, matching the row-major buffer layout of block.Block.
type General struct {
	Rows, Cols int
	Stride     int
	Data       []complex128
}

// Gemm computes C = alpha*op(A)*op(B) + beta*C.
func Gemm(tA, tB blas.Transpose, alpha complex128, a, b General, beta complex128, c General) {
	var m, n, k int
	if tA == blas.NoTrans {
		m, k = a.Rows, a.Cols
	} else {
		m, k = a.Cols, a.Rows
	}
	if tB == blas.NoTrans {
		n = b.Cols
	} else {
		n = b.Rows
	}
	cblas128.Zgemm(tA, tB, m, n, k, alpha, a.Data, a.Stride, b.Data, b.Stride, beta, c.Data, c.Stride)
}
