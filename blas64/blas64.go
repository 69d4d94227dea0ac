// Copyright ©2015 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blas64 provides a simple interface to the float64 BLAS API needed
// by the contraction kernel.
package blas64

import (
	"github.com/relcc/tcengine/blas"
	"github.com/relcc/tcengine/blas/native"
)

var blas64 blas.Float64 = native.Implementation{}

// Use sets the BLAS float64 implementation to be used by subsequent calls.
// The default implementation is native.Implementation; a build that links a
// vendor BLAS can call Use with a cgo-backed implementation instead.
func Use(b blas.Float64) {
	blas64 = b
}

// Implementation returns the current BLAS float64 implementation.
func Implementation() blas.Float64 {
	return blas64
}

// General represents a matrix using the conventional row-major storage
// scheme, matching the row-major buffer layout of block.Block.
type General struct {
	Rows, Cols int
	Stride     int
	Data       []float64
}

// Gemm computes C = alpha*op(A)*op(B) + beta*C.
func Gemm(tA, tB blas.Transpose, alpha float64, a, b General, beta float64, c General) {
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
	blas64.Dgemm(tA, tB, m, n, k, alpha, a.Data, a.Stride, b.Data, b.Stride, beta, c.Data, c.Stride)
}
