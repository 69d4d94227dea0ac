// Package contract implements the contraction kernel: block-wise
// C += A * B^T via GEMM over "supermatricised" views, dispatched across
// eight loop schedules chosen by the storage residency of the three
// diagrams involved, with external (outer-loop) or internal (GEMM-level)
// threading, and an optional CUDA offload hook.
package contract

import (
	"github.com/relcc/tcengine/blas"
	"github.com/relcc/tcengine/blas64"
	"github.com/relcc/tcengine/cblas128"
	"github.com/relcc/tcengine/internal/arith"
	"github.com/relcc/tcengine/internal/errs"
)

// View is a block reshaped into a 2-D GEMM operand: Rows x Cols, row-major,
// stride Cols.
type View struct {
	Rows, Cols int
	DataR      []float64
	DataC      []complex128
}

// GemmReal computes C += alpha*A*B^T (beta is always 1: accumulation into
// an existing destination block) using the configured blas64
// implementation, importing only the Transpose vocabulary from the blas
// package.
func GemmReal(alpha float64, a, b View, c View) {
	if a.Cols != b.Cols {
		errs.Fatal(errs.New(errs.KindMalformed, "contract: contracted dimension mismatch %d vs %d", a.Cols, b.Cols))
	}
	ga := blas64.General{Rows: a.Rows, Cols: a.Cols, Stride: a.Cols, Data: a.DataR}
	gb := blas64.General{Rows: b.Rows, Cols: b.Cols, Stride: b.Cols, Data: b.DataR}
	gc := blas64.General{Rows: a.Rows, Cols: b.Rows, Stride: c.Cols, Data: c.DataR}
	blas64.Gemm(blas.NoTrans, blas.Trans, alpha, ga, gb, 1, gc)
}

func GemmComplex(alpha complex128, a, b View, c View) {
	if a.Cols != b.Cols {
		errs.Fatal(errs.New(errs.KindMalformed, "contract: contracted dimension mismatch %d vs %d", a.Cols, b.Cols))
	}
	ga := cblas128.General{Rows: a.Rows, Cols: a.Cols, Stride: a.Cols, Data: a.DataC}
	gb := cblas128.General{Rows: b.Rows, Cols: b.Cols, Stride: b.Cols, Data: b.DataC}
	gc := cblas128.General{Rows: a.Rows, Cols: b.Rows, Stride: c.Cols, Data: c.DataC}
	cblas128.Gemm(blas.NoTrans, blas.Trans, alpha, ga, gb, 1, gc)
}

// Contract dispatches to the real or complex GEMM depending on the
// process-global arithmetic mode.
func Contract(a, b, c View, alphaR float64, alphaC complex128) {
	if arith.IsComplex() {
		GemmComplex(alphaC, a, b, c)
	} else {
		GemmReal(alphaR, a, b, c)
	}
}
