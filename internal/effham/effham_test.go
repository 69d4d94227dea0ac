package effham

import (
	"math/cmplx"
	"testing"

	"github.com/relcc/tcengine/cblas128"
)

func TestBuildHeffFillsDenseMatrix(t *testing.T) {
	s := DenseSolver{}
	h := s.BuildHeff(3, func(p, q int) complex128 {
		return complex(float64(p*3+q), 0)
	})
	if h.Rows != 3 || h.Cols != 3 {
		t.Fatalf("unexpected shape %dx%d", h.Rows, h.Cols)
	}
	if h.Data[1*3+2] != complex(5, 0) {
		t.Fatalf("h[1][2] = %v, want 5", h.Data[1*3+2])
	}
}

func TestDiagonalizeDiagonalMatrix(t *testing.T) {
	s := DenseSolver{}
	n := 3
	data := make([]complex128, n*n)
	want := []complex128{1, 2, 3}
	for i, w := range want {
		data[i*n+i] = w
	}
	h := cblas128.General{Rows: n, Cols: n, Stride: n, Data: data}

	energies, _, err := s.Diagonalize(h)
	if err != nil {
		t.Fatalf("Diagonalize: %v", err)
	}
	sumGot, sumWant := complex128(0), complex128(0)
	for _, e := range energies {
		sumGot += e
	}
	for _, w := range want {
		sumWant += w
	}
	if cmplx.Abs(sumGot-sumWant) > 1e-8 {
		t.Fatalf("trace mismatch: got %v want %v", sumGot, sumWant)
	}
}

func TestInvertRoundTrips(t *testing.T) {
	n := 2
	a := cblas128.General{Rows: n, Cols: n, Stride: n, Data: []complex128{
		complex(2, 0), complex(1, 0),
		complex(1, 0), complex(3, 0),
	}}
	inv, err := Invert(a)
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	// a * inv should be (approximately) the identity.
	prod := matmul(a, inv)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := complex128(0)
			if i == j {
				want = 1
			}
			if d := cmplx.Abs(prod.Data[i*n+j] - want); d > 1e-8 {
				t.Fatalf("a*inv[%d][%d] = %v, want %v", i, j, prod.Data[i*n+j], want)
			}
		}
	}
}

func TestInvertSingularReturnsError(t *testing.T) {
	a := cblas128.General{Rows: 2, Cols: 2, Stride: 2, Data: []complex128{1, 1, 1, 1}}
	if _, err := Invert(a); err == nil {
		t.Fatal("expected singular matrix error")
	}
}
