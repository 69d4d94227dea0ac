package symmetry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// c2v builds the small abelian C2v table (A1, A2, B1, B2) with A1 = 0 as
// the totally symmetric irrep, used across tests.
func c2v() *Table {
	names := []string{"A1", "A2", "B1", "B2"}
	prod := [][]Irrep{
		{0, 1, 2, 3},
		{1, 0, 3, 2},
		{2, 3, 0, 1},
		{3, 2, 1, 0},
	}
	return NewAbelian("C2v", names, 0, prod)
}

func TestClosureAndInverse(t *testing.T) {
	tbl := c2v()
	n := tbl.NIrreps()
	for i := 0; i < n; i++ {
		if tbl.Mul(Irrep(i), tbl.TotallySymmetric()) != Irrep(i) {
			t.Fatalf("irrep %d x totsym != %d", i, i)
		}
		for j := 0; j < n; j++ {
			inv := tbl.InverseAbelian(Irrep(j))
			got := tbl.Mul(tbl.Mul(Irrep(i), Irrep(j)), inv)
			if got != Irrep(i) {
				t.Fatalf("mul(mul(%d,%d),inv(%d)) = %d, want %d", i, j, j, got, i)
			}
		}
	}
}

func TestContainsTotallySymmetricFastPaths(t *testing.T) {
	tbl := c2v()
	if !tbl.ContainsTotallySymmetric([]Irrep{1}, []Irrep{1}) {
		t.Fatal("rank-2: A2 x A2 should contain totsym")
	}
	if tbl.ContainsTotallySymmetric([]Irrep{1}, []Irrep{2}) {
		t.Fatal("rank-2: A2 x B1 should not contain totsym")
	}
	// rank-4: (A2 x B1) vs (B2 x A1) -> B2 == B2
	if !tbl.ContainsTotallySymmetric([]Irrep{1, 2}, []Irrep{3, 0}) {
		t.Fatal("rank-4 fast path mismatch")
	}
}

func TestDecomposeProductMatchesGeneralFallback(t *testing.T) {
	tbl := c2v()
	sum := tbl.DecomposeProduct([]Irrep{1, 2, 3})
	if len(sum) != 1 || sum[0] != tbl.Mul(tbl.Mul(1, 2), 3) {
		t.Fatalf("unexpected decomposition: %v", sum)
	}
}

func TestDecomposeProductRank4MatchesExpectedSet(t *testing.T) {
	tbl := c2v()
	got := tbl.DecomposeProduct([]Irrep{1, 2, 3, 0})
	want := []Irrep{tbl.Mul(tbl.Mul(tbl.Mul(1, 2), 3), 0)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("DecomposeProduct mismatch (-want +got):\n%s", diff)
	}
}

func TestContinuousMulPiTimesPi(t *testing.T) {
	c := NewContinuous(true, 3)
	got, ok := c.Mul("Pig", "Pig")
	if !ok {
		t.Fatal("Pig x Pig should resolve")
	}
	if got != "Sigma+g" && got != "Sigma-g" {
		t.Fatalf("Pig x Pig = %s, want a Sigma component", got)
	}
}
