package engine

import (
	"testing"

	"github.com/relcc/tcengine/internal/arith"
	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/options"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
	"github.com/relcc/tcengine/internal/symmetry"
)

func c1() *symmetry.Table {
	return symmetry.NewAbelian("C1", []string{"A"}, 0, [][]symmetry.Irrep{{0}})
}

func testCatalog() *spinor.Catalog {
	var spins []spinor.Spinor
	for i := 0; i < 8; i++ {
		spins = append(spins, spinor.Spinor{
			Index:  i,
			Irrep:  0,
			Energy: float64(i),
			QPart:  spinor.QPart(i / 4), // first 4 holes, next 4 particles
			Active: i == 3 || i == 4,    // one active hole, one active particle
		})
	}
	return spinor.Build(spins, 8)
}

func testContext(t *testing.T) *Context {
	opts := options.Default()
	opts.ScratchDir = t.TempDir()
	return NewContext(c1(), testCatalog(), opts)
}

func hhDiagram(t *testing.T, c *Context, name string) *diagram.Diagram {
	qparts := []spinor.QPart{spinor.Hole, spinor.Hole}
	valence := []block.Valence{block.AnyActivity, block.AnyActivity}
	return c.Template(name, qparts, valence, nil, []int{1, 2}, 0, true)
}

func TestTemplateCopyAdd(t *testing.T) {
	arith.Reset()
	c := testContext(t)
	a := hhDiagram(t, c, "a")
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			blk.SetReal(idx, 1)
		}
	}
	b := c.Copy(a, "b")
	if len(b.Blocks) != len(a.Blocks) {
		t.Fatalf("copy block count mismatch")
	}
	sum := c.Add(1, 1, 0, 0, a, b, "sum")
	for _, blk := range sum.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			if v := blk.GetReal(idx); v != 2 {
				t.Fatalf("add result = %v, want 2", v)
			}
		}
	}
}

func TestReorderSwapsAxes(t *testing.T) {
	arith.Reset()
	c := testContext(t)
	a := hhDiagram(t, c, "a")
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			if idx[0] != idx[1] {
				blk.SetReal(idx, float64(idx[0]*10+idx[1]))
			}
		}
	}
	r := c.Reorder(a, []int{2, 1}, "r")
	for _, blk := range r.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			swapped := []int{idx[1], idx[0]}
			srcBlk := a.FindBlock(invertTuple(blk.SpinorBlocks, []int{2, 1}))
			if srcBlk == nil {
				continue
			}
			if got, want := blk.GetReal(idx), srcBlk.GetReal(swapped); got != want {
				t.Fatalf("reorder mismatch got %v want %v", got, want)
			}
		}
	}
}

func TestScalarProductAndFindMax(t *testing.T) {
	arith.Reset()
	c := testContext(t)
	a := hhDiagram(t, c, "a")
	any := false
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			blk.SetReal(idx, 2)
			any = true
		}
	}
	if !any {
		t.Fatal("expected at least one populated element")
	}
	sp := c.ScalarProduct(false, false, a, a)
	if real(sp) <= 0 {
		t.Fatalf("expected positive scalar product, got %v", sp)
	}
	v, _, _ := c.FindMax(a)
	if v != 2 {
		t.Fatalf("findmax = %v, want 2", v)
	}
}

func TestPermAntisymmetrizesPair(t *testing.T) {
	arith.Reset()
	c := testContext(t)
	a := hhDiagram(t, c, "a")
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			blk.SetReal(idx, float64(idx[0]*10+idx[1]+1))
		}
	}
	c.Perm(a, "(1/2)")
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			if idx[0] == idx[1] && blk.GetReal(idx) != 0 {
				t.Fatalf("diagonal element should vanish after antisymmetrization, got %v", blk.GetReal(idx))
			}
		}
	}
}

func TestClosedExtractsActiveSubtensor(t *testing.T) {
	arith.Reset()
	c := testContext(t)
	a := hhDiagram(t, c, "a")
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			blk.SetReal(idx, 5)
		}
	}
	b := c.Closed(a, "active")
	found := false
	for _, blk := range b.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		found = true
		for _, idx := range blk.GenIndices() {
			if blk.GetReal(idx) != 5 {
				t.Fatalf("expected copied value 5, got %v", blk.GetReal(idx))
			}
		}
	}
	if !found {
		t.Fatal("expected at least one active block")
	}
	c.ExpandDiagram(b, a)
}

func TestSelectionActiveToActive(t *testing.T) {
	arith.Reset()
	c := testContext(t)
	a := hhDiagram(t, c, "a")
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			blk.SetReal(idx, 3)
		}
	}
	c.Selection(a, SelectionRule{Kind: SelectActiveToActive})
	nonZero := 0
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			if blk.GetReal(idx) != 0 {
				nonZero++
			}
		}
	}
	if nonZero == 0 {
		t.Fatal("expected the purely-active diagonal element to survive selection")
	}
}

func TestPredictIntruders(t *testing.T) {
	arith.Reset()
	c := testContext(t)
	a := hhDiagram(t, c, "a")
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			blk.SetReal(idx, 1)
		}
	}
	reports := c.PredictIntruders("a", 3)
	if len(reports) == 0 {
		t.Fatal("expected at least one intruder report")
	}
	for i := 1; i < len(reports); i++ {
		if absf(reports[i-1].Denominator) > absf(reports[i].Denominator) {
			t.Fatal("reports should be sorted ascending by |denominator|")
		}
	}
}

// TestMultContractsMatchingBlocks checks the rank-2 identity from the
// contraction invariant: mult(A, I, 1) reproduces A, since contracting
// against an identity matrix over the same index space is a no-op.
func TestMultContractsMatchingBlocks(t *testing.T) {
	arith.Reset()
	c := testContext(t)
	a := hhDiagram(t, c, "a")
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			blk.SetReal(idx, float64(idx[0]*10+idx[1]+1))
		}
	}

	ident := hhDiagram(t, c, "ident")
	for _, blk := range ident.Blocks {
		if blk.Storage == storage.Dummy || blk.SpinorBlocks[0] != blk.SpinorBlocks[1] {
			continue
		}
		for _, idx := range blk.GenIndices() {
			if idx[0] == idx[1] {
				blk.SetReal(idx, 1)
			}
		}
	}

	r := c.Mult(a, ident, 1, "r")
	checked := false
	for _, cb := range r.Blocks {
		if cb.Storage == storage.Dummy {
			continue
		}
		srcBlk := a.FindBlock(cb.SpinorBlocks)
		if srcBlk == nil {
			continue
		}
		for _, idx := range cb.GenIndices() {
			if got, want := cb.GetReal(idx), srcBlk.GetReal(idx); got != want {
				t.Fatalf("mult by identity mismatch at %v: got %v want %v", idx, got, want)
			}
			checked = true
		}
	}
	if !checked {
		t.Fatal("expected at least one populated contracted block")
	}
}

// TestMultOuterLoopVariantsAgree checks that the three residency-driven
// loop orders (A, B, or C outermost) find the same set of matching
// triples for the same operands, since which operand drives the outer
// loop is a scheduling choice and must not change what gets contracted.
func TestMultOuterLoopVariantsAgree(t *testing.T) {
	arith.Reset()
	c := testContext(t)
	a := hhDiagram(t, c, "a")
	b := hhDiagram(t, c, "b")
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			blk.SetReal(idx, float64(idx[0]*10+idx[1]+1))
		}
	}
	for _, blk := range b.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			blk.SetReal(idx, float64(idx[0]+idx[1]+1))
		}
	}

	out := c.Mult(a, b, 1, "out")

	variants := map[string][]tripleMatch{
		"A": matchingTriplesOuterA(a, b, out, 1, 1),
		"B": matchingTriplesOuterB(a, b, out, 1, 1),
		"C": matchingTriplesOuterC(a, b, out, 1, 1),
	}
	key := func(m tripleMatch) [3]*block.Block { return [3]*block.Block{m.a, m.b, m.c} }
	ref := make(map[[3]*block.Block]bool)
	for _, m := range variants["C"] {
		ref[key(m)] = true
	}
	for name, matches := range variants {
		if len(matches) != len(ref) {
			t.Fatalf("variant %s found %d matches, want %d", name, len(matches), len(ref))
		}
		for _, m := range matches {
			if !ref[key(m)] {
				t.Fatalf("variant %s produced a triple not found by the C-outer variant", name)
			}
		}
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
