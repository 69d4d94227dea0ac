package diagram

import (
	"os"
	"testing"

	"github.com/relcc/tcengine/internal/arith"
	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
	"github.com/relcc/tcengine/internal/symmetry"
)

func c1Table() *symmetry.Table {
	return symmetry.NewAbelian("C1", []string{"A"}, 0, [][]symmetry.Irrep{{0}})
}

func catalog() *spinor.Catalog {
	var spins []spinor.Spinor
	for i := 0; i < 8; i++ {
		spins = append(spins, spinor.Spinor{
			Index: i, Irrep: 0, Energy: float64(i), QPart: spinor.QPart(i / 4),
		})
	}
	return spinor.Build(spins, 8)
}

func TestTemplateEnumeratesAllowedTuples(t *testing.T) {
	arith.Reset()
	sym := c1Table()
	cat := catalog()
	qparts := []spinor.QPart{spinor.Hole, spinor.Hole}
	valence := []block.Valence{block.AnyActivity, block.AnyActivity}
	order := []int{1, 2}
	d := Template("hh", sym, cat, qparts, valence, nil, order, 0, storage.InMemory, false)
	if len(d.Blocks) == 0 {
		t.Fatal("expected at least one block for hh diagram")
	}
	tuple := d.Blocks[0].SpinorBlocks
	if d.FindBlock(tuple) == nil {
		t.Fatal("FindBlock should locate the block by its spinor-block tuple")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	arith.Reset()
	sym := c1Table()
	cat := catalog()
	qparts := []spinor.QPart{spinor.Hole, spinor.Hole}
	valence := []block.Valence{block.AnyActivity, block.AnyActivity}
	order := []int{1, 2}
	d := Template("hh", sym, cat, qparts, valence, nil, order, 0, storage.InMemory, false)

	path := t.TempDir() + "/hh.dg"
	Write(d, path)
	defer os.Remove(path)

	back := Read(path, cat)
	if back.Name != "hh" || len(back.Blocks) != len(d.Blocks) {
		t.Fatalf("round trip mismatch: got %d blocks, want %d", len(back.Blocks), len(d.Blocks))
	}
}
