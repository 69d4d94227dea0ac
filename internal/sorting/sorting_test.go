package sorting

import (
	"testing"

	"github.com/relcc/tcengine/internal/arith"
	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
	"github.com/relcc/tcengine/internal/symmetry"
)

func testCatalog(t *testing.T) *spinor.Catalog {
	var spins []spinor.Spinor
	for i := 0; i < 4; i++ {
		spins = append(spins, spinor.Spinor{Index: i, Irrep: 0, Energy: float64(i), QPart: spinor.Hole})
	}
	for i := 4; i < 8; i++ {
		spins = append(spins, spinor.Spinor{Index: i, Irrep: 0, Energy: float64(i), QPart: spinor.Particle})
	}
	return spinor.Build(spins, 8)
}

func sym(t *testing.T) *symmetry.Table {
	return symmetry.NewAbelian("C1", []string{"A"}, 0, [][]symmetry.Irrep{{0}})
}

func TestSortTwoElectronAntisymmetrizes(t *testing.T) {
	arith.Reset()
	cat := testCatalog(t)
	qparts := []spinor.QPart{spinor.Hole, spinor.Hole, spinor.Hole, spinor.Hole}
	valence := []block.Valence{block.AnyActivity, block.AnyActivity, block.AnyActivity, block.AnyActivity}
	order := []int{1, 2, 3, 4}
	d := diagram.Template("hhhh", sym(t), cat, qparts, valence, nil, order, 0, storage.InMemory, false)

	sorter := &RawSorter{Cat: cat}
	records := []TwoElectronRecord{{I: 0, J: 1, K: 2, L: 3, Value: complex(1.5, 0)}}
	if err := sorter.SortTwoElectron(records, map[string]*diagram.Diagram{"hhhh": d}); err != nil {
		t.Fatalf("SortTwoElectron: %v", err)
	}

	get := func(i, j, k, l int) float64 {
		blkID0, off0 := cat.BlockOf(i)
		blkID1, off1 := cat.BlockOf(j)
		blkID2, off2 := cat.BlockOf(k)
		blkID3, off3 := cat.BlockOf(l)
		blk := d.FindBlock([]int{blkID0, blkID1, blkID2, blkID3})
		if blk == nil || blk.Storage == storage.Dummy {
			return 0
		}
		return blk.GetReal([]int{off0, off1, off2, off3})
	}

	if v := get(0, 1, 2, 3); v != 1.5 {
		t.Fatalf("direct placement = %v, want 1.5", v)
	}
	if v := get(0, 1, 3, 2); v != -1.5 {
		t.Fatalf("exchange placement = %v, want -1.5", v)
	}
}

func TestSortOneElectronFockBuild(t *testing.T) {
	arith.Reset()
	cat := testCatalog(t)

	fockQParts := []spinor.QPart{spinor.Hole, spinor.Hole}
	fockValence := []block.Valence{block.AnyActivity, block.AnyActivity}
	fock := diagram.Template("fock", sym(t), cat, fockQParts, fockValence, nil, []int{1, 2}, 0, storage.InMemory, false)

	hhhhQParts := []spinor.QPart{spinor.Hole, spinor.Hole, spinor.Hole, spinor.Hole}
	hhhhValence := []block.Valence{block.AnyActivity, block.AnyActivity, block.AnyActivity, block.AnyActivity}
	hhhh := diagram.Template("hhhh", sym(t), cat, hhhhQParts, hhhhValence, nil, []int{1, 2, 3, 4}, 0, storage.InMemory, false)

	blkID, _ := cat.BlockOf(0)
	blk := hhhh.FindBlock([]int{blkID, blkID, blkID, blkID})
	if blk != nil && blk.Storage != storage.Dummy {
		blk.SetReal([]int{0, 1, 0, 1}, 2.0)
	}

	sorter := &RawSorter{Cat: cat}
	records := []OneElectronRecord{{P: 0, Q: 0, Value: complex(1.0, 0)}}
	if err := sorter.SortOneElectron(records, fock, map[string]*diagram.Diagram{"hhhh": hhhh}); err != nil {
		t.Fatalf("SortOneElectron: %v", err)
	}

	bID0, o0 := cat.BlockOf(0)
	fb := fock.FindBlock([]int{bID0, bID0})
	if fb == nil || fb.Storage == storage.Dummy {
		t.Fatal("expected fock block to exist")
	}
	if v := fb.GetReal([]int{o0, o0}); v != 3.0 {
		t.Fatalf("fock build = %v, want 3.0 (1 bare + 2 hole-line)", v)
	}
}
