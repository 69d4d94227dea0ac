package block

import (
	"testing"

	"github.com/relcc/tcengine/internal/arith"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
)

func catalog() *spinor.Catalog {
	var spins []spinor.Spinor
	for i := 0; i < 8; i++ {
		spins = append(spins, spinor.Spinor{
			Index:  i,
			Irrep:  0,
			Energy: float64(i),
			QPart:  spinor.QPart(i / 4), // first 4 holes, last 4 particles
			Active: false,
		})
	}
	return spinor.Build(spins, 8)
}

func TestNewBlockFiltersAndAllocates(t *testing.T) {
	arith.Reset()
	cat := catalog()
	// one spinor block covering all 8 spinors at id 0 (hole) and... build two blocks.
	qparts := []spinor.QPart{spinor.Hole, spinor.Hole}
	valence := []Valence{AnyActivity, AnyActivity}
	order := []int{1, 2}
	b := New(cat, []int{0, 0}, qparts, valence, nil, order, storage.InMemory, false)
	if b.Storage == storage.Dummy {
		t.Fatal("expected non-dummy block for hole/hole pair")
	}
	if b.Shape[0] != 4 || b.Shape[1] != 4 {
		t.Fatalf("unexpected shape: %v", b.Shape)
	}
	if b.Size() != 16 {
		t.Fatalf("unexpected size: %d", b.Size())
	}
}

func TestGetSetRoundTrip(t *testing.T) {
	arith.Reset()
	cat := catalog()
	qparts := []spinor.QPart{spinor.Hole, spinor.Hole}
	valence := []Valence{AnyActivity, AnyActivity}
	order := []int{1, 2}
	b := New(cat, []int{0, 0}, qparts, valence, nil, order, storage.InMemory, false)
	b.SetReal([]int{1, 2}, 3.5)
	if got := b.GetReal([]int{1, 2}); got != 3.5 {
		t.Fatalf("got %v want 3.5", got)
	}
	if got := b.GetReal([]int{10, 2}); got != 0 {
		t.Fatalf("out-of-range get should be 0, got %v", got)
	}
}

func TestDummyWhenShapeIsZero(t *testing.T) {
	arith.Reset()
	cat := catalog()
	// requesting particle dimension from a block built only of holes -> 0 shape.
	qparts := []spinor.QPart{spinor.Particle}
	valence := []Valence{AnyActivity}
	order := []int{1}
	b := New(cat, []int{0}, qparts, valence, nil, order, storage.InMemory, false)
	if b.Storage != storage.Dummy {
		t.Fatal("expected dummy block when a dimension's shape is 0")
	}
}
