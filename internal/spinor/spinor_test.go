package spinor

import (
	"testing"

	"github.com/relcc/tcengine/internal/symmetry"
)

func sample() []Spinor {
	var s []Spinor
	for i := 0; i < 6; i++ {
		s = append(s, Spinor{
			Index:  i,
			Irrep:  symmetry.Irrep(i % 2),
			Energy: float64(i),
			QPart:  QPart(i % 2),
			Active: i >= 4,
		})
	}
	return s
}

func TestBuildTilesAndIndexLists(t *testing.T) {
	c := Build(sample(), 2)
	if c.NSpinors() != 6 {
		t.Fatalf("NSpinors = %d", c.NSpinors())
	}
	for _, b := range c.blocks {
		if b.Len() > 2 {
			t.Fatalf("block %d exceeds tile size: %d", b.ID, b.Len())
		}
	}
	if len(c.Holes())+len(c.Particles()) != 6 {
		t.Fatal("holes+particles should cover all spinors")
	}
}

func TestSetOccupationsFromElectronCounts(t *testing.T) {
	c := Build(sample(), 4)
	c.SetOccupations(FromElectronCounts, nil, map[symmetry.Irrep]int{0: 1, 1: 2})
	holes := 0
	for _, idx := range c.Holes() {
		if c.Spinor(idx).Irrep == 0 {
			holes++
		}
	}
	if holes != 1 {
		t.Fatalf("expected 1 hole in irrep 0, got %d", holes)
	}
}
