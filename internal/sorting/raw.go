package sorting

import (
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
)

// RawSorter is the reference TwoElectronSorter/OneElectronSorter
// implementation: it places bare integral records directly into whichever
// target diagram's blocks their global spinor indices fall into, two
// passes per record (direct and exchange) to build the antisymmetrized
// two-electron integral <ij||kl> = <ij|kl> - <ij|lk>, and a Fock build for
// the one-electron case.
type RawSorter struct {
	Cat *spinor.Catalog
}

// SortTwoElectron scatters each bare <ij|kl> record into every target
// diagram whose spinor-block tuple it lands in: a direct placement of
// value at (i,j,k,l) and an exchange placement of -value at (i,j,l,k).
// A diagram not covering a given tuple (wrong rank, wrong qpart class, or
// the tuple falls in a dummy/symmetry-forbidden block) is silently
// skipped, so the same record list can be handed to every two-electron
// class diagram at once.
func (s *RawSorter) SortTwoElectron(records []TwoElectronRecord, targets map[string]*diagram.Diagram) error {
	for _, rec := range records {
		for _, d := range targets {
			if d.Rank != 4 {
				continue
			}
			placeComplex(s.Cat, d, []int{rec.I, rec.J, rec.K, rec.L}, rec.Value, true)
			placeComplex(s.Cat, d, []int{rec.I, rec.J, rec.L, rec.K}, -rec.Value, true)
		}
	}
	return nil
}

// SortOneElectron fills fock from the bare one-electron integrals plus the
// hole-line contraction of every rank-4 hole-containing diagram in
// holeLines: f_pq = h_pq + sum_i <pi||qi>.
func (s *RawSorter) SortOneElectron(records []OneElectronRecord, fock *diagram.Diagram, holeLines map[string]*diagram.Diagram) error {
	for _, rec := range records {
		placeComplex(s.Cat, fock, []int{rec.P, rec.Q}, rec.Value, true)
	}
	holes := s.Cat.Holes()
	for _, d := range holeLines {
		if d.Rank != 4 {
			continue
		}
		for _, blk := range d.Blocks {
			if blk.Storage == storage.Dummy {
				continue
			}
			for _, idx := range blk.GenIndices() {
				p := blk.Indices[0][idx[0]]
				i1 := blk.Indices[1][idx[1]]
				q := blk.Indices[2][idx[2]]
				i2 := blk.Indices[3][idx[3]]
				if i1 != i2 || !containsSpinor(holes, i1) {
					continue
				}
				var v complex128
				if blk.DataComplex() != nil {
					v = blk.GetComplex(idx)
				} else {
					v = complex(blk.GetReal(idx), 0)
				}
				placeComplex(s.Cat, fock, []int{p, q}, v, true)
			}
		}
	}
	return nil
}

func containsSpinor(list []int, idx int) bool {
	for _, v := range list {
		if v == idx {
			return true
		}
	}
	return false
}

func placeComplex(cat *spinor.Catalog, d *diagram.Diagram, globalIdx []int, value complex128, accumulate bool) {
	ids := make([]int, len(globalIdx))
	offs := make([]int, len(globalIdx))
	for i, g := range globalIdx {
		blockID, off := cat.BlockOf(g)
		ids[i] = blockID
		offs[i] = off
	}
	blk := d.FindBlock(ids)
	if blk == nil || blk.Storage == storage.Dummy {
		return
	}
	if blk.DataComplex() != nil {
		if accumulate {
			blk.SetComplex(offs, blk.GetComplex(offs)+value)
		} else {
			blk.SetComplex(offs, value)
		}
		return
	}
	if accumulate {
		blk.SetReal(offs, blk.GetReal(offs)+real(value))
	} else {
		blk.SetReal(offs, real(value))
	}
}
