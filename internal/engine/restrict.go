package engine

import (
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/storage"
)

// RestrictTriples zeros every element of a rank-6 triples tensor whose
// orbital-energy denominator falls outside [lo, hi], the window-restricted
// triples space used to bound the cost of perturbative and iterative
// triples corrections.
func (c *Context) RestrictTriples(a *diagram.Diagram, lo, hi float64) {
	if a.Rank != 6 {
		return
	}
	k := a.Rank / 2
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			d := denominator(c, a, blk, idx, k)
			if d < lo || d > hi {
				if blk.DataComplex() != nil {
					blk.SetComplex(idx, 0)
				} else {
					blk.SetReal(idx, 0)
				}
			}
		}
	}
}
