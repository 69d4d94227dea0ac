package engine

import (
	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
)

// RemoveCoreCorrelation zeros every element of A that touches a frozen-core
// hole spinor (orbital energy below coreCutoff): no correlation of the
// frozen core is retained at all.
func (c *Context) RemoveCoreCorrelation(a *diagram.Diagram, coreCutoff float64) {
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			if touchesCore(c, a, blk, idx, coreCutoff, 1) {
				zeroAt(blk, idx)
			}
		}
	}
}

// RemoveInnerCoreCorrelation is the softer variant: it only zeros elements
// where at least two hole indices are core, leaving core-valence
// correlation intact.
func (c *Context) RemoveInnerCoreCorrelation(a *diagram.Diagram, coreCutoff float64) {
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			if touchesCore(c, a, blk, idx, coreCutoff, 2) {
				zeroAt(blk, idx)
			}
		}
	}
}

func touchesCore(c *Context, d *diagram.Diagram, blk *block.Block, idx []int, coreCutoff float64, minCount int) bool {
	count := 0
	for dim, rel := range idx {
		if d.QParts[dim] != spinor.Hole {
			continue
		}
		g := blk.Indices[dim][rel]
		if c.Spinors.Spinor(g).Energy < coreCutoff {
			count++
		}
	}
	return count >= minCount
}

func zeroAt(blk *block.Block, idx []int) {
	if blk.DataComplex() != nil {
		blk.SetComplex(idx, 0)
	} else {
		blk.SetReal(idx, 0)
	}
}
