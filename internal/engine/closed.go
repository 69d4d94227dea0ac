package engine

import (
	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/storage"
)

// Closed extracts the purely-active subtensor of A into nameB, zeroing the
// copied entries in A. Because the spinor catalogue tiles active and
// inactive spinors into disjoint spinor blocks, forcing every dimension's
// valence to ActiveOnly never shrinks a surviving block's shape below A's —
// it only drops the blocks whose tuple touches an inactive spinor block
// entirely, so matching tuples can be copied verbatim.
func (c *Context) Closed(a *diagram.Diagram, nameB string) *diagram.Diagram {
	valence := make([]block.Valence, a.Rank)
	for i := range valence {
		valence[i] = block.ActiveOnly
	}
	mode := c.policy().ModeFor(a.Rank, storageQParts(a.QParts))
	b := diagram.Template(nameB, c.Symmetry, c.Spinors, a.QParts, valence, a.T3Space, a.Order, a.Irrep, mode, true)

	for _, bb := range b.Blocks {
		if bb.Storage == storage.Dummy {
			continue
		}
		ab := a.FindBlock(bb.SpinorBlocks)
		if ab == nil || ab.Storage == storage.Dummy {
			continue
		}
		block.CopyData(bb, ab)
		ab.Clear()
	}

	existing := c.Stack.Get(nameB)
	if existing != nil {
		c.Stack.Replace(b)
	} else {
		c.Stack.Push(b)
	}
	return b
}

// ExpandDiagram is the inverse injection of Closed: it copies small's
// (active-only) block contents back into the matching blocks of large,
// overwriting whatever large held there.
func (c *Context) ExpandDiagram(small, large *diagram.Diagram) {
	for _, sb := range small.Blocks {
		if sb.Storage == storage.Dummy {
			continue
		}
		lb := large.FindBlock(sb.SpinorBlocks)
		if lb == nil || lb.Storage == storage.Dummy {
			continue
		}
		block.CopyData(lb, sb)
	}
}
