package engine

import (
	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/errs"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
)

// Reorder creates nameB with A's shape but dimensions permuted by perm (a
// permutation of 1..rank, in A's order frame), copying elements
// accordingly. Uniqueness is re-derived for B since permuting dimensions
// can change which half-rank group a spinor-block tuple's indices fall
// into relative to the canonical sort.
func (c *Context) Reorder(a *diagram.Diagram, perm []int, nameB string) *diagram.Diagram {
	if len(perm) != a.Rank {
		errs.Fatal(errs.New(errs.KindMalformed, "engine: reorder permutation length %d != rank %d", len(perm), a.Rank))
	}

	qparts := permuteQParts(a.QParts, perm)
	valence := permuteValence(a.Valence, perm)
	var t3 []bool
	if a.T3Space != nil {
		t3 = permuteBools(a.T3Space, perm)
	}
	newOrder := composeOrder(a.Order, perm)

	mode := c.policy().ModeFor(a.Rank, storageQParts(qparts))
	out := diagram.Template(nameB, c.Symmetry, c.Spinors, qparts, valence, t3, newOrder, a.Irrep, mode, true)

	for _, db := range out.Blocks {
		if db.Storage == storage.Dummy {
			continue
		}
		srcTuple := invertTuple(db.SpinorBlocks, perm)
		sb := a.FindBlock(srcTuple)
		if sb == nil {
			continue
		}
		permuteBlockInto(db, sb, perm)
	}

	existing := c.Stack.Get(nameB)
	if existing != nil {
		c.Stack.Replace(out)
	} else {
		c.Stack.Push(out)
	}
	return out
}

func permuteQParts(in []spinor.QPart, perm []int) []spinor.QPart {
	out := make([]spinor.QPart, len(in))
	for i, p := range perm {
		out[i] = in[p-1]
	}
	return out
}

func permuteValence(in []block.Valence, perm []int) []block.Valence {
	out := make([]block.Valence, len(in))
	for i, p := range perm {
		out[i] = in[p-1]
	}
	return out
}

func permuteBools(in []bool, perm []int) []bool {
	out := make([]bool, len(in))
	for i, p := range perm {
		out[i] = in[p-1]
	}
	return out
}

// composeOrder derives the target diagram's order so subsequent
// contractions see canonical annihilation-before-creation alignment,
// composing the source order with the requested dimension permutation.
func composeOrder(srcOrder []int, perm []int) []int {
	out := make([]int, len(srcOrder))
	for i, p := range perm {
		out[i] = srcOrder[p-1]
	}
	return out
}

func invertTuple(tuple []int, perm []int) []int {
	out := make([]int, len(tuple))
	for i, p := range perm {
		out[p-1] = tuple[i]
	}
	return out
}

func permuteBlockInto(dst, src *block.Block, perm []int) {
	idx := make([]int, dst.Rank)
	srcIdx := make([]int, dst.Rank)
	var rec func(dim int)
	rec = func(dim int) {
		if dim == dst.Rank {
			for i, p := range perm {
				srcIdx[p-1] = idx[i]
			}
			if dst.DataComplex() != nil {
				dst.SetComplex(idx, src.GetComplex(srcIdx))
			} else {
				dst.SetReal(idx, src.GetReal(srcIdx))
			}
			return
		}
		for i := 0; i < dst.Shape[dim]; i++ {
			idx[dim] = i
			rec(dim + 1)
		}
	}
	if dst.Size() > 0 {
		rec(0)
	}
}
