package engine

import (
	"strconv"
	"strings"

	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/contract"
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/errs"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
)

// Mult contracts the trailing ncontr dimensions of A with the trailing
// ncontr dimensions of B, producing a diagram of rank rA+rB-2*ncontr
// pushed under nameC. The trailing dimensions of A and B must already
// agree pairwise on qparts/valence/t3space (the caller arranges this with
// Reorder beforehand); the target's qparts/valence/t3space are the
// concatenation of each operand's uncontracted dimensions. The target's
// order is always the identity permutation 1..rank; the operands' orders
// are not carried into it.
func (c *Context) Mult(a, b *diagram.Diagram, ncontr int, nameC string) *diagram.Diagram {
	if ncontr > a.Rank || ncontr > b.Rank {
		errs.Fatal(errs.New(errs.KindMalformed, "engine: mult ncontr=%d exceeds operand rank (%d, %d)", ncontr, a.Rank, b.Rank))
	}
	aFree := a.Rank - ncontr
	bFree := b.Rank - ncontr

	targetQParts := append(append([]spinor.QPart(nil), a.QParts[:aFree]...), b.QParts[:bFree]...)
	targetValence := append(append([]block.Valence(nil), a.Valence[:aFree]...), b.Valence[:bFree]...)
	var targetT3 []bool
	if a.T3Space != nil || b.T3Space != nil {
		targetT3 = append(append([]bool(nil), safeBoolSlice(a.T3Space, aFree)...), safeBoolSlice(b.T3Space, bFree)...)
	}
	targetOrder := identityOrder(aFree + bFree)
	targetIrrep := c.Symmetry.Mul(a.Irrep, b.Irrep)

	mode := c.policy().ModeFor(aFree+bFree, storageQParts(targetQParts))
	out := diagram.Template(nameC, c.Symmetry, c.Spinors, targetQParts, targetValence, targetT3, targetOrder, targetIrrep, mode, true)

	var tasks []contract.Task
	for _, m := range matchingTriples(a, b, out, aFree, bFree) {
		ab, bb, cb := m.a, m.b, m.c
		aLoaded := materialize(ab, a, c.Storage)
		bLoaded := materialize(bb, b, c.Storage)
		k := product(ab.Shape[aFree:])
		va := contract.View{Rows: product(ab.Shape[:aFree]), Cols: k, DataR: aLoaded.DataReal(), DataC: aLoaded.DataComplex()}
		vb := contract.View{Rows: product(bb.Shape[:bFree]), Cols: k, DataR: bLoaded.DataReal(), DataC: bLoaded.DataComplex()}
		vc := contract.View{Rows: va.Rows, Cols: vb.Rows, DataR: cb.DataReal(), DataC: cb.DataComplex()}
		tasks = append(tasks, contract.Task{A: aLoaded, B: bLoaded, C: cb, ViewA: va, ViewB: vb, ViewC: vc, AlphaR: 1, AlphaC: 1})
	}
	contract.Run(tasks, c.Options)

	existing := c.Stack.Get(nameC)
	if existing != nil {
		c.Stack.Replace(out)
	} else {
		c.Stack.Push(out)
	}
	return out
}

func product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

func safeBoolSlice(in []bool, n int) []bool {
	if in == nil {
		return make([]bool, n)
	}
	return in[:n]
}

func identityOrder(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

type tripleMatch struct {
	a, b, c *block.Block
}

// matchingTriples finds, for every block of C, the blocks of A and B whose
// leading/trailing spinor-block labels match per the contraction
// precondition: A[0:aFree] == C[0:aFree], B[0:bFree] == C[aFree:], and
// A[aFree:] == B[bFree:] (the contracted labels). Which of A, B, C drives
// the outer loop is picked by contract.Residency.OuterMost: when one
// operand has blocks on disk, visiting its blocks exactly once in the
// outer loop (and index-looking-up the other two) bounds how many times
// that operand's blocks are touched.
func matchingTriples(a, b, out *diagram.Diagram, aFree, bFree int) []tripleMatch {
	switch contract.DiagramResidency(a, b, out).OuterMost() {
	case "A":
		return matchingTriplesOuterA(a, b, out, aFree, bFree)
	case "B":
		return matchingTriplesOuterB(a, b, out, aFree, bFree)
	default:
		return matchingTriplesOuterC(a, b, out, aFree, bFree)
	}
}

// matchingTriplesOuterC visits every C block once, looking up candidate A
// blocks by their leading (aFree) labels and the exact matching B block by
// its full tuple.
func matchingTriplesOuterC(a, b, out *diagram.Diagram, aFree, bFree int) []tripleMatch {
	aByPrefix := groupBlocks(a.Blocks, func(blk *block.Block) []int { return blk.SpinorBlocks[:aFree] })
	bByFull := indexBlocks(b.Blocks, func(blk *block.Block) []int { return blk.SpinorBlocks })

	var matches []tripleMatch
	for _, cb := range out.Blocks {
		if cb.Storage == storage.Dummy {
			continue
		}
		cTupleA := cb.SpinorBlocks[:aFree]
		cTupleB := cb.SpinorBlocks[aFree:]
		for _, ab := range aByPrefix[tupleKey(cTupleA)] {
			contracted := ab.SpinorBlocks[aFree:]
			if bb, ok := bByFull[tupleKey(appendInts(cTupleB, contracted))]; ok {
				matches = append(matches, tripleMatch{a: ab, b: bb, c: cb})
			}
		}
	}
	return matches
}

// matchingTriplesOuterA visits every A block once, looking up candidate C
// blocks by their leading (aFree) labels and the exact matching B block by
// its full tuple.
func matchingTriplesOuterA(a, b, out *diagram.Diagram, aFree, bFree int) []tripleMatch {
	cByPrefixA := groupBlocks(out.Blocks, func(blk *block.Block) []int { return blk.SpinorBlocks[:aFree] })
	bByFull := indexBlocks(b.Blocks, func(blk *block.Block) []int { return blk.SpinorBlocks })

	var matches []tripleMatch
	for _, ab := range a.Blocks {
		if ab.Storage == storage.Dummy {
			continue
		}
		cTupleA := ab.SpinorBlocks[:aFree]
		contracted := ab.SpinorBlocks[aFree:]
		for _, cb := range cByPrefixA[tupleKey(cTupleA)] {
			cTupleB := cb.SpinorBlocks[aFree:]
			if bb, ok := bByFull[tupleKey(appendInts(cTupleB, contracted))]; ok {
				matches = append(matches, tripleMatch{a: ab, b: bb, c: cb})
			}
		}
	}
	return matches
}

// matchingTriplesOuterB visits every B block once, looking up candidate C
// blocks by their trailing (bFree) labels and the exact matching A block by
// its full tuple.
func matchingTriplesOuterB(a, b, out *diagram.Diagram, aFree, bFree int) []tripleMatch {
	cByPrefixB := groupBlocks(out.Blocks, func(blk *block.Block) []int { return blk.SpinorBlocks[aFree:] })
	aByFull := indexBlocks(a.Blocks, func(blk *block.Block) []int { return blk.SpinorBlocks })

	var matches []tripleMatch
	for _, bb := range b.Blocks {
		if bb.Storage == storage.Dummy {
			continue
		}
		cTupleB := bb.SpinorBlocks[:bFree]
		contracted := bb.SpinorBlocks[bFree:]
		for _, cb := range cByPrefixB[tupleKey(cTupleB)] {
			cTupleA := cb.SpinorBlocks[:aFree]
			if ab, ok := aByFull[tupleKey(appendInts(cTupleA, contracted))]; ok {
				matches = append(matches, tripleMatch{a: ab, b: bb, c: cb})
			}
		}
	}
	return matches
}

// groupBlocks indexes blocks (skipping dummies) by key, keeping every
// block that shares a key since the non-keyed dimensions still vary.
func groupBlocks(blocks []*block.Block, key func(*block.Block) []int) map[string][]*block.Block {
	m := make(map[string][]*block.Block)
	for _, blk := range blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		k := tupleKey(key(blk))
		m[k] = append(m[k], blk)
	}
	return m
}

// indexBlocks indexes blocks (skipping dummies) by a key expected to be
// unique, such as the full spinor-block tuple.
func indexBlocks(blocks []*block.Block, key func(*block.Block) []int) map[string]*block.Block {
	m := make(map[string]*block.Block)
	for _, blk := range blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		m[tupleKey(key(blk))] = blk
	}
	return m
}

func appendInts(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func tupleKey(ints []int) string {
	var sb strings.Builder
	for _, v := range ints {
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

func tupleEqual(x, y []int) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// materialize returns a loaded in-memory view of blk, reconstructing it
// from its unique twin first if it is non-unique (restore then discard:
// non-unique blocks are never persisted).
func materialize(blk *block.Block, owner *diagram.Diagram, backend *storage.Backend) *block.Block {
	if blk.Storage == storage.OnDisk {
		blk.Load(backend)
	}
	if !blk.IsUnique {
		unique := findUniqueTwin(owner, blk)
		restored := &block.Block{Rank: blk.Rank, Shape: blk.Shape, Sign: blk.Sign, PermToUnique: blk.PermToUnique, IsUnique: false}
		restored.Restore(unique)
		return restored
	}
	return blk
}

func findUniqueTwin(d *diagram.Diagram, blk *block.Block) *block.Block {
	for _, cand := range d.Blocks {
		if cand.IsUnique && tupleEqual(permuteInts(cand.SpinorBlocks, blk.PermToUnique), blk.SpinorBlocks) {
			return cand
		}
	}
	errs.Fatal(errs.New(errs.KindMalformed, "engine: no unique twin found for non-unique block"))
	return nil
}

func permuteInts(in []int, perm []int) []int {
	out := make([]int, len(in))
	for i, p := range perm {
		out[i] = in[p]
	}
	return out
}
