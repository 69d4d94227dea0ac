package block

import "github.com/relcc/tcengine/internal/arith"

// Restore reconstructs a non-unique block's data from its canonical unique
// twin: permute the unique buffer's dimensions by PermToUnique and scale
// by Sign. The reference engine calls this restore_block; the result is a
// throwaway in-memory buffer the caller discards with Destroy once the
// operation touching it completes — non-unique blocks are never persisted.
func (b *Block) Restore(unique *Block) {
	if b.IsUnique {
		return
	}
	permuted := permuteShape(unique.Shape, b.PermToUnique)
	b.Shape = permuted
	n := b.Size()
	if arith.IsComplex() {
		b.bufC = make([]complex128, n)
		restoreComplex(b, unique)
	} else {
		b.bufR = make([]float64, n)
		restoreReal(b, unique)
	}
}

// Destroy discards a restored non-unique block's buffer, mirroring
// destroy_block: it is an error to call this on a genuinely unique block,
// since those own their data and must go through Unload/Store instead.
func (b *Block) Destroy() {
	b.bufR = nil
	b.bufC = nil
}

func permuteShape(shape []int, perm []int) []int {
	out := make([]int, len(shape))
	for i, p := range perm {
		out[i] = shape[p]
	}
	return out
}

func restoreReal(dst, src *Block) {
	idx := make([]int, dst.Rank)
	srcIdx := make([]int, dst.Rank)
	var rec func(dim int)
	rec = func(dim int) {
		if dim == dst.Rank {
			for i, p := range dst.PermToUnique {
				srcIdx[p] = idx[i]
			}
			dst.SetReal(idx, float64(dst.Sign)*src.GetReal(srcIdx))
			return
		}
		for i := 0; i < dst.Shape[dim]; i++ {
			idx[dim] = i
			rec(dim + 1)
		}
	}
	rec(0)
}

func restoreComplex(dst, src *Block) {
	idx := make([]int, dst.Rank)
	srcIdx := make([]int, dst.Rank)
	var rec func(dim int)
	rec = func(dim int) {
		if dim == dst.Rank {
			for i, p := range dst.PermToUnique {
				srcIdx[p] = idx[i]
			}
			sign := complex(float64(dst.Sign), 0)
			dst.SetComplex(idx, sign*src.GetComplex(srcIdx))
			return
		}
		for i := 0; i < dst.Shape[dim]; i++ {
			idx[dim] = i
			rec(dim + 1)
		}
	}
	rec(0)
}
