package block

import (
	"github.com/relcc/tcengine/internal/arith"
	"github.com/relcc/tcengine/internal/errs"
	"github.com/relcc/tcengine/internal/storage"
)

// GenIndices materialises every compound (dimension-relative) index of the
// block, in row-major order, and returns them as a new slice of Size()
// entries, each of length Rank.
func (b *Block) GenIndices() [][]int {
	n := b.Size()
	out := make([][]int, 0, n)
	idx := make([]int, b.Rank)
	var rec func(dim int)
	rec = func(dim int) {
		if dim == b.Rank {
			out = append(out, append([]int(nil), idx...))
			return
		}
		for i := 0; i < b.Shape[dim]; i++ {
			idx[dim] = i
			rec(dim + 1)
		}
	}
	if n > 0 {
		rec(0)
	}
	return out
}

func (b *Block) linearOffset(relIdx []int) (off int, ok bool) {
	if len(relIdx) != b.Rank {
		errs.Fatal(errs.New(errs.KindMalformed, "block: index tuple length %d != rank %d", len(relIdx), b.Rank))
	}
	off = 0
	for dim, i := range relIdx {
		if i < 0 || i >= b.Shape[dim] {
			return 0, false
		}
		off = off*b.Shape[dim] + i
	}
	return off, true
}

// GetReal returns the element at relIdx (dimension-relative, not absolute
// spinor indices), or 0 if the tuple falls outside the block's shape.
func (b *Block) GetReal(relIdx []int) float64 {
	off, ok := b.linearOffset(relIdx)
	if !ok || b.bufR == nil {
		return 0
	}
	return b.bufR[off]
}

// GetComplex is the complex-arithmetic counterpart of GetReal.
func (b *Block) GetComplex(relIdx []int) complex128 {
	off, ok := b.linearOffset(relIdx)
	if !ok || b.bufC == nil {
		return 0
	}
	return b.bufC[off]
}

// SetReal stores value at relIdx; a tuple outside the block's shape is a
// no-op, matching the data model's missing-index convention.
func (b *Block) SetReal(relIdx []int, value float64) {
	off, ok := b.linearOffset(relIdx)
	if !ok || b.bufR == nil {
		return
	}
	b.bufR[off] = value
}

func (b *Block) SetComplex(relIdx []int, value complex128) {
	off, ok := b.linearOffset(relIdx)
	if !ok || b.bufC == nil {
		return
	}
	b.bufC[off] = value
}

// DataReal/DataComplex expose the raw backing buffer for the contraction
// kernel's GEMM views. Only the buffer matching the current arithmetic
// mode is non-nil.
func (b *Block) DataReal() []float64      { return b.bufR }
func (b *Block) DataComplex() []complex128 { return b.bufC }

// SetBufferReal/SetBufferComplex install a buffer read back from
// serialised storage, for diagram.Read.
func (b *Block) SetBufferReal(buf []float64)      { b.bufR = buf }
func (b *Block) SetBufferComplex(buf []complex128) { b.bufC = buf }

// Clear zeroes every element of the block, respecting storage: an on-disk
// or dummy block needs no in-memory work.
func (b *Block) Clear() {
	for i := range b.bufR {
		b.bufR[i] = 0
	}
	for i := range b.bufC {
		b.bufC[i] = 0
	}
}

// CopyData copies src's buffer into dst; both must share Shape (hence
// Size).
func CopyData(dst, src *Block) {
	if dst.Size() != src.Size() {
		errs.Fatal(errs.New(errs.KindMalformed, "block: CopyData shape mismatch %d vs %d", dst.Size(), src.Size()))
	}
	if src.bufR != nil {
		if dst.bufR == nil {
			dst.bufR = make([]float64, len(src.bufR))
		}
		copy(dst.bufR, src.bufR)
	}
	if src.bufC != nil {
		if dst.bufC == nil {
			dst.bufC = make([]complex128, len(src.bufC))
		}
		copy(dst.bufC, src.bufC)
	}
}

// Load reads an on-disk block's buffer back into memory via backend,
// allocating a fresh buffer; it is a no-op if the block is already
// in-memory.
func (b *Block) Load(backend *storage.Backend) {
	if b.Storage != storage.OnDisk {
		return
	}
	n := b.Size()
	if arith.IsComplex() {
		b.bufC = backend.ReadComplex128(b.FilePath, n)
	} else {
		b.bufR = backend.ReadFloat64(b.FilePath, n)
	}
	b.Storage = storage.InMemory
}

// Store writes an in-memory block's buffer to disk via backend and frees
// the in-memory buffer; it is a no-op if the block is already on disk.
func (b *Block) Store(backend *storage.Backend) {
	if b.Storage != storage.InMemory {
		return
	}
	if b.FilePath == "" {
		b.FilePath = backend.NewFile()
	}
	if b.bufC != nil {
		backend.WriteComplex128(b.FilePath, b.bufC)
	} else {
		backend.WriteFloat64(b.FilePath, b.bufR)
	}
	b.bufR = nil
	b.bufC = nil
	b.Storage = storage.OnDisk
}

// Unload frees the in-memory buffer without writing it back; the block
// must already have a backing file from a prior Store, or the data is
// lost (the caller's contract, matching the reference engine's
// destroy_block for reconstructed non-unique blocks).
func (b *Block) Unload() {
	b.bufR = nil
	b.bufC = nil
	if b.Storage == storage.InMemory && b.FilePath != "" {
		b.Storage = storage.OnDisk
	}
}
