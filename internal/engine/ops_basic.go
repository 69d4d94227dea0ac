package engine

import (
	"math"
	"math/cmplx"

	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/errs"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
	"github.com/relcc/tcengine/internal/symmetry"
)

// Template enumerates a fresh diagram's blocks and pushes it onto the
// stack under name.
func (c *Context) Template(name string, qparts []spinor.QPart, valence []block.Valence, t3space []bool, order []int, operatorIrrep symmetry.Irrep, permUnique bool) *diagram.Diagram {
	mode := c.policy().ModeFor(len(qparts), storageQParts(qparts))
	d := diagram.Template(name, c.Symmetry, c.Spinors, qparts, valence, t3space, order, operatorIrrep, mode, permUnique)
	c.Stack.Push(d)
	return d
}

func storageQParts(qparts []spinor.QPart) []storage.QPart {
	out := make([]storage.QPart, len(qparts))
	for i, q := range qparts {
		out[i] = storage.QPart(q)
	}
	return out
}

// Clear sets every element of A to zero, respecting storage: buffers held
// in memory are zeroed in place, and a block whose data lives in a scratch
// file is loaded, zeroed and written back. Dummy blocks carry no data.
func (c *Context) Clear(a *diagram.Diagram) {
	for _, b := range a.Blocks {
		if b.Storage == storage.OnDisk && b.FilePath != "" {
			b.Load(c.Storage)
			b.Clear()
			b.Store(c.Storage)
			continue
		}
		b.Clear()
	}
}

// Copy creates B with A's template if needed and copies buffers
// block-by-block.
func (c *Context) Copy(a *diagram.Diagram, nameB string) *diagram.Diagram {
	existing := c.Stack.Get(nameB)
	if existing != nil && sameTemplate(existing, a) {
		copyBlocks(existing, a)
		return existing
	}
	mode := c.policy().ModeFor(a.Rank, storageQParts(a.QParts))
	b := diagram.Template(nameB, c.Symmetry, c.Spinors, a.QParts, a.Valence, a.T3Space, a.Order, a.Irrep, mode, true)
	copyBlocks(b, a)
	if existing != nil {
		c.Stack.Replace(b)
	} else {
		c.Stack.Push(b)
	}
	return b
}

func sameTemplate(b, a *diagram.Diagram) bool {
	return b.Rank == a.Rank && len(b.Blocks) == len(a.Blocks)
}

func copyBlocks(dst, src *diagram.Diagram) {
	for _, sb := range src.Blocks {
		db := dst.FindBlock(sb.SpinorBlocks)
		if db == nil || sb.Storage.String() == "dummy" {
			continue
		}
		block.CopyData(db, sb)
	}
}

// Add computes C = alpha*A + beta*B elementwise, block by block. C is
// (re)built fresh from A's template rather than seeded via Copy, since the
// combination already accounts for A's own contribution through alpha.
func (c *Context) Add(alphaR, betaR float64, alphaC, betaC complex128, a, b *diagram.Diagram, nameC string) *diagram.Diagram {
	if a.Rank != b.Rank {
		errs.Fatal(errs.New(errs.KindMalformed, "engine: add shape mismatch rank %d vs %d", a.Rank, b.Rank))
	}
	existing := c.Stack.Get(nameC)
	var out *diagram.Diagram
	if existing != nil && sameTemplate(existing, a) {
		out = existing
	} else {
		mode := c.policy().ModeFor(a.Rank, storageQParts(a.QParts))
		out = diagram.Template(nameC, c.Symmetry, c.Spinors, a.QParts, a.Valence, a.T3Space, a.Order, a.Irrep, mode, true)
	}
	for _, cb := range out.Blocks {
		if cb.Storage.String() == "dummy" {
			continue
		}
		ab := a.FindBlock(cb.SpinorBlocks)
		bb := b.FindBlock(cb.SpinorBlocks)
		combine(cb, alphaR, alphaC, ab, betaR, betaC, bb)
	}
	if existing != nil {
		c.Stack.Replace(out)
	} else {
		c.Stack.Push(out)
	}
	return out
}

// Update accumulates target += alpha*A in place.
func (c *Context) Update(target *diagram.Diagram, alphaR float64, alphaC complex128, a *diagram.Diagram) {
	for _, ab := range a.Blocks {
		cb := target.FindBlock(ab.SpinorBlocks)
		if cb == nil {
			continue
		}
		accumulate(cb, alphaR, alphaC, ab)
	}
}

// combine sets dst := scaleA*a + scaleB*b elementwise, overwriting
// whatever dst previously held; either operand may be nil (treated as 0).
func combine(dst *block.Block, scaleAR float64, scaleAC complex128, a *block.Block, scaleBR float64, scaleBC complex128, b *block.Block) {
	if dst.DataComplex() != nil {
		d := dst.DataComplex()
		for i := range d {
			var v complex128
			if a != nil {
				v += scaleAC * a.DataComplex()[i]
			}
			if b != nil {
				v += scaleBC * b.DataComplex()[i]
			}
			d[i] = v
		}
		return
	}
	d := dst.DataReal()
	for i := range d {
		var v float64
		if a != nil {
			v += scaleAR * a.DataReal()[i]
		}
		if b != nil {
			v += scaleBR * b.DataReal()[i]
		}
		d[i] = v
	}
}

// accumulate adds scale*src into dst in place: dst += scale*src.
func accumulate(dst *block.Block, scaleR float64, scaleC complex128, src *block.Block) {
	if dst.DataComplex() != nil {
		d := dst.DataComplex()
		s := src.DataComplex()
		for i := range d {
			d[i] += scaleC * s[i]
		}
		return
	}
	d := dst.DataReal()
	s := src.DataReal()
	for i := range d {
		d[i] += scaleR * s[i]
	}
}

// ScalarProduct contracts every dimension of A and B, optionally
// conjugating either operand element-wise first.
func (c *Context) ScalarProduct(conjA, conjB bool, a, b *diagram.Diagram) complex128 {
	if a.Rank != b.Rank {
		errs.Fatal(errs.New(errs.KindMalformed, "engine: scalar_product rank mismatch %d vs %d", a.Rank, b.Rank))
	}
	var sum complex128
	for _, ab := range a.Blocks {
		bb := b.FindBlock(ab.SpinorBlocks)
		if bb == nil || ab.Storage.String() == "dummy" {
			continue
		}
		if ab.DataComplex() != nil {
			da, db := ab.DataComplex(), bb.DataComplex()
			for i := range da {
				va, vb := da[i], db[i]
				if conjA {
					va = cmplx.Conj(va)
				}
				if conjB {
					vb = cmplx.Conj(vb)
				}
				sum += va * vb
			}
		} else {
			da, db := ab.DataReal(), bb.DataReal()
			for i := range da {
				sum += complex(da[i]*db[i], 0)
			}
		}
	}
	return sum
}

// FindMax reports the maximum absolute value over all blocks of A and its
// compound index.
func (c *Context) FindMax(a *diagram.Diagram) (value float64, idx []int, blockID int64) {
	return reduceMax(a, nil)
}

// DiffMax reports the maximum absolute difference between A and B.
func (c *Context) DiffMax(a, b *diagram.Diagram) (value float64, idx []int, blockID int64) {
	return reduceMax(a, b)
}

func reduceMax(a, b *diagram.Diagram) (best float64, bestIdx []int, bestBlock int64) {
	for _, ab := range a.Blocks {
		if ab.Storage.String() == "dummy" {
			continue
		}
		var bb *block.Block
		if b != nil {
			bb = b.FindBlock(ab.SpinorBlocks)
			if bb == nil {
				continue
			}
		}
		indices := ab.GenIndices()
		for _, idx := range indices {
			var v float64
			if ab.DataComplex() != nil {
				va := ab.GetComplex(idx)
				if b != nil {
					va -= bb.GetComplex(idx)
				}
				v = cmplx.Abs(va)
			} else {
				va := ab.GetReal(idx)
				if b != nil {
					va -= bb.GetReal(idx)
				}
				v = math.Abs(va)
			}
			if v > best {
				best = v
				bestIdx = idx
				bestBlock = ab.ID
			}
		}
	}
	return best, bestIdx, bestBlock
}

// ClearNonUnique zeroes (discards) any leftover in-memory data on
// non-unique blocks — they are reconstructed from their unique twin on
// demand and should never carry persisted content.
func (c *Context) ClearNonUnique(a *diagram.Diagram) {
	for _, b := range a.Blocks {
		if !b.IsUnique {
			b.Destroy()
		}
	}
}

// CheckUnique verifies that every non-dummy block's IsUnique/PermToUnique
// bookkeeping is internally consistent, fatally aborting otherwise. It is
// run before serialisation to normalise storage.
func (c *Context) CheckUnique(a *diagram.Diagram) {
	for _, b := range a.Blocks {
		if b.Storage.String() == "dummy" {
			continue
		}
		if !b.IsUnique && len(b.PermToUnique) != b.Rank {
			errs.Fatal(errs.New(errs.KindMalformed, "engine: block %d has inconsistent perm_to_unique", b.ID))
		}
	}
}
