// Package diagram implements the Diagram type: a named, rank-r tensor
// enumerating every spinor-block tuple allowed by its quasiparticle,
// valence, t3-space and symmetry constraints, as a collection of Blocks.
package diagram

import (
	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/errs"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
	"github.com/relcc/tcengine/internal/symmetry"
)

// Diagram is a named rank-r tensor over spinor-block tuples.
type Diagram struct {
	Name    string
	Rank    int
	QParts  []spinor.QPart
	Valence []block.Valence
	T3Space []bool
	Order   []int // permutation of 1..Rank: annihilation dims first, creation dims last
	Irrep   symmetry.Irrep

	Blocks []*block.Block
	index  map[string]*block.Block // key: spinor-block tuple, for FindBlock
}

func tupleKey(ids []int) string {
	b := make([]byte, 0, len(ids)*4)
	for _, id := range ids {
		b = append(b, byte(id), byte(id>>8), byte(id>>16), byte(id>>24))
	}
	return string(b)
}

// Template enumerates all spinor-block tuples of rank len(qparts) whose
// irrep product (accounting for conjugation of the bra half) contains
// operatorIrrep, and builds a block for each via block.New. The diagram's
// own Irrep field records operatorIrrep. Diagrams are zero-initialised:
// every block starts as all-zero (or Dummy when symmetry-forbidden or
// filtered to an empty shape).
func Template(name string, sym *symmetry.Table, cat *spinor.Catalog, qparts []spinor.QPart, valence []block.Valence, t3space []bool, order []int, operatorIrrep symmetry.Irrep, mode storage.Mode, onlyUnique bool) *Diagram {
	rank := len(qparts)
	if len(valence) != rank || len(order) != rank {
		errs.Fatal(errs.New(errs.KindMalformed, "diagram: rank mismatch templating %q", name))
	}

	d := &Diagram{
		Name:    name,
		Rank:    rank,
		QParts:  append([]spinor.QPart(nil), qparts...),
		Valence: append([]block.Valence(nil), valence...),
		T3Space: t3space,
		Order:   append([]int(nil), order...),
		Irrep:   operatorIrrep,
		index:   make(map[string]*block.Block),
	}

	n := rank / 2
	classesByQPart := func(q spinor.QPart) []*spinor.Block {
		var out []*spinor.Block
		for id := 0; id < cat.NBlocks(); id++ {
			sb := cat.BlockByID(id)
			if len(sb.Spinors) == 0 {
				continue
			}
			if cat.IsHole(sb.Spinors[0]) == (q == spinor.Hole) {
				out = append(out, sb)
			}
		}
		return out
	}

	var enumerate func(dim int, tuple []int, braGamma, ketGamma []symmetry.Irrep)
	enumerate = func(dim int, tuple []int, braGamma, ketGamma []symmetry.Irrep) {
		if dim == rank {
			gamma := append(append([]symmetry.Irrep(nil), braGamma...), ketGamma...)
			gamma = append(gamma, operatorIrrep)
			if !sym.ContainsTotallySymmetric(braGamma, append(append([]symmetry.Irrep(nil), ketGamma...), operatorIrrep)) {
				return
			}
			b := block.New(cat, append([]int(nil), tuple...), qparts, valence, t3space, order, mode, onlyUnique)
			d.Blocks = append(d.Blocks, b)
			d.index[tupleKey(tuple)] = b
			return
		}
		for _, sb := range classesByQPart(qparts[dim]) {
			tuple = append(tuple, sb.ID)
			if dim < n {
				enumerate(dim+1, tuple, append(braGamma, sb.Irrep), ketGamma)
			} else {
				enumerate(dim+1, tuple, braGamma, append(ketGamma, sb.Irrep))
			}
			tuple = tuple[:len(tuple)-1]
		}
	}
	enumerate(0, nil, nil, nil)
	return d
}

// FindBlock returns the block matching spinorBlockTuple, or nil.
func (d *Diagram) FindBlock(spinorBlockTuple []int) *block.Block {
	return d.index[tupleKey(spinorBlockTuple)]
}

// Summary reports per-storage-class block counts and aggregate bytes,
// for run diagnostics.
type Summary struct {
	TotalBlocks  int
	InMemory     int
	OnDisk       int
	Dummy        int
	MemoryBytes  int64
	DiskBytes    int64
}

func (d *Diagram) Summary(elemBytes int64) Summary {
	var s Summary
	s.TotalBlocks = len(d.Blocks)
	for _, b := range d.Blocks {
		switch b.Storage {
		case storage.InMemory:
			s.InMemory++
			s.MemoryBytes += int64(b.Size()) * elemBytes
		case storage.OnDisk:
			s.OnDisk++
			s.DiskBytes += int64(b.Size()) * elemBytes
		case storage.Dummy:
			s.Dummy++
		}
	}
	return s
}
