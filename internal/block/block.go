// Package block implements the Block type: a dense sub-tensor for one
// tuple of spinor-block indices, with the uniqueness/antisymmetry
// bookkeeping that lets the engine avoid storing every permutation of an
// antisymmetric tensor separately.
package block

import (
	"github.com/relcc/tcengine/internal/arith"
	"github.com/relcc/tcengine/internal/errs"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
)

// Valence marks whether a dimension is restricted to active spinors.
type Valence int

const (
	AnyActivity Valence = iota
	ActiveOnly
)

// dimType classifies a dimension for the uniqueness analysis: hole (h),
// particle (p), active hole (g) or active particle (v).
type dimType int

const (
	typeH dimType = iota
	typeP
	typeG
	typeV
)

func classify(q spinor.QPart, v Valence) dimType {
	switch {
	case q == spinor.Hole && v == AnyActivity:
		return typeH
	case q == spinor.Particle && v == AnyActivity:
		return typeP
	case q == spinor.Hole && v == ActiveOnly:
		return typeG
	default:
		return typeV
	}
}

// Block is one dense sub-tensor of a diagram, addressed by a tuple of
// spinor blocks.
type Block struct {
	ID           int64
	Rank         int
	SpinorBlocks []int    // length Rank, spinor-block ids per dimension
	Shape        []int    // length Rank, surviving spinor count per dimension
	Indices      [][]int  // length Rank, global spinor indices per dimension

	IsUnique     bool
	Sign         int8 // +1 or -1; meaningful only when !IsUnique
	NEqualPerms  int  // orbit size
	PermToUnique []int // dimension permutation mapping this block to its unique twin, when !IsUnique

	Storage  storage.Mode
	FilePath string // set when Storage == OnDisk

	bufR []float64
	bufC []complex128
}

// Size is the total element count, product of Shape.
func (b *Block) Size() int {
	if b.Storage == storage.Dummy {
		return 0
	}
	n := 1
	for _, s := range b.Shape {
		n *= s
	}
	return n
}

var nextID int64

func allocID() int64 {
	nextID++
	return nextID
}

// New filters the spinor blocks named by spinorBlockIDs according to
// qparts/valence/t3space, builds the resulting Block, and — if onlyUnique
// is set — runs the uniqueness/antisymmetry analysis of §4.3.1. A block
// whose filtered shape is zero along any dimension becomes Dummy
// regardless of the requested storage mode.
func New(cat *spinor.Catalog, spinorBlockIDs []int, qparts []spinor.QPart, valence []Valence, t3space []bool, order []int, storageMode storage.Mode, onlyUnique bool) *Block {
	rank := len(spinorBlockIDs)
	if len(qparts) != rank || len(valence) != rank || len(order) != rank {
		errs.Fatal(errs.New(errs.KindMalformed, "block: rank mismatch building block (rank=%d)", rank))
	}

	b := &Block{
		ID:           allocID(),
		Rank:         rank,
		SpinorBlocks: append([]int(nil), spinorBlockIDs...),
		Shape:        make([]int, rank),
		Indices:      make([][]int, rank),
		IsUnique:     true,
		Sign:         1,
		NEqualPerms:  1,
	}

	dummy := false
	for dim, sbID := range spinorBlockIDs {
		sb := cat.BlockByID(sbID)
		var kept []int
		for _, idx := range sb.Spinors {
			if cat.IsHole(idx) != (qparts[dim] == spinor.Hole) {
				continue
			}
			if valence[dim] == ActiveOnly && !cat.IsActive(idx) {
				continue
			}
			if t3space != nil && t3space[dim] && !cat.IsT3Space(idx) {
				continue
			}
			kept = append(kept, idx)
		}
		b.Indices[dim] = kept
		b.Shape[dim] = len(kept)
		if len(kept) == 0 {
			dummy = true
		}
	}

	if dummy {
		b.Storage = storage.Dummy
		return b
	}

	if onlyUnique {
		analyzeUniqueness(b, qparts, valence, order)
	}

	if !b.IsUnique {
		b.Storage = storage.Dummy
		return b
	}

	b.Storage = storageMode
	b.allocate()
	return b
}

func (b *Block) allocate() {
	n := b.Size()
	if arith.IsComplex() {
		b.bufC = make([]complex128, n)
	} else {
		b.bufR = make([]float64, n)
	}
}

// rankPermutations lists, for half-rank n in {1,2,3}, every permutation of
// 0..n-1 paired with its parity sign — the same fixed tables the reference
// engine's block_unique keys off of for rank 2/4/6 diagrams.
var rankPermutations = map[int][]struct {
	perm []int
	sign int8
}{
	1: {{[]int{0}, 1}},
	2: {{[]int{0, 1}, 1}, {[]int{1, 0}, -1}},
	3: {
		{[]int{0, 1, 2}, 1},
		{[]int{0, 2, 1}, -1},
		{[]int{1, 2, 0}, 1},
		{[]int{1, 0, 2}, -1},
		{[]int{2, 0, 1}, 1},
		{[]int{2, 1, 0}, -1},
	},
}

func analyzeUniqueness(b *Block, qparts []spinor.QPart, valence []Valence, order []int) {
	rank := b.Rank
	if rank == 2 {
		return
	}
	n := rank / 2

	reverseOrder := make([]int, rank)
	for i, o := range order {
		reverseOrder[o-1] = i
	}

	normType := make([]dimType, rank)
	normSB := make([]int, rank)
	for i := 0; i < rank; i++ {
		src := reverseOrder[i]
		normType[i] = classify(qparts[src], valence[src])
		normSB[i] = b.SpinorBlocks[src]
	}

	oneTypeBra := allSameType(normType[:n])
	oneTypeKet := allSameType(normType[n:])

	perms, ok := rankPermutations[n]
	if !ok {
		errs.Fatal(errs.New(errs.KindMalformed, "block: no permutation table for half-rank %d (rank-8+ unimplemented)", n))
	}

	braUnique, braSign, braOrbit, braPerm := true, int8(1), 1, identity(n)
	if oneTypeBra {
		braUnique, braSign, braOrbit, braPerm = resolveHalf(normSB[:n], perms)
	}
	ketUnique, ketSign, ketOrbit, ketPerm := true, int8(1), 1, identity(n)
	if oneTypeKet {
		ketUnique, ketSign, ketOrbit, ketPerm = resolveHalf(normSB[n:], perms)
	}

	b.NEqualPerms = braOrbit * ketOrbit
	if braUnique && ketUnique {
		b.IsUnique = true
		b.Sign = 1
		return
	}

	b.IsUnique = false
	b.Sign = braSign * ketSign
	full := make([]int, rank)
	for i := 0; i < n; i++ {
		full[i] = braPerm[i]
		full[n+i] = n + ketPerm[i]
	}
	b.PermToUnique = full
}

func allSameType(types []dimType) bool {
	for i := 1; i < len(types); i++ {
		if types[i] != types[0] {
			return false
		}
	}
	return true
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// resolveHalf finds the permutation of spb that sorts it into ascending
// order, using the fixed permutation table for this half-rank, and returns
// whether it was already sorted (unique), the sign of that permutation,
// the orbit size (how many spinor-block tuples are equal under the
// half-rank's permutation group), and the permutation itself.
func resolveHalf(spb []int, perms []struct {
	perm []int
	sign int8
}) (unique bool, sign int8, orbit int, perm []int) {
	n := len(spb)
	for _, p := range perms {
		buf := make([]int, n)
		for i, pi := range p.perm {
			buf[i] = spb[pi]
		}
		if ascending(buf) {
			return p.sign == 1 && isIdentity(p.perm), p.sign, orbitSize(spb), append([]int(nil), p.perm...)
		}
	}
	errs.Fatal(errs.New(errs.KindMalformed, "block: no sorting permutation found for half-rank %d", n))
	return false, 0, 0, nil
}

func isIdentity(p []int) bool {
	for i, v := range p {
		if i != v {
			return false
		}
	}
	return true
}

func ascending(a []int) bool {
	for i := 1; i < len(a); i++ {
		if a[i] < a[i-1] {
			return false
		}
	}
	return true
}

// orbitSize counts equal-valued runs in spb to get the size of the orbit
// under permutation of identically-labelled dimensions: all distinct ->
// n!, a repeated pair collapses some permutations, all equal collapses to
// the identity only. This matches the rank-4/6 special-case tables in the
// reference implementation generalized to arbitrary half-rank via the
// multinomial coefficient n! / prod(run-lengths!).
func orbitSize(spb []int) int {
	n := len(spb)
	sorted := append([]int(nil), spb...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] < sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	total := factorial(n)
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		total /= factorial(j - i)
		i = j
	}
	return total
}

func factorial(n int) int {
	r := 1
	for i := 2; i <= n; i++ {
		r *= i
	}
	return r
}
