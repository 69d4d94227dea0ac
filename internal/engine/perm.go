package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/relcc/tcengine/internal/arith"
	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/errs"
	"github.com/relcc/tcengine/internal/storage"
)

// permClause is one "/"-separated group list inside a perm specifier, e.g.
// "3/12" in "(3/12|4/56)": disjoint groups of 1-based dimension positions
// that get fully shuffled against one another with alternating sign — the
// partial antisymmetrizer P(a/bc) = 1 - P_ab - P_ac of the coupled-cluster
// triples equations, generalised to any number and size of groups.
type permClause struct {
	groups [][]int
}

// ParsePermSpec parses a specifier like "(3/12|4/56)" into its clauses.
// Clauses act on disjoint sets of dimension positions; within a clause, the
// '/'-separated groups are shuffled against each other.
func ParsePermSpec(spec string) []permClause {
	spec = strings.TrimSpace(spec)
	spec = strings.TrimPrefix(spec, "(")
	spec = strings.TrimSuffix(spec, ")")
	var clauses []permClause
	for _, part := range strings.Split(spec, "|") {
		var groups [][]int
		for _, g := range strings.Split(part, "/") {
			groups = append(groups, parseDigitGroup(g))
		}
		clauses = append(clauses, permClause{groups: groups})
	}
	return clauses
}

func parseDigitGroup(g string) []int {
	g = strings.TrimSpace(g)
	var out []int
	for _, r := range g {
		n, err := strconv.Atoi(string(r))
		if err != nil {
			errs.Fatal(errs.New(errs.KindMalformed, "engine: perm spec contains non-digit group %q", g))
		}
		out = append(out, n)
	}
	return out
}

// shuffleTerm is one signed term of an antisymmetrizer: src[i] is the
// 1-based source dimension position that contributes to destination
// dimension i+1.
type shuffleTerm struct {
	src  []int // length = rank, identity outside the clauses' positions
	sign int
}

// buildShuffles expands spec into the full set of signed permutation terms
// acting on a rank-dimensional tensor: the Cartesian product of each
// clause's own shuffle set (clauses are required to act on disjoint
// position sets), composed with identity elsewhere.
func buildShuffles(clauses []permClause, rank int) []shuffleTerm {
	terms := []shuffleTerm{{src: identityOrder(rank), sign: 1}}
	seen := make(map[int]bool)
	for _, cl := range clauses {
		localTerms := clauseShuffles(cl)
		var next []shuffleTerm
		for _, base := range terms {
			for _, lt := range localTerms {
				src := append([]int(nil), base.src...)
				for pos, val := range lt.assignment {
					if seen[pos] {
						errs.Fatal(errs.New(errs.KindMalformed, "engine: perm spec clauses overlap at position %d", pos))
					}
					src[pos-1] = val
				}
				next = append(next, shuffleTerm{src: src, sign: base.sign * lt.sign})
			}
		}
		for _, g := range cl.groups {
			for _, p := range g {
				seen[p] = true
			}
		}
		terms = next
	}
	return terms
}

type localShuffle struct {
	assignment map[int]int // destination position -> source position
	sign       int
}

// clauseShuffles enumerates every order-preserving interleaving ("shuffle")
// of a clause's groups: each group's internal relative order is preserved,
// and the sign is the parity of the resulting permutation relative to the
// groups' natural (declared) concatenation order.
func clauseShuffles(cl permClause) []localShuffle {
	var positions []int
	for _, g := range cl.groups {
		positions = append(positions, g...)
	}
	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)

	baseline := append([]int(nil), positions...) // natural group-major order
	rank := make(map[int]int, len(baseline))
	for i, v := range baseline {
		rank[v] = i
	}

	cursors := make([]int, len(cl.groups))
	var out []localShuffle
	var seq []int
	var rec func()
	rec = func() {
		if len(seq) == len(positions) {
			sign := 1
			if inversions(seq, rank)%2 != 0 {
				sign = -1
			}
			assignment := make(map[int]int, len(sorted))
			for i, pos := range sorted {
				assignment[pos] = seq[i]
			}
			out = append(out, localShuffle{assignment: assignment, sign: sign})
			return
		}
		for gi, g := range cl.groups {
			if cursors[gi] >= len(g) {
				continue
			}
			seq = append(seq, g[cursors[gi]])
			cursors[gi]++
			rec()
			cursors[gi]--
			seq = seq[:len(seq)-1]
		}
	}
	rec()
	return out
}

func inversions(seq []int, rank map[int]int) int {
	n := 0
	for i := 0; i < len(seq); i++ {
		for j := i + 1; j < len(seq); j++ {
			if rank[seq[i]] > rank[seq[j]] {
				n++
			}
		}
	}
	return n
}

// Perm applies the antisymmetric permutation projector described by spec
// to A in place, rank-preserving: each output block accumulates signed
// contributions from every shuffled source block, then overwrites A's
// data in a second pass so the read side always sees the pre-perm state.
func (c *Context) Perm(a *diagram.Diagram, spec string) {
	clauses := ParsePermSpec(spec)
	shuffles := buildShuffles(clauses, a.Rank)

	snapshot := make(map[*block.Block]*block.Block, len(a.Blocks))
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		cp := &block.Block{Rank: blk.Rank, Shape: append([]int(nil), blk.Shape...)}
		block.CopyData(cp, blk)
		snapshot[blk] = cp
	}

	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		acc := newAccumulator(blk)
		for _, sh := range shuffles {
			srcTuple := invertTuple(blk.SpinorBlocks, sh.src)
			srcBlk := a.FindBlock(srcTuple)
			if srcBlk == nil {
				continue
			}
			src, ok := snapshot[srcBlk]
			if !ok {
				continue
			}
			acc.add(sh.src, sh.sign, src)
		}
		acc.writeInto(blk)
	}
}

// accumulator collects signed, permuted contributions into a fresh buffer
// the same shape as the destination block before committing it in one
// shot, so Perm's read-everything-then-write-everything contract holds
// even when a block contributes to itself.
type accumulator struct {
	shape []int
	dataR []float64
	dataC []complex128
}

func newAccumulator(dst *block.Block) *accumulator {
	n := dst.Size()
	a := &accumulator{shape: dst.Shape}
	if arith.IsComplex() {
		a.dataC = make([]complex128, n)
	} else {
		a.dataR = make([]float64, n)
	}
	return a
}

func (a *accumulator) add(srcOrder []int, sign int, src *block.Block) {
	idx := make([]int, len(a.shape))
	srcIdx := make([]int, len(a.shape))
	var rec func(dim int)
	rec = func(dim int) {
		if dim == len(a.shape) {
			for i, s := range srcOrder {
				srcIdx[s-1] = idx[i]
			}
			off := 0
			for d, i := range idx {
				off = off*a.shape[d] + i
			}
			if a.dataC != nil {
				a.dataC[off] += complex(float64(sign), 0) * src.GetComplex(srcIdx)
			} else {
				a.dataR[off] += float64(sign) * src.GetReal(srcIdx)
			}
			return
		}
		for i := 0; i < a.shape[dim]; i++ {
			idx[dim] = i
			rec(dim + 1)
		}
	}
	if len(a.dataR) > 0 || len(a.dataC) > 0 {
		rec(0)
	}
}

func (a *accumulator) writeInto(dst *block.Block) {
	if a.dataC != nil {
		copy(dst.DataComplex(), a.dataC)
	} else {
		copy(dst.DataReal(), a.dataR)
	}
}
