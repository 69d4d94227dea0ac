// Package symmetry models the point-group irrep catalogue a diagram's
// blocks are indexed by: abelian and non-abelian direct-product
// decomposition, and the totally-symmetric selection rule that decides
// whether a given bra/ket irrep tuple yields a nonzero block.
package symmetry

import "github.com/relcc/tcengine/internal/errs"

// Irrep indexes one row/column of the direct-product table.
type Irrep int

// MaxDPDStack bounds the running partial-sum used by DecomposeProduct; it
// mirrors the reference engine's fixed CC_MAX_DPD_STACK_SIZE scratch array,
// sized for ranks up through full quadruples DPD chains.
const MaxDPDStack = 64

// Table is a symmetry catalogue: the irrep names, whether the point group
// is abelian, the totally symmetric irrep, and the direct-product data
// needed to decompose and test products of irreps.
type Table struct {
	names     []string
	abelian   bool
	totSym    Irrep
	pointGrp  string
	abelProd  [][]Irrep   // abelProd[i][j] = i (x) j, abelian-only fast path
	prodSum   [][][]Irrep // prodSum[i][j] = direct sum decomposition of i (x) j
}

// NewAbelian builds a catalogue for an abelian point group from its
// multiplication table. abelProd[i][j] must equal abelProd[j][i] and every
// row/column must be a permutation of 0..n-1 (group closure); callers
// building the table from a generated product (as opposed to a hardcoded
// literal) should verify this themselves.
func NewAbelian(pointGroup string, names []string, totSym Irrep, prod [][]Irrep) *Table {
	n := len(names)
	prodSum := make([][][]Irrep, n)
	for i := range prodSum {
		prodSum[i] = make([][]Irrep, n)
		for j := range prodSum[i] {
			prodSum[i][j] = []Irrep{prod[i][j]}
		}
	}
	return &Table{
		names:    append([]string(nil), names...),
		abelian:  true,
		totSym:   totSym,
		pointGrp: pointGroup,
		abelProd: prod,
		prodSum:  prodSum,
	}
}

// NewNonAbelian builds a catalogue for a non-abelian (or continuous,
// truncated) point group from its full direct-sum decomposition table:
// prodSum[i][j] lists every irrep appearing in the direct product i (x) j,
// multiplicities omitted (as in the reference dir_prod_table).
func NewNonAbelian(pointGroup string, names []string, totSym Irrep, prodSum [][][]Irrep) *Table {
	return &Table{
		names:    append([]string(nil), names...),
		abelian:  false,
		totSym:   totSym,
		pointGrp: pointGroup,
		prodSum:  prodSum,
	}
}

func (t *Table) NIrreps() int        { return len(t.names) }
func (t *Table) PointGroup() string  { return t.pointGrp }
func (t *Table) IsAbelian() bool     { return t.abelian }
func (t *Table) TotallySymmetric() Irrep { return t.totSym }

// Name returns the display name of irrep irep.
func (t *Table) Name(irep Irrep) string {
	if irep < 0 || int(irep) >= len(t.names) {
		errs.Fatal(errs.New(errs.KindMalformed, "symmetry: irrep index %d out of range", irep))
	}
	return t.names[irep]
}

// ByName finds the irrep numbered 'name', or -1 if it isn't in the
// catalogue.
func (t *Table) ByName(name string) Irrep {
	for i, n := range t.names {
		if n == name {
			return Irrep(i)
		}
	}
	return -1
}

// Mul returns the direct product of two irreps in an abelian group; it is
// an alias for MulAbelian kept for callers that don't care about the
// abelian/non-abelian distinction by name.
func (t *Table) Mul(a, b Irrep) Irrep {
	return t.MulAbelian(a, b)
}

// MulAbelian returns the direct product of two irreps in an abelian group.
// Callers must check IsAbelian first; calling this on a non-abelian table
// is a programmer error.
func (t *Table) MulAbelian(a, b Irrep) Irrep {
	if !t.abelian {
		errs.Fatal(errs.New(errs.KindMalformed, "symmetry: MulAbelian called on non-abelian group %s", t.pointGrp))
	}
	return t.abelProd[a][b]
}

// InverseAbelian returns the irrep whose product with irep is the totally
// symmetric irrep.
func (t *Table) InverseAbelian(irep Irrep) Irrep {
	for j := Irrep(0); int(j) < len(t.names); j++ {
		if t.MulAbelian(irep, j) == t.totSym {
			return j
		}
	}
	errs.Fatal(errs.New(errs.KindMalformed, "symmetry: no inverse for irrep %s in group %s", t.Name(irep), t.pointGrp))
	return -1
}

// DecomposeProduct multiplies a chain of irreps and returns the set of
// irreps appearing in the direct-sum decomposition (multiplicities
// omitted). It evaluates right to left using a running partial-sum stack,
// the same inverse-Polish scheme the reference engine's dpd_prod_to_sum
// uses to avoid building the full tensor-product state space.
func (t *Table) DecomposeProduct(gamma []Irrep) []Irrep {
	if len(gamma) == 0 {
		return nil
	}
	if len(gamma) == 1 {
		return []Irrep{gamma[0]}
	}
	stack := append([]Irrep(nil), gamma[len(gamma)-1])
	for i := len(gamma) - 2; i >= 0; i-- {
		op1 := gamma[i]
		var next []Irrep
		for _, op2 := range stack {
			next = append(next, t.prodSum[op1][op2]...)
		}
		if len(next) > MaxDPDStack {
			errs.Fatal(errs.New(errs.KindCapacity, "symmetry: DPD partial sum overflowed %d entries", MaxDPDStack))
		}
		stack = next
	}
	return dedupe(stack)
}

func dedupe(in []Irrep) []Irrep {
	seen := make(map[Irrep]bool, len(in))
	out := make([]Irrep, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// ContainsTotallySymmetric reports whether the direct product of the bra
// irreps and the ket irreps contains the totally symmetric irrep — the
// selection rule deciding whether a symmetry block is allowed to be
// nonzero. Ranks 2, 4 and 6 use closed-form abelian fast paths; everything
// else falls back to the general decomposition.
func (t *Table) ContainsTotallySymmetric(braGamma, ketGamma []Irrep) bool {
	if t.abelian {
		switch {
		case len(braGamma) == 1 && len(ketGamma) == 1:
			return braGamma[0] == ketGamma[0]
		case len(braGamma) == 2 && len(ketGamma) == 2:
			left := t.MulAbelian(braGamma[0], braGamma[1])
			right := t.MulAbelian(ketGamma[0], ketGamma[1])
			return left == right
		case len(braGamma) == 3 && len(ketGamma) == 3:
			left := t.MulAbelian(t.MulAbelian(braGamma[0], braGamma[1]), braGamma[2])
			right := t.MulAbelian(t.MulAbelian(ketGamma[0], ketGamma[1]), ketGamma[2])
			return left == right
		}
	}
	braSum := t.DecomposeProduct(braGamma)
	ketSum := t.DecomposeProduct(ketGamma)
	for _, b := range braSum {
		for _, k := range ketSum {
			if b == k {
				return true
			}
		}
	}
	return false
}

// OperatorSymmetry returns the irrep of an operator whose matrix elements
// connect the given bra and ket irrep (the irrep such that
// bra (x) operator (x) ket contains the totally symmetric irrep), valid
// for abelian groups where MulAbelian and InverseAbelian apply directly.
func (t *Table) OperatorSymmetry(bra, ket Irrep) Irrep {
	return t.InverseAbelian(t.MulAbelian(bra, ket))
}
