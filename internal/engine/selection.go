package engine

import (
	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/storage"
)

// SelectionKind names one of the built-in element predicates selection can
// apply.
type SelectionKind int

const (
	SelectAll SelectionKind = iota
	// SelectSpectator keeps elements where some global spinor index appears
	// on both the annihilation and creation side of the tuple (it acts as a
	// spectator rather than being excited).
	SelectSpectator
	// SelectActiveToActive keeps elements where every index is active.
	SelectActiveToActive
	// SelectMaxInactive keeps elements with at most MaxInactive inactive
	// indices.
	SelectMaxInactive
	// SelectExcitationWindow keeps elements whose Moller-Plesset denominator
	// falls within Window.
	SelectExcitationWindow
	// SelectOrbitalWindow keeps elements all of whose spinor energies fall
	// within Window.
	SelectOrbitalWindow
)

// SelectionRule parameterises Selection.
type SelectionRule struct {
	Kind        SelectionKind
	Window      [2]float64
	MaxInactive int
}

// Selection zeros every element of A not matching rule, leaving matching
// elements untouched.
func (c *Context) Selection(a *diagram.Diagram, rule SelectionRule) {
	if rule.Kind == SelectAll {
		return
	}
	k := a.Rank / 2
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			if selectionMatch(c, a, blk, idx, k, rule) {
				continue
			}
			if blk.DataComplex() != nil {
				blk.SetComplex(idx, 0)
			} else {
				blk.SetReal(idx, 0)
			}
		}
	}
}

func selectionMatch(c *Context, d *diagram.Diagram, blk *block.Block, idx []int, k int, rule SelectionRule) bool {
	switch rule.Kind {
	case SelectAll:
		return true
	case SelectActiveToActive:
		for dim, rel := range idx {
			g := blk.Indices[dim][rel]
			if !c.Spinors.Spinor(g).Active {
				return false
			}
		}
		return true
	case SelectMaxInactive:
		count := 0
		for dim, rel := range idx {
			g := blk.Indices[dim][rel]
			if !c.Spinors.Spinor(g).Active {
				count++
			}
		}
		return count <= rule.MaxInactive
	case SelectSpectator:
		annihilated := make(map[int]bool)
		for dim, rel := range idx {
			if d.Order[dim] <= k {
				annihilated[blk.Indices[dim][rel]] = true
			}
		}
		for dim, rel := range idx {
			if d.Order[dim] > k && annihilated[blk.Indices[dim][rel]] {
				return true
			}
		}
		return false
	case SelectExcitationWindow:
		v := denominator(c, d, blk, idx, k)
		return v >= rule.Window[0] && v <= rule.Window[1]
	case SelectOrbitalWindow:
		for dim, rel := range idx {
			e := c.Spinors.Spinor(blk.Indices[dim][rel]).Energy
			if e < rule.Window[0] || e > rule.Window[1] {
				return false
			}
		}
		return true
	default:
		return true
	}
}
