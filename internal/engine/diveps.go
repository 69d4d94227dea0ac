package engine

import (
	"math"
	"math/cmplx"

	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/options"
	"github.com/relcc/tcengine/internal/storage"
)

const nearZeroThreshold = 1e-12

// Diveps divides every element of A by the Moller-Plesset denominator built
// from the spinors' orbital energies: for a rank-2k tensor with
// annihilation indices i1..ik and creation indices a1..ak, D = sum(eps_i) -
// sum(eps_a). Which half of A's dimensions is annihilation vs creation
// follows the diagram's Order (normalized annihilation-before-creation
// frame), not raw dimension position. A denominator whose magnitude falls
// below the near-zero threshold is left untouched rather than risking a
// division blow-up; a configured shift policy perturbs D before the divide
// to push artificial near-degeneracies away from zero.
func (c *Context) Diveps(a *diagram.Diagram) {
	k := a.Rank / 2
	shift := c.Options.DenomShift
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			d := denominator(c, a, blk, idx, k)
			if shift.Enabled && shift.Type == options.ShiftImag {
				dc := applyImaginaryShift(d, a.Rank, shift)
				if cmplx.Abs(dc) < nearZeroThreshold {
					continue
				}
				blk.SetComplex(idx, blk.GetComplex(idx)/dc)
				continue
			}
			if shift.Enabled {
				d = applyShift(d, a.Rank, shift)
			}
			if math.Abs(d) < nearZeroThreshold {
				continue
			}
			if blk.DataComplex() != nil {
				blk.SetComplex(idx, blk.GetComplex(idx)/complex(d, 0))
			} else {
				blk.SetReal(idx, blk.GetReal(idx)/d)
			}
		}
	}
}

func denominator(c *Context, d *diagram.Diagram, blk *block.Block, idx []int, k int) float64 {
	var sum float64
	for dim, rel := range idx {
		globalIdx := blk.Indices[dim][rel]
		e := c.Spinors.Spinor(globalIdx).Energy
		if d.Order[dim] <= k {
			sum += e
		} else {
			sum -= e
		}
	}
	return sum
}

// applyShift perturbs a denominator per the configured policy: "real"
// pushes it away from zero by a magnitude attenuated by distance, "taylor"
// adds a Gaussian bump centered on the degeneracy, "real simulation of
// imaginary" adds s²/D — the real part of 1/(D+is) times D² cancels out
// of r/(D+is) exactly when D is replaced by D+s²/D, so this reproduces an
// imaginary level shift's effect without ever leaving real arithmetic.
// ShiftImag itself needs a genuinely complex divisor and is handled by
// applyImaginaryShift at Diveps's complex divide site instead.
func applyShift(d float64, rank int, p options.ShiftParams) float64 {
	r := rank / 2
	if r >= len(p.Shifts) {
		r = len(p.Shifts) - 1
	}
	s := p.Shifts[r]
	if s == 0 {
		return d
	}
	switch p.Type {
	case options.ShiftReal:
		return d + math.Copysign(s, d)/math.Pow(math.Abs(d)+1, float64(p.Power))
	case options.ShiftTaylor:
		return d + s*math.Exp(-float64(p.Power)*d*d)
	case options.ShiftRealImag:
		return d + s*s/d
	default:
		return d
	}
}

// applyImaginaryShift perturbs a denominator with a purely imaginary term
// i*s, attenuated by distance the same way applyShift's "real" policy is.
// Only reached when p.Type is ShiftImag, which forces complex arithmetic
// (Options.RequiresComplexArithmetic), so the divide at the call site is
// always against a complex block.
func applyImaginaryShift(d float64, rank int, p options.ShiftParams) complex128 {
	r := rank / 2
	if r >= len(p.Shifts) {
		r = len(p.Shifts) - 1
	}
	s := p.Shifts[r]
	if s == 0 {
		return complex(d, 0)
	}
	return complex(d, s/math.Pow(math.Abs(d)+1, float64(p.Power)))
}
