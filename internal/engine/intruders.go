package engine

import (
	"math"
	"sort"

	"github.com/relcc/tcengine/internal/errs"
	"github.com/relcc/tcengine/internal/storage"
)

// IntruderReport is one flagged amplitude: a nonzero element whose
// Moller-Plesset denominator is small relative to the rest of the diagram,
// the classic signature of an intruder state.
type IntruderReport struct {
	BlockID     int64
	Index       []int
	Value       complex128
	Denominator float64
}

// PredictIntruders scans the diagram named name and returns the nmax
// nonzero elements with the smallest |denominator|, sorted ascending — a
// diagnostic for the near-degeneracies that make Fock-space coupled
// cluster amplitudes diverge.
func (c *Context) PredictIntruders(name string, nmax int) []IntruderReport {
	d := c.Stack.Get(name)
	if d == nil {
		errs.Fatal(errs.New(errs.KindMalformed, "engine: predict_intruders: no diagram named %q", name))
	}
	k := d.Rank / 2
	var all []IntruderReport
	for _, blk := range d.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			var val complex128
			if blk.DataComplex() != nil {
				val = blk.GetComplex(idx)
			} else {
				val = complex(blk.GetReal(idx), 0)
			}
			if val == 0 {
				continue
			}
			den := denominator(c, d, blk, idx, k)
			all = append(all, IntruderReport{
				BlockID:     blk.ID,
				Index:       append([]int(nil), idx...),
				Value:       val,
				Denominator: den,
			})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return math.Abs(all[i].Denominator) < math.Abs(all[j].Denominator)
	})
	if len(all) > nmax {
		all = all[:nmax]
	}
	return all
}
