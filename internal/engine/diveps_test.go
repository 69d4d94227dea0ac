package engine

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/relcc/tcengine/internal/arith"
	"github.com/relcc/tcengine/internal/options"
	"github.com/relcc/tcengine/internal/storage"
)

func TestDivepsRealShiftPushesAwayFromZero(t *testing.T) {
	arith.Reset()
	c := testContext(t)
	c.Options.DenomShift = options.ShiftParams{Enabled: true, Type: options.ShiftReal, Power: 1}
	c.Options.DenomShift.Shifts[1] = 0.5

	a := hhDiagram(t, c, "a")
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			blk.SetReal(idx, 1)
		}
	}
	c.Diveps(a)
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			if v := blk.GetReal(idx); math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("diveps produced non-finite value %v", v)
			}
		}
	}
}

func TestDivepsImagShiftAppliesComplexDivisor(t *testing.T) {
	arith.Reset()
	arith.RequireComplex()
	defer arith.Reset()

	c := testContext(t)
	s := 0.5
	c.Options.DenomShift = options.ShiftParams{Enabled: true, Type: options.ShiftImag, Power: 1}
	c.Options.DenomShift.Shifts[1] = s

	a := hhDiagram(t, c, "a")
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			blk.SetComplex(idx, 1)
		}
	}
	c.Diveps(a)

	found := false
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			v := blk.GetComplex(idx)
			if cmplx.IsNaN(v) || cmplx.IsInf(v) {
				t.Fatalf("diveps produced non-finite value %v", v)
			}
			// Property 10: bounded by 1/s wherever the bare denominator
			// would have underflowed to (near) zero.
			if cmplx.Abs(v) > 1/s+1e-9 {
				t.Fatalf("diveps output %v exceeds 1/s=%v bound", v, 1/s)
			}
			if imag(v) != 0 {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected ShiftImag to introduce a nonzero imaginary component somewhere")
	}
}

func TestDivepsRealImagShiftStaysReal(t *testing.T) {
	arith.Reset()
	c := testContext(t)
	s := 0.5
	c.Options.DenomShift = options.ShiftParams{Enabled: true, Type: options.ShiftRealImag, Power: 1}
	c.Options.DenomShift.Shifts[1] = s

	a := hhDiagram(t, c, "a")
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			blk.SetReal(idx, 1)
		}
	}
	c.Diveps(a)
	for _, blk := range a.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		for _, idx := range blk.GenIndices() {
			if v := blk.GetReal(idx); math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("diveps produced non-finite value %v", v)
			}
		}
	}
}

func TestApplyShiftVariants(t *testing.T) {
	p := options.ShiftParams{Enabled: true, Type: options.ShiftRealImag, Power: 1}
	p.Shifts[1] = 2
	if got := applyShift(0.1, 2, p); got == 0.1 {
		t.Fatal("ShiftRealImag should perturb the denominator, not fall through unchanged")
	}

	ip := options.ShiftParams{Enabled: true, Type: options.ShiftImag, Power: 1}
	ip.Shifts[1] = 2
	dc := applyImaginaryShift(0.1, 2, ip)
	if imag(dc) == 0 {
		t.Fatal("applyImaginaryShift should introduce a nonzero imaginary part")
	}
	if real(dc) != 0.1 {
		t.Fatalf("applyImaginaryShift should leave the real part untouched, got %v", real(dc))
	}
}
