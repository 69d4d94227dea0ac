// Package options holds the run configuration the engine is parameterised
// by: tile size, disk usage level, threading scheme, denominator shift
// policy, and the thresholds that decide when the process latches to
// complex arithmetic. Options is built once by the driver (layered:
// built-in defaults, then an optional config file, then flags — the
// configuration layering the rest of the corpus uses for its own
// settings) and is read-only from then on.
package options

import (
	"github.com/relcc/tcengine/internal/storage"
)

// ShiftType selects the denominator-shift formula diveps applies near a
// vanishing Møller-Plesset denominator.
type ShiftType int

const (
	ShiftNone ShiftType = iota
	ShiftReal
	ShiftRealImag // "real simulation of imaginary" shift
	ShiftImag
	ShiftTaylor
)

// ThreadScheme selects how contraction parallelism is expressed.
type ThreadScheme int

const (
	// ThreadExternal parallelises the outer block loop; each worker runs
	// a single-threaded GEMM.
	ThreadExternal ThreadScheme = iota
	// ThreadInternal keeps the outer loop sequential and runs a
	// multi-threaded GEMM per block.
	ThreadInternal
)

// ShiftParams configures the dynamic denominator shift used by diveps.
type ShiftParams struct {
	Enabled bool
	Type    ShiftType
	Power   int // attenuation exponent
	// Shifts[r] is the shift magnitude for rank-2r tensors (singles,
	// doubles, triples, ...); index 0 is unused.
	Shifts [8]float64
}

// Options is the engine's run configuration.
type Options struct {
	Title string

	ScratchDir   string
	CleanScratch bool

	MaxMemoryBytes int64
	DiskUsageLevel storage.Level

	TileSize int
	NThreads int
	ThreadScheme ThreadScheme
	CUDAEnabled  bool

	DenomShift ShiftParams

	// ComplexPerturbation is true when a perturbation parameter with a
	// nonzero imaginary part is configured, one of the three triggers
	// (together with a complex/quaternion symmetry group and an enabled
	// imaginary denominator shift) that force complex arithmetic.
	ComplexPerturbation bool

	MaxIter         int
	ConvThreshold   float64
	DivergeThreshold float64

	RunID string
}

// Default returns the engine's built-in defaults, overridden in turn by a
// config file and command-line flags as the driver applies them.
func Default() *Options {
	return &Options{
		ScratchDir:     "./scratch",
		CleanScratch:   true,
		MaxMemoryBytes: 0, // unlimited
		DiskUsageLevel: storage.LevelAllMemory,
		TileSize:       100,
		NThreads:       1,
		ThreadScheme:   ThreadExternal,
		MaxIter:        50,
		ConvThreshold:  1e-9,
		DivergeThreshold: 10.0,
		RunID:          "0",
	}
}

// RequiresComplexArithmetic implements the arithmetic-mode switch rule:
// complex mode is mandatory when the symmetry group is complex/quaternion,
// when a perturbation with nonzero imaginary part is configured, or when
// imaginary denominator shifts are enabled.
func (o *Options) RequiresComplexArithmetic(groupIsComplexOrQuaternion bool) bool {
	if groupIsComplexOrQuaternion {
		return true
	}
	if o.ComplexPerturbation {
		return true
	}
	if o.DenomShift.Enabled && (o.DenomShift.Type == ShiftImag || o.DenomShift.Type == ShiftRealImag) {
		return true
	}
	return false
}
