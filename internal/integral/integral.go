// Package integral defines the integral-interface collaborator contract:
// the external component that knows how to read a quantum chemistry
// package's basis and integral files and hand the engine a symmetry table
// and spinor catalogue to run on. Parsing any particular package's native
// format is out of scope here — only the narrow contract and one reference
// implementation reading a simple self-contained archive format live in
// this package.
package integral

import (
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/symmetry"
)

// Source supplies the data an engine run is built on: the point-group
// symmetry table, the one-electron spinor list (irrep, energy,
// quasiparticle and activity per spinor, as the source records them; a
// caller may reassign the quasiparticle labels afterwards with
// spinor.Catalog.SetOccupations), and the frozen core energy to add back
// into any computed total energy.
type Source interface {
	SymmetryTable() (*symmetry.Table, error)
	Spinors() ([]spinor.Spinor, error)
	CoreEnergy() (float64, error)
}
