// Package sorting defines the raw-integral collaborator contract: reading
// unsorted one- and two-electron integral records (addressed by global
// spinor index, not yet organised into spinor-block tuples) and filling a
// Context's base diagrams from them. Antisymmetrizing the bare two-electron
// integrals and building the Fock matrix from them belongs here; parsing
// any particular quantum chemistry package's native integral file format
// does not.
package sorting

import (
	"github.com/relcc/tcengine/internal/diagram"
)

// TwoElectronRecord is one bare physicist-notation two-electron integral
// <ij|kl>, addressed by global spinor index.
type TwoElectronRecord struct {
	I, J, K, L int
	Value      complex128
}

// OneElectronRecord is one bare one-electron integral <p|h|q>.
type OneElectronRecord struct {
	P, Q  int
	Value complex128
}

// TwoElectronSorter fills every hhhh/hhhp/hhpp/hphh/hphp/phhp/pphh/pppp-
// class diagram in targets (keyed by diagram name) from raw two-electron
// records, antisymmetrizing as it goes: <ij||kl> = <ij|kl> - <ij|lk>.
type TwoElectronSorter interface {
	SortTwoElectron(records []TwoElectronRecord, targets map[string]*diagram.Diagram) error
}

// OneElectronSorter fills a Fock-class diagram from the bare one-electron
// integrals plus the already-sorted hole-containing two-electron diagrams
// (the Fock build: f_pq = h_pq + sum_i <pi||qi>).
type OneElectronSorter interface {
	SortOneElectron(records []OneElectronRecord, fock *diagram.Diagram, holeLines map[string]*diagram.Diagram) error
}
