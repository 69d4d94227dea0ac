package sorting

import (
	"bufio"
	"encoding/binary"
	"os"

	"github.com/relcc/tcengine/internal/errs"
	"github.com/relcc/tcengine/internal/integral"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/symmetry"
)

var _ integral.Source = (*FromArchive)(nil)

// archiveMagic tags the reference "external archive" format matching the
// integral.Source contract: a point-group header (name, abelian flag,
// totally-symmetric irrep, n x n direct-product table), a core energy, and
// one record per spinor (irrep, energy, qpart, active, t3).
const archiveMagic = "TCEARCH1"

// FromArchive reads the reference integral.Source archive format: a flat
// binary file with a fixed header followed by per-spinor records. It
// exists to exercise the Source contract end to end without depending on
// any particular quantum chemistry package's native integral files; a
// production integral package supplies its own Source implementation
// instead.
type FromArchive struct {
	path string
}

// NewFromArchive returns a Source reading from path.
func NewFromArchive(path string) *FromArchive {
	return &FromArchive{path: path}
}

type archiveHeader struct {
	pointGroup string
	abelian    bool
	totSym     symmetry.Irrep
	names      []string
	prod       [][]symmetry.Irrep
	coreEnergy float64
	spinors    []spinor.Spinor
}

func (s *FromArchive) read() (*archiveHeader, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	magic := make([]byte, len(archiveMagic))
	if _, err := r.Read(magic); err != nil {
		return nil, err
	}
	if string(magic) != archiveMagic {
		errs.Fatal(errs.New(errs.KindMalformed, "sorting: %q is not a tcengine archive", s.path))
	}

	h := &archiveHeader{}
	h.pointGroup = readArchiveString(r)
	h.abelian = readArchiveBool(r)
	h.totSym = symmetry.Irrep(readArchiveInt(r))
	nIrreps := readArchiveInt(r)
	for i := 0; i < nIrreps; i++ {
		h.names = append(h.names, readArchiveString(r))
	}
	h.prod = make([][]symmetry.Irrep, nIrreps)
	for i := range h.prod {
		h.prod[i] = make([]symmetry.Irrep, nIrreps)
		for j := range h.prod[i] {
			h.prod[i][j] = symmetry.Irrep(readArchiveInt(r))
		}
	}
	binary.Read(r, binary.LittleEndian, &h.coreEnergy)

	nSpinors := readArchiveInt(r)
	for i := 0; i < nSpinors; i++ {
		var sp spinor.Spinor
		sp.Index = i
		sp.Irrep = symmetry.Irrep(readArchiveInt(r))
		binary.Read(r, binary.LittleEndian, &sp.Energy)
		sp.QPart = spinor.QPart(readArchiveInt(r))
		sp.Active = readArchiveBool(r)
		sp.T3 = readArchiveBool(r)
		h.spinors = append(h.spinors, sp)
	}
	return h, nil
}

// SymmetryTable implements integral.Source.
func (s *FromArchive) SymmetryTable() (*symmetry.Table, error) {
	h, err := s.read()
	if err != nil {
		return nil, err
	}
	if h.abelian {
		return symmetry.NewAbelian(h.pointGroup, h.names, h.totSym, h.prod), nil
	}
	prodSum := make([][][]symmetry.Irrep, len(h.names))
	for i := range prodSum {
		prodSum[i] = make([][]symmetry.Irrep, len(h.names))
		for j := range prodSum[i] {
			prodSum[i][j] = []symmetry.Irrep{h.prod[i][j]}
		}
	}
	return symmetry.NewNonAbelian(h.pointGroup, h.names, h.totSym, prodSum), nil
}

// Spinors implements integral.Source.
func (s *FromArchive) Spinors() ([]spinor.Spinor, error) {
	h, err := s.read()
	if err != nil {
		return nil, err
	}
	return h.spinors, nil
}

// CoreEnergy implements integral.Source.
func (s *FromArchive) CoreEnergy() (float64, error) {
	h, err := s.read()
	if err != nil {
		return 0, err
	}
	return h.coreEnergy, nil
}

func readArchiveInt(r *bufio.Reader) int {
	var v int64
	binary.Read(r, binary.LittleEndian, &v)
	return int(v)
}
func readArchiveBool(r *bufio.Reader) bool { return readArchiveInt(r) != 0 }
func readArchiveString(r *bufio.Reader) string {
	n := readArchiveInt(r)
	buf := make([]byte, n)
	r.Read(buf)
	return string(buf)
}
