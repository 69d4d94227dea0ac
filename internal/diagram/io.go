package diagram

import (
	"bufio"
	"encoding/binary"
	"os"

	"github.com/relcc/tcengine/internal/arith"
	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/errs"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
	"github.com/relcc/tcengine/internal/symmetry"
)

// reservedHeaderBytes matches the forward-compatible reserved area in the
// serialised diagram file: a 64x8-byte block of padding between the
// header's fixed fields and the per-dimension index lists, left for
// fields a future format revision adds without breaking old readers.
const reservedHeaderBytes = 64 * 8

// Write serialises the diagram's name, rank and irrep and every block —
// its uniqueness flag, sign, orbit size, spinor-block tuple, per-dimension
// index lists and storage descriptor — to path, in declaration order.
// On-disk blocks are recorded by filename, not copied; in-memory blocks
// carry their buffer inline; dummy blocks carry neither. The diagram's
// QParts, Valence, T3Space and Order and each block's PermToUnique are not
// written, so Read leaves them unset.
func Write(d *Diagram, path string) {
	f, err := os.Create(path)
	if err != nil {
		errs.Fatal(errs.New(errs.KindStorage, "diagram: cannot create %q: %v", path, err))
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	writeString(w, d.Name)
	writeInt(w, d.Rank)
	writeInt(w, int(d.Irrep))
	writeInt(w, len(d.Blocks))

	for _, b := range d.Blocks {
		writeBlock(w, b)
	}
	if err := w.Flush(); err != nil {
		errs.Fatal(errs.New(errs.KindStorage, "diagram: write to %q failed: %v", path, err))
	}
}

func writeBlock(w *bufio.Writer, b *block.Block) {
	writeInt(w, b.Rank)
	writeBool(w, b.IsUnique)
	writeInt(w, int(b.Sign))
	writeInt(w, b.NEqualPerms)
	writeIntSlice(w, b.SpinorBlocks)

	// reserved forward-compatibility area
	var pad [reservedHeaderBytes]byte
	w.Write(pad[:])

	writeInt(w, len(b.Shape))
	for dim, n := range b.Shape {
		writeInt(w, n)
		writeIntSlice(w, b.Indices[dim])
	}

	writeInt(w, b.Size())
	writeInt(w, int(b.Storage))
	switch b.Storage {
	case storage.InMemory:
		if b.DataComplex() != nil {
			writeComplexSlice(w, b.DataComplex())
		} else {
			writeFloatSlice(w, b.DataReal())
		}
	case storage.OnDisk:
		writeString(w, b.FilePath)
	case storage.Dummy:
		// no payload
	}
}

// Read deserialises a diagram previously written by Write. Block buffers
// for OnDisk entries are not loaded; callers call Block.Load explicitly
// when they need the data.
func Read(path string, cat *spinor.Catalog) *Diagram {
	f, err := os.Open(path)
	if err != nil {
		errs.Fatal(errs.New(errs.KindStorage, "diagram: cannot open %q: %v", path, err))
	}
	defer f.Close()
	r := bufio.NewReader(f)

	d := &Diagram{index: make(map[string]*block.Block)}
	d.Name = readString(r)
	d.Rank = readInt(r)
	d.Irrep = symmetry.Irrep(readInt(r))
	nBlocks := readInt(r)

	for i := 0; i < nBlocks; i++ {
		b := readBlock(r)
		d.Blocks = append(d.Blocks, b)
		d.index[tupleKey(b.SpinorBlocks)] = b
	}
	_ = cat
	return d
}

func readBlock(r *bufio.Reader) *block.Block {
	b := &block.Block{}
	b.Rank = readInt(r)
	b.IsUnique = readBool(r)
	b.Sign = int8(readInt(r))
	b.NEqualPerms = readInt(r)
	b.SpinorBlocks = readIntSlice(r)

	var pad [reservedHeaderBytes]byte
	r.Read(pad[:])

	nDims := readInt(r)
	b.Shape = make([]int, nDims)
	b.Indices = make([][]int, nDims)
	for dim := 0; dim < nDims; dim++ {
		b.Shape[dim] = readInt(r)
		b.Indices[dim] = readIntSlice(r)
	}

	size := readInt(r)
	b.Storage = storage.Mode(readInt(r))
	switch b.Storage {
	case storage.InMemory:
		// The process-global arithmetic mode at read time must match the
		// mode Write ran under — it decides which variant follows.
		if arith.IsComplex() {
			b.SetBufferComplex(readComplexSlice(r, size))
		} else {
			b.SetBufferReal(readFloatSlice(r, size))
		}
	case storage.OnDisk:
		b.FilePath = readString(r)
	case storage.Dummy:
	}
	return b
}

func writeInt(w *bufio.Writer, v int)   { binary.Write(w, binary.LittleEndian, int64(v)) }
func writeBool(w *bufio.Writer, v bool) { writeInt(w, boolToInt(v)) }
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
func writeString(w *bufio.Writer, s string) {
	writeInt(w, len(s))
	w.WriteString(s)
}
func writeIntSlice(w *bufio.Writer, s []int) {
	writeInt(w, len(s))
	for _, v := range s {
		writeInt(w, v)
	}
}
func writeFloatSlice(w *bufio.Writer, s []float64) {
	writeInt(w, len(s))
	for _, v := range s {
		binary.Write(w, binary.LittleEndian, v)
	}
}
func writeComplexSlice(w *bufio.Writer, s []complex128) {
	writeInt(w, len(s))
	for _, v := range s {
		binary.Write(w, binary.LittleEndian, real(v))
		binary.Write(w, binary.LittleEndian, imag(v))
	}
}

func readInt(r *bufio.Reader) int {
	var v int64
	binary.Read(r, binary.LittleEndian, &v)
	return int(v)
}
func readBool(r *bufio.Reader) bool { return readInt(r) != 0 }
func readString(r *bufio.Reader) string {
	n := readInt(r)
	buf := make([]byte, n)
	r.Read(buf)
	return string(buf)
}
func readIntSlice(r *bufio.Reader) []int {
	n := readInt(r)
	out := make([]int, n)
	for i := range out {
		out[i] = readInt(r)
	}
	return out
}

func readFloatSlice(r *bufio.Reader, n int) []float64 {
	got := readInt(r)
	if got != n {
		errs.Fatal(errs.New(errs.KindStorage, "diagram: block payload length %d != declared size %d", got, n))
	}
	out := make([]float64, n)
	for i := range out {
		binary.Read(r, binary.LittleEndian, &out[i])
	}
	return out
}

func readComplexSlice(r *bufio.Reader, n int) []complex128 {
	got := readInt(r)
	if got != n {
		errs.Fatal(errs.New(errs.KindStorage, "diagram: block payload length %d != declared size %d", got, n))
	}
	out := make([]complex128, n)
	for i := range out {
		var re, im float64
		binary.Read(r, binary.LittleEndian, &re)
		binary.Read(r, binary.LittleEndian, &im)
		out[i] = complex(re, im)
	}
	return out
}
