// Package storage implements the per-block backing store: each block lives
// in memory, on disk (optionally LZ4-compressed), or is a dummy
// symmetry-forbidden placeholder with no payload at all. The disk-usage
// level configured for a run drives a policy table deciding, at
// diagram-template time, which mode a freshly-built block starts in.
package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/pierrec/lz4/v4"

	"github.com/relcc/tcengine/internal/errs"
)

// Mode is a block's current residency.
type Mode int

const (
	InMemory Mode = iota
	OnDisk
	Dummy
)

func (m Mode) String() string {
	switch m {
	case InMemory:
		return "in-memory"
	case OnDisk:
		return "on-disk"
	case Dummy:
		return "dummy"
	default:
		return "unknown"
	}
}

// Level is the configured disk-usage level (0-4) controlling the policy
// table below.
type Level int

const (
	LevelAllMemory     Level = iota // 0: all blocks in memory
	LevelRank6Disk                  // 1: rank >= 6 on disk
	LevelPPPPDisk                   // 2: rank >= 6 and all pppp on disk
	LevelStarPPPDisk                // 3: level 2 plus all *ppp on disk
	LevelCompressed                 // 4: level 3 plus LZ4 compression
)

// QPart mirrors spinor.QPart without importing it, to keep this package
// below spinor in the dependency order; engine-facing code passes
// spinor.Particle/spinor.Hole values cast to this type.
type QPart int

const (
	Hole QPart = iota
	Particle
)

// Policy decides the starting storage mode for a freshly templated block,
// and whether its on-disk form should be compressed.
type Policy struct {
	Level Level
}

// ModeFor implements the five-level table from the storage backend's
// specification: level 0 keeps everything in memory; level 1 promotes rank
// >= 6 (triples and above) to disk; level 2 also promotes all-particle
// rank-4 (pppp) blocks; level 3 extends that to any block whose last three
// dimensions are all particle (*ppp); level 4 is
// the same residency as level 3 with compression turned on (compression is
// reported separately via Compressed).
func (p Policy) ModeFor(rank int, qparts []QPart) Mode {
	if p.Level == LevelAllMemory {
		return InMemory
	}
	if rank >= 6 {
		return OnDisk
	}
	if p.Level >= LevelPPPPDisk && rank == 4 && allParticle(qparts) {
		return OnDisk
	}
	if p.Level >= LevelStarPPPDisk && hasTrailingParticleRun(qparts) {
		return OnDisk
	}
	return InMemory
}

// Compressed reports whether on-disk blocks should be LZ4-compressed under
// this policy.
func (p Policy) Compressed() bool {
	return p.Level >= LevelCompressed
}

func allParticle(qparts []QPart) bool {
	for _, q := range qparts {
		if q != Particle {
			return false
		}
	}
	return len(qparts) > 0
}

func hasTrailingParticleRun(qparts []QPart) bool {
	if len(qparts) < 3 {
		return false
	}
	for _, q := range qparts[len(qparts)-3:] {
		if q != Particle {
			return false
		}
	}
	return true
}

// IOStats accumulates cumulative bytes moved through the disk layer, for
// run-summary reporting.
type IOStats struct {
	bytesRead    atomic.Int64
	bytesWritten atomic.Int64
	filesOpen    atomic.Int64
}

func (s *IOStats) BytesRead() int64    { return s.bytesRead.Load() }
func (s *IOStats) BytesWritten() int64 { return s.bytesWritten.Load() }
func (s *IOStats) FilesOpen() int64    { return s.filesOpen.Load() }

// Backend is the scratch-file I/O layer: one file per on-disk block, named
// with the run id and a monotonically increasing block id, under a
// per-run scratch directory.
type Backend struct {
	dir        string
	runID      string
	compressed bool
	nextID     atomic.Int64
	stats      IOStats

	mu     sync.Mutex
	byFile map[string]*os.File
}

// NewBackend creates the scratch directory (if absent) and returns a
// Backend that writes block-<runID>-<id>.sb files under dir.
func NewBackend(dir, runID string, compressed bool) *Backend {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		errs.Fatal(errs.New(errs.KindStorage, "storage: cannot create scratch dir %q: %v", dir, err))
	}
	return &Backend{dir: dir, runID: runID, compressed: compressed, byFile: make(map[string]*os.File)}
}

func (b *Backend) Stats() *IOStats { return &b.stats }

// NewFile allocates a fresh scratch filename for a block about to be
// written to disk for the first time.
func (b *Backend) NewFile() string {
	id := b.nextID.Add(1)
	return filepath.Join(b.dir, fmt.Sprintf("block-%s-%d.sb", b.runID, id))
}

// WriteFloat64/WriteComplex128 persist a block's buffer to path, through
// LZ4 when the backend is configured for compression. Write fully replaces
// any existing file content.
func (b *Backend) WriteFloat64(path string, data []float64) {
	raw := float64sToBytes(data)
	b.write(path, raw)
}

func (b *Backend) WriteComplex128(path string, data []complex128) {
	raw := complex128sToBytes(data)
	b.write(path, raw)
}

func (b *Backend) write(path string, raw []byte) {
	f, err := os.Create(path)
	if err != nil {
		errs.Fatal(errs.New(errs.KindStorage, "storage: cannot create %q: %v", path, err))
	}
	defer f.Close()
	b.stats.filesOpen.Add(1)
	defer b.stats.filesOpen.Add(-1)

	bw := bufio.NewWriter(f)
	var n int
	if b.compressed {
		zw := lz4.NewWriter(bw)
		n, err = zw.Write(raw)
		if err == nil {
			err = zw.Close()
		}
	} else {
		n, err = bw.Write(raw)
	}
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		errs.Fatal(errs.New(errs.KindStorage, "storage: write to %q failed after %d bytes: %v", path, n, err))
	}
	b.stats.bytesWritten.Add(int64(len(raw)))
}

// ReadFloat64/ReadComplex128 read a block's buffer back from path, with n
// being the element count the caller expects (recovered from the block's
// shape, since the on-disk payload carries no self-describing length).
func (b *Backend) ReadFloat64(path string, n int) []float64 {
	raw := b.read(path, n*8)
	return bytesToFloat64s(raw)
}

func (b *Backend) ReadComplex128(path string, n int) []complex128 {
	raw := b.read(path, n*16)
	return bytesToComplex128s(raw)
}

func (b *Backend) read(path string, nbytes int) []byte {
	f, err := os.Open(path)
	if err != nil {
		errs.Fatal(errs.New(errs.KindStorage, "storage: cannot open %q: %v", path, err))
	}
	defer f.Close()
	b.stats.filesOpen.Add(1)
	defer b.stats.filesOpen.Add(-1)

	var r io.Reader = bufio.NewReader(f)
	if b.compressed {
		r = lz4.NewReader(r)
	}
	raw := make([]byte, nbytes)
	if _, err := io.ReadFull(r, raw); err != nil {
		errs.Fatal(errs.New(errs.KindStorage, "storage: read from %q failed: %v", path, err))
	}
	b.stats.bytesRead.Add(int64(nbytes))
	return raw
}

// Remove deletes a block's scratch file; absence is not an error (unload
// without a prior store never created one).
func (b *Backend) Remove(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

// Cleanup removes the entire scratch directory; the driver calls this at
// exit when configured to do so.
func (b *Backend) Cleanup() {
	_ = os.RemoveAll(b.dir)
}
