package storage

import (
	"os"
	"testing"
)

func TestPolicyLevels(t *testing.T) {
	p0 := Policy{Level: LevelAllMemory}
	if p0.ModeFor(6, []QPart{Hole, Hole, Hole, Particle, Particle, Particle}) != InMemory {
		t.Fatal("level 0 must keep everything in memory")
	}

	p1 := Policy{Level: LevelRank6Disk}
	if p1.ModeFor(6, nil) != OnDisk {
		t.Fatal("level 1 must put rank >= 6 on disk")
	}
	if p1.ModeFor(4, []QPart{Particle, Particle, Particle, Particle}) != InMemory {
		t.Fatal("level 1 keeps rank-4 pppp in memory")
	}

	p2 := Policy{Level: LevelPPPPDisk}
	if p2.ModeFor(4, []QPart{Particle, Particle, Particle, Particle}) != OnDisk {
		t.Fatal("level 2 must put rank-4 pppp on disk")
	}

	p4 := Policy{Level: LevelCompressed}
	if !p4.Compressed() {
		t.Fatal("level 4 must enable compression")
	}
}

func TestBackendRoundTripFloat64(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend(dir, "test", false)
	data := []float64{1, 2, 3.5, -4}
	path := b.NewFile()
	b.WriteFloat64(path, data)
	got := b.ReadFloat64(path, len(data))
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("round trip mismatch at %d: got %v want %v", i, got[i], data[i])
		}
	}
}

func TestBackendRoundTripCompressed(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend(dir, "test", true)
	data := []complex128{1 + 2i, 0, -3.25 + 1.5i}
	path := b.NewFile()
	b.WriteComplex128(path, data)
	got := b.ReadComplex128(path, len(data))
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("round trip mismatch at %d: got %v want %v", i, got[i], data[i])
		}
	}
	if b.Stats().BytesWritten() == 0 {
		t.Fatal("expected nonzero bytes written")
	}
}

func TestBackendCleanup(t *testing.T) {
	dir := t.TempDir() + "/scratch"
	b := NewBackend(dir, "test", false)
	b.Cleanup()
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatal("expected scratch dir removed")
	}
}
