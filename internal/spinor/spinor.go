// Package spinor catalogues the one-electron basis the engine's diagrams
// are indexed over: per-spinor attributes, and the tiling of spinors into
// irrep-pure spinor blocks that the contraction kernel's GEMM views sit on.
package spinor

import (
	"sort"

	"github.com/relcc/tcengine/internal/errs"
	"github.com/relcc/tcengine/internal/symmetry"
)

// QPart is a dimension's quasiparticle label: hole or particle.
type QPart int

const (
	Hole QPart = iota
	Particle
)

// Spinor is one one-electron basis function.
type Spinor struct {
	Index  int            // global index, 0-based
	Irrep  symmetry.Irrep
	Energy float64
	QPart  QPart
	Active bool
	T3     bool // restricted-triples-space membership
}

// Block is a maximal run of spinors sharing irrep, qpart and activity,
// capped at the catalogue's configured tile size.
type Block struct {
	ID      int
	Irrep   symmetry.Irrep
	QPart   QPart
	Active  bool
	Spinors []int // global indices, in catalogue order
}

func (b *Block) Len() int { return len(b.Spinors) }

// Catalog is the immutable spinor catalogue built once at startup from the
// integral interface and never mutated for the rest of the run.
type Catalog struct {
	spinors  []Spinor
	blocks   []Block
	blockOf  []int // global index -> block id
	offsetOf []int // global index -> offset within its block
	tileSize int

	holes, particles               []int
	activeHoles, activeParticles    []int
	t3Space                        []int
}

// Build partitions spinors into tiled spinor blocks and computes the fast
// index lists. Spinors are grouped by (irrep, qpart, active) and split into
// runs of at most tileSize, preserving catalogue order within a class —
// ordering within a spinor block is arbitrary but stable, per the data
// model's spinor-block invariant.
func Build(spinors []Spinor, tileSize int) *Catalog {
	if tileSize <= 0 {
		errs.Fatal(errs.New(errs.KindMalformed, "spinor: tile size must be positive, got %d", tileSize))
	}
	c := &Catalog{
		spinors:  append([]Spinor(nil), spinors...),
		blockOf:  make([]int, len(spinors)),
		offsetOf: make([]int, len(spinors)),
		tileSize: tileSize,
	}

	type classKey struct {
		irep   symmetry.Irrep
		qpart  QPart
		active bool
	}
	order := make([]int, len(spinors))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := spinors[order[a]], spinors[order[b]]
		ka := classKey{sa.Irrep, sa.QPart, sa.Active}
		kb := classKey{sb.Irrep, sb.QPart, sb.Active}
		if ka.irep != kb.irep {
			return ka.irep < kb.irep
		}
		if ka.qpart != kb.qpart {
			return ka.qpart < kb.qpart
		}
		return !ka.active && kb.active
	})

	var cur *Block
	var curKey classKey
	for _, idx := range order {
		s := spinors[idx]
		key := classKey{s.Irrep, s.QPart, s.Active}
		if cur == nil || key != curKey || len(cur.Spinors) >= tileSize {
			c.blocks = append(c.blocks, Block{ID: len(c.blocks), Irrep: s.Irrep, QPart: s.QPart, Active: s.Active})
			cur = &c.blocks[len(c.blocks)-1]
			curKey = key
		}
		c.blockOf[s.Index] = cur.ID
		c.offsetOf[s.Index] = len(cur.Spinors)
		cur.Spinors = append(cur.Spinors, s.Index)
	}

	for i, s := range c.spinors {
		switch s.QPart {
		case Hole:
			c.holes = append(c.holes, i)
			if s.Active {
				c.activeHoles = append(c.activeHoles, i)
			}
		case Particle:
			c.particles = append(c.particles, i)
			if s.Active {
				c.activeParticles = append(c.activeParticles, i)
			}
		}
		if s.T3 {
			c.t3Space = append(c.t3Space, i)
		}
	}
	return c
}

func (c *Catalog) NSpinors() int    { return len(c.spinors) }
func (c *Catalog) NBlocks() int     { return len(c.blocks) }
func (c *Catalog) TileSize() int    { return c.tileSize }
func (c *Catalog) Spinor(i int) Spinor { return c.spinors[i] }
func (c *Catalog) BlockByID(id int) *Block { return &c.blocks[id] }

// BlockOf returns the (block, offset) pair a global spinor index maps to.
func (c *Catalog) BlockOf(idx int) (blockID, offset int) {
	return c.blockOf[idx], c.offsetOf[idx]
}

func (c *Catalog) IsHole(idx int) bool   { return c.spinors[idx].QPart == Hole }
func (c *Catalog) IsActive(idx int) bool { return c.spinors[idx].Active }
func (c *Catalog) IsT3Space(idx int) bool { return c.spinors[idx].T3 }

func (c *Catalog) Holes() []int           { return c.holes }
func (c *Catalog) Particles() []int       { return c.particles }
func (c *Catalog) ActiveHoles() []int     { return c.activeHoles }
func (c *Catalog) ActiveParticles() []int { return c.activeParticles }
func (c *Catalog) T3Space() []int         { return c.t3Space }

// OccupationSource identifies where SetOccupations took its data from, for
// diagnostics.
type OccupationSource int

const (
	FromExplicitFlags OccupationSource = iota
	FromIntegralInterface
	FromElectronCounts
)

// SetOccupations rebuilds the QPart flags in place from the source named
// by source, then re-derives the hole/particle index lists. For
// FromExplicitFlags and FromIntegralInterface, explicit (one entry per
// spinor) is applied verbatim; for FromElectronCounts, electronCounts (per
// irrep) drives an Aufbau fill ordered by energy within each irrep. Active
// flags are left unchanged.
func (c *Catalog) SetOccupations(source OccupationSource, explicit []QPart, electronCounts map[symmetry.Irrep]int) {
	switch source {
	case FromExplicitFlags, FromIntegralInterface:
		if len(explicit) != len(c.spinors) {
			errs.Fatal(errs.New(errs.KindMalformed, "spinor: explicit occupation length %d != %d spinors", len(explicit), len(c.spinors)))
		}
		for i := range c.spinors {
			c.spinors[i].QPart = explicit[i]
		}
	case FromElectronCounts:
		byIrrep := make(map[symmetry.Irrep][]int)
		for i, s := range c.spinors {
			byIrrep[s.Irrep] = append(byIrrep[s.Irrep], i)
		}
		for irep, idxs := range byIrrep {
			sort.Slice(idxs, func(a, b int) bool { return c.spinors[idxs[a]].Energy < c.spinors[idxs[b]].Energy })
			n := electronCounts[irep]
			for rank, idx := range idxs {
				if rank < n {
					c.spinors[idx].QPart = Hole
				} else {
					c.spinors[idx].QPart = Particle
				}
			}
		}
	default:
		errs.Fatal(errs.New(errs.KindMalformed, "spinor: unknown occupation source %d", source))
	}
	c.rebuildIndexLists()
}

func (c *Catalog) rebuildIndexLists() {
	c.holes, c.particles, c.activeHoles, c.activeParticles = nil, nil, nil, nil
	for i, s := range c.spinors {
		switch s.QPart {
		case Hole:
			c.holes = append(c.holes, i)
			if s.Active {
				c.activeHoles = append(c.activeHoles, i)
			}
		case Particle:
			c.particles = append(c.particles, i)
			if s.Active {
				c.activeParticles = append(c.activeParticles, i)
			}
		}
	}
}
