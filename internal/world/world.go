// Package world caches generated cubes, records block writes made during
// population and decides which cubes to populate.
package world

import (
	"log/slog"
	"sync"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/populate"
)

// Generator produces base terrain and population. Implementations need not
// be safe for concurrent use; World serialises every call.
type Generator interface {
	gen.CubeGenerator
	BiomeAt(x, z int) *biome.Biome
}

// World tracks generated cubes plus overrides written by population.
type World struct {
	mu        sync.RWMutex
	cubes     map[cube.Pos]*cube.Primer
	overrides map[cube.Pos]map[cube.BlockPos]block.State
	populated map[cube.Pos]bool

	genMu sync.Mutex // held across generator calls; taken before mu
	gen   Generator
	log   *slog.Logger
}

// New creates a World backed by g.
func New(g Generator, log *slog.Logger) *World {
	return &World{
		cubes:     make(map[cube.Pos]*cube.Primer),
		overrides: make(map[cube.Pos]map[cube.BlockPos]block.State),
		populated: make(map[cube.Pos]bool),
		gen:       g,
		log:       log,
	}
}

func (w *World) cached(pos cube.Pos) (*cube.Primer, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.cubes[pos]
	return p, ok
}

// GetOrGenerateCube returns the base terrain of the cube, generating and
// caching it if needed. The primer must not be modified.
func (w *World) GetOrGenerateCube(pos cube.Pos) *cube.Primer {
	if p, ok := w.cached(pos); ok {
		return p
	}
	w.genMu.Lock()
	defer w.genMu.Unlock()
	return w.generateLocked(pos)
}

// generateLocked is GetOrGenerateCube for callers holding genMu.
func (w *World) generateLocked(pos cube.Pos) *cube.Primer {
	// Double-check: another caller may have generated it while we waited.
	if p, ok := w.cached(pos); ok {
		return p
	}
	p := w.gen.GenerateCube(pos.X, pos.Y, pos.Z)

	w.mu.Lock()
	w.cubes[pos] = p
	w.mu.Unlock()
	return p
}

func (w *World) block(p cube.BlockPos, base func(cube.Pos) *cube.Primer) block.State {
	c := p.Cube()
	w.mu.RLock()
	s, ok := w.overrides[c][p]
	w.mu.RUnlock()
	if ok {
		return s
	}
	return base(c).Get(cube.BlockToLocal(p.X), cube.BlockToLocal(p.Y), cube.BlockToLocal(p.Z))
}

func (w *World) setBlock(p cube.BlockPos, s block.State, base func(cube.Pos) *cube.Primer) {
	c := p.Cube()
	b := base(c).Get(cube.BlockToLocal(p.X), cube.BlockToLocal(p.Y), cube.BlockToLocal(p.Z))

	w.mu.Lock()
	defer w.mu.Unlock()
	m := w.overrides[c]
	if s == b {
		delete(m, p)
		if len(m) == 0 {
			delete(w.overrides, c)
		}
		return
	}
	if m == nil {
		m = make(map[cube.BlockPos]block.State)
		w.overrides[c] = m
	}
	m[p] = s
}

// Block returns the block at p, overrides first.
func (w *World) Block(p cube.BlockPos) block.State {
	return w.block(p, w.GetOrGenerateCube)
}

// SetBlock stores an override. Writing the base block removes it.
func (w *World) SetBlock(p cube.BlockPos, s block.State) {
	w.setBlock(p, s, w.GetOrGenerateCube)
}

// BiomeAt returns the biome of the column.
func (w *World) BiomeAt(x, z int) *biome.Biome {
	w.genMu.Lock()
	defer w.genMu.Unlock()
	return w.gen.BiomeAt(x, z)
}

// held is the populate.World handed to the generator while genMu is held.
type held struct{ w *World }

func (h held) Block(p cube.BlockPos) block.State {
	return h.w.block(p, h.w.generateLocked)
}

func (h held) SetBlock(p cube.BlockPos, s block.State) {
	h.w.setBlock(p, s, h.w.generateLocked)
}

func (h held) BiomeAt(x, z int) *biome.Biome { return h.w.gen.BiomeAt(x, z) }

var _ populate.World = held{}

// PopulateAround runs population for every cube whose population area
// overlaps pos: pos and its lower neighbours on each axis. Afterwards no
// later population can write into pos.
func (w *World) PopulateAround(pos cube.Pos) {
	w.genMu.Lock()
	defer w.genMu.Unlock()

	h := held{w: w}
	for dx := -1; dx <= 0; dx++ {
		for dy := -1; dy <= 0; dy++ {
			for dz := -1; dz <= 0; dz++ {
				q := cube.Pos{X: pos.X + dx, Y: pos.Y + dy, Z: pos.Z + dz}
				w.mu.RLock()
				done := w.populated[q]
				w.mu.RUnlock()
				if done {
					continue
				}
				// population reads and writes q and its upper neighbours
				for i := range 8 {
					w.generateLocked(cube.Pos{X: q.X + i&1, Y: q.Y + i>>1&1, Z: q.Z + i>>2&1})
				}
				w.gen.Populate(h, q)

				w.mu.Lock()
				w.populated[q] = true
				w.mu.Unlock()
				w.log.Debug("populated cube", "cube", q)
			}
		}
	}
}

// Populated reports whether population has run for the cube itself.
func (w *World) Populated(pos cube.Pos) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.populated[pos]
}

// Cube returns a copy of the cube with overrides applied.
func (w *World) Cube(pos cube.Pos) *cube.Primer {
	base := w.GetOrGenerateCube(pos)
	out := *base

	w.mu.RLock()
	defer w.mu.RUnlock()
	for p, s := range w.overrides[pos] {
		out.Set(cube.BlockToLocal(p.X), cube.BlockToLocal(p.Y), cube.BlockToLocal(p.Z), s)
	}
	return &out
}

// Overrides returns the number of blocks that differ from base terrain.
func (w *World) Overrides() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := 0
	for _, m := range w.overrides {
		n += len(m)
	}
	return n
}

// Unload drops every cached cube, override and population mark for which
// keep returns false.
func (w *World) Unload(keep func(cube.Pos) bool) {
	w.genMu.Lock()
	defer w.genMu.Unlock()
	w.mu.Lock()
	defer w.mu.Unlock()
	for p := range w.cubes {
		if !keep(p) {
			delete(w.cubes, p)
		}
	}
	for p := range w.overrides {
		if !keep(p) {
			delete(w.overrides, p)
		}
	}
	for p := range w.populated {
		if !keep(p) {
			delete(w.populated, p)
		}
	}
}
