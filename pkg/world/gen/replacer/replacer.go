// Package replacer turns terrain density into concrete blocks through an
// ordered, per-biome chain of replacement stages.
package replacer

import (
	"fmt"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
)

// Kind tags a stage so columns can report which stages apply to them.
type Kind int

const (
	Shape Kind = iota
	Surface
	MesaSurface
	MutatedSavanna
	Taiga
	Ocean
	Swamp
)

var kindNames = [...]string{"shape", "surface", "mesa_surface", "mutated_savanna", "taiga", "ocean", "swamp"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Bit returns the mask bit for k.
func (k Kind) Bit() uint32 { return 1 << uint(k) }

// Mask is a set of Kind bits.
type Mask uint32

// Has reports whether k is in the mask.
func (m Mask) Has(k Kind) bool { return uint32(m)&k.Bit() != 0 }

// Replacer maps the block chosen by earlier stages to a new block.
// dx, dy, dz is the density gradient at the voxel.
type Replacer interface {
	Replace(prev block.State, x, y, z int, dx, dy, dz, density float64) block.State
}

// Func adapts a function to Replacer.
type Func func(prev block.State, x, y, z int, dx, dy, dz, density float64) block.State

// Replace calls f.
func (f Func) Replace(prev block.State, x, y, z int, dx, dy, dz, density float64) block.State {
	return f(prev, x, y, z, dx, dy, dz, density)
}

// Stage is one replacer tagged with its kind.
type Stage struct {
	Kind     Kind
	Replacer Replacer
}

// Apply runs stages in order starting from air and returns the final block.
func Apply(stages []Stage, x, y, z int, dx, dy, dz, density float64) block.State {
	b := block.Air
	for _, s := range stages {
		b = s.Replacer.Replace(b, x, y, z, dx, dy, dz, density)
	}
	return b
}

// Registry maps each biome to its ordered stages. It is built once per
// generator and only read afterwards.
type Registry struct {
	stages map[biome.ID][]Stage
	masks  map[biome.ID]Mask
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		stages: make(map[biome.ID][]Stage),
		masks:  make(map[biome.ID]Mask),
	}
}

// Register appends stages to the biome's chain.
func (r *Registry) Register(id biome.ID, stages ...Stage) {
	r.stages[id] = append(r.stages[id], stages...)
	m := r.masks[id]
	for _, s := range stages {
		m |= Mask(s.Kind.Bit())
	}
	r.masks[id] = m
}

// Stages returns the ordered chain for the biome; nil if none registered.
func (r *Registry) Stages(id biome.ID) []Stage { return r.stages[id] }

// Mask returns the kinds registered for the biome.
func (r *Registry) Mask(id biome.ID) Mask { return r.masks[id] }
