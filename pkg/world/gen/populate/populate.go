// Package populate decorates generated cubes: ores, vegetation, springs and
// snow. Every pass writes through World and works on the population area of
// a cube, which is offset by half a cube so features can cross cube borders
// without depending on generation order.
package populate

import (
	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// World is the mutable world population writes to.
type World interface {
	Block(pos cube.BlockPos) block.State
	SetBlock(pos cube.BlockPos, s block.State)
	BiomeAt(x, z int) *biome.Biome
}

// Populator runs one population pass for a cube.
type Populator interface {
	Populate(w World, r *rng.Random, pos cube.Pos, b *biome.Biome)
}

// Stage names a decoration sub-step that a Veto may skip.
type Stage int

const (
	StageOre Stage = iota
	StageSand
	StageClay
	StageSandPass2
	StageTree
	StageBigShroom
	StageFlowers
	StageGrass
	StageDeadBush
	StageLilyPad
	StageShroom
	StageReed
	StagePumpkin
	StageCactus
	StageLakeWater
	StageLakeLava
	StageSnow
)

var stageNames = [...]string{
	StageOre:       "ore",
	StageSand:      "sand",
	StageClay:      "clay",
	StageSandPass2: "sand_pass2",
	StageTree:      "tree",
	StageBigShroom: "big_shroom",
	StageFlowers:   "flowers",
	StageGrass:     "grass",
	StageDeadBush:  "dead_bush",
	StageLilyPad:   "lilypad",
	StageShroom:    "shroom",
	StageReed:      "reed",
	StagePumpkin:   "pumpkin",
	StageCactus:    "cactus",
	StageLakeWater: "lake_water",
	StageLakeLava:  "lake_lava",
	StageSnow:      "snow",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Veto reports whether a stage should be skipped for a cube. A vetoed stage
// draws nothing from the generator.
type Veto func(s Stage, pos cube.Pos) bool

// allowed reports whether s may run; a nil veto allows everything.
func (v Veto) allowed(s Stage, pos cube.Pos) bool {
	return v == nil || !v(s, pos)
}

// SurfaceType selects which blocks count as ground in surface searches.
type SurfaceType int

const (
	// Opaque ground ignores leaves, glass and plants.
	Opaque SurfaceType = iota
	// Solid ground is anything entities can stand on.
	Solid
	// Blocking also counts liquids.
	Blocking
)

func (t SurfaceType) match(s block.State) bool {
	switch t {
	case Opaque:
		return s.IsOpaque()
	case Solid:
		return s.IsSolid()
	default:
		return s.IsSolid() || s.IsLiquid()
	}
}

// SurfaceForCube returns the first position above ground in the column at
// the given offset from the cube's minimum block, searching the population
// area of pos. ok is false when the ground is above or below the area.
func SurfaceForCube(w World, pos cube.Pos, xOff, zOff int, t SurfaceType) (cube.BlockPos, bool) {
	o := pos.MinBlock()
	x, z := o.X+xOff, o.Z+zOff
	top := o.Y + cube.Size + cube.Size/2
	bottom := o.Y + cube.Size/2

	if t.match(w.Block(cube.BlockPos{X: x, Y: top, Z: z})) {
		return cube.BlockPos{}, false
	}
	for y := top - 1; y >= bottom; y-- {
		if t.match(w.Block(cube.BlockPos{X: x, Y: y, Z: z})) {
			return cube.BlockPos{X: x, Y: y + 1, Z: z}, true
		}
	}
	return cube.BlockPos{}, false
}

// randomOffset returns a column offset inside the population area.
func randomOffset(r *rng.Random) int {
	return r.Intn(cube.Size) + cube.Size/2
}

// randomPopulationPos returns a random block in the population area.
func randomPopulationPos(r *rng.Random, pos cube.Pos) cube.BlockPos {
	x, y, z := randomOffset(r), randomOffset(r), randomOffset(r)
	return pos.MinBlock().Add(x, y, z)
}
