// Package structure places rare features and carves terrain after the
// base shape has been generated.
package structure

import (
	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// Primer is the voxel grid of one cube that carvers read and write.
// *cube.Primer implements it.
type Primer interface {
	Get(x, y, z int) block.State
	Set(x, y, z int, s block.State)
}

// Carver mutates a freshly generated cube in place.
type Carver interface {
	Generate(p Primer, pos cube.Pos)
}

// sourceFunc handles one source cube whose features may reach the target.
type sourceFunc func(r *rng.Random, sx, sy, sz int)

// forEachSource visits every source cube within rangeXZ/rangeY of target
// that lies on the spacing grid. Each source gets a generator reseeded from
// its coordinates, so the features a cube receives do not depend on the
// order cubes are generated in.
func forEachSource(seed int64, target cube.Pos, rangeXZ, rangeY, spacingBits, spacingBitsY int, fn sourceFunc) {
	r := rng.New(seed)
	xMul, yMul, zMul := r.Int64(), r.Int64(), r.Int64()

	step, stepY := 1<<spacingBits, 1<<spacingBitsY
	align := func(v, s int) int { return cube.FloorDiv(v, s) * s }

	for sx := align(target.X-rangeXZ, step); sx <= target.X+rangeXZ; sx += step {
		for sy := align(target.Y-rangeY, stepY); sy <= target.Y+rangeY; sy += stepY {
			for sz := align(target.Z-rangeXZ, step); sz <= target.Z+rangeXZ; sz += step {
				r.SetSeed(int64(sx)*xMul ^ int64(sy)*yMul ^ int64(sz)*zMul ^ seed)
				fn(r, sx, sy, sz)
			}
		}
	}
}

// replaceable reports whether carvers may remove s.
func replaceable(s block.State) bool {
	switch s.ID() {
	case block.Stone.ID(), block.Dirt.ID(), block.Grass.ID():
		return true
	}
	return false
}

// isWater matches still and flowing water.
func isWater(s block.State) bool {
	return s == block.Water || s == block.FlowingWater
}

// box is a half-open local block range clamped to one cube.
type box struct {
	minX, minY, minZ int
	maxX, maxY, maxZ int
}

func (b *box) clamp() {
	b.minX, b.maxX = max(b.minX, 0), min(b.maxX, cube.Size)
	b.minY, b.maxY = max(b.minY, 0), min(b.maxY, cube.Size)
	b.minZ, b.maxZ = max(b.minZ, 0), min(b.maxZ, cube.Size)
}

// scanWalls reports whether any block on the faces of b matches pred.
func scanWalls(p Primer, b box, pred func(block.State) bool) bool {
	for x := b.minX; x < b.maxX; x++ {
		for z := b.minZ; z < b.maxZ; z++ {
			for y := b.maxY + 1; y >= b.minY-1; y-- {
				if y < 0 || y >= cube.Size {
					continue
				}
				if pred(p.Get(x, y, z)) {
					return true
				}
				// only the walls: skip the interior of this column
				if y != b.minY-1 && x != b.minX && x != b.maxX-1 && z != b.minZ && z != b.maxZ-1 {
					y = b.minY
				}
			}
		}
	}
	return false
}

// normalizedDistance is the distance from the centre of a local block to
// centre, in units of size.
func normalizedDistance(cubeCoord, local int, centre, size float64) float64 {
	return (float64(cube.LocalToBlock(cubeCoord, local)) + 0.5 - centre) / size
}
