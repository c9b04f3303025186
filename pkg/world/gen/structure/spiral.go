package structure

import (
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// SpiralOptions configures grid placement. Distances are in cubes.
type SpiralOptions struct {
	Distance      int
	MinSeparation int
	Salt          int64
	MaxRings      int
	// Y is the block height reported for found structures.
	Y       int
	Allowed biome.Set
}

// VillageOptions returns the classic village grid.
func VillageOptions() SpiralOptions {
	return SpiralOptions{
		Distance:      32,
		MinSeparation: 8,
		Salt:          10387312,
		MaxRings:      100,
		Y:             64,
		Allowed:       biome.SetOf(biome.Plains, biome.Desert, biome.Savanna, biome.Taiga),
	}
}

// SpiralPlacer places at most one structure per grid cell at a jittered
// position. It holds no mutable state and is safe for concurrent use.
type SpiralPlacer struct {
	seed     int64
	opts     SpiralOptions
	provider biome.Provider
}

// NewSpiralPlacer creates a placer. Distance is raised to at least
// MinSeparation+1 so every cell has room for its jitter.
func NewSpiralPlacer(seed int64, provider biome.Provider, opts SpiralOptions) *SpiralPlacer {
	opts.MinSeparation = max(opts.MinSeparation, 0)
	opts.Distance = max(opts.Distance, opts.MinSeparation+1)
	if opts.MaxRings <= 0 {
		opts.MaxRings = 100
	}
	return &SpiralPlacer{seed: seed, opts: opts, provider: provider}
}

// CanSpawnAt reports whether the column of cubes at (cubeX, cubeZ) holds a
// structure: its cell must pick exactly this column and the biome there must
// be allowed.
func (p *SpiralPlacer) CanSpawnAt(cubeX, cubeZ int) bool {
	x, z := p.candidate(cube.FloorDiv(cubeX, p.opts.Distance), cube.FloorDiv(cubeZ, p.opts.Distance))
	if x != cubeX || z != cubeZ {
		return false
	}
	c := cube.Pos{X: cubeX, Z: cubeZ}.Center()
	return p.provider.AreBiomesViable(c.X, c.Z, 0, p.opts.Allowed)
}

// Nearest searches square rings of cells around pos and returns the first
// structure found, or false after MaxRings rings.
func (p *SpiralPlacer) Nearest(pos cube.BlockPos) (cube.BlockPos, bool) {
	d := p.opts.Distance
	ox, oz := cube.BlockToCube(pos.X), cube.BlockToCube(pos.Z)

	for k := 0; k <= p.opts.MaxRings; k++ {
		for l := -k; l <= k; l++ {
			edgeX := l == -k || l == k
			for m := -k; m <= k; m++ {
				if !edgeX && m != -k && m != k {
					continue
				}
				x, z := p.candidate(cube.FloorDiv(ox+d*l, d), cube.FloorDiv(oz+d*m, d))
				if p.CanSpawnAt(x, z) {
					c := cube.Pos{X: x, Z: z}.Center()
					return cube.BlockPos{X: c.X, Y: p.opts.Y, Z: c.Z}, true
				}
			}
		}
	}
	return cube.BlockPos{}, false
}

// candidate returns the jittered column chosen by a cell.
func (p *SpiralPlacer) candidate(cellX, cellZ int) (int, int) {
	d, sep := p.opts.Distance, p.opts.MinSeparation
	r := rng.ForCell(p.seed, cellX, cellZ, p.opts.Salt)
	x := cellX*d + r.Intn(d-sep)
	z := cellZ*d + r.Intn(d-sep)
	return x, z
}
