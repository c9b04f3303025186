// Package blend smooths biome height parameters across biome borders and
// precomputes per-cube lookups for the terrain generator.
package blend

import (
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/cache"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/replacer"
)

// DefaultRadius is the smoothing radius in biome sections.
const DefaultRadius = 2

// GridSize is the edge of the per-cube section grid: four sections plus
// one of margin so interpolation can reach the next cube.
const GridSize = cube.Size/biome.SectionSize + 1

const (
	chunkCacheEdge   = 3
	chunkCacheSize   = chunkCacheEdge * chunkCacheEdge
	sectionCacheEdge = 16
	sectionCacheSize = sectionCacheEdge * sectionCacheEdge

	// smallest magnitude allowed for the height + 2 denominator
	minDenominator = 1e-6
)

type column struct{ X, Z int }

// Terrain is the smoothed height and height variation of one section, in
// generator units.
type Terrain struct {
	Height, Variation float64
}

// Smoother blends biome parameters and caches the results. It is owned by
// a single generator and is not safe for concurrent use.
type Smoother struct {
	provider biome.Provider
	registry *replacer.Registry
	radius   int
	diameter int
	weights  []float64

	sections *cache.Cache[column, *[16]*biome.Biome]
	blocks   *cache.Cache[column, *[cube.Size * cube.Size]*biome.Biome]
	masks    *cache.Cache[column, *[cube.Size * cube.Size]replacer.Mask]
	data     *cache.Cache[column, Terrain]

	startX, startZ int
	grid           [GridSize * GridSize]Terrain
	biomes         *[cube.Size * cube.Size]*biome.Biome
	replacers      [cube.Size * cube.Size]replacer.Mask
}

// New creates a smoother over provider with the given radius in sections.
// A negative radius is treated as zero.
func New(provider biome.Provider, registry *replacer.Registry, radius int) *Smoother {
	radius = max(radius, 0)
	d := radius*2 + 1
	s := &Smoother{
		provider: provider,
		registry: registry,
		radius:   radius,
		diameter: d,
		weights:  make([]float64, d*d),
	}
	for x := -radius; x <= radius; x++ {
		for z := -radius; z <= radius; z++ {
			s.weights[x+radius+(z+radius)*d] = 10 / math.Sqrt(float64(x*x+z*z)+float64(float32(0.2)))
		}
	}

	hashChunk := func(c column) int { return c.X*chunkCacheEdge + c.Z }
	s.sections = cache.New(chunkCacheSize, hashChunk, s.genSections)
	s.blocks = cache.New(chunkCacheSize, hashChunk, s.genBlocks)
	s.masks = cache.New(chunkCacheSize, hashChunk, s.genMasks)
	s.data = cache.New(sectionCacheSize, func(c column) int { return c.X*sectionCacheEdge + c.Z }, s.genTerrain)
	return s
}

// Init precomputes the section grid, biome array and replacer masks for the
// column of cubes at (cubeX, cubeZ). cubeY is accepted for symmetry.
func (s *Smoother) Init(cubeX, _, cubeZ int) {
	sx0 := cubeX << 2
	sz0 := cubeZ << 2
	s.startX = cube.ToMinBlock(cubeX)
	s.startZ = cube.ToMinBlock(cubeZ)

	for i := range GridSize {
		for j := range GridSize {
			s.grid[i*GridSize+j] = s.data.Get(column{sx0 + i, sz0 + j})
		}
	}

	s.biomes = s.blocks.Get(column{cubeX, cubeZ})
	for lx := range cube.Size {
		for lz := range cube.Size {
			s.replacers[lx<<4|lz] = s.maskAt(s.startX+lx, s.startZ+lz)
		}
	}
}

// Height returns the smoothed height for the section holding (x, z).
// Valid for x, z within the initialized cube plus one block.
func (s *Smoother) Height(x, _, z int) float64 {
	return s.grid[s.cell(x, z)].Height
}

// Volatility returns the smoothed height variation at (x, z).
func (s *Smoother) Volatility(x, _, z int) float64 {
	return s.grid[s.cell(x, z)].Variation
}

// Biome returns the raw biome of the column within the initialized cube.
func (s *Smoother) Biome(x, z int) *biome.Biome {
	return s.biomes[(z&15)*16+(x&15)]
}

// Replacers returns the replacer mask of the column.
func (s *Smoother) Replacers(x, _, z int) replacer.Mask {
	return s.replacers[(x&15)<<4|(z&15)]
}

// Stages returns the replacer chain of the column's biome.
func (s *Smoother) Stages(x, z int) []replacer.Stage {
	return s.registry.Stages(s.Biome(x, z).ID)
}

// Section returns the converted smoothed terrain of section (sx, sz),
// independent of Init.
func (s *Smoother) Section(sx, sz int) Terrain {
	return s.data.Get(column{sx, sz})
}

// SmoothSection returns the weighted average of raw biome height and
// variation around section (sx, sz), before unit conversion.
func (s *Smoother) SmoothSection(sx, sz int) (height, variation float64) {
	h, v, _ := s.smooth(sx, sz)
	return h, v
}

func (s *Smoother) cell(x, z int) int {
	return ((x-s.startX)>>2)*GridSize + (z-s.startZ)>>2
}

// smooth accumulates neighbour offsets from the centre values so a uniform
// neighbourhood yields the centre exactly.
func (s *Smoother) smooth(sx, sz int) (height, variation, weightSum float64) {
	centre := s.sectionBiome(sx, sz)
	ch, cv := centre.BaseHeight, centre.HeightVariation

	var dh, dv float64
	for nx := -s.radius; nx <= s.radius; nx++ {
		for nz := -s.radius; nz <= s.radius; nz++ {
			b := s.sectionBiome(sx+nx, sz+nz)
			h := b.BaseHeight

			den := h + 2
			if math.Abs(den) < minDenominator {
				den = minDenominator
			}
			w := math.Abs(s.weights[nx+s.radius+(nz+s.radius)*s.diameter] / den)
			if h > ch {
				w /= 2
			}
			dh += (h - ch) * w
			dv += (b.HeightVariation - cv) * w
			weightSum += w
		}
	}
	return ch + dh/weightSum, cv + dv/weightSum, weightSum
}

func (s *Smoother) sectionBiome(sx, sz int) *biome.Biome {
	return s.sections.Get(column{sx >> 2, sz >> 2})[sx&3|(sz&3)<<2]
}

func (s *Smoother) maskAt(x, z int) replacer.Mask {
	return s.masks.Get(column{cube.BlockToCube(x), cube.BlockToCube(z)})[cube.BlockToLocal(z)<<4|cube.BlockToLocal(x)]
}

func (s *Smoother) genTerrain(c column) Terrain {
	h, v := s.SmoothSection(c.X, c.Z)
	return Terrain{
		Height:    biome.VanillaHeight(h),
		Variation: biome.VanillaVariation(v),
	}
}

func (s *Smoother) genSections(c column) *[16]*biome.Biome {
	var out [16]*biome.Biome
	for lx := range 4 {
		for lz := range 4 {
			out[lx|lz<<2] = s.provider.SectionAt(c.X<<2+lx, c.Z<<2+lz)
		}
	}
	return &out
}

func (s *Smoother) genBlocks(c column) *[cube.Size * cube.Size]*biome.Biome {
	var out [cube.Size * cube.Size]*biome.Biome
	x0, z0 := cube.ToMinBlock(c.X), cube.ToMinBlock(c.Z)
	for lz := range cube.Size {
		for lx := range cube.Size {
			out[lz*cube.Size+lx] = s.provider.BiomeAt(x0+lx, z0+lz)
		}
	}
	return &out
}

func (s *Smoother) genMasks(c column) *[cube.Size * cube.Size]replacer.Mask {
	biomes := s.blocks.Get(c)
	var out [cube.Size * cube.Size]replacer.Mask
	for i, b := range biomes {
		out[i] = s.registry.Mask(b.ID)
	}
	return &out
}
