// Package gen is the cube generator host: it shapes terrain from layered
// noise, applies the biome replacer chains, carves caves and ravines, and
// populates finished cubes with structures and decoration.
package gen

import (
	"fmt"
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/blend"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/cache"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/noise"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/populate"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/replacer"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/structure"
)

// Debug makes generation panic on non-finite density values instead of
// letting them through as air.
var Debug = false

// CubeGenerator is implemented by every generator the host can drive.
type CubeGenerator interface {
	GenerateCube(cubeX, cubeY, cubeZ int) *cube.Primer
	Populate(w populate.World, pos cube.Pos)
	NearestStructure(kind StructureKind, pos cube.BlockPos) (cube.BlockPos, bool)
}

// StructureKind names a structure type for NearestStructure.
type StructureKind string

const (
	Stronghold StructureKind = "Stronghold"
	Village    StructureKind = "Village"
)

const (
	cacheSize2D = 16 * 16
	cacheSize3D = 16 * 16 * 16

	saltPopulate   = 0x706f70
	saltStronghold = 0x7374726f
)

func hash2D(x, z int) int    { return x + z*5 }
func hash3D(x, y, z int) int { return x + z*5 + y*25 }

// densityStep is the coarse sampling grid of the density function.
var densityStep = noise.Step{X: 4, Y: 8, Z: 4}

// Option customizes a Generator.
type Option func(*options)

type options struct {
	provider biome.Provider
	veto     populate.Veto
}

// WithProvider replaces the biome provider chosen from the settings.
func WithProvider(p biome.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithVeto lets the host skip decoration stages.
func WithVeto(v populate.Veto) Option {
	return func(o *options) { o.veto = v }
}

// Generator produces cubes deterministically from a seed and settings. Its
// noise and biome caches mutate on every lookup, so a Generator must be
// used by one goroutine at a time; run one per worker for parallelism.
type Generator struct {
	seed     int64
	settings *Settings
	provider biome.Provider
	smoother *blend.Smoother
	density  noise.Field

	carvers     []structure.Carver
	strongholds *structure.RingPlacer
	villages    *structure.SpiralPlacer
	populators  []populate.Populator

	areas []area

	initialized  bool
	initX, initZ int
}

type area struct {
	box cube.AABB
	gen *Generator
}

// New creates a generator. Settings are used as given; call Validate first
// when they come from outside.
func New(seed int64, s *Settings, opts ...Option) *Generator {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	if o.provider == nil {
		o.provider = providerFor(seed, s)
	}

	g := &Generator{
		seed:     seed,
		settings: s,
		provider: o.provider,
	}
	registry := replacer.DefaultRegistry(seed, s.ReplacerConfig())
	g.smoother = blend.New(g.provider, registry, blend.DefaultRadius)
	g.density = g.buildDensity()

	if s.Caves {
		g.carvers = append(g.carvers, structure.NewCaveCarver(seed, s.ExpectedBaseHeight))
	}
	if s.Ravines {
		g.carvers = append(g.carvers, structure.NewRavineCarver(seed, s.ExpectedBaseHeight))
	}
	if s.Strongholds {
		ring := structure.StrongholdOptions(s.ExpectedBaseHeight, s.ExpectedHeightVariation, s.AlternateStrongholdPositions)
		g.strongholds = structure.NewRingPlacer(seed, g.provider, ring)
	}
	if s.Villages {
		spiral := structure.VillageOptions()
		spiral.Y = s.WaterLevel + 1
		g.villages = structure.NewSpiralPlacer(seed, g.provider, spiral)
	}

	veto := settingsVeto(s, o.veto)
	g.populators = []populate.Populator{
		&populate.Ores{
			Standard:     s.StandardOres,
			Periodic:     s.PeriodicOres,
			HeightFactor: s.HeightFactor,
			HeightOffset: s.HeightOffset,
			Veto:         veto,
		},
		&populate.Decorator{
			Veto:                    veto,
			ExpectedBaseHeight:      s.ExpectedBaseHeight,
			ExpectedHeightVariation: s.ExpectedHeightVariation,
		},
	}
	if s.Snow {
		g.populators = append(g.populators, &populate.Snow{Veto: veto})
	}

	for _, a := range s.CubeAreas {
		g.areas = append(g.areas, area{box: a.Box, gen: New(seed, a.Settings, opts...)})
	}
	return g
}

func providerFor(seed int64, s *Settings) biome.Provider {
	if s.Biome >= 0 {
		if b := biome.Lookup(biome.ID(s.Biome)); b != nil {
			return biome.NewSingleProvider(b)
		}
	}
	return biome.NewNoiseProvider(seed, s.BiomeSize/4)
}

// settingsVeto skips the lake stages the settings disable, then defers to
// the host veto.
func settingsVeto(s *Settings, host populate.Veto) populate.Veto {
	return func(st populate.Stage, pos cube.Pos) bool {
		switch {
		case st == populate.StageLakeWater && !s.WaterLakes:
			return true
		case st == populate.StageLakeLava && !s.LavaLakes:
			return true
		}
		return host != nil && host(st, pos)
	}
}

// buildDensity layers the terrain noise: a selector blends low and high
// 3-D noise, a 2-D depth field shifts it, the result is scaled by the
// smoothed biome variation and offset by the biome height, and y is
// subtracted so density falls with altitude.
func (g *Generator) buildDensity() noise.Field {
	s := g.settings
	r := rng.New(g.seed)

	layer := func(n NoiseSettings, seed int64) noise.Field {
		return noise.New(seed).
			Normalize(-1, 1).
			Frequency(n.FrequencyX, n.FrequencyY, n.FrequencyZ).
			Octaves(n.Octaves).
			Build().
			ScaleBias(n.Factor, n.Offset)
	}

	selector := layer(s.SelectorNoise, r.Int64()).Clamp(0, 1)
	low := layer(s.LowNoise, r.Int64())
	high := layer(s.HighNoise, r.Int64())

	dn := s.DepthNoise
	dn.FrequencyY = 0
	depth := layer(dn, r.Int64()).
		MulIf(noise.Negative, noise.Const(-0.3)).
		ScaleBias(3, -2).
		Clamp(-2, 1).
		DivIf(noise.Negative, noise.Const(2*2*1.4)).
		DivIf(noise.Positive, noise.Const(8)).
		Scale(0.2 * 17 / 64.0).
		Cached2D(cacheSize2D, hash2D)

	height := noise.Func(func(x, y, z int) float64 {
		return g.smoother.Height(x, y, z)*s.HeightFactor + s.HeightOffset
	})
	volatility := noise.Of(noise.Func(func(x, y, z int) float64 {
		v := g.smoother.Volatility(x, y, z)
		if height(x, y, z) > float64(y) {
			v *= s.HeightVariationBelowAverage
		}
		return v*s.HeightVariationFactor + s.HeightVariationOffset
	}))
	altitude := noise.Func(func(_, y, _ int) float64 { return float64(y) })

	return noise.Lerp(selector, low, high).
		Add(depth).
		Mul(volatility).
		Add(height).
		Sub(volatility.Signum().Mul(altitude)).
		Cached3D(cacheSize3D, hash3D, cache.Options{AlwaysMiss: !s.FixDensityCache})
}

// Seed returns the world seed.
func (g *Generator) Seed() int64 { return g.seed }

// Settings returns the settings the generator was built with.
func (g *Generator) Settings() *Settings { return g.settings }

func (g *Generator) areaFor(pos cube.Pos) *Generator {
	for _, a := range g.areas {
		if a.box.Contains(pos) {
			return a.gen
		}
	}
	return nil
}

// initColumn prepares the smoother for the column of cubes at (cx, cz).
func (g *Generator) initColumn(cx, cz int) {
	if g.initialized && g.initX == cx && g.initZ == cz {
		return
	}
	g.smoother.Init(cx, 0, cz)
	g.initialized, g.initX, g.initZ = true, cx, cz
}

// GenerateCube shapes the cube, applies each column's replacer chain and
// runs the carvers.
func (g *Generator) GenerateCube(cubeX, cubeY, cubeZ int) *cube.Primer {
	pos := cube.Pos{X: cubeX, Y: cubeY, Z: cubeZ}
	if a := g.areaFor(pos); a != nil {
		return a.GenerateCube(cubeX, cubeY, cubeZ)
	}

	p := cube.NewPrimer()
	g.initColumn(cubeX, cubeZ)

	o := pos.MinBlock()
	box := noise.Box{
		MinX: o.X, MinY: o.Y, MinZ: o.Z,
		MaxX: o.X + cube.Size, MaxY: o.Y + cube.Size, MaxZ: o.Z + cube.Size,
	}
	noise.ForEachScaled(g.density, box, densityStep, func(x, y, z int, dx, dy, dz, v float64) {
		if Debug && (math.IsNaN(v) || math.IsInf(v, 0)) {
			panic(fmt.Sprintf("gen: non-finite density %v at %d,%d,%d", v, x, y, z))
		}
		s := replacer.Apply(g.smoother.Stages(x, z), x, y, z, dx, dy, dz, v)
		p.Set(cube.BlockToLocal(x), cube.BlockToLocal(y), cube.BlockToLocal(z), s)
	})

	for _, c := range g.carvers {
		c.Generate(p, pos)
	}
	return p
}

// Populate places structures and decoration for the cube at pos. Every
// write lands in the population area, offset half a cube from pos, which
// the host must have generated.
func (g *Generator) Populate(w populate.World, pos cube.Pos) {
	if a := g.areaFor(pos); a != nil {
		a.Populate(w, pos)
		return
	}

	centre := pos.Center()
	b := g.provider.BiomeAt(centre.X, centre.Z)
	r := rng.ForCube(g.seed, pos.X, pos.Y, pos.Z, saltPopulate)

	g.placeStructures(w, pos)
	for _, p := range g.populators {
		p.Populate(w, r, pos, b)
	}
}

// placeStructures writes the part of any structure start that overlaps the
// population area. The area spans two cubes per axis, so each axis checks
// pos and its upper neighbour.
func (g *Generator) placeStructures(w populate.World, pos cube.Pos) {
	region := structure.PopulationRegion(pos)
	for dx := range 2 {
		for dz := range 2 {
			ax, az := pos.X+dx, pos.Z+dz
			if g.strongholds != nil {
				for dy := range 2 {
					a := cube.Pos{X: ax, Y: pos.Y + dy, Z: az}
					if !g.strongholds.CanSpawnAt(a) {
						continue
					}
					// each cube sharing the room replays the same draws
					r := rng.ForCube(g.seed, a.X, a.Y, a.Z, saltStronghold)
					structure.BuildPortalRoom(w, portalOrigin(a), region, r)
				}
			}
			if g.villages != nil && g.villages.CanSpawnAt(ax, az) {
				g.placeWell(w, ax, az, region)
			}
		}
	}
}

// portalOrigin centres the portal room in its anchor cube.
func portalOrigin(a cube.Pos) cube.BlockPos {
	return a.MinBlock().Add(
		(cube.Size-structure.PortalRoomWidth)/2,
		(cube.Size-structure.PortalRoomHeight)/2,
		(cube.Size-structure.PortalRoomLength)/2,
	)
}

func (g *Generator) placeWell(w populate.World, cx, cz int, region structure.Region) {
	c := cube.Pos{X: cx, Z: cz}.Center()
	ground := g.SurfaceY(c.X, c.Z) + 1
	if ground-structure.WellDepth-1 >= region.Max.Y || ground+5 <= region.Min.Y {
		return
	}
	origin := cube.BlockPos{X: c.X - structure.WellSize/2, Y: ground, Z: c.Z - structure.WellSize/2}
	structure.BuildWell(w, origin, region, g.provider.BiomeAt(c.X, c.Z))
}

// surfaceScan bounds the SurfaceY search around the smoothed height.
const surfaceScan = 128

// SurfaceY returns the highest block at (x, z) with positive raw density,
// searched within surfaceScan blocks of the smoothed biome height. It
// ignores carvers and population, so every caller sees the same value.
func (g *Generator) SurfaceY(x, z int) int {
	g.initColumn(cube.BlockToCube(x), cube.BlockToCube(z))
	h := int(math.Round(g.smoother.Height(x, 0, z)*g.settings.HeightFactor + g.settings.HeightOffset))
	for y := h + surfaceScan; y >= h-surfaceScan; y-- {
		if g.density.At(x, y, z) > 0 {
			return y
		}
	}
	return h
}

// BiomeAt returns the biome of the column.
func (g *Generator) BiomeAt(x, z int) *biome.Biome {
	g.initColumn(cube.BlockToCube(x), cube.BlockToCube(z))
	return g.smoother.Biome(x, z)
}

// HeightAt returns the smoothed biome height of the column in generator
// units.
func (g *Generator) HeightAt(x, z int) float64 {
	g.initColumn(cube.BlockToCube(x), cube.BlockToCube(z))
	return g.smoother.Height(x, 0, z)
}

// VolatilityAt returns the smoothed height variation of the column.
func (g *Generator) VolatilityAt(x, z int) float64 {
	g.initColumn(cube.BlockToCube(x), cube.BlockToCube(z))
	return g.smoother.Volatility(x, 0, z)
}

// ReplacerMaskAt returns which replacer kinds act on the column.
func (g *Generator) ReplacerMaskAt(x, z int) replacer.Mask {
	g.initColumn(cube.BlockToCube(x), cube.BlockToCube(z))
	return g.smoother.Replacers(x, 0, z)
}

// NearestStructure finds the closest structure of the given kind, or
// false when the kind is disabled or none is in range.
func (g *Generator) NearestStructure(kind StructureKind, pos cube.BlockPos) (cube.BlockPos, bool) {
	switch kind {
	case Stronghold:
		if g.strongholds != nil {
			return g.strongholds.Nearest(pos), true
		}
	case Village:
		if g.villages != nil {
			return g.villages.Nearest(pos)
		}
	}
	return cube.BlockPos{}, false
}
