package replacer

import (
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/noise"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// TerrainShape fills positive density with solid.
func TerrainShape(solid block.State) Replacer {
	return Func(func(prev block.State, _, _, _ int, _, _, _, density float64) block.State {
		if density > 0 {
			return solid
		}
		return prev
	})
}

// OceanWater floods air below the water level. Snowy biomes freeze the
// topmost layer.
func OceanWater(b *biome.Biome, level int) Replacer {
	return Func(func(prev block.State, _, y, _ int, _, _, _, _ float64) block.State {
		if !prev.IsAir() || y >= level {
			return prev
		}
		if y == level-1 && b.Snowy() {
			return block.Ice
		}
		return block.Water
	})
}

// Depth thresholds shared by the taiga and mutated savanna surfaces,
// expressed in surface depth units.
const (
	rockyDepth  = 3.5833333333333335
	coarseDepth = 2.8333333333333335
	podzolDepth = 2.6833333333333336
)

// NewTaiga builds the mega taiga surface: podzol and coarse dirt patches
// where the surface is thick.
func NewTaiga(b *biome.Biome, depth noise.Node, cfg Config) *SurfaceDefault {
	s := NewSurfaceDefault(b, depth, cfg)
	s.TopThresholds = []Threshold{
		{Depth: podzolDepth, Block: block.Podzol},
		{Depth: rockyDepth, Block: block.CoarseDirt},
	}
	return s
}

// NewMutatedSavanna builds the shattered savanna surface, exposing stone
// and coarse dirt on thick patches.
func NewMutatedSavanna(b *biome.Biome, depth noise.Node, cfg Config) *SurfaceDefault {
	s := NewSurfaceDefault(b, depth, cfg)
	s.TopThresholds = []Threshold{
		{Depth: coarseDepth, Block: block.CoarseDirt},
		{Depth: rockyDepth, Block: block.Stone},
	}
	s.FillerThresholds = []Threshold{
		{Depth: rockyDepth, Block: block.Stone},
	}
	return s
}

// SurfaceDecoration places Ground just below the surface and Feature just
// above it where a noise value falls in the configured ranges. A zero
// state disables either side.
type SurfaceDecoration struct {
	Ground, Feature        block.State
	Threshold              float64
	MinY, MaxY             int
	Noise                  noise.Node
	GroundMin, GroundMax   float64
	FeatureMin, FeatureMax float64
}

// NewSwamp builds the swamp puddles: water one block under the sea level
// surface and lily pads on some of them.
func NewSwamp(seed int64, cfg Config) *SurfaceDecoration {
	level := int(cfg.Get(KeyWaterLevel))
	return &SurfaceDecoration{
		Ground:  block.Water,
		Feature: block.LilyPad,
		MinY:    level - 1,
		MaxY:    level,
		Noise: noise.New(seed+3).
			Frequency(0.25, 0, 0.25).
			Using(noise.Simplex).
			Build().
			Cached2D(256, func(x, z int) int { return x*16 + z }),
		GroundMin:  0,
		GroundMax:  math.Inf(1),
		FeatureMin: 0,
		FeatureMax: 0.12,
	}
}

// Replace implements Replacer.
func (d *SurfaceDecoration) Replace(prev block.State, x, y, z int, _, dy, _, density float64) block.State {
	if y < d.MinY || y > d.MaxY {
		return prev
	}
	if d.Ground != block.Air && y < d.MaxY && density > d.Threshold && density+dy <= d.Threshold {
		if v := d.Noise.At(x, y, z); v >= d.GroundMin && v <= d.GroundMax {
			return d.Ground
		}
		return prev
	}
	if d.Feature != block.Air && y > d.MinY && density <= d.Threshold && density-dy > d.Threshold {
		if v := d.Noise.At(x, y, z); v >= d.FeatureMin && v < d.FeatureMax {
			return d.Feature
		}
	}
	return prev
}

// YGradient scatters Block with a probability falling linearly from 1 at
// MinY to 0 at MaxY. The draw is a pure hash of the position.
type YGradient struct {
	Seed       int64
	Salt       uint64
	MinY, MaxY int
	Block      block.State
}

// Replace implements Replacer.
func (g YGradient) Replace(prev block.State, x, y, z int, _, _, _, _ float64) block.State {
	if y < g.MinY || y >= g.MaxY || prev.IsAir() {
		return prev
	}
	p := 1 - float64(y-g.MinY)/float64(g.MaxY-g.MinY)
	h := rng.Hash(g.Seed, x, y, z, g.Salt)
	if float64(h>>11)/(1<<53) < p {
		return g.Block
	}
	return prev
}
