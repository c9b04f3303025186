package replacer

import (
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/noise"
)

// SurfaceDefault dresses the terrain skin with the biome's top and filler
// blocks. Depth is a per-column field giving how thick the dressing is.
type SurfaceDefault struct {
	Biome *biome.Biome
	Depth noise.Node
	// GradientWeight thins the filler band on steep slopes.
	GradientWeight float64
	OceanLevel     float64
	// MaxDepth bounds the density band worth inspecting.
	MaxDepth float64
	// FloorY disables the floor when it is negative infinity.
	FloorY float64
	Floor  block.State
	// TopThresholds and FillerThresholds override the biome blocks where
	// the column depth exceeds a threshold. Sorted by ascending Depth.
	TopThresholds    []Threshold
	FillerThresholds []Threshold
}

// Threshold substitutes Block once the surface depth exceeds Depth.
type Threshold struct {
	Depth float64
	Block block.State
}

func pick(ts []Threshold, depth float64, def block.State) block.State {
	for i := len(ts) - 1; i >= 0; i-- {
		if depth > ts[i].Depth {
			return ts[i].Block
		}
	}
	return def
}

func (s *SurfaceDefault) top(depth float64) block.State {
	return pick(s.TopThresholds, depth, s.Biome.Top)
}

func (s *SurfaceDefault) filler(depth float64) block.State {
	return pick(s.FillerThresholds, depth, s.Biome.Filler)
}

// NewSurfaceDefault builds the surface stage for b from cfg.
func NewSurfaceDefault(b *biome.Biome, depth noise.Node, cfg Config) *SurfaceDefault {
	return &SurfaceDefault{
		Biome:          b,
		Depth:          depth,
		GradientWeight: cfg.Get(KeyGradientDecrease),
		OceanLevel:     cfg.Get(KeyWaterLevel),
		MaxDepth:       cfg.Get(KeyDepthCutoff),
		FloorY:         cfg.Get(KeyFloorHeight),
		Floor:          block.Bedrock,
	}
}

// Replace implements Replacer.
func (s *SurfaceDefault) Replace(prev block.State, x, y, z int, dx, dy, dz, density float64) block.State {
	if prev.IsAir() {
		return prev
	}
	if fy := float64(y); fy <= s.FloorY {
		if fy < s.FloorY {
			return block.Air
		}
		return s.Floor
	}
	if density < 0 || density > s.MaxDepth*math.Abs(dy) {
		return prev
	}

	depth := s.Depth.At(x, 0, z)

	if density+dy <= 0 {
		fy := float64(y)
		switch {
		case fy < s.OceanLevel-7-depth:
			return block.Gravel
		case fy < s.OceanLevel-1:
			if depth <= 0 {
				return prev
			}
			return s.filler(depth)
		case depth <= 0:
			return block.Air
		default:
			return s.top(depth)
		}
	}

	// float32 reciprocal
	dyInv := float64(1 / float32(dy))
	adjusted := density * math.Abs(dyInv)
	xzSize := dx*dx + dz*dz
	if dy < 0 && adjusted < depth+1-s.GradientWeight*xzSize*dyInv {
		return s.filler(depth)
	}
	if depth > 1 && float64(y) > s.OceanLevel-depth && s.Biome.Filler.IsSand() {
		return block.SandstoneFor(s.Biome.Filler)
	}
	return prev
}
