package replacer

import (
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
)

// floorBlend is how many blocks above the floor still receive scattered
// floor blocks.
const floorBlend = 5

// DefaultRegistry wires the standard chain for every known biome:
// shape, the biome's surface stage, swamp puddles where applicable, then
// ocean water.
func DefaultRegistry(seed int64, cfg Config) *Registry {
	r := NewRegistry()
	depth := cfg.DepthNoise(seed)
	level := int(cfg.Get(KeyWaterLevel))
	floor := cfg.Get(KeyFloorHeight)

	for _, b := range biome.All() {
		r.Register(b.ID, Stage{Kind: Shape, Replacer: TerrainShape(block.Stone)})

		switch {
		case b.Mesa != biome.NotMesa:
			r.Register(b.ID, Stage{Kind: MesaSurface, Replacer: NewMesa(seed, b, depth, cfg)})
		case b.ID == biome.MegaTaiga:
			r.Register(b.ID, Stage{Kind: Taiga, Replacer: NewTaiga(b, depth, cfg)})
		case b.ID == biome.MutatedSavanna:
			r.Register(b.ID, Stage{Kind: MutatedSavanna, Replacer: NewMutatedSavanna(b, depth, cfg)})
		default:
			r.Register(b.ID, Stage{Kind: Surface, Replacer: NewSurfaceDefault(b, depth, cfg)})
		}

		if !math.IsInf(floor, -1) {
			fy := int(math.Floor(floor))
			r.Register(b.ID, Stage{Kind: Surface, Replacer: YGradient{
				Seed:  seed,
				Salt:  uint64(b.ID),
				MinY:  fy + 1,
				MaxY:  fy + 1 + floorBlend,
				Block: block.Bedrock,
			}})
		}

		if b.ID == biome.Swampland {
			r.Register(b.ID, Stage{Kind: Swamp, Replacer: NewSwamp(seed, cfg)})
		}
		r.Register(b.ID, Stage{Kind: Ocean, Replacer: OceanWater(b, level)})
	}
	return r
}
