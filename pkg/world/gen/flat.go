package gen

import (
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/populate"
)

// FlatLayer fills blocks with FromY <= y < ToY.
type FlatLayer struct {
	FromY int         `yaml:"from_y" json:"from_y"`
	ToY   int         `yaml:"to_y" json:"to_y"`
	Block block.State `yaml:"block" json:"block"`
}

// DefaultFlatLayers is an endless stone floor capped with dirt and grass,
// the grass top at y=-1.
func DefaultFlatLayers() []FlatLayer {
	return []FlatLayer{
		{FromY: math.MinInt32, ToY: math.MinInt32 + 1, Block: block.Bedrock},
		{FromY: math.MinInt32 + 1, ToY: -8, Block: block.Stone},
		{FromY: -8, ToY: -1, Block: block.Dirt},
		{FromY: -1, ToY: 0, Block: block.Grass},
	}
}

// FlatGenerator generates horizontal layers with no features.
type FlatGenerator struct {
	layers []FlatLayer
}

// NewFlatGenerator creates a FlatGenerator. Nil layers use the defaults.
func NewFlatGenerator(layers []FlatLayer) *FlatGenerator {
	if layers == nil {
		layers = DefaultFlatLayers()
	}
	return &FlatGenerator{layers: layers}
}

// GenerateCube fills the parts of every layer that overlap the cube.
func (g *FlatGenerator) GenerateCube(_, cy, _ int) *cube.Primer {
	p := cube.NewPrimer()
	floor := cube.ToMinBlock(cy)
	for _, l := range g.layers {
		from := max(l.FromY-floor, 0)
		to := min(l.ToY-floor, cube.Size)
		for y := from; y < to; y++ {
			for x := range cube.Size {
				for z := range cube.Size {
					p.Set(x, y, z, l.Block)
				}
			}
		}
	}
	return p
}

// Populate does nothing; flat worlds have no decoration.
func (g *FlatGenerator) Populate(populate.World, cube.Pos) {}

// TopY returns the y of the highest non-air layer block.
func (g *FlatGenerator) TopY() int {
	top := math.MinInt32
	for _, l := range g.layers {
		if !l.Block.IsAir() {
			top = max(top, l.ToY-1)
		}
	}
	return top
}

// BiomeAt returns plains everywhere.
func (g *FlatGenerator) BiomeAt(_, _ int) *biome.Biome { return biome.Lookup(biome.Plains) }

// NearestStructure reports the origin for strongholds.
func (g *FlatGenerator) NearestStructure(kind StructureKind, _ cube.BlockPos) (cube.BlockPos, bool) {
	return cube.BlockPos{}, kind == Stronghold
}
