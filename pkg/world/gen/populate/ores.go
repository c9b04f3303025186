package populate

import (
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// StandardOre spawns veins uniformly between two heights. Heights are in
// terrain units: block = h*HeightFactor + HeightOffset.
type StandardOre struct {
	Block block.State `yaml:"block" json:"block"`
	// Biomes restricts the ore; nil means everywhere.
	Biomes biome.Set `yaml:"-" json:"-"`
	// GenIn lists the blocks a vein may replace; nil means stone.
	GenIn       block.Set `yaml:"-" json:"-"`
	Size        int       `yaml:"size" json:"size"`
	Attempts    int       `yaml:"attempts" json:"attempts"`
	Probability float64   `yaml:"probability" json:"probability"`
	MinHeight   float64   `yaml:"min_height" json:"min_height"`
	MaxHeight   float64   `yaml:"max_height" json:"max_height"`
}

// PeriodicOre spawns veins in repeating Gaussian bands.
type PeriodicOre struct {
	StandardOre `yaml:",inline"`
	Mean        float64 `yaml:"mean" json:"mean"`
	StdDev      float64 `yaml:"std_dev" json:"std_dev"`
	Spacing     float64 `yaml:"spacing" json:"spacing"`
}

// cubesPerColumn converts per-chunk rates to per-cube probabilities.
const cubesPerColumn = 256.0 / cube.Size

var (
	inf    = math.Inf(1)
	hills  = biome.SetOf(biome.ExtremeHills)
	mesas  = biome.SetOf(biome.Mesa, biome.MesaForest, biome.MesaPlateau, biome.MesaBryce)
	negInf = math.Inf(-1)
)

// DefaultStandardOres returns the classic overworld ore list.
func DefaultStandardOres() []StandardOre {
	perRange := func(blocks float64) float64 { return 256 / blocks / cubesPerColumn }
	return []StandardOre{
		{Block: block.Dirt, Size: 33, Attempts: 10, Probability: 1 / cubesPerColumn, MinHeight: negInf, MaxHeight: inf},
		{Block: block.Gravel, Size: 33, Attempts: 8, Probability: 1 / cubesPerColumn, MinHeight: negInf, MaxHeight: inf},
		{Block: block.Granite, Size: 33, Attempts: 10, Probability: perRange(80), MinHeight: negInf, MaxHeight: (80.0 - 64) / 64},
		{Block: block.Diorite, Size: 33, Attempts: 10, Probability: perRange(80), MinHeight: negInf, MaxHeight: (80.0 - 64) / 64},
		{Block: block.Andesite, Size: 33, Attempts: 10, Probability: perRange(80), MinHeight: negInf, MaxHeight: (80.0 - 64) / 64},
		{Block: block.CoalOre, Size: 17, Attempts: 20, Probability: perRange(128), MinHeight: negInf, MaxHeight: 1},
		{Block: block.IronOre, Size: 9, Attempts: 20, Probability: perRange(64), MinHeight: negInf, MaxHeight: 0},
		{Block: block.GoldOre, Size: 9, Attempts: 2, Probability: perRange(32), MinHeight: negInf, MaxHeight: -0.5},
		{Block: block.RedstoneOre, Size: 8, Attempts: 8, Probability: perRange(16), MinHeight: negInf, MaxHeight: -0.75},
		{Block: block.DiamondOre, Size: 8, Attempts: 1, Probability: perRange(16), MinHeight: negInf, MaxHeight: -0.75},
		{Block: block.EmeraldOre, Size: 1, Attempts: 11, Probability: 0.5 * perRange(28), MinHeight: negInf, MaxHeight: 0, Biomes: hills},
		{Block: block.Silverfish, Size: 7, Attempts: 7, Probability: perRange(64), MinHeight: negInf, MaxHeight: -0.5, Biomes: hills},
		{Block: block.GoldOre, Size: 20, Attempts: 2, Probability: perRange(32), MinHeight: -0.5, MaxHeight: 0.25, Biomes: mesas},
	}
}

// DefaultPeriodicOres returns the banded lapis configuration.
func DefaultPeriodicOres() []PeriodicOre {
	return []PeriodicOre{{
		StandardOre: StandardOre{
			Block: block.LapisOre, Size: 7, Attempts: 1, Probability: 0.933307775,
			MinHeight: negInf, MaxHeight: -0.5,
		},
		Mean:    -0.75,
		StdDev:  0.11231704455,
		Spacing: 3,
	}}
}

// Ores spawns the configured veins.
type Ores struct {
	Standard     []StandardOre
	Periodic     []PeriodicOre
	HeightFactor float64
	HeightOffset float64
	Veto         Veto
}

// Populate runs every ore allowed in b.
func (o *Ores) Populate(w World, r *rng.Random, pos cube.Pos, b *biome.Biome) {
	if !o.Veto.allowed(StageOre, pos) {
		return
	}
	for _, c := range o.Standard {
		if c.Biomes != nil && !c.Biomes.Contains(b.ID) {
			continue
		}
		o.uniform(w, r, pos, c)
	}
	for _, c := range o.Periodic {
		if c.Biomes != nil && !c.Biomes.Contains(b.ID) {
			continue
		}
		o.bellCurve(w, r, pos, c)
	}
}

func (o *Ores) uniform(w World, r *rng.Random, pos cube.Pos, c StandardOre) {
	minY := toBlockY(c.MinHeight, o.HeightFactor, o.HeightOffset)
	maxY := toBlockY(c.MaxHeight, o.HeightFactor, o.HeightOffset)
	base := cube.ToMinBlock(pos.Y)
	if base > maxY || base+cube.Size-1 < minY {
		return
	}
	for range c.Attempts {
		if r.Float64() > c.Probability {
			continue
		}
		y := base + randomOffset(r)
		if y > maxY || y < minY {
			continue
		}
		x := cube.ToMinBlock(pos.X) + r.Intn(cube.Size)
		z := cube.ToMinBlock(pos.Z) + r.Intn(cube.Size)
		placeVein(w, r, cube.BlockPos{X: x, Y: y, Z: z}, c)
	}
}

func (o *Ores) bellCurve(w World, r *rng.Random, pos cube.Pos, c PeriodicOre) {
	factor := o.HeightFactor
	minY := toBlockY(c.MinHeight, factor, o.HeightOffset)
	maxY := toBlockY(c.MaxHeight, factor, o.HeightOffset)
	spacing := c.Spacing
	if spacing == 0 {
		spacing = 0.5
	}
	iSpacing := max(roundF32(spacing*factor), 1)
	mean := roundF32(c.Mean*factor + o.HeightOffset)
	stdDev := c.StdDev * factor

	base := cube.ToMinBlock(pos.Y)
	for range c.Attempts {
		y := base + randomOffset(r)
		if y > maxY || y < minY {
			continue
		}
		if r.Float64() > c.Probability*BellCurveCyclic(y, mean, stdDev, iSpacing) {
			continue
		}
		x := cube.ToMinBlock(pos.X) + r.Intn(cube.Size)
		z := cube.ToMinBlock(pos.Z) + r.Intn(cube.Size)
		placeVein(w, r, cube.BlockPos{X: x, Y: y, Z: z}, c.StandardOre)
	}
}

// BellCurveCyclic is a Gaussian of the distance from y to the nearest band
// centred on mean + k*spacing, scaled to 1 at the centre.
func BellCurveCyclic(y, mean int, stdDev float64, spacing int) float64 {
	d := cube.FloorMod(y-mean, spacing)
	d = min(d, spacing-d)
	return math.Exp(-float64(d*d) / (2 * stdDev * stdDev))
}

// placeVein random-walks from start replacing host blocks.
func placeVein(w World, r *rng.Random, p cube.BlockPos, c StandardOre) {
	for range c.Size {
		s := w.Block(p)
		if (c.GenIn == nil && s == block.Stone) || c.GenIn.Contains(s) {
			w.SetBlock(p, c.Block)
		}
		switch r.Intn(6) {
		case 0:
			p.X++
		case 1:
			p.X--
		case 2:
			p.Y++
		case 3:
			p.Y--
		case 4:
			p.Z++
		case 5:
			p.Z--
		}
	}
}

func toBlockY(h, factor, offset float64) int {
	switch {
	case math.IsInf(h, 1):
		return math.MaxInt
	case math.IsInf(h, -1):
		return math.MinInt
	}
	return roundF32(h*factor + offset)
}

func roundF32(v float64) int {
	return int(math.Round(float64(float32(v))))
}
