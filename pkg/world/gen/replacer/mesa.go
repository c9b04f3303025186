package replacer

import (
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/noise"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// BandCount is the period of the clay band pattern in blocks.
const BandCount = 64

// Mesa paints the banded hardened clay of the mesa biomes. Bryce variants
// also raise pillars above the terrain.
type Mesa struct {
	Biome        *biome.Biome
	Depth        noise.Node
	Bands        []block.State
	BandOffset   noise.Node
	Pillar       noise.Node
	PillarRoof   noise.Node
	MesaDepth    float64
	WaterLevel   float64
	HeightScale  float64
	HeightOffset float64
}

// NewMesa builds the mesa stage for b. Bands and pillar noise derive from
// seed so every mesa biome in a world shares one pattern.
func NewMesa(seed int64, b *biome.Biome, depth noise.Node, cfg Config) *Mesa {
	return &Mesa{
		Biome: b,
		Depth: depth,
		Bands: GenerateBands(seed),
		BandOffset: noise.New(seed+2).
			Frequency(1.0/512, 0, 1.0/512).
			Using(noise.Simplex).
			Build().
			Cached2D(256, func(x, z int) int { return x*16 + z }),
		Pillar: noise.New(seed).
			Frequency(noise.FrequencyFromVanilla(0.25, 4), 0, noise.FrequencyFromVanilla(0.25, 4)).
			Octaves(4).
			Using(noise.Simplex).
			Build().
			Scale(8),
		PillarRoof: noise.New(seed+1).
			Frequency(0.001953125, 0, 0.001953125).
			Using(noise.Simplex).
			Build(),
		MesaDepth:    cfg.Get(KeyMesaDepth),
		WaterLevel:   cfg.Get(KeyWaterLevel),
		HeightScale:  cfg.Get(KeyHeightScale),
		HeightOffset: cfg.Get(KeyHeightOffset),
	}
}

// Replace implements Replacer.
func (m *Mesa) Replace(prev block.State, x, y, z int, dx, dy, dz, density float64) block.State {
	if density < 0 {
		return prev
	}

	depth := m.Depth.At(x, 0, z)
	orig := depth - 3
	fy := float64(y)

	if m.Biome.Mesa == biome.MesaBrycePillars {
		if h := m.fromVanillaY(m.pillarHeight(x, z, orig)); fy < h {
			density = math.Max(density, h-fy)
		}
	}

	coarse := math.Cos(orig*math.Pi) > 0

	top := block.StainedClay(block.ColorWhite)
	filler := m.Biome.Filler
	if depth < 0 {
		top, filler = block.Air, block.Stone
	}

	if fy >= m.WaterLevel-1 {
		switch {
		case m.Biome.Mesa == biome.MesaWithForest && fy >= m.fromVanillaY(86)+depth*2:
			top = block.Grass
			if coarse {
				top = block.CoarseDirt
			}
			filler = m.band(x, y, z)
		case fy > m.WaterLevel+3+depth:
			filler = m.band(x, y, z)
			top = filler
			if coarse {
				top = block.HardenedClay
			}
		default:
			top = block.StainedClay(block.ColorOrange)
			filler = top
		}
	}

	if density+dy <= 0 {
		return top
	}
	if density/math.Abs(dy) < m.MesaDepth {
		return filler
	}
	return prev
}

func (m *Mesa) fromVanillaY(y float64) float64 {
	return (y-64)/64*m.HeightScale + m.HeightOffset
}

func (m *Mesa) pillarHeight(x, z int, depth float64) float64 {
	scale := math.Min(math.Abs(depth), m.Pillar.At(x, 0, z))
	if scale <= 0 {
		return 0
	}
	roof := math.Abs(m.PillarRoof.At(x, 0, z))
	h := scale * scale * 2.5
	h = math.Min(h, math.Ceil(roof*50)+14)
	return h + 64
}

func (m *Mesa) band(x, y, z int) block.State {
	off := int(math.Round(m.BandOffset.At(x, 0, z) * 2))
	n := len(m.Bands)
	return m.Bands[((y+off+64)%n+n)%n]
}

// GenerateBands lays out the clay band pattern: scattered orange bands
// over plain hardened clay, then runs of yellow, brown and red, then a
// few white bands with silver edges.
func GenerateBands(seed int64) []block.State {
	bands := make([]block.State, BandCount)
	for i := range bands {
		bands[i] = block.HardenedClay
	}
	r := rng.New(seed)

	for i := 0; i < BandCount; i++ {
		i += r.Intn(5) + 1
		if i < BandCount {
			bands[i] = block.StainedClay(block.ColorOrange)
		}
	}

	runs := func(color, minLen int) {
		count := r.Intn(4) + 2
		for range count {
			length := r.Intn(3) + minLen
			start := r.Intn(BandCount)
			for j := 0; start+j < BandCount && j < length; j++ {
				bands[start+j] = block.StainedClay(color)
			}
		}
	}
	runs(block.ColorYellow, 1)
	runs(block.ColorBrown, 2)
	runs(block.ColorRed, 1)

	whites := r.Intn(3) + 3
	pos := 0
	for range whites {
		pos += r.Intn(16) + 4
		if pos >= BandCount {
			continue
		}
		bands[pos] = block.StainedClay(block.ColorWhite)
		if pos > 1 && r.Bool() {
			bands[pos-1] = block.StainedClay(block.ColorSilver)
		}
		if pos < BandCount-1 && r.Bool() {
			bands[pos+1] = block.StainedClay(block.ColorSilver)
		}
	}
	return bands
}
