package biome

import (
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/noise"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// SectionSize is the edge of the coarse biome grid in blocks.
const SectionSize = 4

// Provider assigns biomes to columns and answers the placement queries
// structure generators need.
type Provider interface {
	// BiomeAt returns the biome of the column at block coordinates.
	BiomeAt(x, z int) *Biome
	// SectionAt returns the biome of a 4×4 section.
	SectionAt(sx, sz int) *Biome
	// FindNearestEligible picks a random allowed section within radius
	// blocks of (x, z). ok is false when none qualifies.
	FindNearestEligible(x, z, radius int, allowed Set, r *rng.Random) (bx, bz int, ok bool)
	// AreBiomesViable reports whether every section within radius blocks
	// of (x, z) is in allowed.
	AreBiomesViable(x, z, radius int, allowed Set) bool
}

// NoiseProvider selects biomes from temperature and rainfall fields plus a
// continental field that carves oceans, beaches and rivers. It holds no
// caches and is safe for concurrent use.
type NoiseProvider struct {
	temp, rain, land, river, variant noise.Field
	fixed                            *Biome
}

// NewNoiseProvider creates a NoiseProvider. scale multiplies biome size;
// 1 gives roughly vanilla-sized regions.
func NewNoiseProvider(seed int64, scale float64) *NoiseProvider {
	if scale <= 0 {
		scale = 1
	}
	climate := func(salt int64, freq float64, octaves int, lo, hi float64) noise.Field {
		f := freq / scale
		return noise.New(seed+salt).Frequency(f, 0, f).Octaves(octaves).Normalize(lo, hi).Using(noise.Simplex).Build()
	}
	return &NoiseProvider{
		temp:    climate(100, 1.0/1024, 4, -0.5, 2.0),
		rain:    climate(200, 1.0/1024, 4, 0, 1),
		land:    climate(300, 1.0/768, 5, -1, 1),
		river:   climate(400, 1.0/512, 3, -1, 1),
		variant: climate(500, 1.0/256, 2, 0, 1),
	}
}

// NewSingleProvider returns a provider that places one biome everywhere.
func NewSingleProvider(b *Biome) *NoiseProvider {
	return &NoiseProvider{fixed: b}
}

// BiomeAt returns the biome at the given world block coordinates.
func (p *NoiseProvider) BiomeAt(x, z int) *Biome {
	if p.fixed != nil {
		return p.fixed
	}
	t := p.temp.At(x, 0, z)
	land := p.land.At(x, 0, z)

	switch {
	case land < -0.45:
		return Lookup(DeepOcean)
	case land < -0.2:
		if t < 0.15 {
			return Lookup(FrozenOcean)
		}
		return Lookup(Ocean)
	case land < -0.14:
		v := p.variant.At(x, 0, z)
		switch {
		case t < 0.15:
			return Lookup(ColdBeach)
		case v > 0.75:
			return Lookup(StoneBeach)
		}
		return Lookup(Beach)
	}

	if math.Abs(p.river.At(x, 0, z)) < 0.025 {
		if t < 0.15 {
			return Lookup(FrozenRiver)
		}
		return Lookup(River)
	}

	return Lookup(selectBiome(t, p.rain.At(x, 0, z), p.variant.At(x, 0, z)))
}

// SectionAt returns the biome at the centre of the section.
func (p *NoiseProvider) SectionAt(sx, sz int) *Biome {
	return p.BiomeAt(sx*SectionSize+SectionSize/2, sz*SectionSize+SectionSize/2)
}

// selectBiome maps temperature, rainfall and a variant selector to a biome.
//
//	Temp\Rain     | Dry (<0.3)        | Medium (0.3-0.6)  | Wet (>0.6)
//	Cold <0.15    | Ice Plains        | Cold Taiga        | Cold Taiga
//	Cool 0.15-0.5 | Extreme Hills     | Taiga / Mega      | Taiga / Mega
//	Mild 0.5-1.0  | Plains            | Forest / Birch    | Roofed / Swamp
//	Warm 1.0-1.5  | Savanna (+M, plt) | Plains            | Jungle
//	Hot >1.5      | Desert / Mesa     | Desert / Mesa     | Jungle
func selectBiome(temp, rain, variant float64) ID {
	switch {
	case temp < 0.15:
		if rain < 0.3 {
			return IcePlains
		}
		return ColdTaiga
	case temp < 0.5:
		switch {
		case rain < 0.3:
			return ExtremeHills
		case variant > 0.7:
			return MegaTaiga
		default:
			return Taiga
		}
	case temp < 1.0:
		switch {
		case rain < 0.3:
			return Plains
		case rain < 0.6:
			if variant > 0.65 {
				return BirchForest
			}
			return Forest
		case variant > 0.6:
			return Swampland
		default:
			return RoofedForest
		}
	case temp < 1.5:
		switch {
		case rain < 0.3:
			switch {
			case variant > 0.8:
				return MutatedSavanna
			case variant > 0.65:
				return SavannaPlateau
			}
			return Savanna
		case rain < 0.6:
			return Plains
		default:
			return Jungle
		}
	default:
		if rain > 0.6 {
			return Jungle
		}
		switch {
		case variant > 0.85:
			return MesaBryce
		case variant > 0.75:
			return MesaForest
		case variant > 0.65:
			return MesaPlateau
		case variant > 0.55:
			return Mesa
		}
		return Desert
	}
}

// FindNearestEligible scans the section grid covering the square of the
// given radius and picks one allowed section at random. The draw count
// only advances on acceptance, matching the classic placement sequence.
func (p *NoiseProvider) FindNearestEligible(x, z, radius int, allowed Set, r *rng.Random) (int, int, bool) {
	minX, minZ := (x-radius)>>2, (z-radius)>>2
	maxX, maxZ := (x+radius)>>2, (z+radius)>>2
	w, h := maxX-minX+1, maxZ-minZ+1

	found := false
	var bx, bz, n int
	for i := 0; i < w*h; i++ {
		sx, sz := minX+i%w, minZ+i/w
		if !allowed.Contains(p.SectionAt(sx, sz).ID) {
			continue
		}
		if !found || r.Intn(n+1) == 0 {
			bx, bz = sx<<2, sz<<2
			found = true
			n++
		}
	}
	return bx, bz, found
}

// AreBiomesViable reports whether all sections near (x, z) are allowed.
func (p *NoiseProvider) AreBiomesViable(x, z, radius int, allowed Set) bool {
	minX, minZ := (x-radius)>>2, (z-radius)>>2
	maxX, maxZ := (x+radius)>>2, (z+radius)>>2
	for sx := minX; sx <= maxX; sx++ {
		for sz := minZ; sz <= maxZ; sz++ {
			if !allowed.Contains(p.SectionAt(sx, sz).ID) {
				return false
			}
		}
	}
	return true
}
