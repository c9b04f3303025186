package noise

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// Backend selects the gradient noise implementation behind a source.
type Backend int

const (
	// Perlin is classic gradient noise; the default for terrain shape.
	Perlin Backend = iota
	// Simplex is OpenSimplex noise, used for climate fields.
	Simplex
)

// Builder configures a seeded gradient noise source. The zero value is not
// usable; start from New.
type Builder struct {
	seed       int64
	fx, fy, fz float64
	octaves    int
	normalize  bool
	lo, hi     float64
	backend    Backend
}

// New starts a builder with unit frequency and a single octave.
func New(seed int64) Builder {
	return Builder{seed: seed, fx: 1, fy: 1, fz: 1, octaves: 1}
}

// Frequency sets per-axis frequency of the lowest octave.
func (b Builder) Frequency(fx, fy, fz float64) Builder {
	b.fx, b.fy, b.fz = fx, fy, fz
	return b
}

// Octaves sets the number of summed octaves; values below 1 become 1.
func (b Builder) Octaves(n int) Builder {
	b.octaves = max(n, 1)
	return b
}

// Normalize remaps the theoretical output range onto [lo, hi].
func (b Builder) Normalize(lo, hi float64) Builder {
	b.normalize, b.lo, b.hi = true, lo, hi
	return b
}

// Using selects the backend.
func (b Builder) Using(k Backend) Builder {
	b.backend = k
	return b
}

// Build returns the configured field.
func (b Builder) Build() Field {
	seed := int64(rng.FoldSeed(b.seed))

	var sample func(x, y, z float64) float64
	switch b.backend {
	case Simplex:
		sample = octaveSimplex(opensimplex.New(seed), b.octaves)
	default:
		// alpha/beta of 2 give persistence 0.5 and lacunarity 2.
		p := perlin.NewPerlin(2, 2, int32(b.octaves), seed)
		sample = p.Noise3D
	}

	src := Field{Func(func(x, y, z int) float64 {
		return sample(float64(x)*b.fx, float64(y)*b.fy, float64(z)*b.fz)
	})}
	if !b.normalize {
		return src
	}
	m := MaxValue(b.octaves)
	scale := (b.hi - b.lo) / (2 * m)
	bias := (b.hi + b.lo) / 2
	return src.ScaleBias(scale, bias)
}

func octaveSimplex(n opensimplex.Noise, octaves int) func(x, y, z float64) float64 {
	return func(x, y, z float64) float64 {
		sum, amp, freq := 0.0, 1.0, 1.0
		for i := range octaves {
			// offset each octave so lattice points do not line up
			off := float64(i) * 37.31
			sum += n.Eval3(x*freq+off, y*freq+off, z*freq+off) * amp
			amp *= 0.5
			freq *= 2
		}
		return sum
	}
}

// MaxValue is the largest magnitude octaves with persistence 0.5 can sum to.
func MaxValue(octaves int) float64 {
	return 2 - math.Pow(0.5, float64(octaves-1))
}

// FrequencyFromVanilla converts a vanilla coordinate scale, whose octaves
// shrink in frequency, into the frequency of the lowest octave.
func FrequencyFromVanilla(f float64, octaves int) float64 {
	return f / math.Pow(2, float64(octaves-1))
}
