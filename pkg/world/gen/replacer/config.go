package replacer

import (
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/noise"
)

// Config option keys.
const (
	KeyWaterLevel       = "water_level"
	KeyHeightScale      = "height_scale"
	KeyHeightOffset     = "height_offset"
	KeyGradientDecrease = "horizontal_gradient_depth_decrease_weight"
	KeyDepthFactor      = "biome_fill_depth_factor"
	KeyDepthOffset      = "biome_fill_depth_offset"
	KeyDepthFrequency   = "biome_fill_noise_freq"
	KeyDepthOctaves     = "biome_fill_noise_octaves"
	KeyDepthCutoff      = "filler_depth_cutoff"
	KeyMesaDepth        = "mesa_depth"
	KeyFloorHeight      = "floor_height"
)

// Config holds numeric replacer options. Missing keys fall back to Defaults.
type Config map[string]float64

// Defaults returns the default option values. The floor is disabled by
// default (negative infinity).
func Defaults() Config {
	return Config{
		KeyWaterLevel:       63,
		KeyHeightScale:      64,
		KeyHeightOffset:     64,
		KeyGradientDecrease: 1.0,
		KeyDepthFactor:      ((1 << 3) - 1) / 3.0,
		KeyDepthOffset:      3.0,
		KeyDepthFrequency:   noise.FrequencyFromVanilla(0.0625, 4),
		KeyDepthOctaves:     4,
		KeyDepthCutoff:      9,
		KeyMesaDepth:        16,
		KeyFloorHeight:      math.Inf(-1),
	}
}

// Get returns the value for key, or its default.
func (c Config) Get(key string) float64 {
	if v, ok := c[key]; ok {
		return v
	}
	return Defaults()[key]
}

// With returns a copy of c with key set to v.
func (c Config) With(key string, v float64) Config {
	out := make(Config, len(c)+1)
	for k, val := range c {
		out[k] = val
	}
	out[key] = v
	return out
}

// DepthNoise builds the per-column surface depth field shared by the
// surface stages: a small perlin field scaled around the biome fill depth.
func (c Config) DepthNoise(seed int64) noise.Field {
	f := c.Get(KeyDepthFrequency)
	return noise.New(seed).
		Frequency(f, f, f).
		Octaves(int(c.Get(KeyDepthOctaves))).
		Normalize(-1, 1).
		Build().
		ScaleBias(c.Get(KeyDepthFactor), c.Get(KeyDepthOffset)).
		Cached2D(256, func(x, z int) int { return x + z*16 })
}
