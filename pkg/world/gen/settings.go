package gen

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/noise"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/populate"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/replacer"
)

// ErrInvalidSettings is wrapped by every Validate failure.
var ErrInvalidSettings = errors.New("invalid generator settings")

// Vanilla noise parameters expressed as the frequency of the lowest octave
// per block.
var (
	vanillaDepthFrequency      = noise.FrequencyFromVanilla(200.0/4, 16)
	vanillaSelectorFrequencyXZ = noise.FrequencyFromVanilla(684.412/80/4, 8)
	vanillaSelectorFrequencyY  = noise.FrequencyFromVanilla(684.412/160/8, 8)
	vanillaLowHighFrequencyXZ  = noise.FrequencyFromVanilla(684.412/4, 16)
	vanillaLowHighFrequencyY   = noise.FrequencyFromVanilla(684.412/8, 16)
)

const (
	vanillaDepthFactor    = 1.024
	vanillaSelectorFactor = 12.75
	vanillaSelectorOffset = 0.5
)

// NoiseSettings shapes one noise layer of the density function.
type NoiseSettings struct {
	Factor     float64 `yaml:"factor" json:"factor"`
	Offset     float64 `yaml:"offset" json:"offset"`
	FrequencyX float64 `yaml:"frequency_x" json:"frequency_x"`
	FrequencyY float64 `yaml:"frequency_y" json:"frequency_y"`
	FrequencyZ float64 `yaml:"frequency_z" json:"frequency_z"`
	Octaves    int     `yaml:"octaves" json:"octaves"`
}

// CubeArea replaces the settings for every cube inside Box.
type CubeArea struct {
	Box      cube.AABB `yaml:"box" json:"box"`
	Settings *Settings `yaml:"settings" json:"settings"`
}

// UnmarshalYAML decodes an area whose settings start from DefaultSettings,
// so a preset only lists what the area changes.
func (a *CubeArea) UnmarshalYAML(n *yaml.Node) error {
	var raw struct {
		Box      cube.AABB `yaml:"box"`
		Settings yaml.Node `yaml:"settings"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	a.Box = raw.Box
	a.Settings = DefaultSettings()
	if raw.Settings.IsZero() {
		return nil
	}
	return raw.Settings.Decode(a.Settings)
}

// Settings is a generator preset.
type Settings struct {
	WaterLevel int `yaml:"water_level" json:"water_level"`

	Caves                        bool `yaml:"caves" json:"caves"`
	Ravines                      bool `yaml:"ravines" json:"ravines"`
	Strongholds                  bool `yaml:"strongholds" json:"strongholds"`
	AlternateStrongholdPositions bool `yaml:"alternate_stronghold_positions" json:"alternate_stronghold_positions"`
	Villages                     bool `yaml:"villages" json:"villages"`
	WaterLakes                   bool `yaml:"water_lakes" json:"water_lakes"`
	LavaLakes                    bool `yaml:"lava_lakes" json:"lava_lakes"`
	Snow                         bool `yaml:"snow" json:"snow"`

	// Biome forces a single biome everywhere; -1 selects biomes by climate.
	Biome     int     `yaml:"biome" json:"biome"`
	BiomeSize float64 `yaml:"biome_size" json:"biome_size"`

	StandardOres []populate.StandardOre `yaml:"standard_ores" json:"standard_ores"`
	PeriodicOres []populate.PeriodicOre `yaml:"periodic_ores" json:"periodic_ores"`

	ExpectedBaseHeight      float64 `yaml:"expected_base_height" json:"expected_base_height"`
	ExpectedHeightVariation float64 `yaml:"expected_height_variation" json:"expected_height_variation"`

	HeightVariationFactor       float64 `yaml:"height_variation_factor" json:"height_variation_factor"`
	HeightVariationBelowAverage float64 `yaml:"height_variation_below_average" json:"height_variation_below_average"`
	HeightVariationOffset       float64 `yaml:"height_variation_offset" json:"height_variation_offset"`
	HeightFactor                float64 `yaml:"height_factor" json:"height_factor"`
	HeightOffset                float64 `yaml:"height_offset" json:"height_offset"`

	DepthNoise    NoiseSettings `yaml:"depth_noise" json:"depth_noise"`
	SelectorNoise NoiseSettings `yaml:"selector_noise" json:"selector_noise"`
	LowNoise      NoiseSettings `yaml:"low_noise" json:"low_noise"`
	HighNoise     NoiseSettings `yaml:"high_noise" json:"high_noise"`

	Replacer  replacer.Config `yaml:"replacer" json:"replacer"`
	CubeAreas []CubeArea      `yaml:"cube_areas" json:"cube_areas"`

	// FixDensityCache lets the density cache reuse values. Off, every
	// lookup recomputes.
	FixDensityCache bool `yaml:"fix_density_cache" json:"fix_density_cache"`
}

// DefaultSettings returns vanilla-like terrain with every feature enabled.
func DefaultSettings() *Settings {
	return &Settings{
		WaterLevel:  63,
		Caves:       true,
		Ravines:     true,
		Strongholds: true,
		Villages:    true,
		WaterLakes:  true,
		LavaLakes:   true,
		Snow:        true,
		Biome:       -1,
		BiomeSize:   4,

		StandardOres: populate.DefaultStandardOres(),
		PeriodicOres: populate.DefaultPeriodicOres(),

		ExpectedBaseHeight:      64,
		ExpectedHeightVariation: 64,

		HeightVariationFactor:       64,
		HeightVariationBelowAverage: 0.25,
		HeightFactor:                64,
		HeightOffset:                64,

		DepthNoise: NoiseSettings{
			Factor:     vanillaDepthFactor,
			FrequencyX: vanillaDepthFrequency,
			FrequencyZ: vanillaDepthFrequency,
			Octaves:    16,
		},
		SelectorNoise: NoiseSettings{
			Factor:     vanillaSelectorFactor,
			Offset:     vanillaSelectorOffset,
			FrequencyX: vanillaSelectorFrequencyXZ,
			FrequencyY: vanillaSelectorFrequencyY,
			FrequencyZ: vanillaSelectorFrequencyXZ,
			Octaves:    8,
		},
		LowNoise: NoiseSettings{
			Factor:     1,
			FrequencyX: vanillaLowHighFrequencyXZ,
			FrequencyY: vanillaLowHighFrequencyY,
			FrequencyZ: vanillaLowHighFrequencyXZ,
			Octaves:    16,
		},
		HighNoise: NoiseSettings{
			Factor:     1,
			FrequencyX: vanillaLowHighFrequencyXZ,
			FrequencyY: vanillaLowHighFrequencyY,
			FrequencyZ: vanillaLowHighFrequencyXZ,
			Octaves:    16,
		},

		Replacer: replacer.Defaults(),
	}
}

// ReplacerConfig returns the replacer options with the terrain keys taken
// from the settings, so the surface follows the configured water level and
// height scale.
func (s *Settings) ReplacerConfig() replacer.Config {
	return s.Replacer.
		With(replacer.KeyWaterLevel, float64(s.WaterLevel)).
		With(replacer.KeyHeightScale, s.HeightFactor).
		With(replacer.KeyHeightOffset, s.HeightOffset)
}

// Validate checks ranges that would otherwise produce degenerate terrain.
func (s *Settings) Validate() error {
	if s.Biome >= 0 && biome.Lookup(biome.ID(s.Biome)) == nil {
		return fmt.Errorf("%w: unknown biome %d", ErrInvalidSettings, s.Biome)
	}
	if s.BiomeSize <= 0 {
		return fmt.Errorf("%w: biome_size must be positive, got %v", ErrInvalidSettings, s.BiomeSize)
	}
	if s.HeightFactor == 0 {
		return fmt.Errorf("%w: height_factor must not be zero", ErrInvalidSettings)
	}
	if s.ExpectedHeightVariation <= 0 {
		return fmt.Errorf("%w: expected_height_variation must be positive", ErrInvalidSettings)
	}
	for name, n := range map[string]NoiseSettings{
		"depth_noise":    s.DepthNoise,
		"selector_noise": s.SelectorNoise,
		"low_noise":      s.LowNoise,
		"high_noise":     s.HighNoise,
	} {
		if n.Octaves < 1 || n.Octaves > 32 {
			return fmt.Errorf("%w: %s octaves %d out of range 1..32", ErrInvalidSettings, name, n.Octaves)
		}
	}
	for i, o := range s.StandardOres {
		if err := validateOre(o); err != nil {
			return fmt.Errorf("standard ore %d: %w", i, err)
		}
	}
	for i, o := range s.PeriodicOres {
		if err := validateOre(o.StandardOre); err != nil {
			return fmt.Errorf("periodic ore %d: %w", i, err)
		}
		if o.StdDev <= 0 {
			return fmt.Errorf("periodic ore %d: %w: std_dev must be positive", i, ErrInvalidSettings)
		}
	}
	for i, a := range s.CubeAreas {
		b := a.Box
		if b.MinX > b.MaxX || b.MinY > b.MaxY || b.MinZ > b.MaxZ {
			return fmt.Errorf("cube area %d: %w: inverted box", i, ErrInvalidSettings)
		}
		if a.Settings == nil {
			return fmt.Errorf("cube area %d: %w: missing settings", i, ErrInvalidSettings)
		}
		if err := a.Settings.Validate(); err != nil {
			return fmt.Errorf("cube area %d: %w", i, err)
		}
	}
	return nil
}

func validateOre(o populate.StandardOre) error {
	switch {
	case o.Size < 0 || o.Attempts < 0:
		return fmt.Errorf("%w: negative size or attempts", ErrInvalidSettings)
	case o.Probability < 0 || math.IsNaN(o.Probability):
		return fmt.Errorf("%w: probability %v", ErrInvalidSettings, o.Probability)
	case o.MinHeight > o.MaxHeight:
		return fmt.Errorf("%w: min_height above max_height", ErrInvalidSettings)
	}
	return nil
}
