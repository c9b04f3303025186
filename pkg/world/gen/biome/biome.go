// Package biome defines the biome table consumed by terrain generation and
// a noise-driven provider that assigns biomes to columns.
package biome

import "github.com/OCharnyshevich/cubicgen/pkg/world/block"

// ID is a biome identifier matching the 1.12 numbering.
type ID int

// Biome IDs.
const (
	Ocean          ID = 0
	Plains         ID = 1
	Desert         ID = 2
	ExtremeHills   ID = 3
	Forest         ID = 4
	Taiga          ID = 5
	Swampland      ID = 6
	River          ID = 7
	FrozenOcean    ID = 10
	FrozenRiver    ID = 11
	IcePlains      ID = 12
	Beach          ID = 16
	Jungle         ID = 21
	DeepOcean      ID = 24
	StoneBeach     ID = 25
	ColdBeach      ID = 26
	BirchForest    ID = 27
	RoofedForest   ID = 29
	ColdTaiga      ID = 30
	MegaTaiga      ID = 32
	Savanna        ID = 35
	SavannaPlateau ID = 36
	Mesa           ID = 37
	MesaForest     ID = 38
	MesaPlateau    ID = 39
	MutatedSavanna ID = 163
	MesaBryce      ID = 165
)

// MesaVariant distinguishes the banded-clay biomes.
type MesaVariant int

const (
	NotMesa MesaVariant = iota
	MesaNormal
	MesaBrycePillars
	MesaWithForest
)

// Decoration holds per-cube counts used by the decorators.
type Decoration struct {
	Trees           int
	ExtraTreeChance float64
	Flowers         int
	Grass           int
	DeadBushes      int
	Mushrooms       int
	BigMushrooms    int
	Reeds           int
	Cacti           int
	LilyPads        int
	SandPatches     int
	ClayPatches     int
	GravelPatches   int
	Liquids         bool
}

// Biome is one terrain category.
type Biome struct {
	ID   ID
	Name string
	// BaseHeight and HeightVariation are in vanilla units.
	BaseHeight      float64
	HeightVariation float64
	Temperature     float64
	Rainfall        float64
	Top             block.State
	Filler          block.State
	Mesa            MesaVariant
	Decor           Decoration
}

// Snowy reports whether snow and ice form at the surface.
func (b *Biome) Snowy() bool { return b.Temperature < 0.15 }

// IsOcean reports whether b is one of the ocean biomes.
func (b *Biome) IsOcean() bool {
	return b.ID == Ocean || b.ID == DeepOcean || b.ID == FrozenOcean
}

var defaultDecor = Decoration{Flowers: 2, Grass: 1, Mushrooms: 0, Reeds: 0, SandPatches: 3, ClayPatches: 1, GravelPatches: 1, Liquids: true}

func decor(mod func(d *Decoration)) Decoration {
	d := defaultDecor
	mod(&d)
	return d
}

var table = []Biome{
	{ID: Ocean, Name: "ocean", BaseHeight: -1.0, HeightVariation: 0.1, Temperature: 0.5, Rainfall: 0.5, Top: block.Grass, Filler: block.Dirt, Decor: defaultDecor},
	{ID: Plains, Name: "plains", BaseHeight: 0.125, HeightVariation: 0.05, Temperature: 0.8, Rainfall: 0.4, Top: block.Grass, Filler: block.Dirt,
		Decor: decor(func(d *Decoration) { d.ExtraTreeChance = 0.05; d.Flowers = 4; d.Grass = 10 })},
	{ID: Desert, Name: "desert", BaseHeight: 0.125, HeightVariation: 0.05, Temperature: 2.0, Rainfall: 0, Top: block.Sand, Filler: block.Sand,
		Decor: decor(func(d *Decoration) { d.Flowers = 0; d.Grass = 0; d.DeadBushes = 2; d.Reeds = 50; d.Cacti = 10 })},
	{ID: ExtremeHills, Name: "extreme_hills", BaseHeight: 1.0, HeightVariation: 0.5, Temperature: 0.2, Rainfall: 0.3, Top: block.Grass, Filler: block.Dirt,
		Decor: decor(func(d *Decoration) { d.ExtraTreeChance = 0.1 })},
	{ID: Forest, Name: "forest", BaseHeight: 0.1, HeightVariation: 0.2, Temperature: 0.7, Rainfall: 0.8, Top: block.Grass, Filler: block.Dirt,
		Decor: decor(func(d *Decoration) { d.Trees = 10; d.Grass = 2 })},
	{ID: Taiga, Name: "taiga", BaseHeight: 0.2, HeightVariation: 0.2, Temperature: 0.25, Rainfall: 0.8, Top: block.Grass, Filler: block.Dirt,
		Decor: decor(func(d *Decoration) { d.Trees = 10; d.Grass = 1 })},
	{ID: Swampland, Name: "swampland", BaseHeight: -0.2, HeightVariation: 0.1, Temperature: 0.8, Rainfall: 0.9, Top: block.Grass, Filler: block.Dirt,
		Decor: decor(func(d *Decoration) {
			d.Trees = 2
			d.Flowers = 1
			d.DeadBushes = 1
			d.Mushrooms = 8
			d.Reeds = 10
			d.ClayPatches = 1
			d.LilyPads = 4
			d.SandPatches = 0
			d.GravelPatches = 0
			d.Grass = 5
		})},
	{ID: River, Name: "river", BaseHeight: -0.5, HeightVariation: 0, Temperature: 0.5, Rainfall: 0.5, Top: block.Grass, Filler: block.Dirt, Decor: defaultDecor},
	{ID: FrozenOcean, Name: "frozen_ocean", BaseHeight: -1.0, HeightVariation: 0.1, Temperature: 0, Rainfall: 0.5, Top: block.Grass, Filler: block.Dirt, Decor: defaultDecor},
	{ID: FrozenRiver, Name: "frozen_river", BaseHeight: -0.5, HeightVariation: 0, Temperature: 0, Rainfall: 0.5, Top: block.Grass, Filler: block.Dirt, Decor: defaultDecor},
	{ID: IcePlains, Name: "ice_flats", BaseHeight: 0.125, HeightVariation: 0.05, Temperature: 0, Rainfall: 0.5, Top: block.Grass, Filler: block.Dirt, Decor: defaultDecor},
	{ID: Beach, Name: "beaches", BaseHeight: 0, HeightVariation: 0.025, Temperature: 0.8, Rainfall: 0.4, Top: block.Sand, Filler: block.Sand,
		Decor: decor(func(d *Decoration) { d.Trees = -999; d.DeadBushes = 0; d.Reeds = 0; d.Cacti = 0 })},
	{ID: Jungle, Name: "jungle", BaseHeight: 0.1, HeightVariation: 0.2, Temperature: 0.95, Rainfall: 0.9, Top: block.Grass, Filler: block.Dirt,
		Decor: decor(func(d *Decoration) { d.Trees = 50; d.Grass = 25; d.Flowers = 4 })},
	{ID: DeepOcean, Name: "deep_ocean", BaseHeight: -1.8, HeightVariation: 0.1, Temperature: 0.5, Rainfall: 0.5, Top: block.Grass, Filler: block.Dirt, Decor: defaultDecor},
	{ID: StoneBeach, Name: "stone_beach", BaseHeight: 0.1, HeightVariation: 0.8, Temperature: 0.2, Rainfall: 0.3, Top: block.Stone, Filler: block.Stone, Decor: defaultDecor},
	{ID: ColdBeach, Name: "cold_beach", BaseHeight: 0, HeightVariation: 0.025, Temperature: 0.05, Rainfall: 0.3, Top: block.Sand, Filler: block.Sand, Decor: defaultDecor},
	{ID: BirchForest, Name: "birch_forest", BaseHeight: 0.1, HeightVariation: 0.2, Temperature: 0.6, Rainfall: 0.6, Top: block.Grass, Filler: block.Dirt,
		Decor: decor(func(d *Decoration) { d.Trees = 10; d.Grass = 2 })},
	{ID: RoofedForest, Name: "roofed_forest", BaseHeight: 0.1, HeightVariation: 0.2, Temperature: 0.7, Rainfall: 0.8, Top: block.Grass, Filler: block.Dirt,
		Decor: decor(func(d *Decoration) { d.Trees = 12; d.Grass = 2; d.BigMushrooms = 1 })},
	{ID: ColdTaiga, Name: "taiga_cold", BaseHeight: 0.2, HeightVariation: 0.2, Temperature: -0.5, Rainfall: 0.4, Top: block.Grass, Filler: block.Dirt,
		Decor: decor(func(d *Decoration) { d.Trees = 10; d.Grass = 1 })},
	{ID: MegaTaiga, Name: "redwood_taiga", BaseHeight: 0.2, HeightVariation: 0.2, Temperature: 0.3, Rainfall: 0.8, Top: block.Grass, Filler: block.Dirt,
		Decor: decor(func(d *Decoration) { d.Trees = 10; d.Grass = 7; d.DeadBushes = 1; d.Mushrooms = 3 })},
	{ID: Savanna, Name: "savanna", BaseHeight: 0.125, HeightVariation: 0.05, Temperature: 1.2, Rainfall: 0, Top: block.Grass, Filler: block.Dirt,
		Decor: decor(func(d *Decoration) { d.Trees = 1; d.Flowers = 4; d.Grass = 20 })},
	{ID: SavannaPlateau, Name: "savanna_rock", BaseHeight: 1.5, HeightVariation: 0.025, Temperature: 1.0, Rainfall: 0, Top: block.Grass, Filler: block.Dirt,
		Decor: decor(func(d *Decoration) { d.Trees = 1; d.Flowers = 4; d.Grass = 20 })},
	{ID: Mesa, Name: "mesa", BaseHeight: 0.1, HeightVariation: 0.2, Temperature: 2.0, Rainfall: 0, Top: block.RedSand, Filler: block.StainedClay(block.ColorOrange), Mesa: MesaNormal,
		Decor: decor(func(d *Decoration) { d.Trees = -999; d.DeadBushes = 20; d.Reeds = 3; d.Cacti = 5; d.Flowers = 0 })},
	{ID: MesaForest, Name: "mesa_rock", BaseHeight: 1.5, HeightVariation: 0.025, Temperature: 2.0, Rainfall: 0, Top: block.RedSand, Filler: block.StainedClay(block.ColorOrange), Mesa: MesaWithForest,
		Decor: decor(func(d *Decoration) { d.Trees = 5; d.DeadBushes = 20; d.Reeds = 3; d.Cacti = 5; d.Flowers = 0 })},
	{ID: MesaPlateau, Name: "mesa_clear_rock", BaseHeight: 1.5, HeightVariation: 0.025, Temperature: 2.0, Rainfall: 0, Top: block.RedSand, Filler: block.StainedClay(block.ColorOrange), Mesa: MesaNormal,
		Decor: decor(func(d *Decoration) { d.Trees = -999; d.DeadBushes = 20; d.Reeds = 3; d.Cacti = 5; d.Flowers = 0 })},
	{ID: MutatedSavanna, Name: "mutated_savanna", BaseHeight: 0.3625, HeightVariation: 1.225, Temperature: 1.1, Rainfall: 0, Top: block.Grass, Filler: block.Dirt,
		Decor: decor(func(d *Decoration) { d.Trees = 2; d.Flowers = 2; d.Grass = 5 })},
	{ID: MesaBryce, Name: "mutated_mesa", BaseHeight: 0.1, HeightVariation: 0.2, Temperature: 2.0, Rainfall: 0, Top: block.RedSand, Filler: block.StainedClay(block.ColorOrange), Mesa: MesaBrycePillars,
		Decor: decor(func(d *Decoration) { d.Trees = -999; d.DeadBushes = 20; d.Reeds = 3; d.Cacti = 5; d.Flowers = 0 })},
}

var byID = func() map[ID]*Biome {
	m := make(map[ID]*Biome, len(table))
	for i := range table {
		m[table[i].ID] = &table[i]
	}
	return m
}()

// Lookup returns the biome with the given ID, or nil.
func Lookup(id ID) *Biome { return byID[id] }

// All returns every known biome in table order.
func All() []*Biome {
	out := make([]*Biome, len(table))
	for i := range table {
		out[i] = &table[i]
	}
	return out
}

// Set is a membership set of biome IDs.
type Set map[ID]struct{}

// SetOf builds a Set from IDs.
func SetOf(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Where builds a Set of every known biome matching pred.
func Where(pred func(*Biome) bool) Set {
	s := make(Set)
	for _, b := range All() {
		if pred(b) {
			s[b.ID] = struct{}{}
		}
	}
	return s
}

// Contains reports whether the biome is in the set.
func (s Set) Contains(id ID) bool {
	_, ok := s[id]
	return ok
}

// VanillaHeight converts a vanilla base height into generator units, where
// 0 is the expected base height and 1 is one expected height variation.
func VanillaHeight(h float64) float64 {
	return h*17.0/64.0 - 1.0/256.0
}

// VanillaVariation converts a vanilla height variation into generator units.
func VanillaVariation(v float64) float64 {
	return v*2.4 + 4.0/17.0
}
