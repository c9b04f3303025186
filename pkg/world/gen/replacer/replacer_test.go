package replacer

import (
	"math"
	"testing"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/noise"
)

func surfaceWithDepth(id biome.ID, depth float64) *SurfaceDefault {
	return NewSurfaceDefault(biome.Lookup(id), noise.Const(depth), Defaults())
}

func TestSurfaceDefaultBailOut(t *testing.T) {
	s := surfaceWithDepth(biome.Plains, 3)

	tests := []struct {
		name    string
		prev    block.State
		density float64
		dy      float64
	}{
		{"air stays air", block.Air, 0.5, -1},
		{"negative density", block.Stone, -0.1, -1},
		{"deep solid", block.Stone, 9.5, -1},
		{"deep solid steep", block.Granite, 100, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Replace(tt.prev, 0, 70, 0, 0, tt.dy, 0, tt.density); got != tt.prev {
				t.Errorf("Replace = %v, want unchanged %v", got, tt.prev)
			}
		})
	}
}

func TestSurfaceDefaultTopColumn(t *testing.T) {
	tests := []struct {
		name  string
		id    biome.ID
		depth float64
		y     int
		want  block.State
	}{
		{"deep under ocean", biome.Plains, 3, 40, block.Gravel},
		{"just below sea level", biome.Plains, 3, 60, block.Dirt},
		{"above sea level", biome.Plains, 3, 70, block.Grass},
		{"no depth above sea", biome.Plains, -1, 70, block.Air},
		{"no depth below sea", biome.Plains, -1, 60, block.Stone},
		{"desert top", biome.Desert, 3, 70, block.Sand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := surfaceWithDepth(tt.id, tt.depth)
			// density + dy <= 0: air directly above
			if got := s.Replace(block.Stone, 5, tt.y, 5, 0, -1, 0, 0.5); got != tt.want {
				t.Errorf("Replace at y=%d = %v, want %v", tt.y, got, tt.want)
			}
		})
	}
}

func TestSurfaceDefaultFillerBand(t *testing.T) {
	s := surfaceWithDepth(biome.Plains, 3)
	// 2 blocks below a flat surface: inside the 4 block band.
	if got := s.Replace(block.Stone, 0, 68, 0, 0, -1, 0, 2); got != block.Dirt {
		t.Errorf("inside band = %v, want dirt", got)
	}
	// 6 blocks below: past the band.
	if got := s.Replace(block.Stone, 0, 64, 0, 0, -1, 0, 6); got != block.Stone {
		t.Errorf("below band = %v, want stone", got)
	}
}

func TestSurfaceDefaultSandstone(t *testing.T) {
	s := surfaceWithDepth(biome.Desert, 3)
	if got := s.Replace(block.Stone, 0, 70, 0, 0, 1, 0, 0.5); got != block.Sandstone {
		t.Errorf("Replace = %v, want sandstone", got)
	}
	s = surfaceWithDepth(biome.Desert, 0.5)
	if got := s.Replace(block.Stone, 0, 70, 0, 0, 1, 0, 0.5); got != block.Stone {
		t.Errorf("thin surface = %v, want stone", got)
	}
}

func TestSurfaceDefaultFloor(t *testing.T) {
	cfg := Defaults().With(KeyFloorHeight, 10)
	s := NewSurfaceDefault(biome.Lookup(biome.Plains), noise.Const(3), cfg)

	if got := s.Replace(block.Stone, 0, 5, 0, 0, -1, 0, 50); got != block.Air {
		t.Errorf("below floor = %v, want air", got)
	}
	if got := s.Replace(block.Stone, 0, 10, 0, 0, -1, 0, 50); got != block.Bedrock {
		t.Errorf("at floor = %v, want bedrock", got)
	}
	if got := s.Replace(block.Air, 0, 10, 0, 0, -1, 0, 50); got != block.Air {
		t.Errorf("air at floor = %v, want air", got)
	}
}

func TestTaigaThresholds(t *testing.T) {
	b := biome.Lookup(biome.MegaTaiga)
	tests := []struct {
		depth float64
		want  block.State
	}{
		{2, block.Grass},
		{3, block.Podzol},
		{4, block.CoarseDirt},
	}
	for _, tt := range tests {
		s := NewTaiga(b, noise.Const(tt.depth), Defaults())
		if got := s.Replace(block.Stone, 0, 70, 0, 0, -1, 0, 0.5); got != tt.want {
			t.Errorf("depth %v: top = %v, want %v", tt.depth, got, tt.want)
		}
	}
}

func TestMutatedSavannaFiller(t *testing.T) {
	s := NewMutatedSavanna(biome.Lookup(biome.MutatedSavanna), noise.Const(4), Defaults())
	if got := s.Replace(block.Stone, 0, 68, 0, 0, -1, 0, 2); got != block.Stone {
		t.Errorf("filler = %v, want stone", got)
	}
	if got := s.Replace(block.Granite, 0, 70, 0, 0, -1, 0, 0.5); got != block.Stone {
		t.Errorf("top = %v, want stone", got)
	}
}

func TestOceanWater(t *testing.T) {
	plains := OceanWater(biome.Lookup(biome.Plains), 63)
	frozen := OceanWater(biome.Lookup(biome.FrozenOcean), 63)

	tests := []struct {
		name string
		r    Replacer
		prev block.State
		y    int
		want block.State
	}{
		{"air below level", plains, block.Air, 40, block.Water},
		{"air at level", plains, block.Air, 63, block.Air},
		{"solid untouched", plains, block.Stone, 40, block.Stone},
		{"frozen surface", frozen, block.Air, 62, block.Ice},
		{"frozen below surface", frozen, block.Air, 61, block.Water},
	}
	for _, tt := range tests {
		if got := tt.r.Replace(tt.prev, 0, tt.y, 0, 0, -1, 0, -1); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSwampDecoration(t *testing.T) {
	d := NewSwamp(1, Defaults())
	d.Noise = noise.Const(0.05)

	if got := d.Replace(block.Grass, 0, 62, 0, 0, -1, 0, 0.5); got != block.Water {
		t.Errorf("ground = %v, want water", got)
	}
	if got := d.Replace(block.Air, 0, 63, 0, 0, -1, 0, -0.5); got != block.LilyPad {
		t.Errorf("feature = %v, want lily pad", got)
	}
	if got := d.Replace(block.Grass, 0, 70, 0, 0, -1, 0, 0.5); got != block.Grass {
		t.Errorf("out of range = %v, want grass", got)
	}

	d.Noise = noise.Const(0.5)
	if got := d.Replace(block.Air, 0, 63, 0, 0, -1, 0, -0.5); got != block.Air {
		t.Errorf("feature outside noise range = %v, want air", got)
	}
}

func TestYGradient(t *testing.T) {
	g := YGradient{Seed: 7, MinY: 0, MaxY: 5, Block: block.Bedrock}
	for x := range 16 {
		if got := g.Replace(block.Stone, x, 0, 0, 0, 0, 0, 1); got != block.Bedrock {
			t.Fatalf("y=MinY x=%d: got %v, want bedrock", x, got)
		}
		if got := g.Replace(block.Stone, x, 5, 0, 0, 0, 0, 1); got != block.Stone {
			t.Fatalf("y=MaxY x=%d: got %v, want stone", x, got)
		}
	}
	if got := g.Replace(block.Air, 0, 0, 0, 0, 0, 0, -1); got != block.Air {
		t.Errorf("air replaced by %v", got)
	}
}

func TestGenerateBands(t *testing.T) {
	a, b := GenerateBands(5), GenerateBands(5)
	if len(a) != BandCount {
		t.Fatalf("len = %d, want %d", len(a), BandCount)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("band %d differs between runs", i)
		}
		if a[i] != block.HardenedClay && a[i].ID() != block.StainedClay(0).ID() {
			t.Errorf("band %d = %v, not clay", i, a[i])
		}
	}
}

func TestMesaTops(t *testing.T) {
	m := NewMesa(3, biome.Lookup(biome.Mesa), noise.Const(3), Defaults())
	if got := m.Replace(block.Air, 0, 80, 0, 0, -1, 0, -0.5); got != block.Air {
		t.Errorf("Replace = %v, want air", got)
	}

	tests := []struct {
		y    int
		want block.State
	}{
		{50, block.StainedClay(block.ColorWhite)},
		{64, block.StainedClay(block.ColorOrange)},
		// depth 3 gives cos(0) > 0, so high tops are coarse
		{75, block.HardenedClay},
	}
	for _, tt := range tests {
		if got := m.Replace(block.Stone, 0, tt.y, 0, 0, -1, 0, 0.5); got != tt.want {
			t.Errorf("top at y=%d = %v, want %v", tt.y, got, tt.want)
		}
	}
}

func TestDefaultRegistryMasks(t *testing.T) {
	r := DefaultRegistry(1, Defaults())

	tests := []struct {
		id   biome.ID
		has  []Kind
		lack []Kind
	}{
		{biome.Plains, []Kind{Shape, Surface, Ocean}, []Kind{MesaSurface, Swamp}},
		{biome.Mesa, []Kind{Shape, MesaSurface, Ocean}, []Kind{Surface}},
		{biome.MegaTaiga, []Kind{Shape, Taiga, Ocean}, []Kind{Surface}},
		{biome.MutatedSavanna, []Kind{MutatedSavanna}, []Kind{Surface, Taiga}},
		{biome.Swampland, []Kind{Surface, Swamp, Ocean}, nil},
	}
	for _, tt := range tests {
		m := r.Mask(tt.id)
		for _, k := range tt.has {
			if !m.Has(k) {
				t.Errorf("biome %d mask missing %v", tt.id, k)
			}
		}
		for _, k := range tt.lack {
			if m.Has(k) {
				t.Errorf("biome %d mask has unexpected %v", tt.id, k)
			}
		}
		st := r.Stages(tt.id)
		if st[0].Kind != Shape || st[len(st)-1].Kind != Ocean {
			t.Errorf("biome %d chain order %v..%v", tt.id, st[0].Kind, st[len(st)-1].Kind)
		}
	}
}

func TestApplyChain(t *testing.T) {
	r := NewRegistry()
	r.Register(biome.Plains,
		Stage{Kind: Shape, Replacer: TerrainShape(block.Stone)},
		Stage{Kind: Surface, Replacer: surfaceWithDepth(biome.Plains, 3)},
		Stage{Kind: Ocean, Replacer: OceanWater(biome.Lookup(biome.Plains), 63)},
	)
	st := r.Stages(biome.Plains)

	tests := []struct {
		name    string
		y       int
		density float64
		want    block.State
	}{
		{"deep stone", 20, 40, block.Stone},
		{"grass skin", 70, 0.5, block.Grass},
		{"sky", 100, -5, block.Air},
		{"sea", 50, -5, block.Water},
	}
	for _, tt := range tests {
		if got := Apply(st, 0, tt.y, 0, 0, -1, 0, tt.density); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}
	if got := c.Get(KeyWaterLevel); got != 63 {
		t.Errorf("water level = %v, want 63", got)
	}
	if !math.IsInf(c.Get(KeyFloorHeight), -1) {
		t.Error("floor should be disabled by default")
	}
	c2 := c.With(KeyWaterLevel, 10)
	if c.Get(KeyWaterLevel) != 63 || c2.Get(KeyWaterLevel) != 10 {
		t.Error("With must not mutate the receiver")
	}
}
