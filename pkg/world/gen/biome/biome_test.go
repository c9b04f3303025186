package biome

import (
	"math"
	"testing"

	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

func TestLookupKnownBiomes(t *testing.T) {
	for _, id := range []ID{Ocean, Plains, Desert, Mesa, MutatedSavanna, Swampland} {
		b := Lookup(id)
		if b == nil {
			t.Fatalf("Lookup(%d) = nil", id)
		}
		if b.ID != id {
			t.Errorf("Lookup(%d).ID = %d", id, b.ID)
		}
	}
	if Lookup(9999) != nil {
		t.Error("Lookup(9999) should be nil")
	}
}

func TestVanillaConversions(t *testing.T) {
	if got := VanillaHeight(0); math.Abs(got+1.0/256) > 1e-12 {
		t.Errorf("VanillaHeight(0) = %v", got)
	}
	if got := VanillaVariation(0); math.Abs(got-4.0/17) > 1e-12 {
		t.Errorf("VanillaVariation(0) = %v", got)
	}
	if VanillaHeight(1) <= VanillaHeight(0.5) {
		t.Error("VanillaHeight should be increasing")
	}
}

func TestSelectBiomeTable(t *testing.T) {
	tests := []struct {
		temp, rain, variant float64
		want                ID
	}{
		{0.0, 0.1, 0, IcePlains},
		{0.3, 0.5, 0, Taiga},
		{0.7, 0.1, 0, Plains},
		{0.7, 0.5, 0, Forest},
		{0.7, 0.8, 0.9, Swampland},
		{1.2, 0.1, 0, Savanna},
		{1.2, 0.1, 0.9, MutatedSavanna},
		{1.8, 0.1, 0, Desert},
		{1.8, 0.1, 0.6, Mesa},
		{1.8, 0.9, 0, Jungle},
	}
	for _, tt := range tests {
		if got := selectBiome(tt.temp, tt.rain, tt.variant); got != tt.want {
			t.Errorf("selectBiome(%v,%v,%v) = %d, want %d", tt.temp, tt.rain, tt.variant, got, tt.want)
		}
	}
}

func TestNoiseProviderDeterministic(t *testing.T) {
	a := NewNoiseProvider(42, 1)
	b := NewNoiseProvider(42, 1)
	for x := -500; x < 500; x += 37 {
		for z := -500; z < 500; z += 41 {
			if a.BiomeAt(x, z) != b.BiomeAt(x, z) {
				t.Fatalf("biome at (%d,%d) differs", x, z)
			}
		}
	}
}

func TestSingleProviderQueries(t *testing.T) {
	p := NewSingleProvider(Lookup(Plains))
	allowed := SetOf(Plains)

	if !p.AreBiomesViable(100, -100, 32, allowed) {
		t.Error("plains-only world should be viable for plains")
	}
	if p.AreBiomesViable(0, 0, 0, SetOf(Desert)) {
		t.Error("plains-only world should not be viable for desert")
	}

	x, z, ok := p.FindNearestEligible(0, 0, 112, allowed, rng.New(1))
	if !ok {
		t.Fatal("expected a position")
	}
	if x < -112-4 || x > 112 || z < -112-4 || z > 112 {
		t.Errorf("position (%d,%d) outside search radius", x, z)
	}
	if _, _, ok := p.FindNearestEligible(0, 0, 112, SetOf(Desert), rng.New(1)); ok {
		t.Error("no desert should be found")
	}
}

func TestWhereFiltersPositiveHeight(t *testing.T) {
	s := Where(func(b *Biome) bool { return b.BaseHeight > 0 })
	if s.Contains(Ocean) || !s.Contains(Plains) {
		t.Error("Where(baseHeight>0) membership wrong")
	}
}
