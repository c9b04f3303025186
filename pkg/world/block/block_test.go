package block

import "testing"

func TestStatePredicates(t *testing.T) {
	tests := []struct {
		name   string
		s      State
		air    bool
		liquid bool
		solid  bool
	}{
		{"air", Air, true, false, false},
		{"stone", Stone, false, false, true},
		{"water", Water, false, true, false},
		{"flowing lava", FlowingLava, false, true, false},
		{"tall grass", TallGrass, false, false, false},
		{"red sand", RedSand, false, false, true},
	}
	for _, tt := range tests {
		if got := tt.s.IsAir(); got != tt.air {
			t.Errorf("%s: IsAir = %v, want %v", tt.name, got, tt.air)
		}
		if got := tt.s.IsLiquid(); got != tt.liquid {
			t.Errorf("%s: IsLiquid = %v, want %v", tt.name, got, tt.liquid)
		}
		if got := tt.s.IsSolid(); got != tt.solid {
			t.Errorf("%s: IsSolid = %v, want %v", tt.name, got, tt.solid)
		}
	}
}

func TestSandstoneFor(t *testing.T) {
	if got := SandstoneFor(Sand); got != Sandstone {
		t.Errorf("SandstoneFor(sand) = %d, want sandstone", got)
	}
	if got := SandstoneFor(RedSand); got != RedSandstone {
		t.Errorf("SandstoneFor(red sand) = %d, want red sandstone", got)
	}
	if got := SandstoneFor(Dirt); got != Dirt {
		t.Errorf("SandstoneFor(dirt) = %d, want dirt", got)
	}
}

func TestStainedClayMeta(t *testing.T) {
	s := StainedClay(ColorRed)
	if s.ID() != idStainedClay || s.Meta() != ColorRed {
		t.Errorf("StainedClay(red) = id %d meta %d", s.ID(), s.Meta())
	}
}

func TestSetContains(t *testing.T) {
	s := NewSet(Stone, Dirt)
	if !s.Contains(Dirt) || s.Contains(Grass) {
		t.Error("unexpected set membership")
	}
	var empty Set
	if empty.Contains(Stone) {
		t.Error("nil set should contain nothing")
	}
}
