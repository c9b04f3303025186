package cube

import (
	"testing"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
)

func TestFloorDivMod(t *testing.T) {
	tests := []struct {
		a, b     int
		div, mod int
	}{
		{7, 4, 1, 3},
		{-1, 4, -1, 3},
		{-4, 4, -1, 0},
		{-5, 4, -2, 3},
		{0, 9, 0, 0},
	}
	for _, tt := range tests {
		if got := FloorDiv(tt.a, tt.b); got != tt.div {
			t.Errorf("FloorDiv(%d,%d) = %d, want %d", tt.a, tt.b, got, tt.div)
		}
		if got := FloorMod(tt.a, tt.b); got != tt.mod {
			t.Errorf("FloorMod(%d,%d) = %d, want %d", tt.a, tt.b, got, tt.mod)
		}
	}
}

func TestBlockCubeRoundTrip(t *testing.T) {
	for _, v := range []int{-33, -17, -16, -1, 0, 1, 15, 16, 31, 1000} {
		c := BlockToCube(v)
		l := BlockToLocal(v)
		if l < 0 || l >= Size {
			t.Fatalf("BlockToLocal(%d) = %d out of range", v, l)
		}
		if got := LocalToBlock(c, l); got != v {
			t.Errorf("LocalToBlock(BlockToCube(%d), BlockToLocal(%d)) = %d", v, v, got)
		}
	}
}

func TestPrimerSetGet(t *testing.T) {
	p := NewPrimer()
	if !p.Empty {
		t.Fatal("new primer should be empty")
	}
	p.Set(1, 2, 3, block.Stone)
	if got := p.Get(1, 2, 3); got != block.Stone {
		t.Errorf("Get(1,2,3) = %d, want stone", got)
	}
	if p.Empty {
		t.Error("primer with stone should not be empty")
	}
	if got := p.Count(block.Stone); got != 1 {
		t.Errorf("Count(stone) = %d, want 1", got)
	}
}

func TestAABBContains(t *testing.T) {
	box := AABB{MinX: -1, MinY: 0, MinZ: -1, MaxX: 1, MaxY: 2, MaxZ: 1}
	if !box.Contains(Pos{0, 2, -1}) {
		t.Error("expected (0,2,-1) inside")
	}
	if box.Contains(Pos{0, 3, 0}) {
		t.Error("expected (0,3,0) outside")
	}
}
