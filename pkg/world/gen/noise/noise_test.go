package noise

import (
	"math"
	"testing"

	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/cache"
)

func TestSourceDeterministic(t *testing.T) {
	for _, backend := range []Backend{Perlin, Simplex} {
		a := New(42).Frequency(0.013, 0.02, 0.017).Octaves(4).Using(backend).Build()
		b := New(42).Frequency(0.013, 0.02, 0.017).Octaves(4).Using(backend).Build()
		for i := -20; i < 20; i++ {
			x, y, z := i*7, i*3, -i*5
			if a.At(x, y, z) != b.At(x, y, z) {
				t.Fatalf("backend %d: value at (%d,%d,%d) differs", backend, x, y, z)
			}
		}
	}
}

func TestSourceSeedMatters(t *testing.T) {
	a := New(1).Frequency(0.05, 0.05, 0.05).Using(Simplex).Build()
	b := New(2).Frequency(0.05, 0.05, 0.05).Using(Simplex).Build()
	same := true
	for i := 0; i < 50; i++ {
		if a.At(i*3, i, i*2) != b.At(i*3, i, i*2) {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds should produce different noise")
	}
}

func TestSimplexNormalizeRange(t *testing.T) {
	f := New(7).Frequency(0.031, 0.047, 0.029).Octaves(3).Normalize(10, 20).Using(Simplex).Build()
	for x := -40; x < 40; x += 3 {
		for z := -40; z < 40; z += 5 {
			v := f.At(x, x/2, z)
			if v < 10 || v > 20 {
				t.Fatalf("normalized value %v at (%d,%d) outside [10,20]", v, x, z)
			}
		}
	}
}

func TestCombinators(t *testing.T) {
	x := Of(Func(func(x, _, _ int) float64 { return float64(x) }))

	tests := []struct {
		name string
		f    Field
		in   int
		want float64
	}{
		{"add", x.Add(Const(2)), 3, 5},
		{"sub", x.Sub(Const(2)), 3, 1},
		{"mul", x.Mul(Const(4)), -2, -8},
		{"scale bias", x.ScaleBias(2, 1), 3, 7},
		{"clamp low", x.Clamp(-2, 1), -5, -2},
		{"clamp high", x.Clamp(-2, 1), 5, 1},
		{"mul if negative applies", x.MulIf(Negative, Const(-0.5)), -4, 2},
		{"mul if negative skips", x.MulIf(Negative, Const(-0.5)), 4, 4},
		{"div if positive", x.DivIf(Positive, Const(8)), 4, 0.5},
		{"signum", x.Signum(), -9, -1},
		{"signum zero", x.Signum(), 0, 0},
		{"lerp", Lerp(Const(0.25), Const(0), x), 8, 2},
	}
	for _, tt := range tests {
		if got := tt.f.At(tt.in, 0, 0); got != tt.want {
			t.Errorf("%s: At(%d) = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestCachedMatchesUncached(t *testing.T) {
	src := New(99).Frequency(0.02, 0.02, 0.02).Octaves(2).Build()
	c2 := src.Cached2D(16, func(x, z int) int { return x + z*16 })
	c3 := src.Cached3D(64, func(x, y, z int) int { return x + z*5 + y*25 }, cache.Options{})
	c3miss := src.Cached3D(64, func(x, y, z int) int { return x + z*5 + y*25 }, cache.Options{AlwaysMiss: true})

	for pass := 0; pass < 2; pass++ {
		for x := -3; x < 4; x++ {
			for z := -3; z < 4; z++ {
				if got, want := c2.At(x, 17, z), src.At(x, 0, z); got != want {
					t.Fatalf("Cached2D(%d,%d) = %v, want %v", x, z, got, want)
				}
				if got, want := c3.At(x, 2, z), src.At(x, 2, z); got != want {
					t.Fatalf("Cached3D(%d,2,%d) = %v, want %v", x, z, got, want)
				}
				if got, want := c3miss.At(x, 2, z), src.At(x, 2, z); got != want {
					t.Fatalf("always-miss Cached3D(%d,2,%d) = %v, want %v", x, z, got, want)
				}
			}
		}
	}
}

func TestForEachScaledLinearField(t *testing.T) {
	lin := Func(func(x, y, z int) float64 { return 2*float64(x) + 3*float64(y) - float64(z) })
	box := Box{MinX: -16, MinY: 32, MinZ: 0, MaxX: 0, MaxY: 48, MaxZ: 16}

	visited := 0
	ForEachScaled(lin, box, Step{X: 4, Y: 8, Z: 4}, func(x, y, z int, dx, dy, dz, v float64) {
		visited++
		want := lin.At(x, y, z)
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("value at (%d,%d,%d) = %v, want %v", x, y, z, v, want)
		}
		if math.Abs(dx-2) > 1e-9 || math.Abs(dy-3) > 1e-9 || math.Abs(dz+1) > 1e-9 {
			t.Fatalf("gradient at (%d,%d,%d) = (%v,%v,%v), want (2,3,-1)", x, y, z, dx, dy, dz)
		}
	})
	if visited != 16*16*16 {
		t.Errorf("visited %d blocks, want %d", visited, 16*16*16)
	}
}

func TestFrequencyFromVanilla(t *testing.T) {
	if got := FrequencyFromVanilla(0.0625, 4); got != 0.0078125 {
		t.Errorf("FrequencyFromVanilla(0.0625,4) = %v, want 0.0078125", got)
	}
	if got := MaxValue(1); got != 1 {
		t.Errorf("MaxValue(1) = %v, want 1", got)
	}
}
