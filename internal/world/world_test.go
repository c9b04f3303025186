package world

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/populate"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// markingGen is a flat generator whose population drops a gold ore block
// in the middle of the population area and counts its calls.
type markingGen struct {
	*gen.FlatGenerator
	generated map[cube.Pos]int
	populated map[cube.Pos]int
}

func newMarkingGen() *markingGen {
	return &markingGen{
		FlatGenerator: gen.NewFlatGenerator(nil),
		generated:     map[cube.Pos]int{},
		populated:     map[cube.Pos]int{},
	}
}

func (g *markingGen) GenerateCube(x, y, z int) *cube.Primer {
	g.generated[cube.Pos{X: x, Y: y, Z: z}]++
	return g.FlatGenerator.GenerateCube(x, y, z)
}

func (g *markingGen) Populate(w populate.World, pos cube.Pos) {
	g.populated[pos]++
	w.SetBlock(pos.Center().Add(cube.Size/2, cube.Size/2, cube.Size/2), block.GoldOre)
}

func TestGetOrGenerateCubeCaches(t *testing.T) {
	g := newMarkingGen()
	w := New(g, testLogger())
	a := w.GetOrGenerateCube(cube.Pos{Y: -1})
	b := w.GetOrGenerateCube(cube.Pos{Y: -1})
	if a != b {
		t.Error("second call returned a different primer")
	}
	if g.generated[cube.Pos{Y: -1}] != 1 {
		t.Errorf("generated %d times, want 1", g.generated[cube.Pos{Y: -1}])
	}
}

func TestBlockAndOverrides(t *testing.T) {
	w := New(gen.NewFlatGenerator(nil), testLogger())
	p := cube.BlockPos{X: 5, Y: -1, Z: -7}

	if got := w.Block(p); got != block.Grass {
		t.Fatalf("Block = %v, want grass", got)
	}
	w.SetBlock(p, block.Stone)
	if got := w.Block(p); got != block.Stone {
		t.Fatalf("Block after SetBlock = %v, want stone", got)
	}
	if w.Overrides() != 1 {
		t.Errorf("Overrides = %d, want 1", w.Overrides())
	}

	c := w.Cube(p.Cube())
	if got := c.Get(5, 15, cube.BlockToLocal(-7)); got != block.Stone {
		t.Errorf("Cube copy = %v, want stone", got)
	}
	if w.GetOrGenerateCube(p.Cube()).Get(5, 15, cube.BlockToLocal(-7)) != block.Grass {
		t.Error("override leaked into the base primer")
	}

	w.SetBlock(p, block.Grass)
	if w.Overrides() != 0 {
		t.Errorf("writing the base block left %d overrides", w.Overrides())
	}
}

func TestPopulateAround(t *testing.T) {
	g := newMarkingGen()
	w := New(g, testLogger())
	pos := cube.Pos{X: 2, Y: -1, Z: 3}

	w.PopulateAround(pos)
	if len(g.populated) != 8 {
		t.Fatalf("populated %d cubes, want 8", len(g.populated))
	}
	for q, n := range g.populated {
		if n != 1 {
			t.Errorf("cube %v populated %d times", q, n)
		}
		if q.X < pos.X-1 || q.X > pos.X || q.Y < pos.Y-1 || q.Y > pos.Y || q.Z < pos.Z-1 || q.Z > pos.Z {
			t.Errorf("unexpected cube %v populated", q)
		}
	}
	if !w.Populated(pos) || !w.Populated(cube.Pos{X: 1, Y: -2, Z: 2}) {
		t.Error("Populated not recorded")
	}

	// the marker of pos itself lands in its upper neighbour; the one from
	// the lower corner lands in pos
	if got := w.Cube(pos).Get(0, 0, 0); got != block.GoldOre {
		t.Errorf("marker from lower corner = %v, want gold ore", got)
	}

	w.PopulateAround(pos)
	w.PopulateAround(cube.Pos{X: pos.X + 1, Y: pos.Y, Z: pos.Z})
	for q, n := range g.populated {
		if n != 1 {
			t.Errorf("cube %v populated %d times after overlap", q, n)
		}
	}
	if len(g.populated) != 12 {
		t.Errorf("populated %d cubes, want 12", len(g.populated))
	}
	for q, n := range g.generated {
		if n != 1 {
			t.Errorf("cube %v generated %d times", q, n)
		}
	}
}

func TestUnload(t *testing.T) {
	w := New(newMarkingGen(), testLogger())
	w.PopulateAround(cube.Pos{})
	w.SetBlock(cube.BlockPos{X: 100, Y: -1}, block.Dirt)

	if w.Overrides() != 9 {
		t.Fatalf("Overrides = %d, want 9", w.Overrides())
	}

	w.Unload(func(p cube.Pos) bool { return p.X < 2 })
	if w.Overrides() != 8 {
		t.Errorf("Overrides after unload = %d, want 8", w.Overrides())
	}
	if !w.Populated(cube.Pos{}) {
		t.Error("kept population mark dropped")
	}
}

func TestConcurrentReads(t *testing.T) {
	s := gen.DefaultSettings()
	s.Biome = int(biome.Plains)
	w := New(gen.New(9, s), testLogger())

	var wg sync.WaitGroup
	results := make([]block.State, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = w.Block(cube.BlockPos{X: 3, Y: 40, Z: 3})
			w.BiomeAt(i*16, 0)
		}()
	}
	wg.Wait()
	for _, r := range results[1:] {
		if r != results[0] {
			t.Fatalf("concurrent reads disagree: %v", results)
		}
	}
}
