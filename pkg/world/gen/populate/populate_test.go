package populate

import (
	"maps"
	"math"
	"testing"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// flatWorld is stone up to ground, top at ground and air above, with
// sparse overrides.
type flatWorld struct {
	ground int
	top    block.State
	biome  *biome.Biome
	blocks map[cube.BlockPos]block.State
}

func newFlatWorld(ground int, top block.State, b *biome.Biome) *flatWorld {
	return &flatWorld{ground: ground, top: top, biome: b, blocks: map[cube.BlockPos]block.State{}}
}

func (w *flatWorld) Block(p cube.BlockPos) block.State {
	if s, ok := w.blocks[p]; ok {
		return s
	}
	switch {
	case p.Y < w.ground:
		return block.Stone
	case p.Y == w.ground:
		return w.top
	}
	return block.Air
}

func (w *flatWorld) SetBlock(p cube.BlockPos, s block.State) { w.blocks[p] = s }

func (w *flatWorld) BiomeAt(int, int) *biome.Biome { return w.biome }

func TestSurfaceForCube(t *testing.T) {
	w := newFlatWorld(20, block.Grass, biome.Lookup(biome.Plains))
	tests := []struct {
		name   string
		pos    cube.Pos
		wantY  int
		wantOK bool
	}{
		{"inside", cube.Pos{}, 21, true},
		{"above", cube.Pos{Y: 1}, 0, false},
		{"buried", cube.Pos{Y: -2}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := SurfaceForCube(w, tt.pos, 8, 8, Solid)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && p.Y != tt.wantY {
				t.Errorf("Y = %d, want %d", p.Y, tt.wantY)
			}
		})
	}
}

func TestVetoSkipsDraws(t *testing.T) {
	w := newFlatWorld(20, block.Grass, biome.Lookup(biome.Forest))
	vetoAll := Veto(func(Stage, cube.Pos) bool { return true })

	r := rng.New(77)
	(&Decorator{Veto: vetoAll, ExpectedBaseHeight: 64, ExpectedHeightVariation: 64}).Populate(w, r, cube.Pos{}, w.biome)
	(&Ores{Standard: DefaultStandardOres(), HeightFactor: 64, HeightOffset: 64, Veto: vetoAll}).Populate(w, r, cube.Pos{}, w.biome)
	(&Snow{Veto: vetoAll}).Populate(w, r, cube.Pos{}, w.biome)

	if len(w.blocks) != 0 {
		t.Errorf("vetoed stages wrote %d blocks", len(w.blocks))
	}
	if got, want := r.Int(), rng.New(77).Int(); got != want {
		t.Errorf("vetoed stages consumed random draws")
	}
}

func TestVetoSingleStage(t *testing.T) {
	w := newFlatWorld(20, block.Grass, biome.Lookup(biome.Forest))
	var seen []Stage
	veto := Veto(func(s Stage, _ cube.Pos) bool {
		seen = append(seen, s)
		return s == StageTree
	})
	(&Decorator{Veto: veto}).Populate(w, rng.New(1), cube.Pos{}, w.biome)

	for _, s := range w.blocks {
		if s.ID() == block.OakLog.ID() {
			t.Fatal("tree placed although the tree stage was vetoed")
		}
	}
	if len(seen) == 0 || seen[0] != StageSand {
		t.Errorf("stages asked %v, want sand first", seen)
	}
}

func TestDecoratorDeterministic(t *testing.T) {
	run := func() map[cube.BlockPos]block.State {
		w := newFlatWorld(20, block.Grass, biome.Lookup(biome.Forest))
		d := &Decorator{ExpectedBaseHeight: 64, ExpectedHeightVariation: 64}
		for x := range 3 {
			d.Populate(w, rng.ForCube(9, x, 0, 0, 1), cube.Pos{X: x}, w.biome)
		}
		return w.blocks
	}
	a, b := run(), run()
	if !maps.Equal(a, b) {
		t.Fatal("decoration differs between runs")
	}
	if len(a) == 0 {
		t.Error("forest decoration placed nothing")
	}
}

func TestOres(t *testing.T) {
	coal := StandardOre{Block: block.CoalOre, Size: 8, Attempts: 5, Probability: 1, MinHeight: math.Inf(-1), MaxHeight: math.Inf(1)}
	deep := StandardOre{Block: block.DiamondOre, Size: 8, Attempts: 5, Probability: 1, MinHeight: math.Inf(-1), MaxHeight: -0.75}

	w := newFlatWorld(1000, block.Stone, biome.Lookup(biome.Plains))
	o := &Ores{Standard: []StandardOre{coal, deep}, HeightFactor: 64, HeightOffset: 64}
	o.Populate(w, rng.New(3), cube.Pos{Y: 10}, w.biome)

	coalN := 0
	for p, s := range w.blocks {
		switch s {
		case block.CoalOre:
			coalN++
		case block.DiamondOre:
			t.Errorf("diamond at %+v above its max height", p)
		}
	}
	if coalN == 0 {
		t.Error("no coal placed")
	}
}

func TestOresBiomeFilter(t *testing.T) {
	w := newFlatWorld(1000, block.Stone, biome.Lookup(biome.Plains))
	emerald := StandardOre{Block: block.EmeraldOre, Size: 4, Attempts: 10, Probability: 1,
		MinHeight: math.Inf(-1), MaxHeight: math.Inf(1), Biomes: biome.SetOf(biome.ExtremeHills)}
	(&Ores{Standard: []StandardOre{emerald}, HeightFactor: 64, HeightOffset: 64}).Populate(w, rng.New(3), cube.Pos{}, w.biome)
	if len(w.blocks) != 0 {
		t.Errorf("emerald placed in plains: %d blocks", len(w.blocks))
	}
}

func TestBellCurveCyclic(t *testing.T) {
	tests := []struct {
		y    int
		want float64
	}{
		{16, 1},
		{16 + 192, 1},
		{16 - 192, 1},
	}
	for _, tt := range tests {
		if got := BellCurveCyclic(tt.y, 16, 7.19, 192); got != tt.want {
			t.Errorf("BellCurveCyclic(%d) = %v, want %v", tt.y, got, tt.want)
		}
	}
	if a, b := BellCurveCyclic(10, 16, 7.19, 192), BellCurveCyclic(22, 16, 7.19, 192); a != b {
		t.Errorf("curve not symmetric: %v vs %v", a, b)
	}
	if v := BellCurveCyclic(16+96, 16, 7.19, 192); v > 1e-6 {
		t.Errorf("between bands = %v, want ~0", v)
	}
}

func TestSourceProbability(t *testing.T) {
	prev := math.Inf(1)
	for y := -64; y <= 256; y += 32 {
		p := WaterSourceProbability(y, 64, 64)
		if p <= 0 || p >= prev {
			t.Fatalf("water probability at %d = %v, want positive and decreasing", y, p)
		}
		prev = p
		if l := LavaSourceProbability(y, 64, 64); l <= 0 {
			t.Fatalf("lava probability at %d = %v", y, l)
		}
	}
}

func TestSnow(t *testing.T) {
	w := newFlatWorld(20, block.Grass, biome.Lookup(biome.IcePlains))
	pond := cube.BlockPos{X: 10, Y: 20, Z: 10}
	w.blocks[pond] = block.Water

	(&Snow{}).Populate(w, nil, cube.Pos{}, w.biome)

	if got := w.Block(pond); got != block.Ice {
		t.Errorf("pond = %v, want ice", got)
	}
	snow := 0
	for _, s := range w.blocks {
		if s == block.SnowLayer {
			snow++
		}
	}
	if snow != cube.Size*cube.Size-1 {
		t.Errorf("%d snow layers, want %d", snow, cube.Size*cube.Size-1)
	}

	warm := newFlatWorld(20, block.Grass, biome.Lookup(biome.Plains))
	(&Snow{}).Populate(warm, nil, cube.Pos{}, warm.biome)
	if len(warm.blocks) != 0 {
		t.Errorf("snow in a warm biome: %d blocks", len(warm.blocks))
	}
}

func TestGrowTree(t *testing.T) {
	w := newFlatWorld(20, block.Grass, biome.Lookup(biome.Forest))
	if !GrowTree(w, rng.New(1), cube.BlockPos{X: 0, Y: 21, Z: 0}, TreeOak) {
		t.Fatal("oak did not grow on grass")
	}
	if got := w.Block(cube.BlockPos{X: 0, Y: 21, Z: 0}); got != block.OakLog {
		t.Errorf("trunk = %v, want oak log", got)
	}

	rock := newFlatWorld(20, block.Stone, biome.Lookup(biome.Forest))
	if GrowTree(rock, rng.New(1), cube.BlockPos{X: 0, Y: 21, Z: 0}, TreeSpruce) {
		t.Error("spruce grew on stone")
	}
}

func TestSpring(t *testing.T) {
	w := newFlatWorld(100, block.Stone, biome.Lookup(biome.Plains))
	p := cube.BlockPos{X: 5, Y: 50, Z: 5}
	w.blocks[p.Add(1, 0, 0)] = block.Air
	spring(w, p, block.FlowingWater)
	if got := w.Block(p); got != block.FlowingWater {
		t.Errorf("spring = %v, want flowing water", got)
	}

	closed := cube.BlockPos{X: 20, Y: 50, Z: 5}
	spring(w, closed, block.FlowingWater)
	if got := w.Block(closed); got != block.Stone {
		t.Errorf("sealed spring = %v, want stone", got)
	}
}

func TestStageString(t *testing.T) {
	if StageLakeLava.String() != "lake_lava" || Stage(99).String() != "unknown" {
		t.Errorf("unexpected stage names %q %q", StageLakeLava, Stage(99))
	}
}
