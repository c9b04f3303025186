package populate

import (
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// Decorator places the per-biome surface features. Counts come from the
// biome's Decoration; stages run in a fixed order so the draws stay stable.
type Decorator struct {
	Veto Veto
	// ExpectedBaseHeight and ExpectedHeightVariation map block heights to
	// the classic 0..255 range for spring probabilities.
	ExpectedBaseHeight      float64
	ExpectedHeightVariation float64
}

// Populate runs every decoration stage for the cube.
func (d *Decorator) Populate(w World, r *rng.Random, pos cube.Pos, b *biome.Biome) {
	dec := b.Decor

	if d.Veto.allowed(StageSand, pos) {
		d.onTop(w, r, pos, dec.SandPatches, func(p cube.BlockPos) { patch(w, r, p, block.Sand, 7) })
	}
	if d.Veto.allowed(StageClay, pos) {
		d.onTop(w, r, pos, dec.ClayPatches, func(p cube.BlockPos) { patch(w, r, p, block.Clay, 4) })
	}
	if d.Veto.allowed(StageSandPass2, pos) {
		d.onTop(w, r, pos, dec.GravelPatches, func(p cube.BlockPos) { patch(w, r, p, block.Gravel, 6) })
	}

	if d.Veto.allowed(StageTree, pos) {
		trees := dec.Trees
		if r.Float32() < float32(dec.ExtraTreeChance) {
			trees++
		}
		for range trees {
			x, z := randomOffset(r), randomOffset(r)
			kind := treeFor(b, r)
			if top, ok := SurfaceForCube(w, pos, x, z, Opaque); ok {
				GrowTree(w, r, top, kind)
			}
		}
	}

	if d.Veto.allowed(StageBigShroom, pos) {
		for range dec.BigMushrooms {
			x, z := randomOffset(r), randomOffset(r)
			if top, ok := SurfaceForCube(w, pos, x, z, Opaque); ok {
				GrowBigShroom(w, r, top)
			}
		}
	}

	if d.Veto.allowed(StageFlowers, pos) {
		for range dec.Flowers {
			// roughly one in seven attempts lands on the surface in a column
			if r.Intn(7) != 0 {
				continue
			}
			flower := block.Dandelion
			if r.Intn(3) == 0 {
				flower = block.Poppy
			}
			scatter(r, randomPopulationPos(r, pos), 64, 7, 3, func(p cube.BlockPos) {
				placePlant(w, p, flower, block.Grass)
			})
		}
	}

	if d.Veto.allowed(StageGrass, pos) {
		plant := block.TallGrass
		if b.ID == biome.Taiga || b.ID == biome.MegaTaiga || b.ID == biome.ColdTaiga {
			plant = block.Fern
		}
		d.halfOnTop(w, r, pos, dec.Grass, Solid, func(p cube.BlockPos) {
			scatter(r, p, 128, 7, 3, func(q cube.BlockPos) { placePlant(w, q, plant, block.Grass) })
		})
	}

	if d.Veto.allowed(StageDeadBush, pos) {
		d.halfOnTop(w, r, pos, dec.DeadBushes, Solid, func(p cube.BlockPos) {
			scatter(r, p, 4, 7, 3, func(q cube.BlockPos) {
				placePlant(w, q, block.DeadBush, block.Sand, block.RedSand, block.HardenedClay, block.StainedClay(block.ColorOrange))
			})
		})
	}

	if d.Veto.allowed(StageLilyPad, pos) {
		d.halfOnTop(w, r, pos, dec.LilyPads, Blocking, func(p cube.BlockPos) {
			scatter(r, p, 10, 7, 3, func(q cube.BlockPos) { placePlant(w, q, block.LilyPad, block.Water) })
		})
	}

	mushrooms := max(dec.Mushrooms+1, 1)
	if d.Veto.allowed(StageShroom, pos) {
		for range mushrooms {
			if r.Intn(4) == 0 {
				x, z := randomOffset(r), randomOffset(r)
				if top, ok := SurfaceForCube(w, pos, x, z, Opaque); ok {
					scatter(r, top, 64, 7, 3, func(q cube.BlockPos) { placeMushroom(w, q, block.BrownShroom) })
				}
			}
			if r.Intn(8) == 0 {
				if r.Intn(10) != 0 {
					continue
				}
				x, z := randomOffset(r), randomOffset(r)
				if top, ok := SurfaceForCube(w, pos, x, z, Opaque); ok {
					scatter(r, top, 64, 7, 3, func(q cube.BlockPos) { placeMushroom(w, q, block.RedShroom) })
				}
			}
		}
	}

	if d.Veto.allowed(StageReed, pos) {
		for range max(dec.Reeds+10, 10) {
			if r.Intn(10) != 0 {
				continue
			}
			x, z := randomOffset(r), randomOffset(r)
			if top, ok := SurfaceForCube(w, pos, x, z, Opaque); ok {
				scatter(r, top, 20, 3, 0, func(q cube.BlockPos) { placeReed(w, r, q) })
			}
		}
	}

	if d.Veto.allowed(StagePumpkin, pos) && r.Intn(32*10) == 0 {
		x, z := randomOffset(r), randomOffset(r)
		if top, ok := SurfaceForCube(w, pos, x, z, Opaque); ok {
			scatter(r, top, 64, 7, 3, func(q cube.BlockPos) { placePlant(w, q, block.Pumpkin, block.Grass) })
		}
	}

	if d.Veto.allowed(StageCactus, pos) {
		for range dec.Cacti {
			if r.Intn(10) != 0 {
				continue
			}
			x, z := randomOffset(r), randomOffset(r)
			if top, ok := SurfaceForCube(w, pos, x, z, Opaque); ok {
				scatter(r, top, 10, 7, 3, func(q cube.BlockPos) { placeCactus(w, r, q) })
			}
		}
	}

	if !dec.Liquids {
		return
	}
	base := pos.MinBlock()
	if d.Veto.allowed(StageLakeWater, pos) {
		for range 50 {
			y := randomOffset(r)
			if r.Float64() > WaterSourceProbability(base.Y+y, d.ExpectedBaseHeight, d.ExpectedHeightVariation) {
				continue
			}
			x, z := randomOffset(r), randomOffset(r)
			spring(w, base.Add(x, y, z), block.FlowingWater)
		}
	}
	if d.Veto.allowed(StageLakeLava, pos) {
		for range 20 {
			y := randomOffset(r)
			if r.Float64() > LavaSourceProbability(base.Y+y, d.ExpectedBaseHeight, d.ExpectedHeightVariation) {
				continue
			}
			x, z := randomOffset(r), randomOffset(r)
			spring(w, base.Add(x, y, z), block.FlowingLava)
		}
	}
}

func (d *Decorator) onTop(w World, r *rng.Random, pos cube.Pos, count int, place func(cube.BlockPos)) {
	for range count {
		x, z := randomOffset(r), randomOffset(r)
		if top, ok := SurfaceForCube(w, pos, x, z, Solid); ok {
			place(top)
		}
	}
}

// halfOnTop is onTop where each attempt first has an even chance of being
// skipped.
func (d *Decorator) halfOnTop(w World, r *rng.Random, pos cube.Pos, count int, t SurfaceType, place func(cube.BlockPos)) {
	for range count {
		if r.Bool() {
			continue
		}
		x, z := randomOffset(r), randomOffset(r)
		if top, ok := SurfaceForCube(w, pos, x, z, t); ok {
			place(top)
		}
	}
}

// WaterSourceProbability is the chance of a water spring at block height y,
// an arctan fit of the classic height distribution.
func WaterSourceProbability(y int, baseHeight, variation float64) float64 {
	return sourceProbability(y, baseHeight, variation, -0.0242676003062542, 0.723583275161355, 0.00599930877922822)
}

// LavaSourceProbability is the chance of a lava spring at block height y.
func LavaSourceProbability(y int, baseHeight, variation float64) float64 {
	return sourceProbability(y, baseHeight, variation, -0.0703727292987445, 1.01588640105311, 0.0127618337650875)
}

func sourceProbability(y int, baseHeight, variation, yScale, yOffset, valueScale float64) float64 {
	if variation == 0 {
		variation = 64
	}
	vanillaY := (float64(y)-baseHeight)/variation*64 + 64
	return (math.Atan(vanillaY*yScale+yOffset) + math.Pi/2) * valueScale
}

// scatter calls place at tries random positions around origin.
func scatter(r *rng.Random, origin cube.BlockPos, tries, spreadXZ, spreadY int, place func(cube.BlockPos)) {
	for range tries {
		dx := r.Intn(spreadXZ+1) - r.Intn(spreadXZ+1)
		dy := 0
		if spreadY > 0 {
			dy = r.Intn(spreadY+1) - r.Intn(spreadY+1)
		}
		dz := r.Intn(spreadXZ+1) - r.Intn(spreadXZ+1)
		place(origin.Add(dx, dy, dz))
	}
}

// placePlant puts s at p when p is empty and the block below is one of soil.
func placePlant(w World, p cube.BlockPos, s block.State, soil ...block.State) {
	if !w.Block(p).IsAir() {
		return
	}
	below := w.Block(p.Add(0, -1, 0))
	for _, ok := range soil {
		if below == ok {
			w.SetBlock(p, s)
			return
		}
	}
}

func placeMushroom(w World, p cube.BlockPos, s block.State) {
	if !w.Block(p).IsAir() {
		return
	}
	below := w.Block(p.Add(0, -1, 0))
	if below == block.Podzol || (below.IsOpaque() && !w.Block(p.Add(0, 2, 0)).IsAir()) {
		w.SetBlock(p, s)
	}
}

// placeReed grows sugar cane next to water.
func placeReed(w World, r *rng.Random, p cube.BlockPos) {
	if !w.Block(p).IsAir() {
		return
	}
	switch w.Block(p.Add(0, -1, 0)) {
	case block.Grass, block.Dirt, block.Sand, block.RedSand:
	default:
		return
	}
	wet := false
	for _, n := range horizontal(p.Add(0, -1, 0)) {
		if w.Block(n).ID() == block.Water.ID() || w.Block(n).ID() == block.FlowingWater.ID() {
			wet = true
			break
		}
	}
	if !wet {
		return
	}
	h := 2 + r.Intn(r.Intn(3)+1)
	for y := range h {
		q := p.Add(0, y, 0)
		if !w.Block(q).IsAir() {
			return
		}
		w.SetBlock(q, block.Reeds)
	}
}

// placeCactus grows a cactus on sand with free sides.
func placeCactus(w World, r *rng.Random, p cube.BlockPos) {
	if !w.Block(p).IsAir() || !w.Block(p.Add(0, -1, 0)).IsSand() {
		return
	}
	h := 1 + r.Intn(r.Intn(3)+1)
	for y := range h {
		q := p.Add(0, y, 0)
		for _, n := range horizontal(q) {
			if w.Block(n).IsSolid() {
				return
			}
		}
		w.SetBlock(q, block.Cactus)
	}
}

// patch replaces soil in a disc under shallow water.
func patch(w World, r *rng.Random, p cube.BlockPos, s block.State, radius int) {
	if w.Block(p).ID() != block.Water.ID() {
		return
	}
	rad := r.Intn(radius-2) + 2
	for x := -rad; x <= rad; x++ {
		for z := -rad; z <= rad; z++ {
			if x*x+z*z > rad*rad {
				continue
			}
			for y := -2; y <= 2; y++ {
				q := p.Add(x, y, z)
				switch w.Block(q) {
				case block.Dirt, block.Grass, block.Clay:
					w.SetBlock(q, s)
				}
			}
		}
	}
}

// spring places a liquid source in a stone wall with exactly one open side.
func spring(w World, p cube.BlockPos, liquid block.State) {
	if w.Block(p.Add(0, 1, 0)) != block.Stone || w.Block(p.Add(0, -1, 0)) != block.Stone {
		return
	}
	if s := w.Block(p); !s.IsAir() && s != block.Stone {
		return
	}
	stone, air := 0, 0
	for _, n := range horizontal(p) {
		switch s := w.Block(n); {
		case s == block.Stone:
			stone++
		case s.IsAir():
			air++
		}
	}
	if stone == 3 && air == 1 {
		w.SetBlock(p, liquid)
	}
}

func horizontal(p cube.BlockPos) [4]cube.BlockPos {
	return [4]cube.BlockPos{p.Add(1, 0, 0), p.Add(-1, 0, 0), p.Add(0, 0, 1), p.Add(0, 0, -1)}
}
