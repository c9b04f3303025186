package populate

import (
	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// TreeKind selects a tree shape.
type TreeKind int

const (
	TreeOak TreeKind = iota
	TreeBirch
	TreeSpruce
	TreeAcacia
)

// treeFor picks the tree shape for a biome.
func treeFor(b *biome.Biome, r *rng.Random) TreeKind {
	switch b.ID {
	case biome.Taiga, biome.ColdTaiga, biome.MegaTaiga, biome.IcePlains, biome.ExtremeHills:
		return TreeSpruce
	case biome.BirchForest:
		return TreeBirch
	case biome.Forest, biome.RoofedForest:
		if r.Intn(3) == 0 {
			return TreeBirch
		}
	case biome.Savanna, biome.SavannaPlateau, biome.MutatedSavanna:
		if r.Intn(5) != 0 {
			return TreeAcacia
		}
	}
	return TreeOak
}

// canGrowOn reports whether a sapling could root in s.
func canGrowOn(s block.State) bool {
	switch s {
	case block.Grass, block.Dirt, block.CoarseDirt, block.Podzol:
		return true
	}
	return false
}

// GrowTree places a tree whose trunk starts at base. It returns false when
// the ground or the space above is unsuitable.
func GrowTree(w World, r *rng.Random, base cube.BlockPos, kind TreeKind) bool {
	if !canGrowOn(w.Block(base.Add(0, -1, 0))) {
		return false
	}
	var height int
	switch kind {
	case TreeBirch:
		height = 5 + r.Intn(2)
	case TreeSpruce:
		height = 6 + r.Intn(4)
	case TreeAcacia:
		height = 5 + r.Intn(3)
	default:
		height = 4 + r.Intn(3)
	}
	for y := range height {
		if !replaceableByTree(w.Block(base.Add(0, y, 0))) {
			return false
		}
	}

	w.SetBlock(base.Add(0, -1, 0), block.Dirt)
	switch kind {
	case TreeSpruce:
		spruce(w, base, height)
	case TreeAcacia:
		acacia(w, r, base, height)
	case TreeBirch:
		roundTree(w, r, base, height, block.BirchLog, block.BirchLeaf)
	default:
		roundTree(w, r, base, height, block.OakLog, block.OakLeaves)
	}
	return true
}

func replaceableByTree(s block.State) bool {
	return s.IsAir() || s.ID() == block.OakLeaves.ID() || s.ID() == block.AcaciaLeaf.ID() ||
		s == block.TallGrass || s == block.Fern || s == block.SnowLayer
}

func setLeaf(w World, p cube.BlockPos, s block.State) {
	if w.Block(p).IsAir() {
		w.SetBlock(p, s)
	}
}

// roundTree is the oak/birch shape: a trunk with a two-wide canopy that
// narrows at the top.
func roundTree(w World, r *rng.Random, base cube.BlockPos, height int, log, leaves block.State) {
	for y := range height {
		w.SetBlock(base.Add(0, y, 0), log)
	}
	leafBase := height - 2
	for dy := range 4 {
		radius := 2
		if dy >= 2 {
			radius = 1
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				if dx == 0 && dz == 0 && leafBase+dy < height {
					continue
				}
				// round off the corners of the wide layers
				if radius == 2 && abs(dx) == 2 && abs(dz) == 2 && r.Intn(2) == 0 {
					continue
				}
				setLeaf(w, base.Add(dx, leafBase+dy, dz), leaves)
			}
		}
	}
}

// spruce is a conical tree, widest near the bottom.
func spruce(w World, base cube.BlockPos, height int) {
	for y := range height {
		w.SetBlock(base.Add(0, y, 0), block.SpruceLog)
	}
	for dy := 1; dy <= height; dy++ {
		radius := min((height-dy)/2, 3)
		if radius <= 0 && dy < height {
			continue
		}
		if radius >= 2 && dy%2 == 0 {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				if dx == 0 && dz == 0 {
					continue
				}
				setLeaf(w, base.Add(dx, dy, dz), block.SpruceLeaf)
			}
		}
	}
	setLeaf(w, base.Add(0, height, 0), block.SpruceLeaf)
}

// acacia leans its upper trunk one way and spreads a flat canopy.
func acacia(w World, r *rng.Random, base cube.BlockPos, height int) {
	dx, dz := 0, 0
	switch r.Intn(4) {
	case 0:
		dx = 1
	case 1:
		dx = -1
	case 2:
		dz = 1
	default:
		dz = -1
	}
	bend := height - 1 - r.Intn(3)
	x, z := 0, 0
	for y := range height {
		if y >= bend {
			x += dx
			z += dz
		}
		w.SetBlock(base.Add(x, y, z), block.AcaciaLog)
	}
	top := base.Add(x, height, z)
	for lx := -2; lx <= 2; lx++ {
		for lz := -2; lz <= 2; lz++ {
			if abs(lx) == 2 && abs(lz) == 2 {
				continue
			}
			setLeaf(w, top.Add(lx, -1, lz), block.AcaciaLeaf)
		}
	}
	for lx := -1; lx <= 1; lx++ {
		for lz := -1; lz <= 1; lz++ {
			setLeaf(w, top.Add(lx, 0, lz), block.AcaciaLeaf)
		}
	}
}

// GrowBigShroom places a huge mushroom: a stem with a flat cap.
func GrowBigShroom(w World, r *rng.Random, base cube.BlockPos) bool {
	if !canGrowOn(w.Block(base.Add(0, -1, 0))) {
		return false
	}
	height := 4 + r.Intn(3)
	for y := range height + 1 {
		if !w.Block(base.Add(0, y, 0)).IsAir() {
			return false
		}
	}
	// stem is metadata 10, cap 14 for the brown variant
	stem := block.BigShroom | 10
	capBlock := block.BigShroom | 14
	for y := range height {
		w.SetBlock(base.Add(0, y, 0), stem)
	}
	for dx := -2; dx <= 2; dx++ {
		for dz := -2; dz <= 2; dz++ {
			if abs(dx) == 2 && abs(dz) == 2 {
				continue
			}
			setLeaf(w, base.Add(dx, height, dz), capBlock)
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
