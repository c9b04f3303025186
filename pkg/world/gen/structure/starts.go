package structure

import (
	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// Writer is the world access structure pieces need.
type Writer interface {
	Block(pos cube.BlockPos) block.State
	SetBlock(pos cube.BlockPos, s block.State)
}

// Region is a half-open block box.
type Region struct {
	Min, Max cube.BlockPos
}

// PopulationRegion returns the 16³ area populated for pos: the cube shifted
// by half a cube on every axis so features may spill into neighbours.
func PopulationRegion(pos cube.Pos) Region {
	o := pos.MinBlock().Add(cube.Size/2, cube.Size/2, cube.Size/2)
	return Region{Min: o, Max: o.Add(cube.Size, cube.Size, cube.Size)}
}

// Contains reports whether p lies inside r.
func (r Region) Contains(p cube.BlockPos) bool {
	return p.X >= r.Min.X && p.X < r.Max.X &&
		p.Y >= r.Min.Y && p.Y < r.Max.Y &&
		p.Z >= r.Min.Z && p.Z < r.Max.Z
}

// clipped drops writes outside its region.
type clipped struct {
	w Writer
	r Region
}

func (c clipped) set(p cube.BlockPos, s block.State) {
	if c.r.Contains(p) {
		c.w.SetBlock(p, s)
	}
}

// Portal room dimensions.
const (
	PortalRoomWidth  = 11
	PortalRoomHeight = 8
	PortalRoomLength = 16
)

// End frame facings in metadata.
const (
	facingSouth = 0
	facingWest  = 1
	facingNorth = 2
	facingEast  = 3
	frameEye    = 4
)

// BuildPortalRoom writes a stronghold portal room with its lowest corner at
// origin. Only blocks inside clip are written.
func BuildPortalRoom(w Writer, origin cube.BlockPos, clip Region, r *rng.Random) {
	c := clipped{w, clip}
	for x := range PortalRoomWidth {
		for y := range PortalRoomHeight {
			for z := range PortalRoomLength {
				shell := x == 0 || x == PortalRoomWidth-1 || y == 0 || y == PortalRoomHeight-1 ||
					z == 0 || z == PortalRoomLength-1
				s := block.Air
				if shell {
					s = block.StoneBrick
					if r.Intn(5) == 0 {
						s = block.MossyCobble
					}
				}
				c.set(origin.Add(x, y, z), s)
			}
		}
	}

	// lava pool under the portal
	for x := 4; x <= 6; x++ {
		for z := 9; z <= 11; z++ {
			c.set(origin.Add(x, 1, z), block.Lava)
		}
	}

	frame := func(x, z, facing int) {
		for y := 1; y < 3; y++ {
			c.set(origin.Add(x, y, z), block.StoneBrick)
		}
		meta := facing
		if r.Float32() > 0.9 {
			meta |= frameEye
		}
		c.set(origin.Add(x, 3, z), block.EndFrame|block.State(meta))
	}
	for i := 4; i <= 6; i++ {
		frame(i, 8, facingSouth)
		frame(i, 12, facingNorth)
	}
	for i := 9; i <= 11; i++ {
		frame(3, i, facingEast)
		frame(7, i, facingWest)
	}

	// entrance
	for y := 1; y <= 3; y++ {
		for x := 4; x <= 6; x++ {
			c.set(origin.Add(x, y, 0), block.Air)
		}
	}
}

// Well dimensions.
const (
	WellSize  = 6
	WellDepth = 3
)

// BuildWell writes a village well whose rim sits on ground, the block
// height of the first air block above the surface at origin. Desert wells
// use sandstone.
func BuildWell(w Writer, origin cube.BlockPos, clip Region, b *biome.Biome) {
	c := clipped{w, clip}
	wall, post, path := block.Cobblestone, block.Planks, block.Gravel
	if b != nil && b.ID == biome.Desert {
		wall, post, path = block.Sandstone, block.Sandstone, block.Sandstone
	}

	for x := range WellSize {
		for z := range WellSize {
			inner := x >= 2 && x <= 3 && z >= 2 && z <= 3
			rim := x >= 1 && x <= 4 && z >= 1 && z <= 4
			edge := !rim

			for y := -WellDepth - 1; y < 0; y++ {
				s := wall
				if inner && y >= -WellDepth {
					s = block.Water
				}
				c.set(origin.Add(x, y, z), s)
			}
			switch {
			case edge:
				c.set(origin.Add(x, -1, z), path)
			case inner:
				c.set(origin.Add(x, 0, z), block.Air)
			default:
				c.set(origin.Add(x, 0, z), wall)
			}
			for y := 1; y <= 3; y++ {
				c.set(origin.Add(x, y, z), block.Air)
			}
			if rim {
				c.set(origin.Add(x, 4, z), wall)
			}
		}
	}
	for _, p := range [][2]int{{1, 1}, {1, 4}, {4, 1}, {4, 4}} {
		for y := 1; y <= 3; y++ {
			c.set(origin.Add(p[0], y, p[1]), post)
		}
	}
}
