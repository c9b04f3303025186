// Package cube holds the 16×16×16 voxel unit the generator works in and the
// coordinate helpers shared by every generation stage.
package cube

import "github.com/OCharnyshevich/cubicgen/pkg/world/block"

// Size is the edge length of a cube in blocks.
const Size = 16

// Pos identifies a cube by its cube coordinates.
type Pos struct{ X, Y, Z int }

// BlockPos is an absolute block position.
type BlockPos struct{ X, Y, Z int }

// Add returns p offset by the given amounts.
func (p BlockPos) Add(dx, dy, dz int) BlockPos {
	return BlockPos{p.X + dx, p.Y + dy, p.Z + dz}
}

// MinBlock returns the lowest-coordinate block inside the cube.
func (p Pos) MinBlock() BlockPos {
	return BlockPos{ToMinBlock(p.X), ToMinBlock(p.Y), ToMinBlock(p.Z)}
}

// Center returns the block at the centre of the cube.
func (p Pos) Center() BlockPos {
	return p.MinBlock().Add(Size/2, Size/2, Size/2)
}

// Cube returns the cube containing the block.
func (p BlockPos) Cube() Pos {
	return Pos{BlockToCube(p.X), BlockToCube(p.Y), BlockToCube(p.Z)}
}

// BlockToCube converts a block coordinate to the cube coordinate containing it.
func BlockToCube(v int) int { return v >> 4 }

// BlockToLocal converts a block coordinate to its offset inside its cube.
func BlockToLocal(v int) int { return v & (Size - 1) }

// ToMinBlock returns the lowest block coordinate of the given cube coordinate.
func ToMinBlock(c int) int { return c << 4 }

// LocalToBlock converts a cube coordinate and a local offset to a block coordinate.
func LocalToBlock(c, local int) int { return c<<4 + local }

// FloorDiv divides rounding towards negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod is the modulo matching FloorDiv, always in [0, b) for b > 0.
func FloorMod(a, b int) int {
	return a - FloorDiv(a, b)*b
}

// Primer holds the generated blocks of one cube.
// Index = x<<8 | y<<4 | z, value = block.State.
type Primer struct {
	Blocks [Size * Size * Size]block.State
	// Empty is true until the first non-air block is written.
	Empty bool
}

// NewPrimer returns an all-air primer.
func NewPrimer() *Primer {
	return &Primer{Empty: true}
}

func index(x, y, z int) int { return x<<8 | y<<4 | z }

// Get returns the block at local coordinates.
func (p *Primer) Get(x, y, z int) block.State {
	return p.Blocks[index(x, y, z)]
}

// Set stores the block at local coordinates.
func (p *Primer) Set(x, y, z int, s block.State) {
	if s != block.Air {
		p.Empty = false
	}
	p.Blocks[index(x, y, z)] = s
}

// Count returns how many blocks in the primer equal s.
func (p *Primer) Count(s block.State) int {
	n := 0
	for _, b := range p.Blocks {
		if b == s {
			n++
		}
	}
	return n
}

// AABB is an inclusive axis-aligned box in cube coordinates.
type AABB struct {
	MinX int `yaml:"min_x" json:"min_x"`
	MinY int `yaml:"min_y" json:"min_y"`
	MinZ int `yaml:"min_z" json:"min_z"`
	MaxX int `yaml:"max_x" json:"max_x"`
	MaxY int `yaml:"max_y" json:"max_y"`
	MaxZ int `yaml:"max_z" json:"max_z"`
}

// Contains reports whether the cube lies inside the box.
func (b AABB) Contains(p Pos) bool {
	return p.X >= b.MinX && p.X <= b.MaxX &&
		p.Y >= b.MinY && p.Y <= b.MaxY &&
		p.Z >= b.MinZ && p.Z <= b.MaxZ
}
