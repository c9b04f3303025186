package structure

import (
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/noise"
)

// CaveCarver carves winding caves where two 3-D noise fields agree.
type CaveCarver struct {
	a, b      noise.Field
	Threshold float64
	LavaLevel int
	// MaxY keeps caves a few blocks below the expected surface.
	MaxY int
}

// NewCaveCarver creates a carver for the world seed.
func NewCaveCarver(seed int64, expectedBaseHeight float64) *CaveCarver {
	return &CaveCarver{
		a:         noise.New(seed+300).Frequency(1.0/32, 1.0/24, 1.0/32).Using(noise.Simplex).Build(),
		b:         noise.New(seed+400).Frequency(1.0/48, 1.0/32, 1.0/48).Using(noise.Simplex).Build(),
		Threshold: 0.55,
		LavaLevel: 10,
		MaxY:      int(math.Floor(expectedBaseHeight)) - 4,
	}
}

// Generate carves the caves that intersect pos.
func (c *CaveCarver) Generate(p Primer, pos cube.Pos) {
	o := pos.MinBlock()
	if o.Y >= c.MaxY {
		return
	}
	for lx := range cube.Size {
		for lz := range cube.Size {
			for ly := cube.Size - 1; ly >= 0; ly-- {
				y := o.Y + ly
				if y >= c.MaxY || !replaceable(p.Get(lx, ly, lz)) {
					continue
				}
				// never open a cave into water
				if ly < cube.Size-1 && isWater(p.Get(lx, ly+1, lz)) {
					continue
				}
				x, z := o.X+lx, o.Z+lz
				if (c.a.At(x, y, z)+c.b.At(x, y, z))/2 <= c.Threshold {
					continue
				}
				if y < c.LavaLevel {
					p.Set(lx, ly, lz, block.Lava)
				} else {
					p.Set(lx, ly, lz, block.Air)
				}
			}
		}
	}
}
