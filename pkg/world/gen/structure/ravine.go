package structure

import (
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// Ravine tuning. Rarity is per source cube: the classic 1 in 50 chunks
// spread over 16 cubes per column, generated in one of 8 cubes.
const (
	RavineRange  = 8
	RavineRarity = 50 * 16 / (2 * 2 * 2)

	lavaHeightOffset  = -10.0
	lavaHeightYFactor = -0.1
	vertSizeFactor    = 3.0
	ravineSizeAdd     = 1.5
	minRandSizeFactor = 0.75
	maxRandSizeFactor = 1.0

	flattenFactor          float32 = 0.7
	directionChangeFactor  float32 = 0.05
	prevHorizChangeWeight  float32 = 0.5
	prevVertChangeWeight   float32 = 0.8
	maxAddDirChangeHoriz   float32 = 4
	maxAddDirChangeVert    float32 = 2
	carveStepRarity                = 4
	stretchYFactor                 = 6.0
	widthFactorPeriod              = cube.Size * cube.Size
)

// RavineCarver cuts long, deep gashes by walking a damped random path from
// rare source cubes. Walk state is local to each call, so one carver may be
// shared by goroutines.
type RavineCarver struct {
	seed     int64
	maxCubeY int
}

// NewRavineCarver creates a carver for the world seed. Ravines do not start
// above expectedBaseHeight.
func NewRavineCarver(seed int64, expectedBaseHeight float64) *RavineCarver {
	return &RavineCarver{
		seed:     seed,
		maxCubeY: cube.BlockToCube(int(math.Floor(expectedBaseHeight))),
	}
}

// Generate carves every ravine from nearby sources that reaches pos.
func (c *RavineCarver) Generate(p Primer, pos cube.Pos) {
	forEachSource(c.seed, pos, RavineRange, RavineRange, 0, 0, func(r *rng.Random, sx, sy, sz int) {
		c.start(p, r, sx, sy, sz, pos)
	})
}

func (c *RavineCarver) start(p Primer, r *rng.Random, sx, sy, sz int, target cube.Pos) {
	if r.Intn(RavineRarity) != 0 || sy > c.maxCubeY {
		return
	}
	x := float64(cube.LocalToBlock(sx, r.Intn(cube.Size)))
	y := float64(cube.LocalToBlock(sy, r.Intn(cube.Size)))
	z := float64(cube.LocalToBlock(sz, r.Intn(cube.Size)))

	// horizontal heading covers the full circle, the vertical pitch a
	// narrow cone around level
	horiz := r.Float32() * math.Pi * 2
	vert := (r.Float32() - 0.5) * 2 / 8
	size := (r.Float32()*2 + r.Float32()) * 2

	lava := int(y - (float64(size)+ravineSizeAdd)*vertSizeFactor + lavaHeightOffset + y*lavaHeightYFactor)

	w := &ravineWalk{
		x: x, y: y, z: z,
		size:   size,
		horiz:  horiz,
		vert:   vert,
		lava:   lava,
		target: target,
	}
	w.run(p, r.Int64(), 0)
}

// ravineWalk is the ephemeral state of one walk.
type ravineWalk struct {
	x, y, z     float64
	size        float32
	horiz, vert float32
	lava        int
	target      cube.Pos
	widths      [widthFactorPeriod]float32
}

// run walks the ravine. maxWalked of zero picks a length from the range.
func (w *ravineWalk) run(p Primer, seed int64, maxWalked int) {
	r := rng.New(seed)
	var horizChange, vertChange float32

	if maxWalked <= 0 {
		maxBlockRadius := cube.ToMinBlock(RavineRange - 1)
		maxWalked = maxBlockRadius - r.Intn(maxBlockRadius/4)
	}
	w.fillWidths(r)

	centre := w.target.Center()
	cx := float64(centre.X)
	cz := float64(centre.Z)

	for walked := 0; walked < maxWalked; walked++ {
		frac := float32(walked) / float32(maxWalked)
		sizeH := ravineSizeAdd + float64(float32(math.Sin(float64(frac*math.Pi)))*w.size)
		sizeV := sizeH * vertSizeFactor
		sizeH *= float64(r.Float32())*(maxRandSizeFactor-minRandSizeFactor) + minRandSizeFactor
		sizeV *= float64(r.Float32())*(maxRandSizeFactor-minRandSizeFactor) + minRandSizeFactor

		xz := float32(math.Cos(float64(w.vert)))
		dy := float32(math.Sin(float64(w.vert)))
		w.x += float64(float32(math.Cos(float64(w.horiz))) * xz)
		w.y += float64(dy)
		w.z += float64(float32(math.Sin(float64(w.horiz))) * xz)

		w.vert *= flattenFactor
		w.vert += vertChange * directionChangeFactor
		w.horiz += horizChange * directionChangeFactor
		vertChange *= prevVertChangeWeight
		horizChange *= prevHorizChangeWeight
		vertChange += (r.Float32() - r.Float32()) * r.Float32() * maxAddDirChangeVert
		horizChange += (r.Float32() - r.Float32()) * r.Float32() * maxAddDirChangeHoriz

		if r.Intn(carveStepRarity) == 0 {
			continue
		}

		// Y is ignored: vertical reach is small next to the walk length.
		dx, dz := w.x-cx, w.z-cz
		remaining := float64(maxWalked - walked)
		reach := float64(w.size) + ravineSizeAdd + cube.Size
		if dx*dx+dz*dz-remaining*remaining > reach*reach {
			return
		}

		w.tryCarve(p, sizeH, sizeV)
	}
}

// fillWidths rolls the per-height width factors. Runs of equal values make
// the walls bulge in coherent bands.
func (w *ravineWalk) fillWidths(r *rng.Random) {
	v := float32(1)
	for i := range w.widths {
		if i == 0 || r.Intn(3) == 0 {
			v = 1 + r.Float32()*r.Float32()
		}
		w.widths[i] = v * v
	}
}

func (w *ravineWalk) tryCarve(p Primer, sizeH, sizeV float64) {
	c := w.target.Center()
	cx, cy, cz := float64(c.X), float64(c.Y), float64(c.Z)
	if w.x < cx-cube.Size-sizeH*2 || w.y < cy-cube.Size-sizeV*2 || w.z < cz-cube.Size-sizeH*2 ||
		w.x > cx+cube.Size+sizeH*2 || w.y > cy+cube.Size+sizeV*2 || w.z > cz+cube.Size+sizeH*2 {
		return
	}

	o := w.target.MinBlock()
	b := box{
		minX: int(math.Floor(w.x-sizeH)) - o.X - 1,
		maxX: int(math.Floor(w.x+sizeH)) - o.X + 1,
		minY: int(math.Floor(w.y-sizeV)) - o.Y - 1,
		maxY: int(math.Floor(w.y+sizeV)) - o.Y + 1,
		minZ: int(math.Floor(w.z-sizeH)) - o.Z - 1,
		maxZ: int(math.Floor(w.z+sizeH)) - o.Z + 1,
	}
	if b.maxX <= 0 || b.minX >= cube.Size || b.maxY <= 0 || b.minY >= cube.Size || b.maxZ <= 0 || b.minZ >= cube.Size {
		return
	}
	b.clamp()

	if scanWalls(p, b, isWater) {
		return
	}
	w.carve(p, sizeH, sizeV, b)
}

func (w *ravineWalk) carve(p Primer, sizeH, sizeV float64, b box) {
	t := w.target
	for lx := b.minX; lx < b.maxX; lx++ {
		distX := normalizedDistance(t.X, lx, w.x, sizeH)
		for lz := b.minZ; lz < b.maxZ; lz++ {
			distZ := normalizedDistance(t.Z, lz, w.z, sizeH)
			xz := distX*distX + distZ*distZ
			if xz >= 1 {
				continue
			}
			for ly := b.minY; ly < b.maxY; ly++ {
				distY := normalizedDistance(t.Y, ly, w.y, sizeV)
				// Dividing by the stretch makes the shape taller than its
				// radii, but the unstretched box above still bounds it, so
				// ravines end in a floor rather than a point.
				width := float64(w.widths[(ly+t.Y*cube.Size)&(widthFactorPeriod-1)])
				if xz*width+distY*distY/stretchYFactor >= 1 {
					continue
				}
				if !replaceable(p.Get(lx, ly, lz)) {
					continue
				}
				if cube.LocalToBlock(t.Y, ly) < w.lava {
					p.Set(lx, ly, lz, block.FlowingLava)
				} else {
					p.Set(lx, ly, lz, block.Air)
				}
			}
		}
	}
}
