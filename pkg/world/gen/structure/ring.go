package structure

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// RingOptions configures ring placement. Distance is in cubes.
type RingOptions struct {
	Count    int
	Distance float64
	Spread   int
	// SpacingBits aligns X/Z anchors to multiples of 1<<SpacingBits cubes.
	SpacingBits  int
	SpacingBitsY int
	MinCubeY     int
	MaxCubeY     int
	// Alternate scatters anchors over a half sphere instead of a flat ring.
	Alternate bool
	// SearchRadius is the biome snapping radius in blocks.
	SearchRadius int
	Allowed      biome.Set
}

// StrongholdOptions returns the classic stronghold layout for a world whose
// terrain is centred on baseHeight with the given variation.
func StrongholdOptions(baseHeight, variation float64, alternate bool) RingOptions {
	return RingOptions{
		Count:        128,
		Distance:     32,
		Spread:       3,
		SpacingBits:  2,
		SpacingBitsY: 0,
		MinCubeY:     cube.BlockToCube(int(math.Floor(baseHeight - variation))),
		MaxCubeY:     blockCeilToCube(int(math.Ceil(baseHeight))),
		Alternate:    alternate,
		SearchRadius: 112,
		Allowed:      biome.Where(func(b *biome.Biome) bool { return b.BaseHeight > 0 }),
	}
}

func blockCeilToCube(v int) int { return -((-v) >> 4) }

// RingPlacer distributes a fixed number of anchors on concentric rings
// around the origin. Anchors are computed once, on first use.
type RingPlacer struct {
	seed     int64
	opts     RingOptions
	provider biome.Provider

	once    sync.Once
	anchors []cube.Pos
	index   map[cube.Pos]struct{}
}

// NewRingPlacer creates a placer. No work happens until the first query.
func NewRingPlacer(seed int64, provider biome.Provider, opts RingOptions) *RingPlacer {
	if opts.Count < 1 {
		opts.Count = 1
	}
	if opts.Spread < 1 {
		opts.Spread = 1
	}
	return &RingPlacer{seed: seed, opts: opts, provider: provider}
}

// Anchors returns a copy of every anchor in generation order.
func (p *RingPlacer) Anchors() []cube.Pos {
	p.once.Do(p.generate)
	out := make([]cube.Pos, len(p.anchors))
	copy(out, p.anchors)
	return out
}

// Nearest returns the centre of the anchor closest to pos.
func (p *RingPlacer) Nearest(pos cube.BlockPos) cube.BlockPos {
	p.once.Do(p.generate)
	from := mgl64.Vec3{float64(pos.X), float64(pos.Y), float64(pos.Z)}

	var best cube.BlockPos
	bestDist := math.MaxFloat64
	for _, a := range p.anchors {
		c := a.Center()
		d := mgl64.Vec3{float64(c.X), float64(c.Y), float64(c.Z)}.Sub(from)
		if dist := d.Dot(d); dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}

// CanSpawnAt reports whether pos is one of the anchors.
func (p *RingPlacer) CanSpawnAt(pos cube.Pos) bool {
	p.once.Do(p.generate)
	_, ok := p.index[pos]
	return ok
}

func (p *RingPlacer) generate() {
	o := p.opts
	r := rng.New(p.seed)
	p.anchors = make([]cube.Pos, o.Count)

	maskXZ := ^(1<<o.SpacingBits - 1)
	maskY := ^(1<<o.SpacingBitsY - 1)

	angle := r.Float64() * math.Pi * 2
	spread := o.Spread
	ring, step := 0, 0
	for i := range p.anchors {
		dist := 4*o.Distance + o.Distance*float64(ring)*6 + (r.Float64()-0.5)*o.Distance*2.5

		var cx, cy, cz int
		if o.Alternate {
			yAngle := -r.Float64() * math.Pi
			cx = int(math.Round(math.Cos(angle) * math.Cos(yAngle) * dist))
			cy = int(math.Round(math.Sin(yAngle)*dist)) + o.MaxCubeY
			cz = int(math.Round(math.Sin(angle) * math.Cos(yAngle) * dist))
		} else {
			cx = int(math.Round(math.Cos(angle) * dist))
			cy = r.IntRange(o.MinCubeY, o.MaxCubeY)
			cz = int(math.Round(math.Sin(angle) * dist))
		}

		centre := cube.Pos{X: cx, Z: cz}.Center()
		if bx, bz, ok := p.provider.FindNearestEligible(centre.X, centre.Z, o.SearchRadius, o.Allowed, r); ok {
			cx, cz = cube.BlockToCube(bx), cube.BlockToCube(bz)
		}

		p.anchors[i] = cube.Pos{X: cx & maskXZ, Y: cy & maskY, Z: cz & maskXZ}

		angle += math.Pi * 2 / float64(spread)
		step++
		if step == spread {
			ring++
			step = 0
			spread += 2 * spread / (ring + 1)
			spread = max(min(spread, o.Count-i), 1)
			angle += r.Float64() * math.Pi * 2
		}
	}

	p.index = make(map[cube.Pos]struct{}, len(p.anchors))
	for _, a := range p.anchors {
		p.index[a] = struct{}{}
	}
}
