// Package job generates a box of cubes in parallel and saves them region
// by region.
package job

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/cubicgen/internal/store"
	"github.com/OCharnyshevich/cubicgen/internal/world"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
)

// NewGenerator builds one generator per worker; generators are not shared.
type NewGenerator func() world.Generator

// Request describes the cubes to generate.
type Request struct {
	Box      cube.AABB
	Populate bool
	Workers  int
}

// Summary reports what a run produced.
type Summary struct {
	Regions   int
	Cubes     int
	Empty     int
	Overrides int
	Elapsed   time.Duration
}

// Run generates every cube in req.Box. Each worker owns a generator and a
// world and processes whole regions, so no two workers write the same
// region file.
func Run(ctx context.Context, req Request, newGen NewGenerator, st *store.Store, log *slog.Logger) (Summary, error) {
	start := time.Now()
	regions := regionsIn(req.Box)

	jobs := make(chan store.RegionPos)
	var cubes, empty, overrides atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for _, r := range regions {
			select {
			case jobs <- r:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for i := range max(req.Workers, 1) {
		g.Go(func() error {
			w := world.New(newGen(), log.With("worker", i))
			for r := range jobs {
				res, err := runRegion(ctx, w, r, req)
				if err != nil {
					return err
				}
				if err := st.SaveCubes(res.cubes); err != nil {
					return err
				}
				cubes.Add(int64(len(res.cubes)))
				empty.Add(int64(res.empty))
				overrides.Add(int64(res.overrides))
				log.Info("region done", "worker", i, "region", r, "cubes", len(res.cubes))
				w.Unload(func(cube.Pos) bool { return false })
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("generate: %w", err)
	}

	return Summary{
		Regions:   len(regions),
		Cubes:     int(cubes.Load()),
		Empty:     int(empty.Load()),
		Overrides: int(overrides.Load()),
		Elapsed:   time.Since(start),
	}, nil
}

type regionResult struct {
	cubes     []*store.Cube
	empty     int
	overrides int
}

func runRegion(ctx context.Context, w *world.World, r store.RegionPos, req Request) (regionResult, error) {
	var res regionResult
	for _, p := range cubesIn(r, req.Box) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if req.Populate {
			w.PopulateAround(p)
		}
		c := &store.Cube{Pos: p, Primer: w.Cube(p), Populated: req.Populate}
		o := p.MinBlock()
		for x := range cube.Size {
			for z := range cube.Size {
				c.Biomes[z<<4|x] = byte(w.BiomeAt(o.X+x, o.Z+z).ID)
			}
		}
		if c.Primer.Empty {
			res.empty++
		}
		res.cubes = append(res.cubes, c)
	}
	res.overrides = w.Overrides()
	return res, nil
}

// regionsIn lists the regions overlapping the box in a stable order.
func regionsIn(b cube.AABB) []store.RegionPos {
	lo := store.RegionOf(cube.Pos{X: b.MinX, Y: b.MinY, Z: b.MinZ})
	hi := store.RegionOf(cube.Pos{X: b.MaxX, Y: b.MaxY, Z: b.MaxZ})
	var out []store.RegionPos
	for x := lo.X; x <= hi.X; x++ {
		for z := lo.Z; z <= hi.Z; z++ {
			for y := lo.Y; y <= hi.Y; y++ {
				out = append(out, store.RegionPos{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

// cubesIn lists the cubes of region r inside the box, lowest layer first.
func cubesIn(r store.RegionPos, b cube.AABB) []cube.Pos {
	var out []cube.Pos
	for x := r.X * store.RegionSize; x < (r.X+1)*store.RegionSize; x++ {
		for z := r.Z * store.RegionSize; z < (r.Z+1)*store.RegionSize; z++ {
			for y := r.Y * store.RegionSize; y < (r.Y+1)*store.RegionSize; y++ {
				p := cube.Pos{X: x, Y: y, Z: z}
				if b.Contains(p) {
					out = append(out, p)
				}
			}
		}
	}
	slices.SortStableFunc(out, func(a, b cube.Pos) int { return a.Y - b.Y })
	return out
}
