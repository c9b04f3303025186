package populate

import (
	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/biome"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/rng"
)

// Snow freezes still water and lays snow on the surface of cold columns.
// It uses no randomness.
type Snow struct {
	Veto Veto
}

// Populate covers every column of the population area.
func (s *Snow) Populate(w World, _ *rng.Random, pos cube.Pos, _ *biome.Biome) {
	if !s.Veto.allowed(StageSnow, pos) {
		return
	}
	for dx := range cube.Size {
		for dz := range cube.Size {
			above, ok := SurfaceForCube(w, pos, dx+cube.Size/2, dz+cube.Size/2, Blocking)
			if !ok {
				continue
			}
			if b := w.BiomeAt(above.X, above.Z); b == nil || !b.Snowy() {
				continue
			}
			top := above.Add(0, -1, 0)
			switch t := w.Block(top); {
			case t == block.Water:
				w.SetBlock(top, block.Ice)
			case t.IsOpaque() && w.Block(above).IsAir():
				w.SetBlock(above, block.SnowLayer)
			}
		}
	}
}
