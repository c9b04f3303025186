package noise

// Box is a half-open block range [Min, Max) on each axis.
type Box struct {
	MinX, MinY, MinZ int
	MaxX, MaxY, MaxZ int
}

// Step is the spacing between sampled grid points on each axis. Each
// extent of the box must be a multiple of the matching step.
type Step struct{ X, Y, Z int }

// Visitor receives an interpolated value and its gradient per block.
type Visitor func(x, y, z int, dx, dy, dz, v float64)

// ForEachScaled samples n on a coarse grid spanning the box (corners
// included) and visits every block with trilinearly interpolated value
// and the gradient of that interpolation, in blocks.
func ForEachScaled(n Node, box Box, step Step, visit Visitor) {
	nx := (box.MaxX-box.MinX)/step.X + 1
	ny := (box.MaxY-box.MinY)/step.Y + 1
	nz := (box.MaxZ-box.MinZ)/step.Z + 1

	grid := make([]float64, nx*ny*nz)
	at := func(i, j, k int) float64 { return grid[(i*ny+j)*nz+k] }
	for i := range nx {
		for j := range ny {
			for k := range nz {
				grid[(i*ny+j)*nz+k] = n.At(box.MinX+i*step.X, box.MinY+j*step.Y, box.MinZ+k*step.Z)
			}
		}
	}

	sx, sy, sz := float64(step.X), float64(step.Y), float64(step.Z)
	for i := 0; i < nx-1; i++ {
		for j := 0; j < ny-1; j++ {
			for k := 0; k < nz-1; k++ {
				v000, v100 := at(i, j, k), at(i+1, j, k)
				v010, v110 := at(i, j+1, k), at(i+1, j+1, k)
				v001, v101 := at(i, j, k+1), at(i+1, j, k+1)
				v011, v111 := at(i, j+1, k+1), at(i+1, j+1, k+1)

				for lx := range step.X {
					tx := float64(lx) / sx
					for ly := range step.Y {
						ty := float64(ly) / sy
						for lz := range step.Z {
							tz := float64(lz) / sz

							// interpolate along x first, then y, then z
							x00 := v000 + tx*(v100-v000)
							x10 := v010 + tx*(v110-v010)
							x01 := v001 + tx*(v101-v001)
							x11 := v011 + tx*(v111-v011)
							y0 := x00 + ty*(x10-x00)
							y1 := x01 + ty*(x11-x01)
							v := y0 + tz*(y1-y0)

							dx := ((v100-v000)*(1-ty)*(1-tz) + (v110-v010)*ty*(1-tz) +
								(v101-v001)*(1-ty)*tz + (v111-v011)*ty*tz) / sx
							dy := ((x10-x00)*(1-tz) + (x11-x01)*tz) / sy
							dz := (y1 - y0) / sz

							visit(box.MinX+i*step.X+lx, box.MinY+j*step.Y+ly, box.MinZ+k*step.Z+lz, dx, dy, dz, v)
						}
					}
				}
			}
		}
	}
}
