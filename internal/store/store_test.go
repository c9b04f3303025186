package store

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "cubes")
	s, err := New(dir, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func sampleCube(pos cube.Pos) *Cube {
	c := &Cube{Pos: pos, Primer: cube.NewPrimer(), Populated: true}
	c.Primer.Set(0, 0, 0, block.Stone)
	c.Primer.Set(15, 15, 15, block.Granite)
	c.Primer.Set(3, 7, 9, block.StainedClay(block.ColorRed))
	c.Primer.Set(4, 4, 4, block.State(300<<4|5))
	for i := range c.Biomes {
		c.Biomes[i] = byte(i % 40)
	}
	return c
}

func TestEncodeDecodeCube(t *testing.T) {
	in := sampleCube(cube.Pos{X: -3, Y: 12, Z: 7})
	raw, err := EncodeCube(in)
	if err != nil {
		t.Fatalf("EncodeCube: %v", err)
	}
	out, err := DecodeCube(raw)
	if err != nil {
		t.Fatalf("DecodeCube: %v", err)
	}
	if out.Pos != in.Pos {
		t.Errorf("Pos = %v, want %v", out.Pos, in.Pos)
	}
	if out.Primer.Blocks != in.Primer.Blocks {
		t.Error("blocks differ after round trip")
	}
	if out.Primer.Empty || !out.Populated {
		t.Errorf("flags: Empty=%v Populated=%v", out.Primer.Empty, out.Populated)
	}
	if out.Biomes != in.Biomes {
		t.Error("biomes differ after round trip")
	}
}

func TestDecodeCubeRejectsGarbage(t *testing.T) {
	if _, err := DecodeCube([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRegionOf(t *testing.T) {
	tests := []struct {
		pos  cube.Pos
		want RegionPos
	}{
		{cube.Pos{X: 0, Y: 0, Z: 0}, RegionPos{0, 0, 0}},
		{cube.Pos{X: 7, Y: 7, Z: 7}, RegionPos{0, 0, 0}},
		{cube.Pos{X: 8, Y: -1, Z: -8}, RegionPos{1, -1, -1}},
		{cube.Pos{X: -9, Y: 16, Z: 3}, RegionPos{-2, 2, 0}},
	}
	for _, tt := range tests {
		if got := RegionOf(tt.pos); got != tt.want {
			t.Errorf("RegionOf(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	s, _ := newTestStore(t)
	cubes := []*Cube{
		sampleCube(cube.Pos{X: 0, Y: 0, Z: 0}),
		sampleCube(cube.Pos{X: -1, Y: 2, Z: 9}),
		{Pos: cube.Pos{X: 1, Y: 0, Z: 0}, Primer: cube.NewPrimer()},
	}
	if err := s.SaveCubes(cubes); err != nil {
		t.Fatalf("SaveCubes: %v", err)
	}
	for _, want := range cubes {
		got, err := s.LoadCube(want.Pos)
		if err != nil {
			t.Fatalf("LoadCube(%v): %v", want.Pos, err)
		}
		if got.Primer.Blocks != want.Primer.Blocks || got.Primer.Empty != want.Primer.Empty {
			t.Errorf("cube %v differs", want.Pos)
		}
	}

	if _, err := s.LoadCube(cube.Pos{X: 2}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing cube in a saved region: %v", err)
	}
	if _, err := s.LoadCube(cube.Pos{X: 100}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing region: %v", err)
	}
}

func TestSaveMergesRegion(t *testing.T) {
	s, _ := newTestStore(t)
	a := sampleCube(cube.Pos{X: 1, Y: 1, Z: 1})
	b := sampleCube(cube.Pos{X: 2, Y: 1, Z: 1})
	if err := s.SaveCubes([]*Cube{a}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveCubes([]*Cube{b}); err != nil {
		t.Fatal(err)
	}

	a2 := &Cube{Pos: a.Pos, Primer: cube.NewPrimer()}
	a2.Primer.Set(1, 1, 1, block.Dirt)
	if err := s.SaveCubes([]*Cube{a2}); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadCube(a.Pos)
	if err != nil {
		t.Fatal(err)
	}
	if got.Primer.Blocks != a2.Primer.Blocks || got.Populated {
		t.Error("resaved cube was not replaced")
	}
	if _, err := s.LoadCube(b.Pos); err != nil {
		t.Errorf("earlier cube lost after merge: %v", err)
	}
}

func TestRegions(t *testing.T) {
	s, dir := newTestStore(t)
	if err := s.SaveCubes([]*Cube{sampleCube(cube.Pos{}), sampleCube(cube.Pos{X: -8, Y: 9})}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	rs, err := s.Regions()
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != 2 {
		t.Fatalf("Regions() = %v, want 2 entries", rs)
	}
}

func TestCorruptRegion(t *testing.T) {
	s, dir := newTestStore(t)
	path := filepath.Join(dir, RegionPos{}.fileName())
	if err := os.WriteFile(path, []byte("short"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadCube(cube.Pos{}); !errors.Is(err, errCorruptRegion) {
		t.Errorf("LoadCube on a short file = %v", err)
	}

	header := make([]byte, sectorSize)
	header[3] = 0x01 // sector 0, count 1: overlaps the header
	if err := os.WriteFile(path, header, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadCube(cube.Pos{}); !errors.Is(err, errCorruptRegion) {
		t.Errorf("LoadCube on a bad location = %v", err)
	}
}
