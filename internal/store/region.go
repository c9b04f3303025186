package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
)

const (
	// RegionSize is the edge length of a region in cubes.
	RegionSize = 8

	regionCubes     = RegionSize * RegionSize * RegionSize
	sectorSize      = 4096
	headerSectors   = 1 // 512 locations + 512 timestamps fit one sector
	compressionZstd = 4
	maxSectors      = 0xFF
)

// RegionPos identifies a region file.
type RegionPos struct {
	X, Y, Z int
}

// RegionOf returns the region that holds the cube.
func RegionOf(p cube.Pos) RegionPos {
	return RegionPos{
		X: cube.FloorDiv(p.X, RegionSize),
		Y: cube.FloorDiv(p.Y, RegionSize),
		Z: cube.FloorDiv(p.Z, RegionSize),
	}
}

func (r RegionPos) fileName() string {
	return fmt.Sprintf("r.%d.%d.%d.3dr", r.X, r.Y, r.Z)
}

func regionIndex(p cube.Pos) int {
	x := cube.FloorMod(p.X, RegionSize)
	y := cube.FloorMod(p.Y, RegionSize)
	z := cube.FloorMod(p.Z, RegionSize)
	return x + z*RegionSize + y*RegionSize*RegionSize
}

// region is the decoded content of a region file: compressed cube payloads
// and their timestamps by region index.
type region struct {
	payloads   [regionCubes][]byte
	timestamps [regionCubes]uint32
}

var errCorruptRegion = errors.New("corrupt region file")

// readRegion loads a region file. A missing file yields an empty region.
func readRegion(path string) (*region, error) {
	r := &region{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("read region: %w", err)
	}
	if len(data) < headerSectors*sectorSize {
		return nil, fmt.Errorf("%w: %s: short header", errCorruptRegion, path)
	}

	for i := range regionCubes {
		loc := binary.BigEndian.Uint32(data[i*4:])
		if loc == 0 {
			continue
		}
		start := int(loc>>8) * sectorSize
		count := int(loc&0xFF) * sectorSize
		if start < headerSectors*sectorSize || start+count > len(data) || count < 5 {
			return nil, fmt.Errorf("%w: %s: cube %d out of bounds", errCorruptRegion, path, i)
		}
		n := int(binary.BigEndian.Uint32(data[start:]))
		if n < 1 || 4+n > count {
			return nil, fmt.Errorf("%w: %s: cube %d bad length %d", errCorruptRegion, path, i, n)
		}
		if data[start+4] != compressionZstd {
			return nil, fmt.Errorf("%w: %s: cube %d compression %d", errCorruptRegion, path, i, data[start+4])
		}
		r.payloads[i] = data[start+5 : start+4+n]
		r.timestamps[i] = binary.BigEndian.Uint32(data[regionCubes*4+i*4:])
	}
	return r, nil
}

// writeRegion writes r to path atomically through a temp file.
func writeRegion(path string, r *region) error {
	header := make([]byte, headerSectors*sectorSize)
	var body []byte
	sector := uint32(headerSectors)

	for i, p := range r.payloads {
		if p == nil {
			continue
		}
		// length(4) + compression(1) + payload, padded to a sector boundary
		payloadLen := uint32(len(p)) + 1
		total := 4 + payloadLen
		sectors := (total + sectorSize - 1) / sectorSize
		if sectors > maxSectors {
			return fmt.Errorf("cube %d needs %d sectors, limit %d", i, sectors, maxSectors)
		}

		binary.BigEndian.PutUint32(header[i*4:], sector<<8|sectors)
		binary.BigEndian.PutUint32(header[regionCubes*4+i*4:], r.timestamps[i])

		var head [5]byte
		binary.BigEndian.PutUint32(head[:4], payloadLen)
		head[4] = compressionZstd
		body = append(body, head[:]...)
		body = append(body, p...)
		body = append(body, make([]byte, int(sectors*sectorSize-total))...)

		sector += sectors
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp region file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmp)
	}()

	if _, err := f.Write(header); err != nil {
		return fmt.Errorf("write region header: %w", err)
	}
	if _, err := f.Write(body); err != nil {
		return fmt.Errorf("write cube data: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close region file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename region file: %w", err)
	}
	return nil
}
