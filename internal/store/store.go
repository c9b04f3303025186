// Package store persists generated cubes in zstd-compressed region files.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
)

// ErrNotFound is returned by LoadCube for cubes that were never saved.
var ErrNotFound = errors.New("cube not found")

// Store reads and writes region files under one directory. It is safe for
// concurrent use; writes to the same region are serialised.
type Store struct {
	dir string
	log *slog.Logger
	enc *zstd.Encoder
	dec *zstd.Decoder

	mu    sync.Mutex
	locks map[RegionPos]*sync.Mutex
}

// New creates a Store rooted at dir, creating it if needed.
func New(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Store{
		dir:   dir,
		log:   log,
		enc:   enc,
		dec:   dec,
		locks: make(map[RegionPos]*sync.Mutex),
	}, nil
}

// Close releases the compressors.
func (s *Store) Close() error {
	s.dec.Close()
	return s.enc.Close()
}

func (s *Store) regionLock(r RegionPos) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[r]
	if !ok {
		l = &sync.Mutex{}
		s.locks[r] = l
	}
	return l
}

func (s *Store) path(r RegionPos) string {
	return filepath.Join(s.dir, r.fileName())
}

// SaveCubes writes cubes into their region files, replacing earlier copies
// and keeping every other cube already stored in those regions.
func (s *Store) SaveCubes(cubes []*Cube) error {
	byRegion := make(map[RegionPos][]*Cube)
	for _, c := range cubes {
		r := RegionOf(c.Pos)
		byRegion[r] = append(byRegion[r], c)
	}
	for r, cs := range byRegion {
		if err := s.saveRegion(r, cs); err != nil {
			return fmt.Errorf("save region %v: %w", r, err)
		}
	}
	return nil
}

func (s *Store) saveRegion(r RegionPos, cubes []*Cube) error {
	l := s.regionLock(r)
	l.Lock()
	defer l.Unlock()

	path := s.path(r)
	reg, err := readRegion(path)
	if err != nil {
		return err
	}
	now := uint32(time.Now().Unix())
	for _, c := range cubes {
		raw, err := EncodeCube(c)
		if err != nil {
			return err
		}
		i := regionIndex(c.Pos)
		reg.payloads[i] = s.enc.EncodeAll(raw, nil)
		reg.timestamps[i] = now
	}
	if err := writeRegion(path, reg); err != nil {
		return err
	}
	s.log.Debug("saved region", "region", r, "cubes", len(cubes))
	return nil
}

// LoadCube reads one cube. It returns ErrNotFound if the cube was never saved.
func (s *Store) LoadCube(p cube.Pos) (*Cube, error) {
	r := RegionOf(p)
	l := s.regionLock(r)
	l.Lock()
	reg, err := readRegion(s.path(r))
	l.Unlock()
	if err != nil {
		return nil, err
	}

	payload := reg.payloads[regionIndex(p)]
	if payload == nil {
		return nil, fmt.Errorf("load cube %v: %w", p, ErrNotFound)
	}
	raw, err := s.dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress cube %v: %w", p, err)
	}
	c, err := DecodeCube(raw)
	if err != nil {
		return nil, err
	}
	if c.Pos != p {
		return nil, fmt.Errorf("load cube %v: %w: stored as %v", p, errCorruptRegion, c.Pos)
	}
	return c, nil
}

// Regions lists the regions present on disk.
func (s *Store) Regions() ([]RegionPos, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	var out []RegionPos
	for _, e := range entries {
		var r RegionPos
		if _, err := fmt.Sscanf(e.Name(), "r.%d.%d.%d.3dr", &r.X, &r.Y, &r.Z); err == nil && r.fileName() == e.Name() {
			out = append(out, r)
		}
	}
	return out, nil
}
