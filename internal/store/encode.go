package store

import (
	"bytes"
	"fmt"

	"github.com/OCharnyshevich/cubicgen/pkg/world/block"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/nbt"
)

const (
	cubeVolume = cube.Size * cube.Size * cube.Size
	columnArea = cube.Size * cube.Size
)

// Cube is one stored cube: its blocks, the biome of every column and
// whether population has run over it.
type Cube struct {
	Pos       cube.Pos
	Primer    *cube.Primer
	Biomes    [columnArea]byte // index z<<4 | x
	Populated bool
}

// EncodeCube serialises c as an uncompressed NBT compound. Blocks keep the
// primer index order x<<8 | y<<4 | z; IDs above 255 spill into Add nibbles.
func EncodeCube(c *Cube) ([]byte, error) {
	blocks := make([]byte, cubeVolume)
	data := make([]byte, cubeVolume/2)
	var add []byte

	for i, s := range c.Primer.Blocks {
		id := s.ID()
		blocks[i] = byte(id)
		setNibble(data, i, byte(s.Meta()))
		if id > 255 {
			if add == nil {
				add = make([]byte, cubeVolume/2)
			}
			setNibble(add, i, byte(id>>8))
		}
	}

	var buf bytes.Buffer
	w := nbt.NewWriter(&buf)
	w.BeginCompound("")
	w.BeginCompound("Cube")
	w.WriteInt("X", int32(c.Pos.X))
	w.WriteInt("Y", int32(c.Pos.Y))
	w.WriteInt("Z", int32(c.Pos.Z))
	w.WriteTagByte("Populated", boolByte(c.Populated))
	w.WriteTagByte("Empty", boolByte(c.Primer.Empty))
	w.WriteByteArray("Blocks", blocks)
	w.WriteByteArray("Data", data)
	if add != nil {
		w.WriteByteArray("Add", add)
	}
	w.WriteByteArray("Biomes", c.Biomes[:])
	w.EndCompound()
	w.EndCompound()

	if w.Err() != nil {
		return nil, fmt.Errorf("encode cube %v: %w", c.Pos, w.Err())
	}
	return buf.Bytes(), nil
}

// DecodeCube parses the output of EncodeCube.
func DecodeCube(b []byte) (*Cube, error) {
	_, root, err := nbt.Read(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode cube: %w", err)
	}
	level, ok := root.Compound("Cube")
	if !ok {
		return nil, fmt.Errorf("decode cube: %w: missing Cube compound", nbt.ErrMalformed)
	}

	x, okX := level.Int("X")
	y, okY := level.Int("Y")
	z, okZ := level.Int("Z")
	blocks, okB := level.ByteArray("Blocks")
	data, okD := level.ByteArray("Data")
	if !okX || !okY || !okZ || !okB || !okD || len(blocks) != cubeVolume || len(data) != cubeVolume/2 {
		return nil, fmt.Errorf("decode cube: %w: missing or short fields", nbt.ErrMalformed)
	}
	add, hasAdd := level.ByteArray("Add")
	if hasAdd && len(add) != cubeVolume/2 {
		return nil, fmt.Errorf("decode cube: %w: short Add array", nbt.ErrMalformed)
	}

	c := &Cube{
		Pos:    cube.Pos{X: int(x), Y: int(y), Z: int(z)},
		Primer: cube.NewPrimer(),
	}
	for i := range c.Primer.Blocks {
		id := int(blocks[i])
		if hasAdd {
			id |= int(getNibble(add, i)) << 8
		}
		c.Primer.Blocks[i] = block.State(id<<4 | int(getNibble(data, i)))
	}
	if e, ok := level.Byte("Empty"); ok {
		c.Primer.Empty = e != 0
	} else {
		c.Primer.Empty = c.Primer.Count(block.Air) == cubeVolume
	}
	if p, ok := level.Byte("Populated"); ok {
		c.Populated = p != 0
	}
	if bio, ok := level.ByteArray("Biomes"); ok && len(bio) == columnArea {
		copy(c.Biomes[:], bio)
	}
	return c, nil
}

func setNibble(arr []byte, index int, value byte) {
	i := index >> 1
	if index&1 == 0 {
		arr[i] = (arr[i] & 0xF0) | (value & 0x0F)
	} else {
		arr[i] = (arr[i] & 0x0F) | ((value & 0x0F) << 4)
	}
}

func getNibble(arr []byte, index int) byte {
	b := arr[index>>1]
	if index&1 == 0 {
		return b & 0x0F
	}
	return b >> 4
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
