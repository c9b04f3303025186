package nbt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrMalformed is wrapped by every decoding failure other than I/O errors.
var ErrMalformed = errors.New("malformed nbt")

const (
	maxDepth     = 512
	maxArrayLen  = 1 << 24
	maxListCount = 1 << 20
)

// Compound is a decoded compound tag. Values are byte, int16, int32,
// int64, float32, float64, []byte, string, []any, Compound or []int32.
type Compound map[string]any

// Read decodes one root compound and returns its name.
func Read(r io.Reader) (string, Compound, error) {
	d := decoder{r: r}
	tag, err := d.u8()
	if err != nil {
		return "", nil, err
	}
	if tag != TagCompound {
		return "", nil, fmt.Errorf("%w: root tag %d is not a compound", ErrMalformed, tag)
	}
	name, err := d.str()
	if err != nil {
		return "", nil, err
	}
	c, err := d.compound(0)
	return name, c, err
}

type decoder struct {
	r       io.Reader
	scratch [8]byte
}

func (d *decoder) fill(n int) ([]byte, error) {
	if _, err := io.ReadFull(d.r, d.scratch[:n]); err != nil {
		return nil, fmt.Errorf("read nbt: %w", err)
	}
	return d.scratch[:n], nil
}

func (d *decoder) u8() (byte, error) {
	b, err := d.fill(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) u16() (uint16, error) {
	b, err := d.fill(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.fill(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.fill(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (d *decoder) str() (string, error) {
	n, err := d.u16()
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		return "", fmt.Errorf("read nbt string: %w", err)
	}
	return string(b), nil
}

func (d *decoder) length(limit int) (int, error) {
	v, err := d.u32()
	if err != nil {
		return 0, err
	}
	n := int32(v)
	if n < 0 || int(n) > limit {
		return 0, fmt.Errorf("%w: length %d", ErrMalformed, n)
	}
	return int(n), nil
}

func (d *decoder) compound(depth int) (Compound, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrMalformed, maxDepth)
	}
	c := Compound{}
	for {
		tag, err := d.u8()
		if err != nil {
			return nil, err
		}
		if tag == TagEnd {
			return c, nil
		}
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		v, err := d.payload(tag, depth+1)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", name, err)
		}
		c[name] = v
	}
}

func (d *decoder) payload(tag byte, depth int) (any, error) {
	switch tag {
	case TagByte:
		return d.u8()
	case TagShort:
		v, err := d.u16()
		return int16(v), err
	case TagInt:
		v, err := d.u32()
		return int32(v), err
	case TagLong:
		v, err := d.u64()
		return int64(v), err
	case TagFloat:
		v, err := d.u32()
		return math.Float32frombits(v), err
	case TagDouble:
		v, err := d.u64()
		return math.Float64frombits(v), err
	case TagByteArray:
		n, err := d.length(maxArrayLen)
		if err != nil {
			return nil, err
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(d.r, b); err != nil {
			return nil, fmt.Errorf("read nbt byte array: %w", err)
		}
		return b, nil
	case TagString:
		return d.str()
	case TagList:
		elem, err := d.u8()
		if err != nil {
			return nil, err
		}
		n, err := d.length(maxListCount)
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, n)
		for range n {
			v, err := d.payload(elem, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case TagCompound:
		return d.compound(depth)
	case TagIntArray:
		n, err := d.length(maxArrayLen)
		if err != nil {
			return nil, err
		}
		out := make([]int32, n)
		for i := range out {
			v, err := d.u32()
			if err != nil {
				return nil, err
			}
			out[i] = int32(v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown tag %d", ErrMalformed, tag)
}

// Int returns an int tag.
func (c Compound) Int(name string) (int32, bool) {
	v, ok := c[name].(int32)
	return v, ok
}

// Long returns a long tag.
func (c Compound) Long(name string) (int64, bool) {
	v, ok := c[name].(int64)
	return v, ok
}

// Byte returns a byte tag.
func (c Compound) Byte(name string) (byte, bool) {
	v, ok := c[name].(byte)
	return v, ok
}

// ByteArray returns a byte array tag.
func (c Compound) ByteArray(name string) ([]byte, bool) {
	v, ok := c[name].([]byte)
	return v, ok
}

// IntArray returns an int array tag.
func (c Compound) IntArray(name string) ([]int32, bool) {
	v, ok := c[name].([]int32)
	return v, ok
}

// String returns a string tag.
func (c Compound) String(name string) (string, bool) {
	v, ok := c[name].(string)
	return v, ok
}

// Compound returns a nested compound.
func (c Compound) Compound(name string) (Compound, bool) {
	v, ok := c[name].(Compound)
	return v, ok
}
