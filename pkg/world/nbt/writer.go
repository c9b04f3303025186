// Package nbt reads and writes the subset of the Named Binary Tag format
// used for cube records: big-endian numbers, byte and int arrays, strings,
// lists and compounds.
package nbt

import (
	"encoding/binary"
	"io"
	"math"
)

// Tag type IDs.
const (
	TagEnd       byte = 0
	TagByte      byte = 1
	TagShort     byte = 2
	TagInt       byte = 3
	TagLong      byte = 4
	TagFloat     byte = 5
	TagDouble    byte = 6
	TagByteArray byte = 7
	TagString    byte = 8
	TagList      byte = 9
	TagCompound  byte = 10
	TagIntArray  byte = 11
)

// Writer emits tags to an io.Writer. The first write error sticks: later
// calls do nothing and Err reports it.
type Writer struct {
	w       io.Writer
	scratch [8]byte
	err     error
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first write error.
func (w *Writer) Err() error { return w.err }

func (w *Writer) raw(p []byte) {
	if w.err == nil {
		_, w.err = w.w.Write(p)
	}
}

func (w *Writer) u8(v byte) {
	w.scratch[0] = v
	w.raw(w.scratch[:1])
}

func (w *Writer) u16(v uint16) {
	binary.BigEndian.PutUint16(w.scratch[:2], v)
	w.raw(w.scratch[:2])
}

func (w *Writer) u32(v uint32) {
	binary.BigEndian.PutUint32(w.scratch[:4], v)
	w.raw(w.scratch[:4])
}

func (w *Writer) u64(v uint64) {
	binary.BigEndian.PutUint64(w.scratch[:8], v)
	w.raw(w.scratch[:8])
}

func (w *Writer) str(s string) {
	w.u16(uint16(len(s)))
	w.raw([]byte(s))
}

func (w *Writer) header(tag byte, name string) {
	w.u8(tag)
	w.str(name)
}

// BeginCompound opens a compound. Use "" for the root and list elements.
func (w *Writer) BeginCompound(name string) { w.header(TagCompound, name) }

// EndCompound closes the innermost compound.
func (w *Writer) EndCompound() { w.u8(TagEnd) }

// WriteTagByte writes a byte tag.
func (w *Writer) WriteTagByte(name string, v byte) {
	w.header(TagByte, name)
	w.u8(v)
}

// WriteShort writes a short tag.
func (w *Writer) WriteShort(name string, v int16) {
	w.header(TagShort, name)
	w.u16(uint16(v))
}

// WriteInt writes an int tag.
func (w *Writer) WriteInt(name string, v int32) {
	w.header(TagInt, name)
	w.u32(uint32(v))
}

// WriteLong writes a long tag.
func (w *Writer) WriteLong(name string, v int64) {
	w.header(TagLong, name)
	w.u64(uint64(v))
}

// WriteDouble writes a double tag.
func (w *Writer) WriteDouble(name string, v float64) {
	w.header(TagDouble, name)
	w.u64(math.Float64bits(v))
}

// WriteByteArray writes a byte array tag.
func (w *Writer) WriteByteArray(name string, v []byte) {
	w.header(TagByteArray, name)
	w.u32(uint32(len(v)))
	w.raw(v)
}

// WriteString writes a string tag.
func (w *Writer) WriteString(name, v string) {
	w.header(TagString, name)
	w.str(v)
}

// WriteIntArray writes an int array tag.
func (w *Writer) WriteIntArray(name string, v []int32) {
	w.header(TagIntArray, name)
	w.u32(uint32(len(v)))
	for _, x := range v {
		w.u32(uint32(x))
	}
}

// BeginList writes a list header. count element payloads must follow.
func (w *Writer) BeginList(name string, elemType byte, count int32) {
	w.header(TagList, name)
	w.u8(elemType)
	w.u32(uint32(count))
}
