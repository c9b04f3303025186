// Package rng provides the deterministic random sources used by generation.
//
// Random reproduces the 48-bit linear congruential generator that world
// seeds are traditionally fed to, so a given seed yields the same
// structure layout as other generators built on it.
package rng

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

const (
	multiplier = 0x5DEECE66D
	addend     = 0xB
	mask48     = (1 << 48) - 1
)

// Random is a seeded pseudo-random generator. Not safe for concurrent use.
type Random struct {
	seed int64
}

// New returns a Random seeded with seed.
func New(seed int64) *Random {
	r := &Random{}
	r.SetSeed(seed)
	return r
}

// SetSeed resets the generator state.
func (r *Random) SetSeed(seed int64) {
	r.seed = (seed ^ multiplier) & mask48
}

func (r *Random) next(bits uint) int32 {
	r.seed = (r.seed*multiplier + addend) & mask48
	return int32(r.seed >> (48 - bits))
}

// Int returns a uniformly distributed 32-bit value.
func (r *Random) Int() int32 { return r.next(32) }

// Intn returns a value in [0, n). It panics if n <= 0.
func (r *Random) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn argument must be positive")
	}
	bound := int32(n)
	if bound&-bound == bound {
		return int((int64(bound) * int64(r.next(31))) >> 31)
	}
	for {
		bits := r.next(31)
		val := bits % bound
		if bits-val+(bound-1) >= 0 {
			return int(val)
		}
	}
}

// IntRange returns a value in [min, max]; min is returned when max <= min.
func (r *Random) IntRange(min, max int) int {
	if min >= max {
		return min
	}
	return r.Intn(max-min+1) + min
}

// Int64 returns a uniformly distributed 64-bit value.
func (r *Random) Int64() int64 {
	return int64(r.next(32))<<32 + int64(r.next(32))
}

// Float32 returns a value in [0, 1).
func (r *Random) Float32() float32 {
	return float32(r.next(24)) / float32(1<<24)
}

// Float64 returns a value in [0, 1).
func (r *Random) Float64() float64 {
	return float64(int64(r.next(26))<<27+int64(r.next(27))) * (1.0 / float64(int64(1)<<53))
}

// Bool returns a random boolean.
func (r *Random) Bool() bool { return r.next(1) != 0 }

// ForCell seeds a generator for a horizontal grid cell. The coefficients are
// the classic per-chunk mixing constants.
func ForCell(worldSeed int64, cx, cz int, salt int64) *Random {
	return New(int64(cx)*341873128712 + int64(cz)*132897987541 + worldSeed + salt)
}

// Hash mixes a world seed, a 3-D position and a salt into a 64-bit value
// with xxHash. It is stable across platforms.
func Hash(worldSeed int64, x, y, z int, salt uint64) uint64 {
	var buf [40]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(worldSeed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(x)))
	binary.LittleEndian.PutUint64(buf[16:], uint64(int64(y)))
	binary.LittleEndian.PutUint64(buf[24:], uint64(int64(z)))
	binary.LittleEndian.PutUint64(buf[32:], salt)
	return xxhash.Sum64(buf[:])
}

// ForCube seeds a generator for population of one cube.
func ForCube(worldSeed int64, x, y, z int, salt uint64) *Random {
	return New(int64(Hash(worldSeed, x, y, z, salt)))
}

// FoldSeed folds a 64-bit seed into 32 bits by XOR-ing its halves.
func FoldSeed(seed int64) int32 {
	return int32(uint32(seed) ^ uint32(uint64(seed)>>32))
}

