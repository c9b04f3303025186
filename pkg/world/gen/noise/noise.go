// Package noise builds composable scalar fields over integer block
// coordinates. Fields are pure except for the memoizing decorators, whose
// caches are owned by the field and must not be shared across goroutines.
package noise

import (
	"math"

	"github.com/OCharnyshevich/cubicgen/pkg/world/gen/cache"
)

// Node maps a block coordinate to a value.
type Node interface {
	At(x, y, z int) float64
}

// Func adapts a plain function to Node.
type Func func(x, y, z int) float64

// At calls f.
func (f Func) At(x, y, z int) float64 { return f(x, y, z) }

// Field wraps a Node with chainable combinators.
type Field struct {
	Node
}

// Of wraps n.
func Of(n Node) Field {
	if f, ok := n.(Field); ok {
		return f
	}
	return Field{Node: n}
}

// Const returns a field with the same value everywhere.
func Const(v float64) Field {
	return Field{Func(func(_, _, _ int) float64 { return v })}
}

// Add returns f + o.
func (f Field) Add(o Node) Field {
	return Field{Func(func(x, y, z int) float64 { return f.At(x, y, z) + o.At(x, y, z) })}
}

// Sub returns f - o.
func (f Field) Sub(o Node) Field {
	return Field{Func(func(x, y, z int) float64 { return f.At(x, y, z) - o.At(x, y, z) })}
}

// Mul returns f * o.
func (f Field) Mul(o Node) Field {
	return Field{Func(func(x, y, z int) float64 { return f.At(x, y, z) * o.At(x, y, z) })}
}

// ScaleBias returns f*scale + bias.
func (f Field) ScaleBias(scale, bias float64) Field {
	return Field{Func(func(x, y, z int) float64 { return f.At(x, y, z)*scale + bias })}
}

// Scale returns f*scale.
func (f Field) Scale(scale float64) Field { return f.ScaleBias(scale, 0) }

// Bias returns f + bias.
func (f Field) Bias(bias float64) Field { return f.ScaleBias(1, bias) }

// Clamp limits f to [lo, hi].
func (f Field) Clamp(lo, hi float64) Field {
	return Field{Func(func(x, y, z int) float64 {
		return math.Max(lo, math.Min(hi, f.At(x, y, z)))
	})}
}

// Sign selects which values a conditional combinator applies to.
type Sign int

const (
	Negative Sign = iota
	Positive
)

func (s Sign) match(v float64) bool {
	if s == Negative {
		return v < 0
	}
	return v > 0
}

// MulIf multiplies values of the given sign by o.
func (f Field) MulIf(s Sign, o Node) Field {
	return Field{Func(func(x, y, z int) float64 {
		v := f.At(x, y, z)
		if s.match(v) {
			return v * o.At(x, y, z)
		}
		return v
	})}
}

// DivIf divides values of the given sign by o.
func (f Field) DivIf(s Sign, o Node) Field {
	return Field{Func(func(x, y, z int) float64 {
		v := f.At(x, y, z)
		if s.match(v) {
			return v / o.At(x, y, z)
		}
		return v
	})}
}

// Signum returns -1, 0 or 1 following the sign of f.
func (f Field) Signum() Field {
	return Field{Func(func(x, y, z int) float64 {
		v := f.At(x, y, z)
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	})}
}

// Lerp interpolates between a and b by t, without clamping t.
func Lerp(t, a, b Node) Field {
	return Field{Func(func(x, y, z int) float64 {
		tv := t.At(x, y, z)
		av := a.At(x, y, z)
		return av + tv*(b.At(x, y, z)-av)
	})}
}

// Cached2D memoizes f per (x, z) column. key flattens the column into the
// cache hash; y is ignored when evaluating the wrapped field.
func (f Field) Cached2D(capacity int, key func(x, z int) int) Field {
	c := cache.New(capacity,
		func(k [2]int) int { return key(k[0], k[1]) },
		func(k [2]int) float64 { return f.At(k[0], 0, k[1]) })
	return Field{Func(func(x, _, z int) float64 { return c.Get([2]int{x, z}) })}
}

// Cached3D memoizes f per block.
func (f Field) Cached3D(capacity int, key func(x, y, z int) int, opts cache.Options) Field {
	c := cache.NewWithOptions(capacity,
		func(k [3]int) int { return key(k[0], k[1], k[2]) },
		func(k [3]int) float64 { return f.At(k[0], k[1], k[2]) },
		opts)
	return Field{Func(func(x, y, z int) float64 { return c.Get([3]int{x, y, z}) })}
}
