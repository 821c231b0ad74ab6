// Package simdops provides per-precision vector kernels for float32 and
// float64 so the generic engine code can reach the SIMD implementations
// without duplicating itself per type.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"

	"github.com/alexozer/nurbs/geom"
)

// Ops provides SIMD-accelerated operations for type F.
type Ops[F geom.Float] struct {
	// DotProductUnsafe computes the dot product without bounds checking.
	// Use only when slices are guaranteed to have equal length.
	DotProductUnsafe func(a, b []F) F

	// Sum returns the sum of all elements.
	Sum func(a []F) F

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []F, s F)
}

var (
	ops32 = Ops[float32]{
		DotProductUnsafe: f32.DotProductUnsafe,
		Sum:              f32.Sum,
		Scale:            f32.Scale,
	}
	ops64 = Ops[float64]{
		DotProductUnsafe: f64.DotProductUnsafe,
		Sum:              f64.Sum,
		Scale:            f64.Scale,
	}
)

// For returns the Ops instance for type F.
// The type switch happens once per call site, not per element.
func For[F geom.Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float64")
		}
		return ops
	default:
		panic("simdops: unsupported float type")
	}
}

// Dot is DotProductUnsafe guarded by a length check. Slices of different
// lengths are truncated to the shorter one.
func (o *Ops[F]) Dot(a, b []F) F {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	return o.DotProductUnsafe(a[:n], b[:n])
}

// Mean returns the arithmetic mean of a, or 0 when a is empty.
func (o *Ops[F]) Mean(a []F) F {
	if len(a) == 0 {
		return 0
	}
	return o.Sum(a) / F(len(a))
}
