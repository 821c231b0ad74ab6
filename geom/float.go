// Package geom holds the numeric capability shared by every part of the
// NURBS engine: the Float constraint, per-precision epsilons, the Vec3 value
// type and the Transform abstraction over rigid transforms.
//
// The engine is written once against Float and instantiated for float32 or
// float64. Vectors from github.com/ungerik/go3d convert to Vec3 with a plain
// type conversion:
//
//	var p vec3.T = vec3.T{1, 2, 3}
//	q := geom.Vec3[float64](p)
package geom

import "math"

// Float is the type constraint for supported floating-point precisions.
type Float interface {
	float32 | float64
}

// Comparison epsilons and geometric tolerances per precision.
const (
	epsilon64   = 1e-10
	epsilon32   = 1e-5
	tolerance64 = 1e-6
	tolerance32 = 1e-4
)

// Epsilon returns the smallest difference considered significant when
// comparing parameter values of precision T.
func Epsilon[T Float]() T {
	var zero T
	if _, ok := any(zero).(float32); ok {
		return T(epsilon32)
	}
	return T(epsilon64)
}

// Tolerance returns the default geometric tolerance for precision T.
func Tolerance[T Float]() T {
	var zero T
	if _, ok := any(zero).(float32); ok {
		return T(tolerance32)
	}
	return T(tolerance64)
}

func Sqrt[T Float](x T) T {
	return T(math.Sqrt(float64(x)))
}

func Abs[T Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func IsNaN[T Float](x T) bool {
	return x != x
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite[T Float](x T) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}

// NearlyEqual reports whether a and b differ by less than Epsilon.
func NearlyEqual[T Float](a, b T) bool {
	return Abs(a-b) < Epsilon[T]()
}
