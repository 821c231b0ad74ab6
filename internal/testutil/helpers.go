// Package testutil holds fixtures and assertions shared by the package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/alexozer/nurbs/geom"
)

// AssertVecInDelta asserts that every component of actual is within delta
// of expected.
func AssertVecInDelta[T geom.Float](t testing.TB, expected, actual geom.Vec3[T], delta float64, msgAndArgs ...any) bool {
	t.Helper()
	return assert.InDeltaSlice(t, expected[:], actual[:], delta, msgAndArgs...)
}

// RigidMotion rotates by angle about the z axis and then translates by d.
func RigidMotion(angle float64, d vec3.T) geom.Transform[float64] {
	var m mat4.T
	m.AssignZRotation(angle)
	m.SetTranslation(&d)
	return geom.Go3D(&m)
}

// ScaleThenTranslate scales each axis by s and then translates by d.
func ScaleThenTranslate(s, d vec3.T) geom.Transform[float64] {
	m := mat4.Ident
	m.ScaleVec3(&s)
	m.SetTranslation(&d)
	return geom.Go3D(&m)
}

// HouseOutline is a closed square with a roof peak, listed without repeating
// the first point.
func HouseOutline[T geom.Float]() []geom.Vec3[T] {
	return []geom.Vec3[T]{
		{0, 0, 0},
		{1, 0, 0},
		{1, 1, 0},
		{0.5, 1.5, 0},
		{0, 1, 0},
		{0, 0.5, 0},
	}
}

// UnitSquare is the corners of the unit square in the xy plane, closed by
// repeating the first corner.
func UnitSquare[T geom.Float]() []geom.Vec3[T] {
	return []geom.Vec3[T]{
		{0, 0, 0},
		{1, 0, 0},
		{1, 1, 0},
		{0, 1, 0},
		{0, 0, 0},
	}
}

// Wavy is an open, non-planar point set used for interpolation tests.
func Wavy[T geom.Float]() []geom.Vec3[T] {
	return []geom.Vec3[T]{
		{0, 0, 0},
		{1, 0.5, 0.2},
		{2, -0.3, 0.1},
		{3, 0.8, -0.4},
		{4, 0.1, 0.3},
		{5, -0.6, 0},
		{6, 0.2, 0.5},
	}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace[T geom.Float](lo, hi T, n int) []T {
	if n == 1 {
		return []T{lo}
	}
	out := make([]T, n)
	for i := range out {
		out[i] = lo + (hi-lo)*T(i)/T(n-1)
	}
	out[n-1] = hi
	return out
}
