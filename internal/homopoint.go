// Package internal holds homogeneous-coordinate helpers and small ordered
// set utilities shared by the curve and surface engines.
package internal

import "github.com/alexozer/nurbs/geom"

// HomoPoint is a weighted control point in homogeneous form (w·P, w).
type HomoPoint[T geom.Float] struct {
	Vec geom.Vec3[T]
	W   T
}

func (hp HomoPoint[T]) Add(o HomoPoint[T]) HomoPoint[T] {
	return HomoPoint[T]{hp.Vec.Add(o.Vec), hp.W + o.W}
}

func (hp HomoPoint[T]) Sub(o HomoPoint[T]) HomoPoint[T] {
	return HomoPoint[T]{hp.Vec.Sub(o.Vec), hp.W - o.W}
}

func (hp HomoPoint[T]) Scaled(f T) HomoPoint[T] {
	return HomoPoint[T]{hp.Vec.Scaled(f), hp.W * f}
}

// AddScaled returns hp + f·o.
func (hp HomoPoint[T]) AddScaled(o HomoPoint[T], f T) HomoPoint[T] {
	return HomoPoint[T]{
		geom.Vec3[T]{hp.Vec[0] + f*o.Vec[0], hp.Vec[1] + f*o.Vec[1], hp.Vec[2] + f*o.Vec[2]},
		hp.W + f*o.W,
	}
}

// Components returns the homogeneous coordinates as (x, y, z, w).
func (hp HomoPoint[T]) Components() [4]T {
	return [4]T{hp.Vec[0], hp.Vec[1], hp.Vec[2], hp.W}
}

// FromComponents is the inverse of Components.
func FromComponents[T geom.Float](c [4]T) HomoPoint[T] {
	return HomoPoint[T]{geom.Vec3[T]{c[0], c[1], c[2]}, c[3]}
}

func Homogenized[T geom.Float](pt geom.Vec3[T], w T) HomoPoint[T] {
	return HomoPoint[T]{pt.Scaled(w), w}
}

// Homogenize1d turns points and their weights into (w·P, w) form.
// A nil weights slice means all weights are one.
func Homogenize1d[T geom.Float](pts []geom.Vec3[T], weights []T) []HomoPoint[T] {
	homoPts := make([]HomoPoint[T], len(pts))
	for i, pt := range pts {
		w := T(1)
		if weights != nil {
			w = weights[i]
		}
		homoPts[i] = Homogenized(pt, w)
	}
	return homoPts
}

// Homogenize2d is Homogenize1d applied row by row.
func Homogenize2d[T geom.Float](pts [][]geom.Vec3[T], weights [][]T) [][]HomoPoint[T] {
	homoPts := make([][]HomoPoint[T], len(pts))
	for i := range homoPts {
		var row []T
		if weights != nil {
			row = weights[i]
		}
		homoPts[i] = Homogenize1d(pts[i], row)
	}
	return homoPts
}

// Dehomogenized projects the point back to Cartesian space.
func (hp HomoPoint[T]) Dehomogenized() geom.Vec3[T] {
	return hp.Vec.Scaled(1 / hp.W)
}

func Dehomogenize1d[T geom.Float](homoPoints []HomoPoint[T]) []geom.Vec3[T] {
	result := make([]geom.Vec3[T], len(homoPoints))
	for i, hp := range homoPoints {
		result[i] = hp.Dehomogenized()
	}
	return result
}

func Dehomogenize2d[T geom.Float](homoPoints [][]HomoPoint[T]) [][]geom.Vec3[T] {
	result := make([][]geom.Vec3[T], len(homoPoints))
	for i := range result {
		result[i] = Dehomogenize1d(homoPoints[i])
	}
	return result
}

func Weight1d[T geom.Float](homoPoints []HomoPoint[T]) []T {
	weights := make([]T, len(homoPoints))
	for i := range weights {
		weights[i] = homoPoints[i].W
	}
	return weights
}

func Weight2d[T geom.Float](homoPoints [][]HomoPoint[T]) [][]T {
	weights := make([][]T, len(homoPoints))
	for i := range weights {
		weights[i] = Weight1d(homoPoints[i])
	}
	return weights
}

// HomoInterpolated returns (1-t)·a + t·b, weight included.
func HomoInterpolated[T geom.Float](a, b HomoPoint[T], t T) HomoPoint[T] {
	return HomoPoint[T]{a.Vec.Lerp(b.Vec, t), (1-t)*a.W + t*b.W}
}

// Clone2d copies a control net so the result shares no storage with pts.
func Clone2d[T geom.Float](pts [][]HomoPoint[T]) [][]HomoPoint[T] {
	out := make([][]HomoPoint[T], len(pts))
	for i := range pts {
		out[i] = append([]HomoPoint[T](nil), pts[i]...)
	}
	return out
}

// Transposed swaps the two indices of a rectangular control net.
func Transposed[T geom.Float](pts [][]HomoPoint[T]) [][]HomoPoint[T] {
	if len(pts) == 0 {
		return nil
	}
	out := make([][]HomoPoint[T], len(pts[0]))
	for j := range out {
		out[j] = make([]HomoPoint[T], len(pts))
		for i := range pts {
			out[j][i] = pts[i][j]
		}
	}
	return out
}
