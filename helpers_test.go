package nurbs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexozer/nurbs/geom"
)

func nan() float64 { return math.NaN() }

// quarterCircle is the exact rational quadratic arc of the unit circle from
// (1, 0, 0) to (0, 1, 0).
func quarterCircle[T geom.Float](t testing.TB) *NurbsCurve[T] {
	t.Helper()
	w := T(math.Sqrt2 / 2)
	crv, err := NewNurbsCurve(2,
		[]geom.Vec3[T]{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		[]T{1, w, 1},
		[]T{0, 0, 0, 1, 1, 1},
	)
	require.NoError(t, err)
	return crv
}

// wavyCurve is a non-planar cubic with interior knots and varied weights.
func wavyCurve(t testing.TB) *NurbsCurve[float64] {
	t.Helper()
	crv, err := NewNurbsCurve(3,
		[]geom.Vec3[float64]{
			{0, 0, 0}, {1, 2, 0.5}, {2, -1, 1}, {3, 1, -0.5}, {4, 0, 0.25}, {5, 2, 1},
		},
		[]float64{1, 0.5, 2, 1, 1.5, 1},
		[]float64{0, 0, 0, 0, 0.3, 0.6, 1, 1, 1, 1},
	)
	require.NoError(t, err)
	return crv
}

// planeSurface is a flat cubic patch in z = 0 spanning [0, 2] × [0, 1].
func planeSurface(t testing.TB) *NurbsSurface[float64] {
	t.Helper()
	const n = 4
	pts := make([][]geom.Vec3[float64], n)
	for i := range pts {
		pts[i] = make([]geom.Vec3[float64], n)
		for j := range pts[i] {
			pts[i][j] = geom.V3(2*float64(i)/(n-1), float64(j)/(n-1), 0)
		}
	}
	knots := []float64{0, 0, 0, 0, 1, 1, 1, 1}
	srf, err := NewNurbsSurface(3, 3, pts, nil, knots, knots)
	require.NoError(t, err)
	return srf
}

// bumpSurface is a biquadratic patch with a raised, weighted center.
func bumpSurface(t testing.TB) *NurbsSurface[float64] {
	t.Helper()
	pts := [][]geom.Vec3[float64]{
		{{0, 0, 0}, {0, 1, 0}, {0, 2, 0}, {0, 3, 0}},
		{{1, 0, 0}, {1, 1, 2}, {1, 2, 1}, {1, 3, 0}},
		{{2, 0, 0}, {2, 1, 1}, {2, 2, 3}, {2, 3, 0}},
		{{3, 0, 0}, {3, 1, 0}, {3, 2, 0}, {3, 3, 0}},
	}
	weights := [][]float64{
		{1, 1, 1, 1},
		{1, 2, 1, 1},
		{1, 1, 0.5, 1},
		{1, 1, 1, 1},
	}
	knots := []float64{0, 0, 0, 0.5, 1, 1, 1}
	srf, err := NewNurbsSurface(2, 2, pts, weights, knots, knots)
	require.NoError(t, err)
	return srf
}

// cylinderSurface is a quarter cylinder of radius one and height two: the
// quarter circle in u, straight along z in v.
func cylinderSurface(t testing.TB) *NurbsSurface[float64] {
	t.Helper()
	w := math.Sqrt2 / 2
	pts := [][]geom.Vec3[float64]{
		{{1, 0, 0}, {1, 0, 2}},
		{{1, 1, 0}, {1, 1, 2}},
		{{0, 1, 0}, {0, 1, 2}},
	}
	weights := [][]float64{{1, 1}, {w, w}, {1, 1}}
	srf, err := NewNurbsSurface(2, 1, pts, weights, []float64{0, 0, 0, 1, 1, 1}, []float64{0, 0, 1, 1})
	require.NoError(t, err)
	return srf
}

// numericDerivative differentiates f by central differences.
func numericDerivative(f func(float64) geom.Vec3[float64], u, h float64) geom.Vec3[float64] {
	return f(u + h).Sub(f(u - h)).Scaled(1 / (2 * h))
}
