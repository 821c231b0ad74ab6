package nurbs

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexozer/nurbs/geom"
	"github.com/alexozer/nurbs/internal/testutil"
)

// assertPassesThrough checks that crv hits points[i] at params[i].
func assertPassesThrough(t *testing.T, crv *NurbsCurve[float64], points []geom.Vec3[float64], params []float64, delta float64) {
	t.Helper()
	require.Len(t, params, len(points))
	for i, u := range params {
		pt, err := crv.Evaluate(u)
		require.NoError(t, err)
		testutil.AssertVecInDelta(t, points[i], pt, delta, "point %d at u=%v", i, u)
	}
}

func TestInterpolateHouseOutline(t *testing.T) {
	points := testutil.HouseOutline[float64]()
	crv, params, err := InterpolateWithParameters(points, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, crv.Degree())
	assert.Len(t, crv.ControlPoints(), len(points))
	assert.True(t, crv.Knots().IsClamped(3))
	assert.Equal(t, 0.0, params[0])
	assert.Equal(t, 1.0, params[len(params)-1])
	assertPassesThrough(t, crv, points, params, 1e-10)

	// the ends are exact on a clamped curve
	lo, hi := crv.Domain()
	start, err := crv.Evaluate(lo)
	require.NoError(t, err)
	end, err := crv.Evaluate(hi)
	require.NoError(t, err)
	assert.Equal(t, points[0], start)
	testutil.AssertVecInDelta(t, points[len(points)-1], end, 1e-12)
}

func TestInterpolateDegrees(t *testing.T) {
	points := testutil.Wavy[float64]()
	for _, degree := range []int{1, 2, 3, 4, 6} {
		for _, mode := range []Parameterization{ChordLength, Centripetal} {
			t.Run(fmt.Sprintf("%s/degree%d", mode, degree), func(t *testing.T) {
				crv, params, err := InterpolateWithParameters(points, degree, WithParameterization(mode))
				require.NoError(t, err, "degree %d", degree)
				assert.Equal(t, degree, crv.Degree())
				assertPassesThrough(t, crv, points, params, 1e-9)
			})
		}
	}
}

func TestInterpolateFloat32(t *testing.T) {
	points := testutil.Wavy[float32]()
	crv, params, err := InterpolateWithParameters(points, 3)
	require.NoError(t, err)
	for i, u := range params {
		pt, err := crv.Evaluate(u)
		require.NoError(t, err)
		testutil.AssertVecInDelta(t, points[i], pt, 1e-4)
	}
}

func TestInterpolateSolvers(t *testing.T) {
	points := testutil.Wavy[float64]()
	lu, err := Interpolate(points, 3)
	require.NoError(t, err)
	qr, err := Interpolate(points, 3, WithSolver(QRSolver{}))
	require.NoError(t, err)

	for i := range lu.ControlPoints() {
		testutil.AssertVecInDelta(t, lu.ControlPoints()[i], qr.ControlPoints()[i], 1e-9)
	}

	// a nil solver falls back to the default
	def, err := Interpolate(points, 3, WithSolver(nil))
	require.NoError(t, err)
	assert.Equal(t, lu.ControlPoints(), def.ControlPoints())
}

func TestInterpolateEndTangents(t *testing.T) {
	points := testutil.Wavy[float64]()
	start, end := geom.V3(1.0, 2, 0), geom.V3(3.0, -1, 1)

	for _, degree := range []int{2, 3} {
		crv, params, err := InterpolateWithParameters(points, degree, WithEndTangents(start, end))
		require.NoError(t, err)

		assert.Len(t, crv.ControlPoints(), len(points)+2)
		assertPassesThrough(t, crv, points, params, 1e-9)

		lo, hi := crv.Domain()
		ders, err := crv.Derivatives(lo, 1)
		require.NoError(t, err)
		testutil.AssertVecInDelta(t, start, ders[1], 1e-9, "degree %d start tangent", degree)
		ders, err = crv.Derivatives(hi, 1)
		require.NoError(t, err)
		testutil.AssertVecInDelta(t, end, ders[1], 1e-9, "degree %d end tangent", degree)
	}
}

func TestInterpolatePeriodic(t *testing.T) {
	points := testutil.HouseOutline[float64]()
	for _, degree := range []int{2, 3} {
		crv, params, err := InterpolateWithParameters(points, degree, WithPeriodic())
		require.NoError(t, err, "degree %d", degree)

		assert.False(t, crv.Knots().IsClamped(degree))
		assert.Len(t, crv.ControlPoints(), len(points)+degree)
		assertPassesThrough(t, crv, points, params, 1e-9)

		// the seam is smooth
		lo, hi := crv.Domain()
		assert.InDelta(t, 1, hi-lo, 1e-12)
		first, err := crv.Derivatives(lo, 1)
		require.NoError(t, err)
		last, err := crv.Derivatives(hi, 1)
		require.NoError(t, err)
		testutil.AssertVecInDelta(t, first[0], last[0], 1e-9, "degree %d seam point", degree)
		testutil.AssertVecInDelta(t, first[1], last[1], 1e-8, "degree %d seam tangent", degree)
	}
}

func TestInterpolatePeriodicDropsClosingPoint(t *testing.T) {
	closed := testutil.UnitSquare[float64]()
	open := closed[:len(closed)-1]

	a, pa, err := InterpolateWithParameters(closed, 3, WithPeriodic())
	require.NoError(t, err)
	b, pb, err := InterpolateWithParameters(open, 3, WithPeriodic())
	require.NoError(t, err)

	assert.Equal(t, pb, pa)
	assert.Equal(t, b.ControlPoints(), a.ControlPoints())
	assert.True(t, a.IsClosed())
}

func TestInterpolateCurveOptions(t *testing.T) {
	crv, err := Interpolate(testutil.Wavy[float64](), 3, WithCurveOptions(WithDomainPolicy(DomainStrict)))
	require.NoError(t, err)
	assert.Equal(t, DomainStrict, crv.DomainPolicy())
	_, err = crv.Evaluate(1.5)
	assert.ErrorIs(t, err, ErrParameterOutOfDomain)
}

func TestInterpolateErrors(t *testing.T) {
	wavy := testutil.Wavy[float64]()
	dup := []geom.Vec3[float64]{{0, 0, 0}, {1, 0, 0}, {1, 0, 0}, {2, 1, 0}}

	tests := []struct {
		name    string
		points  []geom.Vec3[float64]
		degree  int
		opts    []InterpolateOption
		wantErr error
	}{
		{"degree zero", wavy, 0, nil, ErrInvalidDegree},
		{"too few points", wavy[:3], 3, nil, ErrDegenerateInterpolation},
		{"single point", wavy[:1], 1, nil, ErrDegenerateInterpolation},
		{"coincident points", dup, 2, nil, ErrDegenerateInterpolation},
		{"periodic with tangents", wavy, 3, []InterpolateOption{
			WithPeriodic(), WithEndTangents(geom.V3(1.0, 0, 0), geom.V3(1.0, 0, 0)),
		}, ErrInvalidConfig},
		{"periodic too few", wavy[:2], 1, []InterpolateOption{WithPeriodic()}, ErrDegenerateInterpolation},
		{"tangents with one point", wavy[:1], 2, []InterpolateOption{
			WithEndTangents(geom.V3(1.0, 0, 0), geom.V3(1.0, 0, 0)),
		}, ErrDegenerateInterpolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crv, err := Interpolate(tt.points, tt.degree, tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, crv)
		})
	}
}

func TestInterpolateRows(t *testing.T) {
	// a quadratic spline reproduces u² exactly
	params := []float64{0, 0.25, 0.5, 0.8, 1}
	rows := make([][]float64, len(params))
	for i, u := range params {
		rows[i] = []float64{u * u, 1}
	}

	knots, ctrl, err := InterpolateRows(params, 2, rows)
	require.NoError(t, err)
	require.Len(t, ctrl, len(params))

	for _, u := range testutil.Linspace(0.0, 1, 17) {
		basis := basisRow(u, 2, knots, len(ctrl))
		var got, unity float64
		for j, nv := range basis {
			got += nv * ctrl[j][0]
			unity += nv * ctrl[j][1]
		}
		assert.InDelta(t, u*u, got, 1e-12, "u=%v", u)
		assert.InDelta(t, 1, unity, 1e-12, "u=%v", u)
	}

	_, _, err = InterpolateRows(params[:4], 2, rows)
	assert.ErrorIs(t, err, ErrDegenerateInterpolation)
	_, _, err = InterpolateRows([]float64{0, 0.5, 0.5, 0.8, 1}, 2, rows)
	assert.ErrorIs(t, err, ErrDegenerateInterpolation)
	_, _, err = InterpolateRows(params, 0, rows)
	assert.ErrorIs(t, err, ErrInvalidDegree)

	ragged := [][]float64{{0}, {1}, {2, 3}, {4}, {5}}
	_, _, err = InterpolateRows(params, 2, ragged)
	assert.ErrorIs(t, err, ErrDegenerateInterpolation)
	assert.ErrorIs(t, err, ErrSingularSystem)
}

func TestAveragedKnots(t *testing.T) {
	// The NURBS Book, example 9.1
	params := []float64{0, 5.0 / 17, 9.0 / 17, 14.0 / 17, 1}
	got, err := AveragedKnots(params, 3)
	require.NoError(t, err)
	want := KnotVector[float64]{0, 0, 0, 0, 28.0 / 51, 1, 1, 1, 1}
	if diff := cmp.Diff(want, got, approxKnots); diff != "" {
		t.Errorf("AveragedKnots mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, got.Validate(3, len(params)))

	_, err = AveragedKnots([]float64{}, 3)
	assert.ErrorIs(t, err, ErrDegenerateInterpolation)
	_, err = AveragedKnots(params[:3], 3)
	assert.ErrorIs(t, err, ErrDegenerateInterpolation)
	_, err = AveragedKnots(params, 0)
	assert.ErrorIs(t, err, ErrInvalidDegree)
}

func TestParameterize(t *testing.T) {
	points := []geom.Vec3[float64]{{0, 0, 0}, {3, 0, 0}, {3, 4, 0}}

	chord, err := Parameterize(points, ChordLength)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 3.0 / 7, 1}, chord, 1e-15)

	centripetal, err := Parameterize(points, Centripetal)
	require.NoError(t, err)
	s3 := math.Sqrt(3)
	assert.InDeltaSlice(t, []float64{0, s3 / (s3 + 2), 1}, centripetal, 1e-15)

	_, err = Parameterize(points[:1], ChordLength)
	assert.ErrorIs(t, err, ErrDegenerateInterpolation)

	assert.Equal(t, "Parameterization(7)", Parameterization(7).String())
}
