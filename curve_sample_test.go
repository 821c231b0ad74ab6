package nurbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexozer/nurbs/geom"
)

func TestRegularSample(t *testing.T) {
	crv := quarterCircle[float64](t)

	samples := crv.RegularSample(5)
	require.Len(t, samples, 5)
	for i, s := range samples {
		assert.InDelta(t, float64(i)/4, s.U, 1e-15)
		assert.InDelta(t, 1, s.Pt.Length(), 1e-12)
	}
	assert.Equal(t, 1.0, samples[4].U)

	assert.Len(t, crv.RegularSample(0), 2)
}

func TestCurveTessellate(t *testing.T) {
	crv := wavyCurve(t)

	coarse := crv.Tessellate(1e-2)
	fine := crv.Tessellate(1e-6)
	assert.Greater(t, len(fine), len(coarse))

	lo, hi := crv.Domain()
	for _, samples := range [][]CurvePoint[float64]{coarse, fine} {
		assert.Equal(t, lo, samples[0].U)
		assert.Equal(t, hi, samples[len(samples)-1].U)
		for i, s := range samples {
			pt, err := crv.Evaluate(s.U)
			require.NoError(t, err)
			assert.Equal(t, pt, s.Pt)
			if i > 0 {
				assert.Greater(t, s.U, samples[i-1].U)
			}
		}
	}

	// a non-positive tolerance falls back to the default
	assert.Equal(t, crv.Tessellate(geom.Tolerance[float64]()), crv.Tessellate(0))
}

func TestCurveTessellatePolyline(t *testing.T) {
	pts := []geom.Vec3[float64]{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 1}}
	crv, err := NewNurbsCurve(1, pts, nil, []float64{0, 0, 0.2, 0.7, 1, 1})
	require.NoError(t, err)

	samples := crv.Tessellate(1e-3)
	require.Len(t, samples, len(pts))
	for i, s := range samples {
		assert.Equal(t, pts[i], s.Pt)
	}
	assert.Equal(t, []float64{0, 0.2, 0.7, 1}, []float64{samples[0].U, samples[1].U, samples[2].U, samples[3].U})
}

func TestCurveTessellateClosedLoop(t *testing.T) {
	// a closed loop whose ends coincide must still be subdivided
	loop, err := NewNurbsCurve(2,
		[]geom.Vec3[float64]{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}, {0, 0, 0}},
		nil, []float64{0, 0, 0, 0.3, 0.6, 1, 1, 1})
	require.NoError(t, err)

	samples := loop.Tessellate(1e-4)
	assert.Greater(t, len(samples), 8)
}

func TestThreePointsAreCollinear(t *testing.T) {
	a, b, c := geom.V3(0.0, 0, 0), geom.V3(1.0, 1, 1), geom.V3(2.0, 2, 2)
	assert.True(t, threePointsAreCollinear(a, b, c, 1e-10))
	assert.False(t, threePointsAreCollinear(a, geom.V3(1.0, 1.1, 1), c, 1e-10))
}
