package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexozer/nurbs/geom"
)

func TestRayIntersect(t *testing.T) {
	a := Ray[float64]{Origin: geom.V3(1.0, 0, 0), Dir: geom.V3(0.0, 1, 0)}
	b := Ray[float64]{Origin: geom.V3(0.0, 1, 0), Dir: geom.V3(1.0, 0, 0)}

	t0, t1, ok := a.Intersect(b)
	assert.True(t, ok)
	assert.InDelta(t, 1, t0, 1e-15)
	assert.InDelta(t, 1, t1, 1e-15)

	// skew lines report their closest approach
	c := Ray[float64]{Origin: geom.V3(0.0, 3, 2), Dir: geom.V3(2.0, 0, 0)}
	t0, t1, ok = a.Intersect(c)
	assert.True(t, ok)
	assert.InDelta(t, 3, t0, 1e-15)
	assert.InDelta(t, 0.5, t1, 1e-15)
}

func TestRayIntersectParallel(t *testing.T) {
	a := Ray[float64]{Origin: geom.V3(0.0, 0, 0), Dir: geom.V3(1.0, 1, 0)}
	b := Ray[float64]{Origin: geom.V3(0.0, 1, 0), Dir: geom.V3(-2.0, -2, 0)}
	_, _, ok := a.Intersect(b)
	assert.False(t, ok)
}
