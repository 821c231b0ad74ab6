package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Arithmetic(t *testing.T) {
	a, b := V3(1.0, 2, 3), V3(-2.0, 0.5, 4)

	assert.Equal(t, V3(-1.0, 2.5, 7), a.Add(b))
	assert.Equal(t, V3(3.0, 1.5, -1), a.Sub(b))
	assert.Equal(t, V3(2.0, 4, 6), a.Scaled(2))
	assert.Equal(t, V3(-1.0, -2, -3), a.Neg())
	assert.Equal(t, 11.0, a.Dot(b))
	assert.Equal(t, 14.0, a.LengthSqr())
	assert.Equal(t, 1.0, a.X())
	assert.Equal(t, 2.0, a.Y())
	assert.Equal(t, 3.0, a.Z())

	x, y := V3(1.0, 0, 0), V3(0.0, 1, 0)
	assert.Equal(t, V3(0.0, 0, 1), x.Cross(y))
	assert.Equal(t, V3(0.0, 0, -1), y.Cross(x))
}

func TestVec3Length(t *testing.T) {
	v := V3(3.0, 4, 0)
	assert.Equal(t, 5.0, v.Length())
	n := v.Normalized()
	assert.InDeltaSlice(t, []float64{0.6, 0.8, 0}, n[:], 1e-15)
	assert.Equal(t, Vec3[float64]{}, Vec3[float64]{}.Normalized())

	assert.Equal(t, 5.0, V3(1.0, 1, 1).Distance(V3(4.0, 5, 1)))
	assert.Equal(t, 25.0, V3(1.0, 1, 1).SquareDistance(V3(4.0, 5, 1)))
}

func TestVec3Lerp(t *testing.T) {
	a, b := V3(0.0, 0, 0), V3(2.0, -4, 8)
	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
	assert.Equal(t, V3(0.5, -1, 2), a.Lerp(b, 0.25))
}

func TestVec3Comparisons(t *testing.T) {
	assert.True(t, V3(1e-7, -1e-7, 0).IsZero(1e-6))
	assert.False(t, V3(1e-5, 0, 0).IsZero(1e-6))

	assert.True(t, V3(1.0, 1, 1).ApproxEqual(V3(1.0, 1, 1+1e-9), 1e-6))
	assert.False(t, V3(1.0, 1, 1).ApproxEqual(V3(1.0, 1.1, 1), 1e-6))
}

func TestCast(t *testing.T) {
	v := V3(1.5, -2.25, 1e-3)
	f := Cast[float32](v)
	assert.Equal(t, V3[float32](1.5, -2.25, 1e-3), f)
	assert.InDelta(t, 1e-3, float64(Cast[float64](f).Z()), 1e-9)
}

func TestUV(t *testing.T) {
	uv := UV[float32]{0.25, 0.75}
	assert.Equal(t, float32(0.25), uv.U())
	assert.Equal(t, float32(0.75), uv.V())
}

func TestFloatHelpers(t *testing.T) {
	assert.Equal(t, 1e-10, Epsilon[float64]())
	assert.Equal(t, float32(1e-5), Epsilon[float32]())
	assert.Equal(t, 1e-6, Tolerance[float64]())
	assert.Equal(t, float32(1e-4), Tolerance[float32]())

	assert.Equal(t, float32(3), Sqrt[float32](9))
	assert.Equal(t, 2.5, Abs(-2.5))
	assert.True(t, IsNaN(math.NaN()))
	assert.False(t, IsNaN(1.0))
	assert.True(t, IsFinite(float32(1)))
	assert.False(t, IsFinite(math.Inf(-1)))
	assert.False(t, IsFinite(math.NaN()))

	assert.True(t, NearlyEqual(1.0, 1+1e-12))
	assert.False(t, NearlyEqual(1.0, 1+1e-8))
	assert.True(t, NearlyEqual[float32](1, 1+1e-6))
}
