package nurbs

import (
	"fmt"

	"github.com/alexozer/nurbs/geom"
)

// FrenetFrame is the moving frame of a curve at one parameter. Tangent,
// Normal and Binormal are unit vectors forming a right-handed basis.
type FrenetFrame[T geom.Float] struct {
	Position geom.Vec3[T]
	Tangent  geom.Vec3[T]
	Normal   geom.Vec3[T]
	Binormal geom.Vec3[T]
}

// FrenetFrames returns the frame at each parameter in params. The normal
// points to the center of curvature. Where the curve is straight the
// curvature gives no normal, so the previous frame's normal is carried
// along, or an axis perpendicular to the tangent is used for the first.
func (c *NurbsCurve[T]) FrenetFrames(params []T) ([]FrenetFrame[T], error) {
	eps := geom.Epsilon[T]()
	frames := make([]FrenetFrame[T], len(params))

	var prev geom.Vec3[T]
	for i, u := range params {
		ders, err := c.Derivatives(u, 2)
		if err != nil {
			return nil, fmt.Errorf("frenet frame at u=%v: %w", u, err)
		}
		d1, d2 := ders[1], ders[2]
		if d1.IsZero(eps) {
			return nil, fmt.Errorf("%w: zero tangent at u=%v", ErrDegenerateDirection, u)
		}
		t := d1.Normalized()

		var n geom.Vec3[T]
		b := d1.Cross(d2)
		if bl := b.Length(); bl > eps*d1.Length()*d2.Length() {
			n = b.Scaled(1 / bl).Cross(t)
		} else {
			n = transportNormal(prev, t, eps)
		}
		n = n.Normalized()
		prev = n

		frames[i] = FrenetFrame[T]{
			Position: ders[0],
			Tangent:  t,
			Normal:   n,
			Binormal: t.Cross(n),
		}
	}
	return frames, nil
}

// transportNormal projects prev onto the plane normal to t.
func transportNormal[T geom.Float](prev, t geom.Vec3[T], eps T) geom.Vec3[T] {
	n := prev.Sub(t.Scaled(prev.Dot(t)))
	if !n.IsZero(eps) {
		return n
	}

	// cross with the axis t is least aligned with
	var axis geom.Vec3[T]
	k := 0
	for i := 1; i < 3; i++ {
		if geom.Abs(t[i]) < geom.Abs(t[k]) {
			k = i
		}
	}
	axis[k] = 1
	return t.Cross(axis)
}
