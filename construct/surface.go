package construct

import (
	"fmt"

	"github.com/alexozer/nurbs"
	"github.com/alexozer/nurbs/geom"
)

// FourPointSurface returns the bilinear patch through four corners given
// in order around its boundary, raised to the given degree in both
// directions. p1 sits at (0, 0), p2 at (1, 0), p3 at (1, 1) and p4 at (0, 1).
func FourPointSurface[T geom.Float](p1, p2, p3, p4 geom.Vec3[T], degree int) (*nurbs.NurbsSurface[T], error) {
	if degree < 1 {
		return nil, fmt.Errorf("%w: degree %d is below 1", nurbs.ErrInvalidDegree, degree)
	}
	fdeg := T(degree)

	pts := make([][]geom.Vec3[T], degree+1)
	for i := range pts {
		s := T(i) / fdeg
		lo := p1.Lerp(p2, s)
		hi := p4.Lerp(p3, s)

		row := make([]geom.Vec3[T], degree+1)
		for j := range row {
			row[j] = lo.Lerp(hi, T(j)/fdeg)
		}
		pts[i] = row
	}

	knots := make([]T, 2*(degree+1))
	for i := degree + 1; i < len(knots); i++ {
		knots[i] = 1
	}
	return nurbs.NewNurbsSurface(degree, degree, pts, nil, knots, knots)
}

// CylindricalSurface returns the side of a cylinder standing on base along
// axis. u runs around the circle starting at xaxis, v runs up the axis.
func CylindricalSurface[T geom.Float](axis, xaxis, base geom.Vec3[T], height, radius T) (*nurbs.NurbsSurface[T], error) {
	if axis.IsZero(geom.Epsilon[T]()) {
		return nil, fmt.Errorf("%w: cylinder axis is zero", nurbs.ErrDegenerateDirection)
	}
	axis = axis.Normalized()
	yaxis := axis.Cross(xaxis)

	circ, err := Circle(base, xaxis, yaxis, radius)
	if err != nil {
		return nil, err
	}
	return Extrude(circ, axis.Scaled(height))
}
