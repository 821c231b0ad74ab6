package construct

import (
	"fmt"
	"math"

	"github.com/alexozer/nurbs"
	"github.com/alexozer/nurbs/geom"
	"github.com/alexozer/nurbs/internal"
)

// Line returns the straight degree-1 curve from first to last.
func Line[T geom.Float](first, last geom.Vec3[T]) (*nurbs.NurbsCurve[T], error) {
	return Polyline([]geom.Vec3[T]{first, last})
}

// Polyline returns a degree-1 curve through pts, parameterized by
// normalized chord length on [0, 1].
func Polyline[T geom.Float](pts []geom.Vec3[T]) (*nurbs.NurbsCurve[T], error) {
	if len(pts) < 2 {
		return nil, fmt.Errorf("%w: a polyline needs at least 2 points, got %d", nurbs.ErrInvalidDegree, len(pts))
	}

	knots := make([]T, len(pts)+2)
	var lsum T
	for i := 0; i < len(pts)-1; i++ {
		d := pts[i].Distance(pts[i+1])
		if !(d > geom.Epsilon[T]()) {
			return nil, fmt.Errorf("%w: points %d and %d coincide", nurbs.ErrDegenerateDirection, i, i+1)
		}
		lsum += d
		knots[i+2] = lsum
	}
	knots[len(knots)-1] = lsum

	for i := range knots {
		knots[i] /= lsum
	}
	return nurbs.NewNurbsCurve(1, pts, nil, knots)
}

// BezierCurve returns the single-segment curve of degree len(pts)-1 on
// [0, 1]. Nil weights mean a polynomial curve.
func BezierCurve[T geom.Float](pts []geom.Vec3[T], weights []T) (*nurbs.NurbsCurve[T], error) {
	degree := len(pts) - 1
	if degree < 1 {
		return nil, fmt.Errorf("%w: a bezier curve needs at least 2 points, got %d", nurbs.ErrInvalidDegree, len(pts))
	}

	knots := make([]T, 2*degree+2)
	for i := degree + 1; i < len(knots); i++ {
		knots[i] = 1
	}
	return nurbs.NewNurbsCurve(degree, pts, weights, knots)
}

// Arc returns the circular arc of the given radius in the plane spanned by
// xaxis and yaxis, swept counterclockwise from startAngle to endAngle
// (radians).
func Arc[T geom.Float](center, xaxis, yaxis geom.Vec3[T], radius, startAngle, endAngle T) (*nurbs.NurbsCurve[T], error) {
	return EllipseArc(center, xaxis.Normalized().Scaled(radius), yaxis.Normalized().Scaled(radius), startAngle, endAngle)
}

// Circle returns the full circle of the given radius.
func Circle[T geom.Float](center, xaxis, yaxis geom.Vec3[T], radius T) (*nurbs.NurbsCurve[T], error) {
	return Arc(center, xaxis, yaxis, radius, 0, 2*math.Pi)
}

// Ellipse returns the full ellipse whose semi-axes are xaxis and yaxis.
func Ellipse[T geom.Float](center, xaxis, yaxis geom.Vec3[T]) (*nurbs.NurbsCurve[T], error) {
	return EllipseArc(center, xaxis, yaxis, 0, 2*math.Pi)
}

// EllipseArc returns the exact rational quadratic arc of the ellipse with
// semi-axes xaxis and yaxis between two angles, on the domain [0, 1]
// (corresponds to algorithm A7.1 from The NURBS book, Piegl & Tiller 2nd edition).
//
// An endAngle below startAngle yields the full ellipse starting at
// startAngle. Sweeps longer than a full turn are truncated to one turn.
func EllipseArc[T geom.Float](center, xaxis, yaxis geom.Vec3[T], startAngle, endAngle T) (*nurbs.NurbsCurve[T], error) {
	xradius, yradius := float64(xaxis.Length()), float64(yaxis.Length())
	if xradius <= float64(geom.Epsilon[T]()) || yradius <= float64(geom.Epsilon[T]()) {
		return nil, fmt.Errorf("%w: ellipse axes must be non-zero", nurbs.ErrDegenerateDirection)
	}
	xaxisNorm, yaxisNorm := xaxis.Normalized(), yaxis.Normalized()

	start, end := float64(startAngle), float64(endAngle)
	if end < start {
		end = 2*math.Pi + start
	}
	theta := min(end-start, 2*math.Pi)
	if !(theta > 0) {
		return nil, fmt.Errorf("%w: empty sweep from %v to %v", nurbs.ErrDegenerateDirection, startAngle, endAngle)
	}

	var numArcs int
	switch {
	case theta <= math.Pi/2:
		numArcs = 1
	case theta <= math.Pi:
		numArcs = 2
	case theta <= 3*math.Pi/2:
		numArcs = 3
	default:
		numArcs = 4
	}

	dtheta := theta / float64(numArcs)
	w1 := T(math.Cos(dtheta / 2))

	onEllipse := func(angle float64) geom.Vec3[T] {
		x := xaxisNorm.Scaled(T(xradius * math.Cos(angle)))
		y := yaxisNorm.Scaled(T(yradius * math.Sin(angle)))
		return center.Add(x).Add(y)
	}
	tangentAt := func(angle float64) geom.Vec3[T] {
		x := xaxisNorm.Scaled(T(-xradius * math.Sin(angle)))
		y := yaxisNorm.Scaled(T(yradius * math.Cos(angle)))
		return x.Add(y).Normalized()
	}

	controlPoints := make([]geom.Vec3[T], 2*numArcs+1)
	weights := make([]T, 2*numArcs+1)

	angle := start
	p0, t0 := onEllipse(angle), tangentAt(angle)
	controlPoints[0] = p0
	weights[0] = 1

	for i := 1; i <= numArcs; i++ {
		angle += dtheta
		p2, t2 := onEllipse(angle), tangentAt(angle)

		a, _, ok := internal.Ray[T]{Origin: p0, Dir: t0}.Intersect(internal.Ray[T]{Origin: p2, Dir: t2})
		if !ok {
			return nil, fmt.Errorf("%w: arc tangents are parallel", nurbs.ErrDegenerateDirection)
		}

		controlPoints[2*i-1] = p0.Add(t0.Scaled(a))
		weights[2*i-1] = w1
		controlPoints[2*i] = p2
		weights[2*i] = 1

		p0, t0 = p2, t2
	}

	knots := make([]T, 2*numArcs+4)
	for i := 0; i < 3; i++ {
		knots[len(knots)-1-i] = 1
	}
	for i := 1; i < numArcs; i++ {
		k := T(i) / T(numArcs)
		knots[2*i+1] = k
		knots[2*i+2] = k
	}

	return nurbs.NewNurbsCurve(2, controlPoints, weights, knots)
}
