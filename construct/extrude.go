package construct

import (
	"fmt"

	"github.com/alexozer/nurbs"
	"github.com/alexozer/nurbs/geom"
)

// Extrude sweeps profile linearly along direction. The surface follows the
// profile in u and is linear in v on [0, 1]: Evaluate(u, 0) is the profile
// and Evaluate(u, 1) is the profile translated by direction.
func Extrude[T geom.Float](profile *nurbs.NurbsCurve[T], direction geom.Vec3[T]) (*nurbs.NurbsSurface[T], error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: profile is nil", nurbs.ErrIncompatibleCurves)
	}
	if direction.IsZero(geom.Epsilon[T]()) || !geom.IsFinite(direction.LengthSqr()) {
		return nil, fmt.Errorf("%w: extrusion direction %v", nurbs.ErrDegenerateDirection, direction)
	}

	profPoints := profile.ControlPoints()
	profWeights := profile.Weights()

	points := make([][]geom.Vec3[T], len(profPoints))
	weights := make([][]T, len(profPoints))
	for i, pt := range profPoints {
		points[i] = []geom.Vec3[T]{pt, pt.Add(direction)}
		weights[i] = []T{profWeights[i], profWeights[i]}
	}

	return nurbs.NewNurbsSurface(
		profile.Degree(), 1,
		points, weights,
		profile.Knots(), []T{0, 0, 1, 1},
		nurbs.WithDomainPolicy(profile.DomainPolicy()),
	)
}
